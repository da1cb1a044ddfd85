package parser

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"resume-screener/internal/logger"
	"resume-screener/internal/types"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"
)

const (
	defaultPageHeight   = 792.0 // US Letter，MediaBox 缺失时使用
	defaultRowTolerance = 2.0   // 同一行基线允许的偏差(pt)
)

// glyph 一段带坐标的字形文本，Y 为 PDF 坐标（自下而上）
type glyph struct {
	X, Y, W  float64
	FontSize float64
	S        string
}

// LayoutPDFExtractor 基于字形坐标重建阅读顺序的 PDF 文本提取器
type LayoutPDFExtractor struct {
	logger       zerolog.Logger
	rowTolerance float64
}

// LayoutPDFOption 提取器配置选项
type LayoutPDFOption func(*LayoutPDFExtractor)

// WithLayoutLogger 配置自定义日志记录器
func WithLayoutLogger(l zerolog.Logger) LayoutPDFOption {
	return func(e *LayoutPDFExtractor) {
		e.logger = l
	}
}

// WithRowTolerance 设置行合并的基线容差
func WithRowTolerance(pt float64) LayoutPDFOption {
	return func(e *LayoutPDFExtractor) {
		if pt > 0 {
			e.rowTolerance = pt
		}
	}
}

// NewLayoutPDFExtractor 创建版面感知的 PDF 提取器
func NewLayoutPDFExtractor(options ...LayoutPDFOption) *LayoutPDFExtractor {
	e := &LayoutPDFExtractor{
		logger:       logger.Component("pdf_layout"),
		rowTolerance: defaultRowTolerance,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Extract 实现 processor.DocumentExtractor 接口
func (e *LayoutPDFExtractor) Extract(ctx context.Context, path string) (doc *types.RawDocument, err error) {
	startTime := time.Now()

	// ledongthuc/pdf 遇到损坏的文件会 panic
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = NewDocumentReadError(path, fmt.Errorf("PDF解码异常: %v", r))
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, NewDocumentReadError(path, err)
	}
	defer f.Close()

	doc = &types.RawDocument{Path: path}
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, NewDocumentReadError(path, ctxErr)
		}

		p := reader.Page(i)
		if p.V.IsNull() {
			continue
		}

		height := pageHeight(p)
		content := p.Content()
		glyphs := make([]glyph, 0, len(content.Text))
		for _, t := range content.Text {
			glyphs = append(glyphs, glyph{X: t.X, Y: t.Y, W: t.W, FontSize: t.FontSize, S: t.S})
		}

		page := types.Page{
			Number: i,
			Height: height,
			Blocks: groupGlyphs(glyphs, height, e.rowTolerance),
		}
		page.SortBlocks()
		doc.Pages = append(doc.Pages, page)
	}

	if strings.TrimSpace(doc.Text()) == "" {
		return nil, NewDocumentReadError(path, ErrNoText)
	}

	e.logger.Debug().
		Str("path", path).
		Int("pages", len(doc.Pages)).
		Dur("elapsed", time.Since(startTime)).
		Msg("PDF版面提取完成")
	return doc, nil
}

// pageHeight 读取页面 MediaBox 高度，页面本身没有时向上查找父节点
func pageHeight(p pdf.Page) float64 {
	box := p.V.Key("MediaBox")
	if box.IsNull() {
		box = p.V.Key("Parent").Key("MediaBox")
	}
	if box.Len() == 4 {
		if h := box.Index(3).Float64() - box.Index(1).Float64(); h > 0 {
			return h
		}
	}
	return defaultPageHeight
}

// groupGlyphs 将字形按基线合并为行文本块，并把 Y 换算为距页面顶部的距离
func groupGlyphs(glyphs []glyph, height, tolerance float64) []types.TextBlock {
	if len(glyphs) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPageHeight
	}

	sorted := make([]glyph, len(glyphs))
	copy(sorted, glyphs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var blocks []types.TextBlock
	var row []glyph
	rowY := sorted[0].Y
	flush := func() {
		if len(row) == 0 {
			return
		}
		if text := joinRow(row); strings.TrimSpace(text) != "" {
			blocks = append(blocks, types.TextBlock{
				Top:  height - rowY,
				Left: row[0].X,
				Text: text,
			})
		}
		row = row[:0]
	}

	for _, g := range sorted {
		if len(row) > 0 && math.Abs(g.Y-rowY) > tolerance {
			flush()
		}
		if len(row) == 0 {
			rowY = g.Y
		}
		row = append(row, g)
	}
	flush()
	return blocks
}

// joinRow 按 X 顺序拼接一行字形；小间隔补一个空格，大间隔（分栏）补两个空格
func joinRow(row []glyph) string {
	sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })

	var b strings.Builder
	for i, g := range row {
		if i > 0 {
			prev := row[i-1]
			gap := g.X - (prev.X + prev.W)
			size := prev.FontSize
			if size <= 0 {
				size = 10
			}
			switch {
			case gap > size*2:
				b.WriteString("  ")
			case gap > size*0.25 && !strings.HasSuffix(b.String(), " ") && !strings.HasPrefix(g.S, " "):
				b.WriteByte(' ')
			}
		}
		b.WriteString(g.S)
	}
	return b.String()
}
