package parser

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"resume-screener/internal/logger"
	"resume-screener/internal/types"

	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoParser "github.com/cloudwego/eino/components/document/parser"
	"github.com/rs/zerolog"
)

// EinoPDFExtractor 使用 Eino PDF Parser 按页提取文本，每页作为一个文本块
type EinoPDFExtractor struct {
	parser  *pdf.PDFParser
	logger  zerolog.Logger
	timeout time.Duration
}

// EinoPDFOption PDF提取器的配置选项
type EinoPDFOption func(*EinoPDFExtractor)

// WithEinoLogger 配置自定义日志记录器
func WithEinoLogger(l zerolog.Logger) EinoPDFOption {
	return func(e *EinoPDFExtractor) {
		e.logger = l
	}
}

// WithEinoTimeout 设置单个文档的解析超时
func WithEinoTimeout(d time.Duration) EinoPDFOption {
	return func(e *EinoPDFExtractor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// NewEinoPDFExtractor 初始化 Eino PDF 文本提取器。
// 按页分割，以便批处理时一页对应一份简历
func NewEinoPDFExtractor(ctx context.Context, options ...EinoPDFOption) (*EinoPDFExtractor, error) {
	p, err := pdf.NewPDFParser(ctx, &pdf.Config{
		ToPages: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Eino PDF parser: %w", err)
	}

	extractor := &EinoPDFExtractor{
		parser:  p,
		logger:  logger.Component("pdf_eino"),
		timeout: 30 * time.Second,
	}
	for _, option := range options {
		option(extractor)
	}
	return extractor, nil
}

// Extract 实现 processor.DocumentExtractor 接口
func (e *EinoPDFExtractor) Extract(ctx context.Context, path string) (*types.RawDocument, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, NewDocumentReadError(path, err)
	}
	defer file.Close()

	return e.ExtractFromReader(ctx, file, path)
}

// ExtractFromReader 从 io.Reader 中按页提取文本，uri 用于日志和元数据
func (e *EinoPDFExtractor) ExtractFromReader(ctx context.Context, reader io.Reader, uri string) (*types.RawDocument, error) {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	docs, err := e.parser.Parse(ctx, reader,
		einoParser.WithURI(uri),
		einoParser.WithExtraMeta(map[string]any{
			"source_file_path": uri,
			"extraction_time":  startTime.Format(time.RFC3339),
		}),
	)
	if err != nil {
		return nil, NewDocumentReadError(uri, fmt.Errorf("eino PDF parser failed: %w", err))
	}

	raw := &types.RawDocument{Path: uri}
	for i, doc := range docs {
		if doc == nil {
			continue
		}
		raw.Pages = append(raw.Pages, types.Page{
			Number: i + 1,
			Blocks: []types.TextBlock{{Top: 0, Text: doc.Content}},
		})
	}

	if len(raw.Pages) == 0 || raw.Text() == "" {
		return nil, NewDocumentReadError(uri, ErrNoText)
	}

	e.logger.Debug().
		Str("uri", uri).
		Int("pages", len(raw.Pages)).
		Dur("elapsed", time.Since(startTime)).
		Msg("Eino PDF提取完成")
	return raw, nil
}
