package parser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"resume-screener/internal/logger"
	"resume-screener/internal/types"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
)

// TikaPDFExtractor 基于 Apache Tika 服务器的提取器。
// 请求 XHTML 输出，Tika 把每页放在 <div class="page"> 中，每个段落作为一个文本块
type TikaPDFExtractor struct {
	// Tika服务器地址，例如 http://localhost:9998
	ServerURL string
	// HTTP客户端，可配置超时等参数
	Client *http.Client

	extractAnnotations bool
	logger             zerolog.Logger
}

// TikaOption 定义配置选项函数
type TikaOption func(*TikaPDFExtractor)

// WithAnnotations 配置是否提取PDF链接注释文本
func WithAnnotations(extract bool) TikaOption {
	return func(e *TikaPDFExtractor) {
		e.extractAnnotations = extract
	}
}

// WithTikaLogger 配置自定义日志记录器
func WithTikaLogger(l zerolog.Logger) TikaOption {
	return func(e *TikaPDFExtractor) {
		e.logger = l
	}
}

// WithTikaTimeout 配置HTTP客户端超时时间
func WithTikaTimeout(timeout time.Duration) TikaOption {
	return func(e *TikaPDFExtractor) {
		if timeout > 0 {
			e.Client.Timeout = timeout
		}
	}
}

// NewTikaPDFExtractor 创建一个新的Tika PDF解析器
func NewTikaPDFExtractor(serverURL string, options ...TikaOption) *TikaPDFExtractor {
	extractor := &TikaPDFExtractor{
		ServerURL:          strings.TrimRight(serverURL, "/"),
		Client:             &http.Client{Timeout: 60 * time.Second},
		extractAnnotations: true,
		logger:             logger.Component("pdf_tika"),
	}
	for _, option := range options {
		option(extractor)
	}
	return extractor
}

// Extract 实现 processor.DocumentExtractor 接口
func (e *TikaPDFExtractor) Extract(ctx context.Context, path string) (*types.RawDocument, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, NewDocumentReadError(path, err)
	}
	defer file.Close()

	return e.ExtractFromReader(ctx, file, path)
}

// ExtractFromReader 把文档发送给 Tika 并按页解析返回的 XHTML
func (e *TikaPDFExtractor) ExtractFromReader(ctx context.Context, reader io.Reader, uri string) (*types.RawDocument, error) {
	startTime := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, e.ServerURL+"/tika", reader)
	if err != nil {
		return nil, NewDocumentReadError(uri, fmt.Errorf("创建HTTP请求失败: %w", err))
	}
	req.Header.Set("Content-Type", "application/pdf")
	req.Header.Set("Accept", "text/html")
	if uri != "" {
		req.Header.Set("X-Tika-Resource-Name", uri)
	}
	if !e.extractAnnotations {
		req.Header.Set("X-Tika-PDFExtractAnnotationText", "false")
	}

	resp, err := e.Client.Do(req)
	if err != nil {
		return nil, NewDocumentReadError(uri, fmt.Errorf("发送请求到Tika服务器失败: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, NewDocumentReadError(uri, fmt.Errorf("tika服务器返回错误状态码: %d", resp.StatusCode))
	}

	html, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, NewDocumentReadError(uri, fmt.Errorf("解析Tika响应失败: %w", err))
	}

	doc := &types.RawDocument{Path: uri, Pages: pagesFromXHTML(html)}
	e.logger.Debug().
		Str("uri", uri).
		Int("pages", len(doc.Pages)).
		Dur("duration", time.Since(startTime)).
		Msg("Tika 提取完成")
	return doc, nil
}

// pagesFromXHTML 没有分页标记时整个 body 作为第一页
func pagesFromXHTML(html *goquery.Document) []types.Page {
	pageNodes := html.Find("div.page")
	if pageNodes.Length() == 0 {
		return []types.Page{{Number: 1, Blocks: blocksFrom(html.Find("body"))}}
	}

	pages := make([]types.Page, 0, pageNodes.Length())
	pageNodes.Each(func(i int, s *goquery.Selection) {
		pages = append(pages, types.Page{Number: i + 1, Blocks: blocksFrom(s)})
	})
	return pages
}

// blocksFrom 段落作为文本块，Top 取段落序号以保持阅读顺序
func blocksFrom(s *goquery.Selection) []types.TextBlock {
	blocks := []types.TextBlock{}
	paragraphs := s.Find("p")
	if paragraphs.Length() == 0 {
		if text := strings.TrimSpace(s.Text()); text != "" {
			blocks = append(blocks, types.TextBlock{Text: text})
		}
		return blocks
	}
	paragraphs.Each(func(i int, p *goquery.Selection) {
		text := strings.TrimSpace(p.Text())
		if text == "" {
			return
		}
		blocks = append(blocks, types.TextBlock{Top: float64(i), Text: text})
	})
	return blocks
}
