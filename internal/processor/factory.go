package processor

import (
	"context"
	"fmt"
	"time"

	"resume-screener/internal/agent"
	"resume-screener/internal/config"
	"resume-screener/internal/parser"
)

const (
	defaultExtractTimeout  = 30 * time.Second
	defaultAnalyzerTimeout = 60 * time.Second
)

// NewDocumentExtractorFromConfig 按 extractor.backend 创建文档提取器
func NewDocumentExtractorFromConfig(ctx context.Context, cfg config.ExtractorConfig) (DocumentExtractor, error) {
	switch cfg.Backend {
	case "", "layout":
		return parser.NewLayoutPDFExtractor(), nil
	case "eino":
		e, err := parser.NewEinoPDFExtractor(ctx, parser.WithEinoTimeout(config.GetDuration(cfg.Timeout, defaultExtractTimeout)))
		if err != nil {
			return nil, fmt.Errorf("创建 eino PDF 提取器失败: %w", err)
		}
		return e, nil
	case "tika":
		return parser.NewTikaPDFExtractor(cfg.TikaURL,
			parser.WithTikaTimeout(config.GetDuration(cfg.Timeout, defaultExtractTimeout)),
		), nil
	default:
		return nil, fmt.Errorf("不支持的提取器: %s", cfg.Backend)
	}
}

// NewHeuristicExtractorFromConfig 按 heuristics 配置创建启发式提取器
func NewHeuristicExtractorFromConfig(cfg config.HeuristicsConfig) *parser.HeuristicExtractor {
	return parser.NewHeuristicExtractor(
		parser.WithSkillMode(parser.SkillMode(cfg.SkillMode)),
		parser.WithNameSearchLines(cfg.NameSearchLines),
		parser.WithExtraCities(cfg.ExtraCities),
		parser.WithPhoneRegion(cfg.PhoneRegion),
	)
}

// NewResumeAnalyzerFromConfig 组装提取器、启发式提取器和（可选的）外部分析器
func NewResumeAnalyzerFromConfig(ctx context.Context, cfg *config.Config) (*ResumeAnalyzer, error) {
	extractor, err := NewDocumentExtractorFromConfig(ctx, cfg.Extractor)
	if err != nil {
		return nil, err
	}

	opts := []AnalyzerOption{
		WithDocumentExtractor(extractor),
		WithRecordExtractor(NewHeuristicExtractorFromConfig(cfg.Heuristics)),
		WithAnalyzerTimeout(config.GetDuration(cfg.Analyzer.Timeout, defaultAnalyzerTimeout)),
	}

	textAnalyzer, err := agent.NewAnalyzerFromConfig(ctx, cfg.Analyzer)
	if err != nil {
		return nil, err
	}
	if textAnalyzer != nil {
		opts = append(opts, WithTextAnalyzer(textAnalyzer))
	}

	return NewResumeAnalyzer(opts...), nil
}
