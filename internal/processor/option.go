package processor

import (
	"time"

	"github.com/rs/zerolog"
)

// AnalyzerOption ResumeAnalyzer 的配置选项
type AnalyzerOption func(*ResumeAnalyzer)

// WithDocumentExtractor 设置文档提取器
func WithDocumentExtractor(extractor DocumentExtractor) AnalyzerOption {
	return func(ra *ResumeAnalyzer) {
		if extractor != nil {
			ra.extractor = extractor
		}
	}
}

// WithRecordExtractor 设置启发式记录提取器
func WithRecordExtractor(extractor RecordExtractor) AnalyzerOption {
	return func(ra *ResumeAnalyzer) {
		if extractor != nil {
			ra.heuristics = extractor
		}
	}
}

// WithTextAnalyzer 设置外部文本分析器，nil 表示只走启发式路径。
// 分析器实现了 ModelName() 时自动记录模型名
func WithTextAnalyzer(analyzer TextAnalyzer) AnalyzerOption {
	return func(ra *ResumeAnalyzer) {
		ra.analyzer = analyzer
		if named, ok := analyzer.(interface{ ModelName() string }); ok {
			ra.modelName = named.ModelName()
		}
	}
}

// WithAnalyzerTimeout 设置单次分析调用的超时，<=0 表示不限制
func WithAnalyzerTimeout(d time.Duration) AnalyzerOption {
	return func(ra *ResumeAnalyzer) {
		ra.analyzerTimeout = d
	}
}

// WithLogger 设置日志记录器
func WithLogger(l zerolog.Logger) AnalyzerOption {
	return func(ra *ResumeAnalyzer) {
		ra.logger = l
	}
}

// WithClock 设置时间来源，测试用
func WithClock(now func() time.Time) AnalyzerOption {
	return func(ra *ResumeAnalyzer) {
		if now != nil {
			ra.now = now
		}
	}
}

// BatchOption BatchProcessor 的配置选项
type BatchOption func(*BatchProcessor)

// WithRecordStore 设置记录存储，nil 表示不保存
func WithRecordStore(store RecordStore) BatchOption {
	return func(bp *BatchProcessor) {
		bp.store = store
	}
}

// WithEventPublisher 设置事件发布器，nil 表示不发布
func WithEventPublisher(publisher EventPublisher) BatchOption {
	return func(bp *BatchProcessor) {
		bp.publisher = publisher
	}
}

// WithRecordValidator 设置保存前的记录校验
func WithRecordValidator(validator RecordValidator) BatchOption {
	return func(bp *BatchProcessor) {
		bp.validator = validator
	}
}

// WithBatchLogger 设置批处理日志记录器
func WithBatchLogger(l zerolog.Logger) BatchOption {
	return func(bp *BatchProcessor) {
		bp.logger = l
	}
}
