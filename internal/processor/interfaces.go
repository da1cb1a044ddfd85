package processor

import (
	"context"

	"resume-screener/internal/types"
)

//
// 文档提取相关接口
//

// DocumentExtractor 文档文本提取器接口
type DocumentExtractor interface {
	// Extract 读取文档并按页返回带位置的文本，失败时返回 *parser.DocumentReadError
	Extract(ctx context.Context, path string) (*types.RawDocument, error)
}

//
// 文本分析相关接口
//

// TextAnalyzer 外部文本分析器接口。
// 返回 ("", nil) 表示分析器没有给出结果，与出错同样走启发式降级路径
type TextAnalyzer interface {
	Analyze(ctx context.Context, rawText string) (string, error)
}

// RecordExtractor 启发式记录提取器接口
type RecordExtractor interface {
	Extract(rawText string) *types.CandidateRecord
}

//
// 存储与事件相关接口
//

// RecordStore 分析结果存储接口
type RecordStore interface {
	Save(ctx context.Context, result *types.AnalysisResult) error
	Get(ctx context.Context, documentID string) (*types.AnalysisResult, error)
	List(ctx context.Context) ([]*types.AnalysisResult, error)
	Delete(ctx context.Context, documentID string) error
}

// EventPublisher 事件发布接口
type EventPublisher interface {
	PublishRecordExtracted(ctx context.Context, result *types.AnalysisResult) error
}

// RecordValidator 保存前的记录校验
type RecordValidator interface {
	ValidateRecord(record *types.CandidateRecord) error
}
