package types

import "time"

// AnalysisPath 标记结果来自哪条提取路径
type AnalysisPath string

const (
	// PathAnalyzer 外部分析器成功返回，同时附带启发式记录
	PathAnalyzer AnalysisPath = "analyzer"
	// PathHeuristicFallback 分析器不可用，仅有启发式记录
	PathHeuristicFallback AnalysisPath = "heuristic_fallback"
)

// EntityView 面向简单消费者的扁平视图
type EntityView struct {
	Name       []string `json:"name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	Skills     []string `json:"skills"`
	Education  []string `json:"education"`
	Experience []string `json:"experience"`
}

// ResultMetadata 处理元数据
type ResultMetadata struct {
	ProcessedAt time.Time `json:"processed_at"`
	SourcePath  string    `json:"source_path,omitempty"`
	Page        int       `json:"page,omitempty"`
	TextLength  int       `json:"text_length"`
	ModelUsed   string    `json:"model_used,omitempty"`
	AnalysisID  string    `json:"analysis_id"`
}

// AnalysisResult 一份文档的完整分析结果
type AnalysisResult struct {
	DocumentID         string                 `json:"document_id"`
	Path               AnalysisPath           `json:"path"`
	AnalyzerOutput     string                 `json:"analyzer_output,omitempty"`
	AnalyzerStructured map[string]interface{} `json:"analyzer_structured,omitempty"`
	Record             *CandidateRecord       `json:"record"`
	Entities           *EntityView            `json:"entities,omitempty"`
	Metadata           ResultMetadata         `json:"metadata"`
}

// FailedItem 批处理中失败的条目
type FailedItem struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
	// Label 面向人的条目描述，例如 "Page 2 of resumes.pdf"
	Label string `json:"label,omitempty"`
}

// String 生成 "label - reason" 形式的描述，没有 Label 时使用 ID
func (f FailedItem) String() string {
	name := f.ID
	if f.Label != "" {
		name = f.Label
	}
	return name + " - " + f.Reason
}

// BatchReport 批处理报告：成功的标识与失败的标识及原因
type BatchReport struct {
	Processed []string     `json:"processed"`
	Failed    []FailedItem `json:"failed"`
}

// NewBatchReport 创建空报告
func NewBatchReport() *BatchReport {
	return &BatchReport{Processed: []string{}, Failed: []FailedItem{}}
}
