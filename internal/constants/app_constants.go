package constants

const (
	// RecordObjectPrefix MinIO 中分析结果对象的前缀
	RecordObjectPrefix = "records/"
	// RecordContentType 分析结果对象的内容类型
	RecordContentType = "application/json"

	// EventRecordExtracted 记录提取完成事件
	EventRecordExtracted = "record.extracted"
	// EventSource 事件来源
	EventSource = "resume-screener"
)
