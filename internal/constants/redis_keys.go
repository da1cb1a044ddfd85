package constants

// Redis Key 前缀和格式常量
// 使用统一的命名规范: app:{module}:{entity}:{unique_id}
const (
	// AppPrefix 是所有Redis Key的统一应用前缀
	AppPrefix = "app"

	// ResumeModulePrefix 简历模块
	ResumeModulePrefix = "resume"

	// EntityRecord 分析结果实体
	EntityRecord = "record"
	// EntityIndex 记录索引实体
	EntityIndex = "index"

	// KeyResumeRecord 单条分析结果 (STRING, JSON)
	// 格式: app:resume:record:{documentID}
	KeyResumeRecord = AppPrefix + ":" + ResumeModulePrefix + ":" + EntityRecord + ":%s"

	// KeyResumeIndex 全部记录的索引，score 为处理时间的 Unix 毫秒 (ZSET)
	// 格式: app:resume:index
	KeyResumeIndex = AppPrefix + ":" + ResumeModulePrefix + ":" + EntityIndex
)
