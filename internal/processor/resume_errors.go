package processor

import (
	"errors"
	"fmt"
)

// 定义基础错误类型
var (
	ErrAnalyzerUnavailable = errors.New("文本分析器不可用")
	ErrExtractFailed       = errors.New("提取简历文本失败")
	ErrStoreRecordFailed   = errors.New("保存候选人记录失败")
	ErrPublishEventFailed  = errors.New("发布提取事件失败")
	ErrSchemaInvalid       = errors.New("候选人记录未通过校验")
)

// ResumeProcessError 包含详细错误信息的自定义错误
type ResumeProcessError struct {
	DocumentID string
	Op         string
	BaseErr    error
	Detail     string
}

func (e *ResumeProcessError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (操作:%s, 文档:%s): %s", e.BaseErr, e.Op, e.DocumentID, e.Detail)
	}
	return fmt.Sprintf("%s (操作:%s, 文档:%s)", e.BaseErr, e.Op, e.DocumentID)
}

func (e *ResumeProcessError) Unwrap() error {
	return e.BaseErr
}

// Is 实现 errors.Is 接口以支持错误比较
func (e *ResumeProcessError) Is(target error) bool {
	return errors.Is(e.BaseErr, target)
}

// Reason 批处理报告中使用的简短原因
func (e *ResumeProcessError) Reason() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.BaseErr, e.Detail)
	}
	return e.BaseErr.Error()
}

// 错误构造函数
func NewExtractError(documentID, detail string) error {
	return &ResumeProcessError{
		DocumentID: documentID,
		Op:         "extract",
		BaseErr:    ErrExtractFailed,
		Detail:     detail,
	}
}

func NewStoreError(documentID, detail string) error {
	return &ResumeProcessError{
		DocumentID: documentID,
		Op:         "store",
		BaseErr:    ErrStoreRecordFailed,
		Detail:     detail,
	}
}

func NewPublishError(documentID, detail string) error {
	return &ResumeProcessError{
		DocumentID: documentID,
		Op:         "publish",
		BaseErr:    ErrPublishEventFailed,
		Detail:     detail,
	}
}

func NewSchemaError(documentID, detail string) error {
	return &ResumeProcessError{
		DocumentID: documentID,
		Op:         "validate",
		BaseErr:    ErrSchemaInvalid,
		Detail:     detail,
	}
}

// failureReason 从错误中提取批处理报告使用的原因
func failureReason(err error) string {
	var rpe *ResumeProcessError
	if errors.As(err, &rpe) {
		return rpe.Reason()
	}
	return err.Error()
}
