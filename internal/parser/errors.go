package parser

import (
	"errors"
	"fmt"
)

// ErrNoText 文档可以打开，但没有提取到任何文本（例如纯扫描件）
var ErrNoText = errors.New("文档中没有可提取的文本")

// DocumentReadError 源文档无法打开或解码。对单个文档是致命错误，批处理可以跳过后继续
type DocumentReadError struct {
	Path string
	Err  error
}

func (e *DocumentReadError) Error() string {
	return fmt.Sprintf("读取文档失败 (路径:%s): %v", e.Path, e.Err)
}

func (e *DocumentReadError) Unwrap() error {
	return e.Err
}

// NewDocumentReadError 构造 DocumentReadError
func NewDocumentReadError(path string, err error) error {
	return &DocumentReadError{Path: path, Err: err}
}

// IsDocumentReadError 判断错误链中是否包含 DocumentReadError
func IsDocumentReadError(err error) bool {
	var target *DocumentReadError
	return errors.As(err, &target)
}
