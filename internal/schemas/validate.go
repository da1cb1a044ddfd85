// Package schemas 用 JSON Schema 校验候选人记录
package schemas

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"resume-screener/internal/types"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed candidate_record.schema.json
var candidateRecordSchema []byte

// ValidationError 记录不符合 schema，包含每个字段的错误
type ValidationError struct {
	FieldErrors []FieldError
}

// FieldError 单个字段的校验错误
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	parts := make([]string, 0, len(ve.FieldErrors))
	for _, fe := range ve.FieldErrors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "记录不符合schema: " + strings.Join(parts, "; ")
}

// SchemaLoadError schema 本身无法加载
type SchemaLoadError struct {
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("加载schema失败: %s: %v", e.Message, e.Cause)
	}
	return "加载schema失败: " + e.Message
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// RecordValidator 校验候选人记录，schema 只编译一次
type RecordValidator struct {
	once   sync.Once
	schema *gojsonschema.Schema
	err    error
}

// NewRecordValidator 创建使用内置 schema 的校验器
func NewRecordValidator() *RecordValidator {
	return &RecordValidator{}
}

func (v *RecordValidator) load() (*gojsonschema.Schema, error) {
	v.once.Do(func() {
		v.schema, v.err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(candidateRecordSchema))
		if v.err != nil {
			v.err = &SchemaLoadError{Message: "candidate_record.schema.json", Cause: v.err}
		}
	})
	return v.schema, v.err
}

// ValidateRecord 校验记录，不通过时返回 *ValidationError
func (v *RecordValidator) ValidateRecord(record *types.CandidateRecord) error {
	if record == nil {
		return &ValidationError{FieldErrors: []FieldError{{Field: "(root)", Message: "记录为空"}}}
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("序列化记录失败: %w", err)
	}
	return v.ValidateJSON(data)
}

// ValidateJSON 校验已序列化的记录
func (v *RecordValidator) ValidateJSON(data []byte) error {
	schema, err := v.load()
	if err != nil {
		return err
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("读取记录JSON失败: %w", err)
	}
	if result.Valid() {
		return nil
	}

	ve := &ValidationError{FieldErrors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		ve.FieldErrors = append(ve.FieldErrors, FieldError{Field: field, Message: desc.Description()})
	}
	return ve
}

// Schema 返回内置 schema 文本
func Schema() []byte {
	return append([]byte(nil), candidateRecordSchema...)
}
