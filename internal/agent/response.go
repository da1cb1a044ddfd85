package agent

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// ErrNoJSON 分析器输出中没有 JSON 对象
var ErrNoJSON = errors.New("分析器输出中没有找到JSON对象")

var jsonFence = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// AnalyzerSummary 分析器 JSON 输出中下游会用到的字段。
// 模型输出的类型并不稳定（数字写成字符串、列表写成单个字符串），解码时做弱类型转换
type AnalyzerSummary struct {
	PersonalInfo struct {
		Name     string `mapstructure:"name"`
		Email    string `mapstructure:"email"`
		Phone    string `mapstructure:"phone"`
		Location string `mapstructure:"location"`
	} `mapstructure:"personal_info"`
	Skills       map[string][]string `mapstructure:"skills"`
	Achievements []string            `mapstructure:"achievements"`
	Summary      string              `mapstructure:"summary"`
}

// extractJSON 从文本中提取JSON：优先取 ```json 代码块，其次按括号配对截取第一个对象
func extractJSON(text string) string {
	if matches := jsonFence.FindStringSubmatch(text); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}

	start := strings.Index(text, "{")
	if start == -1 {
		return ""
	}

	level := 0
	inStr := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inStr:
			escaped = true
		case c == '"':
			inStr = !inStr
		case c == '{' && !inStr:
			level++
		case c == '}' && !inStr:
			level--
			if level == 0 {
				return strings.TrimSpace(text[start : i+1])
			}
		}
	}
	return ""
}

// sanitizeJSON 把字符串字面量内部未转义的双引号改写为 \"。
// 判断依据：下一个非空白字符是 : , ] } 之一时才认为是字符串结束
func sanitizeJSON(src string) string {
	var b strings.Builder
	inStr := false
	escaped := false

	for i := 0; i < len(src); i++ {
		c := src[i]

		switch {
		case c == '"' && !escaped:
			if !inStr {
				inStr = true
				b.WriteByte(c)
				break
			}
			j := i + 1
			for j < len(src) && (src[j] == ' ' || src[j] == '\t' || src[j] == '\n' || src[j] == '\r') {
				j++
			}
			if j >= len(src) || src[j] == ':' || src[j] == ',' || src[j] == ']' || src[j] == '}' {
				inStr = false
				b.WriteByte(c)
			} else {
				b.WriteString("\\\"")
			}
			escaped = false
		case c == '\\' && !escaped:
			escaped = true
			b.WriteByte(c)
		default:
			b.WriteByte(c)
			escaped = false
		}
	}
	return b.String()
}

// ParseAnalyzerJSON 尽力从分析器输出中解析出 JSON 对象，失败时用 sanitizeJSON 修复后再试一次
func ParseAnalyzerJSON(output string) (map[string]interface{}, error) {
	raw := extractJSON(output)
	if raw == "" {
		return nil, ErrNoJSON
	}

	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &obj); err == nil {
		return obj, nil
	}
	if err := json.Unmarshal([]byte(sanitizeJSON(raw)), &obj); err != nil {
		return nil, fmt.Errorf("解析分析器JSON失败: %w", err)
	}
	return obj, nil
}

// DecodeAnalyzerSummary 把解析出的 JSON 对象解码为 AnalyzerSummary
func DecodeAnalyzerSummary(obj map[string]interface{}) (*AnalyzerSummary, error) {
	var summary AnalyzerSummary
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &summary,
		DecodeHook:       mapstructure.ComposeDecodeHookFunc(skillsHook, mapstructure.StringToSliceHookFunc(",")),
	})
	if err != nil {
		return nil, fmt.Errorf("创建解码器失败: %w", err)
	}
	if err := decoder.Decode(obj); err != nil {
		return nil, fmt.Errorf("解码分析器输出失败: %w", err)
	}
	return &summary, nil
}

// skillsHook 技能字段既可能是 分类→列表，也可能是扁平列表，扁平列表统一放入 "all" 分类
func skillsHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if to.String() != "map[string][]string" {
		return data, nil
	}
	switch v := data.(type) {
	case []interface{}:
		return map[string]interface{}{"all": v}, nil
	case string:
		return map[string]interface{}{"all": v}, nil
	}
	return data, nil
}
