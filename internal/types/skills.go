package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// SkillSet 技能集合的标签联合：扁平列表或 分类 → 技能列表。
// JSON 编码时扁平集合输出数组，分类集合输出对象；解码时额外接受逗号分隔的字符串。
type SkillSet struct {
	Flat       []string
	Categories map[string][]string
}

// NewFlatSkillSet 创建扁平技能集合
func NewFlatSkillSet(skills []string) SkillSet {
	if skills == nil {
		skills = []string{}
	}
	return SkillSet{Flat: skills}
}

// NewCategorizedSkillSet 创建分类技能集合
func NewCategorizedSkillSet(categories map[string][]string) SkillSet {
	if categories == nil {
		categories = map[string][]string{}
	}
	return SkillSet{Categories: categories}
}

// ParseSkillString 将 "Go, SQL; Docker" 这样的字符串拆分为扁平技能集合
func ParseSkillString(s string) SkillSet {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' })
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			skills = append(skills, p)
		}
	}
	return NewFlatSkillSet(skills)
}

// IsCategorized 是否为分类形态
func (s SkillSet) IsCategorized() bool {
	return s.Categories != nil
}

// CategoryNames 返回排序后的分类名
func (s SkillSet) CategoryNames() []string {
	names := make([]string, 0, len(s.Categories))
	for k := range s.Categories {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Values 按稳定顺序返回原始技能字符串（不做大小写处理）
func (s SkillSet) Values() []string {
	if !s.IsCategorized() {
		return append([]string(nil), s.Flat...)
	}
	var out []string
	for _, name := range s.CategoryNames() {
		out = append(out, s.Categories[name]...)
	}
	return out
}

// Len 技能条目数（未去重）
func (s SkillSet) Len() int {
	if !s.IsCategorized() {
		return len(s.Flat)
	}
	n := 0
	for _, v := range s.Categories {
		n += len(v)
	}
	return n
}

// Flatten 归一化为单一集合：小写、去首尾空白、去重，保持首次出现的顺序
func (s SkillSet) Flatten() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, s.Len())
	for _, v := range s.Values() {
		n := strings.ToLower(strings.TrimSpace(v))
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// MarshalJSON 实现 json.Marshaler
func (s SkillSet) MarshalJSON() ([]byte, error) {
	if s.IsCategorized() {
		return json.Marshal(s.Categories)
	}
	if s.Flat == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.Flat)
}

// UnmarshalJSON 实现 json.Unmarshaler，接受数组、对象和逗号分隔字符串三种形态
func (s *SkillSet) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = NewFlatSkillSet(nil)
		return nil
	}

	switch data[0] {
	case '[':
		var raw []interface{}
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("解析技能数组失败: %w", err)
		}
		*s = NewFlatSkillSet(stringifyAll(raw))
	case '{':
		var raw map[string]interface{}
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("解析技能分类失败: %w", err)
		}
		categories := make(map[string][]string, len(raw))
		for k, v := range raw {
			switch val := v.(type) {
			case []interface{}:
				categories[k] = stringifyAll(val)
			case string:
				categories[k] = ParseSkillString(val).Flat
			case nil:
				categories[k] = []string{}
			default:
				categories[k] = []string{fmt.Sprint(val)}
			}
		}
		*s = NewCategorizedSkillSet(categories)
	case '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return fmt.Errorf("解析技能字符串失败: %w", err)
		}
		*s = ParseSkillString(str)
	default:
		return fmt.Errorf("不支持的技能字段形态: %s", string(data))
	}
	return nil
}

func stringifyAll(raw []interface{}) []string {
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		switch val := v.(type) {
		case nil:
			continue
		case string:
			out = append(out, val)
		default:
			out = append(out, fmt.Sprint(val))
		}
	}
	return out
}
