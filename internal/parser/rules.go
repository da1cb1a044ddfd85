package parser

import "strings"

// lineRule 一条按行匹配的规则。规则表自上而下求值，第一条命中的规则处理该行
type lineRule[T any] struct {
	name  string
	match func(line string) bool
	apply func(acc *accumulator[T], line string)
}

// accumulator 正在构建的条目以及已完成的条目
type accumulator[T any] struct {
	current    T
	entries    []T
	hasContent func(*T) bool
}

// flush 当前条目有内容时加入结果，并开始一个新条目
func (a *accumulator[T]) flush() {
	if a.hasContent(&a.current) {
		a.entries = append(a.entries, a.current)
	}
	var zero T
	a.current = zero
}

// runRules 用规则表处理章节的每一行，最后把未完成的条目也输出
func runRules[T any](lines []string, rules []lineRule[T], hasContent func(*T) bool) []T {
	acc := &accumulator[T]{hasContent: hasContent}
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		for _, rule := range rules {
			if rule.match(line) {
				rule.apply(acc, line)
				break
			}
		}
	}
	acc.flush()
	if acc.entries == nil {
		acc.entries = []T{}
	}
	return acc.entries
}

// matchedRule 返回第一条命中规则的名字，没有命中时返回空串
func matchedRule[T any](rules []lineRule[T], line string) string {
	line = strings.TrimSpace(line)
	for _, rule := range rules {
		if rule.match(line) {
			return rule.name
		}
	}
	return ""
}

// always 兜底规则的匹配函数
func always(string) bool { return true }

// wordCount 按空白统计单词数
func wordCount(s string) int {
	return len(strings.Fields(s))
}

// trimBullet 去掉行首的项目符号
func trimBullet(line string) string {
	return strings.TrimSpace(strings.TrimLeft(line, "-*+> "))
}
