package parser

import (
	"regexp"
	"strings"

	"resume-screener/internal/types"
)

// sectionHeader 行内的规范标题（词边界，不区分大小写）
var sectionHeader = regexp.MustCompile(`(?i)\b(SUMMARY|EXPERIENCE|EDUCATION|SKILLS|CERTIFICATIONS|PROJECTS)\b`)

// Segmentation 分段结果
type Segmentation struct {
	Sections types.SectionMap
	// Order 章节第一次出现的顺序
	Order []types.SectionType
	// Preamble 第一个标题之前的行，不属于任何章节，只供姓名和简介提取使用
	Preamble []string
}

// Has 章节是否存在且有内容
func (s *Segmentation) Has(section types.SectionType) bool {
	return len(s.Sections[section]) > 0
}

// AllLines 按出现顺序返回全部章节内容行
func (s *Segmentation) AllLines() []string {
	return s.Sections.AllLines(s.Order)
}

// Segment 逐行扫描规范化文本，把内容行归入最近打开的章节。
// 标题行中标题之后的文字作为新章节的第一行内容，标题之前的文字归入上一个章节
func Segment(normalized string) *Segmentation {
	seg := &Segmentation{Sections: types.SectionMap{}}

	var (
		current types.SectionType
		open    bool
		buf     []string
	)

	store := func() {
		if !open || len(buf) == 0 {
			return
		}
		if _, seen := seg.Sections[current]; !seen {
			seg.Order = append(seg.Order, current)
		}
		seg.Sections[current] = append(seg.Sections[current], buf...)
		buf = nil
	}
	appendLine := func(line string) {
		if line == "" {
			return
		}
		if open {
			buf = append(buf, line)
		} else {
			seg.Preamble = append(seg.Preamble, line)
		}
	}

	for _, raw := range strings.Split(normalized, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		loc := sectionHeader.FindStringSubmatchIndex(line)
		if loc == nil {
			appendLine(line)
			continue
		}

		appendLine(strings.TrimSpace(line[:loc[0]]))
		store()

		current = types.SectionType(strings.ToUpper(line[loc[2]:loc[3]]))
		open = true
		appendLine(strings.TrimLeft(line[loc[1]:], " \t:-.;,"))
	}
	store()

	return seg
}
