package parser

import (
	"strings"

	"resume-screener/internal/types"
)

// minSummaryWords 开头段落作为简介所需的最少单词数
const minSummaryWords = 10

// ExtractSummary 优先使用 SUMMARY 章节；没有时取标题前第一个足够长的段落
func ExtractSummary(seg *Segmentation) string {
	if lines := seg.Sections.Lines(types.SectionSummary); len(lines) > 0 {
		return strings.Join(lines, " ")
	}
	for _, line := range seg.Preamble {
		if wordCount(line) > minSummaryWords {
			return line
		}
	}
	return ""
}
