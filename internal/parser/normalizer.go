package parser

import (
	"regexp"
	"strings"

	"resume-screener/internal/types"
)

// headerSynonym 一条标题同义词替换规则
type headerSynonym struct {
	pattern     *regexp.Regexp
	replacement types.SectionType
}

// headerSynonyms 按顺序应用的同义词替换表，长的写法排在前面。
// 单词之间只允许行内空白，已经分到两行的标题不会被重新合并
var headerSynonyms = []headerSynonym{
	{regexp.MustCompile(`(?i)\b(?:WORK[ \t]*EXPERIENCE|EMPLOYMENT[ \t]*HISTORY|PROFESSIONAL[ \t]*EXPERIENCE)\b`), types.SectionExperience},
	{regexp.MustCompile(`(?i)\b(?:EDUCATION(?:AL)?[ \t]*(?:BACKGROUND|QUALIFICATIONS?)|ACADEMIC[ \t]*(?:BACKGROUND|QUALIFICATIONS?))\b`), types.SectionEducation},
	{regexp.MustCompile(`(?i)\b(?:TECHNICAL[ \t]*SKILLS(?:[ \t]*(?:AND[ \t]*)?COMPETENCIES)?|SKILLS[ \t]*(?:AND[ \t]*)?COMPETENCIES|KEY[ \t]*COMPETENCIES|CORE[ \t]*COMPETENCIES)\b`), types.SectionSkills},
	{regexp.MustCompile(`(?i)\b(?:PROFESSIONAL[ \t]*SUMMARY|PROFILE[ \t]*SUMMARY|CAREER[ \t]*OBJECTIVE|OBJECTIVE)\b`), types.SectionSummary},
	{regexp.MustCompile(`(?i)\b(?:LICENSES[ \t]*(?:AND[ \t]*)?CERTIFICATIONS|CERTIFICATES)\b`), types.SectionCertifications},
	{regexp.MustCompile(`(?i)\b(?:PERSONAL|ACADEMIC|KEY)[ \t]*PROJECTS\b`), types.SectionProjects},
}

var (
	// typographyReplacer 排版符号转为 ASCII；项目符号转为两个空格，作为分栏分隔保留下来
	typographyReplacer = strings.NewReplacer(
		"–", "-", "—", "-", "‒", "-", "−", "-",
		"•", "  ", "▪", "  ", "●", "  ", "◦", "  ", "·", "  ", "|", "  ",
		"\r\n", "\n", "\r", "\n",
	)

	// unsafeChars 安全字符集之外的字符：字母数字下划线、空白以及 .,;:()@+-
	unsafeChars = regexp.MustCompile(`[^\p{L}\p{N}_\s.,;:()@+\-]`)

	// headerOccurrence 任意位置出现的规范标题
	headerOccurrence = regexp.MustCompile(`(?i)\b(SUMMARY|EXPERIENCE|EDUCATION|SKILLS|CERTIFICATIONS|PROJECTS)\b`)

	// horizontalRun 两个及以上的行内空白
	horizontalRun = regexp.MustCompile(`[^\S\n]{2,}`)
)

// replaceSynonyms 反复应用同义词表直到文本不再变化。
// 一次替换可能和相邻的词组成新的同义词，例如 PROFESSIONAL WORK EXPERIENCE
func replaceSynonyms(text string) string {
	for pass := 0; pass <= len(headerSynonyms); pass++ {
		prev := text
		for _, syn := range headerSynonyms {
			text = syn.pattern.ReplaceAllString(text, string(syn.replacement))
		}
		if text == prev {
			break
		}
	}
	return text
}

// Normalize 清洗文本并在每个规范标题前插入换行。
//
// 处理顺序：排版符号转换 → 去除不安全字符 → 同义词替换 → 标题前插入换行 →
// 逐行把连续空白裁剪为最多两个空格并去掉首尾空白 → 删除空行。
// 换行在整个过程中保留，结果满足 Normalize(Normalize(x)) == Normalize(x)
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = typographyReplacer.Replace(text)
	text = unsafeChars.ReplaceAllString(text, " ")

	text = replaceSynonyms(text)

	text = headerOccurrence.ReplaceAllString(text, "\n$1")

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(horizontalRun.ReplaceAllString(line, "  "))
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
