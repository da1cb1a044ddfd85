package parser

import (
	"regexp"
	"strings"
)

// DefaultNameSearchLines 在文档开头查找姓名的行数
const DefaultNameSearchLines = 5

var (
	// capitalizedName 2-4 个首字母大写的单词
	capitalizedName = regexp.MustCompile(`\b[A-Z][a-z]+(?:[ \t]+[A-Z][a-z]+){1,3}\b`)
	// upperCaseName 全大写写法，例如 "JOHN DOE"
	upperCaseName = regexp.MustCompile(`\b[A-Z]{2,}(?:[ \t]+[A-Z]{2,}){1,3}\b`)

	// contactHint 邮箱或电话所在的行
	contactHint = regexp.MustCompile(`[\w.\-]+@[\w.\-]+\.\w+|\+?\d[\d\s\-()]{8,}\d`)
)

// nameStopWords 姓名候选中出现即拒绝的通用词
var nameStopWords = map[string]struct{}{
	"resume": {}, "cv": {}, "curriculum": {}, "vitae": {}, "summary": {},
	"school": {}, "university": {}, "college": {}, "institute": {},
	"objective": {}, "profile": {}, "experience": {}, "education": {}, "skills": {},
}

// acceptableName 候选中不包含任何通用词
func acceptableName(candidate string) bool {
	for _, w := range strings.Fields(candidate) {
		if _, bad := nameStopWords[strings.ToLower(w)]; bad {
			return false
		}
	}
	return true
}

// nameInLine 返回一行中第一个可接受的姓名候选
func nameInLine(line string) string {
	for _, re := range []*regexp.Regexp{capitalizedName, upperCaseName} {
		for _, m := range re.FindAllString(line, -1) {
			if acceptableName(m) {
				return m
			}
		}
	}
	return ""
}

// ExtractName 提取候选人姓名。
// 先在前 searchLines 行中查找；找不到时在邮箱/电话所在行的前后两行中查找。开头的结果优先
func ExtractName(lines []string, searchLines int) string {
	if searchLines <= 0 {
		searchLines = DefaultNameSearchLines
	}

	top := lines
	if len(top) > searchLines {
		top = top[:searchLines]
	}
	for _, line := range top {
		if name := nameInLine(line); name != "" {
			return name
		}
	}

	for i, line := range lines {
		if !contactHint.MatchString(line) {
			continue
		}
		for j := max(0, i-2); j <= min(len(lines)-1, i+2); j++ {
			if name := nameInLine(lines[j]); name != "" {
				return name
			}
		}
	}
	return ""
}
