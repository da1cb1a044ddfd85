package parser

import (
	"regexp"

	"resume-screener/internal/types"
)

var (
	// degreeKeyword 学位关键字。完整单词不区分大小写，缩写区分大小写以免误中 "be"、"me" 这类普通单词
	degreeKeyword = regexp.MustCompile(
		`(?i:\b(?:Bachelor|Master|Doctor(?:ate)?|Ph\.?\s?D|Diploma|Associate\s+Degree|Higher\s+Secondary|Secondary\s+School)\b)` +
			`|\b(?:B\.?\s?(?i:Tech)|M\.?\s?(?i:Tech)|B\.?\s?(?i:Sc)|M\.?\s?(?i:Sc)|B\.?\s?(?i:Com)|M\.?\s?(?i:Com)|MBA|BBA|BCA|MCA|B\.?S|M\.?S|B\.?A|M\.?A|B\.?E|M\.?E|HSC|SSC|XII|10th|12th)\b`)

	// educationScore CGPA/GPA/百分比等成绩
	educationScore = regexp.MustCompile(`(?i)\b(?:CGPA|GPA|Percentage|Score|Marks|Grade)\b\s*[:\-]?\s*(\d+(?:\.\d+)?)`)

	// educationYear 四位年份，可带区间
	educationYear = regexp.MustCompile(`(?i)\b(?:19|20)\d{2}\b(?:\s*-\s*(?:(?:19|20)\d{2}\b|Present|Current))?`)

	// institutionKeyword 院校关键字
	institutionKeyword = regexp.MustCompile(`(?i)\b(?:University|College|Institute|School|Academy|Polytechnic|IIT|NIT|IIM)\b`)
)

// educationRules 教育经历规则表：学位(锚点) → 成绩 → 年份 → 院校 → 其他细节
var educationRules = []lineRule[types.EducationEntry]{
	{
		name:  "degree",
		match: degreeKeyword.MatchString,
		apply: func(acc *accumulator[types.EducationEntry], line string) {
			if acc.current.Degree != "" || len(acc.current.Details) > 0 {
				acc.flush()
			}
			acc.current.Degree = line
		},
	},
	{
		name:  "score",
		match: educationScore.MatchString,
		apply: func(acc *accumulator[types.EducationEntry], line string) {
			acc.current.Score = educationScore.FindStringSubmatch(line)[1]
		},
	},
	{
		name:  "year",
		match: educationYear.MatchString,
		apply: func(acc *accumulator[types.EducationEntry], line string) {
			acc.current.Year = educationYear.FindString(line)
		},
	},
	{
		name:  "institution",
		match: institutionKeyword.MatchString,
		apply: func(acc *accumulator[types.EducationEntry], line string) {
			// 已有完整的 院校+学位 时，新的院校意味着下一段教育经历（院校写在学位之前的版式）
			if acc.current.Institution != "" && acc.current.Degree != "" {
				acc.flush()
			}
			acc.current.Institution = line
		},
	},
	{
		name:  "details",
		match: always,
		apply: func(acc *accumulator[types.EducationEntry], line string) {
			acc.current.Details = append(acc.current.Details, trimBullet(line))
		},
	},
}

// ExtractEducation 从 EDUCATION 章节的行中提取教育经历
func ExtractEducation(lines []string) []types.EducationEntry {
	return runRules(lines, educationRules, (*types.EducationEntry).HasContent)
}
