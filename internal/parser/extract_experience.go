package parser

import (
	"regexp"

	"resume-screener/internal/types"
)

const (
	monthName = `(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?`
	monthYear = monthName + `\s*,?\s*(?:19|20)\d{2}`
	rangeEnd  = `(?:Present|Current|Now|Till\s+Date|Date)`
)

var (
	// dateRange 工作时间段：月-年区间或年-年区间，结束可以是 Present
	dateRange = regexp.MustCompile(`(?i)` +
		monthYear + `\s*(?:-|to|till|until)\s*(?:` + rangeEnd + `|` + monthYear + `)` +
		`|\b(?:19|20)\d{2}\s*(?:-|to)\s*(?:(?:19|20)\d{2}\b|` + rangeEnd + `)`)

	// jobTitle 行首的职位名称，以常见职位后缀结尾
	jobTitle = regexp.MustCompile(`^[A-Z][A-Za-z&/,.\s-]*\b(?:Engineer|Developer|Manager|Analyst|Assistant|Director|Coordinator|Specialist|Consultant|Architect|Lead|Intern|Scientist|Designer|Administrator|Officer|Executive|Trainee)s?\b`)

	// companySuffix 公司后缀
	companySuffix = regexp.MustCompile(`\b(?:Inc|LLC|LLP|Ltd|Limited|Corp|Corporation|Pvt|GmbH|Technologies|Solutions|Labs)\b`)
)

// maxHeadingWords 职位和公司行的最大单词数，更长的行按职责描述处理
const maxHeadingWords = 8

// experienceRules 工作经历规则表：时间段(锚点) → 职位 → 公司 → 职责
var experienceRules = []lineRule[types.ExperienceEntry]{
	{
		name:  "date_range",
		match: dateRange.MatchString,
		apply: func(acc *accumulator[types.ExperienceEntry], line string) {
			// 时间段写在职位之前或之后两种版式都要支持：
			// 当前条目已有时间段或职责时才认为上一段经历已结束
			if acc.current.Duration != "" || len(acc.current.Responsibilities) > 0 {
				acc.flush()
			}
			acc.current.Duration = dateRange.FindString(line)
		},
	},
	{
		name: "title",
		match: func(line string) bool {
			return wordCount(line) <= maxHeadingWords && jobTitle.MatchString(line)
		},
		apply: func(acc *accumulator[types.ExperienceEntry], line string) {
			if acc.current.Title != "" {
				acc.flush()
			}
			acc.current.Title = line
		},
	},
	{
		name: "company",
		match: func(line string) bool {
			return wordCount(line) <= maxHeadingWords && companySuffix.MatchString(line)
		},
		apply: func(acc *accumulator[types.ExperienceEntry], line string) {
			if acc.current.Company != "" {
				acc.current.Responsibilities = append(acc.current.Responsibilities, trimBullet(line))
				return
			}
			acc.current.Company = line
		},
	},
	{
		name:  "responsibility",
		match: always,
		apply: func(acc *accumulator[types.ExperienceEntry], line string) {
			if r := trimBullet(line); r != "" {
				acc.current.Responsibilities = append(acc.current.Responsibilities, r)
			}
		},
	},
}

// ExtractExperience 从 EXPERIENCE 章节的行中提取工作经历
func ExtractExperience(lines []string) []types.ExperienceEntry {
	entries := runRules(lines, experienceRules, (*types.ExperienceEntry).HasContent)
	for i := range entries {
		if entries[i].Responsibilities == nil {
			entries[i].Responsibilities = []string{}
		}
	}
	return entries
}
