package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"resume-screener/internal/types"
)

// SkillMode 技能提取模式
type SkillMode string

const (
	// SkillModeFlat 扁平技能列表，区分大小写去重
	SkillModeFlat SkillMode = "flat"
	// SkillModeCategorized 按固定分类归桶，不区分大小写去重
	SkillModeCategorized SkillMode = "categorized"
)

// OtherSkillCategory 未归入固定分类的技能
const OtherSkillCategory = "other"

// skillCategory 一个固定分类及其关键字
type skillCategory struct {
	name     string
	keywords []string
}

// skillCategories 固定分类表，顺序即输出时的归桶优先级
var skillCategories = []skillCategory{
	{"programming_languages", []string{
		"python", "java", "javascript", "c++", "c#", "ruby", "php", "swift", "kotlin",
		"scala", "golang", "perl", "typescript",
	}},
	{"web_technologies", []string{
		"html", "css", "react", "angular", "vue.js", "node.js", "express.js",
		"django", "flask", "spring", "asp.net", "jquery", "bootstrap",
	}},
	{"databases", []string{
		"sql", "mongodb", "postgresql", "mysql", "oracle", "redis", "elasticsearch",
		"cassandra", "dynamodb", "firebase",
	}},
	{"cloud_devops", []string{
		"aws", "azure", "gcp", "docker", "kubernetes", "jenkins", "git", "terraform",
		"ansible", "circleci", "travis", "prometheus", "grafana",
	}},
	{"data_science_ml", []string{
		"machine learning", "deep learning", "data analysis", "tensorflow", "pytorch",
		"pandas", "numpy", "scikit-learn", "opencv", "nltk", "spacy",
	}},
	{"soft_skills", []string{
		"project management", "agile", "scrum", "leadership", "communication",
		"problem solving", "teamwork", "analytical", "time management",
	}},
}

// SkillCategoryNames 固定分类名（不含 other）
func SkillCategoryNames() []string {
	names := make([]string, 0, len(skillCategories))
	for _, c := range skillCategories {
		names = append(names, c.name)
	}
	return names
}

var (
	// skillDelimiter 技能分隔符：逗号、分号或两个及以上空白（分栏）
	skillDelimiter = regexp.MustCompile(`[,;]|\s{2,}`)

	// sentenceBreak 句子边界
	sentenceBreak = regexp.MustCompile(`\.\s`)

	// technicalIndicator 含 api/sdk/framework/library 的技术名词
	technicalIndicator = regexp.MustCompile(`(?i)\b[\w.+#-]*(?:api|apis|sdk|sdks|framework|frameworks|library|libraries)\b`)

	// keywordMatchers 每个分类关键字的边界匹配，关键字本身可能含 + # .
	keywordMatchers = buildKeywordMatchers()
)

// skillTriggers 没有 SKILLS 章节时用于在正文中定位技能描述的短语
var skillTriggers = []string{
	"proficient in", "skilled in", "expertise in", "experience with",
	"knowledge of", "familiar with", "competent in", "trained in",
}

// minSkillRunes 技能候选至少要有的字符数，按字符而不是字节计
const minSkillRunes = 3

func buildKeywordMatchers() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp)
	for _, c := range skillCategories {
		for _, kw := range c.keywords {
			m[kw] = regexp.MustCompile(`(?:^|[^a-z0-9+#.])` + regexp.QuoteMeta(kw) + `(?:$|[^a-z0-9+#])`)
		}
	}
	return m
}

// splitSkillTokens 把一段文字拆成技能候选
func splitSkillTokens(s string) []string {
	var out []string
	for _, part := range skillDelimiter.Split(s, -1) {
		if i := strings.LastIndex(part, ":"); i >= 0 {
			part = part[i+1:]
		}
		part = strings.TrimLeft(strings.TrimSpace(part), "-*> ")
		part = strings.TrimSpace(strings.TrimRight(part, ". "))
		if part == "" {
			continue
		}
		if utf8.RuneCountInString(part) >= minSkillRunes {
			out = append(out, part)
		}
	}
	return out
}

// appendUnique 区分大小写去重追加
func appendUnique(dst []string, seen map[string]struct{}, tokens ...string) []string {
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		dst = append(dst, t)
	}
	return dst
}

// ExtractFlatSkills 扁平技能提取。优先使用 SKILLS 章节，为空时在各章节的句子中查找触发短语
func ExtractFlatSkills(seg *Segmentation) []string {
	seen := make(map[string]struct{})
	skills := []string{}

	for _, line := range seg.Sections.Lines(types.SectionSkills) {
		skills = appendUnique(skills, seen, splitSkillTokens(line)...)
	}
	if len(skills) > 0 {
		return skills
	}

	joined := strings.Join(seg.AllLines(), " ")
	for _, sentence := range sentenceBreak.Split(joined, -1) {
		lower := strings.ToLower(sentence)
		for _, trigger := range skillTriggers {
			i := strings.Index(lower, trigger)
			if i < 0 {
				continue
			}
			// 小写只用于定位，截取时保留原始大小写
			skills = appendUnique(skills, seen, splitSkillTokens(sentence[i+len(trigger):])...)
		}
	}
	return skills
}

// ExtractCategorizedSkills 分类技能提取。
// 在原始文本中按固定分类的关键字归桶；SKILLS 章节中不属于任何分类的词以及
// 含技术指示词的名词进入 other。全部分类不区分大小写去重，空分类输出空列表
func ExtractCategorizedSkills(rawText string, seg *Segmentation) map[string][]string {
	lower := strings.ToLower(rawText)
	seen := make(map[string]struct{})
	result := make(map[string][]string, len(skillCategories)+1)

	add := func(category, skill string) {
		key := strings.ToLower(strings.TrimSpace(skill))
		if key == "" {
			return
		}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		result[category] = append(result[category], skill)
	}

	for _, c := range skillCategories {
		result[c.name] = []string{}
		for _, kw := range c.keywords {
			if keywordMatchers[kw].MatchString(lower) {
				add(c.name, kw)
			}
		}
	}

	result[OtherSkillCategory] = []string{}
	if seg != nil {
		for _, line := range seg.Sections.Lines(types.SectionSkills) {
			for _, tok := range splitSkillTokens(line) {
				add(OtherSkillCategory, tok)
			}
		}
	}
	for _, tok := range technicalIndicator.FindAllString(rawText, -1) {
		if utf8.RuneCountInString(tok) >= minSkillRunes {
			add(OtherSkillCategory, strings.ToLower(tok))
		}
	}
	return result
}

// ExtractSkills 按模式提取技能集合
func ExtractSkills(mode SkillMode, rawText string, seg *Segmentation) types.SkillSet {
	if mode == SkillModeCategorized {
		return types.NewCategorizedSkillSet(ExtractCategorizedSkills(rawText, seg))
	}
	return types.NewFlatSkillSet(ExtractFlatSkills(seg))
}
