package types

import (
	"fmt"
	"strings"
)

// SectionType 表示简历章节类型（规范化后的标题）
type SectionType string

const (
	// SectionSummary 个人简介章节
	SectionSummary SectionType = "SUMMARY"
	// SectionExperience 工作经历章节
	SectionExperience SectionType = "EXPERIENCE"
	// SectionEducation 教育经历章节
	SectionEducation SectionType = "EDUCATION"
	// SectionSkills 技能章节
	SectionSkills SectionType = "SKILLS"
	// SectionCertifications 证书章节
	SectionCertifications SectionType = "CERTIFICATIONS"
	// SectionProjects 项目经历章节
	SectionProjects SectionType = "PROJECTS"
)

// CanonicalSections 规范章节标题的固定集合，顺序即标题注入的顺序
var CanonicalSections = []SectionType{
	SectionSummary,
	SectionExperience,
	SectionEducation,
	SectionSkills,
	SectionCertifications,
	SectionProjects,
}

// SectionMap 章节名到内容行的映射
type SectionMap map[SectionType][]string

// Lines 返回某个章节的内容行，章节不存在时返回nil
func (m SectionMap) Lines(section SectionType) []string {
	if m == nil {
		return nil
	}
	return m[section]
}

// AllLines 按给定顺序返回所有章节的内容行
func (m SectionMap) AllLines(order []SectionType) []string {
	var lines []string
	for _, s := range order {
		lines = append(lines, m[s]...)
	}
	return lines
}

// ContactInfo 联系方式
type ContactInfo struct {
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	PhoneE164 string `json:"phone_e164,omitempty"`
	Location  string `json:"location,omitempty"`
	Address   string `json:"address,omitempty"`
}

// IsEmpty 判断联系方式是否全部为空
func (c ContactInfo) IsEmpty() bool {
	return c.Email == "" && c.Phone == "" && c.Location == "" && c.Address == ""
}

// EducationEntry 一段教育经历
type EducationEntry struct {
	Degree      string   `json:"degree"`
	Institution string   `json:"institution"`
	Year        string   `json:"year"`
	Score       string   `json:"score,omitempty"`
	Details     []string `json:"details,omitempty"`
}

// HasContent 判断是否已经累积了任意内容
func (e *EducationEntry) HasContent() bool {
	return e.Degree != "" || e.Institution != "" || e.Year != "" || e.Score != "" || len(e.Details) > 0
}

// String 生成 "degree from institution (year)" 形式的便捷描述
func (e EducationEntry) String() string {
	var b strings.Builder
	b.WriteString(e.Degree)
	if e.Institution != "" {
		if b.Len() > 0 {
			b.WriteString(" from ")
		}
		b.WriteString(e.Institution)
	}
	if e.Year != "" {
		fmt.Fprintf(&b, " (%s)", e.Year)
	}
	return strings.TrimSpace(b.String())
}

// ExperienceEntry 一段工作经历
type ExperienceEntry struct {
	Title            string   `json:"title"`
	Company          string   `json:"company"`
	Duration         string   `json:"duration"`
	Responsibilities []string `json:"responsibilities"`
}

// HasContent 判断是否已经累积了任意内容
func (e *ExperienceEntry) HasContent() bool {
	return e.Title != "" || e.Company != "" || e.Duration != "" || len(e.Responsibilities) > 0
}

// String 生成 "title at company (duration)" 形式的便捷描述
func (e ExperienceEntry) String() string {
	var b strings.Builder
	b.WriteString(e.Title)
	if e.Company != "" {
		if b.Len() > 0 {
			b.WriteString(" at ")
		}
		b.WriteString(e.Company)
	}
	if e.Duration != "" {
		fmt.Fprintf(&b, " (%s)", e.Duration)
	}
	return strings.TrimSpace(b.String())
}

// CertificationEntry 一项证书
type CertificationEntry struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Date   string `json:"date"`
}

// HasContent 判断是否已经累积了任意内容
func (c *CertificationEntry) HasContent() bool {
	return c.Name != "" || c.Issuer != "" || c.Date != ""
}

// CandidateRecord 结构化的候选人记录，字段名对下游保持稳定
type CandidateRecord struct {
	Name           string               `json:"name"`
	Contact        ContactInfo          `json:"contact_info"`
	Summary        string               `json:"summary"`
	Education      []EducationEntry     `json:"education"`
	Experience     []ExperienceEntry    `json:"experience"`
	Certifications []CertificationEntry `json:"certifications"`
	Skills         SkillSet             `json:"skills"`
}

// NewCandidateRecord 创建一个所有列表字段非nil的空记录，保证序列化结果为 [] 而不是 null
func NewCandidateRecord() *CandidateRecord {
	return &CandidateRecord{
		Education:      []EducationEntry{},
		Experience:     []ExperienceEntry{},
		Certifications: []CertificationEntry{},
		Skills:         NewFlatSkillSet(nil),
	}
}
