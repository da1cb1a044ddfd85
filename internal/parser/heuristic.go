package parser

import (
	"strings"

	"resume-screener/internal/logger"
	"resume-screener/internal/types"

	"github.com/rs/zerolog"
)

// HeuristicExtractor 基于规则的简历字段提取流水线：规范化 → 分段 → 各字段提取器
type HeuristicExtractor struct {
	skillMode       SkillMode
	nameSearchLines int
	contact         *ContactExtractor
	extraCities     []string
	phoneRegion     string
	logger          zerolog.Logger
}

// HeuristicOption 规则提取器配置选项
type HeuristicOption func(*HeuristicExtractor)

// WithSkillMode 设置技能提取模式
func WithSkillMode(mode SkillMode) HeuristicOption {
	return func(h *HeuristicExtractor) {
		if mode == SkillModeFlat || mode == SkillModeCategorized {
			h.skillMode = mode
		}
	}
}

// WithNameSearchLines 设置文档开头查找姓名的行数
func WithNameSearchLines(n int) HeuristicOption {
	return func(h *HeuristicExtractor) {
		if n > 0 {
			h.nameSearchLines = n
		}
	}
}

// WithExtraCities 追加识别所在地用的城市
func WithExtraCities(cities []string) HeuristicOption {
	return func(h *HeuristicExtractor) {
		h.extraCities = cities
	}
}

// WithPhoneRegion 设置电话号码的默认地区（ISO 3166 两位代码）
func WithPhoneRegion(region string) HeuristicOption {
	return func(h *HeuristicExtractor) {
		h.phoneRegion = region
	}
}

// WithHeuristicLogger 配置自定义日志记录器
func WithHeuristicLogger(l zerolog.Logger) HeuristicOption {
	return func(h *HeuristicExtractor) {
		h.logger = l
	}
}

// NewHeuristicExtractor 创建规则提取器
func NewHeuristicExtractor(options ...HeuristicOption) *HeuristicExtractor {
	h := &HeuristicExtractor{
		skillMode:       SkillModeFlat,
		nameSearchLines: DefaultNameSearchLines,
		phoneRegion:     DefaultPhoneRegion,
		logger:          logger.Component("heuristic"),
	}
	for _, opt := range options {
		opt(h)
	}
	h.contact = NewContactExtractor(h.extraCities, h.phoneRegion)
	return h
}

// SkillMode 当前的技能提取模式
func (h *HeuristicExtractor) SkillMode() SkillMode {
	return h.skillMode
}

// Extract 从原始文本构建候选人记录。任何字段找不到都只是留空，不会返回错误
func (h *HeuristicExtractor) Extract(rawText string) *types.CandidateRecord {
	record := types.NewCandidateRecord()
	if strings.TrimSpace(rawText) == "" {
		return record
	}

	normalized := Normalize(rawText)
	seg := Segment(normalized)

	record.Name = ExtractName(strings.Split(normalized, "\n"), h.nameSearchLines)
	// 联系方式在原始文本上提取，规范化会去掉网址中的 "/"
	record.Contact = h.contact.Extract(rawText)
	record.Summary = ExtractSummary(seg)
	record.Education = ExtractEducation(seg.Sections.Lines(types.SectionEducation))
	record.Experience = ExtractExperience(seg.Sections.Lines(types.SectionExperience))
	record.Certifications = ExtractCertifications(seg.Sections.Lines(types.SectionCertifications))
	record.Skills = ExtractSkills(h.skillMode, rawText, seg)

	h.logger.Debug().
		Int("sections", len(seg.Order)).
		Int("education", len(record.Education)).
		Int("experience", len(record.Experience)).
		Int("certifications", len(record.Certifications)).
		Int("skills", record.Skills.Len()).
		Bool("has_name", record.Name != "").
		Msg("规则提取完成")

	return record
}
