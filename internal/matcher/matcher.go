// Package matcher 计算候选人技能与岗位要求的匹配度
package matcher

import (
	"errors"
	"math"
	"sort"
	"strings"

	"resume-screener/internal/logger"
	"resume-screener/internal/types"

	"github.com/rs/zerolog"
)

// ErrInvalidMatchInput 任一侧技能为空，结果为零分
var ErrInvalidMatchInput = errors.New("技能或岗位要求为空")

// Matcher 技能匹配器
type Matcher struct {
	tokenBoundary bool
	blendSummary  bool
	logger        zerolog.Logger
}

// Option 匹配器配置选项
type Option func(*Matcher)

// WithTokenBoundary 使用词边界匹配代替子串匹配。
// 默认的子串规则会让 "java" 匹配 "javascript"，开启后不再匹配
func WithTokenBoundary(enabled bool) Option {
	return func(m *Matcher) {
		m.tokenBoundary = enabled
	}
}

// WithBlendSummary 简介与岗位描述都存在时是否混入文本相似度，默认开启
func WithBlendSummary(enabled bool) Option {
	return func(m *Matcher) {
		m.blendSummary = enabled
	}
}

// WithLogger 配置自定义日志记录器
func WithLogger(l zerolog.Logger) Option {
	return func(m *Matcher) {
		m.logger = l
	}
}

// New 创建匹配器
func New(opts ...Option) *Matcher {
	m := &Matcher{
		blendSummary: true,
		logger:       logger.Component("matcher"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Match 比较两个技能集合。两侧先经 Flatten 归一化（小写、去空白、去重），
// 得分 = 至少有一个候选技能匹配的岗位技能数 / 岗位技能数 × 100，保留两位小数
func (m *Matcher) Match(candidate, required types.SkillSet) types.MatchResult {
	have := candidate.Flatten()
	want := required.Flatten()
	if len(have) == 0 || len(want) == 0 {
		m.logger.Debug().Int("candidate", len(have)).Int("required", len(want)).Msg(ErrInvalidMatchInput.Error())
		return types.EmptyMatchResult(ErrInvalidMatchInput.Error())
	}

	matched := make(map[string]struct{})
	missing := make([]string, 0)
	hits := 0
	for _, req := range want {
		found := false
		for _, skill := range have {
			if m.skillsMatch(skill, req) {
				matched[skill] = struct{}{}
				found = true
			}
		}
		if found {
			hits++
		} else {
			missing = append(missing, req)
		}
	}

	score := round2(float64(hits) / float64(len(want)) * 100)
	result := types.MatchResult{
		Score:         score,
		SkillScore:    score,
		MatchedSkills: sortedSet(matched),
		MissingSkills: missing,
	}
	sort.Strings(result.MissingSkills)
	return result
}

// MatchRecord 比较候选人记录与岗位要求。简介和岗位描述都非空时，
// 最终得分为 (技能得分 + 相似度×100) / 2
func (m *Matcher) MatchRecord(record *types.CandidateRecord, job types.JobRequirement) types.MatchResult {
	if record == nil {
		return types.EmptyMatchResult(ErrInvalidMatchInput.Error())
	}

	result := m.Match(record.Skills, job.RequiredSkills)
	if result.Reason != "" {
		return result
	}

	if m.blendSummary && strings.TrimSpace(record.Summary) != "" && strings.TrimSpace(job.Description) != "" {
		result.Similarity = Similarity(record.Summary, job.Description)
		result.Score = round2((result.SkillScore + result.Similarity*100) / 2)
	}
	return result
}

func (m *Matcher) skillsMatch(a, b string) bool {
	if a == b {
		return true
	}
	if !m.tokenBoundary {
		return strings.Contains(a, b) || strings.Contains(b, a)
	}
	return containsToken(a, b) || containsToken(b, a)
}

// containsToken s 中是否以完整词的形式包含 token，两侧不能紧邻字母数字或 + #
func containsToken(s, token string) bool {
	if token == "" {
		return false
	}
	for from := 0; from+len(token) <= len(s); {
		i := strings.Index(s[from:], token)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(token)
		if (start == 0 || !isTokenByte(s[start-1])) && (end == len(s) || !isTokenByte(s[end])) {
			return true
		}
		from = start + 1
	}
	return false
}

func isTokenByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '+' || c == '#'
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
