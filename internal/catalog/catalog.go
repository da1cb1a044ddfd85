// Package catalog 在已保存的分析结果上提供查询，可选屏蔽个人信息
package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"resume-screener/internal/logger"
	"resume-screener/internal/types"

	"github.com/rs/zerolog"
)

// 屏蔽后的占位值
const (
	MaskedName     = "Candidate"
	MaskedEmail    = "candidate@example.com"
	MaskedPhone    = "XXXXXXXXXX"
	MaskedLocation = "Location masked"
)

// RecordLister 记录来源，storage 中的各个存储都满足
type RecordLister interface {
	List(ctx context.Context) ([]*types.AnalysisResult, error)
}

// Catalog 记录目录。Refresh 时从来源加载快照，查询都在快照上进行
type Catalog struct {
	source RecordLister
	mask   bool
	logger zerolog.Logger

	mu      sync.RWMutex
	records []*types.AnalysisResult
	byID    map[string]*types.AnalysisResult
}

// Option 目录配置选项
type Option func(*Catalog)

// WithMasking 查询结果中屏蔽姓名与联系方式
func WithMasking(enabled bool) Option {
	return func(c *Catalog) {
		c.mask = enabled
	}
}

// WithLogger 配置自定义日志记录器
func WithLogger(l zerolog.Logger) Option {
	return func(c *Catalog) {
		c.logger = l
	}
}

// New 创建目录，需要调用 Refresh 加载数据
func New(source RecordLister, opts ...Option) *Catalog {
	c := &Catalog{
		source: source,
		logger: logger.Component("catalog"),
		byID:   map[string]*types.AnalysisResult{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Refresh 重新加载全部记录
func (c *Catalog) Refresh(ctx context.Context) error {
	if c.source == nil {
		return fmt.Errorf("目录没有配置记录来源")
	}
	results, err := c.source.List(ctx)
	if err != nil {
		return fmt.Errorf("加载记录失败: %w", err)
	}

	records := make([]*types.AnalysisResult, 0, len(results))
	byID := make(map[string]*types.AnalysisResult, len(results))
	for _, r := range results {
		if r == nil || r.Record == nil {
			continue
		}
		if c.mask {
			r = Mask(r)
		}
		records = append(records, r)
		byID[r.DocumentID] = r
	}

	c.mu.Lock()
	c.records = records
	c.byID = byID
	c.mu.Unlock()

	c.logger.Info().Int("records", len(records)).Bool("masked", c.mask).Msg("目录已加载")
	return nil
}

// All 返回全部记录
func (c *Catalog) All() []*types.AnalysisResult {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*types.AnalysisResult(nil), c.records...)
}

// GetByID 按文档标识查找
func (c *Catalog) GetByID(documentID string) (*types.AnalysisResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.byID[documentID]
	return r, ok
}

// Search 在技能、教育、工作经历中做不区分大小写的子串查找，
// 命中任意一处即返回
func (c *Catalog) Search(query string) []*types.AnalysisResult {
	q := strings.ToLower(strings.TrimSpace(query))
	return c.filter(func(rec *types.CandidateRecord) bool {
		return skillsContain(rec, q) || educationContains(rec, q) || experienceContains(rec, q)
	})
}

// BySkill 技能中包含给定词的记录
func (c *Catalog) BySkill(skill string) []*types.AnalysisResult {
	q := strings.ToLower(strings.TrimSpace(skill))
	return c.filter(func(rec *types.CandidateRecord) bool {
		return skillsContain(rec, q)
	})
}

// ByEducation 教育经历中包含给定词的记录
func (c *Catalog) ByEducation(education string) []*types.AnalysisResult {
	q := strings.ToLower(strings.TrimSpace(education))
	return c.filter(func(rec *types.CandidateRecord) bool {
		return educationContains(rec, q)
	})
}

func (c *Catalog) filter(keep func(*types.CandidateRecord) bool) []*types.AnalysisResult {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*types.AnalysisResult, 0)
	for _, r := range c.records {
		if keep(r.Record) {
			out = append(out, r)
		}
	}
	return out
}

func skillsContain(rec *types.CandidateRecord, q string) bool {
	for _, s := range rec.Skills.Flatten() {
		if strings.Contains(s, q) {
			return true
		}
	}
	return false
}

func educationContains(rec *types.CandidateRecord, q string) bool {
	for _, e := range rec.Education {
		if strings.Contains(strings.ToLower(e.String()), q) {
			return true
		}
	}
	return false
}

func experienceContains(rec *types.CandidateRecord, q string) bool {
	for _, e := range rec.Experience {
		if strings.Contains(strings.ToLower(e.String()), q) {
			return true
		}
	}
	return false
}
