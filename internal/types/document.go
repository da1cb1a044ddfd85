package types

import (
	"sort"
	"strings"
)

// TextBlock 页面上的一个带位置的文本块，Top 为距页面上边缘的距离
type TextBlock struct {
	Top  float64 `json:"top"`
	Left float64 `json:"left"`
	Text string  `json:"text"`
}

// Page 文档中的一页
type Page struct {
	Number int         `json:"number"`
	Height float64     `json:"height,omitempty"`
	Blocks []TextBlock `json:"blocks"`
}

// SortBlocks 按阅读顺序（自上而下，同一高度自左向右）对文本块做稳定排序
func (p *Page) SortBlocks() {
	sort.SliceStable(p.Blocks, func(i, j int) bool {
		if p.Blocks[i].Top != p.Blocks[j].Top {
			return p.Blocks[i].Top < p.Blocks[j].Top
		}
		return p.Blocks[i].Left < p.Blocks[j].Left
	})
}

// Text 拼接本页文本块
func (p Page) Text() string {
	parts := make([]string, 0, len(p.Blocks))
	for _, b := range p.Blocks {
		if t := strings.TrimSpace(b.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n")
}

// RawDocument 按页排列的原始文档文本
type RawDocument struct {
	Path  string `json:"path"`
	Pages []Page `json:"pages"`
}

// Text 按页序拼接全文
func (d *RawDocument) Text() string {
	if d == nil {
		return ""
	}
	parts := make([]string, 0, len(d.Pages))
	for _, p := range d.Pages {
		if t := p.Text(); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n")
}

// PageText 返回第 n 页（从1开始）的文本，不存在时返回空串
func (d *RawDocument) PageText(n int) string {
	if d == nil {
		return ""
	}
	for _, p := range d.Pages {
		if p.Number == n {
			return p.Text()
		}
	}
	return ""
}
