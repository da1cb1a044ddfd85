package parser

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-screener/internal/types"
)

func TestGroupGlyphsOrdersTopToBottom(t *testing.T) {
	// PDF 坐标自下而上，Y 越大越靠上
	glyphs := []glyph{
		{X: 50, Y: 600, W: 40, FontSize: 10, S: "Skills"},
		{X: 85, Y: 700.5, W: 20, FontSize: 10, S: "Doe"},
		{X: 50, Y: 700, W: 30, FontSize: 10, S: "Jane"},
		{X: 300, Y: 600, W: 40, FontSize: 10, S: "Docker"},
	}

	blocks := groupGlyphs(glyphs, 792, defaultRowTolerance)
	require.Len(t, blocks, 2)

	assert.Equal(t, "Jane Doe", blocks[0].Text, "同一基线的字形合并为一行，小间隔补空格")
	assert.InDelta(t, 92, blocks[0].Top, 1)
	assert.Equal(t, "Skills  Docker", blocks[1].Text, "分栏间隔保留为两个空格")
	assert.Less(t, blocks[0].Top, blocks[1].Top)
}

func TestGroupGlyphsEmpty(t *testing.T) {
	assert.Nil(t, groupGlyphs(nil, 792, defaultRowTolerance))
}

func TestJoinRowAdjacentGlyphs(t *testing.T) {
	row := []glyph{
		{X: 10, W: 5, FontSize: 10, S: "G"},
		{X: 15, W: 5, FontSize: 10, S: "o"},
	}
	assert.Equal(t, "Go", joinRow(row))
}

func TestPageSortBlocks(t *testing.T) {
	page := types.Page{Blocks: []types.TextBlock{
		{Top: 300, Left: 10, Text: "c"},
		{Top: 100, Left: 200, Text: "b"},
		{Top: 100, Left: 10, Text: "a"},
	}}
	page.SortBlocks()
	assert.Equal(t, "a\nb\nc", page.Text())
}

func TestLayoutPDFExtractorMissingFile(t *testing.T) {
	_, err := NewLayoutPDFExtractor().Extract(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)

	var readErr *DocumentReadError
	require.True(t, errors.As(err, &readErr))
	assert.Contains(t, readErr.Path, "missing.pdf")
	assert.True(t, IsDocumentReadError(err))
}

func TestLayoutPDFExtractorCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0o644))

	_, err := NewLayoutPDFExtractor().Extract(context.Background(), path)
	assert.True(t, IsDocumentReadError(err), "损坏的文件应返回 DocumentReadError")
}

func TestLayoutPDFExtractorFixture(t *testing.T) {
	candidates := []string{"testdata/resume.pdf", "../../testdata/resume.pdf"}
	var path string
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			path = p
			break
		}
	}
	if path == "" {
		t.Skip("找不到测试PDF文件，跳过测试")
	}

	doc, err := NewLayoutPDFExtractor().Extract(context.Background(), path)
	require.NoError(t, err)
	assert.NotEmpty(t, doc.Pages)
	assert.NotEmpty(t, doc.Text())
}
