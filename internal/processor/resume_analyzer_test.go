package processor

import (
	"context"
	"errors"
	"testing"
	"time"

	"resume-screener/internal/agent"
	"resume-screener/internal/parser"
	"resume-screener/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnalyzer(analyzer TextAnalyzer, opts ...AnalyzerOption) *ResumeAnalyzer {
	base := []AnalyzerOption{WithClock(func() time.Time { return fixedNow })}
	if analyzer != nil {
		base = append(base, WithTextAnalyzer(analyzer))
	}
	return NewResumeAnalyzer(append(base, opts...)...)
}

func TestAnalyze_AnalyzerSuccess(t *testing.T) {
	stub := &stubAnalyzer{output: "```json\n{\"personal_info\": {\"name\": \"Jane A. Smith\", \"email\": \"jane@corp.com\"}, \"summary\": \"Go developer\"}\n```"}
	ra := newTestAnalyzer(stub)

	result := ra.Analyze(context.Background(), sampleResume)
	require.NotNil(t, result)

	assert.Equal(t, types.PathAnalyzer, result.Path)
	assert.Equal(t, 1, stub.calls)
	assert.Equal(t, stub.output, result.AnalyzerOutput)
	require.NotNil(t, result.AnalyzerStructured)
	assert.Equal(t, "Go developer", result.AnalyzerStructured["summary"])

	require.NotNil(t, result.Record)
	assert.Equal(t, "Jane Smith", result.Record.Name)

	require.NotNil(t, result.Entities)
	assert.Equal(t, []string{"Jane Smith", "Jane A. Smith"}, result.Entities.Name)
	assert.Equal(t, "jane.smith@example.com", result.Entities.Email)
	assert.Contains(t, result.Entities.Experience, "Senior Software Engineer at Globex Technologies (Jan 2021 - Present)")

	assert.Equal(t, "stub-model", result.Metadata.ModelUsed)
	assert.Equal(t, fixedNow, result.Metadata.ProcessedAt)
	assert.Equal(t, len(sampleResume), result.Metadata.TextLength)
	assert.NotEmpty(t, result.Metadata.AnalysisID)
	assert.NotEmpty(t, result.DocumentID)
}

func TestAnalyze_UnparseableOutputStillAnalyzerPath(t *testing.T) {
	ra := newTestAnalyzer(&stubAnalyzer{output: "The candidate is a strong backend engineer."})

	result := ra.Analyze(context.Background(), sampleResume)
	assert.Equal(t, types.PathAnalyzer, result.Path)
	assert.Nil(t, result.AnalyzerStructured)
	require.NotNil(t, result.Entities)
	assert.Equal(t, []string{"Jane Smith"}, result.Entities.Name)
}

func TestAnalyze_FallbackPaths(t *testing.T) {
	testCases := []struct {
		name     string
		analyzer TextAnalyzer
		timeout  time.Duration
	}{
		{name: "no analyzer", analyzer: nil},
		{name: "analyzer error", analyzer: &stubAnalyzer{err: errors.New("503 service unavailable")}},
		{name: "analyzer panic", analyzer: &stubAnalyzer{panic: "nil map"}},
		{name: "empty output", analyzer: &stubAnalyzer{output: "   "}},
		{name: "timeout", analyzer: &stubAnalyzer{block: true}, timeout: 20 * time.Millisecond},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ra := newTestAnalyzer(tc.analyzer, WithAnalyzerTimeout(tc.timeout))

			result := ra.Analyze(context.Background(), sampleResume)
			require.NotNil(t, result)
			assert.Equal(t, types.PathHeuristicFallback, result.Path)
			assert.Empty(t, result.AnalyzerOutput)
			assert.Nil(t, result.AnalyzerStructured)
			assert.Nil(t, result.Entities)
			assert.Empty(t, result.Metadata.ModelUsed)

			require.NotNil(t, result.Record)
			assert.Equal(t, "Jane Smith", result.Record.Name)
			assert.Equal(t, []string{"Python", "Docker", "PostgreSQL"}, result.Record.Skills.Flat)
		})
	}
}

func TestCallAnalyzer_ErrorKinds(t *testing.T) {
	ra := newTestAnalyzer(&stubAnalyzer{panic: "boom"})
	_, err := ra.callAnalyzer(context.Background(), "text")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAnalyzerUnavailable)
	assert.Contains(t, err.Error(), "panic: boom")

	ra = newTestAnalyzer(&stubAnalyzer{block: true}, WithAnalyzerTimeout(10*time.Millisecond))
	_, err = ra.callAnalyzer(context.Background(), "text")
	assert.ErrorIs(t, err, ErrAnalyzerUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAnalyze_WithChatModelAnalyzer(t *testing.T) {
	mock := agent.NewMockChatClient(`{"personal_info": {"name": "Jane Smith"}, "skills": ["Go"]}`, nil)
	chat, err := agent.NewChatModelAnalyzer(mock, agent.WithAnalyzerModelName("mock-llm"))
	require.NoError(t, err)

	ra := newTestAnalyzer(chat)
	result := ra.Analyze(context.Background(), sampleResume)

	assert.Equal(t, types.PathAnalyzer, result.Path)
	assert.Equal(t, "mock-llm", result.Metadata.ModelUsed)
	assert.Equal(t, 1, mock.CallCount())
	assert.Equal(t, []string{"Jane Smith"}, result.Entities.Name)

	// 一次文档只调用一次，失败不重试
	failing := agent.NewMockChatClient("", errors.New("rate limited"))
	chat, err = agent.NewChatModelAnalyzer(failing)
	require.NoError(t, err)
	result = newTestAnalyzer(chat).Analyze(context.Background(), sampleResume)
	assert.Equal(t, types.PathHeuristicFallback, result.Path)
	assert.Equal(t, 1, failing.CallCount())
}

func TestProcessDocument(t *testing.T) {
	extractor := &stubExtractor{
		docs: map[string]*types.RawDocument{
			"cv.pdf":    singlePageDoc("cv.pdf", sampleResume),
			"blank.pdf": singlePageDoc("blank.pdf", "   "),
		},
		errs: map[string]error{
			"plain.pdf": errors.New("permission denied"),
		},
	}
	ra := newTestAnalyzer(nil, WithDocumentExtractor(extractor))

	result, err := ra.ProcessDocument(context.Background(), "cv.pdf")
	require.NoError(t, err)
	assert.Equal(t, DocumentID("cv.pdf", 0), result.DocumentID)
	assert.Equal(t, "cv.pdf", result.Metadata.SourcePath)
	assert.Equal(t, "Jane Smith", result.Record.Name)

	for _, path := range []string{"missing.pdf", "plain.pdf", "blank.pdf"} {
		_, err = ra.ProcessDocument(context.Background(), path)
		require.Error(t, err, path)
		var readErr *parser.DocumentReadError
		require.ErrorAs(t, err, &readErr, path)
		assert.Equal(t, path, readErr.Path)
	}

	_, err = ra.ProcessDocument(context.Background(), "blank.pdf")
	assert.ErrorIs(t, err, parser.ErrNoText)
}

func TestDocumentID(t *testing.T) {
	assert.Equal(t, DocumentID("a.pdf", 0), DocumentID("a.pdf", 0))
	assert.NotEqual(t, DocumentID("a.pdf", 1), DocumentID("a.pdf", 2))
	assert.NotEqual(t, DocumentID("a.pdf", 0), DocumentID("a.pdf", 1))
	assert.Equal(t, "a.pdf#page-3", PageItemID("a.pdf", 3))
	assert.Equal(t, textDocumentID("x"), textDocumentID("x"))
}

func TestBuildEntityView(t *testing.T) {
	record := types.NewCandidateRecord()
	record.Education = []types.EducationEntry{{Degree: "B.Tech", Institution: "ABC Institute", Year: "2018"}}

	summary := &agent.AnalyzerSummary{Skills: map[string][]string{"databases": {"MySQL"}, "all": {"Go"}}}
	summary.PersonalInfo.Name = "Jane Smith"
	summary.PersonalInfo.Email = "jane@example.com"
	summary.PersonalInfo.Phone = "9876543210"

	view := BuildEntityView(record, summary)
	assert.Equal(t, []string{"Jane Smith"}, view.Name)
	assert.Equal(t, "jane@example.com", view.Email)
	assert.Equal(t, "9876543210", view.Phone)
	assert.Equal(t, []string{"Go", "MySQL"}, view.Skills)
	assert.Equal(t, []string{"B.Tech from ABC Institute (2018)"}, view.Education)
	assert.Empty(t, view.Experience)

	view = BuildEntityView(nil, nil)
	assert.NotNil(t, view.Name)
	assert.Empty(t, view.Name)
}
