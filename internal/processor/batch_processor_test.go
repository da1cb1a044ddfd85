package processor

import (
	"context"
	"errors"
	"testing"

	"resume-screener/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessFiles_IsolatesFailures(t *testing.T) {
	extractor := &stubExtractor{docs: map[string]*types.RawDocument{
		"a.pdf": singlePageDoc("a.pdf", sampleResume),
		"c.pdf": singlePageDoc("c.pdf", sampleResume),
	}}
	store := newMemoryStore()
	publisher := &recordingPublisher{}
	bp := NewBatchProcessor(
		newTestAnalyzer(nil, WithDocumentExtractor(extractor)),
		WithRecordStore(store),
		WithEventPublisher(publisher),
	)

	report := bp.ProcessFiles(context.Background(), []string{"a.pdf", "b.pdf", "c.pdf"})

	assert.Equal(t, []string{"a.pdf", "c.pdf"}, report.Processed)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "b.pdf", report.Failed[0].ID)
	assert.Contains(t, report.Failed[0].Reason, "no such file")

	assert.Len(t, store.records, 2)
	assert.Equal(t, []string{DocumentID("a.pdf", 0), DocumentID("c.pdf", 0)}, publisher.published)
}

func TestProcessFiles_StoreValidatorAndPublisherFailures(t *testing.T) {
	noName := "SKILLS\nGo, Docker"
	extractor := &stubExtractor{docs: map[string]*types.RawDocument{
		"ok.pdf":     singlePageDoc("ok.pdf", sampleResume),
		"noname.pdf": singlePageDoc("noname.pdf", noName),
		"full.pdf":   singlePageDoc("full.pdf", sampleResume),
	}}
	store := newMemoryStore()
	store.failFor[DocumentID("full.pdf", 0)] = true

	bp := NewBatchProcessor(
		newTestAnalyzer(nil, WithDocumentExtractor(extractor)),
		WithRecordStore(store),
		WithRecordValidator(rejectingValidator{}),
	)
	report := bp.ProcessFiles(context.Background(), []string{"ok.pdf", "noname.pdf", "full.pdf"})

	assert.Equal(t, []string{"ok.pdf"}, report.Processed)
	require.Len(t, report.Failed, 2)
	assert.Equal(t, "noname.pdf", report.Failed[0].ID)
	assert.Contains(t, report.Failed[0].Reason, ErrSchemaInvalid.Error())
	assert.Equal(t, "full.pdf", report.Failed[1].ID)
	assert.Contains(t, report.Failed[1].Reason, "disk full")

	publisher := &recordingPublisher{err: errors.New("channel closed")}
	bp = NewBatchProcessor(
		newTestAnalyzer(nil, WithDocumentExtractor(extractor)),
		WithRecordStore(newMemoryStore()),
		WithEventPublisher(publisher),
	)
	report = bp.ProcessFiles(context.Background(), []string{"ok.pdf"})
	assert.Empty(t, report.Processed)
	require.Len(t, report.Failed, 1)
	assert.Contains(t, report.Failed[0].Reason, ErrPublishEventFailed.Error())
}

func TestProcessFiles_CancelledContext(t *testing.T) {
	extractor := &stubExtractor{docs: map[string]*types.RawDocument{"a.pdf": singlePageDoc("a.pdf", sampleResume)}}
	bp := NewBatchProcessor(newTestAnalyzer(nil, WithDocumentExtractor(extractor)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report := bp.ProcessFiles(ctx, []string{"a.pdf"})
	assert.Empty(t, report.Processed)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, context.Canceled.Error(), report.Failed[0].Reason)
}

func TestProcessPages(t *testing.T) {
	doc := &types.RawDocument{
		Path: "/data/resumes.pdf",
		Pages: []types.Page{
			{Number: 2, Blocks: []types.TextBlock{{Text: "John Carter\njohn.carter@example.com\nSKILLS\nJava, Spring"}}},
			{Number: 1, Blocks: []types.TextBlock{{Text: sampleResume}}},
			{Number: 3, Blocks: []types.TextBlock{{Text: "  "}}},
		},
	}
	extractor := &stubExtractor{docs: map[string]*types.RawDocument{"/data/resumes.pdf": doc}}
	store := newMemoryStore()
	bp := NewBatchProcessor(newTestAnalyzer(nil, WithDocumentExtractor(extractor)), WithRecordStore(store))

	report := bp.ProcessPages(context.Background(), "/data/resumes.pdf")

	assert.Equal(t, []string{"/data/resumes.pdf#page-1", "/data/resumes.pdf#page-2"}, report.Processed)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "/data/resumes.pdf#page-3", report.Failed[0].ID)
	assert.Equal(t, "Page 3 of resumes.pdf", report.Failed[0].Label)
	assert.Contains(t, report.Failed[0].String(), "Page 3 of resumes.pdf - ")
	assert.Contains(t, report.Failed[0].Reason, ErrExtractFailed.Error())

	saved, err := store.Get(context.Background(), DocumentID("/data/resumes.pdf", 2))
	require.NoError(t, err)
	assert.Equal(t, 2, saved.Metadata.Page)
	assert.Equal(t, "John Carter", saved.Record.Name)
}

func TestProcessPages_UnreadableFile(t *testing.T) {
	bp := NewBatchProcessor(newTestAnalyzer(nil, WithDocumentExtractor(&stubExtractor{})))

	report := bp.ProcessPages(context.Background(), "gone.pdf")
	assert.Empty(t, report.Processed)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "gone.pdf", report.Failed[0].ID)
}

func TestResumeProcessError(t *testing.T) {
	err := NewStoreError("doc-1", "disk full")
	assert.ErrorIs(t, err, ErrStoreRecordFailed)
	assert.Equal(t, "保存候选人记录失败 (操作:store, 文档:doc-1): disk full", err.Error())
	assert.Equal(t, "保存候选人记录失败: disk full", failureReason(err))
	assert.Equal(t, "plain", failureReason(errors.New("plain")))
}
