package processor

import (
	"context"
	"errors"
	"sync"
	"time"

	"resume-screener/internal/parser"
	"resume-screener/internal/types"
)

const sampleResume = `Jane Smith
jane.smith@example.com | +91 98765 43210 | Location: Pune
PROFESSIONAL SUMMARY
Backend engineer with six years building distributed systems in Go and Python.
WORK EXPERIENCE
Jan 2021 - Present
Senior Software Engineer
Globex Technologies
- Led migration to Kubernetes
EDUCATION
B.Tech in Computer Science
ABC Institute of Technology
2014 - 2018
TECHNICAL SKILLS
Go, Python, Docker, PostgreSQL`

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// stubExtractor 按路径返回预设的文档或错误
type stubExtractor struct {
	docs map[string]*types.RawDocument
	errs map[string]error
}

func (s *stubExtractor) Extract(ctx context.Context, path string) (*types.RawDocument, error) {
	if err, ok := s.errs[path]; ok {
		return nil, err
	}
	if doc, ok := s.docs[path]; ok {
		return doc, nil
	}
	return nil, parser.NewDocumentReadError(path, errors.New("no such file"))
}

func singlePageDoc(path, text string) *types.RawDocument {
	return &types.RawDocument{
		Path:  path,
		Pages: []types.Page{{Number: 1, Blocks: []types.TextBlock{{Text: text}}}},
	}
}

// stubAnalyzer 可配置输出、错误、panic 或阻塞
type stubAnalyzer struct {
	output string
	err    error
	panic  interface{}
	block  bool
	calls  int
}

func (s *stubAnalyzer) Analyze(ctx context.Context, rawText string) (string, error) {
	s.calls++
	if s.panic != nil {
		panic(s.panic)
	}
	if s.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return s.output, s.err
}

func (s *stubAnalyzer) ModelName() string { return "stub-model" }

// memoryStore 内存中的 RecordStore
type memoryStore struct {
	mu      sync.Mutex
	records map[string]*types.AnalysisResult
	failFor map[string]bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: map[string]*types.AnalysisResult{}, failFor: map[string]bool{}}
}

func (m *memoryStore) Save(ctx context.Context, result *types.AnalysisResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failFor[result.DocumentID] {
		return errors.New("disk full")
	}
	m.records[result.DocumentID] = result
	return nil
}

func (m *memoryStore) Get(ctx context.Context, id string) (*types.AnalysisResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return r, nil
}

func (m *memoryStore) List(ctx context.Context) ([]*types.AnalysisResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*types.AnalysisResult, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	return out, nil
}

func (m *memoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	return nil
}

type recordingPublisher struct {
	published []string
	err       error
}

func (p *recordingPublisher) PublishRecordExtracted(ctx context.Context, result *types.AnalysisResult) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, result.DocumentID)
	return nil
}

type rejectingValidator struct{}

func (rejectingValidator) ValidateRecord(record *types.CandidateRecord) error {
	if record.Name == "" {
		return errors.New("name: is required")
	}
	return nil
}
