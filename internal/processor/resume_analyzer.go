package processor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"resume-screener/internal/agent"
	"resume-screener/internal/logger"
	"resume-screener/internal/parser"
	"resume-screener/internal/tracing"
	"resume-screener/internal/types"

	gofrsuuid "github.com/gofrs/uuid/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("processor")

// documentNamespace 文档标识的 UUIDv5 命名空间
var documentNamespace = gofrsuuid.NewV5(gofrsuuid.NamespaceURL, "resume-screener/document")

// DocumentID 由文档路径和页码生成稳定的文档标识，page<=0 表示整个文件
func DocumentID(path string, page int) string {
	name := path
	if page > 0 {
		name = PageItemID(path, page)
	}
	return gofrsuuid.NewV5(documentNamespace, name).String()
}

// textDocumentID 没有路径时按文本内容生成标识
func textDocumentID(text string) string {
	return gofrsuuid.NewV5(documentNamespace, "text:"+text).String()
}

// PageItemID 批处理中单页条目的标识
func PageItemID(path string, page int) string {
	return fmt.Sprintf("%s#page-%d", path, page)
}

// ResumeAnalyzer 分析编排器：先尝试外部分析器，再用启发式提取补充或降级
type ResumeAnalyzer struct {
	extractor       DocumentExtractor
	heuristics      RecordExtractor
	analyzer        TextAnalyzer
	modelName       string
	analyzerTimeout time.Duration
	logger          zerolog.Logger
	now             func() time.Time
}

// NewResumeAnalyzer 创建分析编排器。默认使用版面提取器和扁平技能模式的启发式提取器，不启用外部分析器
func NewResumeAnalyzer(opts ...AnalyzerOption) *ResumeAnalyzer {
	ra := &ResumeAnalyzer{
		extractor:  parser.NewLayoutPDFExtractor(),
		heuristics: parser.NewHeuristicExtractor(),
		logger:     logger.Component("resume_analyzer"),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(ra)
	}
	return ra
}

// HasAnalyzer 是否配置了外部分析器
func (ra *ResumeAnalyzer) HasAnalyzer() bool {
	return ra.analyzer != nil
}

// Analyze 分析一段简历文本，永不返回错误：分析器失败时降级为启发式结果
func (ra *ResumeAnalyzer) Analyze(ctx context.Context, text string) *types.AnalysisResult {
	return ra.analyze(ctx, text, textDocumentID(text), types.ResultMetadata{})
}

// ProcessDocument 提取并分析一个文档。只有文档读取失败会返回错误
func (ra *ResumeAnalyzer) ProcessDocument(ctx context.Context, path string) (*types.AnalysisResult, error) {
	ctx, span := tracer.Start(ctx, "ResumeAnalyzer.ProcessDocument",
		trace.WithAttributes(attribute.String("document.path", tracing.SafeAttributeValue("document.path", path, tracing.DefaultMaxLength))))
	defer span.End()

	doc, err := ra.extract(ctx, path)
	if err != nil {
		return nil, err
	}

	meta := types.ResultMetadata{SourcePath: path}
	return ra.analyze(ctx, doc.Text(), DocumentID(path, 0), meta), nil
}

// ExtractDocument 只做文本提取，返回的错误总是 *parser.DocumentReadError
func (ra *ResumeAnalyzer) ExtractDocument(ctx context.Context, path string) (*types.RawDocument, error) {
	return ra.extract(ctx, path)
}

// AnalyzePage 分析已提取文档中的一页，页面没有文本时返回 DocumentReadError
func (ra *ResumeAnalyzer) AnalyzePage(ctx context.Context, doc *types.RawDocument, page int) (*types.AnalysisResult, error) {
	text := doc.PageText(page)
	if strings.TrimSpace(text) == "" {
		return nil, parser.NewDocumentReadError(doc.Path, parser.ErrNoText)
	}
	meta := types.ResultMetadata{SourcePath: doc.Path, Page: page}
	return ra.analyze(ctx, text, DocumentID(doc.Path, page), meta), nil
}

func (ra *ResumeAnalyzer) extract(ctx context.Context, path string) (*types.RawDocument, error) {
	ctx, span := tracer.Start(ctx, "ResumeAnalyzer.extract")
	defer span.End()

	doc, err := ra.extractor.Extract(ctx, path)
	if err != nil {
		if !parser.IsDocumentReadError(err) {
			err = parser.NewDocumentReadError(path, err)
		}
		tracing.RecordError(span, err, tracing.ErrorTypeDocument)
		ra.logger.Error().Err(err).Str("path", path).Msg("文档读取失败")
		return nil, err
	}
	if strings.TrimSpace(doc.Text()) == "" {
		err = parser.NewDocumentReadError(path, parser.ErrNoText)
		tracing.RecordError(span, err, tracing.ErrorTypeDocument)
		return nil, err
	}

	span.SetAttributes(attribute.Int("document.pages", len(doc.Pages)))
	return doc, nil
}

func (ra *ResumeAnalyzer) analyze(ctx context.Context, text string, documentID string, meta types.ResultMetadata) *types.AnalysisResult {
	ctx, span := tracer.Start(ctx, "ResumeAnalyzer.analyze",
		trace.WithAttributes(
			attribute.String("document.id", documentID),
			attribute.Int("text.length", len(text)),
		))
	defer span.End()

	meta.ProcessedAt = ra.now()
	meta.TextLength = len(text)
	meta.AnalysisID = uuid.New().String()

	result := &types.AnalysisResult{
		DocumentID: documentID,
		Path:       types.PathHeuristicFallback,
		Metadata:   meta,
	}

	output, err := ra.callAnalyzer(ctx, text)
	result.Record = ra.heuristicRecord(ctx, text)

	if err != nil {
		if ra.analyzer != nil {
			ra.logger.Warn().Err(err).Str("document_id", documentID).Msg("分析器不可用，使用启发式结果")
		}
		span.SetAttributes(attribute.String("analysis.path", string(result.Path)))
		return result
	}

	result.Path = types.PathAnalyzer
	result.AnalyzerOutput = output
	result.Metadata.ModelUsed = ra.modelName

	var summary *agent.AnalyzerSummary
	if obj, perr := agent.ParseAnalyzerJSON(output); perr == nil {
		result.AnalyzerStructured = obj
		if summary, perr = agent.DecodeAnalyzerSummary(obj); perr != nil {
			ra.logger.Debug().Err(perr).Msg("分析器输出字段类型不符合预期")
		}
	} else {
		ra.logger.Debug().Err(perr).Str("document_id", documentID).Msg("分析器输出中没有可解析的JSON")
	}
	result.Entities = BuildEntityView(result.Record, summary)

	span.SetAttributes(attribute.String("analysis.path", string(result.Path)))
	ra.logger.Info().Str("document_id", documentID).Str("model", ra.modelName).Msg("分析器成功返回")
	return result
}

func (ra *ResumeAnalyzer) heuristicRecord(ctx context.Context, text string) *types.CandidateRecord {
	_, span := tracer.Start(ctx, "ResumeAnalyzer.heuristics")
	defer span.End()
	return ra.heuristics.Extract(text)
}

type analyzerReply struct {
	output string
	err    error
}

// callAnalyzer 调用一次外部分析器。错误、panic、超时和空输出都归为 ErrAnalyzerUnavailable
func (ra *ResumeAnalyzer) callAnalyzer(ctx context.Context, text string) (string, error) {
	if ra.analyzer == nil {
		return "", ErrAnalyzerUnavailable
	}

	ctx, span := tracer.Start(ctx, "ResumeAnalyzer.callAnalyzer")
	defer span.End()

	if ra.analyzerTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ra.analyzerTimeout)
		defer cancel()
	}

	done := make(chan analyzerReply, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- analyzerReply{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		output, err := ra.analyzer.Analyze(ctx, text)
		done <- analyzerReply{output: output, err: err}
	}()

	var reply analyzerReply
	select {
	case <-ctx.Done():
		reply.err = ctx.Err()
	case reply = <-done:
	}

	if reply.err == nil && strings.TrimSpace(reply.output) == "" {
		reply.err = errors.New("empty output")
	}
	if reply.err != nil {
		err := fmt.Errorf("%w: %w", ErrAnalyzerUnavailable, reply.err)
		errorType := tracing.ErrorTypeAnalyzer
		if errors.Is(reply.err, context.DeadlineExceeded) {
			errorType = tracing.ErrorTypeTimeout
		}
		tracing.RecordError(span, err, errorType)
		return "", err
	}
	return reply.output, nil
}

// BuildEntityView 由启发式记录和（可选的）分析器输出构造扁平视图
func BuildEntityView(record *types.CandidateRecord, summary *agent.AnalyzerSummary) *types.EntityView {
	view := &types.EntityView{
		Name:       []string{},
		Skills:     []string{},
		Education:  []string{},
		Experience: []string{},
	}
	if record == nil {
		record = types.NewCandidateRecord()
	}

	addName := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		for _, n := range view.Name {
			if strings.EqualFold(n, name) {
				return
			}
		}
		view.Name = append(view.Name, name)
	}

	addName(record.Name)
	view.Email = record.Contact.Email
	view.Phone = record.Contact.Phone
	view.Skills = append(view.Skills, record.Skills.Values()...)
	for _, e := range record.Education {
		view.Education = append(view.Education, e.String())
	}
	for _, e := range record.Experience {
		view.Experience = append(view.Experience, e.String())
	}

	if summary != nil {
		addName(summary.PersonalInfo.Name)
		if view.Email == "" {
			view.Email = summary.PersonalInfo.Email
		}
		if view.Phone == "" {
			view.Phone = summary.PersonalInfo.Phone
		}
		if len(view.Skills) == 0 {
			for _, category := range sortedKeys(summary.Skills) {
				view.Skills = append(view.Skills, summary.Skills[category]...)
			}
		}
	}
	return view
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
