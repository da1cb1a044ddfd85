package processor

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"resume-screener/internal/logger"
	"resume-screener/internal/tracing"
	"resume-screener/internal/types"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// BatchProcessor 顺序处理多个文档（或一个文档的多页），单个条目失败不影响其余条目
type BatchProcessor struct {
	analyzer  *ResumeAnalyzer
	store     RecordStore
	publisher EventPublisher
	validator RecordValidator
	logger    zerolog.Logger
}

// NewBatchProcessor 创建批处理器
func NewBatchProcessor(analyzer *ResumeAnalyzer, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		analyzer: analyzer,
		logger:   logger.Component("batch_processor"),
	}
	for _, opt := range opts {
		opt(bp)
	}
	return bp
}

// PageLabel 单页条目面向人的描述
func PageLabel(path string, page int) string {
	return fmt.Sprintf("Page %d of %s", page, filepath.Base(path))
}

// ProcessFiles 逐个处理文件，每个文件视为一份简历
func (bp *BatchProcessor) ProcessFiles(ctx context.Context, paths []string) *types.BatchReport {
	ctx, span := tracer.Start(ctx, "BatchProcessor.ProcessFiles", trace.WithAttributes(attribute.Int("batch.size", len(paths))))
	defer span.End()

	report := types.NewBatchReport()
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			report.Failed = append(report.Failed, types.FailedItem{ID: path, Reason: err.Error()})
			continue
		}

		result, err := bp.analyzer.ProcessDocument(ctx, path)
		if err == nil {
			err = bp.persist(ctx, result)
		}
		if err != nil {
			bp.logger.Warn().Err(err).Str("path", path).Msg("文件处理失败，继续下一个")
			report.Failed = append(report.Failed, types.FailedItem{ID: path, Reason: failureReason(err)})
			continue
		}
		report.Processed = append(report.Processed, path)
	}

	bp.logSummary(span, report)
	return report
}

// ProcessPages 把一个多页文件的每一页当作一份独立简历处理
func (bp *BatchProcessor) ProcessPages(ctx context.Context, path string) *types.BatchReport {
	ctx, span := tracer.Start(ctx, "BatchProcessor.ProcessPages")
	defer span.End()

	report := types.NewBatchReport()
	doc, err := bp.analyzer.ExtractDocument(ctx, path)
	if err != nil {
		report.Failed = append(report.Failed, types.FailedItem{ID: path, Reason: failureReason(err)})
		bp.logSummary(span, report)
		return report
	}

	pages := make([]int, 0, len(doc.Pages))
	for _, p := range doc.Pages {
		pages = append(pages, p.Number)
	}
	sort.Ints(pages)

	for _, page := range pages {
		id := PageItemID(path, page)
		if cerr := ctx.Err(); cerr != nil {
			report.Failed = append(report.Failed, types.FailedItem{ID: id, Label: PageLabel(path, page), Reason: cerr.Error()})
			continue
		}

		result, err := bp.analyzer.AnalyzePage(ctx, doc, page)
		if err != nil {
			err = NewExtractError(id, err.Error())
		} else {
			err = bp.persist(ctx, result)
		}
		if err != nil {
			bp.logger.Warn().Err(err).Str("item", id).Msg("页面处理失败，继续下一页")
			report.Failed = append(report.Failed, types.FailedItem{ID: id, Label: PageLabel(path, page), Reason: failureReason(err)})
			continue
		}
		report.Processed = append(report.Processed, id)
	}

	bp.logSummary(span, report)
	return report
}

// persist 校验、保存并发布事件。没有配置存储时只做校验
func (bp *BatchProcessor) persist(ctx context.Context, result *types.AnalysisResult) error {
	if bp.validator != nil {
		if err := bp.validator.ValidateRecord(result.Record); err != nil {
			tracing.RecordError(trace.SpanFromContext(ctx), err, tracing.ErrorTypeValidation)
			return NewSchemaError(result.DocumentID, err.Error())
		}
	}
	if bp.store == nil {
		return nil
	}

	if err := bp.store.Save(ctx, result); err != nil {
		return NewStoreError(result.DocumentID, err.Error())
	}
	if bp.publisher != nil {
		if err := bp.publisher.PublishRecordExtracted(ctx, result); err != nil {
			return NewPublishError(result.DocumentID, err.Error())
		}
	}
	return nil
}

func (bp *BatchProcessor) logSummary(span trace.Span, report *types.BatchReport) {
	span.SetAttributes(
		attribute.Int("batch.processed", len(report.Processed)),
		attribute.Int("batch.failed", len(report.Failed)),
	)
	if len(report.Failed) > 0 {
		tracing.RecordError(span, fmt.Errorf("%d 个条目处理失败", len(report.Failed)), tracing.ErrorTypeInternal)
	}
	bp.logger.Info().
		Int("processed", len(report.Processed)).
		Int("failed", len(report.Failed)).
		Msg("批处理完成")
}
