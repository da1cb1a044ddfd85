package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"resume-screener/internal/matcher"
	"resume-screener/internal/processor"
	"resume-screener/internal/schemas"
	"resume-screener/internal/storage"

	"github.com/spf13/pflag"
)

// addOutputFlag 注册 -o/--out
func addOutputFlag(fs *pflag.FlagSet, target *string, usage string) {
	fs.StringVarP(target, "out", "o", "", usage)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// writeOutput 写到文件，path 为空时写到标准输出
func writeOutput(path string, v interface{}) error {
	if path == "" {
		return writeJSON(os.Stdout, v)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建输出文件失败: %w", err)
	}
	defer f.Close()
	return writeJSON(f, v)
}

func openStorage(ctx context.Context) (*storage.Storage, error) {
	st, err := storage.NewStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return st, nil
}

// newBatchProcessor 按配置挂上存储、事件发布和 schema 校验
func newBatchProcessor(analyzer *processor.ResumeAnalyzer, st *storage.Storage) *processor.BatchProcessor {
	var opts []processor.BatchOption
	if st != nil && st.Records != nil {
		opts = append(opts, processor.WithRecordStore(st.Records))
	}
	if st != nil && st.Publisher != nil {
		opts = append(opts, processor.WithEventPublisher(st.Publisher))
	}
	if cfg.Output.ValidateSchema {
		opts = append(opts, processor.WithRecordValidator(schemas.NewRecordValidator()))
	}
	return processor.NewBatchProcessor(analyzer, opts...)
}

func newMatcher() *matcher.Matcher {
	return matcher.New(
		matcher.WithTokenBoundary(cfg.Matcher.TokenBoundary),
		matcher.WithBlendSummary(cfg.Matcher.BlendSummary),
	)
}
