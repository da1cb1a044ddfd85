package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"resume-screener/internal/types"
)

const (
	recordFilePrefix = "resume_"
	recordFileSuffix = "_extracted.json"
)

// FileStore 本地目录存储，每条记录一个 JSON 文件
type FileStore struct {
	dir string
}

// NewFileStore 创建文件存储，目录不存在时创建
func NewFileStore(dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("存储目录不能为空")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建存储目录 %s 失败: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir 存储目录
func (f *FileStore) Dir() string {
	return f.dir
}

// PathFor 记录对应的文件路径
func (f *FileStore) PathFor(documentID string) string {
	return filepath.Join(f.dir, recordFilePrefix+documentID+recordFileSuffix)
}

// Save 先写临时文件再改名，读者不会看到半个文件
func (f *FileStore) Save(ctx context.Context, result *types.AnalysisResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encodeResult(result)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.dir, ".record-*.tmp")
	if err != nil {
		return fmt.Errorf("创建临时文件失败: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("写入记录失败: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("写入记录失败: %w", err)
	}
	if err := os.Rename(tmpName, f.PathFor(result.DocumentID)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("保存记录失败: %w", err)
	}
	return nil
}

// Get 读取一条记录
func (f *FileStore) Get(ctx context.Context, documentID string) (*types.AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.PathFor(documentID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("读取记录失败: %w", err)
	}
	return decodeResult(data)
}

// List 读取目录下全部记录，无法解析的文件跳过
func (f *FileStore) List(ctx context.Context) ([]*types.AnalysisResult, error) {
	matches, err := filepath.Glob(filepath.Join(f.dir, recordFilePrefix+"*"+recordFileSuffix))
	if err != nil {
		return nil, fmt.Errorf("列出记录失败: %w", err)
	}

	results := make([]*types.AnalysisResult, 0, len(matches))
	for _, path := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		r, err := decodeResult(data)
		if err != nil {
			continue
		}
		results = append(results, r)
	}
	sortResults(results)
	return results, nil
}

// Delete 删除一条记录
func (f *FileStore) Delete(ctx context.Context, documentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(f.PathFor(documentID)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrRecordNotFound
		}
		return fmt.Errorf("删除记录失败: %w", err)
	}
	return nil
}
