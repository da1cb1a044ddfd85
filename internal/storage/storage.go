package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"resume-screener/internal/config"
	"resume-screener/internal/logger"
	"resume-screener/internal/types"
)

// ErrRecordNotFound 记录不存在
var ErrRecordNotFound = errors.New("候选人记录不存在")

// RecordStore 分析结果存储
type RecordStore interface {
	Save(ctx context.Context, result *types.AnalysisResult) error
	Get(ctx context.Context, documentID string) (*types.AnalysisResult, error)
	List(ctx context.Context) ([]*types.AnalysisResult, error)
	Delete(ctx context.Context, documentID string) error
}

var (
	_ RecordStore = (*FileStore)(nil)
	_ RecordStore = (*RedisStore)(nil)
	_ RecordStore = (*MinIOStore)(nil)
	_ RecordStore = (*MySQLStore)(nil)
)

// Storage 存储管理器，聚合结果存储与事件发布
type Storage struct {
	// 结果存储，后端为 none 时为 nil
	Records RecordStore

	// 事件发布，未启用时为 nil
	Publisher *RabbitMQPublisher

	closers []func() error
}

// NewStorage 按配置创建存储管理器
func NewStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	if cfg == nil {
		return nil, fmt.Errorf("配置不能为空")
	}
	log := logger.Component("storage")
	s := &Storage{}

	switch cfg.Storage.Backend {
	case "", "none":
		log.Info().Msg("未配置结果存储")
	case "file":
		fs, err := NewFileStore(cfg.Storage.Dir)
		if err != nil {
			return nil, err
		}
		s.Records = fs
	case "redis":
		r, err := NewRedisAdapter(&cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("初始化Redis失败: %w", err)
		}
		s.Records = NewRedisStore(r.Client, cfg.Redis.RecordExpireDays)
		s.closers = append(s.closers, r.Close)
	case "minio":
		m, err := NewMinIOStore(ctx, &cfg.MinIO)
		if err != nil {
			return nil, fmt.Errorf("初始化MinIO失败: %w", err)
		}
		s.Records = m
	case "mysql":
		db, err := NewMySQL(&cfg.MySQL)
		if err != nil {
			return nil, fmt.Errorf("初始化MySQL失败: %w", err)
		}
		s.Records = NewMySQLStore(db)
		s.closers = append(s.closers, db.Close)
	default:
		return nil, fmt.Errorf("未知的存储后端: %s", cfg.Storage.Backend)
	}

	if cfg.RabbitMQ.Enabled {
		p, err := NewRabbitMQPublisher(&cfg.RabbitMQ)
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("初始化RabbitMQ失败: %w", err)
		}
		s.Publisher = p
		s.closers = append(s.closers, p.Close)
	}

	log.Info().Str("backend", cfg.Storage.Backend).Bool("events", s.Publisher != nil).Msg("存储初始化完成")
	return s, nil
}

// Close 关闭所有连接
func (s *Storage) Close() error {
	var errs []string
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err.Error())
		}
	}
	s.closers = nil
	if len(errs) > 0 {
		return fmt.Errorf("关闭存储连接失败: %s", strings.Join(errs, "; "))
	}
	return nil
}

func encodeResult(result *types.AnalysisResult) ([]byte, error) {
	if result == nil || result.DocumentID == "" {
		return nil, fmt.Errorf("分析结果缺少文档标识")
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("序列化分析结果失败: %w", err)
	}
	return data, nil
}

func decodeResult(data []byte) (*types.AnalysisResult, error) {
	var result types.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("反序列化分析结果失败: %w", err)
	}
	return &result, nil
}

// sortResults 按处理时间升序，时间相同按文档标识
func sortResults(results []*types.AnalysisResult) {
	sort.SliceStable(results, func(i, j int) bool {
		ti, tj := results[i].Metadata.ProcessedAt, results[j].Metadata.ProcessedAt
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return results[i].DocumentID < results[j].DocumentID
	})
}
