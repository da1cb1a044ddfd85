package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"resume-screener/internal/config"
	"resume-screener/internal/constants"
	"resume-screener/internal/logger"
	"resume-screener/internal/tracing"
	"resume-screener/internal/types"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var minioTracer = otel.Tracer("resume-screener/storage/minio")

// MinIOStore 每条记录保存为 records/<documentID>.json 对象
type MinIOStore struct {
	client *minio.Client
	cfg    *config.MinIOConfig
	bucket string
	logger zerolog.Logger
}

// NewMinIOStore 创建MinIO客户端并确保存储桶存在
func NewMinIOStore(ctx context.Context, cfg *config.MinIOConfig) (*MinIOStore, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MinIO配置不能为空")
	}
	if cfg.BucketName == "" {
		return nil, fmt.Errorf("MinIO存储桶名称不能为空")
	}
	log := logger.Component("minio")
	log.Info().Str("endpoint", cfg.Endpoint).Str("bucket", cfg.BucketName).Msg("初始化MinIO客户端")

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("创建MinIO客户端失败: %w", err)
	}

	m := &MinIOStore{
		client: client,
		cfg:    cfg,
		bucket: cfg.BucketName,
		logger: log,
	}

	if err := m.ensureBucketExists(ctx, cfg.BucketName, cfg.Location); err != nil {
		return nil, err
	}

	if cfg.RecordExpireDays > 0 {
		if err := m.setupBucketLifecycle(ctx, "expire-records", cfg.RecordExpireDays); err != nil {
			m.logger.Warn().Err(err).Msg("设置生命周期规则失败")
		}
	}
	return m, nil
}

// ensureBucketExists 确保存储桶存在
func (m *MinIOStore) ensureBucketExists(ctx context.Context, bucketName, location string) error {
	exists, err := m.client.BucketExists(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("检查存储桶 %s 是否存在时出错: %w", bucketName, err)
	}
	if exists {
		return nil
	}
	m.logger.Info().Str("bucket", bucketName).Msg("存储桶不存在，正在创建")
	if err := m.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: location}); err != nil {
		return fmt.Errorf("创建存储桶 %s 失败: %w", bucketName, err)
	}
	return nil
}

// setupBucketLifecycle 为记录前缀设置过期规则
func (m *MinIOStore) setupBucketLifecycle(ctx context.Context, ruleID string, expiryDays int) error {
	cfg := lifecycle.NewConfiguration()
	cfg.Rules = []lifecycle.Rule{
		{
			ID:         ruleID,
			Status:     "Enabled",
			RuleFilter: lifecycle.Filter{Prefix: constants.RecordObjectPrefix},
			Expiration: lifecycle.Expiration{
				Days: lifecycle.ExpirationDays(expiryDays),
			},
		},
	}
	return m.client.SetBucketLifecycle(ctx, m.bucket, cfg)
}

func objectName(documentID string) string {
	return constants.RecordObjectPrefix + documentID + ".json"
}

func (m *MinIOStore) startSpan(ctx context.Context, op, object string) (context.Context, trace.Span) {
	return minioTracer.Start(ctx, "MinIO."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("storage.system", "minio"),
			attribute.String("storage.bucket", m.bucket),
			attribute.String("storage.object", object),
		))
}

// Save 上传记录对象，同名对象直接覆盖
func (m *MinIOStore) Save(ctx context.Context, result *types.AnalysisResult) error {
	data, err := encodeResult(result)
	if err != nil {
		return err
	}
	name := objectName(result.DocumentID)
	ctx, span := m.startSpan(ctx, "PutObject", name)
	defer span.End()

	_, err = m.client.PutObject(ctx, m.bucket, name,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: constants.RecordContentType})
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeObjectStore)
		return fmt.Errorf("上传记录对象失败: %w", err)
	}
	return nil
}

// Get 下载一条记录
func (m *MinIOStore) Get(ctx context.Context, documentID string) (*types.AnalysisResult, error) {
	data, err := m.download(ctx, objectName(documentID))
	if err != nil {
		return nil, err
	}
	return decodeResult(data)
}

func (m *MinIOStore) download(ctx context.Context, name string) ([]byte, error) {
	ctx, span := m.startSpan(ctx, "GetObject", name)
	defer span.End()

	obj, err := m.client.GetObject(ctx, m.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, m.spanError(span, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, m.spanError(span, err)
	}
	return data, nil
}

// spanError 对象不存在不记为错误
func (m *MinIOStore) spanError(span trace.Span, err error) error {
	mapped := m.mapError(err)
	if mapped != ErrRecordNotFound {
		tracing.RecordError(span, err, tracing.ErrorTypeObjectStore)
	}
	return mapped
}

func (m *MinIOStore) mapError(err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return ErrRecordNotFound
	}
	return fmt.Errorf("读取记录对象失败: %w", err)
}

// List 遍历记录前缀下的全部对象
func (m *MinIOStore) List(ctx context.Context) ([]*types.AnalysisResult, error) {
	results := make([]*types.AnalysisResult, 0)
	for info := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
		Prefix:    constants.RecordObjectPrefix,
		Recursive: true,
	}) {
		if info.Err != nil {
			return nil, fmt.Errorf("列出记录对象失败: %w", info.Err)
		}
		if !strings.HasSuffix(info.Key, ".json") {
			continue
		}
		data, err := m.download(ctx, info.Key)
		if err != nil {
			m.logger.Warn().Err(err).Str("object", info.Key).Msg("跳过无法读取的记录对象")
			continue
		}
		r, err := decodeResult(data)
		if err != nil {
			m.logger.Warn().Err(err).Str("object", info.Key).Msg("跳过无法解析的记录对象")
			continue
		}
		results = append(results, r)
	}
	sortResults(results)
	return results, nil
}

// Delete 删除记录对象
func (m *MinIOStore) Delete(ctx context.Context, documentID string) error {
	name := objectName(documentID)
	if _, err := m.client.StatObject(ctx, m.bucket, name, minio.StatObjectOptions{}); err != nil {
		return m.mapError(err)
	}
	if err := m.client.RemoveObject(ctx, m.bucket, name, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("删除记录对象失败: %w", err)
	}
	return nil
}
