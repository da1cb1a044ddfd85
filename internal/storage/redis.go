package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resume-screener/internal/config"
	"resume-screener/internal/constants"
	"resume-screener/internal/tracing"
	"resume-screener/internal/types"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// 为Redis操作定义专用tracer
var redisTracer = otel.Tracer("resume-screener/storage/redis")

// Redis wraps the Redis client
type Redis struct {
	Client *redis.Client
	config *config.RedisConfig
}

// NewRedisAdapter creates a new Redis client connection
func NewRedisAdapter(cfg *config.RedisConfig) (*Redis, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	opt := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,

		// 连接池设置
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,

		// 超时设置
		DialTimeout:  time.Duration(cfg.DialTimeoutSeconds) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,

		MaxRetries: cfg.MaxRetries,
	}

	client := redis.NewClient(opt)

	// 添加OpenTelemetry钩子, 记录所有Redis操作
	if err := redisotel.InstrumentTracing(client); err != nil {
		return nil, fmt.Errorf("failed to instrument Redis with OpenTelemetry: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Address, err)
	}

	return &Redis{
		Client: client,
		config: cfg,
	}, nil
}

// Close closes the Redis client connection
func (r *Redis) Close() error {
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}

// Ping checks the Redis connection
func (r *Redis) Ping(ctx context.Context) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}
	return r.Client.Ping(ctx).Err()
}

// RedisStore 以 STRING 保存每条记录，ZSET 按处理时间建立索引
type RedisStore struct {
	client redis.UniversalClient
	expire time.Duration
}

// NewRedisStore 基于已有客户端创建记录存储，expireDays<=0 表示不过期
func NewRedisStore(client redis.UniversalClient, expireDays int) *RedisStore {
	var expire time.Duration
	if expireDays > 0 {
		expire = time.Duration(expireDays) * 24 * time.Hour
	}
	return &RedisStore{client: client, expire: expire}
}

func recordKey(documentID string) string {
	return fmt.Sprintf(constants.KeyResumeRecord, documentID)
}

func (s *RedisStore) startSpan(ctx context.Context, op, key string) (context.Context, trace.Span) {
	return redisTracer.Start(ctx, "Redis."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "redis"),
			attribute.String("db.operation", op),
			attribute.String("db.redis.key", tracing.SafeRedisKey(key)),
		))
}

// Save 同一管道内写记录并更新索引
func (s *RedisStore) Save(ctx context.Context, result *types.AnalysisResult) error {
	data, err := encodeResult(result)
	if err != nil {
		return err
	}
	key := recordKey(result.DocumentID)
	ctx, span := s.startSpan(ctx, "SAVE", key)
	defer span.End()
	span.SetAttributes(attribute.Int("db.redis.value_length", len(data)))

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, key, data, s.expire)
	pipe.ZAdd(ctx, constants.KeyResumeIndex, redis.Z{
		Score:  float64(result.Metadata.ProcessedAt.UnixMilli()),
		Member: result.DocumentID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeRedis)
		return fmt.Errorf("写入Redis失败: %w", err)
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

// Get 读取一条记录
func (s *RedisStore) Get(ctx context.Context, documentID string) (*types.AnalysisResult, error) {
	key := recordKey(documentID)
	ctx, span := s.startSpan(ctx, "GET", key)
	defer span.End()

	val, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// key不存在不算错误
			span.SetAttributes(attribute.Bool("db.redis.key_exists", false))
			return nil, ErrRecordNotFound
		}
		tracing.RecordError(span, err, tracing.ErrorTypeRedis)
		return nil, fmt.Errorf("读取Redis失败: %w", err)
	}
	span.SetAttributes(attribute.Bool("db.redis.key_exists", true))
	return decodeResult(val)
}

// List 按索引顺序读取全部记录。索引中已过期的记录会被顺带清理
func (s *RedisStore) List(ctx context.Context) ([]*types.AnalysisResult, error) {
	ctx, span := s.startSpan(ctx, "LIST", constants.KeyResumeIndex)
	defer span.End()

	ids, err := s.client.ZRange(ctx, constants.KeyResumeIndex, 0, -1).Result()
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeRedis)
		return nil, fmt.Errorf("读取记录索引失败: %w", err)
	}
	results := make([]*types.AnalysisResult, 0, len(ids))
	if len(ids) == 0 {
		return results, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = recordKey(id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeRedis)
		return nil, fmt.Errorf("批量读取记录失败: %w", err)
	}

	var stale []interface{}
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			stale = append(stale, ids[i])
			continue
		}
		r, err := decodeResult([]byte(str))
		if err != nil {
			continue
		}
		results = append(results, r)
	}
	if len(stale) > 0 {
		s.client.ZRem(ctx, constants.KeyResumeIndex, stale...)
	}
	span.SetAttributes(attribute.Int("db.redis.records", len(results)))
	sortResults(results)
	return results, nil
}

// Delete 删除记录及其索引
func (s *RedisStore) Delete(ctx context.Context, documentID string) error {
	key := recordKey(documentID)
	ctx, span := s.startSpan(ctx, "DELETE", key)
	defer span.End()

	pipe := s.client.TxPipeline()
	del := pipe.Del(ctx, key)
	pipe.ZRem(ctx, constants.KeyResumeIndex, documentID)
	if _, err := pipe.Exec(ctx); err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeRedis)
		return fmt.Errorf("删除Redis记录失败: %w", err)
	}
	if del.Val() == 0 {
		return ErrRecordNotFound
	}
	return nil
}
