package agent

import (
	"context"
	"sync"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// TokenBucket 实现令牌桶算法的限流器
type TokenBucket struct {
	rate           float64 // 每秒生成的令牌数
	capacity       float64
	tokens         float64
	lastRefillTime time.Time
	mutex          sync.Mutex
	now            func() time.Time
}

// NewTokenBucket 创建令牌桶，capacity<=0 时取 QPM 的一半
func NewTokenBucket(qpm int, capacity int) *TokenBucket {
	if qpm <= 0 {
		qpm = 1
	}
	if capacity <= 0 {
		capacity = qpm / 2
		if capacity <= 0 {
			capacity = 1
		}
	}
	return &TokenBucket{
		rate:           float64(qpm) / 60.0,
		capacity:       float64(capacity),
		tokens:         float64(capacity), // 初始填满
		lastRefillTime: time.Now(),
		now:            time.Now,
	}
}

// refill 根据经过的时间填充令牌，调用方持有锁
func (tb *TokenBucket) refill() {
	now := tb.now()
	elapsed := now.Sub(tb.lastRefillTime).Seconds()
	tb.lastRefillTime = now

	tb.tokens += elapsed * tb.rate
	if tb.tokens > tb.capacity {
		tb.tokens = tb.capacity
	}
}

// Allow 有令牌时消耗一个并返回 true
func (tb *TokenBucket) Allow() bool {
	tb.mutex.Lock()
	defer tb.mutex.Unlock()

	tb.refill()
	if tb.tokens >= 1.0 {
		tb.tokens -= 1.0
		return true
	}
	return false
}

// Wait 阻塞直到拿到令牌或 ctx 结束
func (tb *TokenBucket) Wait(ctx context.Context) error {
	for {
		tb.mutex.Lock()
		tb.refill()
		if tb.tokens >= 1.0 {
			tb.tokens -= 1.0
			tb.mutex.Unlock()
			return nil
		}
		waitTime := time.Duration((1.0 - tb.tokens) / tb.rate * float64(time.Second))
		tb.mutex.Unlock()

		timer := time.NewTimer(waitTime)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// RateLimitedChatModel 对模型调用做限流的代理。
// 每次调用只等待令牌，不做失败重试：分析器失败由调用方降级处理
type RateLimitedChatModel struct {
	original model.BaseChatModel
	bucket   *TokenBucket
}

// NewRateLimitedChatModel 创建限流代理，qpm<=0 时直接返回原模型
func NewRateLimitedChatModel(original model.BaseChatModel, qpm int) model.BaseChatModel {
	if qpm <= 0 {
		return original
	}
	return &RateLimitedChatModel{
		original: original,
		bucket:   NewTokenBucket(qpm, qpm/2),
	}
}

// Generate 等待令牌后调用原模型
func (rl *RateLimitedChatModel) Generate(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.Message, error) {
	if err := rl.bucket.Wait(ctx); err != nil {
		return nil, err
	}
	return rl.original.Generate(ctx, messages, options...)
}

// Stream 等待令牌后调用原模型
func (rl *RateLimitedChatModel) Stream(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	if err := rl.bucket.Wait(ctx); err != nil {
		return nil, err
	}
	return rl.original.Stream(ctx, messages, options...)
}

var _ model.BaseChatModel = (*RateLimitedChatModel)(nil)
