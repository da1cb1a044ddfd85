package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"resume-screener/internal/config"
	"resume-screener/internal/logger"
	"resume-screener/internal/tracing"
	"resume-screener/internal/types"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var rabbitTracer = otel.Tracer("resume-screener/storage/rabbitmq")

const defaultPublishTimeout = 5 * time.Second

// RabbitMQPublisher 发布记录事件，通道处于 confirm 模式，发布后等待 broker 确认
type RabbitMQPublisher struct {
	conn         *amqp.Connection
	channelPool  sync.Pool
	publishMutex sync.Mutex
	cfg          *config.RabbitMQConfig
	timeout      time.Duration
	now          func() time.Time
	logger       zerolog.Logger
}

// NewRabbitMQPublisher 连接RabbitMQ并声明事件交换机
func NewRabbitMQPublisher(cfg *config.RabbitMQConfig) (*RabbitMQPublisher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("RabbitMQ配置不能为空")
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("RabbitMQ URL配置不能为空")
	}
	if cfg.ResumeEventsExchange == "" {
		return nil, fmt.Errorf("exchange名称不能为空")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("无法连接到RabbitMQ服务器: %w", err)
	}

	p := &RabbitMQPublisher{
		conn:    conn,
		cfg:     cfg,
		timeout: config.GetDuration(cfg.PublishTimeout, defaultPublishTimeout),
		now:     time.Now,
		logger:  logger.Component("rabbitmq"),
	}

	if err := p.ensureExchange(cfg.ResumeEventsExchange, amqp.ExchangeTopic); err != nil {
		conn.Close()
		return nil, err
	}

	p.logger.Info().Str("exchange", cfg.ResumeEventsExchange).Msg("成功连接到RabbitMQ服务器")
	return p, nil
}

// getChannel 取出可用通道，池为空时新建并开启 confirm 模式
func (p *RabbitMQPublisher) getChannel() (*amqp.Channel, error) {
	if ch, ok := p.channelPool.Get().(*amqp.Channel); ok && ch != nil && !ch.IsClosed() {
		return ch, nil
	}
	ch, err := p.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("创建RabbitMQ通道失败: %w", err)
	}
	if err := ch.Confirm(false); err != nil {
		ch.Close()
		return nil, fmt.Errorf("开启confirm模式失败: %w", err)
	}
	return ch, nil
}

func (p *RabbitMQPublisher) putChannel(ch *amqp.Channel) {
	if ch != nil && !ch.IsClosed() {
		p.channelPool.Put(ch)
	}
}

// ensureExchange 声明持久化的交换机
func (p *RabbitMQPublisher) ensureExchange(exchangeName, exchangeType string) error {
	if exchangeName == "amq.default" || exchangeName == "default" {
		return fmt.Errorf("不能声明默认交换机 '%s'", exchangeName)
	}
	ch, err := p.getChannel()
	if err != nil {
		return err
	}
	defer p.putChannel(ch)

	err = ch.ExchangeDeclare(
		exchangeName, // exchange名称
		exchangeType, // exchange类型
		true,         // 持久化
		false,        // 自动删除
		false,        // 内部专用
		false,        // 非阻塞
		nil,          // 参数
	)
	if err != nil {
		return fmt.Errorf("声明exchange失败: %w", err)
	}
	return nil
}

// PublishJSON 发布持久化的 JSON 消息并等待确认
func (p *RabbitMQPublisher) PublishJSON(ctx context.Context, routingKey, messageID string, data interface{}) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("JSON序列化失败: %w", err)
	}

	ctx, span := rabbitTracer.Start(ctx, "RabbitMQ.Publish",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "rabbitmq"),
			attribute.String("messaging.destination", p.cfg.ResumeEventsExchange),
			attribute.String("messaging.rabbitmq.routing_key", routingKey),
			attribute.String("messaging.message_id", messageID),
		))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	p.publishMutex.Lock()
	defer p.publishMutex.Unlock()

	ch, err := p.getChannel()
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeRabbitMQ)
		return err
	}
	defer p.putChannel(ch)

	confirm, err := ch.PublishWithDeferredConfirmWithContext(
		ctx,
		p.cfg.ResumeEventsExchange, // exchange名
		routingKey,                 // 路由键
		false,                      // 强制
		false,                      // 立即
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			MessageId:    messageID,
			Body:         body,
			Timestamp:    p.now(),
		},
	)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeRabbitMQ)
		return fmt.Errorf("发布消息失败: %w", err)
	}

	acked, err := confirm.WaitContext(ctx)
	if err != nil {
		tracing.RecordRabbitMQTimeout(span, messageID, p.timeout.String())
		return fmt.Errorf("等待broker确认超时: %w", err)
	}
	if !acked {
		tracing.RecordRabbitMQNack(span, messageID, "broker nack")
		return fmt.Errorf("broker拒绝了消息 %s", messageID)
	}
	return nil
}

// PublishRecordExtracted 发布 record.extracted 事件
func (p *RabbitMQPublisher) PublishRecordExtracted(ctx context.Context, result *types.AnalysisResult) error {
	if result == nil {
		return fmt.Errorf("分析结果不能为空")
	}
	ev := NewRecordExtractedEvent(result, p.now())
	if err := p.PublishJSON(ctx, p.cfg.ExtractedRoutingKey, ev.EventID, ev); err != nil {
		return err
	}
	p.logger.Debug().Str("document_id", result.DocumentID).Str("event_id", ev.EventID).Msg("已发布记录事件")
	return nil
}

// Close 关闭连接
func (p *RabbitMQPublisher) Close() error {
	return p.conn.Close()
}
