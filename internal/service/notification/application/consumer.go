// internal/service/notification/application/consumer.go
package application

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"bazaar/internal/pkg/logger"
	"bazaar/internal/pkg/mq"
	"bazaar/internal/service/notification/domain"
)

// OrderEventConsumer 消费下单事件并触发订单确认通知。
type OrderEventConsumer struct {
	reader   *kafka.Reader
	notifier domain.Notifier
	tracer   trace.Tracer
}

// NewOrderEventConsumer 创建一个新的事件消费者。
func NewOrderEventConsumer(reader *kafka.Reader, notifier domain.Notifier, tracer trace.Tracer) *OrderEventConsumer {
	return &OrderEventConsumer{reader: reader, notifier: notifier, tracer: tracer}
}

// Run 阻塞消费直到 ctx 取消。
// 单条消息处理失败只记日志不中断消费；坏消息被跳过而不是无限重试。
func (c *OrderEventConsumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		c.handle(ctx, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			logger.Ctx(ctx).Error().Err(err).Msg("commit offset failed")
		}
	}
}

func (c *OrderEventConsumer) handle(ctx context.Context, msg kafka.Message) {
	// 从消息头恢复生产者一侧的追踪上下文
	carrier := mq.KafkaHeaderCarrier(msg.Headers)
	ctx = otel.GetTextMapPropagator().Extract(ctx, &carrier)

	ctx, span := c.tracer.Start(ctx, "notification.HandleOrderPlaced", trace.WithSpanKind(trace.SpanKindConsumer))
	defer span.End()

	var event domain.OrderPlacedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		logger.Ctx(ctx).Error().Err(err).
			Str("key", string(msg.Key)).
			Msg("malformed order event, skipping")
		span.RecordError(err)
		return
	}
	span.SetAttributes(attribute.String("order.number", event.OrderNumber))

	if err := c.notifier.NotifyOrderPlaced(ctx, &event); err != nil {
		logger.Ctx(ctx).Error().Err(err).
			Str("order_number", event.OrderNumber).
			Msg("order notification failed")
		span.RecordError(err)
	}
}

// Close 关闭底层的 Kafka reader。
func (c *OrderEventConsumer) Close() error {
	return c.reader.Close()
}
