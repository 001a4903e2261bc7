// internal/service/push/feed.go
package push

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"bazaar/internal/pkg/logger"
	"bazaar/internal/pkg/mq"
)

// orderPlacedPayload 是推给浏览器的下单通知。
type orderPlacedPayload struct {
	Type        string `json:"type"`
	OrderNumber string `json:"orderNumber"`
	TotalAmount string `json:"totalAmount"`
}

// OrderEventFeed 消费下单事件并按会话推送到 Hub。
type OrderEventFeed struct {
	reader *kafka.Reader
	hub    *Hub
	tracer trace.Tracer
}

// NewOrderEventFeed 创建一个新的事件馈送。
func NewOrderEventFeed(reader *kafka.Reader, hub *Hub, tracer trace.Tracer) *OrderEventFeed {
	return &OrderEventFeed{reader: reader, hub: hub, tracer: tracer}
}

// Run 阻塞消费直到 ctx 取消。
func (f *OrderEventFeed) Run(ctx context.Context) error {
	for {
		msg, err := f.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		f.handle(ctx, msg)

		if err := f.reader.CommitMessages(ctx, msg); err != nil {
			logger.Ctx(ctx).Error().Err(err).Msg("commit offset failed")
		}
	}
}

func (f *OrderEventFeed) handle(ctx context.Context, msg kafka.Message) {
	carrier := mq.KafkaHeaderCarrier(msg.Headers)
	ctx = otel.GetTextMapPropagator().Extract(ctx, &carrier)

	ctx, span := f.tracer.Start(ctx, "push.HandleOrderPlaced", trace.WithSpanKind(trace.SpanKindConsumer))
	defer span.End()

	var event struct {
		OrderNumber string          `json:"orderNumber"`
		SessionID   string          `json:"sessionId"`
		TotalAmount decimal.Decimal `json:"totalAmount"`
	}
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("malformed order event, skipping")
		span.RecordError(err)
		return
	}

	f.hub.Push(ctx, event.SessionID, orderPlacedPayload{
		Type:        "ORDER_PLACED",
		OrderNumber: event.OrderNumber,
		TotalAmount: event.TotalAmount.StringFixed(2),
	})
}

// Close 关闭底层的 Kafka reader。
func (f *OrderEventFeed) Close() error {
	return f.reader.Close()
}
