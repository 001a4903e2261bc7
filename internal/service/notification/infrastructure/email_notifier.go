// internal/service/notification/infrastructure/email_notifier.go
package infrastructure

import (
	"context"

	"bazaar/internal/pkg/logger"
	"bazaar/internal/service/notification/domain"
)

// LogEmailNotifier 是 Notifier 的日志实现：
// 把本应发出的确认邮件完整记录下来。真实的邮件投递商接入时
// 只需要替换这一个适配器。
type LogEmailNotifier struct{}

func NewLogEmailNotifier() *LogEmailNotifier {
	return &LogEmailNotifier{}
}

func (n *LogEmailNotifier) NotifyOrderPlaced(ctx context.Context, event *domain.OrderPlacedEvent) error {
	logger.Ctx(ctx).Info().
		Str("to", event.CustomerEmail).
		Str("order_number", event.OrderNumber).
		Str("total", event.TotalAmount.String()).
		Msg("order confirmation email sent")
	return nil
}
