// internal/service/storefront/infrastructure/adapter/order_gateway.go
package adapter

import (
	"context"

	"bazaar/internal/pkg/constants"
	"bazaar/internal/pkg/httpclient"
	"bazaar/internal/service/storefront/domain"
	"bazaar/internal/service/storefront/port"
)

// HTTPOrderGateway 通过 order-service 的 REST 接口实现 port.OrderGateway。
type HTTPOrderGateway struct {
	client *httpclient.Client
}

// NewHTTPOrderGateway 创建一个新的订单网关适配器。
func NewHTTPOrderGateway(client *httpclient.Client) *HTTPOrderGateway {
	return &HTTPOrderGateway{client: client}
}

func (g *HTTPOrderGateway) CreateOrder(ctx context.Context, submission *domain.OrderSubmission) (*port.PlacedOrder, error) {
	var placed port.PlacedOrder
	if err := g.client.PostJSON(ctx, constants.OrderService, constants.OrderBasePath, submission, &placed); err != nil {
		return nil, err
	}
	return &placed, nil
}
