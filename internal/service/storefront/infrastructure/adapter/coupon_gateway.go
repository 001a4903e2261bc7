// internal/service/storefront/infrastructure/adapter/coupon_gateway.go
package adapter

import (
	"context"

	"github.com/shopspring/decimal"

	"bazaar/internal/pkg/constants"
	"bazaar/internal/pkg/httpclient"
	"bazaar/internal/service/storefront/domain"
)

// HTTPCouponGateway 通过 coupon-service 的 REST 接口实现 port.CouponGateway。
type HTTPCouponGateway struct {
	client *httpclient.Client
}

// NewHTTPCouponGateway 创建一个新的优惠券网关适配器。
func NewHTTPCouponGateway(client *httpclient.Client) *HTTPCouponGateway {
	return &HTTPCouponGateway{client: client}
}

func (g *HTTPCouponGateway) Validate(ctx context.Context, code string, subtotal decimal.Decimal) (*domain.CouponDecision, error) {
	body := map[string]interface{}{
		"code":        code,
		"orderAmount": subtotal,
	}
	var decision domain.CouponDecision
	if err := g.client.PostJSON(ctx, constants.CouponService, constants.CouponValidatePath, body, &decision); err != nil {
		return nil, err
	}
	return &decision, nil
}

func (g *HTTPCouponGateway) IncrementUsage(ctx context.Context, code string) error {
	body := map[string]string{"code": code}
	return g.client.PostJSON(ctx, constants.CouponService, constants.CouponIncrementPath, body, nil)
}
