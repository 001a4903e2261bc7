// internal/service/storefront/application/checkout.go
package application

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"bazaar/internal/pkg/logger"
	"bazaar/internal/service/storefront/domain"
	"bazaar/internal/service/storefront/port"
)

// CheckoutService 把当前购物车、已套用的优惠和客户信息
// 组装成订单提交，并执行 校验 -> 下单 -> 累加用量 的两段式协议。
type CheckoutService struct {
	coupons port.CouponGateway
	orders  port.OrderGateway
	tracer  trace.Tracer
}

// NewCheckoutService 创建一个新的结账服务实例。
func NewCheckoutService(coupons port.CouponGateway, orders port.OrderGateway, tracer trace.Tracer) *CheckoutService {
	return &CheckoutService{coupons: coupons, orders: orders, tracer: tracer}
}

// ApplyCoupon 用当前小计校验一个优惠码。
// 校验是无副作用的：重复尝试同一个码不消耗任何用量额度。
func (s *CheckoutService) ApplyCoupon(ctx context.Context, holder *CartHolder, code string) (*domain.CouponDecision, error) {
	ctx, span := s.tracer.Start(ctx, "storefront.ApplyCoupon")
	defer span.End()
	span.SetAttributes(attribute.String("coupon.code", code))

	decision, err := s.coupons.Validate(ctx, code, holder.Subtotal())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "coupon validation failed")
		return nil, err
	}
	span.SetAttributes(attribute.Bool("coupon.valid", decision.IsValid))
	return decision, nil
}

// SubmitOrderRequest 是结账提交的入参。
// CouponCode 非空时会在提交时刻重新校验一次，过期的优惠被静默略去。
type SubmitOrderRequest struct {
	CustomerName    string `json:"customerName"`
	CustomerEmail   string `json:"customerEmail"`
	ShippingAddress string `json:"shippingAddress"`
	CouponCode      string `json:"couponCode,omitempty"`
}

// SubmitOrder 执行一次完整的结账。
//
// 字段校验在任何网络调用之前完成：必填项缺失直接返回字段错误，
// 购物车保持原样。下单成功后，清车和优惠用量累加相对导航是
// fire-and-forget 的：它们的失败只记日志，不影响已经成功的订单。
// 下单失败时提交载荷被整体丢弃，购物车不动，用户可原样重试。
func (s *CheckoutService) SubmitOrder(ctx context.Context, holder *CartHolder, req *SubmitOrderRequest) (*port.PlacedOrder, error) {
	ctx, span := s.tracer.Start(ctx, "storefront.SubmitOrder")
	defer span.End()

	lines := holder.Snapshot()
	info := domain.CustomerInfo{
		Name:            req.CustomerName,
		Email:           req.CustomerEmail,
		ShippingAddress: req.ShippingAddress,
	}

	// 提交时刻重新校验优惠：仍然有效才附到订单上，否则略去
	var applied *domain.AppliedCoupon
	if req.CouponCode != "" {
		decision, err := s.coupons.Validate(ctx, req.CouponCode, domain.Subtotal(lines))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "coupon re-validation failed")
			return nil, err
		}
		if decision.IsValid {
			applied = &domain.AppliedCoupon{Code: req.CouponCode, DiscountAmount: decision.DiscountAmount}
		} else {
			logger.Ctx(ctx).Info().
				Str("code", req.CouponCode).
				Str("reason", decision.Message).
				Msg("applied coupon no longer valid at submit time, dropping it")
		}
	}

	submission, err := domain.BuildSubmission(holder.sessionID, info, lines, applied)
	if err != nil {
		return nil, err
	}

	placed, err := s.orders.CreateOrder(ctx, submission)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "order creation failed")
		return nil, err
	}
	span.SetAttributes(attribute.String("order.number", placed.OrderNumber))

	// 订单已经成功，后续清理不再挂在请求的生命周期上
	cleanupCtx := context.WithoutCancel(ctx)
	go s.afterSubmit(cleanupCtx, holder, submission.AppliedCouponCode)

	logger.Ctx(ctx).Info().
		Str("order_number", placed.OrderNumber).
		Str("total", placed.TotalAmount.String()).
		Msg("order submitted")
	return placed, nil
}

// afterSubmit 做下单成功后的两件事：清空购物车、累加优惠用量。
// 两者彼此独立，任何一个失败都不影响另一个，也不影响订单结果。
// 崩在下单和累加之间会让用量被少记一次，这是接受的偏差。
func (s *CheckoutService) afterSubmit(ctx context.Context, holder *CartHolder, couponCode string) {
	if err := holder.Clear(ctx); err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("post-order cart clear failed")
	}
	if couponCode != "" {
		if err := s.coupons.IncrementUsage(ctx, couponCode); err != nil {
			logger.Ctx(ctx).Error().Err(err).
				Str("code", couponCode).
				Msg("post-order coupon usage increment failed")
		}
	}
}
