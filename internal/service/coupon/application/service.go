// internal/service/coupon/application/service.go
package application

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"bazaar/internal/pkg/logger"
	"bazaar/internal/service/coupon/domain"
)

// CouponService 定义了优惠券服务提供的所有业务用例。
type CouponService struct {
	repo        domain.CouponRepository
	rules       domain.RuleEngine
	usageLocker domain.UsageLocker
	tracer      trace.Tracer

	// 附加规则校验的特性开关，关闭时 ruleDefinition 被忽略
	rulesEnabled bool
}

// NewCouponService 创建一个新的优惠券服务实例。
func NewCouponService(repo domain.CouponRepository, rules domain.RuleEngine, usageLocker domain.UsageLocker, tracer trace.Tracer, rulesEnabled bool) *CouponService {
	return &CouponService{
		repo:         repo,
		rules:        rules,
		usageLocker:  usageLocker,
		tracer:       tracer,
		rulesEnabled: rulesEnabled,
	}
}

// Validate 评估一个优惠码对给定订单金额的可用性。
// 校验是无状态、无副作用的：重复校验不消耗任何用量额度。
// 返回 error 仅表示基础设施故障；业务上的不可用通过结果中的
// IsValid=false 和具体原因表达。
func (s *CouponService) Validate(ctx context.Context, req *ValidateCouponRequest) (*CouponValidationResult, error) {
	ctx, span := s.tracer.Start(ctx, "coupon.Validate")
	defer span.End()

	code := strings.TrimSpace(req.Code)
	span.SetAttributes(
		attribute.String("coupon.code", code),
		attribute.String("order.amount", req.OrderAmount.String()),
	)

	// 1. 码本身必须非空，这一步在任何查询之前完成
	if code == "" {
		return &CouponValidationResult{IsValid: false, Message: "coupon code is required", DiscountAmount: decimal.Zero}, nil
	}

	// 2. 大小写不敏感查找
	coupon, err := s.repo.FindByCode(ctx, domain.NormalizeCode(code))
	if err != nil {
		if err == domain.ErrCouponNotFound {
			return &CouponValidationResult{IsValid: false, Message: "coupon not found", DiscountAmount: decimal.Zero}, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "coupon lookup failed")
		return nil, err
	}

	// 3. 固定顺序的业务校验 + 折扣计算
	result := coupon.Validate(req.OrderAmount, time.Now())

	// 4. 管理员附加的 CEL 规则（仅在固定校验全部通过后评估）
	if result.IsValid && s.rulesEnabled && coupon.RuleDefinition != "" {
		amount, _ := req.OrderAmount.Float64()
		ok, err := s.rules.Evaluate(coupon.RuleDefinition, domain.Fact{OrderAmount: amount})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "rule evaluation failed")
			return nil, err
		}
		if !ok {
			result = domain.ValidationResult{IsValid: false, Message: "coupon conditions not met for this order", DiscountAmount: decimal.Zero}
		}
	}

	span.SetAttributes(attribute.Bool("coupon.valid", result.IsValid))
	return &CouponValidationResult{
		IsValid:        result.IsValid,
		Message:        result.Message,
		DiscountAmount: result.DiscountAmount,
		Coupon:         ToDTO(result.Coupon),
	}, nil
}

// IncrementUsage 把一张券的用量加一。
// 这是一个独立、显式的调用，只应在引用该券的订单创建成功之后发起；
// 校验本身永远不会触发它。加锁保证多实例并发累加不丢更新。
func (s *CouponService) IncrementUsage(ctx context.Context, req *IncrementUsageRequest) error {
	ctx, span := s.tracer.Start(ctx, "coupon.IncrementUsage")
	defer span.End()

	code := domain.NormalizeCode(req.Code)
	span.SetAttributes(attribute.String("coupon.code", code))
	if code == "" {
		return domain.ErrCouponNotFound
	}

	err := s.usageLocker.WithLock(ctx, code, func() error {
		return s.repo.IncrementUsage(ctx, code)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "usage increment failed")
		return err
	}

	logger.Ctx(ctx).Info().Str("code", code).Msg("coupon usage incremented")
	return nil
}

// ListCoupons 返回全部优惠券（后台管理）。
func (s *CouponService) ListCoupons(ctx context.Context) ([]*CouponDTO, error) {
	ctx, span := s.tracer.Start(ctx, "coupon.List")
	defer span.End()

	coupons, err := s.repo.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	dtos := make([]*CouponDTO, len(coupons))
	for i, c := range coupons {
		dtos[i] = ToDTO(c)
	}
	return dtos, nil
}

// GetCoupon 按 ID 返回一张券（后台管理）。
func (s *CouponService) GetCoupon(ctx context.Context, id int64) (*CouponDTO, error) {
	ctx, span := s.tracer.Start(ctx, "coupon.Get")
	defer span.End()

	coupon, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToDTO(coupon), nil
}

// CreateCoupon 创建一张新券（后台管理）。
func (s *CouponService) CreateCoupon(ctx context.Context, req *CreateCouponRequest) (*CouponDTO, error) {
	ctx, span := s.tracer.Start(ctx, "coupon.Create")
	defer span.End()

	coupon := &domain.Coupon{
		Code:           domain.NormalizeCode(req.Code),
		Description:    req.Description,
		DiscountType:   req.DiscountType,
		DiscountValue:  req.DiscountValue,
		ExpirationDate: req.ExpirationDate,
		MaxUsageCount:  req.MaxUsageCount,
		IsActive:       true,
		RuleDefinition: req.RuleDefinition,
	}
	if req.MinimumOrderAmount != nil {
		coupon.MinimumOrderAmount = decimal.NewNullDecimal(*req.MinimumOrderAmount)
	}
	if req.MaximumDiscountAmount != nil {
		coupon.MaximumDiscountAmount = decimal.NewNullDecimal(*req.MaximumDiscountAmount)
	}

	if err := s.repo.Create(ctx, coupon); err != nil {
		span.RecordError(err)
		return nil, err
	}
	logger.Ctx(ctx).Info().Str("code", coupon.Code).Msg("coupon created")
	return ToDTO(coupon), nil
}

// UpdateCoupon 更新一张已有的券（后台管理）。
func (s *CouponService) UpdateCoupon(ctx context.Context, id int64, req *UpdateCouponRequest) error {
	ctx, span := s.tracer.Start(ctx, "coupon.Update")
	defer span.End()

	coupon, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	coupon.Description = req.Description
	coupon.DiscountType = req.DiscountType
	coupon.DiscountValue = req.DiscountValue
	coupon.ExpirationDate = req.ExpirationDate
	coupon.MaxUsageCount = req.MaxUsageCount
	coupon.RuleDefinition = req.RuleDefinition
	coupon.IsActive = req.IsActive
	coupon.MinimumOrderAmount = decimal.NullDecimal{}
	if req.MinimumOrderAmount != nil {
		coupon.MinimumOrderAmount = decimal.NewNullDecimal(*req.MinimumOrderAmount)
	}
	coupon.MaximumDiscountAmount = decimal.NullDecimal{}
	if req.MaximumDiscountAmount != nil {
		coupon.MaximumDiscountAmount = decimal.NewNullDecimal(*req.MaximumDiscountAmount)
	}

	if err := s.repo.Update(ctx, coupon); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// DeleteCoupon 删除一张券（后台管理）。
func (s *CouponService) DeleteCoupon(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "coupon.Delete")
	defer span.End()
	return s.repo.Delete(ctx, id)
}
