package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"bazaar/internal/service/coupon/domain"
)

// stubRepo 是内存版的 CouponRepository，按大写码索引。
type stubRepo struct {
	coupons    map[string]*domain.Coupon
	increments []string
}

func newStubRepo(coupons ...*domain.Coupon) *stubRepo {
	r := &stubRepo{coupons: make(map[string]*domain.Coupon)}
	for _, c := range coupons {
		r.coupons[c.Code] = c
	}
	return r
}

func (r *stubRepo) FindByCode(_ context.Context, code string) (*domain.Coupon, error) {
	c, ok := r.coupons[code]
	if !ok {
		return nil, domain.ErrCouponNotFound
	}
	return c, nil
}

func (r *stubRepo) FindByID(_ context.Context, id int64) (*domain.Coupon, error) {
	for _, c := range r.coupons {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, domain.ErrCouponNotFound
}

func (r *stubRepo) List(_ context.Context) ([]*domain.Coupon, error) {
	out := make([]*domain.Coupon, 0, len(r.coupons))
	for _, c := range r.coupons {
		out = append(out, c)
	}
	return out, nil
}

func (r *stubRepo) Create(_ context.Context, c *domain.Coupon) error {
	if _, ok := r.coupons[c.Code]; ok {
		return domain.ErrDuplicateCode
	}
	c.ID = int64(len(r.coupons) + 1)
	r.coupons[c.Code] = c
	return nil
}

func (r *stubRepo) Update(_ context.Context, c *domain.Coupon) error {
	r.coupons[c.Code] = c
	return nil
}

func (r *stubRepo) Delete(_ context.Context, id int64) error {
	for code, c := range r.coupons {
		if c.ID == id {
			delete(r.coupons, code)
			return nil
		}
	}
	return domain.ErrCouponNotFound
}

func (r *stubRepo) IncrementUsage(_ context.Context, code string) error {
	c, ok := r.coupons[code]
	if !ok {
		return domain.ErrCouponNotFound
	}
	c.UsageCount++
	r.increments = append(r.increments, code)
	return nil
}

type stubRules struct {
	result bool
	calls  int
}

func (s *stubRules) Evaluate(string, domain.Fact) (bool, error) {
	s.calls++
	return s.result, nil
}

type noopLocker struct{}

func (noopLocker) WithLock(_ context.Context, _ string, fn func() error) error { return fn() }

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newService(repo domain.CouponRepository, rules domain.RuleEngine, rulesEnabled bool) *CouponService {
	return NewCouponService(repo, rules, noopLocker{}, otel.Tracer("test"), rulesEnabled)
}

func TestValidate_EmptyCodeRejectedBeforeLookup(t *testing.T) {
	// 空码（含纯空白）在任何仓储查询之前被拒
	svc := newService(newStubRepo(), &stubRules{}, false)

	for _, code := range []string{"", "   ", "\t"} {
		resp, err := svc.Validate(context.Background(), &ValidateCouponRequest{Code: code, OrderAmount: dec("100")})
		require.NoError(t, err)
		assert.False(t, resp.IsValid)
		assert.Equal(t, "coupon code is required", resp.Message)
	}
}

func TestValidate_UnknownCode(t *testing.T) {
	svc := newService(newStubRepo(), &stubRules{}, false)

	resp, err := svc.Validate(context.Background(), &ValidateCouponRequest{Code: "NOPE", OrderAmount: dec("100")})
	require.NoError(t, err)
	assert.False(t, resp.IsValid)
	assert.Equal(t, "coupon not found", resp.Message)
	assert.True(t, resp.DiscountAmount.IsZero())
}

func TestValidate_CaseInsensitiveLookup(t *testing.T) {
	repo := newStubRepo(&domain.Coupon{
		Code:          "SAVE10",
		DiscountType:  domain.DiscountTypePercentage,
		DiscountValue: dec("10"),
		IsActive:      true,
	})
	svc := newService(repo, &stubRules{}, false)

	for _, code := range []string{"save10", "Save10", " SAVE10 "} {
		resp, err := svc.Validate(context.Background(), &ValidateCouponRequest{Code: code, OrderAmount: dec("100")})
		require.NoError(t, err)
		assert.True(t, resp.IsValid, "code %q", code)
		assert.True(t, resp.DiscountAmount.Equal(dec("10")))
	}
}

func TestValidate_NeverIncrementsUsage(t *testing.T) {
	repo := newStubRepo(&domain.Coupon{
		Code:          "SAVE10",
		DiscountType:  domain.DiscountTypePercentage,
		DiscountValue: dec("10"),
		IsActive:      true,
	})
	svc := newService(repo, &stubRules{}, false)

	for i := 0; i < 3; i++ {
		_, err := svc.Validate(context.Background(), &ValidateCouponRequest{Code: "SAVE10", OrderAmount: dec("100")})
		require.NoError(t, err)
	}

	assert.Empty(t, repo.increments)
	assert.Equal(t, 0, repo.coupons["SAVE10"].UsageCount)
}

func TestValidate_RuleRejectsOtherwiseValidCoupon(t *testing.T) {
	repo := newStubRepo(&domain.Coupon{
		Code:           "RULED",
		DiscountType:   domain.DiscountTypeFixedAmount,
		DiscountValue:  dec("5"),
		IsActive:       true,
		RuleDefinition: "orderAmount >= 200.0",
	})
	rules := &stubRules{result: false}
	svc := newService(repo, rules, true)

	resp, err := svc.Validate(context.Background(), &ValidateCouponRequest{Code: "RULED", OrderAmount: dec("100")})
	require.NoError(t, err)
	assert.False(t, resp.IsValid)
	assert.Equal(t, "coupon conditions not met for this order", resp.Message)
	assert.Equal(t, 1, rules.calls)
}

func TestValidate_RuleSkippedWhenDisabled(t *testing.T) {
	repo := newStubRepo(&domain.Coupon{
		Code:           "RULED",
		DiscountType:   domain.DiscountTypeFixedAmount,
		DiscountValue:  dec("5"),
		IsActive:       true,
		RuleDefinition: "orderAmount >= 200.0",
	})
	rules := &stubRules{result: false}
	svc := newService(repo, rules, false)

	resp, err := svc.Validate(context.Background(), &ValidateCouponRequest{Code: "RULED", OrderAmount: dec("100")})
	require.NoError(t, err)
	assert.True(t, resp.IsValid)
	assert.Equal(t, 0, rules.calls)
}

func TestIncrementUsage(t *testing.T) {
	repo := newStubRepo(&domain.Coupon{
		Code:          "SAVE10",
		DiscountType:  domain.DiscountTypePercentage,
		DiscountValue: dec("10"),
		IsActive:      true,
	})
	svc := newService(repo, &stubRules{}, false)

	err := svc.IncrementUsage(context.Background(), &IncrementUsageRequest{Code: "save10"})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.coupons["SAVE10"].UsageCount)

	err = svc.IncrementUsage(context.Background(), &IncrementUsageRequest{Code: "UNKNOWN"})
	assert.ErrorIs(t, err, domain.ErrCouponNotFound)
}
