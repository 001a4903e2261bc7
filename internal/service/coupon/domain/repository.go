// internal/service/coupon/domain/repository.go
package domain

import "context"

// CouponRepository 定义了优惠券数据的持久化接口。
// 这是领域层与基础设施层之间的"插座"。
type CouponRepository interface {
	// FindByCode 按优惠码查找，匹配不区分大小写。
	FindByCode(ctx context.Context, code string) (*Coupon, error)
	FindByID(ctx context.Context, id int64) (*Coupon, error)
	List(ctx context.Context) ([]*Coupon, error)
	Create(ctx context.Context, coupon *Coupon) error
	Update(ctx context.Context, coupon *Coupon) error
	Delete(ctx context.Context, id int64) error

	// IncrementUsage 原子地把用量加一。
	// 只在引用该券的订单创建成功之后被调用（两阶段协议的第二阶段）。
	IncrementUsage(ctx context.Context, code string) error
}

// RuleEngine 评估管理员在券上附加的自定义规则。
// 由基础设施层的 CEL 适配器实现。
type RuleEngine interface {
	Evaluate(ruleDefinition string, fact Fact) (bool, error)
}

// Fact 是规则评估时可见的事实集合。
type Fact struct {
	OrderAmount float64 `json:"orderAmount"`
}
