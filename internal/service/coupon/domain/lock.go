// internal/service/coupon/domain/lock.go
package domain

import "context"

// UsageLocker 在执行用量变更时对单个优惠码加互斥保护。
// 多实例部署下由 ZooKeeper 分布式锁实现；单实例与测试用进程内实现。
type UsageLocker interface {
	WithLock(ctx context.Context, code string, fn func() error) error
}
