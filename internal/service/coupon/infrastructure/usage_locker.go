// internal/service/coupon/infrastructure/usage_locker.go
package infrastructure

import (
	"context"
	"sync"
	"time"

	"bazaar/internal/pkg/zookeeper"
)

// ZkUsageLocker 用 ZooKeeper 分布式锁实现 domain.UsageLocker，
// 把同一优惠码上的用量累加在所有实例间串行化。
type ZkUsageLocker struct {
	conn        *zookeeper.Conn
	lockTimeout time.Duration
}

// NewZkUsageLocker 创建一个基于 ZooKeeper 的用量锁。
func NewZkUsageLocker(conn *zookeeper.Conn) *ZkUsageLocker {
	return &ZkUsageLocker{conn: conn, lockTimeout: 10 * time.Second}
}

func (l *ZkUsageLocker) WithLock(ctx context.Context, code string, fn func() error) error {
	lock, err := zookeeper.NewDistributedLock(l.conn, "coupon-"+code)
	if err != nil {
		return err
	}
	if err := lock.Lock(l.lockTimeout); err != nil {
		return err
	}
	defer lock.Unlock()
	return fn()
}

// LocalUsageLocker 是进程内的 UsageLocker 实现，
// 用于单实例部署和测试（数据库侧的原子累加仍然成立）。
type LocalUsageLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLocalUsageLocker() *LocalUsageLocker {
	return &LocalUsageLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *LocalUsageLocker) WithLock(_ context.Context, code string, fn func() error) error {
	l.mu.Lock()
	m, ok := l.locks[code]
	if !ok {
		m = &sync.Mutex{}
		l.locks[code] = m
	}
	l.mu.Unlock()

	m.Lock()
	defer m.Unlock()
	return fn()
}
