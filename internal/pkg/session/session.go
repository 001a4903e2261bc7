// internal/pkg/session/session.go
package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Context 是一次购物会话的标识上下文。
// 它总是被显式构造并逐层传递，而不是藏在全局状态里，
// 这样测试可以为每个用例提供全新的会话。
type Context struct {
	ID string
}

// Store 抽象了会话标识的持久化介质。
// 线上由浏览器 Cookie 承载（见 storefront 的接口层），测试用 MemoryStore。
type Store interface {
	Load() (string, bool)
	Save(id string)
}

// GetOrCreate 从存储中取出会话标识；不存在时生成一个并写回。
// 标识一经生成即保持稳定——重新生成会使服务端挂在旧标识下的购物车成为孤儿。
func GetOrCreate(store Store) Context {
	if id, ok := store.Load(); ok && id != "" {
		return Context{ID: id}
	}
	id := NewID()
	store.Save(id)
	return Context{ID: id}
}

// NewID 生成一个新的会话标识，格式为 session_<毫秒时间戳>_<随机后缀>。
func NewID() string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:9]
	return fmt.Sprintf("session_%d_%s", time.Now().UnixMilli(), suffix)
}

// MemoryStore 是内存版的 Store，仅用于测试和单进程场景。
type MemoryStore struct {
	id string
}

func (s *MemoryStore) Load() (string, bool) {
	return s.id, s.id != ""
}

func (s *MemoryStore) Save(id string) {
	s.id = id
}
