// internal/service/cart/infrastructure/cached_repository.go
package infrastructure

import (
	"context"
	"encoding/json"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"bazaar/internal/pkg/logger"
	"bazaar/internal/pkg/redis"
	"bazaar/internal/service/cart/domain"
)

const (
	cartCachePrefix = "cart:session:"
	cartCacheTTL    = 30 * time.Minute
)

// CachedCartRepository 给 CartRepository 套上一层 Redis 读穿缓存。
// 只缓存按会话的整车读取；任何写操作都会使该会话的缓存失效。
// 缓存故障永远不阻塞请求，降级为直接读库。
type CachedCartRepository struct {
	inner domain.CartRepository
	redis *redis.Client
}

// NewCachedCartRepository 创建一个带缓存的仓储装饰器。
func NewCachedCartRepository(inner domain.CartRepository, redisClient *redis.Client) *CachedCartRepository {
	return &CachedCartRepository{inner: inner, redis: redisClient}
}

func (r *CachedCartRepository) FindBySession(ctx context.Context, sessionID string) ([]*domain.CartItem, error) {
	key := cartCachePrefix + sessionID

	cached, err := r.redis.GetClient().Get(ctx, key).Result()
	if err == nil {
		var items []*domain.CartItem
		if jsonErr := json.Unmarshal([]byte(cached), &items); jsonErr == nil {
			return items, nil
		}
		// 缓存内容损坏，删掉后走数据库
		r.redis.GetClient().Del(ctx, key)
	} else if err != goredis.Nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("cart cache read failed, falling back to db")
	}

	items, err := r.inner.FindBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if data, jsonErr := json.Marshal(items); jsonErr == nil {
		if setErr := r.redis.GetClient().Set(ctx, key, data, cartCacheTTL).Err(); setErr != nil {
			logger.Ctx(ctx).Warn().Err(setErr).Msg("cart cache write failed")
		}
	}
	return items, nil
}

func (r *CachedCartRepository) FindByID(ctx context.Context, id int64) (*domain.CartItem, error) {
	return r.inner.FindByID(ctx, id)
}

func (r *CachedCartRepository) FindBySessionAndProduct(ctx context.Context, sessionID string, productID int64) (*domain.CartItem, error) {
	return r.inner.FindBySessionAndProduct(ctx, sessionID, productID)
}

func (r *CachedCartRepository) Create(ctx context.Context, item *domain.CartItem) error {
	if err := r.inner.Create(ctx, item); err != nil {
		return err
	}
	r.invalidate(ctx, item.SessionID)
	return nil
}

func (r *CachedCartRepository) Update(ctx context.Context, item *domain.CartItem) error {
	if err := r.inner.Update(ctx, item); err != nil {
		return err
	}
	r.invalidate(ctx, item.SessionID)
	return nil
}

func (r *CachedCartRepository) Delete(ctx context.Context, id int64) error {
	// 删除前先取出会话，删完好让缓存失效
	item, err := r.inner.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, item.SessionID)
	return nil
}

func (r *CachedCartRepository) DeleteBySession(ctx context.Context, sessionID string) error {
	if err := r.inner.DeleteBySession(ctx, sessionID); err != nil {
		return err
	}
	r.invalidate(ctx, sessionID)
	return nil
}

func (r *CachedCartRepository) invalidate(ctx context.Context, sessionID string) {
	if err := r.redis.GetClient().Del(ctx, cartCachePrefix+sessionID).Err(); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("session_id", sessionID).Msg("cart cache invalidation failed")
	}
}
