// internal/service/storefront/application/cart_holder.go
package application

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"bazaar/internal/pkg/logger"
	"bazaar/internal/service/storefront/domain"
	"bazaar/internal/service/storefront/port"
)

// CartHolder 持有一个会话当前的购物车快照，并把它作为可订阅的
// 广播值暴露出去：所有订阅者看到同一份最新值，新订阅者立刻收到
// 当前快照的重放。
//
// 真相在服务端：写操作只发请求、不改本地状态，调用方随后通过
// Refresh 重新拉取。并发的 Refresh 被 singleflight 合并成一次
// 网络往返。
type CartHolder struct {
	sessionID string
	gateway   port.CartGateway
	tracer    trace.Tracer

	mu          sync.RWMutex
	lines       []domain.CartLine
	loaded      bool
	subscribers map[int]chan []domain.CartLine
	nextSubID   int

	refreshGroup singleflight.Group
}

// NewCartHolder 为一个会话创建购物车持有者。初始快照为空车。
func NewCartHolder(sessionID string, gateway port.CartGateway, tracer trace.Tracer) *CartHolder {
	return &CartHolder{
		sessionID:   sessionID,
		gateway:     gateway,
		tracer:      tracer,
		lines:       []domain.CartLine{},
		subscribers: make(map[int]chan []domain.CartLine),
	}
}

// EnsureLoaded 完成首次从服务端拉取。
// 首次加载失败被降级为空车：新访客看到空购物车，而不是错误页。
func (h *CartHolder) EnsureLoaded(ctx context.Context) {
	h.mu.RLock()
	loaded := h.loaded
	h.mu.RUnlock()
	if loaded {
		return
	}

	if err := h.Refresh(ctx); err != nil {
		logger.Ctx(ctx).Warn().Err(err).
			Str("session_id", h.sessionID).
			Msg("initial cart load failed, starting with empty cart")
		h.mu.Lock()
		h.lines = []domain.CartLine{}
		h.loaded = true
		h.mu.Unlock()
	}
}

// Refresh 从服务端重新拉取整车并广播给所有订阅者。
// 并发调用被合并；失败时保留上一份快照不变。
func (h *CartHolder) Refresh(ctx context.Context) error {
	_, err, _ := h.refreshGroup.Do("refresh", func() (interface{}, error) {
		ctx, span := h.tracer.Start(ctx, "storefront.CartRefresh")
		defer span.End()
		span.SetAttributes(attribute.String("session.id", h.sessionID))

		lines, err := h.gateway.FetchCart(ctx, h.sessionID)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "cart fetch failed")
			return nil, err
		}
		if lines == nil {
			lines = []domain.CartLine{}
		}

		h.mu.Lock()
		h.lines = lines
		h.loaded = true
		h.mu.Unlock()

		h.publish(lines)
		return nil, nil
	})
	return err
}

// Subscribe 返回一个接收购物车快照的通道。
// 订阅时立刻重放当前值；之后每次成功的 Refresh 都会推送最新快照。
// 订阅者消费慢时只保留最新值，中间值被跳过。
// 返回的取消函数必须在不再需要时调用。
func (h *CartHolder) Subscribe() (<-chan []domain.CartLine, func()) {
	ch := make(chan []domain.CartLine, 1)

	h.mu.Lock()
	id := h.nextSubID
	h.nextSubID++
	h.subscribers[id] = ch
	current := h.lines
	h.mu.Unlock()

	ch <- current

	cancel := func() {
		h.mu.Lock()
		if sub, ok := h.subscribers[id]; ok {
			delete(h.subscribers, id)
			close(sub)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

func (h *CartHolder) publish(lines []domain.CartLine) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subscribers {
		// 只保留最新值：塞不进去就先腾掉旧值
		select {
		case ch <- lines:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- lines:
			default:
			}
		}
	}
}

// Snapshot 返回最近一次成功加载的行列表。
func (h *CartHolder) Snapshot() []domain.CartLine {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lines
}

// Subtotal 是当前快照的小计。
func (h *CartHolder) Subtotal() decimal.Decimal {
	return domain.Subtotal(h.Snapshot())
}

// ItemCount 是当前快照的件数。
func (h *CartHolder) ItemCount() int {
	return domain.ItemCount(h.Snapshot())
}

// AddLine 发起加购请求。成功后本地状态不变，调用方需要 Refresh。
// 数量 < 1 在本地被拒，不发起网络调用。
func (h *CartHolder) AddLine(ctx context.Context, productID int64, quantity int, snapshot domain.ProductSnapshot) error {
	if quantity < 1 {
		return domain.ErrInvalidQuantity
	}
	ctx, span := h.tracer.Start(ctx, "storefront.CartAddLine")
	defer span.End()
	span.SetAttributes(attribute.Int64("product.id", productID), attribute.Int("quantity", quantity))

	if err := h.gateway.AddLine(ctx, h.sessionID, productID, quantity, snapshot); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "add line failed")
		return err
	}
	return nil
}

// UpdateQuantity 把一行的数量改为给定值。数量 < 1 在本地被拒。
func (h *CartHolder) UpdateQuantity(ctx context.Context, lineID int64, quantity int) error {
	if quantity < 1 {
		return domain.ErrInvalidQuantity
	}
	ctx, span := h.tracer.Start(ctx, "storefront.CartUpdateQuantity")
	defer span.End()
	span.SetAttributes(attribute.Int64("line.id", lineID), attribute.Int("quantity", quantity))

	if err := h.gateway.UpdateQuantity(ctx, lineID, quantity); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// RemoveLine 删除一行。重复删除与删除不存在的行得到同一个
// ErrLineNotFound，调用方据此给出"已经不在了"的提示而非重试。
func (h *CartHolder) RemoveLine(ctx context.Context, lineID int64) error {
	ctx, span := h.tracer.Start(ctx, "storefront.CartRemoveLine")
	defer span.End()
	span.SetAttributes(attribute.Int64("line.id", lineID))

	if err := h.gateway.RemoveLine(ctx, lineID); err != nil {
		if err != domain.ErrLineNotFound {
			span.RecordError(err)
			span.SetStatus(codes.Error, "remove line failed")
		}
		return err
	}
	return nil
}

// Clear 清空服务端购物车并立即把空车广播出去。
func (h *CartHolder) Clear(ctx context.Context) error {
	ctx, span := h.tracer.Start(ctx, "storefront.CartClear")
	defer span.End()
	span.SetAttributes(attribute.String("session.id", h.sessionID))

	if err := h.gateway.Clear(ctx, h.sessionID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "clear cart failed")
		return err
	}

	empty := []domain.CartLine{}
	h.mu.Lock()
	h.lines = empty
	h.loaded = true
	h.mu.Unlock()
	h.publish(empty)
	return nil
}

// HolderRegistry 按会话缓存 CartHolder，保证同一会话的所有请求
// 共享同一个持有者（订阅广播才有意义）。
type HolderRegistry struct {
	gateway port.CartGateway
	tracer  trace.Tracer

	mu      sync.Mutex
	holders map[string]*CartHolder
}

// NewHolderRegistry 创建一个会话注册表。
func NewHolderRegistry(gateway port.CartGateway, tracer trace.Tracer) *HolderRegistry {
	return &HolderRegistry{
		gateway: gateway,
		tracer:  tracer,
		holders: make(map[string]*CartHolder),
	}
}

// Get 返回会话的持有者，不存在时创建。
func (r *HolderRegistry) Get(sessionID string) *CartHolder {
	r.mu.Lock()
	defer r.mu.Unlock()
	holder, ok := r.holders[sessionID]
	if !ok {
		holder = NewCartHolder(sessionID, r.gateway, r.tracer)
		r.holders[sessionID] = holder
	}
	return holder
}
