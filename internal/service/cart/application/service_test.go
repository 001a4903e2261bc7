package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"bazaar/internal/service/cart/domain"
)

type stubRepo struct {
	items  map[int64]*domain.CartItem
	nextID int64
}

func newStubRepo() *stubRepo {
	return &stubRepo{items: make(map[int64]*domain.CartItem), nextID: 1}
}

func (r *stubRepo) FindBySession(_ context.Context, sessionID string) ([]*domain.CartItem, error) {
	var out []*domain.CartItem
	for _, item := range r.items {
		if item.SessionID == sessionID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *stubRepo) FindByID(_ context.Context, id int64) (*domain.CartItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	return item, nil
}

func (r *stubRepo) FindBySessionAndProduct(_ context.Context, sessionID string, productID int64) (*domain.CartItem, error) {
	for _, item := range r.items {
		if item.SessionID == sessionID && item.ProductID == productID {
			return item, nil
		}
	}
	return nil, domain.ErrItemNotFound
}

func (r *stubRepo) Create(_ context.Context, item *domain.CartItem) error {
	item.ID = r.nextID
	r.nextID++
	r.items[item.ID] = item
	return nil
}

func (r *stubRepo) Update(_ context.Context, item *domain.CartItem) error {
	if _, ok := r.items[item.ID]; !ok {
		return domain.ErrItemNotFound
	}
	r.items[item.ID] = item
	return nil
}

func (r *stubRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.items[id]; !ok {
		return domain.ErrItemNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *stubRepo) DeleteBySession(_ context.Context, sessionID string) error {
	for id, item := range r.items {
		if item.SessionID == sessionID {
			delete(r.items, id)
		}
	}
	return nil
}

func newService(repo domain.CartRepository) *CartService {
	return NewCartService(repo, otel.Tracer("test"))
}

func price(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestAddItem_RejectsQuantityBelowOne(t *testing.T) {
	repo := newStubRepo()
	svc := newService(repo)

	for _, qty := range []int{0, -1, -100} {
		_, err := svc.AddItem(context.Background(), &AddItemRequest{
			SessionID: "s1", ProductID: 1, Quantity: qty,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "qty %d", qty)
	}
	assert.Empty(t, repo.items)
}

func TestAddItem_MergesSameProduct(t *testing.T) {
	repo := newStubRepo()
	svc := newService(repo)

	first, err := svc.AddItem(context.Background(), &AddItemRequest{
		SessionID: "s1", ProductID: 7, ProductName: "Widget", Price: price("19.99"), Quantity: 2,
	})
	require.NoError(t, err)

	// 第二次加购同一商品：数量合并，价格快照不变（即便调用方带了新价）
	second, err := svc.AddItem(context.Background(), &AddItemRequest{
		SessionID: "s1", ProductID: 7, ProductName: "Widget", Price: price("24.99"), Quantity: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)
	assert.True(t, second.Price.Equal(price("19.99")))
	assert.Len(t, repo.items, 1)
}

func TestAddItem_DifferentSessionsDoNotMerge(t *testing.T) {
	repo := newStubRepo()
	svc := newService(repo)

	_, err := svc.AddItem(context.Background(), &AddItemRequest{SessionID: "s1", ProductID: 7, Quantity: 1, Price: price("10")})
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), &AddItemRequest{SessionID: "s2", ProductID: 7, Quantity: 1, Price: price("10")})
	require.NoError(t, err)

	assert.Len(t, repo.items, 2)
}

func TestUpdateQuantity(t *testing.T) {
	repo := newStubRepo()
	svc := newService(repo)

	item, err := svc.AddItem(context.Background(), &AddItemRequest{SessionID: "s1", ProductID: 1, Quantity: 1, Price: price("10")})
	require.NoError(t, err)

	updated, err := svc.UpdateQuantity(context.Background(), item.ID, &UpdateQuantityRequest{Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)

	_, err = svc.UpdateQuantity(context.Background(), item.ID, &UpdateQuantityRequest{Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = svc.UpdateQuantity(context.Background(), 999, &UpdateQuantityRequest{Quantity: 2})
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestRemoveItem(t *testing.T) {
	repo := newStubRepo()
	svc := newService(repo)

	item, err := svc.AddItem(context.Background(), &AddItemRequest{SessionID: "s1", ProductID: 1, Quantity: 1, Price: price("10")})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveItem(context.Background(), item.ID))
	// 再删一次：行已经不在了
	assert.ErrorIs(t, svc.RemoveItem(context.Background(), item.ID), domain.ErrItemNotFound)
}

func TestClearCart(t *testing.T) {
	repo := newStubRepo()
	svc := newService(repo)

	for i := int64(1); i <= 3; i++ {
		_, err := svc.AddItem(context.Background(), &AddItemRequest{SessionID: "s1", ProductID: i, Quantity: 1, Price: price("10")})
		require.NoError(t, err)
	}
	_, err := svc.AddItem(context.Background(), &AddItemRequest{SessionID: "s2", ProductID: 1, Quantity: 1, Price: price("10")})
	require.NoError(t, err)

	require.NoError(t, svc.ClearCart(context.Background(), "s1"))

	s1, _ := svc.GetCart(context.Background(), "s1")
	s2, _ := svc.GetCart(context.Background(), "s2")
	assert.Empty(t, s1)
	assert.Len(t, s2, 1)

	// 清空空车不是错误
	require.NoError(t, svc.ClearCart(context.Background(), "s1"))
}

func TestGetCart_UnknownSessionIsEmptyNotError(t *testing.T) {
	svc := newService(newStubRepo())

	items, err := svc.GetCart(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}
