// internal/service/storefront/infrastructure/adapter/cart_gateway.go
package adapter

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"bazaar/internal/pkg/constants"
	"bazaar/internal/pkg/httpclient"
	"bazaar/internal/service/storefront/domain"
)

// cartItemPayload 是 cart-service 的行表示。
type cartItemPayload struct {
	ID          int64           `json:"id"`
	SessionID   string          `json:"sessionId"`
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

// HTTPCartGateway 通过 cart-service 的 REST 接口实现 port.CartGateway。
type HTTPCartGateway struct {
	client *httpclient.Client
}

// NewHTTPCartGateway 创建一个新的购物车网关适配器。
func NewHTTPCartGateway(client *httpclient.Client) *HTTPCartGateway {
	return &HTTPCartGateway{client: client}
}

func (g *HTTPCartGateway) FetchCart(ctx context.Context, sessionID string) ([]domain.CartLine, error) {
	var payload []cartItemPayload
	path := fmt.Sprintf("%s/%s", constants.CartBasePath, sessionID)
	if err := g.client.GetJSON(ctx, constants.CartService, path, &payload); err != nil {
		return nil, err
	}
	lines := make([]domain.CartLine, len(payload))
	for i, item := range payload {
		lines[i] = domain.CartLine{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.Price,
			Quantity:    item.Quantity,
		}
	}
	return lines, nil
}

func (g *HTTPCartGateway) AddLine(ctx context.Context, sessionID string, productID int64, quantity int, snapshot domain.ProductSnapshot) error {
	body := map[string]interface{}{
		"sessionId":   sessionID,
		"productId":   productID,
		"productName": snapshot.Name,
		"price":       snapshot.Price,
		"quantity":    quantity,
	}
	return g.client.PostJSON(ctx, constants.CartService, constants.CartBasePath, body, nil)
}

func (g *HTTPCartGateway) UpdateQuantity(ctx context.Context, lineID int64, quantity int) error {
	path := fmt.Sprintf("%s/%d", constants.CartBasePath, lineID)
	body := map[string]int{"quantity": quantity}
	err := g.client.PutJSON(ctx, constants.CartService, path, body, nil)
	if httpclient.IsNotFound(err) {
		return domain.ErrLineNotFound
	}
	return err
}

func (g *HTTPCartGateway) RemoveLine(ctx context.Context, lineID int64) error {
	path := fmt.Sprintf("%s/%d", constants.CartBasePath, lineID)
	err := g.client.Delete(ctx, constants.CartService, path)
	if httpclient.IsNotFound(err) {
		return domain.ErrLineNotFound
	}
	return err
}

func (g *HTTPCartGateway) Clear(ctx context.Context, sessionID string) error {
	path := fmt.Sprintf("%s/%s", constants.CartClearPath, sessionID)
	return g.client.Delete(ctx, constants.CartService, path)
}
