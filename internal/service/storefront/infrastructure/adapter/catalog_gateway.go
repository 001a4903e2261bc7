// internal/service/storefront/infrastructure/adapter/catalog_gateway.go
package adapter

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"bazaar/internal/pkg/constants"
	"bazaar/internal/pkg/httpclient"
	"bazaar/internal/service/storefront/domain"
)

// HTTPCatalogGateway 通过 catalog-service 的 REST 接口实现 port.CatalogGateway。
type HTTPCatalogGateway struct {
	client *httpclient.Client
}

// NewHTTPCatalogGateway 创建一个新的商品目录网关适配器。
func NewHTTPCatalogGateway(client *httpclient.Client) *HTTPCatalogGateway {
	return &HTTPCatalogGateway{client: client}
}

func (g *HTTPCatalogGateway) GetProduct(ctx context.Context, productID int64) (*domain.ProductSnapshot, error) {
	var payload struct {
		Name  string          `json:"name"`
		Price decimal.Decimal `json:"price"`
	}
	path := fmt.Sprintf("%s/%d", constants.CatalogProductBasePath, productID)
	if err := g.client.GetJSON(ctx, constants.CatalogService, path, &payload); err != nil {
		return nil, err
	}
	return &domain.ProductSnapshot{Name: payload.Name, Price: payload.Price}, nil
}
