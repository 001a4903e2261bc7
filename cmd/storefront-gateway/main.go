package main

import (
	"go.opentelemetry.io/otel"

	"bazaar/internal/pkg/bootstrap"
	"bazaar/internal/pkg/constants"
	"bazaar/internal/pkg/httpclient"
	"bazaar/internal/service/storefront/application"
	"bazaar/internal/service/storefront/infrastructure/adapter"
	"bazaar/internal/service/storefront/interfaces"
)

const port = 8081

func main() {
	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: constants.StorefrontGateway,
		Port:        port,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			cfg := bootstrap.GetCurrentConfig()
			tracer := otel.Tracer(constants.StorefrontGateway)

			// 有 Nacos 用 Nacos 发现下游，否则退回静态地址表
			var resolver httpclient.Resolver
			if appCtx.Nacos != nil {
				resolver = appCtx.Nacos
			} else {
				resolver = httpclient.StaticResolver(cfg.Services)
			}
			client := httpclient.NewClient(tracer, resolver)

			holders := application.NewHolderRegistry(adapter.NewHTTPCartGateway(client), tracer)
			checkout := application.NewCheckoutService(
				adapter.NewHTTPCouponGateway(client),
				adapter.NewHTTPOrderGateway(client),
				tracer,
			)
			handler := interfaces.NewStorefrontHandler(
				holders, checkout,
				adapter.NewHTTPCatalogGateway(client),
				tracer,
			)
			handler.RegisterRoutes(appCtx.Mux)
		},
	})
}
