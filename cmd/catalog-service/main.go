package main

import (
	"go.opentelemetry.io/otel"

	"bazaar/internal/pkg/bootstrap"
	"bazaar/internal/pkg/constants"
	"bazaar/internal/pkg/database"
	"bazaar/internal/pkg/logger"
	"bazaar/internal/service/catalog/application"
	"bazaar/internal/service/catalog/infrastructure"
	"bazaar/internal/service/catalog/interfaces"
)

const port = 8085

func main() {
	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: constants.CatalogService,
		Port:        port,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			cfg := bootstrap.GetCurrentConfig()
			tracer := otel.Tracer(constants.CatalogService)

			db, err := database.Open(cfg.Infra.Mysql.DSN)
			if err != nil {
				logger.Logger.Fatal().Err(err).Msg("failed to connect to mysql")
			}
			if err := db.AutoMigrate(&infrastructure.ProductModel{}); err != nil {
				logger.Logger.Fatal().Err(err).Msg("failed to migrate product schema")
			}

			service := application.NewCatalogService(infrastructure.NewGormProductRepository(db), tracer)
			interfaces.NewCatalogHandler(service).RegisterRoutes(appCtx.Mux)
		},
	})
}
