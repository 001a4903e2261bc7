package main

import (
	"context"

	"go.opentelemetry.io/otel"

	"bazaar/internal/pkg/bootstrap"
	"bazaar/internal/pkg/constants"
	"bazaar/internal/pkg/database"
	"bazaar/internal/pkg/logger"
	"bazaar/internal/pkg/redis"
	"bazaar/internal/service/cart/application"
	"bazaar/internal/service/cart/infrastructure"
	"bazaar/internal/service/cart/interfaces"
)

const port = 8082

func main() {
	var redisClient *redis.Client

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: constants.CartService,
		Port:        port,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			cfg := bootstrap.GetCurrentConfig()
			tracer := otel.Tracer(constants.CartService)

			db, err := database.Open(cfg.Infra.Mysql.DSN)
			if err != nil {
				logger.Logger.Fatal().Err(err).Msg("failed to connect to mysql")
			}
			if err := db.AutoMigrate(&infrastructure.CartItemModel{}); err != nil {
				logger.Logger.Fatal().Err(err).Msg("failed to migrate cart schema")
			}

			redisClient, err = redis.NewClient(cfg.Infra.Redis.Addr)
			if err != nil {
				logger.Logger.Fatal().Err(err).Msg("failed to connect to redis")
			}

			repo := infrastructure.NewCachedCartRepository(
				infrastructure.NewGormCartRepository(db),
				redisClient,
			)
			service := application.NewCartService(repo, tracer)
			interfaces.NewCartHandler(service).RegisterRoutes(appCtx.Mux)
		},
		OnShutdown: []func(ctx context.Context){
			func(ctx context.Context) {
				if redisClient != nil {
					redisClient.Close()
				}
			},
		},
	})
}
