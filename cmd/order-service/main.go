package main

import (
	"context"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"

	"bazaar/internal/pkg/bootstrap"
	"bazaar/internal/pkg/constants"
	"bazaar/internal/pkg/database"
	"bazaar/internal/pkg/logger"
	"bazaar/internal/pkg/mq"
	"bazaar/internal/service/order/application"
	"bazaar/internal/service/order/infrastructure"
	"bazaar/internal/service/order/interfaces"
)

const port = 8084

func main() {
	var writer *kafka.Writer

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: constants.OrderService,
		Port:        port,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			cfg := bootstrap.GetCurrentConfig()
			tracer := otel.Tracer(constants.OrderService)

			db, err := database.Open(cfg.Infra.Mysql.DSN)
			if err != nil {
				logger.Logger.Fatal().Err(err).Msg("failed to connect to mysql")
			}
			if err := db.AutoMigrate(&infrastructure.OrderModel{}, &infrastructure.OrderItemModel{}); err != nil {
				logger.Logger.Fatal().Err(err).Msg("failed to migrate order schema")
			}

			writer = mq.NewWriter(cfg.Infra.Kafka.Brokers, constants.OrderEventsTopic)

			service := application.NewOrderService(
				infrastructure.NewGormOrderRepository(db),
				infrastructure.NewKafkaEventPublisher(writer),
				tracer,
			)
			interfaces.NewOrderHandler(service).RegisterRoutes(appCtx.Mux)
		},
		OnShutdown: []func(ctx context.Context){
			func(ctx context.Context) {
				if writer != nil {
					writer.Close()
				}
			},
		},
	})
}
