package main

import (
	"context"

	"go.opentelemetry.io/otel"

	"bazaar/internal/pkg/bootstrap"
	"bazaar/internal/pkg/constants"
	"bazaar/internal/pkg/logger"
	"bazaar/internal/pkg/mq"
	"bazaar/internal/service/notification/application"
	"bazaar/internal/service/notification/infrastructure"
)

const port = 8086

func main() {
	var consumer *application.OrderEventConsumer
	runCtx, stop := context.WithCancel(context.Background())

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: constants.NotificationService,
		Port:        port,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			cfg := bootstrap.GetCurrentConfig()
			tracer := otel.Tracer(constants.NotificationService)

			reader := mq.NewReader(cfg.Infra.Kafka.Brokers, constants.NotificationService, constants.OrderEventsTopic)
			consumer = application.NewOrderEventConsumer(reader, infrastructure.NewLogEmailNotifier(), tracer)

			go func() {
				if err := consumer.Run(runCtx); err != nil {
					logger.Logger.Error().Err(err).Msg("order event consumer stopped")
				}
			}()
		},
		OnShutdown: []func(ctx context.Context){
			func(ctx context.Context) {
				stop()
				if consumer != nil {
					consumer.Close()
				}
			},
		},
	})
}
