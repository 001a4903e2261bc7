package main

import (
	"context"

	"go.opentelemetry.io/otel"

	"bazaar/internal/pkg/bootstrap"
	"bazaar/internal/pkg/constants"
	"bazaar/internal/pkg/logger"
	"bazaar/internal/pkg/mq"
	"bazaar/internal/service/push"
)

const port = 8087

func main() {
	var feed *push.OrderEventFeed
	runCtx, stop := context.WithCancel(context.Background())

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: constants.PushGateway,
		Port:        port,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			cfg := bootstrap.GetCurrentConfig()
			tracer := otel.Tracer(constants.PushGateway)

			hub := push.NewHub()
			push.NewWSHandler(hub).RegisterRoutes(appCtx.Mux)

			reader := mq.NewReader(cfg.Infra.Kafka.Brokers, constants.PushGateway, constants.OrderEventsTopic)
			feed = push.NewOrderEventFeed(reader, hub, tracer)
			go func() {
				if err := feed.Run(runCtx); err != nil {
					logger.Logger.Error().Err(err).Msg("order event feed stopped")
				}
			}()
		},
		OnShutdown: []func(ctx context.Context){
			func(ctx context.Context) {
				stop()
				if feed != nil {
					feed.Close()
				}
			},
		},
	})
}
