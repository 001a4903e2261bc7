package main

import (
	"go.opentelemetry.io/otel"

	"bazaar/internal/pkg/bootstrap"
	"bazaar/internal/pkg/constants"
	"bazaar/internal/pkg/database"
	"bazaar/internal/pkg/logger"
	"bazaar/internal/pkg/zookeeper"
	"bazaar/internal/service/coupon/application"
	"bazaar/internal/service/coupon/domain"
	"bazaar/internal/service/coupon/infrastructure"
	"bazaar/internal/service/coupon/infrastructure/rule"
	"bazaar/internal/service/coupon/interfaces"
)

const port = 8083

func main() {
	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: constants.CouponService,
		Port:        port,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			cfg := bootstrap.GetCurrentConfig()
			tracer := otel.Tracer(constants.CouponService)

			db, err := database.Open(cfg.Infra.Mysql.DSN)
			if err != nil {
				logger.Logger.Fatal().Err(err).Msg("failed to connect to mysql")
			}
			if err := db.AutoMigrate(&infrastructure.CouponModel{}); err != nil {
				logger.Logger.Fatal().Err(err).Msg("failed to migrate coupon schema")
			}
			repo := infrastructure.NewGormCouponRepository(db)

			ruleEngine, err := rule.NewCELRuleEngineAdapter()
			if err != nil {
				logger.Logger.Fatal().Err(err).Msg("failed to initialize rule engine")
			}

			// 多实例部署时用 ZooKeeper 锁串行化同一个码的用量累加
			var locker domain.UsageLocker
			if len(cfg.Infra.Zookeeper.Servers) > 0 {
				zkConn, err := zookeeper.Connect(cfg.Infra.Zookeeper.Servers)
				if err != nil {
					logger.Logger.Fatal().Err(err).Msg("failed to connect to zookeeper")
				}
				locker = infrastructure.NewZkUsageLocker(zkConn)
			} else {
				locker = infrastructure.NewLocalUsageLocker()
			}

			service := application.NewCouponService(
				repo, ruleEngine, locker, tracer,
				cfg.App.FeatureFlags.EnableCouponRules,
			)
			interfaces.NewCouponHandler(service).RegisterRoutes(appCtx.Mux)
		},
	})
}
