// internal/pkg/bootstrap/config.go
package bootstrap

import (
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Config 是所有服务共享的配置结构。
// 配置文件路径由环境变量 BAZAAR_CONFIG 指定，未指定时使用 configs/config.yaml。
type Config struct {
	App struct {
		FeatureFlags struct {
			// 是否启用优惠券的 CEL 规则校验（固定规则之外的附加条件）
			EnableCouponRules bool `yaml:"enable_coupon_rules"`
		} `yaml:"feature_flags"`
	} `yaml:"app"`

	Infra struct {
		Jaeger struct {
			Endpoint string `yaml:"endpoint"`
		} `yaml:"jaeger"`
		Mysql struct {
			DSN string `yaml:"dsn"`
		} `yaml:"mysql"`
		Redis struct {
			Addr string `yaml:"addr"`
		} `yaml:"redis"`
		Kafka struct {
			Brokers []string `yaml:"brokers"`
		} `yaml:"kafka"`
		Zookeeper struct {
			Servers []string `yaml:"servers"`
		} `yaml:"zookeeper"`
		Nacos struct {
			// 为空时跳过注册与发现，改用下面的静态地址表（本地开发与测试场景）
			ServerAddrs string `yaml:"server_addrs"`
			Namespace   string `yaml:"namespace"`
			Group       string `yaml:"group"`
		} `yaml:"nacos"`
	} `yaml:"infra"`

	// 服务名 -> 基础地址 的静态映射，Nacos 不可用时的兜底。
	Services map[string]string `yaml:"services"`
}

var (
	currentConfig *Config
	configOnce    sync.Once
)

// Init 加载配置文件。各服务的 main 必须最先调用它。
func Init() {
	configOnce.Do(func() {
		path := os.Getenv("BAZAAR_CONFIG")
		if path == "" {
			path = "configs/config.yaml"
		}
		cfg := defaultConfig()
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				panic("bootstrap: invalid config file " + path + ": " + err.Error())
			}
		}
		// 文件不存在时直接使用默认值，保证开箱即用
		applyEnvOverrides(cfg)
		currentConfig = cfg
	})
}

// GetCurrentConfig 返回已加载的配置。必须在 Init 之后调用。
func GetCurrentConfig() *Config {
	if currentConfig == nil {
		Init()
	}
	return currentConfig
}

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.Infra.Jaeger.Endpoint = "http://localhost:14268/api/traces"
	cfg.Infra.Mysql.DSN = "root:root@tcp(localhost:3306)/bazaar?charset=utf8mb4&parseTime=True&loc=Local"
	cfg.Infra.Redis.Addr = "localhost:6379"
	cfg.Infra.Kafka.Brokers = []string{"localhost:9092"}
	cfg.Infra.Zookeeper.Servers = []string{"localhost:2181"}
	cfg.Services = map[string]string{}
	return cfg
}

// applyEnvOverrides 允许通过环境变量覆盖关键基础设施地址，便于容器化部署。
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("JAEGER_ENDPOINT"); v != "" {
		cfg.Infra.Jaeger.Endpoint = v
	}
	if v := os.Getenv("MYSQL_DSN"); v != "" {
		cfg.Infra.Mysql.DSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Infra.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Infra.Kafka.Brokers = []string{v}
	}
	if v := os.Getenv("NACOS_SERVER_ADDRS"); v != "" {
		cfg.Infra.Nacos.ServerAddrs = v
	}
	if v := os.Getenv("NACOS_NAMESPACE"); v != "" {
		cfg.Infra.Nacos.Namespace = v
	}
	if v := os.Getenv("NACOS_GROUP"); v != "" {
		cfg.Infra.Nacos.Group = v
	}
}
