// internal/pkg/constants/constants.go
package constants

// 服务名，既用于 Nacos 注册/发现，也用于静态地址配置的 Key。
const (
	StorefrontGateway   = "storefront-gateway"
	CartService         = "cart-service"
	CouponService       = "coupon-service"
	OrderService        = "order-service"
	CatalogService      = "catalog-service"
	NotificationService = "notification-service"
	PushGateway         = "push-gateway"
)

// 下游服务的路径。调用方通过 httpclient.Client 按 服务名 + 路径 访问。
const (
	CartBasePath           = "/cart"
	CartClearPath          = "/cart/clear"
	CouponValidatePath     = "/coupons/validate"
	CouponIncrementPath    = "/coupons/increment-usage"
	CouponBasePath         = "/coupons"
	OrderBasePath          = "/orders"
	CatalogProductBasePath = "/products"
)

// Kafka 主题。
const (
	OrderEventsTopic = "order-events-topic"
)

// 浏览器与网关之间承载购物车会话标识的 Cookie 名。
const CartSessionCookie = "cartSessionId"
