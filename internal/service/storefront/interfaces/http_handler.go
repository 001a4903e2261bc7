// internal/service/storefront/interfaces/http_handler.go
package interfaces

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"bazaar/internal/pkg/session"
	"bazaar/internal/service/storefront/application"
	"bazaar/internal/service/storefront/domain"
	"bazaar/internal/service/storefront/port"
)

var checkoutSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "bazaar_checkout_submissions_total",
	Help: "Checkout submissions by outcome.",
}, []string{"outcome"})

// StorefrontHandler 是面向浏览器的 BFF 接口层。
// 会话标识由 Cookie 承载：请求没带时生成一个并通过 Set-Cookie 下发，
// 之后同一浏览器的所有请求都落在同一个购物车上。
type StorefrontHandler struct {
	holders  *application.HolderRegistry
	checkout *application.CheckoutService
	catalog  port.CatalogGateway
	tracer   trace.Tracer
}

// NewStorefrontHandler 创建一个新的 BFF 接口层实例。
func NewStorefrontHandler(
	holders *application.HolderRegistry,
	checkout *application.CheckoutService,
	catalog port.CatalogGateway,
	tracer trace.Tracer,
) *StorefrontHandler {
	return &StorefrontHandler{holders: holders, checkout: checkout, catalog: catalog, tracer: tracer}
}

// RegisterRoutes 在 ServeMux 上注册所有路由。
func (h *StorefrontHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /storefront/cart", h.handleGetCart)
	mux.HandleFunc("POST /storefront/cart/items", h.handleAddLine)
	mux.HandleFunc("PUT /storefront/cart/items/{id}", h.handleUpdateQuantity)
	mux.HandleFunc("DELETE /storefront/cart/items/{id}", h.handleRemoveLine)
	mux.HandleFunc("POST /storefront/coupons/apply", h.handleApplyCoupon)
	mux.HandleFunc("POST /storefront/checkout", h.handleCheckout)
}

func extractCtx(r *http.Request) *http.Request {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	return r.WithContext(ctx)
}

// holderFor 取出（或建立）当前浏览器会话的购物车持有者。
func (h *StorefrontHandler) holderFor(w http.ResponseWriter, r *http.Request) *application.CartHolder {
	sess := session.GetOrCreate(newCookieStore(w, r))
	return h.holders.Get(sess.ID)
}

// cartView 是 BFF 返回给前端的购物车视图，合计在服务端算好。
type cartView struct {
	Items     []domain.CartLine `json:"items"`
	Subtotal  string            `json:"subtotal"`
	ItemCount int               `json:"itemCount"`
}

func viewOf(holder *application.CartHolder) cartView {
	return cartView{
		Items:     holder.Snapshot(),
		Subtotal:  holder.Subtotal().StringFixed(2),
		ItemCount: holder.ItemCount(),
	}
}

func (h *StorefrontHandler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	r = extractCtx(r)
	holder := h.holderFor(w, r)

	holder.EnsureLoaded(r.Context())
	writeJSON(w, http.StatusOK, viewOf(holder))
}

func (h *StorefrontHandler) handleAddLine(w http.ResponseWriter, r *http.Request) {
	r = extractCtx(r)
	holder := h.holderFor(w, r)

	var req struct {
		ProductID int64 `json:"productId"`
		Quantity  int   `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Quantity < 1 {
		http.Error(w, domain.ErrInvalidQuantity.Error(), http.StatusBadRequest)
		return
	}

	// 加购时刻的商品快照来自商品目录
	snapshot, err := h.catalog.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	if err := holder.AddLine(r.Context(), req.ProductID, req.Quantity, *snapshot); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	// 真相在服务端：写完重新拉取
	if err := holder.Refresh(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(holder))
}

func (h *StorefrontHandler) handleUpdateQuantity(w http.ResponseWriter, r *http.Request) {
	r = extractCtx(r)
	holder := h.holderFor(w, r)

	lineID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid line id", http.StatusBadRequest)
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := holder.UpdateQuantity(r.Context(), lineID, req.Quantity); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	if err := holder.Refresh(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(holder))
}

func (h *StorefrontHandler) handleRemoveLine(w http.ResponseWriter, r *http.Request) {
	r = extractCtx(r)
	holder := h.holderFor(w, r)

	lineID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid line id", http.StatusBadRequest)
		return
	}

	if err := holder.RemoveLine(r.Context(), lineID); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	if err := holder.Refresh(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(holder))
}

func (h *StorefrontHandler) handleApplyCoupon(w http.ResponseWriter, r *http.Request) {
	r = extractCtx(r)
	holder := h.holderFor(w, r)

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	holder.EnsureLoaded(r.Context())
	decision, err := h.checkout.ApplyCoupon(r.Context(), holder, req.Code)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, decision)
}

func (h *StorefrontHandler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	r = extractCtx(r)
	holder := h.holderFor(w, r)

	var req application.SubmitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	holder.EnsureLoaded(r.Context())
	placed, err := h.checkout.SubmitOrder(r.Context(), holder, &req)
	if err != nil {
		checkoutSubmissions.WithLabelValues("failed").Inc()
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	checkoutSubmissions.WithLabelValues("success").Inc()
	writeJSON(w, http.StatusCreated, placed)
}

// statusFor 根据错误类型返回对应的 HTTP 状态码。
func statusFor(err error) int {
	var fieldErr *domain.FieldError
	switch {
	case errors.As(err, &fieldErr), errors.Is(err, domain.ErrInvalidQuantity):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrLineNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
