// internal/service/coupon/interfaces/http_handler.go
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

	"bazaar/internal/service/coupon/application"
	"bazaar/internal/service/coupon/domain"
)

var couponValidations = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "bazaar_coupon_validations_total",
	Help: "Coupon validation requests by outcome.",
}, []string{"outcome"})

// CouponHandler 封装了 coupon 服务的 HTTP 处理器。
type CouponHandler struct {
	service *application.CouponService
}

// NewCouponHandler 创建一个新的 HTTP 处理器实例。
func NewCouponHandler(service *application.CouponService) *CouponHandler {
	return &CouponHandler{service: service}
}

// RegisterRoutes 在 ServeMux 上注册所有路由。
func (h *CouponHandler) RegisterRoutes(mux *http.ServeMux) {
	// 面向 storefront 的公开接口
	mux.HandleFunc("POST /coupons/validate", h.handleValidate)
	mux.HandleFunc("POST /coupons/increment-usage", h.handleIncrementUsage)

	// 后台管理接口
	mux.HandleFunc("GET /coupons", h.handleList)
	mux.HandleFunc("POST /coupons", h.handleCreate)
	mux.HandleFunc("GET /coupons/{id}", h.handleGet)
	mux.HandleFunc("PUT /coupons/{id}", h.handleUpdate)
	mux.HandleFunc("DELETE /coupons/{id}", h.handleDelete)
}

func extractCtx(r *http.Request) *http.Request {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
	return r.WithContext(ctx)
}

func (h *CouponHandler) handleValidate(w http.ResponseWriter, r *http.Request) {
	r = extractCtx(r)

	var req application.ValidateCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.Validate(r.Context(), &req)
	if err != nil {
		couponValidations.WithLabelValues("error").Inc()
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if resp.IsValid {
		couponValidations.WithLabelValues("valid").Inc()
	} else {
		couponValidations.WithLabelValues("rejected").Inc()
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *CouponHandler) handleIncrementUsage(w http.ResponseWriter, r *http.Request) {
	r = extractCtx(r)

	var req application.IncrementUsageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.IncrementUsage(r.Context(), &req); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CouponHandler) handleList(w http.ResponseWriter, r *http.Request) {
	r = extractCtx(r)
	coupons, err := h.service.ListCoupons(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, coupons)
}

func (h *CouponHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	r = extractCtx(r)
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid coupon id", http.StatusBadRequest)
		return
	}
	coupon, err := h.service.GetCoupon(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, coupon)
}

func (h *CouponHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	r = extractCtx(r)
	var req application.CreateCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	coupon, err := h.service.CreateCoupon(r.Context(), &req)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusCreated, coupon)
}

func (h *CouponHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	r = extractCtx(r)
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid coupon id", http.StatusBadRequest)
		return
	}
	var req application.UpdateCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.service.UpdateCoupon(r.Context(), id, &req); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CouponHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	r = extractCtx(r)
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid coupon id", http.StatusBadRequest)
		return
	}
	if err := h.service.DeleteCoupon(r.Context(), id); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// statusFor 根据错误类型返回对应的 HTTP 状态码。
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrCouponNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateCode):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
