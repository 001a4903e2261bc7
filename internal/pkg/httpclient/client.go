// internal/pkg/httpclient/client.go
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	pkgerrors "github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Resolver 把服务名解析为基础地址（如 http://10.0.0.3:8082）。
// 生产环境由 Nacos 客户端实现，本地与测试用 StaticResolver。
type Resolver interface {
	Resolve(serviceName string) (string, error)
}

// StaticResolver 是基于静态配置表的 Resolver 实现。
type StaticResolver map[string]string

func (r StaticResolver) Resolve(serviceName string) (string, error) {
	base, ok := r[serviceName]
	if !ok {
		return "", fmt.Errorf("no static address configured for service '%s'", serviceName)
	}
	return base, nil
}

// StatusError 表示下游服务返回了非 2xx 状态码。
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("service %s returned status %d: %s", e.Service, e.StatusCode, e.Body)
}

// IsStatus 判断错误链中是否存在指定状态码的 StatusError。
func IsStatus(err error, code int) bool {
	var se *StatusError
	return pkgerrors.As(err, &se) && se.StatusCode == code
}

// IsNotFound 是 IsStatus(err, 404) 的便捷形式。
func IsNotFound(err error) bool {
	return IsStatus(err, http.StatusNotFound)
}

// Client 是一个可追踪的、可注入的 HTTP 客户端。
// 每次请求的超时完全受传入的 context 控制。
type Client struct {
	Tracer     trace.Tracer
	HTTPClient *http.Client
	resolver   Resolver
}

// NewClient 创建一个新的客户端实例。
func NewClient(tracer trace.Tracer, resolver Resolver) *Client {
	httpClient := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
		},
	}
	return &Client{
		Tracer:     tracer,
		HTTPClient: httpClient,
		resolver:   resolver,
	}
}

// GetJSON 调用下游服务的 GET 接口并把响应体解码到 out。
func (c *Client) GetJSON(ctx context.Context, serviceName, path string, out interface{}) error {
	return c.call(ctx, http.MethodGet, serviceName, path, nil, out)
}

// PostJSON 调用下游服务的 POST 接口。body 为 nil 时发送空请求体。
func (c *Client) PostJSON(ctx context.Context, serviceName, path string, body, out interface{}) error {
	return c.call(ctx, http.MethodPost, serviceName, path, body, out)
}

// PutJSON 调用下游服务的 PUT 接口。
func (c *Client) PutJSON(ctx context.Context, serviceName, path string, body, out interface{}) error {
	return c.call(ctx, http.MethodPut, serviceName, path, body, out)
}

// Delete 调用下游服务的 DELETE 接口。
func (c *Client) Delete(ctx context.Context, serviceName, path string) error {
	return c.call(ctx, http.MethodDelete, serviceName, path, nil, nil)
}

func (c *Client) call(ctx context.Context, method, serviceName, path string, body, out interface{}) error {
	base, err := c.resolver.Resolve(serviceName)
	if err != nil {
		return err
	}

	ctx, span := c.Tracer.Start(ctx, "call-"+serviceName, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			span.RecordError(err)
			return pkgerrors.Wrap(err, "marshal request body")
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, base+path, reqBody)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	span.SetAttributes(
		attribute.String("http.url", base+path),
		attribute.String("http.method", method),
		attribute.String("peer.service", serviceName),
	)
	// 注入追踪上下文(包括 Baggage)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// 响应体里通常带着下游给出的具体原因，截断保留以便排查
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		statusErr := &StatusError{Service: serviceName, StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(raw))}
		span.RecordError(statusErr)
		span.SetStatus(codes.Error, statusErr.Error())
		return statusErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			span.RecordError(err)
			return pkgerrors.Wrapf(err, "decode response from %s%s", serviceName, path)
		}
	}
	return nil
}
