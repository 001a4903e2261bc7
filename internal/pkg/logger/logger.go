// internal/pkg/logger/logger.go
package logger

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// Logger 是全局的基础 logger，所有服务在 bootstrap 阶段通过 Init 完成初始化。
// 输出为 JSON 格式，便于采集到统一的日志平台。
var Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Init 用服务名初始化全局 logger。
func Init(serviceName string) {
	Logger = zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}

// Ctx 返回一个与当前追踪上下文关联的 logger。
// 如果 ctx 中存在有效的 Span，会自动附加 trace_id / span_id，
// 这样日志就能和 Jaeger 中的链路对应起来。
func Ctx(ctx context.Context) *zerolog.Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return &Logger
	}
	l := Logger.With().
		Str("trace_id", sc.TraceID().String()).
		Str("span_id", sc.SpanID().String()).
		Logger()
	return &l
}
