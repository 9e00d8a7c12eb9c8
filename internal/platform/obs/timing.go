package obs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// WithRequestID returns a context carrying the request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// RequestID returns the request id carried by ctx, empty when absent.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// Time logs the duration and outcome of an operation when the returned
// func runs. Designed for defer with a named error return:
//
//	defer obs.Time(ctx, logger, "ors.CalculateRoute")(&err)
func Time(ctx context.Context, logger *zap.Logger, op string) func(errp *error) {
	start := time.Now()
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(errp *error) {
		fields := []zap.Field{
			zap.String("op", op),
			zap.Int64("dur_ms", time.Since(start).Milliseconds()),
		}
		if id := RequestID(ctx); id != "" {
			fields = append(fields, zap.String("req_id", id))
		}
		if errp != nil && *errp != nil {
			logger.Warn("operation failed", append(fields, zap.Error(*errp))...)
			return
		}
		logger.Debug("operation complete", fields...)
	}
}
