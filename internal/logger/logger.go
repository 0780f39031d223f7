package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	ProductionMode  = "production"
	DevelopmentMode = "development"
)

type ctxKey string

const RequestIDKey ctxKey = "request_id"

// New builds a JSON logger for production and a colored console logger otherwise.
func New(mode string) *zap.Logger {
	var config zap.Config
	if mode == ProductionMode {
		config = zap.NewProductionConfig()
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	l, err := config.Build()
	if err != nil {
		panic(err)
	}
	return l
}

// WithRequestID stores the request id so that For can attach it to log lines.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// For returns l decorated with the request-scoped fields found in ctx.
func For(ctx context.Context, l *zap.Logger) *zap.Logger {
	if ctx == nil {
		return l
	}
	if id := RequestID(ctx); id != "" {
		return l.With(zap.String(string(RequestIDKey), id))
	}
	return l
}
