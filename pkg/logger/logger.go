package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey string

const requestIDKey ctxKey = "request_id"

var log = zap.NewNop()

// Config controla nivel y formato de salida.
type Config struct {
	Level    string
	Encoding string
}

// Init inicializa el logger global
func Init(c Config) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json" // Logs estructurados en JSON
	if c.Encoding == "console" {
		cfg.Encoding = "console"
	}
	cfg.EncoderConfig.TimeKey = "ts" // timestamp
	cfg.EncoderConfig.MessageKey = "msg"
	cfg.EncoderConfig.LevelKey = "level"
	cfg.EncoderConfig.CallerKey = "caller"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	level := zapcore.InfoLevel
	if err := level.Set(c.Level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(level)
	}

	built, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	log = built
}

// Sugar retorna un logger más “friendly” para usar con printf-like
func Sugar() *zap.SugaredLogger {
	return log.Sugar()
}

// Logger retorna el logger estructurado
func Logger() *zap.Logger {
	return log
}

// ContextWithRequestID guarda el id de petición en el contexto.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestID devuelve el id de petición o "" si no hay.
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	reqID, _ := ctx.Value(requestIDKey).(string)
	return reqID
}

// WithRequestID enriquece el logger con el id de petición del contexto.
func WithRequestID(ctx context.Context, base *zap.Logger) *zap.Logger {
	if base == nil {
		return base
	}
	if reqID := RequestID(ctx); reqID != "" {
		return base.With(zap.String("request_id", reqID))
	}
	return base
}
