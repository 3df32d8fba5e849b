// Package logger wraps log/slog with request-scoped loggers and an
// optional MongoDB sink for aggregation.
//
//	log := logger.WithCtx(r.Context())
//	log.Info("order placed", "order_id", id)
//	// time=... level=INFO msg="order placed" request_id=a1b2c3d4 order_id=42
package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/villageangel/config"
)

// L is the process-wide logger. Middleware derives request-scoped
// children from it; app code normally goes through WithCtx or the
// package helpers instead.
var L *slog.Logger

var sink *MongoHandler

func init() {
	L = slog.New(consoleHandler())
	slog.SetDefault(L)
}

func consoleHandler() slog.Handler {
	switch config.AppEnv() {
	case "production", "prod":
		return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		return slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
}

// Setup attaches the MongoDB sink when LOG_MONGO_URI is configured.
// Call once after config.Load; without the env var it is a no-op.
func Setup() error {
	uri := config.Get("LOG_MONGO_URI", "")
	if uri == "" {
		return nil
	}

	h, err := NewMongoHandler(uri,
		config.Get("LOG_MONGO_DB", "villageangel"),
		config.Get("LOG_MONGO_COLLECTION", "logs"))
	if err != nil {
		return err
	}

	sink = h
	L = slog.New(fanout{consoleHandler(), h})
	slog.SetDefault(L)
	return nil
}

// Close flushes and disconnects the MongoDB sink, if attached.
func Close() {
	if sink != nil {
		sink.Close()
	}
}

type ctxKey struct{}

// WithCtx returns the request-scoped logger stored by the middleware,
// or the base logger when the context carries none.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a request-scoped logger in ctx. Called by the
// Logger middleware.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
