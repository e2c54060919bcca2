// Package log wraps a zap JSON logger with request-aware helpers so
// handlers can emit one-line structured events without plumbing a logger
// through every call.
package log

import (
	stdlog "log"
	"os"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var base *zap.Logger

func init() {
	base = newLogger("")
}

// Init reconfigures the process logger, optionally teeing to a file.
// Called once from main after config is loaded.
func Init(logFile string) {
	base = newLogger(logFile)
}

func newLogger(logFile string) *zap.Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.RFC3339TimeEncoder
	enc := zapcore.NewJSONEncoder(cfg)

	sinks := []zapcore.WriteSyncer{zapcore.AddSync(os.Stdout)}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			stdlog.Printf("[warn] could not open log file %s: %v", logFile, err)
		} else {
			sinks = append(sinks, zapcore.AddSync(f))
		}
	}
	core := zapcore.NewCore(enc, zapcore.NewMultiWriteSyncer(sinks...), zap.InfoLevel)
	return zap.New(core)
}

func write(level zapcore.Level, c *fiber.Ctx, action string, err error, fields map[string]any) {
	zf := make([]zap.Field, 0, len(fields)+6)
	if c != nil {
		zf = append(zf,
			zap.String("ip", c.IP()),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
		)
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			zf = append(zf, zap.String("req_id", rid))
		}
	}
	if err != nil {
		zf = append(zf, zap.Error(err))
	}
	for k, v := range fields {
		zf = append(zf, zap.Any(k, v))
	}
	switch level {
	case zap.WarnLevel:
		base.Warn(action, zf...)
	case zap.ErrorLevel:
		base.Error(action, zf...)
	default:
		base.Info(action, zf...)
	}
}

func Info(c *fiber.Ctx, action string, fields map[string]any) {
	write(zap.InfoLevel, c, action, nil, fields)
}

// Audit records business-relevant mutations (orders placed, admin edits).
func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	write(zap.InfoLevel, c, action, nil, fields)
}

// Security records rejected or suspicious requests.
func Security(c *fiber.Ctx, action string, fields map[string]any) {
	write(zap.WarnLevel, c, action, nil, fields)
}

func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	write(zap.ErrorLevel, c, action, err, fields)
}
