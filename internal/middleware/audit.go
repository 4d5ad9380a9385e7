package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

const statusCodeLocal = "status_code"

// SetStatusCode records the instruction status code for the audit log line.
func SetStatusCode(c *fiber.Ctx, code string) {
	c.Locals(statusCodeLocal, code)
}

// Audit emits structured logs for each request/response lifecycle event.
func Audit(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		duration := time.Since(start)
		requestID := GetRequestID(c)

		attrs := []any{
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Duration("duration", duration),
		}
		if requestID != "" {
			attrs = append(attrs, slog.String("request_id", requestID))
		}
		if code, ok := c.Locals(statusCodeLocal).(string); ok && code != "" {
			attrs = append(attrs, slog.String("status_code", code))
		}
		if err != nil {
			attrs = append(attrs, slog.Any("error", err))
			logger.Error("request completed", attrs...)
			return err
		}

		logger.Info("request completed", attrs...)
		return nil
	}
}
