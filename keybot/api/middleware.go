package api

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders every unhandled error as the JSON error envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	return SendError(c, code, strings.ToUpper(strings.ReplaceAll(statusText(code), " ", "_")), message)
}

func SecurityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "no-referrer")
		c.Set("Cache-Control", "no-store")
		return c.Next()
	}
}

// LoggingMiddleware logs each request, raising the level for 4xx and 5xx.
func LoggingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// let the error handler set the final status before it is logged
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		statusCode := c.Response().StatusCode()
		level := slog.LevelInfo
		switch {
		case statusCode >= 500:
			level = slog.LevelError
		case statusCode >= 400:
			level = slog.LevelWarn
		}

		attrs := []slog.Attr{
			slog.String("type", "api"),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", statusCode),
			slog.Duration("took", time.Since(start)),
			slog.String("ip", clientAddress(c)),
		}
		if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
		}
		slog.LogAttrs(c.UserContext(), level, "HTTP request processed", attrs...)
		return nil
	}
}

// TokenRequired rejects requests without the configured bearer token.
func TokenRequired(token string) fiber.Handler {
	expected := []byte(token)
	return func(c *fiber.Ctx) error {
		got, ok := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		if !ok || len(expected) == 0 || subtle.ConstantTimeCompare([]byte(got), expected) != 1 {
			return SendError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "A valid bearer token is required")
		}
		return c.Next()
	}
}

// clientAddress is the peer address, or the forwarded one when the peer is a
// trusted proxy. Client supplied headers are never taken on their own.
func clientAddress(c *fiber.Ctx) string {
	return c.IP()
}
