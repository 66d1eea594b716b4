package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/taxpayer-registry/internal/application/audit"
)

func requestID(c *fiber.Ctx) string {
	if id := c.GetRespHeader(fiber.HeaderXRequestID); id != "" {
		return id
	}
	return c.Get(fiber.HeaderXRequestID)
}

// RequestOrigin copies the client address, user agent and request id into the
// request context so the audit logger can stamp them on every entry.
// It must run after the requestid middleware.
func RequestOrigin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := audit.WithOrigin(c.UserContext(), audit.Origin{
			IPAddress: clientIP(c),
			UserAgent: c.Get(fiber.HeaderUserAgent),
			RequestID: requestID(c),
		})
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// RequestLogger writes one structured line per request.
func RequestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// Let the error handler write the response so the logged status is final.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		ev := log.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = log.Error()
		case status >= fiber.StatusBadRequest:
			ev = log.Warn()
		}
		ev = ev.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("request_id", requestID(c))
		if u := GetUser(c); u != nil {
			ev = ev.Str("user_id", u.ID)
		}
		ev.Msg("request")
		return nil
	}
}
