package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/taxpayer-registry/internal/application/dto"
	"github.com/jhoicas/taxpayer-registry/internal/domain"
)

// Error codes of dto.ErrorResponse.
const (
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeBadRequest   = "BAD_REQUEST"
	CodeRateLimited  = "RATE_LIMITED"
	CodeInternal     = "INTERNAL"
)

// statusFor maps a domain error kind to its HTTP status and error code.
func statusFor(err error) (int, string) {
	switch domain.KindOf(err) {
	case domain.ErrUnauthorized:
		return fiber.StatusUnauthorized, CodeUnauthorized
	case domain.ErrForbidden:
		return fiber.StatusForbidden, CodeForbidden
	case domain.ErrNotFound:
		return fiber.StatusNotFound, CodeNotFound
	case domain.ErrConflict:
		return fiber.StatusConflict, CodeConflict
	case domain.ErrBadRequest:
		return fiber.StatusBadRequest, CodeBadRequest
	default:
		return fiber.StatusInternalServerError, CodeInternal
	}
}

// writeError renders err as a dto.ErrorResponse. Errors outside the domain
// kinds are logged and hidden behind a generic message.
func writeError(c *fiber.Ctx, err error) error {
	status, code := statusFor(err)
	msg := domain.MessageOf(err)
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("request_id", requestID(c)).
			Msg("request failed")
		msg = "internal server error"
	}
	if status == fiber.StatusUnauthorized {
		c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func badBody(c *fiber.Ctx) error {
	return writeError(c, domain.BadRequest("invalid request body"))
}

// ErrorHandler is the Fiber fallback for errors returned by handlers and
// middleware that did not write a response themselves.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := CodeInternal
		switch fe.Code {
		case fiber.StatusNotFound:
			code = CodeNotFound
		case fiber.StatusMethodNotAllowed, fiber.StatusBadRequest, fiber.StatusRequestEntityTooLarge:
			code = CodeBadRequest
		}
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
	}
	return writeError(c, err)
}
