package serverutils

import (
	"context"
	"errors"

	"disclosure-engine-be/internal/repository/contract"
	"disclosure-engine-be/pkg/disclosure"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps an error returned by a handler to an HTTP status.
func StatusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, disclosure.ErrSessionNotFound),
		errors.Is(err, disclosure.ErrProductNotFound),
		errors.Is(err, disclosure.ErrReportNotFound),
		errors.Is(err, contract.ErrNotificationNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, disclosure.ErrStaleAnswer),
		errors.Is(err, disclosure.ErrSessionComplete),
		errors.Is(err, disclosure.ErrReportNotRetryable):
		return fiber.StatusConflict
	case errors.Is(err, disclosure.ErrSynthesisFailed):
		return fiber.StatusBadGateway
	case errors.Is(err, disclosure.ErrUnsupportedMedia):
		return fiber.StatusUnsupportedMediaType
	case errors.Is(err, disclosure.ErrProductNotEligible):
		return fiber.StatusForbidden
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		// client went away
		return 499
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandlerMiddleware turns handler errors into the BaseResponse envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if err == nil {
			return nil
		}

		code := StatusFor(err)
		message := err.Error()
		if code == fiber.StatusInternalServerError {
			message = "Internal server error"
		}
		return c.Status(code).JSON(ErrorResponse(code, message))
	}
}
