package serverutils

import (
	"iot-support-be/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware translates application errors escaping a handler
// into the HTTP taxonomy. Collaborator failures deliberately map to generic
// messages so internal detail never reaches the end user.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		return WriteError(ctx, err)
	}
}

// WriteError maps a taxonomy error onto the response envelope.
func WriteError(ctx *fiber.Ctx, err error) error {
	switch {
	case apperr.IsValidation(err):
		return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(400, err.Error()))
	case apperr.IsSessionClosed(err):
		return ctx.Status(fiber.StatusConflict).JSON(ErrorResponse(409, "This session is closed. Please start a new session."))
	case apperr.IsGenerationFailed(err):
		return ctx.Status(fiber.StatusBadGateway).JSON(ErrorResponse(502, "We could not generate an answer right now. Please try again."))
	case apperr.IsPersistence(err):
		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(500, "Something went wrong. Please try again."))
	default:
		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(500, "Something went wrong. Please try again."))
	}
}
