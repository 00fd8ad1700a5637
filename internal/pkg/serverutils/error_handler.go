package serverutils

import (
	"errors"

	"querynotes-be/internal/pkg/apperror"
	"querynotes-be/internal/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns errors returned by handlers into the JSON
// envelope. Causes of 5xx errors are logged, never sent to the client.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		return WriteError(ctx, log, err)
	}
}

func WriteError(ctx *fiber.Ctx, log logger.ILogger, err error) error {
	code, message := classify(err)

	if code >= fiber.StatusInternalServerError {
		log.Error("HTTP", message, map[string]interface{}{
			"method": ctx.Method(),
			"path":   ctx.Path(),
			"status": code,
			"error":  err.Error(),
			"cause":  causeOf(err),
		})
	}

	return ctx.Status(code).JSON(ErrorResponse(code, message))
}

func classify(err error) (int, string) {
	if appErr, ok := apperror.As(err); ok {
		return appErr.StatusCode(), appErr.Message
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, fiberErr.Message
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return fiber.StatusBadRequest, formatValidationErrors(validationErrs)
	}

	return fiber.StatusInternalServerError, "Internal server error"
}

func causeOf(err error) string {
	if cause := errors.Unwrap(err); cause != nil {
		return cause.Error()
	}
	return ""
}
