package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ashwin-2504/BharatMandi-Backend/internal/gateway"
	applog "github.com/ashwin-2504/BharatMandi-Backend/internal/log"
	"github.com/ashwin-2504/BharatMandi-Backend/internal/services"
)

// ok wraps transaction-endpoint payloads in the success envelope.
func ok(c *fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"success": true, "data": data})
}

// invalid is the validation rejection for transaction endpoints; it uses
// the same envelope the boundary ErrorHandler emits.
func invalid(c *fiber.Ctx, msg string) error {
	applog.Warn(c, "validation.fail", nil, map[string]any{"message": msg})
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"code":    "VALIDATION_ERROR",
		"message": msg,
	})
}

// badRequest / serverError are the flat CRUD-style error bodies.
func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func serverError(c *fiber.Ctx, action string, err error) error {
	applog.Error(c, action, err, nil)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}

// ErrorHandler is the single boundary for uncaught errors: it emits
// {success:false, code, message} with the error's carried status code, or
// 500 when the error carries none.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	code := "INTERNAL_ERROR"

	var gwErr *gateway.Error
	var fbErr *fiber.Error
	switch {
	case errors.As(err, &gwErr):
		status, code = gwErr.StatusCode, gwErr.Code
	case errors.Is(err, services.ErrTransactionNotFound):
		status, code = fiber.StatusNotFound, "TRANSACTION_NOT_FOUND"
	case errors.Is(err, services.ErrInsufficientStock):
		status, code = fiber.StatusConflict, "INSUFFICIENT_STOCK"
	case errors.Is(err, services.ErrInvalidQuantity):
		status, code = fiber.StatusBadRequest, "INVALID_QUANTITY"
	case errors.Is(err, services.ErrStockConflict):
		status, code = fiber.StatusConflict, "STOCK_UPDATE_FAILED"
	case errors.As(err, &fbErr):
		status = fbErr.Code
		code = "REQUEST_ERROR"
	}

	applog.Error(c, "request.fail", err, map[string]any{"code": code, "status": status})
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"code":    code,
		"message": err.Error(),
	})
}
