package serverutils

import (
	"context"
	"errors"

	"ai-agent-gateway-be/internal/entity"

	"github.com/gofiber/fiber/v2"
)

// TenantHeader identifies the calling tenant on every request.
const TenantHeader = "X-Tenant-ID"

// Locals keys set by TenantMiddleware.
const (
	LocalTenantID = "tenant_id"
	LocalTenant   = "tenant"
)

// ErrorHandlerMiddleware converts returned errors into the response
// envelope. AppError keeps its status and details; fiber errors keep
// their status; anything else is a 500 with the message hidden.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var appErr *AppError
		if errors.As(err, &appErr) {
			resp := ErrorResponseWithDetails(appErr.Status, appErr.Message, appErr.Details)
			if appErr.Details == nil {
				resp = ErrorResponse(appErr.Status, appErr.Message)
			}
			resp.Details = withCode(resp.Details, appErr.Code)
			return ctx.Status(appErr.Status).JSON(resp)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		return ctx.Status(fiber.StatusInternalServerError).
			JSON(ErrorResponse(500, "internal server error"))
	}
}

func withCode(details map[string]interface{}, code string) map[string]interface{} {
	if details == nil {
		details = map[string]interface{}{}
	}
	details["error_code"] = code
	return details
}

// TenantResolver loads the tenant for a request. Returning nil, nil means
// the tenant does not exist.
type TenantResolver func(ctx context.Context, tenantID string) (*entity.Tenant, error)

// TenantMiddleware requires the tenant header, resolves the tenant once,
// and stashes it in Locals for the handlers downstream.
func TenantMiddleware(resolve TenantResolver) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tenantID := ctx.Get(TenantHeader)
		if tenantID == "" {
			return NewValidationError("missing " + TenantHeader + " header")
		}

		tenant, err := resolve(ctx.Context(), tenantID)
		if err != nil {
			return err
		}
		if tenant == nil {
			return NewTenantNotFoundError(tenantID)
		}

		ctx.Locals(LocalTenantID, tenantID)
		ctx.Locals(LocalTenant, tenant)
		return ctx.Next()
	}
}

// TenantFromCtx returns the tenant stashed by TenantMiddleware.
func TenantFromCtx(ctx *fiber.Ctx) *entity.Tenant {
	tenant, _ := ctx.Locals(LocalTenant).(*entity.Tenant)
	return tenant
}
