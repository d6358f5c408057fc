// FILE: internal/controller/tenant_controller.go
package controller

import (
	"ai-agent-gateway-be/internal/dto"
	"ai-agent-gateway-be/internal/pkg/serverutils"
	"ai-agent-gateway-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Tenant administration is an operator surface. It is keyed by the path
// parameter, not the tenant header, so an operator can provision tenants
// that do not exist yet.
type ITenantController interface {
	RegisterRoutes(r fiber.Router)
	Upsert(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Reload(ctx *fiber.Ctx) error
}

type tenantController struct {
	tenantService service.ITenantService
}

func NewTenantController(tenantService service.ITenantService) ITenantController {
	return &tenantController{
		tenantService: tenantService,
	}
}

func (c *tenantController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/tenant/v1")
	h.Use(serverutils.AdminMiddleware)
	h.Put(":id", c.Upsert)
	h.Get(":id", c.Show)
	h.Post(":id/reload", c.Reload)
}

func (c *tenantController) Upsert(ctx *fiber.Ctx) error {
	var req dto.UpsertTenantRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewValidationError("invalid request body")
	}
	req.ID = ctx.Params("id")

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.tenantService.Upsert(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success upsert tenant", res))
}

func (c *tenantController) Show(ctx *fiber.Ctx) error {
	res, err := c.tenantService.Get(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show tenant", res))
}

func (c *tenantController) Reload(ctx *fiber.Ctx) error {
	c.tenantService.Reload(ctx.Params("id"))
	return ctx.JSON(serverutils.SuccessResponse[any]("Success reload tenant config", nil))
}
