// FILE: internal/controller/webhook_controller.go
package controller

import (
	"ai-agent-gateway-be/internal/dto"
	"ai-agent-gateway-be/internal/pkg/serverutils"
	"ai-agent-gateway-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IWebhookController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	SendTest(ctx *fiber.Ctx) error
	ShowEvent(ctx *fiber.Ctx) error
}

type webhookController struct {
	webhookService service.IWebhookService
	tenantGuard    fiber.Handler
}

func NewWebhookController(webhookService service.IWebhookService, tenantGuard fiber.Handler) IWebhookController {
	return &webhookController{
		webhookService: webhookService,
		tenantGuard:    tenantGuard,
	}
}

func (c *webhookController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/webhook/v1")
	h.Use(c.tenantGuard)
	h.Post("", c.Create)
	h.Get("", c.List)
	h.Get("events/:event_id", c.ShowEvent)
	h.Get(":id", c.Show)
	h.Put(":id", c.Update)
	h.Delete(":id", c.Delete)
	h.Post(":id/test", c.SendTest)
}

func (c *webhookController) Create(ctx *fiber.Ctx) error {
	tenant := serverutils.TenantFromCtx(ctx)

	var req dto.CreateWebhookRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewValidationError("invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.webhookService.Create(ctx.Context(), tenant.ID, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create webhook", res))
}

func (c *webhookController) List(ctx *fiber.Ctx) error {
	tenant := serverutils.TenantFromCtx(ctx)

	res, err := c.webhookService.List(ctx.Context(), tenant.ID)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list webhooks", res))
}

func (c *webhookController) Show(ctx *fiber.Ctx) error {
	tenant := serverutils.TenantFromCtx(ctx)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewValidationError("invalid webhook id")
	}

	res, err := c.webhookService.Get(ctx.Context(), tenant.ID, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show webhook", res))
}

func (c *webhookController) Update(ctx *fiber.Ctx) error {
	tenant := serverutils.TenantFromCtx(ctx)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewValidationError("invalid webhook id")
	}

	var req dto.UpdateWebhookRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewValidationError("invalid request body")
	}
	req.ID = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.webhookService.Update(ctx.Context(), tenant.ID, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update webhook", res))
}

func (c *webhookController) Delete(ctx *fiber.Ctx) error {
	tenant := serverutils.TenantFromCtx(ctx)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewValidationError("invalid webhook id")
	}

	if err := c.webhookService.Delete(ctx.Context(), tenant.ID, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete webhook", nil))
}

func (c *webhookController) SendTest(ctx *fiber.Ctx) error {
	tenant := serverutils.TenantFromCtx(ctx)

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewValidationError("invalid webhook id")
	}

	res, err := c.webhookService.SendTest(ctx.Context(), tenant.ID, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send test event", res))
}

func (c *webhookController) ShowEvent(ctx *fiber.Ctx) error {
	tenant := serverutils.TenantFromCtx(ctx)

	eventID, err := uuid.Parse(ctx.Params("event_id"))
	if err != nil {
		return serverutils.NewValidationError("invalid event id")
	}

	res, err := c.webhookService.GetEvent(ctx.Context(), tenant.ID, eventID)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show event", res))
}
