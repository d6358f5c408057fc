// FILE: internal/controller/message_controller.go
package controller

import (
	"ai-agent-gateway-be/internal/dto"
	"ai-agent-gateway-be/internal/pkg/serverutils"
	"ai-agent-gateway-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IMessageController interface {
	RegisterRoutes(r fiber.Router)
	Process(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	Purge(ctx *fiber.Ctx) error
}

type messageController struct {
	pipelineService service.IPipelineService
	sessionService  service.ISessionService
	tenantGuard     fiber.Handler
}

func NewMessageController(pipelineService service.IPipelineService, sessionService service.ISessionService, tenantGuard fiber.Handler) IMessageController {
	return &messageController{
		pipelineService: pipelineService,
		sessionService:  sessionService,
		tenantGuard:     tenantGuard,
	}
}

func (c *messageController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/message/v1")
	h.Use(c.tenantGuard)
	h.Post("", c.Process)
	h.Get("session/:session_id/history", c.History)
	h.Delete("session/:session_id", c.Purge)
}

func (c *messageController) Process(ctx *fiber.Ctx) error {
	tenant := serverutils.TenantFromCtx(ctx)

	var req dto.ProcessMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewValidationError("invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.pipelineService.Process(ctx.Context(), tenant, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success process message", res))
}

func (c *messageController) History(ctx *fiber.Ctx) error {
	tenant := serverutils.TenantFromCtx(ctx)
	sessionID := ctx.Params("session_id")

	res, err := c.sessionService.History(ctx.Context(), tenant.ID, sessionID)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show session history", res))
}

func (c *messageController) Purge(ctx *fiber.Ctx) error {
	tenant := serverutils.TenantFromCtx(ctx)
	sessionID := ctx.Params("session_id")

	if err := c.sessionService.Purge(ctx.Context(), tenant.ID, sessionID); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success purge session", nil))
}
