// FILE: internal/controller/analysis_controller.go
package controller

import (
	"healthmesh-be/internal/dto"
	"healthmesh-be/internal/pkg/serverutils"
	"healthmesh-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAnalysisController interface {
	RegisterRoutes(r fiber.Router)
	CreateCase(ctx *fiber.Ctx) error
	ShowCase(ctx *fiber.Ctx) error
	Analyze(ctx *fiber.Ctx) error
	GetAnalysis(ctx *fiber.Ctx) error
	ListAlerts(ctx *fiber.Ctx) error
	AcknowledgeAlert(ctx *fiber.Ctx) error
}

type analysisController struct {
	service service.IAnalysisService
}

func NewAnalysisController(service service.IAnalysisService) IAnalysisController {
	return &analysisController{service: service}
}

func (c *analysisController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/case/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.CreateCase)
	h.Get(":id", c.ShowCase)
	h.Post(":id/analyze", c.Analyze)
	h.Get(":id/analysis", c.GetAnalysis)
	h.Get(":id/alerts", c.ListAlerts)
	h.Put("alerts/:alertId/acknowledge", c.AcknowledgeAlert)
}

func (c *analysisController) CreateCase(ctx *fiber.Ctx) error {
	var req dto.CreateCaseRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CreateCase(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create case", res))
}

func (c *analysisController) ShowCase(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid case id")
	}

	res, err := c.service.ShowCase(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show case", res))
}

// Analyze runs the full pipeline synchronously. Stage timeouts bound the
// total wall time, so the handler stays within the server write timeout.
func (c *analysisController) Analyze(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid case id")
	}

	res, err := c.service.Analyze(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Analysis complete", res))
}

func (c *analysisController) GetAnalysis(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid case id")
	}

	res, err := c.service.GetAnalysis(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get analysis", res))
}

func (c *analysisController) ListAlerts(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid case id")
	}
	unacknowledgedOnly := ctx.QueryBool("unacknowledged", false)

	res, err := c.service.ListAlerts(ctx.Context(), id, unacknowledgedOnly)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get alerts", res))
}

func (c *analysisController) AcknowledgeAlert(ctx *fiber.Ctx) error {
	alertId, err := uuid.Parse(ctx.Params("alertId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid alert id")
	}

	if err := c.service.AcknowledgeAlert(ctx.Context(), alertId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Alert acknowledged", nil))
}
