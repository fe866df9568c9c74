// FILE: internal/controller/guideline_controller.go
package controller

import (
	"healthmesh-be/internal/dto"
	"healthmesh-be/internal/pkg/serverutils"
	"healthmesh-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IGuidelineController interface {
	RegisterRoutes(r fiber.Router)
	Ingest(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	DeleteByOrganization(ctx *fiber.Ctx) error
}

type guidelineController struct {
	service service.IGuidelineService
}

func NewGuidelineController(service service.IGuidelineService) IGuidelineController {
	return &guidelineController{service: service}
}

func (c *guidelineController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/guideline/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.List)
	h.Post("", requireRole("admin"), c.Ingest)
	h.Delete("organization/:org", requireRole("admin"), c.DeleteByOrganization)
}

// requireRole gates mutating guideline routes to admins. Clinicians read
// the corpus through retrieval, never write it.
func requireRole(role string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		current, _ := ctx.Locals("role").(string)
		if current != role {
			return fiber.NewError(fiber.StatusForbidden, "Insufficient role")
		}
		return ctx.Next()
	}
}

func (c *guidelineController) Ingest(ctx *fiber.Ctx) error {
	var req dto.IngestGuidelineRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Ingest(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success ingest guideline", res))
}

func (c *guidelineController) List(ctx *fiber.Ctx) error {
	organization := ctx.Query("organization")
	page := ctx.QueryInt("page", 1)
	limit := ctx.QueryInt("limit", 20)

	items, total, err := c.service.List(ctx.Context(), organization, page, limit)
	if err != nil {
		return err
	}

	res := dto.ListGuidelinesResponse{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get guidelines", res))
}

func (c *guidelineController) DeleteByOrganization(ctx *fiber.Ctx) error {
	org := ctx.Params("org")
	if org == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Missing organization")
	}

	if err := c.service.DeleteByOrganization(ctx.Context(), org); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete guidelines", nil))
}
