// FILE: internal/controller/patient_controller.go
package controller

import (
	"healthmesh-be/internal/dto"
	"healthmesh-be/internal/pkg/serverutils"
	"healthmesh-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPatientController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
}

type patientController struct {
	service service.IPatientService
}

func NewPatientController(service service.IPatientService) IPatientController {
	return &patientController{service: service}
}

func (c *patientController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/patient/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.List)
	h.Post("", c.Create)
	h.Get(":id", c.Show)
}

func (c *patientController) Create(ctx *fiber.Ctx) error {
	var req dto.CreatePatientRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create patient", res))
}

func (c *patientController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid patient id")
	}

	res, err := c.service.Show(ctx.Context(), id)
	if err != nil {
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "Patient not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show patient", res))
}

func (c *patientController) List(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 20)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.service.List(ctx.Context(), limit, offset)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all patients", res))
}
