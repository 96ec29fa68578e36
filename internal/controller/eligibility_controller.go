package controller

import (
	"disclosure-engine-be/internal/dto"
	"disclosure-engine-be/internal/pkg/serverutils"
	"disclosure-engine-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IEligibilityController interface {
	RegisterRoutes(r fiber.Router)
	Check(ctx *fiber.Ctx) error
	Finalize(ctx *fiber.Ctx) error
}

type eligibilityController struct {
	service service.IEligibilityService
}

func NewEligibilityController(service service.IEligibilityService) IEligibilityController {
	return &eligibilityController{
		service: service,
	}
}

func (c *eligibilityController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/eligibility/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("check", c.Check)
	h.Post("finalize", c.Finalize)
}

func (c *eligibilityController) Check(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	var req dto.EligibilityCheckRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Check(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Eligibility assessed", res))
}

func (c *eligibilityController) Finalize(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	var req dto.EligibilityFinalizeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Finalize(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Eligibility finalized", res))
}
