package controller

import (
	"disclosure-engine-be/internal/pkg/serverutils"
	"disclosure-engine-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IReportController interface {
	RegisterRoutes(r fiber.Router)
	Show(ctx *fiber.Ctx) error
	Retry(ctx *fiber.Ctx) error
}

type reportController struct {
	service service.IReportService
}

func NewReportController(service service.IReportService) IReportController {
	return &reportController{
		service: service,
	}
}

func (c *reportController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/report/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get(":sessionId", c.Show)
	h.Post(":sessionId/retry", c.Retry)
}

func (c *reportController) Show(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetReport(ctx.UserContext(), userId, ctx.Params("sessionId"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get report", res))
}

func (c *reportController) Retry(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Retry(ctx.UserContext(), userId, ctx.Params("sessionId"))
	if err != nil {
		return err
	}

	// 202: the job runs in the background
	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Report synthesis requeued", res))
}
