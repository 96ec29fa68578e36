package controller

import (
	"fmt"
	"io"
	"strings"

	"disclosure-engine-be/internal/dto"
	"disclosure-engine-be/internal/pkg/serverutils"
	"disclosure-engine-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

const evidenceField = "evidence"

type IQuestionnaireController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
	Step(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Clear(ctx *fiber.Ctx) error
}

type questionnaireController struct {
	service        service.IQuestionnaireService
	maxUploadBytes int
}

func NewQuestionnaireController(service service.IQuestionnaireService, maxUploadBytes int) IQuestionnaireController {
	return &questionnaireController{
		service:        service,
		maxUploadBytes: maxUploadBytes,
	}
}

func (c *questionnaireController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/questionnaire/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("start", c.Start)
	h.Post("step", c.Step)
	h.Get("sessions/:id", c.Show)
	h.Delete("sessions/:id", c.Clear)
}

func (c *questionnaireController) Start(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	var req dto.StartSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Start(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Questionnaire started", res))
}

// Step accepts JSON, or multipart form with an optional evidence file.
func (c *questionnaireController) Step(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	var req dto.StepRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	upload, err := c.readUpload(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Step(ctx.UserContext(), userId, &req, upload)
	if err != nil {
		return err
	}

	message := "Answer recorded"
	if res.IsComplete {
		message = "Questionnaire complete"
	}
	return ctx.JSON(serverutils.SuccessResponse(message, res))
}

func (c *questionnaireController) Show(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.GetSession(ctx.UserContext(), userId, ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get session", res))
}

func (c *questionnaireController) Clear(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	if err := c.service.ClearSession(ctx.UserContext(), userId, ctx.Params("id")); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Session cleared", nil))
}

func (c *questionnaireController) readUpload(ctx *fiber.Ctx) (*dto.Upload, error) {
	if !strings.HasPrefix(ctx.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return nil, nil
	}

	file, err := ctx.FormFile(evidenceField)
	if err != nil {
		// evidence is optional
		return nil, nil
	}
	if c.maxUploadBytes > 0 && file.Size > int64(c.maxUploadBytes) {
		return nil, fiber.NewError(fiber.StatusRequestEntityTooLarge,
			fmt.Sprintf("%s exceeds the %d byte upload limit", evidenceField, c.maxUploadBytes))
	}

	f, err := file.Open()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Unreadable evidence file")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Unreadable evidence file")
	}

	return &dto.Upload{
		Filename:    file.Filename,
		ContentType: file.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}, nil
}
