package controller

import (
	"iot-support-be/internal/apperr"
	"iot-support-be/internal/dto"
	"iot-support-be/internal/pkg/serverutils"
	"iot-support-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISupportController interface {
	RegisterRoutes(r fiber.Router)
	Register(ctx *fiber.Ctx) error
	Chat(ctx *fiber.Ctx) error
	SubmitFeedback(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
	SessionHistory(ctx *fiber.Ctx) error
}

type supportController struct {
	supportService service.ISupportService
}

func NewSupportController(supportService service.ISupportService) ISupportController {
	return &supportController{
		supportService: supportService,
	}
}

func (c *supportController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/support")
	h.Post("register", c.Register)
	h.Post("chat", c.Chat)
	h.Post("feedback", c.SubmitFeedback)
	h.Get("status", c.Status)
	h.Get("sessions/:id/history", c.SessionHistory)
}

func (c *supportController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return &apperr.ValidationError{Field: "body", Reason: "malformed request body"}
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.supportService.Register(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Session registered", res))
}

func (c *supportController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return &apperr.ValidationError{Field: "body", Reason: "malformed request body"}
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.supportService.Chat(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

func (c *supportController) SubmitFeedback(ctx *fiber.Ctx) error {
	var req dto.FeedbackRequest
	if err := ctx.BodyParser(&req); err != nil {
		return &apperr.ValidationError{Field: "body", Reason: "malformed request body"}
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.supportService.SubmitFeedback(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Feedback recorded", res))
}

func (c *supportController) Status(ctx *fiber.Ctx) error {
	res, err := c.supportService.Status(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Status", res))
}

func (c *supportController) SessionHistory(ctx *fiber.Ctx) error {
	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return &apperr.ValidationError{Field: "id", Reason: "must be a valid session id"}
	}

	res, err := c.supportService.GetSessionHistory(ctx.Context(), sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}
