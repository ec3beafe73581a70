package controller

import (
	"iot-support-be/internal/apperr"
	"iot-support-be/internal/dto"
	"iot-support-be/internal/pkg/serverutils"
	"iot-support-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICorpusController interface {
	RegisterRoutes(r fiber.Router)
	IngestDocument(ctx *fiber.Ctx) error
}

type corpusController struct {
	ingestService service.IIngestService
}

func NewCorpusController(ingestService service.IIngestService) ICorpusController {
	return &corpusController{
		ingestService: ingestService,
	}
}

func (c *corpusController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/corpus")
	h.Post("documents", c.IngestDocument)
}

func (c *corpusController) IngestDocument(ctx *fiber.Ctx) error {
	var req dto.IngestDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return &apperr.ValidationError{Field: "body", Reason: "malformed request body"}
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.ingestService.IngestDocument(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Document queued", res))
}
