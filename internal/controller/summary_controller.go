package controller

import (
	"querynotes-be/internal/constant"
	"querynotes-be/internal/dto"
	"querynotes-be/internal/pkg/apperror"
	"querynotes-be/internal/pkg/serverutils"
	"querynotes-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISummaryController interface {
	RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler)
	Generate(ctx *fiber.Ctx) error
}

type summaryController struct {
	summaryService service.ISummaryService
}

func NewSummaryController(summaryService service.ISummaryService) ISummaryController {
	return &summaryController{
		summaryService: summaryService,
	}
}

func (c *summaryController) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler) {
	h := r.Group("/notes", jwtMiddleware)
	h.Post(":id/summary", c.Generate)
}

func (c *summaryController) Generate(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.GenerateSummaryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation(constant.MsgInvalidRequestBody)
	}
	req.NoteId = ctx.Params("id")

	result := c.summaryService.GenerateSummary(ctx.UserContext(), userId, &req)
	if !result.Success {
		code := summaryStatus(result.Reason)
		return ctx.Status(code).JSON(serverutils.ErrorResponse(code, result.Error))
	}

	return ctx.JSON(serverutils.SuccessResponse("Summary generated", dto.GenerateSummaryResponse{
		Summary: result.Summary,
	}))
}

func summaryStatus(reason string) int {
	switch reason {
	case dto.SummaryReasonInvalidNoteId:
		return fiber.StatusBadRequest
	case dto.SummaryReasonContentTooShort:
		return fiber.StatusUnprocessableEntity
	case dto.SummaryReasonProvidersUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
