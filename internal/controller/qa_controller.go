package controller

import (
	"bufio"
	"errors"
	"io"
	"strconv"

	"querynotes-be/internal/constant"
	"querynotes-be/internal/dto"
	"querynotes-be/internal/pkg/apperror"
	"querynotes-be/internal/pkg/logger"
	"querynotes-be/internal/pkg/serverutils"
	"querynotes-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

const (
	HeaderSessionId  = "X-Session-Id"
	HeaderAIProvider = "X-AI-Provider"
)

type IQAController interface {
	RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler)
	Chat(ctx *fiber.Ctx) error
	ListSessions(ctx *fiber.Ctx) error
	ListMessages(ctx *fiber.Ctx) error
}

type qaController struct {
	qaService service.IQAService
	log       logger.ILogger
}

func NewQAController(qaService service.IQAService, log logger.ILogger) IQAController {
	return &qaController{
		qaService: qaService,
		log:       log,
	}
}

func (c *qaController) RegisterRoutes(r fiber.Router, jwtMiddleware fiber.Handler) {
	r.Post("/chat", jwtMiddleware, c.Chat)
	r.Get("/sessions", jwtMiddleware, c.ListSessions)
	r.Get("/messages", jwtMiddleware, c.ListMessages)
}

func (c *qaController) Chat(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.ContinueConversationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation(constant.MsgInvalidRequestBody)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.qaService.ContinueConversation(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}

	ctx.Status(fiber.StatusOK)
	ctx.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set(HeaderSessionId, strconv.FormatInt(res.SessionId, 10))
	ctx.Set(HeaderAIProvider, res.Provider)

	sessionId := res.SessionId
	stream := res.Stream
	ctx.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer stream.Close()

		for {
			chunk, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				c.log.Warn("QA", "Answer stream ended with an error", map[string]interface{}{
					"session_id": sessionId,
					"error":      err.Error(),
				})
				return
			}

			if _, err := w.WriteString(chunk); err != nil {
				return
			}
			// A failed flush means the client went away.
			if err := w.Flush(); err != nil {
				return
			}
		}
	})
	return nil
}

func (c *qaController) ListSessions(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}

	noteId, err := positiveQueryInt(ctx, "noteId", constant.MsgNoteIdRequired, constant.MsgInvalidNoteId)
	if err != nil {
		return err
	}

	res, err := c.qaService.ListSessions(ctx.UserContext(), userId, noteId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list sessions", res))
}

func (c *qaController) ListMessages(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}

	sessionId, err := positiveQueryInt(ctx, "sessionId", constant.MsgSessionIdRequired, constant.MsgInvalidSessionId)
	if err != nil {
		return err
	}

	res, err := c.qaService.ListMessages(ctx.UserContext(), userId, sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list messages", res))
}

func positiveQueryInt(ctx *fiber.Ctx, key, missingMsg, invalidMsg string) (int64, error) {
	raw := ctx.Query(key)
	if raw == "" {
		return 0, apperror.Validation(missingMsg)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.Validation(invalidMsg)
	}
	return id, nil
}
