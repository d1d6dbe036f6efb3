package handler

import (
	"errors"

	"talentbridge/internal/delivery/http/dto"
	"talentbridge/internal/delivery/http/middleware"
	"talentbridge/internal/domain/message"
	"talentbridge/internal/pkg/response"
	"talentbridge/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type MessageHandler struct {
	uc usecase.MessageUsecase
}

func NewMessageHandler(uc usecase.MessageUsecase) *MessageHandler {
	return &MessageHandler{uc: uc}
}

func (h *MessageHandler) RegisterRoutes(protected fiber.Router) {
	if protected == nil {
		return
	}
	protected.Get("/messages/:match_id", h.List)
	protected.Post("/messages/:match_id", h.Send)
}

func (h *MessageHandler) Send(c fiber.Ctx) error {
	actorID, role, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	matchID, err := parseParamUUID(c, "match_id")
	if err != nil {
		return err
	}

	var req dto.SendMessageRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	msg, err := h.uc.Send(c.Context(), matchID, role, actorID, req.Content)
	if err != nil {
		return mapMessageError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Message sent", toMessageResponse(msg))
}

func (h *MessageHandler) List(c fiber.Ctx) error {
	actorID, role, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	matchID, err := parseParamUUID(c, "match_id")
	if err != nil {
		return err
	}

	msgs, err := h.uc.List(c.Context(), matchID, role, actorID)
	if err != nil {
		return mapMessageError(err)
	}

	out := make([]dto.MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageResponse(m))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func toMessageResponse(m message.Message) dto.MessageResponse {
	return dto.MessageResponse{
		ID:         m.ID,
		MatchID:    m.MatchID,
		SenderType: string(m.SenderType),
		Content:    m.Content,
		IsRead:     m.IsRead,
		CreatedAt:  m.CreatedAt,
	}
}

func mapMessageError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrMatchNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Match not found", nil, err)
	case errors.Is(err, usecase.ErrGateClosed):
		return middleware.NewAppError(fiber.StatusForbidden, "Messaging requires mutual interest", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	case errors.Is(err, usecase.ErrForbidden):
		return middleware.NewAppError(fiber.StatusForbidden, "Forbidden", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
