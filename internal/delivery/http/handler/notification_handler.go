package handler

import (
	"errors"

	"talentbridge/internal/delivery/http/dto"
	"talentbridge/internal/delivery/http/middleware"
	"talentbridge/internal/domain/notification"
	"talentbridge/internal/pkg/response"
	"talentbridge/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type NotificationHandler struct {
	uc usecase.NotificationUsecase
}

func NewNotificationHandler(uc usecase.NotificationUsecase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

func (h *NotificationHandler) RegisterRoutes(protected fiber.Router) {
	if protected == nil {
		return
	}
	grp := protected.Group("/notifications")
	grp.Get("/unread-count", h.UnreadCount)
	grp.Get("/", h.List)
	grp.Put("/read-all", h.MarkAllRead)
	grp.Put("/:id/read", h.MarkRead)
	grp.Delete("/:id", h.Delete)
}

func (h *NotificationHandler) UnreadCount(c fiber.Ctx) error {
	actorID, _, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	n, err := h.uc.UnreadCount(c.Context(), actorID)
	if err != nil {
		return mapNotificationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.UnreadCountResponse{UnreadCount: n})
}

func (h *NotificationHandler) List(c fiber.Ctx) error {
	actorID, _, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	limit, err := parseQueryIntStrict(c, "limit", 50)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	items, err := h.uc.List(c.Context(), actorID, limit)
	if err != nil {
		return mapNotificationError(err)
	}

	out := make([]dto.NotificationResponse, 0, len(items))
	for _, n := range items {
		out = append(out, toNotificationResponse(n))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *NotificationHandler) MarkRead(c fiber.Ctx) error {
	actorID, _, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	id, err := parseParamUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.MarkRead(c.Context(), id, actorID); err != nil {
		return mapNotificationError(err)
	}
	return response.Success(c, fiber.StatusOK, "Notification marked as read", nil)
}

func (h *NotificationHandler) MarkAllRead(c fiber.Ctx) error {
	actorID, _, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	if err := h.uc.MarkAllRead(c.Context(), actorID); err != nil {
		return mapNotificationError(err)
	}
	return response.Success(c, fiber.StatusOK, "All notifications marked as read", nil)
}

func (h *NotificationHandler) Delete(c fiber.Ctx) error {
	actorID, _, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	id, err := parseParamUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Context(), id, actorID); err != nil {
		return mapNotificationError(err)
	}
	return response.Success(c, fiber.StatusOK, "Notification deleted", nil)
}

func toNotificationResponse(n notification.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		RelatedID: n.RelatedID,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

func mapNotificationError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrNotificationNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Notification not found", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
