package handler

import (
	"errors"

	"talentbridge/internal/delivery/http/dto"
	"talentbridge/internal/delivery/http/middleware"
	"talentbridge/internal/domain/application"
	"talentbridge/internal/pkg/response"
	"talentbridge/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ApplicationHandler struct {
	uc usecase.ApplicationUsecase
}

func NewApplicationHandler(uc usecase.ApplicationUsecase) *ApplicationHandler {
	return &ApplicationHandler{uc: uc}
}

func (h *ApplicationHandler) RegisterRoutes(protected, candidateOnly, companyOnly fiber.Router) {
	if protected == nil {
		return
	}
	candidateOnly.Post("/jobs/:id/apply", h.Apply)
	candidateOnly.Get("/applications/my-applications", h.MyApplications)
	candidateOnly.Delete("/applications/:id", h.Withdraw)

	companyOnly.Get("/jobs/:id/applications", h.JobApplications)
	companyOnly.Put("/applications/:id/status", h.UpdateStatus)

	protected.Get("/applications/stats", h.Stats)
}

func (h *ApplicationHandler) Apply(c fiber.Ctx) error {
	actorID, _, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	jobID, err := parseParamUUID(c, "id")
	if err != nil {
		return err
	}

	var req dto.ApplyRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	a, err := h.uc.Apply(c.Context(), actorID, jobID, req.CoverLetter)
	if err != nil {
		return mapApplicationError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Application submitted", toApplicationResponse(a))
}

func (h *ApplicationHandler) UpdateStatus(c fiber.Ctx) error {
	actorID, _, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	applicationID, err := parseParamUUID(c, "id")
	if err != nil {
		return err
	}

	var req dto.ApplicationStatusRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	a, err := h.uc.UpdateStatus(c.Context(), applicationID, actorID, application.Status(req.Status), req.Notes)
	if err != nil {
		return mapApplicationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, toApplicationResponse(a))
}

func (h *ApplicationHandler) Withdraw(c fiber.Ctx) error {
	actorID, _, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	applicationID, err := parseParamUUID(c, "id")
	if err != nil {
		return err
	}

	a, err := h.uc.Withdraw(c.Context(), applicationID, actorID)
	if err != nil {
		return mapApplicationError(err)
	}
	return response.Success(c, fiber.StatusOK, "Application withdrawn", toApplicationResponse(a))
}

func (h *ApplicationHandler) MyApplications(c fiber.Ctx) error {
	actorID, _, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	apps, err := h.uc.ListForCandidate(c.Context(), actorID, application.Status(c.Query("status")))
	if err != nil {
		return mapApplicationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, toApplicationResponses(apps))
}

func (h *ApplicationHandler) JobApplications(c fiber.Ctx) error {
	actorID, _, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	jobID, err := parseParamUUID(c, "id")
	if err != nil {
		return err
	}

	apps, err := h.uc.ListForJob(c.Context(), actorID, jobID, application.Status(c.Query("status")))
	if err != nil {
		return mapApplicationError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, toApplicationResponses(apps))
}

func (h *ApplicationHandler) Stats(c fiber.Ctx) error {
	actorID, role, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	counts, err := h.uc.Stats(c.Context(), actorID, role)
	if err != nil {
		return mapApplicationError(err)
	}

	out := dto.ApplicationStatsResponse{
		Pending:   counts[application.StatusPending],
		Reviewed:  counts[application.StatusReviewed],
		Accepted:  counts[application.StatusAccepted],
		Rejected:  counts[application.StatusRejected],
		Withdrawn: counts[application.StatusWithdrawn],
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func toApplicationResponse(a application.Application) dto.ApplicationResponse {
	return dto.ApplicationResponse{
		ID:           a.ID,
		CandidateID:  a.CandidateID,
		JobID:        a.JobID,
		Status:       string(a.Status),
		CoverLetter:  a.CoverLetter,
		CompanyNotes: a.CompanyNotes,
		MatchScore:   a.MatchScore,
		CreatedAt:    a.CreatedAt,
		ReviewedAt:   a.ReviewedAt,
	}
}

func toApplicationResponses(apps []application.Application) []dto.ApplicationResponse {
	out := make([]dto.ApplicationResponse, 0, len(apps))
	for _, a := range apps {
		out = append(out, toApplicationResponse(a))
	}
	return out
}

func mapApplicationError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrJobNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
	case errors.Is(err, usecase.ErrApplicationNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Application not found", nil, err)
	case errors.Is(err, usecase.ErrCandidateNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Candidate not found", nil, err)
	case errors.Is(err, usecase.ErrMatchNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Match not found", nil, err)
	case errors.Is(err, usecase.ErrJobInactive):
		return middleware.NewAppError(fiber.StatusBadRequest, "Job is no longer active", nil, err)
	case errors.Is(err, usecase.ErrDuplicateApplication):
		return middleware.NewAppError(fiber.StatusConflict, "You have already applied to this job", nil, err)
	case errors.Is(err, usecase.ErrInvalidTransition):
		return middleware.NewAppError(fiber.StatusConflict, "Status transition not allowed", nil, err)
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
