package handler

import (
	"errors"

	"talentbridge/internal/delivery/http/dto"
	"talentbridge/internal/delivery/http/middleware"
	"talentbridge/internal/domain/match"
	"talentbridge/internal/pkg/response"
	"talentbridge/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type MatchHandler struct {
	uc usecase.MatchingUsecase
}

func NewMatchHandler(uc usecase.MatchingUsecase) *MatchHandler {
	return &MatchHandler{uc: uc}
}

func (h *MatchHandler) RegisterRoutes(protected, candidateOnly, companyOnly fiber.Router) {
	if protected == nil {
		return
	}
	candidateOnly.Get("/matching/jobs", h.RankedJobs)
	candidateOnly.Post("/matching/score", h.Rescore)
	companyOnly.Get("/matching/candidates", h.RankedCandidates)

	protected.Put("/matches/:id/action", h.Action)
	protected.Put("/matches/:id/favorite", h.Favorite)
	protected.Get("/matches/stats", h.Stats)
}

func (h *MatchHandler) RankedJobs(c fiber.Ctx) error {
	actorID, _, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	limit, err := parseQueryIntStrict(c, "limit", 20)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	minScore, err := parseQueryIntStrict(c, "min_score", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	items, err := h.uc.RankedJobs(c.Context(), actorID, limit, minScore)
	if err != nil {
		return mapMatchingError(err)
	}

	out := make([]dto.RankedJobResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.RankedJobResponse(it))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *MatchHandler) RankedCandidates(c fiber.Ctx) error {
	actorID, _, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	jobID, err := uuid.Parse(c.Query("job_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	limit, err := parseQueryIntStrict(c, "limit", 20)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	minScore, err := parseQueryIntStrict(c, "min_score", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	items, err := h.uc.RankedCandidates(c.Context(), actorID, jobID, limit, minScore)
	if err != nil {
		return mapMatchingError(err)
	}

	out := make([]dto.RankedCandidateResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.RankedCandidateResponse(it))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *MatchHandler) Rescore(c fiber.Ctx) error {
	actorID, _, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	var req dto.RescoreRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	m, err := h.uc.Rescore(c.Context(), actorID, req.JobID)
	if err != nil {
		return mapMatchingError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, toMatchResponse(m))
}

func (h *MatchHandler) Action(c fiber.Ctx) error {
	actorID, role, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	matchID, err := parseParamUUID(c, "id")
	if err != nil {
		return err
	}

	var req dto.MatchActionRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	var interested bool
	switch req.Action {
	case "interested":
		interested = true
	case "not_interested":
		interested = false
	default:
		return middleware.NewAppError(fiber.StatusBadRequest, "Unknown action", nil, nil)
	}

	m, err := h.uc.ExpressInterest(c.Context(), matchID, role, actorID, interested)
	if err != nil {
		return mapMatchingError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, toMatchResponse(m))
}

func (h *MatchHandler) Favorite(c fiber.Ctx) error {
	actorID, role, err := actorFromCtx(c)
	if err != nil {
		return err
	}
	matchID, err := parseParamUUID(c, "id")
	if err != nil {
		return err
	}

	var req dto.MatchFavoriteRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	m, err := h.uc.SetFavorite(c.Context(), matchID, role, actorID, req.IsFavorite)
	if err != nil {
		return mapMatchingError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, toMatchResponse(m))
}

func (h *MatchHandler) Stats(c fiber.Ctx) error {
	actorID, role, err := actorFromCtx(c)
	if err != nil {
		return err
	}

	stats, err := h.uc.Stats(c.Context(), actorID, role)
	if err != nil {
		return mapMatchingError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.MatchStatsResponse(stats))
}

func toMatchResponse(m match.Match) dto.MatchResponse {
	return dto.MatchResponse{
		ID:                  m.ID,
		CandidateID:         m.CandidateID,
		JobID:               m.JobID,
		Score:               m.Score,
		CandidateInterested: m.CandidateInterested,
		CompanyInterested:   m.CompanyInterested,
		IsMutual:            m.IsMutual,
		IsFavoriteCandidate: m.FavoriteCandidate,
		IsFavoriteCompany:   m.FavoriteCompany,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

func mapMatchingError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrCandidateNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Candidate not found", nil, err)
	case errors.Is(err, usecase.ErrJobNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
	case errors.Is(err, usecase.ErrMatchNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Match not found", nil, err)
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
