package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/mathieu-neron/songrec/internal/middleware"
	"github.com/mathieu-neron/songrec/internal/model"
	"github.com/mathieu-neron/songrec/internal/service"
)

type RecommendationHandler struct {
	svc *service.RecommendationService
}

func NewRecommendationHandler(svc *service.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{svc: svc}
}

// Insert handles POST /recommendations
func (h *RecommendationHandler) Insert(c fiber.Ctx) error {
	var req model.RecommendationRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusUnprocessableEntity, middleware.CodeInvalidBody, "Request body must be a JSON object")
	}
	if msg := middleware.ValidateRecommendation(req); msg != "" {
		return middleware.ErrorResponse(c, fiber.StatusUnprocessableEntity, middleware.CodeInvalidBody, msg)
	}

	rec, err := h.svc.Insert(c.Context(), req.Name, req.YoutubeLink)
	if err != nil {
		return h.serviceError(c, err, "Failed to create recommendation")
	}
	return c.Status(fiber.StatusCreated).JSON(rec)
}

// ListRecent handles GET /recommendations
func (h *RecommendationHandler) ListRecent(c fiber.Ctx) error {
	recs, err := h.svc.ListRecent(c.Context())
	if err != nil {
		return h.serviceError(c, err, "Failed to list recommendations")
	}
	return c.JSON(recs)
}

// GetRandom handles GET /recommendations/random
func (h *RecommendationHandler) GetRandom(c fiber.Ctx) error {
	rec, err := h.svc.GetRandom(c.Context())
	if err != nil {
		return h.serviceError(c, err, "Failed to pick a recommendation")
	}
	countRandomPick(h.svc.Policy().TierOf(rec.Score))
	return c.JSON(rec)
}

// GetTop handles GET /recommendations/top/:amount
func (h *RecommendationHandler) GetTop(c fiber.Ctx) error {
	amount, msg := middleware.ParseAmount(c.Params("amount"))
	if msg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeInvalidArg, msg)
	}

	recs, err := h.svc.GetTop(c.Context(), amount)
	if err != nil {
		return h.serviceError(c, err, "Failed to rank recommendations")
	}
	return c.JSON(recs)
}

// GetByID handles GET /recommendations/:id
func (h *RecommendationHandler) GetByID(c fiber.Ctx) error {
	id, msg := middleware.ParseID(c.Params("id"))
	if msg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeInvalidID, msg)
	}

	rec, err := h.svc.GetByID(c.Context(), id)
	if err != nil {
		return h.serviceError(c, err, "Failed to lookup recommendation")
	}
	return c.JSON(rec)
}

// Upvote handles POST /recommendations/:id/upvote
func (h *RecommendationHandler) Upvote(c fiber.Ctx) error {
	id, msg := middleware.ParseID(c.Params("id"))
	if msg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeInvalidID, msg)
	}

	rec, err := h.svc.Upvote(c.Context(), id)
	if err != nil {
		return h.serviceError(c, err, "Failed to record vote")
	}
	countVote(voteUp)
	return c.JSON(rec)
}

// Downvote handles POST /recommendations/:id/downvote. A downvote that drops
// the score below the removal threshold answers with a removal marker.
func (h *RecommendationHandler) Downvote(c fiber.Ctx) error {
	id, msg := middleware.ParseID(c.Params("id"))
	if msg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, middleware.CodeInvalidID, msg)
	}

	rec, removed, err := h.svc.Downvote(c.Context(), id)
	if err != nil {
		return h.serviceError(c, err, "Failed to record vote")
	}
	countVote(voteDown)
	if removed {
		countRemoval()
		return c.JSON(model.RemovalResponse{ID: id, Removed: true})
	}
	return c.JSON(rec)
}

// Reset handles POST /recommendations/reset. Only routed in the test environment.
func (h *RecommendationHandler) Reset(c fiber.Ctx) error {
	if err := h.svc.Reset(c.Context()); err != nil {
		return h.serviceError(c, err, "Failed to reset recommendations")
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// serviceError maps service errors onto the API envelope. Anything that is not
// a typed service error is logged and reported as a 500 with a fixed message.
func (h *RecommendationHandler) serviceError(c fiber.Ctx, err error, internalMsg string) error {
	var svcErr *service.Error
	switch {
	case errors.Is(err, service.ErrNotFound):
		return middleware.ErrorResponse(c, fiber.StatusNotFound, middleware.CodeNotFound, "Recommendation not found")
	case errors.Is(err, service.ErrConflict):
		msg := "Recommendation already exists"
		if errors.As(err, &svcErr) && svcErr.Message != "" {
			msg = svcErr.Message
		}
		return middleware.ErrorResponse(c, fiber.StatusConflict, middleware.CodeConflict, msg)
	}

	middleware.Logger.Error().Err(err).
		Str("request_id", middleware.RequestID(c)).
		Str("route", c.Route().Path).
		Msg(internalMsg)
	return middleware.ErrorResponse(c, fiber.StatusInternalServerError, middleware.CodeInternal, internalMsg)
}
