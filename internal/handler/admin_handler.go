package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/skillgate/skillgate-api/internal/service"
	"github.com/skillgate/skillgate-api/internal/utils"
)

// AdminHandler exposes the reviewer surface: recent evaluations, completion
// notifications and manual re-runs.
type AdminHandler struct {
	review   service.AdminReviewService
	pipeline service.EvaluationPipelineService
	logger   zerolog.Logger
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(review service.AdminReviewService, pipeline service.EvaluationPipelineService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		review:   review,
		pipeline: pipeline,
		logger:   logger.With().Str("component", "admin_handler").Logger(),
	}
}

// Register wires the handler endpoints into the router group.
func (h *AdminHandler) Register(router fiber.Router) {
	router.Get("/evaluations", h.listResults)
	router.Post("/evaluations/:studentId/:courseId/rerun", h.rerun)
	router.Get("/notifications", h.listNotifications)
	router.Patch("/notifications/:id/read", h.markRead)
}

func (h *AdminHandler) listResults(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}
	offset, err := parseQueryInt(c, "offset")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid offset")
	}

	results, err := h.review.ListResults(c.Context(), limit, offset)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "evaluations retrieved", results)
}

func (h *AdminHandler) rerun(c *fiber.Ctx) error {
	err := h.pipeline.Rerun(c.Context(), c.Params("studentId"), c.Params("courseId"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "evaluation re-analyzed", nil)
}

func (h *AdminHandler) listNotifications(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}
	offset, err := parseQueryInt(c, "offset")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid offset")
	}

	notifications, err := h.review.ListNotifications(c.Context(), limit, offset)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "notifications retrieved", notifications)
}

func (h *AdminHandler) markRead(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	notification, err := h.review.MarkNotificationRead(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "notification marked read", notification)
}

func (h *AdminHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidID):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrResultNotFound), errors.Is(err, service.ErrNotificationNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotReanalyzable):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrEvaluationInProgress):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	default:
		h.logger.Error().Err(err).Msg("admin operation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
