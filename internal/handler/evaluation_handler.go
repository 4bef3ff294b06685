package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/skillgate/skillgate-api/internal/dto"
	"github.com/skillgate/skillgate-api/internal/service"
	"github.com/skillgate/skillgate-api/internal/utils"
)

// EvaluationHandler exposes the candidate-facing evaluation endpoints.
type EvaluationHandler struct {
	service service.EvaluationService
	logger  zerolog.Logger
}

// NewEvaluationHandler constructs the handler.
func NewEvaluationHandler(service service.EvaluationService, logger zerolog.Logger) *EvaluationHandler {
	return &EvaluationHandler{
		service: service,
		logger:  logger.With().Str("component", "evaluation_handler").Logger(),
	}
}

// Register wires the handler endpoints into the router group.
func (h *EvaluationHandler) Register(router fiber.Router) {
	router.Post("/mcq", h.submitMCQ)
	router.Post("/videos", h.submitVideos)
	router.Get("/:studentId/:courseId", h.getReport)
}

func (h *EvaluationHandler) submitMCQ(c *fiber.Ctx) error {
	var payload dto.MCQSubmissionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.SubmitMCQ(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "mcq score recorded", response)
}

func (h *EvaluationHandler) submitVideos(c *fiber.Ctx) error {
	var payload dto.VideoSubmissionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.SubmitVideos(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendAccepted(c, "evaluation scheduled", response)
}

func (h *EvaluationHandler) getReport(c *fiber.Ctx) error {
	report, err := h.service.GetReport(c.Context(), c.Params("studentId"), c.Params("courseId"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "evaluation retrieved", report)
}

func (h *EvaluationHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidID):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrCourseNotFound), errors.Is(err, service.ErrResultNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrEvaluationInProgress):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Msg("evaluation operation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
