package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/skillgate/skillgate-api/internal/dto"
	"github.com/skillgate/skillgate-api/internal/service"
	"github.com/skillgate/skillgate-api/internal/utils"
)

// CourseHandler exposes the course catalog and its generated question sets.
type CourseHandler struct {
	courses   service.CourseService
	questions service.QuestionGenerationService
	logger    zerolog.Logger
}

// NewCourseHandler constructs the handler.
func NewCourseHandler(courses service.CourseService, questions service.QuestionGenerationService, logger zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		courses:   courses,
		questions: questions,
		logger:    logger.With().Str("component", "course_handler").Logger(),
	}
}

// Register wires the handler endpoints into the router group.
func (h *CourseHandler) Register(router fiber.Router) {
	router.Post("", h.create)
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Get("/:id/questions/video", h.getVideoQuestions)
	router.Get("/:id/questions/mcq", h.getMCQs)
	router.Post("/:id/questions/video/generate", h.generateVideoQuestions)
	router.Post("/:id/questions/mcq/generate", h.generateMCQs)
}

func (h *CourseHandler) create(c *fiber.Ctx) error {
	var payload dto.CourseCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.courses.Create(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "course created", response)
}

func (h *CourseHandler) list(c *fiber.Ctx) error {
	courses, err := h.courses.List(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "courses retrieved", courses)
}

func (h *CourseHandler) get(c *fiber.Ctx) error {
	course, err := h.courses.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "course retrieved", course)
}

func (h *CourseHandler) getVideoQuestions(c *fiber.Ctx) error {
	set, err := h.questions.GetVideoQuestions(c.Context(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "video questions retrieved", set)
}

func (h *CourseHandler) getMCQs(c *fiber.Ctx) error {
	set, err := h.questions.GetMCQs(c.Context(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "mcqs retrieved", set)
}

func (h *CourseHandler) generateVideoQuestions(c *fiber.Ctx) error {
	set, err := h.questions.GenerateVideoQuestions(c.Context(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "video questions generated", set)
}

func (h *CourseHandler) generateMCQs(c *fiber.Ctx) error {
	set, err := h.questions.GenerateMCQs(c.Context(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "mcqs generated", set)
}

func (h *CourseHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidID):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrCourseNotFound), errors.Is(err, service.ErrQuestionsNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrCourseAlreadyExists):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Msg("course operation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
