package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/skillgate/skillgate-api/internal/dto"
	"github.com/skillgate/skillgate-api/internal/models"
	"github.com/skillgate/skillgate-api/internal/repository"
)

// ErrCourseAlreadyExists indicates the course id is taken.
var ErrCourseAlreadyExists = errors.New("course already exists")

// CourseService exposes course catalog operations.
type CourseService interface {
	Create(ctx context.Context, payload dto.CourseCreateRequest) (dto.CourseResponse, error)
	Get(ctx context.Context, id string) (dto.CourseResponse, error)
	List(ctx context.Context) ([]dto.CourseResponse, error)
}

type courseService struct {
	courses   repository.CourseRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewCourseService constructs the course service.
func NewCourseService(courses repository.CourseRepository, validate *validator.Validate, logger zerolog.Logger) CourseService {
	return &courseService{
		courses:   courses,
		validator: validate,
		logger:    logger.With().Str("component", "course_service").Logger(),
	}
}

func (s *courseService) Create(ctx context.Context, payload dto.CourseCreateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	if _, err := s.courses.GetByID(ctx, payload.ID); err == nil {
		return dto.CourseResponse{}, ErrCourseAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.CourseResponse{}, err
	}

	course := models.Course{
		ID:             payload.ID,
		Title:          payload.Title,
		Description:    payload.Description,
		Category:       payload.Category,
		Level:          payload.Level,
		Duration:       payload.Duration,
		SkillsRequired: payload.SkillsRequired,
		Status:         "Draft",
	}
	if err := s.courses.Create(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Get(ctx context.Context, id string) (dto.CourseResponse, error) {
	if err := s.validator.Var(id, "required,hexadecimal,len=24"); err != nil {
		return dto.CourseResponse{}, ErrInvalidID
	}

	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, err
	}

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) List(ctx context.Context) ([]dto.CourseResponse, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, dto.NewCourseResponse(course))
	}

	return responses, nil
}
