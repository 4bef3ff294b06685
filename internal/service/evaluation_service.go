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

// ErrCourseNotFound indicates the referenced course does not exist.
var ErrCourseNotFound = errors.New("course not found")

// EvaluationService exposes the candidate-facing submission operations and
// the report lookup.
type EvaluationService interface {
	// SubmitMCQ records a multiple-choice score on the student's current
	// attempt, creating the attempt record if none exists.
	SubmitMCQ(ctx context.Context, payload dto.MCQSubmissionRequest) (dto.EvaluationStatusResponse, error)
	// SubmitVideos records answer video references and triggers the
	// asynchronous evaluation pipeline.
	SubmitVideos(ctx context.Context, payload dto.VideoSubmissionRequest) (dto.EvaluationStatusResponse, error)
	// GetReport returns the student's latest attempt at the course.
	GetReport(ctx context.Context, studentID, courseID string) (dto.EvaluationReportResponse, error)
}

type evaluationService struct {
	results   repository.ResultRepository
	courses   repository.CourseRepository
	pipeline  EvaluationPipelineService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewEvaluationService constructs the submission service.
func NewEvaluationService(results repository.ResultRepository, courses repository.CourseRepository, pipeline EvaluationPipelineService, validate *validator.Validate, logger zerolog.Logger) EvaluationService {
	return &evaluationService{
		results:   results,
		courses:   courses,
		pipeline:  pipeline,
		validator: validate,
		logger:    logger.With().Str("component", "evaluation_service").Logger(),
	}
}

func (s *evaluationService) SubmitMCQ(ctx context.Context, payload dto.MCQSubmissionRequest) (dto.EvaluationStatusResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EvaluationStatusResponse{}, err
	}

	course, err := s.courses.GetByID(ctx, payload.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EvaluationStatusResponse{}, ErrCourseNotFound
		}
		return dto.EvaluationStatusResponse{}, err
	}

	result, err := s.currentAttempt(ctx, payload.StudentID, course)
	if err != nil {
		return dto.EvaluationStatusResponse{}, err
	}

	if err := s.results.SetMCQScore(ctx, result.ID, payload.Score); err != nil {
		return dto.EvaluationStatusResponse{}, err
	}

	return dto.EvaluationStatusResponse{
		StudentID:        payload.StudentID,
		CourseID:         payload.CourseID,
		EvaluationStatus: result.EvaluationStatus,
	}, nil
}

func (s *evaluationService) SubmitVideos(ctx context.Context, payload dto.VideoSubmissionRequest) (dto.EvaluationStatusResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EvaluationStatusResponse{}, err
	}

	course, err := s.courses.GetByID(ctx, payload.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EvaluationStatusResponse{}, ErrCourseNotFound
		}
		return dto.EvaluationStatusResponse{}, err
	}

	result, err := s.currentAttempt(ctx, payload.StudentID, course)
	if err != nil {
		return dto.EvaluationStatusResponse{}, err
	}

	answers := make([]models.VideoAnswer, 0, len(payload.Answers))
	for _, ref := range payload.Answers {
		answers = append(answers, models.VideoAnswer{
			QuestionID: ref.QuestionID,
			VideoURL:   ref.VideoURL,
		})
	}

	if err := s.results.SetVideoAnswers(ctx, result.ID, answers, models.EvaluationStatusNotStarted); err != nil {
		return dto.EvaluationStatusResponse{}, err
	}

	if err := s.pipeline.Trigger(ctx, payload.StudentID, payload.CourseID); err != nil {
		return dto.EvaluationStatusResponse{}, err
	}

	return dto.EvaluationStatusResponse{
		StudentID:        payload.StudentID,
		CourseID:         payload.CourseID,
		EvaluationStatus: models.EvaluationStatusPending,
	}, nil
}

func (s *evaluationService) GetReport(ctx context.Context, studentID, courseID string) (dto.EvaluationReportResponse, error) {
	for _, id := range []string{studentID, courseID} {
		if err := s.validator.Var(id, "required,hexadecimal,len=24"); err != nil {
			return dto.EvaluationReportResponse{}, ErrInvalidID
		}
	}

	result, err := s.results.GetLatest(ctx, studentID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EvaluationReportResponse{}, ErrResultNotFound
		}
		return dto.EvaluationReportResponse{}, err
	}

	return dto.NewEvaluationReport(result), nil
}

// currentAttempt returns the student's open attempt at the course, creating
// a fresh record when none exists or when the last one already completed.
func (s *evaluationService) currentAttempt(ctx context.Context, studentID string, course models.Course) (models.EvaluationResult, error) {
	result, err := s.results.GetLatest(ctx, studentID, course.ID)
	if err == nil && !result.IsCompleted() {
		return result, nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.EvaluationResult{}, err
	}

	attempt := models.EvaluationResult{
		StudentID:        studentID,
		CourseID:         course.ID,
		CourseTitle:      course.Title,
		EvaluationStatus: models.EvaluationStatusNotStarted,
	}
	if err := s.results.Create(ctx, &attempt); err != nil {
		return models.EvaluationResult{}, err
	}

	return attempt, nil
}
