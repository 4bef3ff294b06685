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
	"github.com/skillgate/skillgate-api/pkg/ai"
)

// ErrQuestionsNotFound indicates no generated set exists for the course.
var ErrQuestionsNotFound = errors.New("question set not found")

// QuestionGenerationService produces and serves the generated screening
// questions for a course.
type QuestionGenerationService interface {
	GenerateVideoQuestions(ctx context.Context, courseID string) (dto.VideoQuestionSetResponse, error)
	GenerateMCQs(ctx context.Context, courseID string) (dto.MCQSetResponse, error)
	GetVideoQuestions(ctx context.Context, courseID string) (dto.VideoQuestionSetResponse, error)
	GetMCQs(ctx context.Context, courseID string) (dto.MCQSetResponse, error)
}

type questionGenerationService struct {
	courses   repository.CourseRepository
	questions repository.QuestionRepository
	generator ai.QuestionGenerator
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewQuestionGenerationService constructs the generation service.
func NewQuestionGenerationService(courses repository.CourseRepository, questions repository.QuestionRepository, generator ai.QuestionGenerator, validate *validator.Validate, logger zerolog.Logger) QuestionGenerationService {
	return &questionGenerationService{
		courses:   courses,
		questions: questions,
		generator: generator,
		validator: validate,
		logger:    logger.With().Str("component", "question_generation_service").Logger(),
	}
}

func (s *questionGenerationService) GenerateVideoQuestions(ctx context.Context, courseID string) (dto.VideoQuestionSetResponse, error) {
	course, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return dto.VideoQuestionSetResponse{}, err
	}

	generated, err := s.generator.GenerateVideoQuestions(ctx, courseContext(course))
	if err != nil {
		return dto.VideoQuestionSetResponse{}, err
	}

	questions := make([]models.VideoQuestion, 0, len(generated))
	for _, q := range generated {
		questions = append(questions, models.VideoQuestion{
			Question:         q.Question,
			RelatedSkill:     q.RelatedSkill,
			ExpectedConcepts: q.ExpectedConcepts,
		})
	}

	set := models.VideoQuestionSet{
		CourseID:    course.ID,
		CourseTitle: course.Title,
		Questions:   questions,
	}
	if err := s.questions.UpsertVideoQuestions(ctx, &set); err != nil {
		return dto.VideoQuestionSetResponse{}, err
	}

	if err := s.courses.SetAIStatus(ctx, course.ID, "video_questions_generated", true); err != nil {
		s.logger.Warn().Err(err).Str("course_id", course.ID).Msg("failed to flag course video questions")
	}

	return dto.VideoQuestionSetResponse{
		CourseID:    set.CourseID,
		CourseTitle: set.CourseTitle,
		Questions:   questions,
	}, nil
}

func (s *questionGenerationService) GenerateMCQs(ctx context.Context, courseID string) (dto.MCQSetResponse, error) {
	course, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return dto.MCQSetResponse{}, err
	}

	generated, err := s.generator.GenerateMCQs(ctx, courseContext(course))
	if err != nil {
		return dto.MCQSetResponse{}, err
	}

	questions := make([]models.MCQ, 0, len(generated))
	for _, q := range generated {
		questions = append(questions, models.MCQ{
			Question: q.Question,
			Options:  q.Options,
			Answer:   q.Answer,
		})
	}

	set := models.MCQSet{
		CourseID:    course.ID,
		CourseTitle: course.Title,
		Questions:   questions,
	}
	if err := s.questions.UpsertMCQs(ctx, &set); err != nil {
		return dto.MCQSetResponse{}, err
	}

	if err := s.courses.SetAIStatus(ctx, course.ID, "mcq_generated", true); err != nil {
		s.logger.Warn().Err(err).Str("course_id", course.ID).Msg("failed to flag course mcqs")
	}

	return dto.MCQSetResponse{
		CourseID:    set.CourseID,
		CourseTitle: set.CourseTitle,
		Questions:   questions,
	}, nil
}

func (s *questionGenerationService) GetVideoQuestions(ctx context.Context, courseID string) (dto.VideoQuestionSetResponse, error) {
	if err := s.validator.Var(courseID, "required,hexadecimal,len=24"); err != nil {
		return dto.VideoQuestionSetResponse{}, ErrInvalidID
	}

	set, err := s.questions.GetVideoQuestions(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.VideoQuestionSetResponse{}, ErrQuestionsNotFound
		}
		return dto.VideoQuestionSetResponse{}, err
	}

	return dto.VideoQuestionSetResponse{
		CourseID:    set.CourseID,
		CourseTitle: set.CourseTitle,
		Questions:   set.Questions,
	}, nil
}

func (s *questionGenerationService) GetMCQs(ctx context.Context, courseID string) (dto.MCQSetResponse, error) {
	if err := s.validator.Var(courseID, "required,hexadecimal,len=24"); err != nil {
		return dto.MCQSetResponse{}, ErrInvalidID
	}

	set, err := s.questions.GetMCQs(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.MCQSetResponse{}, ErrQuestionsNotFound
		}
		return dto.MCQSetResponse{}, err
	}

	return dto.MCQSetResponse{
		CourseID:    set.CourseID,
		CourseTitle: set.CourseTitle,
		Questions:   set.Questions,
	}, nil
}

func (s *questionGenerationService) loadCourse(ctx context.Context, courseID string) (models.Course, error) {
	if err := s.validator.Var(courseID, "required,hexadecimal,len=24"); err != nil {
		return models.Course{}, ErrInvalidID
	}

	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Course{}, ErrCourseNotFound
		}
		return models.Course{}, err
	}

	return course, nil
}

func courseContext(course models.Course) ai.CourseContext {
	return ai.CourseContext{
		Title:          course.Title,
		Description:    course.Description,
		Level:          course.Level,
		RequiredSkills: course.SkillsRequired,
	}
}
