package service

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/skillgate/skillgate-api/internal/models"
	"github.com/skillgate/skillgate-api/pkg/ai"
)

type stubGenerator struct {
	questions []ai.GeneratedQuestion
	mcqs      []ai.GeneratedMCQ
	err       error
}

func (s *stubGenerator) GenerateVideoQuestions(ctx context.Context, course ai.CourseContext) ([]ai.GeneratedQuestion, error) {
	return s.questions, s.err
}

func (s *stubGenerator) GenerateMCQs(ctx context.Context, course ai.CourseContext) ([]ai.GeneratedMCQ, error) {
	return s.mcqs, s.err
}

func TestGenerateVideoQuestionsPersistsSet(t *testing.T) {
	courses := &stubCourseRepo{course: models.Course{ID: testCourseID, Title: "Go Backend"}}
	questions := &stubQuestionRepo{missing: true}
	generator := &stubGenerator{questions: []ai.GeneratedQuestion{
		{Question: "Explain goroutines", RelatedSkill: "Go", ExpectedConcepts: []string{"scheduler"}},
	}}

	svc := NewQuestionGenerationService(courses, questions, generator, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	resp, err := svc.GenerateVideoQuestions(context.Background(), testCourseID)
	require.NoError(t, err)
	require.Equal(t, testCourseID, resp.CourseID)
	require.Equal(t, "Go Backend", resp.CourseTitle)
	require.Len(t, resp.Questions, 1)

	require.NotNil(t, questions.upserted)
	require.Equal(t, testCourseID, questions.upserted.CourseID)
	require.Len(t, questions.upserted.Questions, 1)
	require.Equal(t, "Go", questions.upserted.Questions[0].RelatedSkill)
}

func TestGenerateVideoQuestionsUnknownCourse(t *testing.T) {
	svc := NewQuestionGenerationService(&stubCourseRepo{}, &stubQuestionRepo{}, &stubGenerator{}, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	_, err := svc.GenerateVideoQuestions(context.Background(), testCourseID)
	require.ErrorIs(t, err, ErrCourseNotFound)
}

func TestGenerateVideoQuestionsPropagatesGeneratorError(t *testing.T) {
	courses := &stubCourseRepo{course: models.Course{ID: testCourseID}}
	generator := &stubGenerator{err: errors.New("quota exceeded")}

	svc := NewQuestionGenerationService(courses, &stubQuestionRepo{}, generator, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	_, err := svc.GenerateVideoQuestions(context.Background(), testCourseID)
	require.Error(t, err)
}

func TestGetVideoQuestionsMissingSet(t *testing.T) {
	courses := &stubCourseRepo{course: models.Course{ID: testCourseID}}
	svc := NewQuestionGenerationService(courses, &stubQuestionRepo{missing: true}, &stubGenerator{}, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	_, err := svc.GetVideoQuestions(context.Background(), testCourseID)
	require.ErrorIs(t, err, ErrQuestionsNotFound)
}

func TestGetVideoQuestionsInvalidID(t *testing.T) {
	svc := NewQuestionGenerationService(&stubCourseRepo{}, &stubQuestionRepo{}, &stubGenerator{}, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())

	_, err := svc.GetVideoQuestions(context.Background(), "short")
	require.ErrorIs(t, err, ErrInvalidID)
}
