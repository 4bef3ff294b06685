package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/skillgate/skillgate-api/internal/dto"
	"github.com/skillgate/skillgate-api/internal/models"
)

type recordingPipeline struct {
	triggered [][2]string
	err       error
}

func (r *recordingPipeline) Trigger(ctx context.Context, studentID, courseID string) error {
	if r.err != nil {
		return r.err
	}
	r.triggered = append(r.triggered, [2]string{studentID, courseID})
	return nil
}

func (r *recordingPipeline) Rerun(ctx context.Context, studentID, courseID string) error {
	return r.err
}

func newEvaluationService(results *memResultRepo, pipeline EvaluationPipelineService) EvaluationService {
	courses := &stubCourseRepo{course: models.Course{ID: testCourseID, Title: "Go Backend"}}
	return NewEvaluationService(results, courses, pipeline, validator.New(validator.WithRequiredStructEnabled()), zerolog.Nop())
}

func TestSubmitMCQCreatesAttempt(t *testing.T) {
	results := &memResultRepo{}
	svc := newEvaluationService(results, &recordingPipeline{})

	resp, err := svc.SubmitMCQ(context.Background(), dto.MCQSubmissionRequest{
		StudentID: testStudentID,
		CourseID:  testCourseID,
		Score:     72,
	})
	require.NoError(t, err)
	require.Equal(t, models.EvaluationStatusNotStarted, resp.EvaluationStatus)

	stored, err := results.GetLatest(context.Background(), testStudentID, testCourseID)
	require.NoError(t, err)
	require.NotNil(t, stored.MCQScore)
	require.InDelta(t, 72.0, *stored.MCQScore, 1e-9)
	require.Equal(t, "Go Backend", stored.CourseTitle)
}

func TestSubmitMCQRejectsUnknownCourse(t *testing.T) {
	svc := newEvaluationService(&memResultRepo{}, &recordingPipeline{})

	_, err := svc.SubmitMCQ(context.Background(), dto.MCQSubmissionRequest{
		StudentID: testStudentID,
		CourseID:  "ffffffffffffffffffffffff",
		Score:     50,
	})
	require.ErrorIs(t, err, ErrCourseNotFound)
}

func TestSubmitVideosStoresRefsAndTriggers(t *testing.T) {
	results := &memResultRepo{}
	pipeline := &recordingPipeline{}
	svc := newEvaluationService(results, pipeline)

	resp, err := svc.SubmitVideos(context.Background(), dto.VideoSubmissionRequest{
		StudentID: testStudentID,
		CourseID:  testCourseID,
		Answers: []dto.VideoAnswerRef{
			{QuestionID: "Q1", VideoURL: "https://cdn.example.com/a.mp4"},
			{QuestionID: "Q2", VideoURL: "https://cdn.example.com/b.mp4"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, models.EvaluationStatusPending, resp.EvaluationStatus)
	require.Equal(t, [][2]string{{testStudentID, testCourseID}}, pipeline.triggered)

	stored, err := results.GetLatest(context.Background(), testStudentID, testCourseID)
	require.NoError(t, err)
	require.Len(t, stored.VideoAnswers, 2)
	require.Equal(t, "Q1", stored.VideoAnswers[0].QuestionID)
}

func TestSubmitVideosRequiresAnswers(t *testing.T) {
	svc := newEvaluationService(&memResultRepo{}, &recordingPipeline{})

	_, err := svc.SubmitVideos(context.Background(), dto.VideoSubmissionRequest{
		StudentID: testStudentID,
		CourseID:  testCourseID,
	})
	require.Error(t, err)
	var validationErrors validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrors)
}

func TestGetReportReturnsLatestAttempt(t *testing.T) {
	results := &memResultRepo{}
	svc := newEvaluationService(results, &recordingPipeline{})

	seedResult(results, []models.VideoAnswer{{QuestionID: "Q1", VideoURL: "https://cdn.example.com/a.mp4"}}, models.EvaluationStatusCompleted)
	seedResult(results, []models.VideoAnswer{{QuestionID: "Q1", VideoURL: "https://cdn.example.com/b.mp4"}}, models.EvaluationStatusPending)

	report, err := svc.GetReport(context.Background(), testStudentID, testCourseID)
	require.NoError(t, err)
	require.Equal(t, models.EvaluationStatusPending, report.EvaluationStatus)
	require.Len(t, report.Answers, 1)
	require.Equal(t, "https://cdn.example.com/b.mp4", report.Answers[0].VideoURL)
}

func TestGetReportUnknownPairIsNotFound(t *testing.T) {
	svc := newEvaluationService(&memResultRepo{}, &recordingPipeline{})

	_, err := svc.GetReport(context.Background(), testStudentID, testCourseID)
	require.ErrorIs(t, err, ErrResultNotFound)
}
