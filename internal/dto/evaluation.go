package dto

import (
	"time"

	"github.com/skillgate/skillgate-api/internal/models"
)

// MCQSubmissionRequest records a candidate's multiple-choice score for a
// course.
type MCQSubmissionRequest struct {
	StudentID string  `json:"studentId" validate:"required,hexadecimal,len=24"`
	CourseID  string  `json:"courseId" validate:"required,hexadecimal,len=24"`
	Score     float64 `json:"score" validate:"min=0,max=100"`
}

// VideoAnswerRef is one uploaded answer reference. QuestionID carries the
// ordinal of the generated question it answers ("Q1", "Q2", ...).
type VideoAnswerRef struct {
	QuestionID string `json:"questionId" validate:"required,max=16"`
	VideoURL   string `json:"videoUrl" validate:"required,url"`
}

// VideoSubmissionRequest records a candidate's answer videos and triggers
// the evaluation pipeline.
type VideoSubmissionRequest struct {
	StudentID string           `json:"studentId" validate:"required,hexadecimal,len=24"`
	CourseID  string           `json:"courseId" validate:"required,hexadecimal,len=24"`
	Answers   []VideoAnswerRef `json:"answers" validate:"required,min=1,dive"`
}

// EvaluationStatusResponse is returned when a submission is accepted for
// asynchronous processing.
type EvaluationStatusResponse struct {
	StudentID        string `json:"studentId"`
	CourseID         string `json:"courseId"`
	EvaluationStatus string `json:"evaluationStatus"`
}

// AnswerReport is one judged answer in the evaluation report.
type AnswerReport struct {
	QuestionID   string                 `json:"questionId"`
	VideoURL     string                 `json:"videoUrl"`
	Transcript   string                 `json:"transcript,omitempty"`
	RelatedSkill string                 `json:"relatedSkill,omitempty"`
	Analysis     *models.AnswerAnalysis `json:"analysis,omitempty"`
}

// EvaluationReportResponse is the full state of a candidate's latest attempt
// at a course.
type EvaluationReportResponse struct {
	StudentID         string         `json:"studentId"`
	CourseID          string         `json:"courseId"`
	CourseTitle       string         `json:"courseTitle,omitempty"`
	MCQScore          *float64       `json:"mcqScore,omitempty"`
	EvaluationStatus  string         `json:"evaluationStatus"`
	Answers           []AnswerReport `json:"answers"`
	OverallVideoScore *float64       `json:"overallVideoScore,omitempty"`
	SkillGap          []string       `json:"skillGap,omitempty"`
	EligibilitySignal string         `json:"eligibilitySignal,omitempty"`
	ExecutiveSummary  string         `json:"executiveSummary,omitempty"`
	OverallReasoning  string         `json:"overallReasoning,omitempty"`
	EvaluatedAt       *time.Time     `json:"evaluatedAt,omitempty"`
}

// NewEvaluationReport maps a persisted result onto the API shape.
func NewEvaluationReport(result models.EvaluationResult) EvaluationReportResponse {
	answers := make([]AnswerReport, 0, len(result.VideoAnswers))
	for _, answer := range result.VideoAnswers {
		answers = append(answers, AnswerReport{
			QuestionID:   answer.QuestionID,
			VideoURL:     answer.VideoURL,
			Transcript:   answer.Transcript,
			RelatedSkill: answer.RelatedSkill,
			Analysis:     answer.Analysis,
		})
	}

	return EvaluationReportResponse{
		StudentID:         result.StudentID,
		CourseID:          result.CourseID,
		CourseTitle:       result.CourseTitle,
		MCQScore:          result.MCQScore,
		EvaluationStatus:  result.EvaluationStatus,
		Answers:           answers,
		OverallVideoScore: result.OverallVideoScore,
		SkillGap:          result.SkillGap,
		EligibilitySignal: result.EligibilitySignal,
		ExecutiveSummary:  result.ExecutiveSummary,
		OverallReasoning:  result.OverallReasoning,
		EvaluatedAt:       result.EvaluatedAt,
	}
}
