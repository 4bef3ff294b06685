package models

import (
	"time"

	"gorm.io/datatypes"
)

// Evaluation status values for the video assessment pipeline. A record moves
// not_started -> pending -> transcribed -> completed; a hard failure after
// transcription leaves the record at transcribed so it stays retryable.
const (
	EvaluationStatusNotStarted  = "not_started"
	EvaluationStatusPending     = "pending"
	EvaluationStatusTranscribed = "transcribed"
	EvaluationStatusCompleted   = "completed"
)

// Eligibility signals produced by the aggregation stage.
const (
	EligibilityPass       = "Pass"
	EligibilityBorderline = "Borderline"
	EligibilityFail       = "Fail"
)

// AnswerAnalysis is the structured outcome of judging one video answer.
// It is never mutated after the judge produces it.
type AnswerAnalysis struct {
	TechnicalScore       float64  `json:"technicalScore"`
	ConceptCoverageScore float64  `json:"conceptCoverageScore"`
	ClarityScore         float64  `json:"clarityScore"`
	OverallScore         float64  `json:"overallScore"`
	Feedback             string   `json:"feedback"`
	Strengths            []string `json:"strengths,omitempty"`
	ImprovementAreas     []string `json:"improvementAreas,omitempty"`
	SkillLevelAssessment string   `json:"skillLevelAssessment"`
}

// VideoAnswer tracks one spoken answer through the pipeline. Transcript is
// empty until the transcription stage ran; Analysis is nil until the answer
// has been judged.
type VideoAnswer struct {
	QuestionID   string          `json:"questionId"`
	VideoURL     string          `json:"videoUrl"`
	Transcript   string          `json:"transcript,omitempty"`
	RelatedSkill string          `json:"relatedSkill,omitempty"`
	Analysis     *AnswerAnalysis `json:"analysis,omitempty"`
}

// EvaluationResult is one student's attempt at a course eligibility test.
// The aggregate fields stay nil until EvaluationStatus is completed; during a
// pipeline run the orchestrator is the only writer of this record.
type EvaluationResult struct {
	ID                uint                              `gorm:"primaryKey" json:"id"`
	StudentID         string                            `gorm:"size:24;not null;index:idx_results_student_course" json:"student_id"`
	CourseID          string                            `gorm:"size:24;not null;index:idx_results_student_course" json:"course_id"`
	CourseTitle       string                            `gorm:"size:255" json:"course_title"`
	MCQScore          *float64                          `json:"mcq_score,omitempty"`
	EvaluationStatus  string                            `gorm:"size:32;not null;default:not_started" json:"evaluation_status"`
	VideoAnswers      datatypes.JSONSlice[VideoAnswer]  `json:"video_answers"`
	OverallVideoScore *float64                          `json:"overall_video_score,omitempty"`
	SkillGap          datatypes.JSONSlice[string]       `json:"skill_gap,omitempty"`
	EligibilitySignal string                            `gorm:"size:16" json:"eligibility_signal,omitempty"`
	ExecutiveSummary  string                            `gorm:"type:text" json:"executive_summary,omitempty"`
	OverallReasoning  string                            `gorm:"type:text" json:"overall_reasoning,omitempty"`
	EvaluatedAt       *time.Time                        `json:"evaluated_at,omitempty"`
	CreatedAt         time.Time                         `json:"created_at"`
	UpdatedAt         time.Time                         `json:"updated_at"`
}

// IsCompleted reports whether the aggregate fields have been finalized.
func (r EvaluationResult) IsCompleted() bool {
	return r.EvaluationStatus == EvaluationStatusCompleted
}
