package dto

import (
	"time"

	"github.com/skillgate/skillgate-api/internal/models"
)

// CourseCreateRequest registers a course whose eligibility test the
// pipeline will score. The ID is issued by the admissions frontend.
type CourseCreateRequest struct {
	ID             string   `json:"id" validate:"required,hexadecimal,len=24"`
	Title          string   `json:"title" validate:"required,max=255"`
	Description    string   `json:"description" validate:"max=4000"`
	Category       string   `json:"category" validate:"max=128"`
	Level          string   `json:"level" validate:"max=64"`
	Duration       string   `json:"duration" validate:"max=64"`
	SkillsRequired []string `json:"skillsRequired" validate:"max=32,dive,required,max=128"`
}

// CourseResponse is the API shape of a course.
type CourseResponse struct {
	ID                      string    `json:"id"`
	Title                   string    `json:"title"`
	Description             string    `json:"description,omitempty"`
	Category                string    `json:"category,omitempty"`
	Level                   string    `json:"level,omitempty"`
	Duration                string    `json:"duration,omitempty"`
	SkillsRequired          []string  `json:"skillsRequired"`
	Status                  string    `json:"status"`
	MCQGenerated            bool      `json:"mcqGenerated"`
	VideoQuestionsGenerated bool      `json:"videoQuestionsGenerated"`
	CreatedAt               time.Time `json:"createdAt"`
}

// NewCourseResponse maps a persisted course onto the API shape.
func NewCourseResponse(course models.Course) CourseResponse {
	return CourseResponse{
		ID:                      course.ID,
		Title:                   course.Title,
		Description:             course.Description,
		Category:                course.Category,
		Level:                   course.Level,
		Duration:                course.Duration,
		SkillsRequired:          course.SkillsRequired,
		Status:                  course.Status,
		MCQGenerated:            course.MCQGenerated,
		VideoQuestionsGenerated: course.VideoQuestionsGenerated,
		CreatedAt:               course.CreatedAt,
	}
}

// VideoQuestionSetResponse is the generated spoken-answer question set for a
// course.
type VideoQuestionSetResponse struct {
	CourseID    string                 `json:"courseId"`
	CourseTitle string                 `json:"courseTitle"`
	Questions   []models.VideoQuestion `json:"questions"`
}

// MCQSetResponse is the generated multiple-choice set for a course.
type MCQSetResponse struct {
	CourseID    string       `json:"courseId"`
	CourseTitle string       `json:"courseTitle"`
	Questions   []models.MCQ `json:"questions"`
}
