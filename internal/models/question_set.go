package models

import (
	"time"

	"gorm.io/datatypes"
)

// VideoQuestion is one generated eligibility question for spoken answers.
type VideoQuestion struct {
	Question         string   `json:"question"`
	RelatedSkill     string   `json:"relatedSkill"`
	ExpectedConcepts []string `json:"expectedConcepts,omitempty"`
}

// VideoQuestionSet holds the ordered eligibility questions for a course.
// The set is immutable once generated; answers reference entries by the
// ordinal embedded in their question id ("Q3" -> index 2).
type VideoQuestionSet struct {
	ID          uint                               `gorm:"primaryKey" json:"id"`
	CourseID    string                             `gorm:"size:24;uniqueIndex;not null" json:"course_id"`
	CourseTitle string                             `gorm:"size:255" json:"course_title"`
	Questions   datatypes.JSONSlice[VideoQuestion] `json:"questions"`
	CreatedAt   time.Time                          `json:"created_at"`
	UpdatedAt   time.Time                          `json:"updated_at"`
}

// MCQ is a generated multiple-choice question.
type MCQ struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// MCQSet holds the generated multiple-choice screening questions for a course.
type MCQSet struct {
	ID          uint                     `gorm:"primaryKey" json:"id"`
	CourseID    string                   `gorm:"size:24;uniqueIndex;not null" json:"course_id"`
	CourseTitle string                   `gorm:"size:255" json:"course_title"`
	Questions   datatypes.JSONSlice[MCQ] `json:"questions"`
	CreatedAt   time.Time                `json:"created_at"`
}
