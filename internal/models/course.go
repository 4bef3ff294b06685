package models

import (
	"time"

	"gorm.io/datatypes"
)

// Course is an enrollable course whose eligibility test the pipeline scores.
// IDs are 24-character hex strings issued by the admissions frontend.
type Course struct {
	ID                      string                      `gorm:"primaryKey;size:24" json:"id"`
	Title                   string                      `gorm:"size:255;not null" json:"title"`
	Description             string                      `gorm:"type:text" json:"description"`
	Category                string                      `gorm:"size:128" json:"category"`
	Level                   string                      `gorm:"size:64" json:"level"`
	Duration                string                      `gorm:"size:64" json:"duration"`
	SkillsRequired          datatypes.JSONSlice[string] `json:"skills_required"`
	Status                  string                      `gorm:"size:32;default:Draft" json:"status"`
	MCQGenerated            bool                        `json:"mcq_generated"`
	VideoQuestionsGenerated bool                        `json:"video_questions_generated"`
	CreatedBy               string                      `gorm:"size:64;default:admin" json:"created_by"`
	CreatedAt               time.Time                   `json:"created_at"`
	UpdatedAt               time.Time                   `json:"updated_at"`
}
