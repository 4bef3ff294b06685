package models

import (
	"time"

	"gorm.io/datatypes"
)

// ReviewerNotification is a write-once event recorded when an evaluation
// completes, surfaced to admissions reviewers. The pipeline creates it; the
// admin subsystem owns it afterwards.
type ReviewerNotification struct {
	ID          uint                        `gorm:"primaryKey" json:"id"`
	StudentID   string                      `gorm:"size:24;not null;index" json:"student_id"`
	CourseID    string                      `gorm:"size:24;not null" json:"course_id"`
	StudentName string                      `gorm:"size:255" json:"student_name"`
	CourseTitle string                      `gorm:"size:255" json:"course_title"`
	Score       float64                     `json:"score"`
	SkillGap    datatypes.JSONSlice[string] `json:"skill_gap"`
	Read        bool                        `gorm:"not null;default:false" json:"read"`
	CreatedAt   time.Time                   `json:"created_at"`
}
