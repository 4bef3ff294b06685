package dto

import (
	"time"

	"github.com/skillgate/skillgate-api/internal/models"
)

// NotificationResponse is the reviewer-facing shape of a completion
// notification.
type NotificationResponse struct {
	ID          uint      `json:"id"`
	StudentID   string    `json:"studentId"`
	CourseID    string    `json:"courseId"`
	StudentName string    `json:"studentName"`
	CourseTitle string    `json:"courseTitle"`
	Score       float64   `json:"score"`
	SkillGap    []string  `json:"skillGap"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewNotificationResponse maps a persisted notification onto the API shape.
func NewNotificationResponse(n models.ReviewerNotification) NotificationResponse {
	return NotificationResponse{
		ID:          n.ID,
		StudentID:   n.StudentID,
		CourseID:    n.CourseID,
		StudentName: n.StudentName,
		CourseTitle: n.CourseTitle,
		Score:       n.Score,
		SkillGap:    n.SkillGap,
		Read:        n.Read,
		CreatedAt:   n.CreatedAt,
	}
}
