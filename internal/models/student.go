package models

import "time"

// Student represents a candidate taking course eligibility tests. The record
// is owned by the registration subsystem; the pipeline only reads it to
// resolve display names for reviewer notifications.
type Student struct {
	ID        string    `gorm:"primaryKey;size:24" json:"id"`
	FirstName string    `gorm:"size:128;not null" json:"first_name"`
	LastName  string    `gorm:"size:128" json:"last_name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName returns the name shown in reviewer-facing surfaces.
func (s Student) DisplayName() string {
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}
