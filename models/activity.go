package models

import (
	"time"

	"gorm.io/gorm"
)

// ActivityRecord is a follow-up note or a scheduled task attached to a
// prospect. The owning prospect is identified by the embedded Owned columns
// and changes only through re-parenting during lifecycle transitions.
type ActivityRecord struct {
	gorm.Model
	Owned

	ActivityType string    `gorm:"not null" json:"activity_type"` // follow_up, task, call, meeting, site_visit
	ActivityAt   time.Time `gorm:"not null" json:"activity_at"`
	Status       string    `gorm:"default:'Open'" json:"status"` // Open, Done, Cancelled
	Comment      string    `gorm:"type:text" json:"comment"`

	// Optional task assignment
	TaskForUserID *uint      `gorm:"index" json:"task_for_user_id"`
	TaskDate      *time.Time `json:"task_date"`
	TaskTime      string     `json:"task_time"`

	CreatedByID uint `gorm:"index" json:"created_by_id"`
}
