package models

import (
	"time"

	"gorm.io/gorm"
)

// SiteSurvey is a field survey report tied to a prospect.
type SiteSurvey struct {
	gorm.Model
	Owned

	SurveyDate     time.Time `gorm:"not null" json:"survey_date"`
	SurveyorID     *uint     `gorm:"index" json:"surveyor_id"`
	SiteAddress    string    `json:"site_address"`
	Findings       string    `gorm:"type:text" json:"findings"`
	Recommendation string    `gorm:"type:text" json:"recommendation"`
	Status         string    `gorm:"default:'Pending'" json:"status"` // Pending, Completed
	CreatedByID    uint      `gorm:"index" json:"created_by_id"`
}
