package models

import (
	"time"

	"gorm.io/gorm"
)

// Deal pipelines
const (
	PipelineSales = "Sales"
	PipelineAMC   = "AMC"
)

// Deal stages
const (
	DealStageNew         = "New"
	DealStageNegotiation = "Negotiation"
	DealStageActive      = "Active"
	DealStageClosed      = "Closed"
	DealStageLost        = "Lost"
)

// Deal is a commercial deal owned by a client. Deals carry no lead_id, so a
// client demoted back to a lead leaves its deals unlinked rather than
// migrated (see lifecycle.UnlinkDeals).
type Deal struct {
	gorm.Model
	ClientID *uint `gorm:"index" json:"client_id"`

	Title     string  `gorm:"not null" json:"title"`
	Pipeline  string  `gorm:"default:'Sales';index" json:"pipeline"`
	Stage     string  `gorm:"default:'New'" json:"stage"`
	DealValue float64 `gorm:"default:0" json:"deal_value"`

	AssignedToID *uint `gorm:"index" json:"assigned_to_id"`
	CreatedByID  uint  `gorm:"index" json:"created_by_id"`

	// AMC pipeline only. AMCEffectiveDate is stamped once, on the first
	// transition into the Active stage; the explicit effective-date
	// correction endpoint is the only later write path.
	AMCDurationInMonths *int       `json:"amc_duration_in_months"`
	AMCEffectiveDate    *time.Time `json:"amc_effective_date"`

	Tasks []GeneralTask `gorm:"foreignKey:DealID" json:"tasks,omitempty"`
}

// IsAMC reports whether the deal belongs to the AMC pipeline.
func (d *Deal) IsAMC() bool {
	return d.Pipeline == PipelineAMC
}

// GeneralTask is a schedulable unit of work. Tasks generated by the AMC
// scheduler share an AMCTaskID batch tag and are replaced wholesale on every
// regeneration for their deal.
type GeneralTask struct {
	gorm.Model

	Title    string    `gorm:"not null" json:"title"`
	Comment  string    `gorm:"type:text" json:"comment"`
	Priority string    `gorm:"default:'Medium'" json:"priority"`
	DueDate  time.Time `gorm:"not null;index" json:"due_date"`
	Status   string    `gorm:"default:'Open'" json:"status"` // Open, Done

	AssignedToID uint `gorm:"index" json:"assigned_to_id"`
	CreatedByID  uint `json:"created_by_id"`

	DealID    *uint  `gorm:"index" json:"deal_id"`
	AMCTaskID string `gorm:"index" json:"amc_task_id"`

	ReminderSentAt *time.Time `json:"reminder_sent_at"`
}
