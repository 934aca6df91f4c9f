package models

import (
	"time"

	"gorm.io/gorm"
)

// Lead statuses
const (
	LeadStatusFresher  = "Fresher"
	LeadStatusFollowUp = "Follow-up"
	LeadStatusHot      = "Hot"
	LeadStatusProposal = "Proposal Sent"
)

// Priorities
const (
	PriorityHigh    = "High"
	PriorityAverage = "Average"
	PriorityLow     = "Low"
)

// ProspectCore is the set of fields every lifecycle representation of a
// prospect carries. Transitions copy it verbatim between the three tables,
// so a promote/demote round trip preserves content (not identity).
type ProspectCore struct {
	Name    string `gorm:"not null;index" json:"name"`
	Company string `json:"company"`
	Email   string `gorm:"index" json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`

	Source   string `json:"source"` // referral, website, cold_call, exhibition
	Status   string `gorm:"default:'Fresher'" json:"status"`
	Priority string `gorm:"default:'Average'" json:"priority"`

	AssignedToID *uint `gorm:"index" json:"assigned_to_id"`
	CreatedByID  uint  `gorm:"index" json:"created_by_id"`

	// Denormalized snapshot of the latest activity comment
	LastComment   string     `json:"last_comment"`
	LastCommentAt *time.Time `json:"last_comment_at"`

	NextFollowUpDate *time.Time `json:"next_follow_up_date"`
	NextFollowUpTime string     `json:"next_follow_up_time"`
}

// Lead is an active, unconverted sales prospect.
type Lead struct {
	gorm.Model
	ProspectCore

	ActivityRecords []ActivityRecord `gorm:"foreignKey:LeadID" json:"activity_records,omitempty"`
	Proposals       []Proposal       `gorm:"foreignKey:LeadID" json:"proposals,omitempty"`
	SiteSurveys     []SiteSurvey     `gorm:"foreignKey:LeadID" json:"site_surveys,omitempty"`
}

// Client is a won prospect. Superset of Lead plus the denormalized deal value
// total and bill attachment references.
type Client struct {
	gorm.Model
	ProspectCore

	// Derived: sum of deal_value over all deals owned by this client.
	// Maintained by full recompute, never incrementally.
	TotalDealValue float64 `gorm:"default:0" json:"total_deal_value"`

	BillFiles []string `gorm:"type:jsonb;serializer:json" json:"bill_files,omitempty"`

	ActivityRecords []ActivityRecord `gorm:"foreignKey:ClientID" json:"activity_records,omitempty"`
	Proposals       []Proposal       `gorm:"foreignKey:ClientID" json:"proposals,omitempty"`
	SiteSurveys     []SiteSurvey     `gorm:"foreignKey:ClientID" json:"site_surveys,omitempty"`
	Deals           []Deal           `gorm:"foreignKey:ClientID" json:"deals,omitempty"`
}

// DroppedLead is a prospect marked as lost.
type DroppedLead struct {
	gorm.Model
	ProspectCore

	DropReason  string    `gorm:"not null" json:"drop_reason"` // price, competitor, no_response, not_interested
	DropComment string    `json:"drop_comment"`
	DroppedAt   time.Time `gorm:"not null" json:"dropped_at"`

	ActivityRecords []ActivityRecord `gorm:"foreignKey:DroppedLeadID" json:"activity_records,omitempty"`
	Proposals       []Proposal       `gorm:"foreignKey:DroppedLeadID" json:"proposals,omitempty"`
	SiteSurveys     []SiteSurvey     `gorm:"foreignKey:DroppedLeadID" json:"site_surveys,omitempty"`
}
