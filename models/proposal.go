package models

import (
	"time"

	"gorm.io/gorm"
)

// Proposal is a commercial offer tied to a prospect.
type Proposal struct {
	gorm.Model
	Owned

	Reference   string     `gorm:"index" json:"reference"`
	Title       string     `gorm:"not null" json:"title"`
	ProposedAt  *time.Time `json:"proposed_at"`
	Status      string     `gorm:"default:'Draft'" json:"status"` // Draft, Sent, Accepted, Rejected
	Notes       string     `gorm:"type:text" json:"notes"`
	CreatedByID uint       `gorm:"index" json:"created_by_id"`

	// Financials: Amount and TaxPercent are input, the rest computed
	Amount      float64 `gorm:"default:0" json:"amount"`
	TaxPercent  float64 `gorm:"default:18" json:"tax_percent"`
	TaxAmount   float64 `gorm:"default:0" json:"tax_amount"`
	TotalAmount float64 `gorm:"default:0" json:"total_amount"`
}

// ComputeTotals fills the derived financial fields from Amount and TaxPercent.
func (p *Proposal) ComputeTotals() {
	p.TaxAmount = p.Amount * p.TaxPercent / 100
	p.TotalAmount = p.Amount + p.TaxAmount
}
