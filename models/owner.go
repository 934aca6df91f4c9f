package models

// OwnerKind identifies which prospect table currently owns a dependent record.
type OwnerKind string

const (
	OwnerNone        OwnerKind = ""
	OwnerLead        OwnerKind = "lead"
	OwnerClient      OwnerKind = "client"
	OwnerDroppedLead OwnerKind = "dropped_lead"
)

// OwnerRef is a tagged union over the three mutually exclusive owner foreign
// keys (lead_id, client_id, dropped_lead_id) carried by dependent records.
// Dependent records are only queried and re-assigned through it, so illegal
// states (two owners set at once, or an id without a kind) cannot be built.
type OwnerRef struct {
	Kind OwnerKind
	ID   uint
}

func LeadOwner(id uint) OwnerRef        { return OwnerRef{Kind: OwnerLead, ID: id} }
func ClientOwner(id uint) OwnerRef      { return OwnerRef{Kind: OwnerClient, ID: id} }
func DroppedLeadOwner(id uint) OwnerRef { return OwnerRef{Kind: OwnerDroppedLead, ID: id} }
func NoOwner() OwnerRef                 { return OwnerRef{} }

// IsZero reports whether the ref names no owner.
func (r OwnerRef) IsZero() bool {
	return r.Kind == OwnerNone || r.ID == 0
}

// Column returns the foreign key column holding this ref's id, or "" for none.
func (r OwnerRef) Column() string {
	switch r.Kind {
	case OwnerLead:
		return "lead_id"
	case OwnerClient:
		return "client_id"
	case OwnerDroppedLead:
		return "dropped_lead_id"
	}
	return ""
}

// Assignments returns the column map that sets this owner and clears the other
// owner columns, for use with a bulk Updates call.
func (r OwnerRef) Assignments() map[string]interface{} {
	m := map[string]interface{}{
		"lead_id":         nil,
		"client_id":       nil,
		"dropped_lead_id": nil,
	}
	if !r.IsZero() {
		m[r.Column()] = r.ID
	}
	return m
}

// Owned carries the mutually exclusive owner foreign keys shared by every
// dependent record. At most one of the three is non-nil.
type Owned struct {
	LeadID        *uint `gorm:"index" json:"lead_id,omitempty"`
	ClientID      *uint `gorm:"index" json:"client_id,omitempty"`
	DroppedLeadID *uint `gorm:"index" json:"dropped_lead_id,omitempty"`
}

// Owner returns the current owner as a ref.
func (o Owned) Owner() OwnerRef {
	switch {
	case o.LeadID != nil:
		return LeadOwner(*o.LeadID)
	case o.ClientID != nil:
		return ClientOwner(*o.ClientID)
	case o.DroppedLeadID != nil:
		return DroppedLeadOwner(*o.DroppedLeadID)
	}
	return NoOwner()
}

// SetOwner replaces the current owner, clearing the other columns.
func (o *Owned) SetOwner(r OwnerRef) {
	o.LeadID = nil
	o.ClientID = nil
	o.DroppedLeadID = nil
	switch r.Kind {
	case OwnerLead:
		id := r.ID
		o.LeadID = &id
	case OwnerClient:
		id := r.ID
		o.ClientID = &id
	case OwnerDroppedLead:
		id := r.ID
		o.DroppedLeadID = &id
	}
}
