package lifecycle

import (
	"fmt"

	"leadflow/models"

	"gorm.io/gorm"
)

// dependentModels lists every record type carrying owner foreign keys.
// Deals are handled separately: they have no lead_id column, so they can
// never be migrated to a lead owner (see UnlinkDeals).
var dependentModels = []interface{}{
	&models.ActivityRecord{},
	&models.Proposal{},
	&models.SiteSurvey{},
}

// Reparent bulk-reassigns every dependent record owned by from to be owned by
// to instead. One UPDATE per record type; the new owner column is set and the
// old one nulled in the same statement. Runs inside the caller's transaction.
func Reparent(tx *gorm.DB, from, to models.OwnerRef) error {
	if from.IsZero() || to.IsZero() {
		return fmt.Errorf("reparent: both owners must be set (from %q, to %q)", from.Kind, to.Kind)
	}
	assignments := to.Assignments()
	for _, model := range dependentModels {
		if err := tx.Model(model).
			Where(from.Column()+" = ?", from.ID).
			Updates(assignments).Error; err != nil {
			return fmt.Errorf("reparent %T: %w", model, err)
		}
	}
	return nil
}

// UnlinkDeals clears deal ownership for a client whose row is about to be
// deleted. Deals cannot follow the prospect to the leads table, so they are
// left unowned rather than migrated. Returns the number of deals unlinked.
func UnlinkDeals(tx *gorm.DB, clientID uint) (int64, error) {
	res := tx.Model(&models.Deal{}).
		Where("client_id = ?", clientID).
		Update("client_id", nil)
	return res.RowsAffected, res.Error
}
