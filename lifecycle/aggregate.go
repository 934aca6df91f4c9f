package lifecycle

import (
	"leadflow/models"

	"gorm.io/gorm"
)

// RecalculateClientValue recomputes Client.TotalDealValue as the sum of
// deal_value over all deals the client currently owns and writes it back.
// Always a full recompute: incremental maintenance drifts when deals are
// bulk-edited, re-parented or corrected by hand. Idempotent.
func RecalculateClientValue(tx *gorm.DB, clientID uint) (float64, error) {
	var total float64
	if err := tx.Model(&models.Deal{}).
		Where("client_id = ?", clientID).
		Select("COALESCE(SUM(deal_value), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	if err := tx.Model(&models.Client{}).
		Where("id = ?", clientID).
		Update("total_deal_value", total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
