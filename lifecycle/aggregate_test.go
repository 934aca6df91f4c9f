package lifecycle

import (
	"testing"

	"leadflow/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecalculateClientValue(t *testing.T) {
	db := newTestDB(t)

	client := seedClient(t, db, "Summing Ltd")
	first := models.Deal{ClientID: &client.ID, Title: "Phase 1", DealValue: 100, CreatedByID: 1}
	second := models.Deal{ClientID: &client.ID, Title: "Phase 2", DealValue: 250, CreatedByID: 1}
	require.NoError(t, db.Create(&first).Error)
	require.NoError(t, db.Create(&second).Error)

	total, err := RecalculateClientValue(db, client.ID)
	require.NoError(t, err)
	assert.Equal(t, 350.0, total)

	var stored models.Client
	require.NoError(t, db.First(&stored, client.ID).Error)
	assert.Equal(t, 350.0, stored.TotalDealValue)

	// Unlink one deal and recompute from scratch
	require.NoError(t, db.Model(&second).Update("client_id", nil).Error)

	total, err = RecalculateClientValue(db, client.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, total)
}

func TestRecalculateClientValueIsIdempotent(t *testing.T) {
	db := newTestDB(t)

	client := seedClient(t, db, "Steady Ltd")
	deal := models.Deal{ClientID: &client.ID, Title: "Install", DealValue: 4200, CreatedByID: 1}
	require.NoError(t, db.Create(&deal).Error)

	for i := 0; i < 3; i++ {
		total, err := RecalculateClientValue(db, client.ID)
		require.NoError(t, err)
		assert.Equal(t, 4200.0, total)
	}
}

func TestRecalculateClientValueNoDeals(t *testing.T) {
	db := newTestDB(t)

	client := seedClient(t, db, "Empty Ltd")

	total, err := RecalculateClientValue(db, client.ID)
	require.NoError(t, err)
	assert.Zero(t, total)
}
