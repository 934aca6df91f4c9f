package lifecycle

import (
	"testing"

	"leadflow/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReparentMovesAllRecordTypes(t *testing.T) {
	db := newTestDB(t)

	lead := seedLead(t, db, "Mover")
	client := seedClient(t, db, "Receiver")
	seedDependents(t, db, models.LeadOwner(lead.ID))

	require.NoError(t, Reparent(db, models.LeadOwner(lead.ID), models.ClientOwner(client.ID)))

	assert.Zero(t, countOwnedBy(t, db, models.LeadOwner(lead.ID)))
	assert.EqualValues(t, 3, countOwnedBy(t, db, models.ClientOwner(client.ID)))

	// Old owner column nulled, not just the new one set
	var proposal models.Proposal
	require.NoError(t, db.First(&proposal).Error)
	assert.Nil(t, proposal.LeadID)
	require.NotNil(t, proposal.ClientID)
	assert.Equal(t, client.ID, *proposal.ClientID)
}

func TestReparentLeavesOtherOwnersAlone(t *testing.T) {
	db := newTestDB(t)

	moving := seedLead(t, db, "Moving")
	staying := seedLead(t, db, "Staying")
	client := seedClient(t, db, "Receiver")
	seedDependents(t, db, models.LeadOwner(moving.ID))
	seedDependents(t, db, models.LeadOwner(staying.ID))

	require.NoError(t, Reparent(db, models.LeadOwner(moving.ID), models.ClientOwner(client.ID)))

	assert.EqualValues(t, 3, countOwnedBy(t, db, models.LeadOwner(staying.ID)))
	assert.EqualValues(t, 3, countOwnedBy(t, db, models.ClientOwner(client.ID)))
}

func TestReparentRejectsMissingOwner(t *testing.T) {
	db := newTestDB(t)

	assert.Error(t, Reparent(db, models.NoOwner(), models.ClientOwner(1)))
	assert.Error(t, Reparent(db, models.LeadOwner(1), models.NoOwner()))
}

func TestUnlinkDeals(t *testing.T) {
	db := newTestDB(t)

	client := seedClient(t, db, "Unlinked Ltd")
	other := seedClient(t, db, "Other Ltd")

	mine := models.Deal{ClientID: &client.ID, Title: "Mine", DealValue: 10, CreatedByID: 1}
	theirs := models.Deal{ClientID: &other.ID, Title: "Theirs", DealValue: 20, CreatedByID: 1}
	require.NoError(t, db.Create(&mine).Error)
	require.NoError(t, db.Create(&theirs).Error)

	n, err := UnlinkDeals(db, client.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	require.NoError(t, db.First(&mine, mine.ID).Error)
	assert.Nil(t, mine.ClientID)

	require.NoError(t, db.First(&theirs, theirs.ID).Error)
	require.NotNil(t, theirs.ClientID)
	assert.Equal(t, other.ID, *theirs.ClientID)
}
