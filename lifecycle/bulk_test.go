package lifecycle

import (
	"testing"

	"leadflow/models"
	"leadflow/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkUpdateLeadsResolvesAssignee(t *testing.T) {
	db := newTestDB(t)
	co := newTestCoordinator(db)

	assignee := models.User{Name: "Priya Nair", Email: "priya@example.com", PasswordHash: "x", Role: models.RoleSales}
	require.NoError(t, db.Create(&assignee).Error)

	first := seedLead(t, db, "Bulk One")
	second := seedLead(t, db, "Bulk Two")

	count, err := co.BulkUpdateLeads(testActor, []uint{first.ID, second.ID}, FieldPatch{
		Status:         utils.Pointer(models.LeadStatusFollowUp),
		AssignedToName: utils.Pointer("Priya Nair"),
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	var updated []models.Lead
	require.NoError(t, db.Find(&updated).Error)
	for _, lead := range updated {
		assert.Equal(t, models.LeadStatusFollowUp, lead.Status)
		require.NotNil(t, lead.AssignedToID)
		assert.Equal(t, assignee.ID, *lead.AssignedToID)
	}
}

func TestBulkUpdateLeadsRejectsUnknownAssignee(t *testing.T) {
	db := newTestDB(t)
	co := newTestCoordinator(db)

	lead := seedLead(t, db, "Untouched")
	originalStatus := lead.Status

	_, err := co.BulkUpdateLeads(testActor, []uint{lead.ID}, FieldPatch{
		Status:         utils.Pointer(models.LeadStatusFollowUp),
		AssignedToName: utils.Pointer("Nobody Known"),
	})
	assert.ErrorIs(t, err, ErrAssigneeNotFound)

	// Whole batch rejected before any write
	var unchanged models.Lead
	require.NoError(t, db.First(&unchanged, lead.ID).Error)
	assert.Equal(t, originalStatus, unchanged.Status)
	assert.Nil(t, unchanged.AssignedToID)
}

func TestBulkUpdateLeadsNeedsFields(t *testing.T) {
	db := newTestDB(t)
	co := newTestCoordinator(db)

	lead := seedLead(t, db, "No Patch")

	_, err := co.BulkUpdateLeads(testActor, []uint{lead.ID}, FieldPatch{})
	assert.Error(t, err)
}

func TestBulkReactivatePartialSuccess(t *testing.T) {
	db := newTestDB(t)
	co := newTestCoordinator(db)

	first := seedLead(t, db, "First Dropped")
	firstDropped, err := co.DropLead(testActor, first.ID, "price", "")
	require.NoError(t, err)

	third := seedLead(t, db, "Third Dropped")
	thirdDropped, err := co.DropLead(testActor, third.ID, "price", "")
	require.NoError(t, err)

	// Middle id does not exist: its transition fails, the others commit
	count, err := co.BulkReactivate(testActor, []uint{firstDropped, 9999, thirdDropped})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	var leadCount int64
	require.NoError(t, db.Model(&models.Lead{}).Count(&leadCount).Error)
	assert.EqualValues(t, 2, leadCount)

	var droppedCount int64
	require.NoError(t, db.Model(&models.DroppedLead{}).Count(&droppedCount).Error)
	assert.Zero(t, droppedCount)
}
