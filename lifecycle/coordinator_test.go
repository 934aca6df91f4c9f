package lifecycle

import (
	"testing"

	"leadflow/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPromoteLeadMovesDependents(t *testing.T) {
	db := newTestDB(t)
	co := newTestCoordinator(db)

	lead := seedLead(t, db, "Sharma Traders")
	seedDependents(t, db, models.LeadOwner(lead.ID))

	clientID, err := co.PromoteLead(testActor, lead.ID)
	require.NoError(t, err)
	require.NotZero(t, clientID)

	// Source row is gone, destination row exists with promote defaults
	var leadCount int64
	require.NoError(t, db.Model(&models.Lead{}).Count(&leadCount).Error)
	assert.Zero(t, leadCount)

	var client models.Client
	require.NoError(t, db.First(&client, clientID).Error)
	assert.Equal(t, "Sharma Traders", client.Name)
	assert.Equal(t, models.LeadStatusFresher, client.Status)
	assert.Equal(t, models.PriorityAverage, client.Priority)

	// Every dependent moved, none left behind
	assert.EqualValues(t, 3, countOwnedBy(t, db, models.ClientOwner(clientID)))
	assert.Zero(t, countOwnedBy(t, db, models.LeadOwner(lead.ID)))
}

func TestPromoteLeadNotFound(t *testing.T) {
	db := newTestDB(t)
	co := newTestCoordinator(db)

	_, err := co.PromoteLead(testActor, 999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPromoteLeadRequiresSession(t *testing.T) {
	db := newTestDB(t)
	co := newTestCoordinator(db)

	lead := seedLead(t, db, "No Session Co")

	_, err := co.PromoteLead(Actor{}, lead.ID)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestPromoteThenDemotePreservesContentNotIdentity(t *testing.T) {
	db := newTestDB(t)
	co := newTestCoordinator(db)

	lead := seedLead(t, db, "Roundtrip Industries")
	originalID := lead.ID
	originalCore := lead.ProspectCore

	clientID, err := co.PromoteLead(testActor, originalID)
	require.NoError(t, err)

	newLeadID, err := co.DemoteClient(testActor, clientID)
	require.NoError(t, err)

	assert.NotEqual(t, originalID, newLeadID)

	var roundtripped models.Lead
	require.NoError(t, db.First(&roundtripped, newLeadID).Error)
	assert.Equal(t, originalCore.Name, roundtripped.Name)
	assert.Equal(t, originalCore.Company, roundtripped.Company)
	assert.Equal(t, originalCore.Email, roundtripped.Email)
	assert.Equal(t, originalCore.Phone, roundtripped.Phone)
	assert.Equal(t, originalCore.Source, roundtripped.Source)
	assert.Equal(t, originalCore.CreatedByID, roundtripped.CreatedByID)
}

func TestDropLeadStampsReason(t *testing.T) {
	db := newTestDB(t)
	co := newTestCoordinator(db)

	lead := seedLead(t, db, "Cold Feet LLC")
	seedDependents(t, db, models.LeadOwner(lead.ID))

	droppedID, err := co.DropLead(testActor, lead.ID, "competitor", "went with a cheaper vendor")
	require.NoError(t, err)

	var dropped models.DroppedLead
	require.NoError(t, db.First(&dropped, droppedID).Error)
	assert.Equal(t, "competitor", dropped.DropReason)
	assert.Equal(t, "went with a cheaper vendor", dropped.DropComment)
	assert.False(t, dropped.DroppedAt.IsZero())

	assert.EqualValues(t, 3, countOwnedBy(t, db, models.DroppedLeadOwner(droppedID)))
	assert.Zero(t, countOwnedBy(t, db, models.LeadOwner(lead.ID)))
}

func TestDropLeadRequiresReason(t *testing.T) {
	db := newTestDB(t)
	co := newTestCoordinator(db)

	lead := seedLead(t, db, "Reasonless")

	_, err := co.DropLead(testActor, lead.ID, "", "")
	assert.Error(t, err)
}

func TestReactivateDroppedLead(t *testing.T) {
	db := newTestDB(t)
	co := newTestCoordinator(db)

	lead := seedLead(t, db, "Second Chance Corp")
	droppedID, err := co.DropLead(testActor, lead.ID, "no_response", "")
	require.NoError(t, err)

	newLeadID, err := co.ReactivateDroppedLead(testActor, droppedID)
	require.NoError(t, err)

	var reactivated models.Lead
	require.NoError(t, db.First(&reactivated, newLeadID).Error)
	assert.Equal(t, models.LeadStatusFollowUp, reactivated.Status)
	assert.Contains(t, reactivated.LastComment, "no_response")
	require.NotNil(t, reactivated.LastCommentAt)

	var droppedCount int64
	require.NoError(t, db.Model(&models.DroppedLead{}).Count(&droppedCount).Error)
	assert.Zero(t, droppedCount)
}

func TestDemoteClientUnlinksDeals(t *testing.T) {
	db := newTestDB(t)
	co := newTestCoordinator(db)

	client := seedClient(t, db, "Deal Holder Ltd")
	for _, value := range []float64{100, 250} {
		deal := models.Deal{ClientID: &client.ID, Title: "Install", DealValue: value, CreatedByID: 1}
		require.NoError(t, db.Create(&deal).Error)
	}

	_, err := co.DemoteClient(testActor, client.ID)
	require.NoError(t, err)

	// Deals survive but are owned by nobody
	var deals []models.Deal
	require.NoError(t, db.Find(&deals).Error)
	require.Len(t, deals, 2)
	for _, deal := range deals {
		assert.Nil(t, deal.ClientID)
	}
}

func TestTransitionRollsBackOnReparentFailure(t *testing.T) {
	db := newTestDB(t)
	co := newTestCoordinator(db)

	lead := seedLead(t, db, "Atomic Ltd")
	seedDependents(t, db, models.LeadOwner(lead.ID))

	// Sabotage step 3: the surveys UPDATE inside the transaction will fail
	require.NoError(t, db.Migrator().DropTable(&models.SiteSurvey{}))

	_, err := co.PromoteLead(testActor, lead.ID)
	require.Error(t, err)

	// Source untouched, no destination row, activities never re-parented
	var stillThere models.Lead
	require.NoError(t, db.First(&stillThere, lead.ID).Error)

	var clientCount int64
	require.NoError(t, db.Model(&models.Client{}).Count(&clientCount).Error)
	assert.Zero(t, clientCount)

	var activity models.ActivityRecord
	require.NoError(t, db.First(&activity).Error)
	require.NotNil(t, activity.LeadID)
	assert.Equal(t, lead.ID, *activity.LeadID)
}
