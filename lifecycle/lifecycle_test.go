package lifecycle

import (
	"io"
	"log"
	"testing"

	"leadflow/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testActor = Actor{UserID: 1, Role: models.RoleAdmin}

// newTestDB opens an isolated in-memory database named after the test, so
// parallel tests never share state.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Lead{},
		&models.Client{},
		&models.DroppedLead{},
		&models.ActivityRecord{},
		&models.Proposal{},
		&models.SiteSurvey{},
		&models.Deal{},
		&models.GeneralTask{},
	))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newTestCoordinator(db *gorm.DB) *Coordinator {
	return NewCoordinator(db, log.New(io.Discard, "", 0), NewHub())
}

func newTestScheduler(db *gorm.DB) *Scheduler {
	return NewScheduler(db, log.New(io.Discard, "", 0), NewHub())
}

func seedLead(t *testing.T, db *gorm.DB, name string) *models.Lead {
	t.Helper()

	lead := &models.Lead{
		ProspectCore: models.ProspectCore{
			Name:        name,
			Company:     name + " Pvt Ltd",
			Email:       "contact@example.com",
			Phone:       "+911234567890",
			City:        "Pune",
			Source:      "referral",
			Status:      models.LeadStatusHot,
			Priority:    models.PriorityHigh,
			CreatedByID: 1,
		},
	}
	require.NoError(t, db.Create(lead).Error)
	return lead
}

func seedClient(t *testing.T, db *gorm.DB, name string) *models.Client {
	t.Helper()

	client := &models.Client{
		ProspectCore: models.ProspectCore{
			Name:        name,
			Status:      models.LeadStatusFresher,
			Priority:    models.PriorityAverage,
			CreatedByID: 1,
		},
	}
	require.NoError(t, db.Create(client).Error)
	return client
}

func seedDependents(t *testing.T, db *gorm.DB, owner models.OwnerRef) {
	t.Helper()

	activity := models.ActivityRecord{ActivityType: "follow_up", Comment: "called, interested", CreatedByID: 1}
	activity.SetOwner(owner)
	require.NoError(t, db.Create(&activity).Error)

	proposal := models.Proposal{Title: "Rooftop install", Amount: 1000, TaxPercent: 18, CreatedByID: 1}
	proposal.ComputeTotals()
	proposal.SetOwner(owner)
	require.NoError(t, db.Create(&proposal).Error)

	survey := models.SiteSurvey{SiteAddress: "Plot 12", Findings: "south facing roof", CreatedByID: 1}
	survey.SetOwner(owner)
	require.NoError(t, db.Create(&survey).Error)
}

// countOwnedBy returns how many dependent records of every type the given
// owner still holds.
func countOwnedBy(t *testing.T, db *gorm.DB, owner models.OwnerRef) int64 {
	t.Helper()

	var total, n int64
	for _, model := range dependentModels {
		require.NoError(t, db.Model(model).Where(owner.Column()+" = ?", owner.ID).Count(&n).Error)
		total += n
	}
	return total
}
