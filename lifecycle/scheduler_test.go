package lifecycle

import (
	"testing"
	"time"

	"leadflow/models"
	"leadflow/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedAMCDeal(t *testing.T, db *gorm.DB, months int, effective time.Time) *models.Deal {
	t.Helper()

	client := seedClient(t, db, "Maintenance Customer")
	deal := &models.Deal{
		ClientID:            &client.ID,
		Title:               "Annual maintenance",
		Pipeline:            models.PipelineAMC,
		Stage:               models.DealStageActive,
		DealValue:           50000,
		AssignedToID:        utils.Pointer(uint(7)),
		CreatedByID:         1,
		AMCDurationInMonths: &months,
		AMCEffectiveDate:    &effective,
	}
	require.NoError(t, db.Create(deal).Error)
	return deal
}

func scheduleFor(t *testing.T, db *gorm.DB, s *Scheduler, deal *models.Deal) int {
	t.Helper()

	var count int
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		var err error
		count, err = s.ScheduleTasks(tx, testActor, deal)
		return err
	}))
	return count
}

func TestScheduleNineMonthsYieldsThreeQuarters(t *testing.T) {
	db := newTestDB(t)
	s := newTestScheduler(db)

	effective := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	deal := seedAMCDeal(t, db, 9, effective)

	count := scheduleFor(t, db, s, deal)
	assert.Equal(t, 3, count)

	var tasks []models.GeneralTask
	require.NoError(t, db.Where("deal_id = ?", deal.ID).Order("due_date ASC").Find(&tasks).Error)
	require.Len(t, tasks, 3)

	for i, task := range tasks {
		expected := effective.AddDate(0, 3*(i+1), 0)
		assert.True(t, task.DueDate.Equal(expected), "task %d due %s, want %s", i+1, task.DueDate, expected)
		assert.Equal(t, "Medium", task.Priority)
		assert.EqualValues(t, 7, task.AssignedToID)
		assert.Contains(t, task.Comment, "Maintenance Customer")
	}
	assert.Contains(t, tasks[0].Comment, "Quarter 1/3")
	assert.Contains(t, tasks[2].Comment, "Quarter 3/3")

	// All tasks from one run share a batch tag
	assert.NotEmpty(t, tasks[0].AMCTaskID)
	assert.Equal(t, tasks[0].AMCTaskID, tasks[1].AMCTaskID)
	assert.Equal(t, tasks[0].AMCTaskID, tasks[2].AMCTaskID)
}

func TestScheduleFiveMonthsYieldsSingleQuarter(t *testing.T) {
	db := newTestDB(t)
	s := newTestScheduler(db)

	deal := seedAMCDeal(t, db, 5, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))

	count := scheduleFor(t, db, s, deal)
	assert.Equal(t, 1, count)
}

func TestRescheduleReplacesNotAppends(t *testing.T) {
	db := newTestDB(t)
	s := newTestScheduler(db)

	deal := seedAMCDeal(t, db, 12, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC))

	count := scheduleFor(t, db, s, deal)
	require.Equal(t, 4, count)

	var firstBatch string
	require.NoError(t, db.Model(&models.GeneralTask{}).
		Where("deal_id = ?", deal.ID).
		Select("amc_task_id").Limit(1).Scan(&firstBatch).Error)

	// Contract shortened: full regeneration must leave only the new series
	*deal.AMCDurationInMonths = 6
	require.NoError(t, db.Save(deal).Error)

	count = scheduleFor(t, db, s, deal)
	assert.Equal(t, 2, count)

	var remaining []models.GeneralTask
	require.NoError(t, db.Where("deal_id = ?", deal.ID).Find(&remaining).Error)
	require.Len(t, remaining, 2)
	for _, task := range remaining {
		assert.NotEqual(t, firstBatch, task.AMCTaskID)
	}
}

func TestScheduleSkipsWhenNotReady(t *testing.T) {
	db := newTestDB(t)
	s := newTestScheduler(db)

	effective := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)

	notActive := seedAMCDeal(t, db, 12, effective)
	notActive.Stage = models.DealStageNegotiation
	require.NoError(t, db.Save(notActive).Error)
	assert.Zero(t, scheduleFor(t, db, s, notActive))

	noAssignee := seedAMCDeal(t, db, 12, effective)
	noAssignee.AssignedToID = nil
	require.NoError(t, db.Save(noAssignee).Error)
	assert.Zero(t, scheduleFor(t, db, s, noAssignee))

	noDuration := seedAMCDeal(t, db, 12, effective)
	noDuration.AMCDurationInMonths = nil
	require.NoError(t, db.Save(noDuration).Error)
	assert.Zero(t, scheduleFor(t, db, s, noDuration))

	salesPipeline := seedAMCDeal(t, db, 12, effective)
	salesPipeline.Pipeline = models.PipelineSales
	require.NoError(t, db.Save(salesPipeline).Error)
	assert.Zero(t, scheduleFor(t, db, s, salesPipeline))

	tooShort := seedAMCDeal(t, db, 2, effective)
	assert.Zero(t, scheduleFor(t, db, s, tooShort))
}
