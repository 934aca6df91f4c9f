package lifecycle

import (
	"fmt"
	"log"

	"leadflow/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scheduler derives the quarterly maintenance task series for AMC deals.
type Scheduler struct {
	DB     *gorm.DB
	Logger *log.Logger
	Events *Hub
}

func NewScheduler(db *gorm.DB, logger *log.Logger, events *Hub) *Scheduler {
	return &Scheduler{
		DB:     db,
		Logger: logger,
		Events: events,
	}
}

// ScheduleTasks regenerates the quarterly task series for an AMC deal inside
// the caller's transaction. Every existing task for the deal is deleted and
// the series rebuilt from the current effective date and duration, so edits
// never leave stale tasks behind. One task per full quarter
// (floor(months/3)), due every three months after the effective date, all
// tagged with a fresh shared batch id.
//
// Returns the number of tasks created; zero with no error when the deal is
// not ready to schedule (not AMC, not Active, or missing duration, assignee
// or effective date).
func (s *Scheduler) ScheduleTasks(tx *gorm.DB, actor Actor, deal *models.Deal) (int, error) {
	if !deal.IsAMC() || deal.Stage != models.DealStageActive {
		return 0, nil
	}
	if deal.AMCDurationInMonths == nil || deal.AssignedToID == nil || deal.AMCEffectiveDate == nil {
		return 0, nil
	}

	quarters := *deal.AMCDurationInMonths / 3
	if quarters < 1 {
		return 0, nil
	}

	if err := tx.Unscoped().
		Where("deal_id = ?", deal.ID).
		Delete(&models.GeneralTask{}).Error; err != nil {
		return 0, err
	}

	clientName := deal.Title
	if deal.ClientID != nil {
		var client models.Client
		if err := tx.First(&client, *deal.ClientID).Error; err == nil {
			clientName = client.Name
		}
	}

	batchID := uuid.NewString()
	tasks := make([]models.GeneralTask, 0, quarters)
	for i := 1; i <= quarters; i++ {
		dealID := deal.ID
		tasks = append(tasks, models.GeneralTask{
			Title:        fmt.Sprintf("AMC service visit: %s", clientName),
			Comment:      fmt.Sprintf("%s AMC maintenance, Quarter %d/%d", clientName, i, quarters),
			Priority:     "Medium",
			DueDate:      deal.AMCEffectiveDate.AddDate(0, 3*i, 0),
			AssignedToID: *deal.AssignedToID,
			CreatedByID:  actor.UserID,
			DealID:       &dealID,
			AMCTaskID:    batchID,
		})
	}
	if err := tx.Create(&tasks).Error; err != nil {
		return 0, err
	}

	s.Logger.Printf("deal %d: scheduled %d quarterly AMC task(s), batch %s", deal.ID, quarters, batchID)
	s.Events.Publish(Event{Kind: EventTasksScheduled, SourceID: deal.ID, Count: quarters, ActorID: actor.UserID})
	return quarters, nil
}
