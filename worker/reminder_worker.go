package worker

import (
	"context"
	"log"
	"time"

	"leadflow/models"
	"leadflow/utils"

	"gorm.io/gorm"
)

// ReminderWorker emails assignees about tasks falling due today. It runs
// outside the engine's request-scoped transactions and only touches the
// reminder bookkeeping column.
type ReminderWorker struct {
	DB     *gorm.DB
	Mailer *utils.Mailer
	Logger *log.Logger
}

func NewReminderWorker(db *gorm.DB, mailer *utils.Mailer, logger *log.Logger) *ReminderWorker {
	return &ReminderWorker{
		DB:     db,
		Mailer: mailer,
		Logger: logger,
	}
}

func (rw *ReminderWorker) Start(ctx context.Context) {
	// Initial delay to let the server start up
	time.Sleep(10 * time.Second)

	rw.Logger.Println("Reminder worker started")

	ticker := time.NewTicker(15 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			rw.Logger.Println("Reminder worker shutting down...")
			return
		case <-ticker.C:
			rw.processDueTasks()
		}
	}
}

func (rw *ReminderWorker) processDueTasks() {
	startOfDay := time.Now().Truncate(24 * time.Hour)
	endOfDay := startOfDay.Add(24 * time.Hour)

	var tasks []models.GeneralTask
	if err := rw.DB.
		Where("status = ? AND reminder_sent_at IS NULL AND due_date >= ? AND due_date < ?",
			"Open", startOfDay, endOfDay).
		Find(&tasks).Error; err != nil {
		rw.Logger.Printf("Error fetching due tasks: %v", err)
		return
	}

	for _, task := range tasks {
		if err := rw.sendReminder(task); err != nil {
			rw.Logger.Printf("Error sending reminder for task %d: %v", task.ID, err)
			continue
		}
		if err := rw.DB.Model(&models.GeneralTask{}).
			Where("id = ?", task.ID).
			Update("reminder_sent_at", time.Now()).Error; err != nil {
			rw.Logger.Printf("Error marking reminder for task %d: %v", task.ID, err)
		}
	}
}

func (rw *ReminderWorker) sendReminder(task models.GeneralTask) error {
	var assignee models.User
	if err := rw.DB.First(&assignee, task.AssignedToID).Error; err != nil {
		return err
	}
	return rw.Mailer.SendTaskReminder(assignee.Email, assignee.Name, task.Title, task.Comment, task.DueDate)
}
