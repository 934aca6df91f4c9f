package controller

import (
	"errors"
	"log"
	"time"

	"leadflow/models"
	"leadflow/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ActivityController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewActivityController(db *gorm.DB, logger *log.Logger) *ActivityController {
	return &ActivityController{
		DB:     db,
		Logger: logger,
	}
}

// resolveOwner validates an owner_type/owner_id pair against the matching
// prospect table and returns the ref. Dependent records are only ever
// created against an owner that exists.
func resolveOwner(db *gorm.DB, ownerType string, ownerID uint) (models.OwnerRef, error) {
	switch models.OwnerKind(ownerType) {
	case models.OwnerLead:
		var lead models.Lead
		if err := db.First(&lead, ownerID).Error; err != nil {
			return models.NoOwner(), err
		}
		return models.LeadOwner(ownerID), nil
	case models.OwnerClient:
		var client models.Client
		if err := db.First(&client, ownerID).Error; err != nil {
			return models.NoOwner(), err
		}
		return models.ClientOwner(ownerID), nil
	case models.OwnerDroppedLead:
		var dropped models.DroppedLead
		if err := db.First(&dropped, ownerID).Error; err != nil {
			return models.NoOwner(), err
		}
		return models.DroppedLeadOwner(ownerID), nil
	}
	return models.NoOwner(), errors.New("unknown owner type")
}

// CreateActivity records a follow-up or scheduled task against a prospect.
// Follow-up comments also refresh the prospect's denormalized last-comment
// snapshot.
func (ac *ActivityController) CreateActivity(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		OwnerType     string     `json:"owner_type" validate:"required,oneof=lead client dropped_lead"`
		OwnerID       uint       `json:"owner_id" validate:"required"`
		ActivityType  string     `json:"activity_type" validate:"required,oneof=follow_up task call meeting site_visit"`
		ActivityAt    *time.Time `json:"activity_at"`
		Comment       string     `json:"comment" validate:"omitempty,max=2000"`
		TaskForUserID *uint      `json:"task_for_user_id"`
		TaskDate      *time.Time `json:"task_date"`
		TaskTime      string     `json:"task_time" validate:"omitempty,max=10"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	owner, err := resolveOwner(ac.DB, input.OwnerType, input.OwnerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Prospect not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid owner", err)
	}

	activityAt := time.Now()
	if input.ActivityAt != nil {
		activityAt = *input.ActivityAt
	}

	record := models.ActivityRecord{
		ActivityType:  input.ActivityType,
		ActivityAt:    activityAt,
		Comment:       input.Comment,
		TaskForUserID: input.TaskForUserID,
		TaskDate:      input.TaskDate,
		TaskTime:      input.TaskTime,
		CreatedByID:   user.ID,
	}
	record.SetOwner(owner)

	err = ac.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		if input.Comment == "" {
			return nil
		}
		// Refresh the owner's last-comment snapshot
		snapshot := map[string]interface{}{
			"last_comment":    input.Comment,
			"last_comment_at": activityAt,
		}
		switch owner.Kind {
		case models.OwnerLead:
			return tx.Model(&models.Lead{}).Where("id = ?", owner.ID).Updates(snapshot).Error
		case models.OwnerClient:
			return tx.Model(&models.Client{}).Where("id = ?", owner.ID).Updates(snapshot).Error
		case models.OwnerDroppedLead:
			return tx.Model(&models.DroppedLead{}).Where("id = ?", owner.ID).Updates(snapshot).Error
		}
		return nil
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create activity", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(record))
}

// GetActivities lists activity records for a prospect
func (ac *ActivityController) GetActivities(c *fiber.Ctx) error {
	ownerType := c.Query("owner_type")
	ownerID := utils.ParseUint(c.Query("owner_id"))

	owner, err := resolveOwner(ac.DB, ownerType, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Prospect not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid owner", err)
	}

	var records []models.ActivityRecord
	if err := ac.DB.
		Where(owner.Column()+" = ?", owner.ID).
		Order("activity_at DESC").
		Find(&records).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch activities", err)
	}

	return c.JSON(utils.SuccessResponse(records))
}
