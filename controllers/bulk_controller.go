package controller

import (
	"errors"
	"fmt"
	"log"

	"leadflow/lifecycle"
	"leadflow/models"
	"leadflow/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type BulkController struct {
	DB          *gorm.DB
	Logger      *log.Logger
	Coordinator *lifecycle.Coordinator
}

func NewBulkController(db *gorm.DB, logger *log.Logger, coordinator *lifecycle.Coordinator) *BulkController {
	return &BulkController{
		DB:          db,
		Logger:      logger,
		Coordinator: coordinator,
	}
}

// BulkUpdateLeads applies a field patch to many leads in one statement.
// All-or-nothing: a bad assignee name rejects the batch before any write.
func (bc *BulkController) BulkUpdateLeads(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		IDs   []uint               `json:"ids" validate:"required,min=1"`
		Patch lifecycle.FieldPatch `json:"patch"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	count, err := bc.Coordinator.BulkUpdateLeads(lifecycle.ActorFor(user), input.IDs, input.Patch)
	if err != nil {
		switch {
		case errors.Is(err, lifecycle.ErrAssigneeNotFound):
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Assignee not found, no leads updated", nil)
		case errors.Is(err, lifecycle.ErrNoSession):
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Authorization required", nil)
		default:
			utils.LogError("bulk_update", err, map[string]interface{}{"user_id": user.ID})
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "An unexpected error occurred", nil)
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   count,
		"message": fmt.Sprintf("%d lead(s) updated", count),
	})
}
