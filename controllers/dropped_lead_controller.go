package controller

import (
	"log"
	"strconv"

	"leadflow/lifecycle"
	"leadflow/models"
	"leadflow/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type DroppedLeadController struct {
	DB          *gorm.DB
	Logger      *log.Logger
	Coordinator *lifecycle.Coordinator
}

func NewDroppedLeadController(db *gorm.DB, logger *log.Logger, coordinator *lifecycle.Coordinator) *DroppedLeadController {
	return &DroppedLeadController{
		DB:          db,
		Logger:      logger,
		Coordinator: coordinator,
	}
}

// GetDroppedLeads returns paginated list of dropped leads
func (dc *DroppedLeadController) GetDroppedLeads(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit

	query := scopeForUser(dc.DB.Model(&models.DroppedLead{}), user)

	if reason := c.Query("drop_reason"); reason != "" {
		query = query.Where("drop_reason = ?", reason)
	}

	var dropped []models.DroppedLead
	if err := query.Offset(offset).Limit(limit).Order("dropped_at DESC").Find(&dropped).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch dropped leads", err)
	}

	var total int64
	query.Count(&total)

	return c.JSON(utils.PaginatedResponse{
		Data:  dropped,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// ReactivateLead returns a dropped lead to the active pipeline
func (dc *DroppedLeadController) ReactivateLead(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	droppedID := utils.ParseUint(c.Params("id"))

	leadID, err := dc.Coordinator.ReactivateDroppedLead(lifecycle.ActorFor(user), droppedID)
	if err != nil {
		return transitionError(c, "reactivate", droppedID, err)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{
		"new_lead_id": leadID,
		"message":     "Dropped lead reactivated",
	}))
}

// BulkReactivate reactivates many dropped leads. Each id is its own
// transition: ids that fail are skipped and the success count returned.
func (dc *DroppedLeadController) BulkReactivate(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		IDs []uint `json:"ids" validate:"required,min=1"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	count, err := dc.Coordinator.BulkReactivate(lifecycle.ActorFor(user), input.IDs)
	if err != nil {
		return transitionError(c, "bulk_reactivate", 0, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   count,
		"message": strconv.Itoa(count) + " of " + strconv.Itoa(len(input.IDs)) + " dropped leads reactivated",
	})
}
