package controller

import (
	"errors"
	"log"
	"strconv"
	"time"

	"leadflow/config"
	"leadflow/lifecycle"
	"leadflow/models"
	"leadflow/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type LeadController struct {
	DB          *gorm.DB
	Logger      *log.Logger
	Coordinator *lifecycle.Coordinator
}

func NewLeadController(db *gorm.DB, logger *log.Logger, coordinator *lifecycle.Coordinator) *LeadController {
	return &LeadController{
		DB:          db,
		Logger:      logger,
		Coordinator: coordinator,
	}
}

// transitionError converts coordinator failures into the standard result
// envelope. Unexpected errors are logged server-side with full context and
// surfaced to the caller only as a generic message.
func transitionError(c *fiber.Ctx, operation string, id uint, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Record not found", nil)
	case errors.Is(err, lifecycle.ErrNoSession):
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Authorization required", nil)
	default:
		utils.LogError("lifecycle_transition", err, map[string]interface{}{
			"operation": operation,
			"source_id": id,
		})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "An unexpected error occurred", nil)
	}
}

// scopeForUser narrows list queries for sales users to their own prospects.
func scopeForUser(query *gorm.DB, user *models.User) *gorm.DB {
	if user.Role == models.RoleSales {
		return query.Where("assigned_to_id = ? OR created_by_id = ?", user.ID, user.ID)
	}
	return query
}

// CreateLead creates a new lead with validation
func (lc *LeadController) CreateLead(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		Name             string     `json:"name" validate:"required,max=200"`
		Company          string     `json:"company" validate:"omitempty,max=200"`
		Email            string     `json:"email" validate:"omitempty,email"`
		Phone            string     `json:"phone" validate:"omitempty,max=20"`
		Address          string     `json:"address" validate:"omitempty,max=500"`
		City             string     `json:"city" validate:"omitempty,max=100"`
		Source           string     `json:"source" validate:"omitempty,max=50"`
		Priority         string     `json:"priority" validate:"omitempty,oneof=High Average Low"`
		AssignedToID     *uint      `json:"assigned_to_id"`
		NextFollowUpDate *time.Time `json:"next_follow_up_date"`
		NextFollowUpTime string     `json:"next_follow_up_time" validate:"omitempty,max=10"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	if input.Email != "" {
		if err := utils.ValidateEmail(input.Email, config.AppConfig.CheckEmailHost); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid email", err)
		}
	}

	lead := models.Lead{
		ProspectCore: models.ProspectCore{
			Name:             input.Name,
			Company:          input.Company,
			Email:            input.Email,
			Phone:            input.Phone,
			Address:          input.Address,
			City:             input.City,
			Source:           input.Source,
			Status:           models.LeadStatusFresher,
			Priority:         input.Priority,
			AssignedToID:     input.AssignedToID,
			CreatedByID:      user.ID,
			NextFollowUpDate: input.NextFollowUpDate,
			NextFollowUpTime: input.NextFollowUpTime,
		},
	}
	if lead.Priority == "" {
		lead.Priority = models.PriorityAverage
	}

	if err := lc.DB.Create(&lead).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create lead", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(lead))
}

// GetLeads returns paginated list of leads with filters
func (lc *LeadController) GetLeads(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit

	status := c.Query("status")
	priority := c.Query("priority")
	city := c.Query("city")

	query := scopeForUser(lc.DB.Model(&models.Lead{}), user)

	if status != "" {
		query = query.Where("status = ?", status)
	}
	if priority != "" {
		query = query.Where("priority = ?", priority)
	}
	if city != "" {
		query = query.Where("city = ?", city)
	}

	var leads []models.Lead
	if err := query.Offset(offset).Limit(limit).Order("created_at DESC").Find(&leads).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch leads", err)
	}

	var total int64
	query.Count(&total)

	return c.JSON(utils.PaginatedResponse{
		Data:  leads,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetLead returns a single lead with its dependent records
func (lc *LeadController) GetLead(c *fiber.Ctx) error {
	leadID := c.Params("id")

	var lead models.Lead
	if err := lc.DB.
		Preload("ActivityRecords").
		Preload("Proposals").
		Preload("SiteSurveys").
		First(&lead, "id = ?", leadID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Lead not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch lead", err)
	}

	return c.JSON(utils.SuccessResponse(lead))
}

// UpdateLead updates lead details
func (lc *LeadController) UpdateLead(c *fiber.Ctx) error {
	leadID := c.Params("id")

	var input struct {
		Name             string     `json:"name" validate:"omitempty,max=200"`
		Company          string     `json:"company" validate:"omitempty,max=200"`
		Email            string     `json:"email" validate:"omitempty,email"`
		Phone            string     `json:"phone" validate:"omitempty,max=20"`
		Status           string     `json:"status" validate:"omitempty,max=50"`
		Priority         string     `json:"priority" validate:"omitempty,oneof=High Average Low"`
		AssignedToID     *uint      `json:"assigned_to_id"`
		NextFollowUpDate *time.Time `json:"next_follow_up_date"`
		NextFollowUpTime string     `json:"next_follow_up_time" validate:"omitempty,max=10"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var lead models.Lead
	if err := lc.DB.First(&lead, "id = ?", leadID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Lead not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch lead", err)
	}

	if input.Name != "" {
		lead.Name = input.Name
	}
	if input.Company != "" {
		lead.Company = input.Company
	}
	if input.Email != "" {
		if err := utils.ValidateEmail(input.Email, config.AppConfig.CheckEmailHost); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid email", err)
		}
		lead.Email = input.Email
	}
	if input.Phone != "" {
		lead.Phone = input.Phone
	}
	if input.Status != "" {
		lead.Status = input.Status
	}
	if input.Priority != "" {
		lead.Priority = input.Priority
	}
	if input.AssignedToID != nil {
		lead.AssignedToID = input.AssignedToID
	}
	if input.NextFollowUpDate != nil {
		lead.NextFollowUpDate = input.NextFollowUpDate
	}
	if input.NextFollowUpTime != "" {
		lead.NextFollowUpTime = input.NextFollowUpTime
	}

	if err := lc.DB.Save(&lead).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update lead", err)
	}

	return c.JSON(utils.SuccessResponse(lead))
}

// PromoteLead converts a lead into a client
func (lc *LeadController) PromoteLead(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	leadID := utils.ParseUint(c.Params("id"))

	clientID, err := lc.Coordinator.PromoteLead(lifecycle.ActorFor(user), leadID)
	if err != nil {
		return transitionError(c, "promote", leadID, err)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{
		"client_id": clientID,
		"message":   "Lead promoted to client",
	}))
}

// DropLead marks a lead as lost
func (lc *LeadController) DropLead(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	leadID := utils.ParseUint(c.Params("id"))

	var input struct {
		DropReason  string `json:"drop_reason" validate:"required,max=100"`
		DropComment string `json:"drop_comment" validate:"omitempty,max=1000"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	droppedID, err := lc.Coordinator.DropLead(lifecycle.ActorFor(user), leadID, input.DropReason, input.DropComment)
	if err != nil {
		return transitionError(c, "drop", leadID, err)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{
		"dropped_lead_id": droppedID,
		"message":         "Lead dropped",
	}))
}
