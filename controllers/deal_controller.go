package controller

import (
	"log"
	"strconv"
	"time"

	"leadflow/lifecycle"
	"leadflow/models"
	"leadflow/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type DealController struct {
	DB        *gorm.DB
	Logger    *log.Logger
	Scheduler *lifecycle.Scheduler
}

func NewDealController(db *gorm.DB, logger *log.Logger, scheduler *lifecycle.Scheduler) *DealController {
	return &DealController{
		DB:        db,
		Logger:    logger,
		Scheduler: scheduler,
	}
}

type dealInput struct {
	ClientID            *uint    `json:"client_id"`
	Title               string   `json:"title" validate:"omitempty,max=200"`
	Pipeline            string   `json:"pipeline" validate:"omitempty,oneof=Sales AMC"`
	Stage               string   `json:"stage" validate:"omitempty,oneof=New Negotiation Active Closed Lost"`
	DealValue           *float64 `json:"deal_value" validate:"omitempty,gte=0"`
	AssignedToID        *uint    `json:"assigned_to_id"`
	AMCDurationInMonths *int     `json:"amc_duration_in_months" validate:"omitempty,gt=0"`
}

// CreateDeal creates a deal, recomputes the owning client's total and, for
// AMC deals entering Active, schedules the quarterly task series.
func (dc *DealController) CreateDeal(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input dealInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	if input.Title == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Title is required", nil)
	}

	if input.ClientID != nil {
		var client models.Client
		if err := dc.DB.First(&client, *input.ClientID).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Client not found", nil)
		}
	}

	deal := models.Deal{
		ClientID:            input.ClientID,
		Title:               input.Title,
		Pipeline:            input.Pipeline,
		Stage:               input.Stage,
		AssignedToID:        input.AssignedToID,
		CreatedByID:         user.ID,
		AMCDurationInMonths: input.AMCDurationInMonths,
	}
	if deal.Pipeline == "" {
		deal.Pipeline = models.PipelineSales
	}
	if deal.Stage == "" {
		deal.Stage = models.DealStageNew
	}
	if input.DealValue != nil {
		deal.DealValue = *input.DealValue
	}
	// Effective date is stamped on the first transition into Active
	if deal.IsAMC() && deal.Stage == models.DealStageActive {
		deal.AMCEffectiveDate = utils.Pointer(time.Now())
	}

	var tasksScheduled int
	err := dc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&deal).Error; err != nil {
			return err
		}
		if deal.ClientID != nil {
			if _, err := lifecycle.RecalculateClientValue(tx, *deal.ClientID); err != nil {
				return err
			}
		}
		var err error
		tasksScheduled, err = dc.Scheduler.ScheduleTasks(tx, lifecycle.ActorFor(user), &deal)
		return err
	})
	if err != nil {
		utils.LogError("deal_create", err, map[string]interface{}{"user_id": user.ID})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "An unexpected error occurred", nil)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":               true,
		"data":                  deal,
		"tasks_scheduled_count": tasksScheduled,
	})
}

// UpdateDeal updates deal details and re-runs the aggregator and, when the
// deal is Active AMC, the task scheduler.
func (dc *DealController) UpdateDeal(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	dealID := c.Params("id")

	var input dealInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var deal models.Deal
	if err := dc.DB.First(&deal, "id = ?", dealID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Deal not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch deal", err)
	}

	previousClientID := deal.ClientID

	if input.Title != "" {
		deal.Title = input.Title
	}
	if input.Pipeline != "" {
		deal.Pipeline = input.Pipeline
	}
	if input.DealValue != nil {
		deal.DealValue = *input.DealValue
	}
	if input.ClientID != nil {
		var client models.Client
		if err := dc.DB.First(&client, *input.ClientID).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Client not found", nil)
		}
		deal.ClientID = input.ClientID
	}
	if input.AssignedToID != nil {
		deal.AssignedToID = input.AssignedToID
	}
	if input.AMCDurationInMonths != nil {
		deal.AMCDurationInMonths = input.AMCDurationInMonths
	}
	if input.Stage != "" {
		deal.Stage = input.Stage
		if deal.IsAMC() && deal.Stage == models.DealStageActive && deal.AMCEffectiveDate == nil {
			deal.AMCEffectiveDate = utils.Pointer(time.Now())
		}
	}

	var tasksScheduled int
	err := dc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&deal).Error; err != nil {
			return err
		}
		// Recompute totals for both sides of a client change
		if previousClientID != nil && (deal.ClientID == nil || *previousClientID != *deal.ClientID) {
			if _, err := lifecycle.RecalculateClientValue(tx, *previousClientID); err != nil {
				return err
			}
		}
		if deal.ClientID != nil {
			if _, err := lifecycle.RecalculateClientValue(tx, *deal.ClientID); err != nil {
				return err
			}
		}
		var err error
		tasksScheduled, err = dc.Scheduler.ScheduleTasks(tx, lifecycle.ActorFor(user), &deal)
		return err
	})
	if err != nil {
		utils.LogError("deal_update", err, map[string]interface{}{"deal_id": deal.ID})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "An unexpected error occurred", nil)
	}

	return c.JSON(fiber.Map{
		"success":               true,
		"data":                  deal,
		"tasks_scheduled_count": tasksScheduled,
	})
}

// SetDealStage transitions a deal to a new stage. The first transition into
// Active stamps the AMC effective date and schedules the task series.
func (dc *DealController) SetDealStage(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	dealID := c.Params("id")

	var input struct {
		Stage string `json:"stage" validate:"required,oneof=New Negotiation Active Closed Lost"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var deal models.Deal
	if err := dc.DB.First(&deal, "id = ?", dealID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Deal not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch deal", err)
	}

	deal.Stage = input.Stage
	if deal.IsAMC() && deal.Stage == models.DealStageActive && deal.AMCEffectiveDate == nil {
		deal.AMCEffectiveDate = utils.Pointer(time.Now())
	}

	var tasksScheduled int
	err := dc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&deal).Error; err != nil {
			return err
		}
		var err error
		tasksScheduled, err = dc.Scheduler.ScheduleTasks(tx, lifecycle.ActorFor(user), &deal)
		return err
	})
	if err != nil {
		utils.LogError("deal_stage", err, map[string]interface{}{"deal_id": deal.ID, "stage": input.Stage})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "An unexpected error occurred", nil)
	}

	return c.JSON(fiber.Map{
		"success":               true,
		"data":                  deal,
		"tasks_scheduled_count": tasksScheduled,
	})
}

// SetDealEffectiveDate corrects an AMC deal's effective date and regenerates
// the task series from the new date.
func (dc *DealController) SetDealEffectiveDate(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	dealID := c.Params("id")

	var input struct {
		EffectiveDate time.Time `json:"effective_date" validate:"required"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if input.EffectiveDate.IsZero() {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Effective date is required", nil)
	}

	var deal models.Deal
	if err := dc.DB.First(&deal, "id = ?", dealID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Deal not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch deal", err)
	}

	if !deal.IsAMC() {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Effective date applies to AMC deals only", nil)
	}

	deal.AMCEffectiveDate = &input.EffectiveDate

	var tasksScheduled int
	err := dc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&deal).Error; err != nil {
			return err
		}
		var err error
		tasksScheduled, err = dc.Scheduler.ScheduleTasks(tx, lifecycle.ActorFor(user), &deal)
		return err
	})
	if err != nil {
		utils.LogError("deal_effective_date", err, map[string]interface{}{"deal_id": deal.ID})
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "An unexpected error occurred", nil)
	}

	return c.JSON(fiber.Map{
		"success":               true,
		"data":                  deal,
		"tasks_scheduled_count": tasksScheduled,
	})
}

// GetDeals returns paginated deals with filters
func (dc *DealController) GetDeals(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit

	query := dc.DB.Model(&models.Deal{})

	if pipeline := c.Query("pipeline"); pipeline != "" {
		query = query.Where("pipeline = ?", pipeline)
	}
	if stage := c.Query("stage"); stage != "" {
		query = query.Where("stage = ?", stage)
	}
	if clientID := c.Query("client_id"); clientID != "" {
		query = query.Where("client_id = ?", utils.ParseUint(clientID))
	}

	var deals []models.Deal
	if err := query.Offset(offset).Limit(limit).Order("created_at DESC").Find(&deals).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch deals", err)
	}

	var total int64
	query.Count(&total)

	return c.JSON(utils.PaginatedResponse{
		Data:  deals,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}
