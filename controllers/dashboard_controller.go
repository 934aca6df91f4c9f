package controller

import (
	"log"
	"time"

	"leadflow/models"
	"leadflow/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type DashboardController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewDashboardController(db *gorm.DB, logger *log.Logger) *DashboardController {
	return &DashboardController{
		DB:     db,
		Logger: logger,
	}
}

type PipelineStats struct {
	TotalLeads      int64   `json:"total_leads"`
	TotalClients    int64   `json:"total_clients"`
	TotalDropped    int64   `json:"total_dropped"`
	LeadsByStatus   []Count `json:"leads_by_status"`
	DroppedByReason []Count `json:"dropped_by_reason"`
	TotalDealValue  float64 `json:"total_deal_value"`
	ActiveAMCDeals  int64   `json:"active_amc_deals"`
	TasksDueToday   int64   `json:"tasks_due_today"`
}

type Count struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// GetPipelineStats returns summary statistics for the dashboard cards
func (dc *DashboardController) GetPipelineStats(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var stats PipelineStats

	leads := scopeForUser(dc.DB.Model(&models.Lead{}), user)
	if err := leads.Count(&stats.TotalLeads).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get lead stats", err)
	}

	if err := scopeForUser(dc.DB.Model(&models.Lead{}), user).
		Select("status AS key, COUNT(*) AS count").
		Group("status").
		Scan(&stats.LeadsByStatus).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get lead stats", err)
	}

	if err := scopeForUser(dc.DB.Model(&models.Client{}), user).Count(&stats.TotalClients).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get client stats", err)
	}

	if err := scopeForUser(dc.DB.Model(&models.DroppedLead{}), user).Count(&stats.TotalDropped).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get dropped lead stats", err)
	}

	if err := scopeForUser(dc.DB.Model(&models.DroppedLead{}), user).
		Select("drop_reason AS key, COUNT(*) AS count").
		Group("drop_reason").
		Scan(&stats.DroppedByReason).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get dropped lead stats", err)
	}

	if err := dc.DB.Model(&models.Deal{}).
		Select("COALESCE(SUM(deal_value), 0)").
		Scan(&stats.TotalDealValue).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get deal stats", err)
	}

	if err := dc.DB.Model(&models.Deal{}).
		Where("pipeline = ? AND stage = ?", models.PipelineAMC, models.DealStageActive).
		Count(&stats.ActiveAMCDeals).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get deal stats", err)
	}

	startOfDay := time.Now().Truncate(24 * time.Hour)
	if err := dc.DB.Model(&models.GeneralTask{}).
		Where("status = ? AND due_date >= ? AND due_date < ?", "Open", startOfDay, startOfDay.Add(24*time.Hour)).
		Count(&stats.TasksDueToday).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get task stats", err)
	}

	return c.JSON(utils.SuccessResponse(stats))
}

// GetUpcomingTasks returns the next scheduled AMC and general tasks
func (dc *DashboardController) GetUpcomingTasks(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	query := dc.DB.Model(&models.GeneralTask{}).
		Where("status = ? AND due_date >= ?", "Open", time.Now())
	if user.Role == models.RoleSales {
		query = query.Where("assigned_to_id = ?", user.ID)
	}

	var tasks []models.GeneralTask
	if err := query.Order("due_date ASC").Limit(20).Find(&tasks).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch tasks", err)
	}

	return c.JSON(utils.SuccessResponse(tasks))
}
