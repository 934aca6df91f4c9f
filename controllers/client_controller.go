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

type ClientController struct {
	DB          *gorm.DB
	Logger      *log.Logger
	Coordinator *lifecycle.Coordinator
}

func NewClientController(db *gorm.DB, logger *log.Logger, coordinator *lifecycle.Coordinator) *ClientController {
	return &ClientController{
		DB:          db,
		Logger:      logger,
		Coordinator: coordinator,
	}
}

// GetClients returns paginated list of clients
func (cc *ClientController) GetClients(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit

	query := scopeForUser(cc.DB.Model(&models.Client{}), user)

	if city := c.Query("city"); city != "" {
		query = query.Where("city = ?", city)
	}

	var clients []models.Client
	if err := query.Offset(offset).Limit(limit).Order("created_at DESC").Find(&clients).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch clients", err)
	}

	var total int64
	query.Count(&total)

	return c.JSON(utils.PaginatedResponse{
		Data:  clients,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetClient returns a single client with deals and dependent records
func (cc *ClientController) GetClient(c *fiber.Ctx) error {
	clientID := c.Params("id")

	var client models.Client
	if err := cc.DB.
		Preload("ActivityRecords").
		Preload("Proposals").
		Preload("SiteSurveys").
		Preload("Deals").
		First(&client, "id = ?", clientID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Client not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch client", err)
	}

	return c.JSON(utils.SuccessResponse(client))
}

// DemoteClient converts a client back into a lead. Deals stay behind,
// unlinked.
func (cc *ClientController) DemoteClient(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	clientID := utils.ParseUint(c.Params("id"))

	leadID, err := cc.Coordinator.DemoteClient(lifecycle.ActorFor(user), clientID)
	if err != nil {
		return transitionError(c, "demote", clientID, err)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{
		"lead_id": leadID,
		"message": "Client demoted to lead",
	}))
}
