package controller

import (
	"errors"
	"fmt"
	"log"
	"time"

	"leadflow/models"
	"leadflow/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ProposalController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewProposalController(db *gorm.DB, logger *log.Logger) *ProposalController {
	return &ProposalController{
		DB:     db,
		Logger: logger,
	}
}

// CreateProposal creates a commercial offer against a prospect
func (pc *ProposalController) CreateProposal(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		OwnerType  string  `json:"owner_type" validate:"required,oneof=lead client dropped_lead"`
		OwnerID    uint    `json:"owner_id" validate:"required"`
		Title      string  `json:"title" validate:"required,max=200"`
		Amount     float64 `json:"amount" validate:"gte=0"`
		TaxPercent float64 `json:"tax_percent" validate:"gte=0,lte=100"`
		Notes      string  `json:"notes" validate:"omitempty,max=2000"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	owner, err := resolveOwner(pc.DB, input.OwnerType, input.OwnerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Prospect not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid owner", err)
	}

	now := time.Now()
	proposal := models.Proposal{
		Reference:   fmt.Sprintf("PRO-%s-%d", now.Format("200601"), now.UnixNano()%100000),
		Title:       input.Title,
		ProposedAt:  &now,
		Notes:       input.Notes,
		Amount:      input.Amount,
		TaxPercent:  input.TaxPercent,
		CreatedByID: user.ID,
	}
	if proposal.TaxPercent == 0 {
		proposal.TaxPercent = 18
	}
	proposal.ComputeTotals()
	proposal.SetOwner(owner)

	if err := pc.DB.Create(&proposal).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create proposal", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(proposal))
}

// UpdateProposalStatus moves a proposal through Draft/Sent/Accepted/Rejected
func (pc *ProposalController) UpdateProposalStatus(c *fiber.Ctx) error {
	proposalID := c.Params("id")

	var input struct {
		Status string `json:"status" validate:"required,oneof=Draft Sent Accepted Rejected"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var proposal models.Proposal
	if err := pc.DB.First(&proposal, "id = ?", proposalID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Proposal not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch proposal", err)
	}

	proposal.Status = input.Status
	if err := pc.DB.Save(&proposal).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update proposal", err)
	}

	return c.JSON(utils.SuccessResponse(proposal))
}

// GetProposals lists proposals for a prospect
func (pc *ProposalController) GetProposals(c *fiber.Ctx) error {
	owner, err := resolveOwner(pc.DB, c.Query("owner_type"), utils.ParseUint(c.Query("owner_id")))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Prospect not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid owner", err)
	}

	var proposals []models.Proposal
	if err := pc.DB.
		Where(owner.Column()+" = ?", owner.ID).
		Order("created_at DESC").
		Find(&proposals).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch proposals", err)
	}

	return c.JSON(utils.SuccessResponse(proposals))
}
