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

type SurveyController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewSurveyController(db *gorm.DB, logger *log.Logger) *SurveyController {
	return &SurveyController{
		DB:     db,
		Logger: logger,
	}
}

// CreateSurvey records a site survey against a prospect
func (sc *SurveyController) CreateSurvey(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input struct {
		OwnerType      string     `json:"owner_type" validate:"required,oneof=lead client dropped_lead"`
		OwnerID        uint       `json:"owner_id" validate:"required"`
		SurveyDate     *time.Time `json:"survey_date"`
		SurveyorID     *uint      `json:"surveyor_id"`
		SiteAddress    string     `json:"site_address" validate:"omitempty,max=500"`
		Findings       string     `json:"findings" validate:"omitempty,max=5000"`
		Recommendation string     `json:"recommendation" validate:"omitempty,max=5000"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	owner, err := resolveOwner(sc.DB, input.OwnerType, input.OwnerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Prospect not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid owner", err)
	}

	surveyDate := time.Now()
	if input.SurveyDate != nil {
		surveyDate = *input.SurveyDate
	}

	survey := models.SiteSurvey{
		SurveyDate:     surveyDate,
		SurveyorID:     input.SurveyorID,
		SiteAddress:    input.SiteAddress,
		Findings:       input.Findings,
		Recommendation: input.Recommendation,
		CreatedByID:    user.ID,
	}
	survey.SetOwner(owner)

	if err := sc.DB.Create(&survey).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create survey", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(survey))
}

// GetSurveys lists site surveys for a prospect
func (sc *SurveyController) GetSurveys(c *fiber.Ctx) error {
	owner, err := resolveOwner(sc.DB, c.Query("owner_type"), utils.ParseUint(c.Query("owner_id")))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Prospect not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid owner", err)
	}

	var surveys []models.SiteSurvey
	if err := sc.DB.
		Where(owner.Column()+" = ?", owner.ID).
		Order("survey_date DESC").
		Find(&surveys).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch surveys", err)
	}

	return c.JSON(utils.SuccessResponse(surveys))
}
