package handlers

import (
	"errors"
	"regexp"
	"strconv"

	"github.com/Alexandr290700/online-tutor/database"
	"github.com/Alexandr290700/online-tutor/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Phone numbers are accepted only in the local "+996 xxx xxx xxx" format.
var phonePattern = regexp.MustCompile(`^\+996 \d{3} \d{3} \d{3}$`)

type SpecialistRequest struct {
	FirstName         string  `json:"first_name" validate:"required,max=100"`
	LastName          string  `json:"last_name" validate:"required,max=100"`
	Age               int     `json:"age" validate:"required,min=18,max=100"`
	Phone             string  `json:"phone" validate:"required"`
	Email             string  `json:"email" validate:"required,email"`
	Services          string  `json:"services" validate:"required"`
	Education         string  `json:"education" validate:"required"`
	ConsultationPrice float64 `json:"consultation_price" validate:"required,gt=0"`
	Instagram         string  `json:"instagram"`
	ProfilePictureURL *string `json:"profile_picture_url"`
}

func ListSpecialists(c *fiber.Ctx) error {
	query := database.DB.Model(&models.Specialist{}).Preload("Account").Order("first_name")

	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("first_name LIKE ? OR last_name LIKE ?", pattern, pattern)
	}
	if minRating := c.Query("min_rating"); minRating != "" {
		value, err := strconv.ParseFloat(minRating, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "min_rating must be a number"})
		}
		query = query.Where("rating >= ?", value)
	}

	var specialists []models.Specialist
	if err := query.Find(&specialists).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(specialists)
}

func GetSpecialist(c *fiber.Ctx) error {
	var specialist models.Specialist
	if err := database.DB.Preload("Account").First(&specialist, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Specialist not found"})
	}
	return c.JSON(specialist)
}

func CreateSpecialist(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	accountID, _ := uuid.Parse(claims["user_id"].(string))

	var req SpecialistRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if !phonePattern.MatchString(req.Phone) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Phone number must be in format: +996 xxx xxx xxx"})
	}

	var existing models.Specialist
	err := database.DB.Where("account_id = ?", accountID).First(&existing).Error
	if err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "You already have a specialist profile"})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	specialist := models.Specialist{
		AccountID:         accountID,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Age:               req.Age,
		Phone:             req.Phone,
		Email:             req.Email,
		Services:          req.Services,
		Education:         req.Education,
		ConsultationPrice: req.ConsultationPrice,
		Instagram:         req.Instagram,
		ProfilePictureURL: req.ProfilePictureURL,
	}

	if err := database.DB.Create(&specialist).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create specialist profile"})
	}

	return c.Status(fiber.StatusCreated).JSON(specialist)
}

func UpdateSpecialist(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	accountID, _ := uuid.Parse(claims["user_id"].(string))

	var specialist models.Specialist
	if err := database.DB.First(&specialist, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Specialist not found"})
	}
	if specialist.AccountID != accountID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You can only update your own profile"})
	}

	var req SpecialistRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if !phonePattern.MatchString(req.Phone) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Phone number must be in format: +996 xxx xxx xxx"})
	}

	// Rating is derived from reviews and never accepted from the request.
	specialist.FirstName = req.FirstName
	specialist.LastName = req.LastName
	specialist.Age = req.Age
	specialist.Phone = req.Phone
	specialist.Email = req.Email
	specialist.Services = req.Services
	specialist.Education = req.Education
	specialist.ConsultationPrice = req.ConsultationPrice
	specialist.Instagram = req.Instagram
	if req.ProfilePictureURL != nil {
		specialist.ProfilePictureURL = req.ProfilePictureURL
	}

	if err := database.DB.Save(&specialist).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update specialist profile"})
	}
	return c.JSON(specialist)
}

func DeleteSpecialist(c *fiber.Ctx) error {
	result := database.DB.Delete(&models.Specialist{}, "id = ?", c.Params("id"))
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete specialist"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Specialist not found"})
	}
	return c.JSON(fiber.Map{"message": "Specialist deleted successfully"})
}
