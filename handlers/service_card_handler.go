package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/Alexandr290700/online-tutor/database"
	"github.com/Alexandr290700/online-tutor/models"
	"github.com/Alexandr290700/online-tutor/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ServiceCardRequest struct {
	Variant     string  `json:"variant" validate:"required,oneof=individual group"`
	Name        string  `json:"name" validate:"required,max=100"`
	ImageURL    *string `json:"image_url"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Date        *string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

func ListServiceCards(c *fiber.Ctx) error {
	query := database.DB.Model(&models.ServiceCard{}).
		Preload("Specialist").
		Joins("JOIN specialists ON specialists.id = service_cards.specialist_id")

	if variant := c.Query("variant"); variant != "" {
		query = query.Where("service_cards.variant = ?", variant)
	}
	if minRating := c.Query("min_rating"); minRating != "" {
		value, err := strconv.ParseFloat(minRating, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "min_rating must be a number"})
		}
		query = query.Where("specialists.rating >= ?", value)
	}
	if maxPrice := c.Query("max_price"); maxPrice != "" {
		value, err := strconv.ParseFloat(maxPrice, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "max_price must be a number"})
		}
		query = query.Where("service_cards.price <= ?", value)
	}

	switch c.Query("ordering") {
	case "price":
		query = query.Order("service_cards.price")
	case "-price":
		query = query.Order("service_cards.price desc")
	default:
		query = query.Order("service_cards.name")
	}

	var cards []models.ServiceCard
	if err := query.Find(&cards).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(cards)
}

func GetServiceCard(c *fiber.Ctx) error {
	var card models.ServiceCard
	if err := database.DB.Preload("Specialist").First(&card, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Service card not found"})
	}
	return c.JSON(card)
}

func CreateServiceCard(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	accountID, _ := uuid.Parse(claims["user_id"].(string))

	var req ServiceCardRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var specialist models.Specialist
	if err := database.DB.Where("account_id = ?", accountID).First(&specialist).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "You must create a specialist profile first"})
	}

	var date *time.Time
	if models.CardVariant(req.Variant) == models.VariantGroup {
		if req.Date == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Group lessons require a scheduled date"})
		}
		parsed, _ := time.Parse(time.RFC3339, *req.Date)
		date = &parsed
	}

	card := models.ServiceCard{
		Variant:      models.CardVariant(req.Variant),
		Name:         req.Name,
		ImageURL:     req.ImageURL,
		Description:  req.Description,
		SpecialistID: specialist.ID,
		Price:        req.Price,
		Date:         date,
	}

	if err := database.DB.Create(&card).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create service card"})
	}

	return c.Status(fiber.StatusCreated).JSON(card)
}

func UpdateServiceCard(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	accountID, _ := uuid.Parse(claims["user_id"].(string))

	var card models.ServiceCard
	if err := database.DB.Preload("Specialist").First(&card, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Service card not found"})
	}
	if card.Specialist.AccountID != accountID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not the tutor for this card"})
	}

	var req ServiceCardRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if models.CardVariant(req.Variant) == models.VariantGroup && req.Date == nil && card.Date == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Group lessons require a scheduled date"})
	}

	// Completion state is only mutated through the complete endpoint.
	card.Variant = models.CardVariant(req.Variant)
	card.Name = req.Name
	card.Description = req.Description
	card.Price = req.Price
	if req.ImageURL != nil {
		card.ImageURL = req.ImageURL
	}
	if req.Date != nil {
		parsed, _ := time.Parse(time.RFC3339, *req.Date)
		card.Date = &parsed
	}

	if err := database.DB.Save(&card).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update service card"})
	}
	return c.JSON(card)
}

func DeleteServiceCard(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	accountID, _ := uuid.Parse(claims["user_id"].(string))
	role := models.Role(claims["role"].(string))

	var card models.ServiceCard
	if err := database.DB.Preload("Specialist").First(&card, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Service card not found"})
	}
	if role != models.RoleAdmin && card.Specialist.AccountID != accountID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not the tutor for this card"})
	}

	if err := database.DB.Delete(&card).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete service card"})
	}
	return c.JSON(fiber.Map{"message": "Service card deleted successfully"})
}

// MarkCardCompleted marks a card as delivered. Only the owning specialist may
// complete a card, and a completed card never transitions back. Re-invocation
// by the owner re-confirms the same state.
func MarkCardCompleted(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	accountID, _ := uuid.Parse(claims["user_id"].(string))

	var card models.ServiceCard
	if err := database.DB.Preload("Specialist").First(&card, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No such course"})
	}

	if card.Specialist.AccountID != accountID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not the tutor for this card"})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		card.Completed = true
		card.CompletedByID = &card.SpecialistID
		if err := tx.Save(&card).Error; err != nil {
			return err
		}

		// Enrollments complete together with the course so their holders
		// become eligible to review it.
		return tx.Model(&models.Enrollment{}).
			Where("service_card_id = ? AND status = ?", card.ID, models.EnrollmentEnrolled).
			Update("status", models.EnrollmentCompleted).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to complete course"})
	}

	return c.JSON(fiber.Map{"message": "Course marked as completed."})
}

func EnrollInCard(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	accountID, _ := uuid.Parse(claims["user_id"].(string))

	var student models.Student
	if err := database.DB.Where("account_id = ?", accountID).First(&student).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "You must create a student profile first"})
	}

	var card models.ServiceCard
	if err := database.DB.First(&card, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No such course"})
	}
	if card.Completed {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "This course has already been completed"})
	}

	var existing models.Enrollment
	err := database.DB.Where("student_id = ? AND service_card_id = ?", student.ID, card.ID).First(&existing).Error
	if err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "You are already enrolled in this course"})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	enrollment := models.Enrollment{
		StudentID:     student.ID,
		ServiceCardID: card.ID,
		Status:        models.EnrollmentEnrolled,
	}
	if err := database.DB.Create(&enrollment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to enroll"})
	}

	return c.Status(fiber.StatusCreated).JSON(enrollment)
}

type ReviewRequest struct {
	Rating float64 `json:"rating" validate:"required,min=1,max=5"`
}

var errCourseNotFound = errors.New("course not found")

// CreateReview attaches a review to a completed card and recomputes the owning
// specialist's rating. The review write and the rating write commit in one
// transaction.
func CreateReview(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	accountID, _ := uuid.Parse(claims["user_id"].(string))

	var req ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var student models.Student
	if err := database.DB.Where("account_id = ?", accountID).First(&student).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "You must create a student profile first"})
	}

	var review models.Review
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var card models.ServiceCard
		if err := tx.First(&card, "id = ?", c.Params("id")).Error; err != nil {
			return errCourseNotFound
		}
		if !card.Completed {
			return errors.New("you cannot leave a review before the course is completed")
		}

		var enrollment models.Enrollment
		err := tx.Where(
			"student_id = ? AND service_card_id = ? AND status = ?",
			student.ID, card.ID, models.EnrollmentCompleted,
		).First(&enrollment).Error
		if err != nil {
			return errors.New("you cannot review a course you have not completed")
		}

		review = models.Review{
			ServiceCardID: card.ID,
			StudentID:     student.ID,
			Rating:        req.Rating,
		}
		if err := tx.Create(&review).Error; err != nil {
			return err
		}

		return services.RecalculateSpecialistRating(tx, card.SpecialistID)
	})
	if err != nil {
		if errors.Is(err, errCourseNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(review)
}
