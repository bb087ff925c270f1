package handlers

import (
	"github.com/Alexandr290700/online-tutor/database"
	"github.com/Alexandr290700/online-tutor/models"
	"github.com/Alexandr290700/online-tutor/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func ListCardReviews(c *fiber.Ctx) error {
	var reviews []models.Review
	err := database.DB.
		Where("service_card_id = ?", c.Params("id")).
		Order("created_at desc").
		Find(&reviews).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(reviews)
}

func GetReview(c *fiber.Ctx) error {
	var review models.Review
	if err := database.DB.First(&review, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Review not found"})
	}
	return c.JSON(review)
}

// UpdateReview edits a review's rating and recomputes the specialist's rating
// over the full current review set, the edited value included.
func UpdateReview(c *fiber.Ctx) error {
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

	var review models.Review
	if err := database.DB.Preload("Student").Preload("ServiceCard").First(&review, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Review not found"})
	}
	if review.Student.AccountID != accountID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You can only edit your own reviews"})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		review.Rating = req.Rating
		if err := tx.Save(&review).Error; err != nil {
			return err
		}
		return services.RecalculateSpecialistRating(tx, review.ServiceCard.SpecialistID)
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update review"})
	}

	return c.JSON(review)
}

func DeleteReview(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	accountID, _ := uuid.Parse(claims["user_id"].(string))
	role := models.Role(claims["role"].(string))

	var review models.Review
	if err := database.DB.Preload("Student").Preload("ServiceCard").First(&review, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Review not found"})
	}
	if role != models.RoleAdmin && review.Student.AccountID != accountID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You can only delete your own reviews"})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&review).Error; err != nil {
			return err
		}
		return services.RecalculateSpecialistRating(tx, review.ServiceCard.SpecialistID)
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete review"})
	}

	return c.JSON(fiber.Map{"message": "Review deleted successfully"})
}
