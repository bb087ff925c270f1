package handlers

import (
	"github.com/Alexandr290700/online-tutor/database"
	"github.com/Alexandr290700/online-tutor/models"
	"github.com/gofiber/fiber/v2"
)

func ListAccounts(c *fiber.Ctx) error {
	query := database.DB.Model(&models.Account{}).Order("created_at desc")

	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var accounts []models.Account
	if err := query.Find(&accounts).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(accounts)
}

func ToggleAccountStatus(c *fiber.Ctx) error {
	type StatusRequest struct {
		IsActive *bool `json:"is_active" validate:"required"`
	}

	var req StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var account models.Account
	if err := database.DB.First(&account, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Account not found"})
	}

	account.IsActive = *req.IsActive
	if err := database.DB.Save(&account).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update account"})
	}
	return c.JSON(account)
}

func ListAllPayments(c *fiber.Ctx) error {
	var records []models.PaymentRecord
	err := database.DB.
		Preload("Account").
		Order("created_at desc").
		Find(&records).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(records)
}
