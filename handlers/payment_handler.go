package handlers

import (
	"errors"
	"log"
	"strings"

	"github.com/Alexandr290700/online-tutor/database"
	"github.com/Alexandr290700/online-tutor/models"
	"github.com/Alexandr290700/online-tutor/payments"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var supportedCurrencies = []string{"usd", "eur", "kgs"}

type PaymentRequest struct {
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Currency      string  `json:"currency" validate:"required,len=3"`
	Description   string  `json:"description" validate:"required,max=255"`
	PaymentMethod string  `json:"payment_method" validate:"required,oneof=credit_card"`
	ServiceCardID *string `json:"service_card_id,omitempty" validate:"omitempty,uuid"`
}

// CreatePayment charges a card through the payment processor. Unsupported
// currencies are rejected before the processor is contacted; processor
// failures come back as a bad request with a domain message.
func CreatePayment(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	accountID, _ := uuid.Parse(claims["user_id"].(string))

	var req PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	currency := strings.ToLower(req.Currency)
	if !isSupportedCurrency(currency) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unsupported currency. Allowed: USD, EUR, KGS"})
	}

	var cardID *uuid.UUID
	if req.ServiceCardID != nil {
		parsed, _ := uuid.Parse(*req.ServiceCardID)
		var card models.ServiceCard
		if err := database.DB.First(&card, "id = ?", parsed).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Service card not found"})
		}
		cardID = &parsed
	}

	charge, err := payments.CreateCardPayment(req.Amount, currency, req.Description)
	if err != nil {
		log.Printf("🔥 Payment processor error: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Payment could not be processed, please try again."})
	}

	record := models.PaymentRecord{
		AccountID:     accountID,
		ServiceCardID: cardID,
		Amount:        req.Amount,
		Currency:      currency,
		Description:   req.Description,
		Method:        req.PaymentMethod,
		ProviderTxnID: &charge.ProviderTxnID,
		Status:        charge.Status,
	}
	if err := database.DB.Create(&record).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record payment"})
	}

	// Paying for a course enrolls the student, which later gates review
	// eligibility.
	if cardID != nil {
		if err := enrollPayingStudent(accountID, *cardID); err != nil {
			log.Printf("Could not enroll paying student: %v", err)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"payment":       record,
		"client_secret": charge.ClientSecret,
	})
}

func enrollPayingStudent(accountID, cardID uuid.UUID) error {
	var student models.Student
	if err := database.DB.Where("account_id = ?", accountID).First(&student).Error; err != nil {
		return err
	}

	var existing models.Enrollment
	err := database.DB.Where("student_id = ? AND service_card_id = ?", student.ID, cardID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	enrollment := models.Enrollment{
		StudentID:     student.ID,
		ServiceCardID: cardID,
		Status:        models.EnrollmentEnrolled,
	}
	return database.DB.Create(&enrollment).Error
}

func ListMyPayments(c *fiber.Ctx) error {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	accountID, _ := uuid.Parse(claims["user_id"].(string))

	var records []models.PaymentRecord
	err := database.DB.
		Where("account_id = ?", accountID).
		Order("created_at desc").
		Find(&records).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(records)
}

func isSupportedCurrency(currency string) bool {
	for _, supported := range supportedCurrencies {
		if currency == supported {
			return true
		}
	}
	return false
}
