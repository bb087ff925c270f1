package handlers

import (
	"errors"
	"fmt"
	"time"

	config "github.com/Alexandr290700/online-tutor/configs"
	"github.com/Alexandr290700/online-tutor/database"
	"github.com/Alexandr290700/online-tutor/models"
	"github.com/Alexandr290700/online-tutor/notifications"
	"github.com/Alexandr290700/online-tutor/redis"
	"github.com/Alexandr290700/online-tutor/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var validate = validator.New()

var errEmailExists = errors.New("email already exists")

const (
	accessTokenTTL  = 72 * time.Hour
	refreshTokenTTL = 30 * 24 * time.Hour
)

type RegisterRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Role      string `json:"role" validate:"required"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	Password2 string `json:"password2" validate:"required,min=8,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func RegisterAccount(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.Password != req.Password2 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Password fields didn't match"})
	}

	// Admin accounts are only ever seeded, never self-registered.
	role := models.Role(req.Role)
	if !role.Valid() || role == models.RoleAdmin {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Role must be either tutor or student"})
	}

	var count int64
	if err := database.DB.Model(&models.Account{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	if count > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Account with this email already exists"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	var account models.Account
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		code, err := utils.GenerateActivationCode(tx)
		if err != nil {
			return err
		}

		account = models.Account{
			FirstName:      req.FirstName,
			LastName:       req.LastName,
			Email:          req.Email,
			Password:       string(hashedPassword),
			Role:           role,
			IsActive:       false,
			ActivationCode: &code,
		}
		if err := tx.Create(&account).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errEmailExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errEmailExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Account with this email already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create account"})
	}

	activationLink := fmt.Sprintf("%s/api/v1/auth/activate/%s", config.Config("BASE_URL"), *account.ActivationCode)
	go notifications.SendActivationEmail(account.FirstName+" "+account.LastName, account.Email, activationLink)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": "You have registered successfully",
		"message": "An activation email has been sent to you.",
	})
}

func ActivateAccount(c *fiber.Ctx) error {
	code := c.Params("code")

	var account models.Account
	if err := database.DB.Where("activation_code = ?", code).First(&account).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Invalid activation code"})
	}

	account.IsActive = true
	account.ActivationCode = nil
	if err := database.DB.Save(&account).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to activate account"})
	}

	return c.JSON(fiber.Map{"message": "Account activated successfully. You can now log in."})
}

func LoginAccount(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var account models.Account
	if err := database.DB.Where("email = ?", req.Email).First(&account).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}

	if !account.IsActive {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Account is not active, please activate your account first"})
	}

	access, err := issueAccessToken(account)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create token"})
	}
	refresh, err := issueRefreshToken(account)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create token"})
	}

	return c.JSON(fiber.Map{"access": access, "refresh": refresh})
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh" validate:"required"`
}

func RefreshToken(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	claims, err := parseRefreshClaims(req.RefreshToken)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired refresh token"})
	}

	jti := claims["jti"].(string)
	if _, err := redis.Client.Get(redis.Ctx, refreshKey(jti)).Result(); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Refresh token has been revoked"})
	}

	accountID, _ := uuid.Parse(claims["user_id"].(string))
	var account models.Account
	if err := database.DB.First(&account, "id = ?", accountID).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Account not found"})
	}
	if !account.IsActive {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Account is not active"})
	}

	access, err := issueAccessToken(account)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create token"})
	}

	return c.JSON(fiber.Map{"access": access})
}

func LogoutAccount(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	claims, err := parseRefreshClaims(req.RefreshToken)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid refresh token"})
	}

	jti := claims["jti"].(string)
	redis.Client.Del(redis.Ctx, refreshKey(jti))

	return c.JSON(fiber.Map{"detail": "User successfully logged out."})
}

func issueAccessToken(account models.Account) (string, error) {
	claims := jwt.MapClaims{
		"user_id": account.ID.String(),
		"role":    string(account.Role),
		"exp":     time.Now().Add(accessTokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Config("JWT_SECRET")))
}

func issueRefreshToken(account models.Account) (string, error) {
	jti := uuid.New().String()
	claims := jwt.MapClaims{
		"user_id": account.ID.String(),
		"role":    string(account.Role),
		"type":    "refresh",
		"jti":     jti,
		"exp":     time.Now().Add(refreshTokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(config.Config("JWT_SECRET")))
	if err != nil {
		return "", err
	}

	if err := redis.Client.Set(redis.Ctx, refreshKey(jti), account.ID.String(), refreshTokenTTL).Err(); err != nil {
		return "", err
	}
	return signed, nil
}

func parseRefreshClaims(raw string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(config.Config("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	if claims["type"] != "refresh" {
		return nil, errors.New("not a refresh token")
	}
	if _, ok := claims["jti"].(string); !ok {
		return nil, errors.New("missing jti")
	}
	if _, ok := claims["user_id"].(string); !ok {
		return nil, errors.New("missing user_id")
	}
	return claims, nil
}

func refreshKey(jti string) string {
	return "refresh:" + jti
}
