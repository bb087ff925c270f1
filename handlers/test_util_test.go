package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Alexandr290700/online-tutor/database"
	"github.com/Alexandr290700/online-tutor/models"
	"github.com/Alexandr290700/online-tutor/redis"
	"github.com/Alexandr290700/online-tutor/routes"
	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

func setupApp(t *testing.T) *fiber.App {
	t.Setenv("JWT_SECRET", testJWTSecret)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("setupApp() failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("setupApp() failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.Account{},
		&models.Specialist{},
		&models.Student{},
		&models.ServiceCard{},
		&models.Enrollment{},
		&models.Review{},
		&models.PaymentRecord{},
	)
	if err != nil {
		t.Fatalf("migration failed: %v", err)
	}
	database.DB = db

	app := fiber.New()
	routes.AuthRoutes(app)
	routes.ProfileRoutes(app)
	routes.ServiceCardRoutes(app)
	routes.PaymentRoutes(app)
	routes.AdminRoutes(app)
	return app
}

// setupTestRedis points the global redis client at an in-process server so
// the token whitelist paths can run without external infrastructure.
func setupTestRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	redis.Client = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("doRequest() failed: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("doRequest() failed: %v", err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("decodeBody() failed: %v", err)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("decodeBody() failed to parse %q: %v", data, err)
	}
	return body
}

func decodeInto(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("decodeInto() failed: %v", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		t.Fatalf("decodeInto() failed to parse %q: %v", data, err)
	}
}

func createAccount(t *testing.T, role models.Role, password string) models.Account {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("createAccount() failed: %v", err)
	}
	account := models.Account{
		FirstName: "Test",
		LastName:  "Account",
		Email:     uuid.New().String() + "@example.com",
		Password:  string(hashed),
		Role:      role,
		IsActive:  true,
	}
	if err := database.DB.Create(&account).Error; err != nil {
		t.Fatalf("createAccount() failed: %v", err)
	}
	return account
}

func createSpecialist(t *testing.T, account models.Account) models.Specialist {
	specialist := models.Specialist{
		AccountID:         account.ID,
		FirstName:         account.FirstName,
		LastName:          account.LastName,
		Age:               35,
		Phone:             "+996 555 000 111",
		Email:             account.Email,
		Services:          "Tutoring",
		Education:         "KNU",
		ConsultationPrice: 700,
	}
	if err := database.DB.Create(&specialist).Error; err != nil {
		t.Fatalf("createSpecialist() failed: %v", err)
	}
	return specialist
}

func createStudent(t *testing.T, account models.Account) models.Student {
	student := models.Student{
		AccountID: account.ID,
		FirstName: account.FirstName,
		LastName:  account.LastName,
		Phone:     "+996 700 222 333",
		Email:     account.Email,
	}
	if err := database.DB.Create(&student).Error; err != nil {
		t.Fatalf("createStudent() failed: %v", err)
	}
	return student
}

func createCard(t *testing.T, specialist models.Specialist) models.ServiceCard {
	card := models.ServiceCard{
		Variant:      models.VariantIndividual,
		Name:         "Algebra basics",
		Description:  "Intro course",
		SpecialistID: specialist.ID,
		Price:        1500,
	}
	if err := database.DB.Create(&card).Error; err != nil {
		t.Fatalf("createCard() failed: %v", err)
	}
	return card
}

func createEnrollment(t *testing.T, student models.Student, card models.ServiceCard, status string) models.Enrollment {
	enrollment := models.Enrollment{
		StudentID:     student.ID,
		ServiceCardID: card.ID,
		Status:        status,
	}
	if err := database.DB.Create(&enrollment).Error; err != nil {
		t.Fatalf("createEnrollment() failed: %v", err)
	}
	return enrollment
}

func tokenFor(t *testing.T, account models.Account) string {
	claims := jwt.MapClaims{
		"user_id": account.ID.String(),
		"role":    string(account.Role),
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("tokenFor() failed: %v", err)
	}
	return signed
}
