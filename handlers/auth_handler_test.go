package handlers_test

import (
	"net/http"
	"testing"

	"github.com/Alexandr290700/online-tutor/database"
	"github.com/Alexandr290700/online-tutor/models"
	"github.com/stretchr/testify/assert"
)

func registerPayload(email string) map[string]interface{} {
	return map[string]interface{}{
		"first_name": "Aigerim",
		"last_name":  "Sydykova",
		"email":      email,
		"role":       "student",
		"password":   "password123",
		"password2":  "password123",
	}
}

func TestRegisterCreatesInactiveAccountWithActivationCode(t *testing.T) {
	app := setupApp(t)

	resp := doRequest(t, app, http.MethodPost, "/api/v1/auth/register", "", registerPayload("aigerim@example.com"))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var account models.Account
	assert.NoError(t, database.DB.First(&account, "email = ?", "aigerim@example.com").Error)
	assert.False(t, account.IsActive)
	if assert.NotNil(t, account.ActivationCode) {
		assert.Len(t, *account.ActivationCode, 17)
	}
}

func TestRegisterPasswordMismatchRejected(t *testing.T) {
	app := setupApp(t)

	payload := registerPayload("mismatch@example.com")
	payload["password2"] = "different-pass"

	resp := doRequest(t, app, http.MethodPost, "/api/v1/auth/register", "", payload)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var count int64
	assert.NoError(t, database.DB.Model(&models.Account{}).Where("email = ?", "mismatch@example.com").Count(&count).Error)
	assert.Zero(t, count)
}

func TestRegisterDuplicateEmailRejected(t *testing.T) {
	app := setupApp(t)

	resp := doRequest(t, app, http.MethodPost, "/api/v1/auth/register", "", registerPayload("dup@example.com"))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPost, "/api/v1/auth/register", "", registerPayload("dup@example.com"))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	app := setupApp(t)

	payload := registerPayload("sneaky@example.com")
	payload["role"] = "admin"

	resp := doRequest(t, app, http.MethodPost, "/api/v1/auth/register", "", payload)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	app := setupApp(t)

	payload := registerPayload("wizard@example.com")
	payload["role"] = "wizard"

	resp := doRequest(t, app, http.MethodPost, "/api/v1/auth/register", "", payload)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var count int64
	assert.NoError(t, database.DB.Model(&models.Account{}).Where("email = ?", "wizard@example.com").Count(&count).Error)
	assert.Zero(t, count)
}

func TestActivateAccountExactlyOnce(t *testing.T) {
	app := setupApp(t)

	resp := doRequest(t, app, http.MethodPost, "/api/v1/auth/register", "", registerPayload("activate@example.com"))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var account models.Account
	assert.NoError(t, database.DB.First(&account, "email = ?", "activate@example.com").Error)
	code := *account.ActivationCode

	resp = doRequest(t, app, http.MethodGet, "/api/v1/auth/activate/"+code, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.NoError(t, database.DB.First(&account, "email = ?", "activate@example.com").Error)
	assert.True(t, account.IsActive)
	assert.Nil(t, account.ActivationCode)

	// The code is cleared on activation and cannot be replayed.
	resp = doRequest(t, app, http.MethodGet, "/api/v1/auth/activate/"+code, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLoginInactiveAccountRejected(t *testing.T) {
	app := setupApp(t)

	account := createAccount(t, models.RoleStudent, "password123")
	account.IsActive = false
	assert.NoError(t, database.DB.Save(&account).Error)

	resp := doRequest(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    account.Email,
		"password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Contains(t, body["error"], "not active")
}

func TestLoginRefreshLogoutFlow(t *testing.T) {
	app := setupApp(t)
	setupTestRedis(t)

	account := createAccount(t, models.RoleStudent, "password123")

	resp := doRequest(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    account.Email,
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	access, _ := body["access"].(string)
	refresh, _ := body["refresh"].(string)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)

	resp = doRequest(t, app, http.MethodPost, "/api/v1/auth/refresh", "", map[string]interface{}{"refresh": refresh})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, decodeBody(t, resp)["access"])

	resp = doRequest(t, app, http.MethodPost, "/api/v1/auth/logout", access, map[string]interface{}{"refresh": refresh})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Logout removed the jti from the whitelist, so the same refresh token
	// is now rejected.
	resp = doRequest(t, app, http.MethodPost, "/api/v1/auth/refresh", "", map[string]interface{}{"refresh": refresh})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRefreshWithAccessTokenRejected(t *testing.T) {
	app := setupApp(t)
	setupTestRedis(t)

	account := createAccount(t, models.RoleStudent, "password123")

	resp := doRequest(t, app, http.MethodPost, "/api/v1/auth/refresh", "", map[string]interface{}{
		"refresh": tokenFor(t, account),
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginBadCredentialsRejected(t *testing.T) {
	app := setupApp(t)

	account := createAccount(t, models.RoleStudent, "password123")

	resp := doRequest(t, app, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    account.Email,
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
