package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/priceoptimizer/backend/database"
	"github.com/priceoptimizer/backend/models"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTest gives each test its own in-memory database and a router with
// the full route table.
func setupTest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	database.DB = db

	router := gin.New()
	RegisterRoutes(router)
	return router
}

func createUser(t *testing.T, username, password, email string) models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Username:     username,
		PasswordHash: string(hashed),
		Name:         username,
		Email:        email,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, database.DB.Create(&user).Error)
	return user
}

func grantRole(t *testing.T, user models.User, roleName string) {
	t.Helper()
	var role models.Role
	require.NoError(t, database.DB.Where("name = ?", roleName).
		FirstOrCreate(&role, models.Role{Name: roleName}).Error)
	require.NoError(t, database.DB.Create(&models.UserRole{UserID: user.ID, RoleID: role.ID}).Error)
}

// issueToken inserts a token row directly, bypassing the login flow.
func issueToken(t *testing.T, user models.User, expiresAt time.Time, expired bool) models.Token {
	t.Helper()
	token := models.Token{
		UserID:    user.ID,
		Token:     generateAuthToken(),
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
		Expired:   expired,
	}
	require.NoError(t, database.DB.Create(&token).Error)
	return token
}

func liveToken(t *testing.T, user models.User) models.Token {
	return issueToken(t, user, time.Now().Add(tokenTTL), false)
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func authHeaders(user models.User, token models.Token) map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + token.Token,
		headerUserID:    fmt.Sprintf("%d", user.ID),
	}
}

// newHandlerOnlyRouter exposes the logout handler without the auth
// middlewares, for testing the handler-level contract.
func newHandlerOnlyRouter() *gin.Engine {
	router := gin.New()
	router.POST("/logout", Logout)
	return router
}

func itoa(id uint) string {
	return fmt.Sprintf("%d", id)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
