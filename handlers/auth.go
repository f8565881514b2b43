package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/priceoptimizer/backend/database"
	"github.com/priceoptimizer/backend/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// tokenTTL is how long a freshly issued token stays valid.
const tokenTTL = 3 * time.Hour

// generateAuthToken returns a 256-bit random token, hex encoded.
func generateAuthToken() string {
	bytes := make([]byte, 32)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
}

// Login handles POST /pot/auth/login
//
// On success the token and role name travel as response headers
// (Authorization, User-Role); the JSON body carries only the user fields.
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, ErrMissingField)
		return
	}

	var user models.User
	if err := database.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		respondError(c, ErrInvalidCredentials)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respondError(c, ErrInvalidCredentials)
		return
	}

	now := time.Now()
	token := models.Token{
		UserID:    user.ID,
		Token:     generateAuthToken(),
		CreatedAt: now,
		ExpiresAt: now.Add(tokenTTL),
	}

	// Token insert and role lookup share a transaction so a user without a
	// configured role never ends up holding a live token.
	var roleName string
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&token).Error; err != nil {
			return err
		}

		var userRole models.UserRole
		if err := tx.Preload("Role").Where("user_id = ?", user.ID).First(&userRole).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoleNotConfigured
			}
			return err
		}
		roleName = userRole.Role.Name
		return nil
	})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			respondError(c, apiErr)
			return
		}
		log.Printf("❌ Failed to issue token for user %d: %v", user.ID, err)
		respondError(c, ErrInternal)
		return
	}

	c.Header("Authorization", "Bearer "+token.Token)
	c.Header("User-Role", roleName)
	c.JSON(http.StatusOK, gin.H{
		"message":    "Login successful",
		"user_id":    user.ID,
		"created_at": token.CreatedAt,
		"user_name":  user.Username,
	})
}

// Register handles POST /pot/auth/register
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, ErrMissingField)
		return
	}

	var existing models.User
	err := database.DB.Where("email = ? OR username = ?", req.Email, req.Username).First(&existing).Error
	if err == nil {
		switch {
		case existing.Email == req.Email && existing.Username == req.Username:
			respondError(c, duplicateIdentityError("Email and username both already exist"))
		case existing.Email == req.Email:
			respondError(c, duplicateIdentityError("Email already exists"))
		default:
			respondError(c, duplicateIdentityError("Username already exists"))
		}
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondError(c, ErrInternal)
		return
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, ErrInternal)
		return
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: string(hashedBytes),
		Name:         req.Name,
		Email:        req.Email,
		CreatedAt:    time.Now(),
	}
	if err := database.DB.Create(&user).Error; err != nil {
		respondError(c, ErrInternal)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    "True",
		"message":    "User created successfully",
		"user_id":    user.ID,
		"created_at": user.CreatedAt,
	})
}

// Logout handles POST /pot/auth/logout
//
// Revokes every live token of the header-declared user in one bulk update.
// Idempotent: a user with no live tokens still gets a 200.
func Logout(c *gin.Context) {
	headerID := c.GetHeader(headerUserID)
	if headerID == "" {
		respondError(c, missingFieldError("User ID not provided"))
		return
	}
	userID, err := strconv.ParseUint(headerID, 10, 64)
	if err != nil {
		respondError(c, missingFieldError("Invalid user ID"))
		return
	}

	err = database.DB.Model(&models.Token{}).
		Where("user_id = ? AND expired = ?", userID, false).
		Updates(map[string]interface{}{
			"expired":    true,
			"expires_at": time.Now(),
		}).Error
	if err != nil {
		respondError(c, ErrInternal)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

// defaultRoles are created on startup if absent.
var defaultRoles = []models.Role{
	{Name: "Admin", Description: "Full access to catalog and forecasts"},
	{Name: "Supplier", Description: "Manages own products and forecasts"},
	{Name: "Buyer", Description: "Browses catalog, creates products and forecasts"},
	{Name: "Support", Description: "Read and maintenance access"},
}

// SeedRoles ensures the default roles exist
func SeedRoles() {
	for _, role := range defaultRoles {
		var count int64
		database.DB.Model(&models.Role{}).Where("name = ?", role.Name).Count(&count)
		if count == 0 {
			if err := database.DB.Create(&role).Error; err != nil {
				log.Printf("❌ Failed to create role %s: %v", role.Name, err)
			}
		}
	}
}

// SeedAdminUser ensures the default admin user exists with the Admin role
func SeedAdminUser() {
	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin12**"
	}

	var count int64
	database.DB.Model(&models.User{}).Where("username = ?", username).Count(&count)
	if count > 0 {
		return
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("❌ Failed to hash password: %v", err)
		return
	}

	admin := models.User{
		Username:     username,
		PasswordHash: string(hashedBytes),
		Name:         "Administrator",
		Email:        "admin@priceoptimizer.local",
		CreatedAt:    time.Now(),
	}
	if err := database.DB.Create(&admin).Error; err != nil {
		log.Printf("❌ Failed to create admin user: %v", err)
		return
	}

	var adminRole models.Role
	if err := database.DB.Where("name = ?", "Admin").First(&adminRole).Error; err != nil {
		log.Printf("❌ Admin role missing: %v", err)
		return
	}
	if err := database.DB.Create(&models.UserRole{UserID: admin.ID, RoleID: adminRole.ID}).Error; err != nil {
		log.Printf("❌ Failed to link admin role: %v", err)
		return
	}
	log.Println("✅ Admin user seeded successfully")
}
