package main

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/priceoptimizer/backend/database"
	"github.com/priceoptimizer/backend/handlers"
	"github.com/priceoptimizer/backend/models"
	"golang.org/x/crypto/bcrypt"
)

type demoUser struct {
	Username string
	Password string
	Name     string
	Email    string
	Role     string
}

var demoUsers = []demoUser{
	{"alice", "secret", "Alice Carter", "alice@example.com", "Buyer"},
	{"bob", "secret", "Bob Singh", "bob@example.com", "Supplier"},
	{"carol", "secret", "Carol Reyes", "carol@example.com", "Support"},
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Connect to database
	if err := database.Connect(); err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer database.Close()

	fmt.Println("🌱 Starting seed...")

	handlers.SeedRoles()
	handlers.SeedAdminUser()

	for _, du := range demoUsers {
		var count int64
		database.DB.Model(&models.User{}).Where("username = ?", du.Username).Count(&count)
		if count > 0 {
			continue
		}

		hashedBytes, err := bcrypt.GenerateFromPassword([]byte(du.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash password for %s: %v", du.Username, err)
		}

		user := models.User{
			Username:     du.Username,
			PasswordHash: string(hashedBytes),
			Name:         du.Name,
			Email:        du.Email,
			CreatedAt:    time.Now(),
		}
		if err := database.DB.Create(&user).Error; err != nil {
			log.Fatalf("Failed to create user %s: %v", du.Username, err)
		}

		var role models.Role
		if err := database.DB.Where("name = ?", du.Role).First(&role).Error; err != nil {
			log.Fatalf("Role %s missing: %v", du.Role, err)
		}
		if err := database.DB.Create(&models.UserRole{UserID: user.ID, RoleID: role.ID}).Error; err != nil {
			log.Fatalf("Failed to link role for %s: %v", du.Username, err)
		}
		fmt.Printf("✅ Created user %s (%s)\n", du.Username, du.Role)
	}

	fmt.Println("Seed finished successfully")
}
