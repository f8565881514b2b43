package main

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/priceoptimizer/backend/database"
	"github.com/priceoptimizer/backend/models"
)

// retention is how long expired token rows are kept before being purged.
// Expiry itself is lazy, so rows accumulate until this runs.
const retention = 30 * 24 * time.Hour

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

	fmt.Println("Start cleanup...")

	cutoff := time.Now().Add(-retention)
	result := database.DB.
		Where("expired = ? AND expires_at < ?", true, cutoff).
		Delete(&models.Token{})
	if result.Error != nil {
		log.Fatalf("Failed to delete expired tokens: %v", result.Error)
	}
	fmt.Printf("✅ Deleted %d expired tokens\n", result.RowsAffected)

	fmt.Println("Cleanup finished successfully")
}
