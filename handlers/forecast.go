package handlers

import (
	"log"
	"math"
	"math/rand"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/priceoptimizer/backend/database"
	"github.com/priceoptimizer/backend/models"
	"gorm.io/gorm"
)

type CreateForecastsRequest struct {
	ProductIDList []uint `json:"product_id_list" binding:"required,min=1"`
}

// forecastValue draws the demand forecast for one product version.
func forecastValue() float64 {
	v := 50 + rand.Float64()*450
	return math.Round(v*100) / 100
}

// CreateDemandForecasts handles POST /pot/demand-forecast
//
// Creates one new forecast per requested product, assigning each the next
// version number for that product.
func CreateDemandForecasts(c *gin.Context) {
	var req CreateForecastsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, missingFieldError("Product ID list is missing or invalid"))
		return
	}

	var products []models.Product
	if err := database.DB.Where("id IN ?", req.ProductIDList).Find(&products).Error; err != nil {
		respondError(c, ErrInternal)
		return
	}
	if len(products) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No products found for the provided IDs"})
		return
	}

	created := make([]models.DemandForecast, 0, len(products))
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		for _, product := range products {
			version := 1
			var latest models.DemandForecast
			err := tx.Where("product_id = ?", product.ID).Order("version DESC").First(&latest).Error
			if err == nil {
				version = latest.Version + 1
			} else if err != gorm.ErrRecordNotFound {
				return err
			}

			forecast := models.DemandForecast{
				ProductID:     product.ID,
				ForecastValue: forecastValue(),
				Version:       version,
			}
			if err := tx.Create(&forecast).Error; err != nil {
				return err
			}
			created = append(created, forecast)
		}
		return nil
	})
	if err != nil {
		log.Printf("❌ Failed to create demand forecasts: %v", err)
		respondError(c, ErrInternal)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"created_forecasts": created})
}
