package handlers

import (
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/priceoptimizer/backend/database"
	"github.com/priceoptimizer/backend/models"
	"gorm.io/gorm"
)

// optimizedPrice draws a price between cost and selling price. This is the
// whole "optimization": the original product did exactly this.
func optimizedPrice(costPrice, sellingPrice float64) (float64, error) {
	if costPrice >= sellingPrice {
		return 0, fmt.Errorf("cost price should be less than the selling price")
	}
	price := costPrice + rand.Float64()*(sellingPrice-costPrice)
	return math.Round(price*100) / 100, nil
}

// getOrCreateCategory resolves a category by name, creating it on first use.
func getOrCreateCategory(db *gorm.DB, name string) (*models.Category, error) {
	var category models.Category
	if err := db.Where("name = ?", name).FirstOrCreate(&category, models.Category{Name: name}).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// GetCategories handles GET /pot/categories
func GetCategories(c *gin.Context) {
	var names []string
	if err := database.DB.Model(&models.Category{}).Order("name ASC").Pluck("name", &names).Error; err != nil {
		log.Printf("❌ Failed to fetch categories: %v", err)
		respondError(c, ErrInternal)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": names})
}

// GetProducts handles GET /pot/products
//
// Lists the authenticated user's products, newest-modified first.
func GetProducts(c *gin.Context) {
	var products []models.Product
	err := database.DB.Preload("Category").
		Where("user_id = ?", authUserID(c)).
		Order("updated_at DESC").
		Find(&products).Error
	if err != nil {
		log.Printf("❌ Failed to fetch products: %v", err)
		respondError(c, ErrInternal)
		return
	}

	c.JSON(http.StatusOK, products)
}

type CreateProductRequest struct {
	Name           string  `json:"name" binding:"required"`
	Description    string  `json:"description" binding:"required"`
	CostPrice      float64 `json:"cost_price" binding:"required"`
	SellingPrice   float64 `json:"selling_price" binding:"required"`
	StockAvailable int     `json:"stock_available"`
	UnitsSold      int     `json:"units_sold"`
	CategoryName   string  `json:"category_name" binding:"required"`
}

// CreateProduct handles POST /pot/product
//
// The owner comes from the authenticated identity, never from the body.
// Customer rating and optimized price are generated server-side.
func CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, ErrMissingField)
		return
	}

	price, err := optimizedPrice(req.CostPrice, req.SellingPrice)
	if err != nil {
		respondError(c, missingFieldError(err.Error()))
		return
	}

	product := models.Product{
		UserID:         authUserID(c),
		Name:           req.Name,
		Description:    req.Description,
		CostPrice:      req.CostPrice,
		SellingPrice:   req.SellingPrice,
		StockAvailable: req.StockAvailable,
		UnitsSold:      req.UnitsSold,
		CustomerRating: float64(rand.Intn(5) + 1),
		OptimizedPrice: price,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		category, err := getOrCreateCategory(tx, req.CategoryName)
		if err != nil {
			return err
		}
		product.CategoryID = &category.ID
		return tx.Create(&product).Error
	})
	if err != nil {
		log.Printf("❌ Failed to create product: %v", err)
		respondError(c, ErrInternal)
		return
	}

	c.JSON(http.StatusCreated, product)
}

type UpdateProductRequest struct {
	Name           *string  `json:"name"`
	Description    *string  `json:"description"`
	CostPrice      *float64 `json:"cost_price"`
	SellingPrice   *float64 `json:"selling_price"`
	StockAvailable *int     `json:"stock_available"`
	UnitsSold      *int     `json:"units_sold"`
	CategoryName   *string  `json:"category_name"`
}

// UpdateProduct handles PUT /pot/product/:id (partial update)
func UpdateProduct(c *gin.Context) {
	productID := c.Param("id")

	var product models.Product
	if err := database.DB.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		respondError(c, ErrInternal)
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, ErrMissingField)
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.CostPrice != nil {
		updates["cost_price"] = *req.CostPrice
	}
	if req.SellingPrice != nil {
		updates["selling_price"] = *req.SellingPrice
	}
	if req.StockAvailable != nil {
		updates["stock_available"] = *req.StockAvailable
	}
	if req.UnitsSold != nil {
		updates["units_sold"] = *req.UnitsSold
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if req.CategoryName != nil {
			category, err := getOrCreateCategory(tx, *req.CategoryName)
			if err != nil {
				return err
			}
			updates["category_id"] = category.ID
		}
		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&product).Updates(updates).Error
	})
	if err != nil {
		log.Printf("❌ Failed to update product %s: %v", productID, err)
		respondError(c, ErrInternal)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully"})
}

// DeleteProduct handles DELETE /pot/product/:id
//
// Removes the product together with its demand forecasts.
func DeleteProduct(c *gin.Context) {
	productID := c.Param("id")

	var product models.Product
	if err := database.DB.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		respondError(c, ErrInternal)
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.DemandForecast{}).Error; err != nil {
			return err
		}
		return tx.Delete(&product).Error
	})
	if err != nil {
		log.Printf("❌ Failed to delete product %s: %v", productID, err)
		respondError(c, ErrInternal)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product and associated demand forecasts deleted successfully"})
}
