package models

import (
	"time"
)

// Category model
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}

// Product model. UserID is the owning user resolved from the
// authenticated request, never from the request body.
type Product struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"index;not null" json:"user_id"`
	Name           string    `gorm:"not null" json:"name"`
	Description    string    `json:"description"`
	CostPrice      float64   `json:"cost_price"`
	SellingPrice   float64   `json:"selling_price"`
	StockAvailable int       `json:"stock_available"`
	UnitsSold      int       `json:"units_sold"`
	CustomerRating float64   `json:"customer_rating"`
	OptimizedPrice float64   `json:"optimized_price"`
	CategoryID     *uint     `json:"-"`
	Category       *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// DemandForecast model. Version is unique per product and assigned by
// incrementing the latest existing version.
type DemandForecast struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ProductID     uint      `gorm:"index:idx_forecast_product_version,unique;not null" json:"product_id"`
	Product       Product   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
	ForecastValue float64   `json:"forecast_value"`
	Version       int       `gorm:"index:idx_forecast_product_version,unique;default:1" json:"version"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DemandForecast) TableName() string {
	return "demand_forecasts"
}
