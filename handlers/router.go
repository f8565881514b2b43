package handlers

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every endpoint. Authentication is decided here, once
// per route: the auth group is public, everything else sits behind the
// identity and token middlewares, with per-endpoint role gates.
func RegisterRoutes(router *gin.Engine) {
	pot := router.Group("/pot")

	auth := pot.Group("/auth")
	{
		auth.POST("/login", Login)
		auth.POST("/register", Register)
	}

	protected := pot.Group("", RequireIdentity(), RequireToken())
	{
		protected.POST("/auth/logout", Logout)

		protected.GET("/categories", RequireRole("Admin", "Supplier", "Buyer", "Support"), GetCategories)
		protected.GET("/products", RequireRole("Admin", "Supplier", "Buyer", "Support"), GetProducts)
		protected.POST("/product", RequireRole("Admin", "Supplier", "Support", "Buyer"), CreateProduct)
		protected.PUT("/product/:id", RequireRole("Admin", "Supplier", "Support"), UpdateProduct)
		protected.DELETE("/product/:id", RequireRole("Admin", "Supplier", "Support"), DeleteProduct)

		protected.POST("/demand-forecast", RequireRole("Admin", "Supplier", "Buyer", "Support"), CreateDemandForecasts)
	}
}
