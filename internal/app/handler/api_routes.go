package handler

import (
	"localfood/internal/app/middleware"
	"localfood/internal/app/role"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterAPIRoutes регистрирует все REST API маршруты с авторизацией
func (h *APIHandler) RegisterAPIRoutes(router *gin.Engine, authMiddleware *middleware.AuthMiddleware) {
	api := router.Group("/api")

	// ============ Каталог (Categories, Products) ============
	products := api.Group("/products")
	{
		// Публичные эндпоинты (без авторизации)
		products.GET("", h.GetProducts)

		// Только для продавцов
		products.GET("/ongoing", authMiddleware.WithAuthCheck(role.Seller), h.GetOngoingSale)
		products.POST("", authMiddleware.WithAuthCheck(role.Seller), h.CreateProduct)
		products.POST("/:id/image", authMiddleware.WithAuthCheck(role.Seller), h.UploadProductImage)

		products.GET("/:id", h.GetProduct)
	}

	categories := api.Group("/categories")
	{
		categories.GET("", h.GetCategories)
		categories.GET("/:slug/products", h.GetCategoryProducts)
	}

	// ============ Корзина (Basket) — только для покупателей ============
	basket := api.Group("/basket")
	basket.Use(authMiddleware.WithAuthCheck(role.Buyer))
	{
		basket.GET("", h.GetBasket)
		basket.POST("/items", h.AddToBasket)
		basket.PUT("/items/:id", h.UpdateBasketLine)
		basket.DELETE("/items/:id", h.DeleteBasketLine)
		basket.POST("/checkout", h.Checkout)
	}

	// ============ Заказы (Orders) ============
	orders := api.Group("/orders")
	{
		orders.GET("/history", authMiddleware.WithAuthCheck(role.Buyer), h.GetOrderHistory)
		orders.GET("/history/:id", authMiddleware.WithAuthCheck(role.Buyer), h.GetOrderHistoryDetail)
	}

	seller := api.Group("/seller")
	seller.Use(authMiddleware.WithAuthCheck(role.Seller))
	{
		seller.GET("/orders", h.GetSellerOrders)
		seller.GET("/orders/:id", h.GetSellerOrderDetail)
	}

	// ============ Аутентификация ============
	auth := api.Group("/auth")
	{
		// Публичные эндпоинты
		auth.POST("/register", h.AuthHandler.RegisterUser)
		auth.POST("/login", h.AuthHandler.LoginUser)

		// Защищённые эндпоинты
		auth.POST("/logout", authMiddleware.WithAuthCheck(role.Buyer, role.Seller), h.AuthHandler.LogoutUser)
		auth.GET("/profile", authMiddleware.WithAuthCheck(role.Buyer, role.Seller), h.AuthHandler.GetUserProfile)
		auth.PUT("/profile", authMiddleware.WithAuthCheck(role.Buyer, role.Seller), h.AuthHandler.UpdateProfile)
		auth.POST("/change-password", authMiddleware.WithAuthCheck(role.Buyer, role.Seller), h.AuthHandler.ChangePassword)
		auth.GET("/addresses", authMiddleware.WithAuthCheck(role.Buyer, role.Seller), h.AuthHandler.ListAddresses)
		auth.POST("/addresses", authMiddleware.WithAuthCheck(role.Buyer, role.Seller), h.AuthHandler.AddAddress)
	}

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Ping эндпоинт для проверки
	router.GET("/ping", h.Ping)
}
