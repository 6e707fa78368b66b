package dto

import "time"

// ============ Общие структуры ============

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"` // поле формы, к которому относится ошибка
}

type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ============ Каталог (Categories, Products) ============

type CategoryResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type CategoryListResponse struct {
	Categories []CategoryResponse `json:"categories"`
	Total      int                `json:"total"`
}

type ProductResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	Category    string    `json:"category"`
	Seller      string    `json:"seller,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	Images      []string  `json:"images,omitempty"`
}

type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
}

type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Quantity    int     `json:"quantity" binding:"gte=0"`
	CategoryID  uint    `json:"category_id" binding:"required"`
}

// ============ Корзина (Basket) ============

type AddToBasketRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

type BasketLineResponse struct {
	ID          uint    `json:"id"`
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	LineTotal   float64 `json:"line_total"`
}

type BasketResponse struct {
	OrderID    uint                 `json:"order_id,omitempty"`
	Empty      bool                 `json:"empty"`
	Lines      []BasketLineResponse `json:"lines"`
	TotalPrice float64              `json:"total_price"` // всегда по всему заказу, не по странице
	Page       int                  `json:"page"`
}

type UpdateLineRequest struct {
	Quantity int `json:"quantity"`
}

type CheckoutRequest struct {
	OrderID string `json:"order_id" binding:"required"`
	Payment string `json:"payment" binding:"required"`
}

// ============ Заказы (Orders) ============

type OrderResponse struct {
	ID              uint       `json:"id"`
	CreatedAt       time.Time  `json:"created_at"`
	IsPaid          bool       `json:"is_paid"`
	IsRealized      bool       `json:"is_realized"`
	RealizationDate *time.Time `json:"realization_date,omitempty"`
	TotalPrice      float64    `json:"total_price"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int             `json:"total"`
	Page   int             `json:"page"`
}

type OrderDetailResponse struct {
	Order      OrderResponse        `json:"order"`
	Lines      []BasketLineResponse `json:"lines"`
	TotalPrice float64              `json:"total_price"`
}

// ============ Пользователи (Auth) ============

type RegisterRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=50"`
	Password1   string `json:"password1" binding:"required,min=6"`
	Password2   string `json:"password2" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	AccountType string `json:"account_type" binding:"required,oneof=business consumer"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsBuyer   bool   `json:"is_buyer"`
	IsSeller  bool   `json:"is_seller"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UpdateProfileRequest struct {
	Email     string `json:"email" binding:"omitempty,email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// ============ Адреса (Addresses) ============

type AddressRequest struct {
	City            string `json:"city" binding:"required"`
	StreetName      string `json:"street_name"`
	StreetNumber    string `json:"street_number"`
	ApartmentNumber string `json:"apartment_number"`
	UnitNumber      string `json:"unit_number"`
	Province        string `json:"province"`
	PostalCode      string `json:"postal_code"`
}

type AddressResponse struct {
	ID              uint   `json:"id"`
	City            string `json:"city"`
	StreetName      string `json:"street_name,omitempty"`
	StreetNumber    string `json:"street_number,omitempty"`
	ApartmentNumber string `json:"apartment_number,omitempty"`
	UnitNumber      string `json:"unit_number,omitempty"`
	Province        string `json:"province,omitempty"`
	PostalCode      string `json:"postal_code,omitempty"`
}
