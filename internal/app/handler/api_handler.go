package handler

import (
	"errors"
	"net/http"
	"strconv"

	"localfood/internal/app/ds"
	"localfood/internal/app/dto"
	"localfood/internal/app/repository"
	"localfood/internal/app/service"
	"localfood/internal/app/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// APIHandler содержит обработчики REST API
type APIHandler struct {
	Repository  *repository.Repository
	Basket      *service.Basket
	MinIOClient *storage.MinIOClient
	AuthHandler *AuthHandler
}

func NewAPIHandler(r *repository.Repository, basket *service.Basket, minioClient *storage.MinIOClient, authHandler *AuthHandler) *APIHandler {
	return &APIHandler{
		Repository:  r,
		Basket:      basket,
		MinIOClient: minioClient,
		AuthHandler: authHandler,
	}
}

// ============ Вспомогательные функции ============

func errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.ErrorResponse{
		Status:  "fail",
		Message: message,
	})
}

// serviceErrorResponse переводит ошибки движка в HTTP-статусы.
// Ошибки валидации никогда не превращаются в 500
func serviceErrorResponse(c *gin.Context, err error) {
	var fieldErr *service.FieldError
	if errors.As(err, &fieldErr) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Status:  "fail",
			Message: fieldErr.Msg,
			Field:   fieldErr.Field,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		errorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		errorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		errorResponse(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrForbidden):
		errorResponse(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrConflict):
		errorResponse(c, http.StatusConflict, err.Error())
	default:
		logrus.Error(err)
		errorResponse(c, http.StatusInternalServerError, "внутренняя ошибка сервера")
	}
}

func successResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	response := dto.SuccessResponse{
		Status:  "success",
		Message: message,
	}
	if data != nil {
		response.Data = data
	}
	c.JSON(statusCode, response)
}

// Личность вызывающего из контекста (установлена middleware)
func userIDFromContext(c *gin.Context) (uint, bool) {
	v, exists := c.Get("userID")
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// Номер страницы из query-параметра, по умолчанию первая
func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// ============ Преобразование в DTO ============

func (h *APIHandler) productToDTO(p ds.Product) dto.ProductResponse {
	seller := ""
	if p.Seller != nil {
		seller = p.Seller.Username
	}

	images := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		// Отдаём временные ссылки MinIO, в БД хранится только имя объекта
		if h.MinIOClient != nil {
			if url, err := h.MinIOClient.GetFileURL(img.FilePath); err == nil {
				images = append(images, url)
				continue
			}
		}
		images = append(images, img.FilePath)
	}

	return dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Quantity:    p.Quantity,
		Category:    p.Category.Slug,
		Seller:      seller,
		CreatedAt:   p.CreatedAt,
		Images:      images,
	}
}

func lineToDTO(l ds.OrderLine) dto.BasketLineResponse {
	return dto.BasketLineResponse{
		ID:          l.ID,
		ProductID:   l.ProductID,
		ProductName: l.Product.Name,
		Price:       l.Product.Price,
		Quantity:    l.Quantity,
		LineTotal:   l.TotalPrice(),
	}
}

func orderToDTO(o ds.Order, total float64) dto.OrderResponse {
	return dto.OrderResponse{
		ID:              o.ID,
		CreatedAt:       o.CreatedAt,
		IsPaid:          o.IsPaid,
		IsRealized:      o.IsRealized,
		RealizationDate: o.RealizationDate,
		TotalPrice:      total,
	}
}

// Ping проверяет работоспособность API
// @Summary Проверка работоспособности
// @Description Возвращает простой ответ для проверки работы сервера
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /ping [get]
func (h *APIHandler) Ping(ctx *gin.Context) {
	ctx.JSON(200, gin.H{"message": "pong"})
}

// notFoundOr500 переводит промах gorm в 404, остальное в 500
func notFoundOr500(c *gin.Context, err error, message string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		errorResponse(c, http.StatusNotFound, message)
		return
	}
	logrus.Error(err)
	errorResponse(c, http.StatusInternalServerError, "внутренняя ошибка сервера")
}
