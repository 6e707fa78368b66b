package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"localfood/internal/app/ds"
	"localfood/internal/app/dto"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const catalogPageSize = 10

// GetProducts получает каталог товаров
// @Summary Каталог товаров
// @Description Возвращает товары, новые первыми, с поиском по названию
// @Tags Catalog
// @Produce json
// @Param query query string false "Поиск по названию товара"
// @Param page query int false "Номер страницы"
// @Success 200 {object} dto.ProductListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/products [get]
func (h *APIHandler) GetProducts(c *gin.Context) {
	page := pageParam(c)
	searchQuery := c.Query("query")

	products, total, err := h.Repository.ListProducts(c.Request.Context(), searchQuery, page, catalogPageSize)
	if err != nil {
		logrus.Error("Error getting products: ", err)
		errorResponse(c, http.StatusInternalServerError, "ошибка получения товаров")
		return
	}

	dtoProducts := make([]dto.ProductResponse, len(products))
	for i, p := range products {
		dtoProducts[i] = h.productToDTO(p)
	}

	c.JSON(http.StatusOK, dto.ProductListResponse{
		Products: dtoProducts,
		Total:    total,
		Page:     page,
	})
}

// GetProduct получает один товар
// @Summary Детали товара
// @Tags Catalog
// @Produce json
// @Param id path int true "ID товара"
// @Success 200 {object} dto.ProductResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/products/{id} [get]
func (h *APIHandler) GetProduct(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		errorResponse(c, http.StatusBadRequest, "неверный ID товара")
		return
	}

	product, err := h.Repository.GetProductByID(c.Request.Context(), uint(id))
	if err != nil {
		notFoundOr500(c, err, "товар не найден")
		return
	}

	c.JSON(http.StatusOK, h.productToDTO(*product))
}

// GetCategories получает справочник категорий
// @Summary Список категорий
// @Tags Catalog
// @Produce json
// @Success 200 {object} dto.CategoryListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/categories [get]
func (h *APIHandler) GetCategories(c *gin.Context) {
	categories, err := h.Repository.GetAllCategories(c.Request.Context())
	if err != nil {
		logrus.Error("Error getting categories: ", err)
		errorResponse(c, http.StatusInternalServerError, "ошибка получения категорий")
		return
	}

	dtoCategories := make([]dto.CategoryResponse, len(categories))
	for i, cat := range categories {
		dtoCategories[i] = dto.CategoryResponse{ID: cat.ID, Name: cat.Name, Slug: cat.Slug}
	}

	c.JSON(http.StatusOK, dto.CategoryListResponse{
		Categories: dtoCategories,
		Total:      len(dtoCategories),
	})
}

// GetCategoryProducts получает товары категории
// @Summary Товары категории
// @Tags Catalog
// @Produce json
// @Param slug path string true "Slug категории"
// @Param page query int false "Номер страницы"
// @Success 200 {object} dto.ProductListResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/categories/{slug}/products [get]
func (h *APIHandler) GetCategoryProducts(c *gin.Context) {
	slug := c.Param("slug")
	page := pageParam(c)

	products, total, err := h.Repository.ListProductsByCategory(c.Request.Context(), slug, page, catalogPageSize)
	if err != nil {
		notFoundOr500(c, err, "категория не найдена")
		return
	}

	dtoProducts := make([]dto.ProductResponse, len(products))
	for i, p := range products {
		dtoProducts[i] = h.productToDTO(p)
	}

	c.JSON(http.StatusOK, dto.ProductListResponse{
		Products: dtoProducts,
		Total:    total,
		Page:     page,
	})
}

// GetOngoingSale получает товары текущего продавца
// @Summary Текущие продажи
// @Description Возвращает товары, выставленные текущим продавцом
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param page query int false "Номер страницы"
// @Success 200 {object} dto.ProductListResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/products/ongoing [get]
func (h *APIHandler) GetOngoingSale(c *gin.Context) {
	sellerID, ok := userIDFromContext(c)
	if !ok {
		errorResponse(c, http.StatusUnauthorized, "пользователь не авторизован")
		return
	}
	page := pageParam(c)

	products, total, err := h.Repository.ListProductsBySeller(c.Request.Context(), sellerID, page, catalogPageSize)
	if err != nil {
		logrus.Error("Error getting seller products: ", err)
		errorResponse(c, http.StatusInternalServerError, "ошибка получения товаров")
		return
	}

	dtoProducts := make([]dto.ProductResponse, len(products))
	for i, p := range products {
		dtoProducts[i] = h.productToDTO(p)
	}

	c.JSON(http.StatusOK, dto.ProductListResponse{
		Products: dtoProducts,
		Total:    total,
		Page:     page,
	})
}

// CreateProduct создаёт товар
// @Summary Добавление товара
// @Description Создаёт товар от имени текущего продавца
// @Tags Catalog
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateProductRequest true "Данные товара"
// @Success 201 {object} dto.ProductResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/products [post]
func (h *APIHandler) CreateProduct(c *gin.Context) {
	sellerID, ok := userIDFromContext(c)
	if !ok {
		errorResponse(c, http.StatusUnauthorized, "пользователь не авторизован")
		return
	}

	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "неверные данные: "+err.Error())
		return
	}

	product := &ds.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		CategoryID:  req.CategoryID,
		SellerID:    &sellerID,
		CreatedAt:   time.Now(),
	}

	if err := h.Repository.CreateProduct(c.Request.Context(), product); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			errorResponse(c, http.StatusNotFound, "категория не найдена")
			return
		}
		logrus.Error("Error creating product: ", err)
		errorResponse(c, http.StatusInternalServerError, "ошибка создания товара")
		return
	}

	product.Category = ds.Category{ID: req.CategoryID}
	c.JSON(http.StatusCreated, h.productToDTO(*product))
}

// UploadProductImage загружает изображение товара
// @Summary Загрузка изображения товара
// @Description Загружает изображение в MinIO и привязывает его к товару
// @Tags Catalog
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID товара"
// @Param image formData file true "Файл изображения"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/products/{id}/image [post]
func (h *APIHandler) UploadProductImage(c *gin.Context) {
	sellerID, ok := userIDFromContext(c)
	if !ok {
		errorResponse(c, http.StatusUnauthorized, "пользователь не авторизован")
		return
	}

	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		errorResponse(c, http.StatusBadRequest, "неверный ID товара")
		return
	}

	product, err := h.Repository.GetProductByID(c.Request.Context(), uint(id))
	if err != nil {
		notFoundOr500(c, err, "товар не найден")
		return
	}

	// Изображения может загружать только владелец товара
	if product.SellerID == nil || *product.SellerID != sellerID {
		errorResponse(c, http.StatusForbidden, "товар принадлежит другому продавцу")
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "файл не найден в запросе")
		return
	}

	openedFile, err := file.Open()
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "ошибка чтения файла")
		return
	}
	defer openedFile.Close()

	fileData, err := io.ReadAll(openedFile)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "ошибка чтения файла")
		return
	}

	var objectName string
	if h.MinIOClient != nil {
		objectName, err = h.MinIOClient.UploadFile(fileData, file.Filename)
		if err != nil {
			logrus.Error("Error uploading to MinIO: ", err)
			errorResponse(c, http.StatusInternalServerError, "ошибка загрузки изображения")
			return
		}
	} else {
		// Fallback если MinIO не настроен
		objectName = "uploaded_" + file.Filename
	}

	image := &ds.ProductImage{
		FilePath:  objectName,
		ImageName: file.Filename,
		ProductID: product.ID,
	}
	if err := h.Repository.AddProductImage(c.Request.Context(), image); err != nil {
		logrus.Error("Error saving product image: ", err)
		errorResponse(c, http.StatusInternalServerError, "ошибка сохранения изображения")
		return
	}

	successResponse(c, http.StatusOK, "изображение успешно загружено", gin.H{
		"file_path": objectName,
	})
}
