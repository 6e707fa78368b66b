package handler

import (
	"net/http"
	"strconv"

	"localfood/internal/app/dto"

	"github.com/gin-gonic/gin"
)

// AddToBasket добавляет товар в корзину
// @Summary Добавление товара в корзину
// @Description Кладёт товар в открытую корзину покупателя; корзина создаётся при первом добавлении. Повторное добавление увеличивает количество
// @Tags Basket
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AddToBasketRequest true "Товар"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/basket/items [post]
func (h *APIHandler) AddToBasket(c *gin.Context) {
	buyerID, ok := userIDFromContext(c)
	if !ok {
		errorResponse(c, http.StatusUnauthorized, "пользователь не авторизован")
		return
	}

	var req dto.AddToBasketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "неверные данные: "+err.Error())
		return
	}

	line, err := h.Basket.AddProductToBasket(c.Request.Context(), buyerID, req.ProductID)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, "товар добавлен в корзину", gin.H{
		"order_id": line.OrderID,
		"line_id":  line.ID,
		"quantity": line.Quantity,
	})
}

// GetBasket получает корзину
// @Summary Корзина покупателя
// @Description Возвращает открытую корзину. Пустая корзина — нормальный ответ, не ошибка. Итог считается по всему заказу, не по странице
// @Tags Basket
// @Produce json
// @Security BearerAuth
// @Param page query int false "Номер страницы"
// @Success 200 {object} dto.BasketResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/basket [get]
func (h *APIHandler) GetBasket(c *gin.Context) {
	buyerID, ok := userIDFromContext(c)
	if !ok {
		errorResponse(c, http.StatusUnauthorized, "пользователь не авторизован")
		return
	}

	view, err := h.Basket.ViewBasket(c.Request.Context(), buyerID, pageParam(c))
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	response := dto.BasketResponse{
		Empty: view.Order == nil,
		Lines: make([]dto.BasketLineResponse, len(view.Lines)),
		Page:  view.Page,
	}
	if view.Order != nil {
		response.OrderID = view.Order.ID
		response.TotalPrice = view.TotalPrice
	}
	for i, line := range view.Lines {
		response.Lines[i] = lineToDTO(line)
	}

	c.JSON(http.StatusOK, response)
}

// UpdateBasketLine меняет количество в позиции корзины
// @Summary Изменение количества
// @Description Выставляет количество в позиции. Ноль и отрицательные значения отклоняются, чужая позиция недоступна
// @Tags Basket
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID позиции"
// @Param request body dto.UpdateLineRequest true "Новое количество"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/basket/items/{id} [put]
func (h *APIHandler) UpdateBasketLine(c *gin.Context) {
	buyerID, ok := userIDFromContext(c)
	if !ok {
		errorResponse(c, http.StatusUnauthorized, "пользователь не авторизован")
		return
	}

	idStr := c.Param("id")
	lineID, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || lineID == 0 {
		errorResponse(c, http.StatusBadRequest, "неверный ID позиции")
		return
	}

	var req dto.UpdateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "неверные данные: "+err.Error())
		return
	}

	line, err := h.Basket.UpdateBasketLine(c.Request.Context(), buyerID, uint(lineID), req.Quantity)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, "количество обновлено", gin.H{
		"line_id":  line.ID,
		"quantity": line.Quantity,
	})
}

// DeleteBasketLine удаляет позицию корзины
// @Summary Удаление позиции
// @Description Убирает позицию из корзины. Пустой открытый заказ остаётся
// @Tags Basket
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID позиции"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/basket/items/{id} [delete]
func (h *APIHandler) DeleteBasketLine(c *gin.Context) {
	buyerID, ok := userIDFromContext(c)
	if !ok {
		errorResponse(c, http.StatusUnauthorized, "пользователь не авторизован")
		return
	}

	idStr := c.Param("id")
	lineID, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || lineID == 0 {
		errorResponse(c, http.StatusBadRequest, "неверный ID позиции")
		return
	}

	if err := h.Basket.DeleteBasketLine(c.Request.Context(), buyerID, uint(lineID)); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, "позиция удалена", nil)
}

// Checkout оплачивает корзину
// @Summary Оплата корзины
// @Description Помечает заказ оплаченным по маркеру подтверждения "paid". Операция идемпотентна
// @Tags Basket
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CheckoutRequest true "Подтверждение оплаты"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/basket/checkout [post]
func (h *APIHandler) Checkout(c *gin.Context) {
	buyerID, ok := userIDFromContext(c)
	if !ok {
		errorResponse(c, http.StatusUnauthorized, "пользователь не авторизован")
		return
	}

	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "неверные данные: "+err.Error())
		return
	}

	order, err := h.Basket.Checkout(c.Request.Context(), buyerID, req.OrderID, req.Payment)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, "заказ оплачен", gin.H{
		"order_id": order.ID,
		"is_paid":  order.IsPaid,
	})
}

// GetOrderHistory получает историю заказов
// @Summary История заказов
// @Description Оплаченные заказы покупателя, новые первыми
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param page query int false "Номер страницы"
// @Success 200 {object} dto.OrderListResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/orders/history [get]
func (h *APIHandler) GetOrderHistory(c *gin.Context) {
	buyerID, ok := userIDFromContext(c)
	if !ok {
		errorResponse(c, http.StatusUnauthorized, "пользователь не авторизован")
		return
	}
	page := pageParam(c)

	orders, total, err := h.Basket.ListOrderHistory(c.Request.Context(), buyerID, page)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	dtoOrders := make([]dto.OrderResponse, len(orders))
	for i, o := range orders {
		dtoOrders[i] = orderToDTO(o.Order, o.TotalPrice)
	}

	c.JSON(http.StatusOK, dto.OrderListResponse{
		Orders: dtoOrders,
		Total:  int(total),
		Page:   page,
	})
}

// GetOrderHistoryDetail получает один заказ из истории
// @Summary Детали заказа
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID заказа"
// @Param page query int false "Номер страницы"
// @Success 200 {object} dto.OrderDetailResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/orders/history/{id} [get]
func (h *APIHandler) GetOrderHistoryDetail(c *gin.Context) {
	buyerID, ok := userIDFromContext(c)
	if !ok {
		errorResponse(c, http.StatusUnauthorized, "пользователь не авторизован")
		return
	}

	idStr := c.Param("id")
	orderID, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || orderID == 0 {
		errorResponse(c, http.StatusBadRequest, "неверный ID заказа")
		return
	}

	view, err := h.Basket.OrderHistoryDetail(c.Request.Context(), buyerID, uint(orderID), pageParam(c))
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	lines := make([]dto.BasketLineResponse, len(view.Lines))
	for i, line := range view.Lines {
		lines[i] = lineToDTO(line)
	}

	c.JSON(http.StatusOK, dto.OrderDetailResponse{
		Order:      orderToDTO(*view.Order, view.TotalPrice),
		Lines:      lines,
		TotalPrice: view.TotalPrice,
	})
}

// GetSellerOrders получает заказы с товарами продавца
// @Summary Заказы продавца
// @Description Заказы, содержащие хотя бы один товар продавца, без дублей. Неоплаченные корзины включаются флагом include_unpaid
// @Tags Seller
// @Produce json
// @Security BearerAuth
// @Param include_unpaid query bool false "Показывать неоплаченные корзины"
// @Param page query int false "Номер страницы"
// @Success 200 {object} dto.OrderListResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/seller/orders [get]
func (h *APIHandler) GetSellerOrders(c *gin.Context) {
	sellerID, ok := userIDFromContext(c)
	if !ok {
		errorResponse(c, http.StatusUnauthorized, "пользователь не авторизован")
		return
	}
	page := pageParam(c)
	includeUnpaid := c.Query("include_unpaid") == "true"

	orders, total, err := h.Basket.ListSellerOrders(c.Request.Context(), sellerID, includeUnpaid, page)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	dtoOrders := make([]dto.OrderResponse, len(orders))
	for i, o := range orders {
		dtoOrders[i] = orderToDTO(o.Order, o.TotalPrice)
	}

	c.JSON(http.StatusOK, dto.OrderListResponse{
		Orders: dtoOrders,
		Total:  int(total),
		Page:   page,
	})
}

// GetSellerOrderDetail получает позиции заказа с товарами продавца
// @Summary Детали заказа для продавца
// @Description Позиции заказа, относящиеся к товарам продавца, с итогом по ним
// @Tags Seller
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID заказа"
// @Success 200 {object} dto.OrderDetailResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/seller/orders/{id} [get]
func (h *APIHandler) GetSellerOrderDetail(c *gin.Context) {
	sellerID, ok := userIDFromContext(c)
	if !ok {
		errorResponse(c, http.StatusUnauthorized, "пользователь не авторизован")
		return
	}

	idStr := c.Param("id")
	orderID, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || orderID == 0 {
		errorResponse(c, http.StatusBadRequest, "неверный ID заказа")
		return
	}

	lines, total, err := h.Basket.SellerOrderDetail(c.Request.Context(), sellerID, uint(orderID))
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	dtoLines := make([]dto.BasketLineResponse, len(lines))
	for i, line := range lines {
		dtoLines[i] = lineToDTO(line)
	}

	c.JSON(http.StatusOK, dto.OrderDetailResponse{
		Order:      orderToDTO(lines[0].Order, total),
		Lines:      dtoLines,
		TotalPrice: total,
	})
}
