package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"localfood/internal/app/ds"

	"gorm.io/gorm"
)

const (
	// Маркер подтверждения оплаты из формы корзины
	PaymentMarker = "paid"

	BasketPageSize  = 20
	HistoryPageSize = 10
)

// ProductStore — доступ движка к каталогу (только чтение)
type ProductStore interface {
	GetProductByID(ctx context.Context, id uint) (*ds.Product, error)
}

// OrderStore — хранилище заказов и позиций корзины
type OrderStore interface {
	GetOpenOrder(ctx context.Context, buyerID uint) (*ds.Order, error)
	CreateOpenOrder(ctx context.Context, buyerID uint) (*ds.Order, error)
	GetOrderLine(ctx context.Context, orderID, productID uint) (*ds.OrderLine, error)
	CreateOrderLine(ctx context.Context, line *ds.OrderLine) error
	GetLineByID(ctx context.Context, lineID uint) (*ds.OrderLine, error)
	UpdateLineQuantity(ctx context.Context, lineID uint, quantity int) error
	DeleteLine(ctx context.Context, lineID uint) error
	ListOrderLines(ctx context.Context, orderID uint, page, pageSize int) ([]ds.OrderLine, int64, error)
	OrderTotal(ctx context.Context, orderID uint) (float64, error)
	GetOrderForBuyer(ctx context.Context, orderID, buyerID uint) (*ds.Order, error)
	MarkOrderPaid(ctx context.Context, orderID uint) error
	ListPaidOrders(ctx context.Context, buyerID uint, page, pageSize int) ([]ds.Order, int64, error)
	ListSellerOrders(ctx context.Context, sellerID uint, includeUnpaid bool, page, pageSize int) ([]ds.Order, int64, error)
	ListSellerOrderLines(ctx context.Context, orderID, sellerID uint) ([]ds.OrderLine, error)
}

// Basket — движок корзины и заказов. Личность вызывающего всегда передаётся
// явным параметром, никакого неявного текущего пользователя
type Basket struct {
	products ProductStore
	orders   OrderStore
}

func NewBasket(products ProductStore, orders OrderStore) *Basket {
	return &Basket{
		products: products,
		orders:   orders,
	}
}

// BasketView — открытая корзина покупателя. Order == nil означает пустую
// корзину, это нормальное состояние, а не ошибка
type BasketView struct {
	Order      *ds.Order
	Lines      []ds.OrderLine
	LineCount  int64
	TotalPrice float64
	Page       int
}

// OrderWithTotal — заказ со стоимостью по всем его позициям
type OrderWithTotal struct {
	Order      ds.Order
	TotalPrice float64
}

// AddProductToBasket добавляет товар в открытую корзину покупателя.
// Корзина создаётся лениво при первом добавлении; повторное добавление того же
// товара увеличивает количество в существующей позиции, а не создаёт дубль
func (b *Basket) AddProductToBasket(ctx context.Context, buyerID, productID uint) (*ds.OrderLine, error) {
	product, err := b.products.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: товар %d", ErrNotFound, productID)
		}
		return nil, err
	}

	order, err := b.getOrCreateOpenOrder(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	line, err := b.orders.GetOrderLine(ctx, order.ID, product.ID)
	if err == nil {
		// Позиция уже есть — наращиваем количество
		line.Quantity++
		if err := b.orders.UpdateLineQuantity(ctx, line.ID, line.Quantity); err != nil {
			return nil, err
		}
		return line, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	newLine := &ds.OrderLine{
		OrderID:   order.ID,
		ProductID: product.ID,
		Quantity:  1,
	}
	err = b.orders.CreateOrderLine(ctx, newLine)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Гонка двух добавлений: позицию успел создать параллельный запрос
		line, err = b.orders.GetOrderLine(ctx, order.ID, product.ID)
		if err != nil {
			return nil, err
		}
		line.Quantity++
		if err := b.orders.UpdateLineQuantity(ctx, line.ID, line.Quantity); err != nil {
			return nil, err
		}
		return line, nil
	}
	if err != nil {
		return nil, err
	}
	return newLine, nil
}

// getOrCreateOpenOrder ищет открытую корзину, при отсутствии создаёт новую.
// Нарушение частичного уникального индекса означает, что корзину успел создать
// параллельный запрос — тогда повторяем чтение один раз
func (b *Basket) getOrCreateOpenOrder(ctx context.Context, buyerID uint) (*ds.Order, error) {
	order, err := b.orders.GetOpenOrder(ctx, buyerID)
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	order, err = b.orders.CreateOpenOrder(ctx, buyerID)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		order, err = b.orders.GetOpenOrder(ctx, buyerID)
		if err != nil {
			return nil, fmt.Errorf("%w: открытая корзина", ErrConflict)
		}
		return order, nil
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ViewBasket возвращает открытую корзину с позициями.
// Итог считается по всему заказу, независимо от запрошенной страницы
func (b *Basket) ViewBasket(ctx context.Context, buyerID uint, page int) (*BasketView, error) {
	if page < 1 {
		page = 1
	}

	order, err := b.orders.GetOpenOrder(ctx, buyerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &BasketView{Page: page}, nil
		}
		return nil, err
	}

	lines, count, err := b.orders.ListOrderLines(ctx, order.ID, page, BasketPageSize)
	if err != nil {
		return nil, err
	}

	total, err := b.orders.OrderTotal(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	return &BasketView{
		Order:      order,
		Lines:      lines,
		LineCount:  count,
		TotalPrice: total,
		Page:       page,
	}, nil
}

// UpdateBasketLine выставляет количество в позиции. Ноль и отрицательные
// значения отклоняются, чужие позиции редактировать нельзя
func (b *Basket) UpdateBasketLine(ctx context.Context, buyerID, lineID uint, quantity int) (*ds.OrderLine, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: количество должно быть положительным", ErrInvalidArgument)
	}

	line, err := b.ownedLine(ctx, buyerID, lineID)
	if err != nil {
		return nil, err
	}

	if err := b.orders.UpdateLineQuantity(ctx, line.ID, quantity); err != nil {
		return nil, err
	}
	line.Quantity = quantity
	return line, nil
}

// DeleteBasketLine удаляет позицию. Если она была последней, пустой открытый
// заказ остаётся на месте
func (b *Basket) DeleteBasketLine(ctx context.Context, buyerID, lineID uint) error {
	line, err := b.ownedLine(ctx, buyerID, lineID)
	if err != nil {
		return err
	}
	return b.orders.DeleteLine(ctx, line.ID)
}

func (b *Basket) ownedLine(ctx context.Context, buyerID, lineID uint) (*ds.OrderLine, error) {
	line, err := b.orders.GetLineByID(ctx, lineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: позиция %d", ErrNotFound, lineID)
		}
		return nil, err
	}
	if line.Order.BuyerID != buyerID {
		return nil, fmt.Errorf("%w: позиция принадлежит другому покупателю", ErrForbidden)
	}
	return line, nil
}

// Checkout помечает заказ оплаченным. Требует маркер подтверждения "paid" и
// заказ, принадлежащий вызывающему; операция идемпотентна — повторная оплата
// уже оплаченного заказа ничего не меняет
func (b *Basket) Checkout(ctx context.Context, buyerID uint, orderIDRaw, payment string) (*ds.Order, error) {
	if payment != PaymentMarker {
		return nil, fmt.Errorf("%w: неверное подтверждение оплаты", ErrInvalidArgument)
	}

	orderID, err := strconv.ParseUint(orderIDRaw, 10, 32)
	if err != nil || orderID == 0 {
		return nil, fmt.Errorf("%w: неверный ID заказа", ErrInvalidArgument)
	}

	order, err := b.orders.GetOrderForBuyer(ctx, uint(orderID), buyerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: заказ не найден у покупателя", ErrInvalidArgument)
		}
		return nil, err
	}

	if !order.IsPaid {
		if err := b.orders.MarkOrderPaid(ctx, order.ID); err != nil {
			return nil, err
		}
		order.IsPaid = true
	}
	return order, nil
}

// ListOrderHistory возвращает оплаченные заказы покупателя, новые первыми
func (b *Basket) ListOrderHistory(ctx context.Context, buyerID uint, page int) ([]OrderWithTotal, int64, error) {
	if page < 1 {
		page = 1
	}

	orders, count, err := b.orders.ListPaidOrders(ctx, buyerID, page, HistoryPageSize)
	if err != nil {
		return nil, 0, err
	}

	result := make([]OrderWithTotal, len(orders))
	for i, o := range orders {
		total, err := b.orders.OrderTotal(ctx, o.ID)
		if err != nil {
			return nil, 0, err
		}
		result[i] = OrderWithTotal{Order: o, TotalPrice: total}
	}
	return result, count, nil
}

// OrderHistoryDetail — позиции одного заказа покупателя с итогом по всему заказу
func (b *Basket) OrderHistoryDetail(ctx context.Context, buyerID, orderID uint, page int) (*BasketView, error) {
	if page < 1 {
		page = 1
	}

	order, err := b.orders.GetOrderForBuyer(ctx, orderID, buyerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: заказ %d", ErrNotFound, orderID)
		}
		return nil, err
	}

	lines, count, err := b.orders.ListOrderLines(ctx, order.ID, page, HistoryPageSize)
	if err != nil {
		return nil, err
	}

	total, err := b.orders.OrderTotal(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	return &BasketView{
		Order:      order,
		Lines:      lines,
		LineCount:  count,
		TotalPrice: total,
		Page:       page,
	}, nil
}

// ListSellerOrders — заказы, содержащие товары продавца, без дублей.
// Итог по каждому заказу считается только по позициям этого продавца.
// Неоплаченные корзины показываются только при includeUnpaid
func (b *Basket) ListSellerOrders(ctx context.Context, sellerID uint, includeUnpaid bool, page int) ([]OrderWithTotal, int64, error) {
	if page < 1 {
		page = 1
	}

	orders, count, err := b.orders.ListSellerOrders(ctx, sellerID, includeUnpaid, page, HistoryPageSize)
	if err != nil {
		return nil, 0, err
	}

	result := make([]OrderWithTotal, len(orders))
	for i, o := range orders {
		lines, err := b.orders.ListSellerOrderLines(ctx, o.ID, sellerID)
		if err != nil {
			return nil, 0, err
		}
		var total float64
		for _, line := range lines {
			total += line.TotalPrice()
		}
		result[i] = OrderWithTotal{Order: o, TotalPrice: total}
	}
	return result, count, nil
}

// SellerOrderDetail — позиции заказа, относящиеся к товарам продавца,
// с итогом по этим позициям
func (b *Basket) SellerOrderDetail(ctx context.Context, sellerID, orderID uint) ([]ds.OrderLine, float64, error) {
	lines, err := b.orders.ListSellerOrderLines(ctx, orderID, sellerID)
	if err != nil {
		return nil, 0, err
	}
	if len(lines) == 0 {
		return nil, 0, fmt.Errorf("%w: заказ %d не содержит товаров продавца", ErrNotFound, orderID)
	}

	var total float64
	for _, line := range lines {
		total += line.TotalPrice()
	}
	return lines, total, nil
}
