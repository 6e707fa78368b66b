package repository

import (
	"context"
	"time"

	"localfood/internal/app/ds"
)

// Методы для заказов и позиций корзины

// Открытая корзина покупателя (заказ с is_paid=false), если есть
func (r *Repository) GetOpenOrder(ctx context.Context, buyerID uint) (*ds.Order, error) {
	var order ds.Order
	err := r.db.WithContext(ctx).Where("buyer_id = ? AND is_paid = ?", buyerID, false).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Создать новую открытую корзину. Частичный уникальный индекс uniq_open_basket
// не даст создать вторую для того же покупателя
func (r *Repository) CreateOpenOrder(ctx context.Context, buyerID uint) (*ds.Order, error) {
	order := ds.Order{
		BuyerID:   buyerID,
		CreatedAt: time.Now(),
		IsPaid:    false,
	}

	err := r.db.WithContext(ctx).Create(&order).Error
	if err != nil {
		return nil, err
	}

	return &order, nil
}

// Позиция заказа для конкретного товара
func (r *Repository) GetOrderLine(ctx context.Context, orderID, productID uint) (*ds.OrderLine, error) {
	var line ds.OrderLine
	err := r.db.WithContext(ctx).Where("order_id = ? AND product_id = ?", orderID, productID).First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *Repository) CreateOrderLine(ctx context.Context, line *ds.OrderLine) error {
	line.CreatedAt = time.Now()
	return r.db.WithContext(ctx).Create(line).Error
}

func (r *Repository) GetLineByID(ctx context.Context, lineID uint) (*ds.OrderLine, error) {
	var line ds.OrderLine
	err := r.db.WithContext(ctx).Preload("Order").Preload("Product").First(&line, lineID).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *Repository) UpdateLineQuantity(ctx context.Context, lineID uint, quantity int) error {
	return r.db.WithContext(ctx).Model(&ds.OrderLine{}).
		Where("id = ?", lineID).
		Update("quantity", quantity).Error
}

// Удалить позицию. Пустой открытый заказ при этом остаётся
func (r *Repository) DeleteLine(ctx context.Context, lineID uint) error {
	return r.db.WithContext(ctx).Delete(&ds.OrderLine{}, lineID).Error
}

// Позиции заказа, новые первыми, с постраничной выборкой
func (r *Repository) ListOrderLines(ctx context.Context, orderID uint, page, pageSize int) ([]ds.OrderLine, int64, error) {
	tx := r.db.WithContext(ctx).Model(&ds.OrderLine{}).Where("order_id = ?", orderID)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var lines []ds.OrderLine
	err := tx.Preload("Product").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&lines).Error
	return lines, total, err
}

// Итог по всему заказу, не по текущей странице
func (r *Repository) OrderTotal(ctx context.Context, orderID uint) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(products.price * order_lines.quantity), 0)
		 FROM order_lines
		 JOIN products ON products.id = order_lines.product_id
		 WHERE order_lines.order_id = ?`, orderID).Scan(&total).Error
	return total, err
}

// Заказ по ID, принадлежащий конкретному покупателю
func (r *Repository) GetOrderForBuyer(ctx context.Context, orderID, buyerID uint) (*ds.Order, error) {
	var order ds.Order
	err := r.db.WithContext(ctx).Where("id = ? AND buyer_id = ?", orderID, buyerID).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Идемпотентная пометка об оплате: повторный вызов ничего не меняет
func (r *Repository) MarkOrderPaid(ctx context.Context, orderID uint) error {
	return r.db.WithContext(ctx).Model(&ds.Order{}).
		Where("id = ?", orderID).
		Update("is_paid", true).Error
}

// Оплаченные заказы покупателя, новые первыми
func (r *Repository) ListPaidOrders(ctx context.Context, buyerID uint, page, pageSize int) ([]ds.Order, int64, error) {
	tx := r.db.WithContext(ctx).Model(&ds.Order{}).Where("buyer_id = ? AND is_paid = ?", buyerID, true)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []ds.Order
	err := tx.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&orders).Error
	return orders, total, err
}

// Заказы, содержащие хотя бы один товар продавца, без дублей.
// Неоплаченные корзины попадают в выборку только по явному флагу
func (r *Repository) ListSellerOrders(ctx context.Context, sellerID uint, includeUnpaid bool, page, pageSize int) ([]ds.Order, int64, error) {
	tx := r.db.WithContext(ctx).Model(&ds.Order{}).
		Joins("JOIN order_lines ON order_lines.order_id = orders.id").
		Joins("JOIN products ON products.id = order_lines.product_id").
		Where("products.seller_id = ?", sellerID).
		Distinct("orders.*")
	if !includeUnpaid {
		tx = tx.Where("orders.is_paid = ?", true)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []ds.Order
	err := tx.Order("orders.created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&orders).Error
	return orders, total, err
}

// Позиции заказа, относящиеся к товарам продавца
func (r *Repository) ListSellerOrderLines(ctx context.Context, orderID, sellerID uint) ([]ds.OrderLine, error) {
	var lines []ds.OrderLine
	err := r.db.WithContext(ctx).
		Joins("JOIN products ON products.id = order_lines.product_id").
		Where("order_lines.order_id = ? AND products.seller_id = ?", orderID, sellerID).
		Preload("Order").Preload("Product").
		Order("order_lines.created_at DESC").
		Find(&lines).Error
	return lines, err
}
