package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"localfood/internal/app/ds"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Фейковые хранилища в памяти. Повторяют поведение базы: частичный уникальный
// индекс открытой корзины и уникальность пары (заказ, товар)

type fakeProductStore struct {
	products map[uint]*ds.Product
}

func (f *fakeProductStore) GetProductByID(_ context.Context, id uint) (*ds.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

type fakeOrderStore struct {
	products   map[uint]*ds.Product
	orders     map[uint]*ds.Order
	lines      map[uint]*ds.OrderLine
	nextOrder  uint
	nextLine   uint
	createdSeq int
}

func newFakeStores() (*fakeProductStore, *fakeOrderStore) {
	products := map[uint]*ds.Product{}
	return &fakeProductStore{products: products}, &fakeOrderStore{
		products: products,
		orders:   map[uint]*ds.Order{},
		lines:    map[uint]*ds.OrderLine{},
	}
}

func (f *fakeOrderStore) GetOpenOrder(_ context.Context, buyerID uint) (*ds.Order, error) {
	for _, o := range f.orders {
		if o.BuyerID == buyerID && !o.IsPaid {
			return o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeOrderStore) CreateOpenOrder(_ context.Context, buyerID uint) (*ds.Order, error) {
	for _, o := range f.orders {
		if o.BuyerID == buyerID && !o.IsPaid {
			return nil, gorm.ErrDuplicatedKey
		}
	}
	f.nextOrder++
	order := &ds.Order{ID: f.nextOrder, BuyerID: buyerID, CreatedAt: time.Now()}
	f.orders[order.ID] = order
	return order, nil
}

func (f *fakeOrderStore) GetOrderLine(_ context.Context, orderID, productID uint) (*ds.OrderLine, error) {
	for _, l := range f.lines {
		if l.OrderID == orderID && l.ProductID == productID {
			return l, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeOrderStore) CreateOrderLine(_ context.Context, line *ds.OrderLine) error {
	for _, l := range f.lines {
		if l.OrderID == line.OrderID && l.ProductID == line.ProductID {
			return gorm.ErrDuplicatedKey
		}
	}
	f.nextLine++
	f.createdSeq++
	line.ID = f.nextLine
	line.CreatedAt = time.Now().Add(time.Duration(f.createdSeq) * time.Millisecond)
	f.lines[line.ID] = line
	return nil
}

func (f *fakeOrderStore) GetLineByID(_ context.Context, lineID uint) (*ds.OrderLine, error) {
	l, ok := f.lines[lineID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return f.withPreloads(l), nil
}

func (f *fakeOrderStore) withPreloads(l *ds.OrderLine) *ds.OrderLine {
	line := *l
	if o, ok := f.orders[l.OrderID]; ok {
		line.Order = *o
	}
	if p, ok := f.products[l.ProductID]; ok {
		line.Product = *p
	}
	return &line
}

func (f *fakeOrderStore) UpdateLineQuantity(_ context.Context, lineID uint, quantity int) error {
	l, ok := f.lines[lineID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	l.Quantity = quantity
	return nil
}

func (f *fakeOrderStore) DeleteLine(_ context.Context, lineID uint) error {
	delete(f.lines, lineID)
	return nil
}

func (f *fakeOrderStore) ListOrderLines(_ context.Context, orderID uint, page, pageSize int) ([]ds.OrderLine, int64, error) {
	var lines []ds.OrderLine
	for _, l := range f.lines {
		if l.OrderID == orderID {
			lines = append(lines, *f.withPreloads(l))
		}
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].CreatedAt.After(lines[j].CreatedAt) })
	total := int64(len(lines))

	start := (page - 1) * pageSize
	if start >= len(lines) {
		return nil, total, nil
	}
	end := start + pageSize
	if end > len(lines) {
		end = len(lines)
	}
	return lines[start:end], total, nil
}

func (f *fakeOrderStore) OrderTotal(_ context.Context, orderID uint) (float64, error) {
	var total float64
	for _, l := range f.lines {
		if l.OrderID == orderID {
			if p, ok := f.products[l.ProductID]; ok {
				total += p.Price * float64(l.Quantity)
			}
		}
	}
	return total, nil
}

func (f *fakeOrderStore) GetOrderForBuyer(_ context.Context, orderID, buyerID uint) (*ds.Order, error) {
	o, ok := f.orders[orderID]
	if !ok || o.BuyerID != buyerID {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (f *fakeOrderStore) MarkOrderPaid(_ context.Context, orderID uint) error {
	if o, ok := f.orders[orderID]; ok {
		o.IsPaid = true
	}
	return nil
}

func (f *fakeOrderStore) ListPaidOrders(_ context.Context, buyerID uint, page, pageSize int) ([]ds.Order, int64, error) {
	var orders []ds.Order
	for _, o := range f.orders {
		if o.BuyerID == buyerID && o.IsPaid {
			orders = append(orders, *o)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, int64(len(orders)), nil
}

func (f *fakeOrderStore) ListSellerOrders(_ context.Context, sellerID uint, includeUnpaid bool, page, pageSize int) ([]ds.Order, int64, error) {
	seen := map[uint]bool{}
	var orders []ds.Order
	for _, l := range f.lines {
		p, ok := f.products[l.ProductID]
		if !ok || p.SellerID == nil || *p.SellerID != sellerID {
			continue
		}
		o, ok := f.orders[l.OrderID]
		if !ok || seen[o.ID] {
			continue
		}
		if !o.IsPaid && !includeUnpaid {
			continue
		}
		seen[o.ID] = true
		orders = append(orders, *o)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, int64(len(orders)), nil
}

func (f *fakeOrderStore) ListSellerOrderLines(_ context.Context, orderID, sellerID uint) ([]ds.OrderLine, error) {
	var lines []ds.OrderLine
	for _, l := range f.lines {
		if l.OrderID != orderID {
			continue
		}
		p, ok := f.products[l.ProductID]
		if !ok || p.SellerID == nil || *p.SellerID != sellerID {
			continue
		}
		lines = append(lines, *f.withPreloads(l))
	}
	return lines, nil
}

func sellerProduct(id uint, price float64, sellerID uint) *ds.Product {
	return &ds.Product{ID: id, Name: "product", Price: price, Quantity: 100, SellerID: &sellerID}
}

func TestAddProductToBasketCreatesOpenOrder(t *testing.T) {
	products, orders := newFakeStores()
	products.products[1] = sellerProduct(1, 10.00, 5)
	basket := NewBasket(products, orders)

	line, err := basket.AddProductToBasket(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, line.Quantity)

	order, err := orders.GetOpenOrder(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, order.IsPaid)
	assert.Equal(t, order.ID, line.OrderID)
}

func TestAddSameProductTwiceAggregatesQuantity(t *testing.T) {
	products, orders := newFakeStores()
	products.products[1] = sellerProduct(1, 10.00, 5)
	basket := NewBasket(products, orders)

	_, err := basket.AddProductToBasket(context.Background(), 7, 1)
	require.NoError(t, err)
	line, err := basket.AddProductToBasket(context.Background(), 7, 1)
	require.NoError(t, err)

	assert.Equal(t, 2, line.Quantity)
	assert.Len(t, orders.lines, 1, "повторное добавление не должно создавать вторую позицию")

	view, err := basket.ViewBasket(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.InDelta(t, 20.00, view.TotalPrice, 0.001)
}

func TestAddProductUnknown(t *testing.T) {
	products, orders := newFakeStores()
	basket := NewBasket(products, orders)

	_, err := basket.AddProductToBasket(context.Background(), 7, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSingleOpenOrderPerBuyer(t *testing.T) {
	products, orders := newFakeStores()
	products.products[1] = sellerProduct(1, 10.00, 5)
	products.products[2] = sellerProduct(2, 4.50, 5)
	basket := NewBasket(products, orders)

	first, err := basket.AddProductToBasket(context.Background(), 7, 1)
	require.NoError(t, err)
	second, err := basket.AddProductToBasket(context.Background(), 7, 2)
	require.NoError(t, err)

	assert.Equal(t, first.OrderID, second.OrderID)
	assert.Len(t, orders.orders, 1)
}

func TestViewBasketEmpty(t *testing.T) {
	products, orders := newFakeStores()
	basket := NewBasket(products, orders)

	view, err := basket.ViewBasket(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.Nil(t, view.Order)
	assert.Empty(t, view.Lines)
	assert.Zero(t, view.TotalPrice)
}

func TestUpdateBasketLine(t *testing.T) {
	products, orders := newFakeStores()
	products.products[1] = sellerProduct(1, 10.00, 5)
	basket := NewBasket(products, orders)

	line, err := basket.AddProductToBasket(context.Background(), 7, 1)
	require.NoError(t, err)

	updated, err := basket.UpdateBasketLine(context.Background(), 7, line.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Quantity)

	view, err := basket.ViewBasket(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.InDelta(t, 30.00, view.TotalPrice, 0.001)
}

func TestUpdateBasketLineRejectsNonPositive(t *testing.T) {
	products, orders := newFakeStores()
	products.products[1] = sellerProduct(1, 10.00, 5)
	basket := NewBasket(products, orders)

	line, err := basket.AddProductToBasket(context.Background(), 7, 1)
	require.NoError(t, err)

	_, err = basket.UpdateBasketLine(context.Background(), 7, line.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = basket.UpdateBasketLine(context.Background(), 7, line.ID, -1)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	// Количество не изменилось
	assert.Equal(t, 1, orders.lines[line.ID].Quantity)
}

func TestUpdateBasketLineForeign(t *testing.T) {
	products, orders := newFakeStores()
	products.products[1] = sellerProduct(1, 10.00, 5)
	basket := NewBasket(products, orders)

	line, err := basket.AddProductToBasket(context.Background(), 7, 1)
	require.NoError(t, err)

	_, err = basket.UpdateBasketLine(context.Background(), 8, line.ID, 2)
	assert.ErrorIs(t, err, ErrForbidden)

	err = basket.DeleteBasketLine(context.Background(), 8, line.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDeleteBasketLineKeepsOpenOrder(t *testing.T) {
	products, orders := newFakeStores()
	products.products[1] = sellerProduct(1, 10.00, 5)
	basket := NewBasket(products, orders)

	line, err := basket.AddProductToBasket(context.Background(), 7, 1)
	require.NoError(t, err)

	require.NoError(t, basket.DeleteBasketLine(context.Background(), 7, line.ID))
	assert.Empty(t, orders.lines)

	// Пустой открытый заказ остаётся
	order, err := orders.GetOpenOrder(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, order.IsPaid)

	err = basket.DeleteBasketLine(context.Background(), 7, line.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCheckoutValidation(t *testing.T) {
	products, orders := newFakeStores()
	products.products[1] = sellerProduct(1, 10.00, 5)
	basket := NewBasket(products, orders)

	line, err := basket.AddProductToBasket(context.Background(), 7, 1)
	require.NoError(t, err)
	orderID := line.OrderID

	_, err = basket.Checkout(context.Background(), 7, "1", "unpaid")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = basket.Checkout(context.Background(), 7, "abc", PaymentMarker)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = basket.Checkout(context.Background(), 7, "0", PaymentMarker)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	// Чужой заказ неотличим от несуществующего
	_, err = basket.Checkout(context.Background(), 8, "1", PaymentMarker)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	// Корзина осталась открытой
	assert.False(t, orders.orders[orderID].IsPaid)
}

func TestCheckoutIdempotent(t *testing.T) {
	products, orders := newFakeStores()
	products.products[1] = sellerProduct(1, 10.00, 5)
	basket := NewBasket(products, orders)

	line, err := basket.AddProductToBasket(context.Background(), 7, 1)
	require.NoError(t, err)

	order, err := basket.Checkout(context.Background(), 7, "1", PaymentMarker)
	require.NoError(t, err)
	assert.True(t, order.IsPaid)

	again, err := basket.Checkout(context.Background(), 7, "1", PaymentMarker)
	require.NoError(t, err)
	assert.True(t, again.IsPaid)

	// После оплаты следующее добавление открывает новую корзину
	next, err := basket.AddProductToBasket(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.NotEqual(t, line.OrderID, next.OrderID)
}

func TestOrderHistoryOnlyPaid(t *testing.T) {
	products, orders := newFakeStores()
	products.products[1] = sellerProduct(1, 10.00, 5)
	basket := NewBasket(products, orders)

	_, err := basket.AddProductToBasket(context.Background(), 7, 1)
	require.NoError(t, err)
	_, err = basket.Checkout(context.Background(), 7, "1", PaymentMarker)
	require.NoError(t, err)

	// Вторая, неоплаченная корзина
	_, err = basket.AddProductToBasket(context.Background(), 7, 1)
	require.NoError(t, err)

	history, count, err := basket.ListOrderHistory(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	require.Len(t, history, 1)
	assert.True(t, history[0].Order.IsPaid)
	assert.InDelta(t, 10.00, history[0].TotalPrice, 0.001)
}

func TestOrderHistoryDetail(t *testing.T) {
	products, orders := newFakeStores()
	products.products[1] = sellerProduct(1, 10.00, 5)
	basket := NewBasket(products, orders)

	line, err := basket.AddProductToBasket(context.Background(), 7, 1)
	require.NoError(t, err)

	_, err = basket.OrderHistoryDetail(context.Background(), 8, line.OrderID, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	view, err := basket.OrderHistoryDetail(context.Background(), 7, line.OrderID, 1)
	require.NoError(t, err)
	require.NotNil(t, view.Order)
	assert.InDelta(t, 10.00, view.TotalPrice, 0.001)
}

func TestSellerOrders(t *testing.T) {
	products, orders := newFakeStores()
	products.products[1] = sellerProduct(1, 10.00, 5)
	products.products[2] = sellerProduct(2, 4.00, 6)
	basket := NewBasket(products, orders)

	// Заказ с товарами двух продавцов
	_, err := basket.AddProductToBasket(context.Background(), 7, 1)
	require.NoError(t, err)
	line, err := basket.AddProductToBasket(context.Background(), 7, 2)
	require.NoError(t, err)

	// До оплаты заказ продавцу не виден
	result, count, err := basket.ListSellerOrders(context.Background(), 5, false, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
	assert.Empty(t, result)

	// Но виден по явному флагу
	result, _, err = basket.ListSellerOrders(context.Background(), 5, true, 1)
	require.NoError(t, err)
	require.Len(t, result, 1)

	_, err = basket.Checkout(context.Background(), 7, "1", PaymentMarker)
	require.NoError(t, err)

	// Итог каждого продавца считается только по его позициям
	result, count, err = basket.ListSellerOrders(context.Background(), 5, false, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	require.Len(t, result, 1)
	assert.InDelta(t, 10.00, result[0].TotalPrice, 0.001)

	result, _, err = basket.ListSellerOrders(context.Background(), 6, false, 1)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.InDelta(t, 4.00, result[0].TotalPrice, 0.001)

	// Деталь заказа: только позиции продавца
	lines, total, err := basket.SellerOrderDetail(context.Background(), 5, line.OrderID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.EqualValues(t, 1, lines[0].ProductID)
	assert.InDelta(t, 10.00, total, 0.001)

	// Посторонний продавец получает "не найдено"
	_, _, err = basket.SellerOrderDetail(context.Background(), 99, line.OrderID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBasketPagination(t *testing.T) {
	products, orders := newFakeStores()
	basket := NewBasket(products, orders)

	var sellerID uint = 5
	for i := uint(1); i <= 25; i++ {
		products.products[i] = &ds.Product{ID: i, Name: "product", Price: 1.00, Quantity: 10, SellerID: &sellerID}
		_, err := basket.AddProductToBasket(context.Background(), 7, i)
		require.NoError(t, err)
	}

	view, err := basket.ViewBasket(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.Len(t, view.Lines, BasketPageSize)
	assert.EqualValues(t, 25, view.LineCount)
	// Итог по всему заказу, а не по странице
	assert.InDelta(t, 25.00, view.TotalPrice, 0.001)

	view, err = basket.ViewBasket(context.Background(), 7, 2)
	require.NoError(t, err)
	assert.Len(t, view.Lines, 5)
	assert.InDelta(t, 25.00, view.TotalPrice, 0.001)
}
