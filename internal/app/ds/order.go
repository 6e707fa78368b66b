package ds

import "time"

// Заказ покупателя. Пока is_paid=false — это его корзина.
// Частичный уникальный индекс гарантирует не более одной открытой корзины на покупателя
type Order struct {
	ID              uint       `gorm:"primaryKey"`
	BuyerID         uint       `gorm:"not null;index:uniq_open_basket,unique,where:is_paid = false"`
	CreatedAt       time.Time  `gorm:"not null"`
	RealizationDate *time.Time `gorm:"default:null"`
	IsPaid          bool       `gorm:"type:boolean;default:false;not null"`
	IsRealized      bool       `gorm:"type:boolean;default:false;not null"`

	Buyer User        `gorm:"foreignKey:BuyerID"`
	Lines []OrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// Позиция заказа: один товар встречается в заказе не более одного раза,
// повторное добавление увеличивает количество
type OrderLine struct {
	ID        uint      `gorm:"primaryKey"`
	OrderID   uint      `gorm:"not null;index;uniqueIndex:idx_order_product"`
	ProductID uint      `gorm:"not null;index;uniqueIndex:idx_order_product"`
	Quantity  int       `gorm:"type:int;not null;check:quantity > 0"`
	CreatedAt time.Time `gorm:"not null"`

	Order   Order   `gorm:"foreignKey:OrderID"`
	Product Product `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
}

// Стоимость позиции по текущей цене товара
func (l *OrderLine) TotalPrice() float64 {
	return l.Product.Price * float64(l.Quantity)
}
