package ds

import "time"

// Таблица товаров
type Product struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"type:varchar(100);not null"`
	Description string    `gorm:"type:text"`
	Price       float64   `gorm:"type:decimal(10,2);not null"`
	Quantity    int       `gorm:"type:int;not null;check:quantity >= 0"` // заявленный остаток, движком не списывается
	CategoryID  uint      `gorm:"not null;index"`
	SellerID    *uint     `gorm:"default:null;index"`
	CreatedAt   time.Time `gorm:"not null"`

	Category Category       `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
	Seller   *User          `gorm:"foreignKey:SellerID"`
	Images   []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// Изображения товара, хранятся в MinIO, в БД только имя объекта
type ProductImage struct {
	ID        uint   `gorm:"primaryKey"`
	FilePath  string `gorm:"type:varchar(255);not null"`
	ImageName string `gorm:"type:varchar(100)"`
	ProductID uint   `gorm:"not null;index"`
}
