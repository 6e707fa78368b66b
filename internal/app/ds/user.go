package ds

// Таблица пользователей
// Флаги покупателя и продавца независимы: пользователь может быть и тем и другим
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Username  string `gorm:"type:varchar(50);unique;not null"`
	Password  string `gorm:"type:varchar(255);not null"` // bcrypt-хеш
	Email     string `gorm:"type:varchar(100)"`
	FirstName string `gorm:"type:varchar(100)"`
	LastName  string `gorm:"type:varchar(100)"`
	IsBuyer   bool   `gorm:"type:boolean;default:false;not null"`
	IsSeller  bool   `gorm:"type:boolean;default:false;not null"`
}
