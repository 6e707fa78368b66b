package ds

// Адрес доставки пользователя
type Address struct {
	ID              uint   `gorm:"primaryKey"`
	UserID          uint   `gorm:"not null;index"`
	City            string `gorm:"type:varchar(100);not null"`
	StreetName      string `gorm:"type:varchar(100)"`
	StreetNumber    string `gorm:"type:varchar(100)"`
	ApartmentNumber string `gorm:"type:varchar(100)"`
	UnitNumber      string `gorm:"type:varchar(100)"`
	Province        string `gorm:"type:varchar(20)"`
	PostalCode      string `gorm:"type:varchar(20)"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// Воеводства для валидации адреса
var Provinces = []string{
	"Dolnośląskie",
	"Kujawsko-pomorskie",
	"Lubelskie",
	"Lubuskie",
	"Łódzkie",
	"Małopolskie",
	"Mazowieckie",
	"Opolskie",
	"Podkarpackie",
	"Podlaskie",
	"Pomorskie",
	"Śląskie",
	"Świętokrzyskie",
	"Warmińsko-mazurskie",
	"Wielkopolskie",
	"Zachodniopomorskie",
}
