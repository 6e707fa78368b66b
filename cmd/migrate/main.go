package main

import (
	"errors"
	"log"

	"localfood/internal/app/ds"
	"localfood/internal/app/dsn"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Стартовые категории каталога
var seedCategories = []ds.Category{
	{Name: "Fruits and vegetables", Slug: "fruits-and-vegetables"},
	{Name: "Dairy", Slug: "dairy"},
	{Name: "Bakery", Slug: "bakery"},
	{Name: "Meat", Slug: "meat"},
	{Name: "Preserves", Slug: "preserves"},
	{Name: "Honey", Slug: "honey"},
}

func main() {
	// Загрузка переменных окружения из .env файла
	_ = godotenv.Load()

	// Получение DSN строки подключения
	dsnStr := dsn.FromEnv()
	if dsnStr == "" {
		log.Fatal("DSN string is empty. Check your .env file")
	}

	// Подключение к базе данных
	db, err := gorm.Open(postgres.Open(dsnStr), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Connected to database successfully")

	// Миграция всех моделей
	err = db.AutoMigrate(
		&ds.User{},
		&ds.Address{},
		&ds.Category{},
		&ds.Product{},
		&ds.ProductImage{},
		&ds.Order{},
		&ds.OrderLine{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Категории создаются один раз, по slug
	for _, c := range seedCategories {
		var existing ds.Category
		if err := db.Where("slug = ?", c.Slug).First(&existing).Error; errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&c).Error; err != nil {
				log.Fatalf("Failed to seed category %s: %v", c.Slug, err)
			}
		}
	}

	log.Println("Database migration completed successfully")
}
