package repository

import (
	"context"

	"localfood/internal/app/ds"
)

// Методы для работы с товарами

// Список товаров, новые первыми, с поиском по названию и постраничной выборкой
func (r *Repository) ListProducts(ctx context.Context, query string, page, pageSize int) ([]ds.Product, int64, error) {
	tx := r.db.WithContext(ctx).Model(&ds.Product{})
	if query != "" {
		tx = tx.Where("name ILIKE ?", "%"+query+"%")
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []ds.Product
	err := tx.Preload("Category").Preload("Images").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&products).Error
	return products, total, err
}

// Товары одной категории по её slug
func (r *Repository) ListProductsByCategory(ctx context.Context, slug string, page, pageSize int) ([]ds.Product, int64, error) {
	category, err := r.GetCategoryBySlug(ctx, slug)
	if err != nil {
		return nil, 0, err
	}

	tx := r.db.WithContext(ctx).Model(&ds.Product{}).Where("category_id = ?", category.ID)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []ds.Product
	err = tx.Preload("Category").Preload("Images").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&products).Error
	return products, total, err
}

// Товары продавца (страница текущих продаж)
func (r *Repository) ListProductsBySeller(ctx context.Context, sellerID uint, page, pageSize int) ([]ds.Product, int64, error) {
	tx := r.db.WithContext(ctx).Model(&ds.Product{}).Where("seller_id = ?", sellerID)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []ds.Product
	err := tx.Preload("Category").Preload("Images").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&products).Error
	return products, total, err
}

func (r *Repository) GetProductByID(ctx context.Context, id uint) (*ds.Product, error) {
	var product ds.Product
	err := r.db.WithContext(ctx).Preload("Category").Preload("Images").First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *Repository) CreateProduct(ctx context.Context, product *ds.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *Repository) AddProductImage(ctx context.Context, image *ds.ProductImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}
