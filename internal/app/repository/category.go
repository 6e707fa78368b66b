package repository

import (
	"context"

	"localfood/internal/app/ds"
)

// Методы для справочника категорий

func (r *Repository) GetAllCategories(ctx context.Context) ([]ds.Category, error) {
	var categories []ds.Category
	err := r.db.WithContext(ctx).Order("name").Find(&categories).Error
	return categories, err
}

func (r *Repository) GetCategoryBySlug(ctx context.Context, slug string) (*ds.Category, error) {
	var category ds.Category
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *Repository) CreateCategory(ctx context.Context, category *ds.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}
