package repository

import (
	"context"

	"localfood/internal/app/ds"
)

// Методы для пользователей

func (r *Repository) GetUserByID(ctx context.Context, id uint) (*ds.User, error) {
	var user ds.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*ds.User, error) {
	var user ds.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) UserExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ds.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func (r *Repository) CreateUser(ctx context.Context, user *ds.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *Repository) UpdateUserProfile(ctx context.Context, id uint, email, firstName, lastName string) error {
	return r.db.WithContext(ctx).Model(&ds.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"email":      email,
			"first_name": firstName,
			"last_name":  lastName,
		}).Error
}

func (r *Repository) UpdateUserPassword(ctx context.Context, id uint, passwordHash string) error {
	return r.db.WithContext(ctx).Model(&ds.User{}).
		Where("id = ?", id).
		Update("password", passwordHash).Error
}

// Методы для адресов

func (r *Repository) ListAddresses(ctx context.Context, userID uint) ([]ds.Address, error) {
	var addresses []ds.Address
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&addresses).Error
	return addresses, err
}

func (r *Repository) CreateAddress(ctx context.Context, address *ds.Address) error {
	return r.db.WithContext(ctx).Create(address).Error
}
