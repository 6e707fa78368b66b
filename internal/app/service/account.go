package service

import (
	"context"
	"errors"
	"fmt"

	"localfood/internal/app/ds"
	"localfood/internal/app/dto"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Типы аккаунта из формы регистрации
const (
	AccountTypeBusiness = "business" // продавец
	AccountTypeConsumer = "consumer" // покупатель
)

// UserStore — хранилище пользователей и их адресов
type UserStore interface {
	GetUserByID(ctx context.Context, id uint) (*ds.User, error)
	GetUserByUsername(ctx context.Context, username string) (*ds.User, error)
	UserExistsByUsername(ctx context.Context, username string) (bool, error)
	CreateUser(ctx context.Context, user *ds.User) error
	UpdateUserProfile(ctx context.Context, id uint, email, firstName, lastName string) error
	UpdateUserPassword(ctx context.Context, id uint, passwordHash string) error
	ListAddresses(ctx context.Context, userID uint) ([]ds.Address, error)
	CreateAddress(ctx context.Context, address *ds.Address) error
}

// Account — сервис аккаунтов: регистрация, проверка пароля, профиль
type Account struct {
	users UserStore
}

func NewAccount(users UserStore) *Account {
	return &Account{users: users}
}

// Register создаёт пользователя. Тип аккаунта выставляет ровно один из
// флагов: business — продавец, consumer — покупатель
func (a *Account) Register(ctx context.Context, req dto.RegisterRequest) (*ds.User, error) {
	if req.Password1 != req.Password2 {
		return nil, &FieldError{Field: "password2", Msg: "пароли не совпадают"}
	}

	exists, err := a.users.UserExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: имя пользователя уже занято", ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password1), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &ds.User{
		Username:  req.Username,
		Password:  string(hash),
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsSeller:  req.AccountType == AccountTypeBusiness,
		IsBuyer:   req.AccountType == AccountTypeConsumer,
	}

	err = a.users.CreateUser(ctx, user)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Гонка двух регистраций с одним именем
		return nil, fmt.Errorf("%w: имя пользователя уже занято", ErrConflict)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate проверяет пару логин/пароль
func (a *Account) Authenticate(ctx context.Context, username, password string) (*ds.User, error) {
	user, err := a.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: неверный логин или пароль", ErrUnauthorized)
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, fmt.Errorf("%w: неверный логин или пароль", ErrUnauthorized)
	}
	return user, nil
}

func (a *Account) GetProfile(ctx context.Context, userID uint) (*ds.User, error) {
	user, err := a.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: пользователь %d", ErrNotFound, userID)
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile меняет имя и email; флаги ролей после регистрации не меняются
func (a *Account) UpdateProfile(ctx context.Context, userID uint, req dto.UpdateProfileRequest) (*ds.User, error) {
	user, err := a.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Email != "" {
		user.Email = req.Email
	}
	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}

	if err := a.users.UpdateUserProfile(ctx, user.ID, user.Email, user.FirstName, user.LastName); err != nil {
		return nil, err
	}
	return user, nil
}

func (a *Account) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	user, err := a.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)) != nil {
		return &FieldError{Field: "old_password", Msg: "неверный текущий пароль"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return a.users.UpdateUserPassword(ctx, user.ID, string(hash))
}

func (a *Account) ListAddresses(ctx context.Context, userID uint) ([]ds.Address, error) {
	return a.users.ListAddresses(ctx, userID)
}

func (a *Account) AddAddress(ctx context.Context, userID uint, req dto.AddressRequest) (*ds.Address, error) {
	if req.Province != "" && !validProvince(req.Province) {
		return nil, &FieldError{Field: "province", Msg: "неизвестное воеводство"}
	}

	address := &ds.Address{
		UserID:          userID,
		City:            req.City,
		StreetName:      req.StreetName,
		StreetNumber:    req.StreetNumber,
		ApartmentNumber: req.ApartmentNumber,
		UnitNumber:      req.UnitNumber,
		Province:        req.Province,
		PostalCode:      req.PostalCode,
	}
	if err := a.users.CreateAddress(ctx, address); err != nil {
		return nil, err
	}
	return address, nil
}

func validProvince(name string) bool {
	for _, p := range ds.Provinces {
		if p == name {
			return true
		}
	}
	return false
}
