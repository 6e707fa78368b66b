package service

import (
	"context"
	"testing"

	"localfood/internal/app/ds"
	"localfood/internal/app/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUserStore struct {
	users     map[uint]*ds.User
	addresses map[uint][]ds.Address
	nextID    uint
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		users:     map[uint]*ds.User{},
		addresses: map[uint][]ds.Address{},
	}
}

func (f *fakeUserStore) GetUserByID(_ context.Context, id uint) (*ds.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeUserStore) GetUserByUsername(_ context.Context, username string) (*ds.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) UserExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := f.GetUserByUsername(ctx, username)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (f *fakeUserStore) CreateUser(_ context.Context, user *ds.User) error {
	for _, u := range f.users {
		if u.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	f.nextID++
	user.ID = f.nextID
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) UpdateUserProfile(_ context.Context, id uint, email, firstName, lastName string) error {
	u, ok := f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Email = email
	u.FirstName = firstName
	u.LastName = lastName
	return nil
}

func (f *fakeUserStore) UpdateUserPassword(_ context.Context, id uint, passwordHash string) error {
	u, ok := f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Password = passwordHash
	return nil
}

func (f *fakeUserStore) ListAddresses(_ context.Context, userID uint) ([]ds.Address, error) {
	return f.addresses[userID], nil
}

func (f *fakeUserStore) CreateAddress(_ context.Context, address *ds.Address) error {
	address.ID = uint(len(f.addresses[address.UserID]) + 1)
	f.addresses[address.UserID] = append(f.addresses[address.UserID], *address)
	return nil
}

func registerRequest(username, accountType string) dto.RegisterRequest {
	return dto.RegisterRequest{
		Username:    username,
		Password1:   "qwerty123",
		Password2:   "qwerty123",
		Email:       username + "@example.com",
		FirstName:   "Jan",
		LastName:    "Kowalski",
		AccountType: accountType,
	}
}

func TestRegisterConsumer(t *testing.T) {
	store := newFakeUserStore()
	account := NewAccount(store)

	user, err := account.Register(context.Background(), registerRequest("jan", AccountTypeConsumer))
	require.NoError(t, err)

	assert.True(t, user.IsBuyer)
	assert.False(t, user.IsSeller)
	// В базе лежит bcrypt-хеш, не сам пароль
	assert.NotEqual(t, "qwerty123", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("qwerty123")))
}

func TestRegisterBusiness(t *testing.T) {
	store := newFakeUserStore()
	account := NewAccount(store)

	user, err := account.Register(context.Background(), registerRequest("farmer", AccountTypeBusiness))
	require.NoError(t, err)

	assert.True(t, user.IsSeller)
	assert.False(t, user.IsBuyer)
}

func TestRegisterPasswordMismatch(t *testing.T) {
	store := newFakeUserStore()
	account := NewAccount(store)

	req := registerRequest("jan", AccountTypeConsumer)
	req.Password2 = "other"

	_, err := account.Register(context.Background(), req)
	require.Error(t, err)

	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "password2", fieldErr.Field)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	// Пользователь не создан
	assert.Empty(t, store.users)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	store := newFakeUserStore()
	account := NewAccount(store)

	_, err := account.Register(context.Background(), registerRequest("jan", AccountTypeConsumer))
	require.NoError(t, err)

	_, err = account.Register(context.Background(), registerRequest("jan", AccountTypeBusiness))
	assert.ErrorIs(t, err, ErrConflict)
	assert.Len(t, store.users, 1)
}

func TestAuthenticate(t *testing.T) {
	store := newFakeUserStore()
	account := NewAccount(store)

	_, err := account.Register(context.Background(), registerRequest("jan", AccountTypeConsumer))
	require.NoError(t, err)

	user, err := account.Authenticate(context.Background(), "jan", "qwerty123")
	require.NoError(t, err)
	assert.Equal(t, "jan", user.Username)

	_, err = account.Authenticate(context.Background(), "jan", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = account.Authenticate(context.Background(), "nobody", "qwerty123")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUpdateProfileKeepsRoles(t *testing.T) {
	store := newFakeUserStore()
	account := NewAccount(store)

	user, err := account.Register(context.Background(), registerRequest("farmer", AccountTypeBusiness))
	require.NoError(t, err)

	updated, err := account.UpdateProfile(context.Background(), user.ID, dto.UpdateProfileRequest{
		Email:     "new@example.com",
		FirstName: "Adam",
	})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", updated.Email)
	assert.Equal(t, "Adam", updated.FirstName)
	assert.Equal(t, "Kowalski", updated.LastName)
	assert.True(t, updated.IsSeller)
}

func TestChangePassword(t *testing.T) {
	store := newFakeUserStore()
	account := NewAccount(store)

	user, err := account.Register(context.Background(), registerRequest("jan", AccountTypeConsumer))
	require.NoError(t, err)

	err = account.ChangePassword(context.Background(), user.ID, "wrong", "newpass123")
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "old_password", fieldErr.Field)

	require.NoError(t, account.ChangePassword(context.Background(), user.ID, "qwerty123", "newpass123"))

	_, err = account.Authenticate(context.Background(), "jan", "newpass123")
	assert.NoError(t, err)
}

func TestAddAddress(t *testing.T) {
	store := newFakeUserStore()
	account := NewAccount(store)

	user, err := account.Register(context.Background(), registerRequest("jan", AccountTypeConsumer))
	require.NoError(t, err)

	_, err = account.AddAddress(context.Background(), user.ID, dto.AddressRequest{
		City:     "Kraków",
		Province: "Atlantyda",
	})
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "province", fieldErr.Field)

	address, err := account.AddAddress(context.Background(), user.ID, dto.AddressRequest{
		City:       "Kraków",
		StreetName: "Floriańska",
		Province:   "Małopolskie",
		PostalCode: "31-019",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, address.UserID)

	addresses, err := account.ListAddresses(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Len(t, addresses, 1)
}
