package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"localfood/internal/app/config"
	"localfood/internal/app/ds"
	"localfood/internal/app/dto"
	"localfood/internal/app/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memUserStore struct {
	users  map[uint]*ds.User
	nextID uint
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[uint]*ds.User{}}
}

func (m *memUserStore) GetUserByID(_ context.Context, id uint) (*ds.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (m *memUserStore) GetUserByUsername(_ context.Context, username string) (*ds.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memUserStore) UserExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := m.GetUserByUsername(ctx, username)
	return err == nil, nil
}

func (m *memUserStore) CreateUser(_ context.Context, user *ds.User) error {
	m.nextID++
	user.ID = m.nextID
	m.users[user.ID] = user
	return nil
}

func (m *memUserStore) UpdateUserProfile(_ context.Context, id uint, email, firstName, lastName string) error {
	u, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Email = email
	u.FirstName = firstName
	u.LastName = lastName
	return nil
}

func (m *memUserStore) UpdateUserPassword(_ context.Context, id uint, passwordHash string) error {
	u, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Password = passwordHash
	return nil
}

func (m *memUserStore) ListAddresses(context.Context, uint) ([]ds.Address, error) { return nil, nil }
func (m *memUserStore) CreateAddress(context.Context, *ds.Address) error          { return nil }

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Token:         "test-secret",
			ExpiresIn:     time.Hour,
			SigningMethod: jwt.SigningMethodHS256,
		},
	}
}

func setupAuthRouter(t *testing.T, store service.UserStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewAuthHandler(service.NewAccount(store), nil, testConfig())

	r := gin.New()
	r.POST("/api/auth/register", h.RegisterUser)
	r.POST("/api/auth/login", h.LoginUser)
	return r
}

func registerBody(username, accountType string) map[string]interface{} {
	return map[string]interface{}{
		"username":     username,
		"password1":    "qwerty123",
		"password2":    "qwerty123",
		"email":        username + "@example.com",
		"first_name":   "Jan",
		"last_name":    "Kowalski",
		"account_type": accountType,
	}
}

func TestRegisterIssuesToken(t *testing.T) {
	r := setupAuthRouter(t, newMemUserStore())

	w := doJSON(r, http.MethodPost, "/api/auth/register", registerBody("jan", "consumer"))
	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["token"])

	user, ok := resp["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, user["is_buyer"])
	assert.Equal(t, false, user["is_seller"])
}

func TestRegisterPasswordMismatchField(t *testing.T) {
	r := setupAuthRouter(t, newMemUserStore())

	body := registerBody("jan", "consumer")
	body["password2"] = "other"

	w := doJSON(r, http.MethodPost, "/api/auth/register", body)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "password2", resp.Field)
}

func TestRegisterDuplicateConflict(t *testing.T) {
	r := setupAuthRouter(t, newMemUserStore())

	w := doJSON(r, http.MethodPost, "/api/auth/register", registerBody("jan", "consumer"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPost, "/api/auth/register", registerBody("jan", "business"))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterInvalidAccountType(t *testing.T) {
	r := setupAuthRouter(t, newMemUserStore())

	body := registerBody("jan", "admin")
	w := doJSON(r, http.MethodPost, "/api/auth/register", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin(t *testing.T) {
	store := newMemUserStore()
	r := setupAuthRouter(t, store)

	w := doJSON(r, http.MethodPost, "/api/auth/register", registerBody("jan", "consumer"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPost, "/api/auth/login", map[string]interface{}{
		"username": "jan",
		"password": "qwerty123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)

	// Токен несёт флаги возможностей
	claims := &ds.JWTClaims{}
	_, err := jwt.ParseWithClaims(resp.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.True(t, claims.IsBuyer)
	assert.False(t, claims.IsSeller)

	w = doJSON(r, http.MethodPost, "/api/auth/login", map[string]interface{}{
		"username": "jan",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
