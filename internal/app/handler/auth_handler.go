package handler

import (
	"net/http"
	"time"

	"localfood/internal/app/config"
	"localfood/internal/app/ds"
	"localfood/internal/app/dto"
	"localfood/internal/app/redis"
	"localfood/internal/app/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	Account     *service.Account
	RedisClient *redis.Client
	Config      *config.Config
}

func NewAuthHandler(account *service.Account, redisClient *redis.Client, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		Account:     account,
		RedisClient: redisClient,
		Config:      cfg,
	}
}

func userToDTO(user *ds.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		IsBuyer:   user.IsBuyer,
		IsSeller:  user.IsSeller,
	}
}

// issueToken подписывает JWT с флагами возможностей пользователя
func (h *AuthHandler) issueToken(user *ds.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(h.Config.JWT.SigningMethod, ds.JWTClaims{
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(h.Config.JWT.ExpiresIn).Unix(),
			IssuedAt:  now.Unix(),
			Issuer:    "localfood",
		},
		UserID:   user.ID,
		IsBuyer:  user.IsBuyer,
		IsSeller: user.IsSeller,
	})
	return token.SignedString([]byte(h.Config.JWT.Token))
}

// RegisterUser регистрация нового пользователя
// @Summary Регистрация пользователя
// @Description Создаёт аккаунт. Тип business даёт флаг продавца, consumer — покупателя
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Данные для регистрации"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/auth/register [post]
func (h *AuthHandler) RegisterUser(ctx *gin.Context) {
	var request dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		errorResponse(ctx, http.StatusBadRequest, "неверные данные: "+err.Error())
		return
	}

	user, err := h.Account.Register(ctx.Request.Context(), request)
	if err != nil {
		serviceErrorResponse(ctx, err)
		return
	}

	accessToken, err := h.issueToken(user)
	if err != nil {
		logrus.Error("Error signing token: ", err)
		errorResponse(ctx, http.StatusInternalServerError, "ошибка регистрации пользователя")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "пользователь успешно зарегистрирован",
		"user":    userToDTO(user),
		"token":   accessToken,
	})
}

// LoginUser аутентификация пользователя
// @Summary Вход в систему
// @Description Проверяет логин/пароль и возвращает JWT токен
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Данные для входа"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) LoginUser(ctx *gin.Context) {
	var request dto.LoginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		errorResponse(ctx, http.StatusBadRequest, "неверные данные: "+err.Error())
		return
	}

	user, err := h.Account.Authenticate(ctx.Request.Context(), request.Username, request.Password)
	if err != nil {
		serviceErrorResponse(ctx, err)
		return
	}

	accessToken, err := h.issueToken(user)
	if err != nil {
		logrus.Error("Error signing token: ", err)
		errorResponse(ctx, http.StatusInternalServerError, "ошибка авторизации")
		return
	}

	ctx.JSON(http.StatusOK, dto.LoginResponse{
		Token: accessToken,
		User:  userToDTO(user),
	})
}

// LogoutUser выход пользователя из системы
// @Summary Выход из системы
// @Description Кладёт токен в blacklist до истечения его срока действия
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/auth/logout [post]
func (h *AuthHandler) LogoutUser(ctx *gin.Context) {
	tokenString := ctx.GetHeader("Authorization")
	if tokenString == "" {
		errorResponse(ctx, http.StatusUnauthorized, "authorization header missing")
		return
	}

	if len(tokenString) > 7 && tokenString[:7] == "Bearer " {
		tokenString = tokenString[7:]
	}

	token, err := jwt.ParseWithClaims(tokenString, &ds.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(h.Config.JWT.Token), nil
	})
	if err != nil {
		errorResponse(ctx, http.StatusUnauthorized, err.Error())
		return
	}

	claims, ok := token.Claims.(*ds.JWTClaims)
	if !ok {
		errorResponse(ctx, http.StatusUnauthorized, "invalid token claims")
		return
	}

	// TTL до истечения токена; истёкший токен блокировать уже не нужно
	ttl := time.Until(time.Unix(claims.ExpiresAt, 0))
	if ttl > 0 {
		if err := h.RedisClient.WriteJWTToBlacklist(ctx.Request.Context(), tokenString, ttl); err != nil {
			logrus.Error("Error writing token to blacklist: ", err)
			errorResponse(ctx, http.StatusInternalServerError, "ошибка выхода из системы")
			return
		}
	}

	successResponse(ctx, http.StatusOK, "пользователь успешно вышел из системы", nil)
}

// GetUserProfile получение профиля пользователя
// @Summary Профиль пользователя
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/auth/profile [get]
func (h *AuthHandler) GetUserProfile(ctx *gin.Context) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		errorResponse(ctx, http.StatusUnauthorized, "пользователь не авторизован")
		return
	}

	user, err := h.Account.GetProfile(ctx.Request.Context(), userID)
	if err != nil {
		serviceErrorResponse(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, userToDTO(user))
}

// UpdateProfile обновление профиля
// @Summary Обновление профиля
// @Description Меняет имя и email; флаги ролей не меняются
// @Tags Authentication
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Данные профиля"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/auth/profile [put]
func (h *AuthHandler) UpdateProfile(ctx *gin.Context) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		errorResponse(ctx, http.StatusUnauthorized, "пользователь не авторизован")
		return
	}

	var request dto.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		errorResponse(ctx, http.StatusBadRequest, "неверные данные: "+err.Error())
		return
	}

	user, err := h.Account.UpdateProfile(ctx.Request.Context(), userID, request)
	if err != nil {
		serviceErrorResponse(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, userToDTO(user))
}

// ChangePassword смена пароля
// @Summary Смена пароля
// @Tags Authentication
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ChangePasswordRequest true "Старый и новый пароль"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/auth/change-password [post]
func (h *AuthHandler) ChangePassword(ctx *gin.Context) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		errorResponse(ctx, http.StatusUnauthorized, "пользователь не авторизован")
		return
	}

	var request dto.ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		errorResponse(ctx, http.StatusBadRequest, "неверные данные: "+err.Error())
		return
	}

	err := h.Account.ChangePassword(ctx.Request.Context(), userID, request.OldPassword, request.NewPassword)
	if err != nil {
		serviceErrorResponse(ctx, err)
		return
	}

	successResponse(ctx, http.StatusOK, "пароль успешно изменён", nil)
}

// ListAddresses адреса пользователя
// @Summary Список адресов
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.AddressResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/auth/addresses [get]
func (h *AuthHandler) ListAddresses(ctx *gin.Context) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		errorResponse(ctx, http.StatusUnauthorized, "пользователь не авторизован")
		return
	}

	addresses, err := h.Account.ListAddresses(ctx.Request.Context(), userID)
	if err != nil {
		serviceErrorResponse(ctx, err)
		return
	}

	response := make([]dto.AddressResponse, len(addresses))
	for i, a := range addresses {
		response[i] = dto.AddressResponse{
			ID:              a.ID,
			City:            a.City,
			StreetName:      a.StreetName,
			StreetNumber:    a.StreetNumber,
			ApartmentNumber: a.ApartmentNumber,
			UnitNumber:      a.UnitNumber,
			Province:        a.Province,
			PostalCode:      a.PostalCode,
		}
	}

	ctx.JSON(http.StatusOK, response)
}

// AddAddress добавление адреса
// @Summary Добавление адреса
// @Tags Authentication
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AddressRequest true "Адрес"
// @Success 201 {object} dto.AddressResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/auth/addresses [post]
func (h *AuthHandler) AddAddress(ctx *gin.Context) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		errorResponse(ctx, http.StatusUnauthorized, "пользователь не авторизован")
		return
	}

	var request dto.AddressRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		errorResponse(ctx, http.StatusBadRequest, "неверные данные: "+err.Error())
		return
	}

	address, err := h.Account.AddAddress(ctx.Request.Context(), userID, request)
	if err != nil {
		serviceErrorResponse(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.AddressResponse{
		ID:              address.ID,
		City:            address.City,
		StreetName:      address.StreetName,
		StreetNumber:    address.StreetNumber,
		ApartmentNumber: address.ApartmentNumber,
		UnitNumber:      address.UnitNumber,
		Province:        address.Province,
		PostalCode:      address.PostalCode,
	})
}
