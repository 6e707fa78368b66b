package ds

import (
	"github.com/golang-jwt/jwt"
)

type JWTClaims struct {
	jwt.StandardClaims
	UserID   uint `json:"user_id"`
	IsBuyer  bool `json:"is_buyer"`
	IsSeller bool `json:"is_seller"`
}
