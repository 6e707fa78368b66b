package middleware

import (
	"localfood/internal/app/config"
	"localfood/internal/app/ds"
	"localfood/internal/app/redis"
	"localfood/internal/app/role"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

type AuthMiddleware struct {
	RedisClient *redis.Client
	Config      *config.Config
}

func NewAuthMiddleware(redisClient *redis.Client, cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{
		RedisClient: redisClient,
		Config:      cfg,
	}
}

// WithAuthCheck проверяет JWT и требует хотя бы одну из перечисленных
// возможностей (покупатель/продавец). Личность кладётся в контекст запроса
func (am *AuthMiddleware) WithAuthCheck(assignedRoles ...role.Role) gin.HandlerFunc {
	return gin.HandlerFunc(func(gCtx *gin.Context) {
		jwtStr := gCtx.GetHeader("Authorization")
		if jwtStr == "" {
			gCtx.AbortWithStatus(401) // Unauthorized
			return
		}

		// Убираем префикс "Bearer " если он есть
		if len(jwtStr) > 7 && jwtStr[:7] == "Bearer " {
			jwtStr = jwtStr[7:]
		}

		// Разлогиненные токены лежат в blacklist Redis
		err := am.RedisClient.CheckJWTInBlacklist(gCtx.Request.Context(), jwtStr)
		if err == nil {
			gCtx.AbortWithStatus(401)
			return
		}

		token, err := am.parseJWTToken(jwtStr)
		if err != nil {
			gCtx.AbortWithStatus(401)
			return
		}

		claims, ok := token.Claims.(*ds.JWTClaims)
		if !ok || !token.Valid {
			gCtx.AbortWithStatus(401)
			return
		}

		if len(assignedRoles) > 0 && !hasRequiredRole(claims, assignedRoles) {
			gCtx.AbortWithStatus(403) // Forbidden
			return
		}

		gCtx.Set("userID", claims.UserID)
		gCtx.Set("isBuyer", claims.IsBuyer)
		gCtx.Set("isSeller", claims.IsSeller)

		gCtx.Next()
	})
}

func (am *AuthMiddleware) parseJWTToken(tokenString string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(tokenString, &ds.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(am.Config.JWT.Token), nil
	})
}

// Флаги независимы: достаточно любой из требуемых возможностей
func hasRequiredRole(claims *ds.JWTClaims, requiredRoles []role.Role) bool {
	for _, r := range requiredRoles {
		switch r {
		case role.Buyer:
			if claims.IsBuyer {
				return true
			}
		case role.Seller:
			if claims.IsSeller {
				return true
			}
		}
	}
	return false
}
