package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"tripcore/internal/domain/account"
	"tripcore/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthMiddleware struct {
	tokenValidator usecase.TokenValidator
}

const (
	ctxAccountIDKey   = "account_id"
	ctxAccountRoleKey = "account_role"
)

// Operators run the shop, guides run trips, divers book seats.
var roleHierarchy = map[account.Role]int{
	account.RoleDiver:    1,
	account.RoleGuide:    2,
	account.RoleOperator: 3,
}

func NewAuthMiddleware(tokenValidator usecase.TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{tokenValidator: tokenValidator}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimSpace(authHeader[len("Bearer "):])
		}

		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Access token required",
			})
			c.Abort()
			return
		}

		accountID, role, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			slog.Warn("token validation failed in auth middleware", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(ctxAccountIDKey, accountID)
		c.Set(ctxAccountRoleKey, role)
		c.Next()
	}
}

func hasMinimumRole(role, minRole account.Role) bool {
	level, ok := roleHierarchy[role]
	minLevel, minOK := roleHierarchy[minRole]
	return ok && minOK && level >= minLevel
}

func (m *AuthMiddleware) RequireRoleAtLeast(minRole account.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetAccountRole(c)
		if !ok {
			// Should be used after RequireAuth()
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
			c.Abort()
			return
		}

		if !hasMinimumRole(role, minRole) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func GetAccountID(c *gin.Context) (uuid.UUID, bool) {
	accountID, exists := c.Get(ctxAccountIDKey)
	if !exists {
		return uuid.Nil, false
	}

	id, ok := accountID.(uuid.UUID)
	return id, ok
}

func GetAccountRole(c *gin.Context) (account.Role, bool) {
	accountRole, exists := c.Get(ctxAccountRoleKey)
	if !exists {
		return "", false
	}

	role, ok := accountRole.(account.Role)
	return role, ok
}
