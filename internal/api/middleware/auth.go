package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"assets-management/internal/authz"
	"assets-management/internal/model"
	"assets-management/pkg/jwt"
	"assets-management/pkg/response"
)

// 上下文键
const (
	ContextActorKey = "actor"

	// AccessTokenCookie 浏览器客户端通过 HttpOnly Cookie 携带 Access Token
	AccessTokenCookie = "access_token"
)

// JWTAuth JWT 认证中间件
// Token 来源优先级：Cookie access_token > Authorization: Bearer <token>
// 验证通过后将调用方身份 (authz.Actor) 注入上下文
func JWTAuth(jwtMgr *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Unauthorized(c, "Missing authentication token")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(token)
		if err != nil {
			response.Unauthorized(c, "Could not validate credentials")
			c.Abort()
			return
		}
		if claims.TokenType != jwt.TokenTypeAccess {
			response.Unauthorized(c, "Could not validate credentials")
			c.Abort()
			return
		}

		c.Set(ContextActorKey, authz.Actor{
			UserID:   claims.UserID,
			Username: claims.Username,
			Role:     model.Role(claims.Role),
			Location: model.Location(claims.Location),
		})

		c.Next()
	}
}

// AdminOnly 管理员权限中间件，必须位于 JWTAuth 之后
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get(ContextActorKey)
		if !exists {
			response.Unauthorized(c, "Not authenticated")
			c.Abort()
			return
		}
		actor, ok := v.(authz.Actor)
		if !ok || !actor.IsAdmin() {
			response.Forbidden(c, "Admin permission required")
			c.Abort()
			return
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
