package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"assets-management/config"
	"assets-management/internal/api/middleware"
	"assets-management/internal/dto"
	"assets-management/internal/service"
	"assets-management/pkg/response"
)

// RefreshTokenCookie Refresh Token 的 Cookie 名
const RefreshTokenCookie = "refresh_token"

// AuthHandler 认证模块 HTTP 处理器
// Token 对同时写入响应体与 HttpOnly Cookie，浏览器与 API 客户端各取所需
type AuthHandler struct {
	cfg     *config.Config
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(cfg *config.Config, authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{cfg: cfg, authSvc: authSvc}
}

// Login 用户登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setTokenCookies(c, result)
	response.OK(c, result)
}

// Refresh 刷新 Token 对
// POST /api/v1/auth/refresh
// Refresh Token 来源优先级：Cookie refresh_token > 请求体
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, _ := c.Cookie(RefreshTokenCookie)
	if refreshToken == "" {
		var body struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := c.ShouldBindJSON(&body); err == nil {
			refreshToken = body.RefreshToken
		}
	}
	if refreshToken == "" {
		response.Unauthorized(c, "Refresh token not found in cookies or request body")
		return
	}

	result, err := h.authSvc.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setTokenCookies(c, result)
	response.OK(c, result)
}

// Logout 用户登出
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), actor.UserID); err != nil {
		response.Error(c, err)
		return
	}

	h.clearTokenCookies(c)
	response.OK(c, gin.H{"detail": "Logged out successfully"})
}

// ChangePassword 修改密码
// POST /api/v1/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.authSvc.ChangePassword(c.Request.Context(), actor.UserID, &req); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"detail": "Your password has been changed successfully"})
}

// Check 认证探活
// GET /api/v1/auth/check
func (h *AuthHandler) Check(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	response.OK(c, gin.H{
		"detail":   "You are authenticated",
		"user_id":  actor.UserID,
		"username": actor.Username,
		"role":     actor.Role,
		"location": actor.Location,
	})
}

// ── Cookie 工具 ──

func (h *AuthHandler) setTokenCookies(c *gin.Context, tokens *dto.TokenResponse) {
	cookie := h.cfg.Auth.Cookie
	c.SetSameSite(parseSameSite(cookie.SameSite))
	c.SetCookie(middleware.AccessTokenCookie, tokens.AccessToken,
		int(h.cfg.Auth.AccessTokenTTL.Seconds()), "/", cookie.Domain, cookie.Secure, true)
	c.SetCookie(RefreshTokenCookie, tokens.RefreshToken,
		int(h.cfg.Auth.RefreshTokenTTL.Seconds()), "/", cookie.Domain, cookie.Secure, true)
}

func (h *AuthHandler) clearTokenCookies(c *gin.Context) {
	cookie := h.cfg.Auth.Cookie
	c.SetSameSite(parseSameSite(cookie.SameSite))
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", cookie.Domain, cookie.Secure, true)
	c.SetCookie(RefreshTokenCookie, "", -1, "/", cookie.Domain, cookie.Secure, true)
}

func parseSameSite(mode string) http.SameSite {
	switch mode {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
