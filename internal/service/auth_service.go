package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"assets-management/config"
	"assets-management/internal/dto"
	"assets-management/internal/model"
	"assets-management/internal/repository"
	"assets-management/pkg/apperr"
	"assets-management/pkg/hash"
	"assets-management/pkg/jwt"
)

// TokenStore Refresh Token 服务端存储
// Redis 不可达时以 nil 注入，认证模块跳过吊销校验降级运行
type TokenStore interface {
	StoreRefreshToken(ctx context.Context, userID uint, token string, ttl time.Duration) error
	GetRefreshToken(ctx context.Context, userID uint) (string, error)
	DeleteRefreshToken(ctx context.Context, userID uint) error
}

// AuthService 认证业务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, userID uint) error
	ChangePassword(ctx context.Context, userID uint, req *dto.ChangePasswordRequest) error
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	tokens TokenStore
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	tokens TokenStore,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:    cfg,
		repo:   repo,
		jwtMgr: jwtMgr,
		tokens: tokens,
		logger: logger,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. 查询用户
	user, err := s.repo.User.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Authentication("Invalid username or password")
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 2. 验证密码 (bcrypt)
	if !hash.Verify(req.Password, user.Password) {
		return nil, apperr.Authentication("Invalid username or password")
	}

	// 3. 禁用账号不得登录
	if !user.IsActive() {
		return nil, apperr.Authentication("Your account has been disabled. Please contact the administrator")
	}

	return s.issueTokens(ctx, user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	// 1. 解析并校验 Refresh Token
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.Authentication("Refresh token expired")
		}
		return nil, apperr.Authentication("Invalid refresh token")
	}
	if claims.TokenType != jwt.TokenTypeRefresh {
		return nil, apperr.Authentication("Invalid refresh token")
	}

	// 2. 与服务端存储比对（Redis 不可用时跳过，降级为纯 JWT 校验）
	if s.tokens != nil {
		stored, err := s.tokens.GetRefreshToken(ctx, claims.UserID)
		if err != nil {
			s.logger.Warn("读取 Refresh Token 失败，跳过吊销校验", zap.Error(err))
		} else if stored != refreshToken {
			return nil, apperr.Authentication("Refresh token not found or doesn't match")
		}
	} else {
		s.logger.Warn("Redis 不可用，跳过 Refresh Token 吊销校验")
	}

	// 3. 重新加载用户，确保角色/地点/状态为最新
	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Authentication("Invalid refresh token")
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}
	if !user.IsActive() {
		return nil, apperr.Authentication("Your account has been disabled. Please contact the administrator")
	}

	// 4. 轮换：签发新 Token 对并覆盖存储
	return s.issueTokens(ctx, user)
}

func (s *authService) Logout(ctx context.Context, userID uint) error {
	if s.tokens == nil {
		s.logger.Warn("Redis 不可用，Refresh Token 未吊销", zap.Uint("user_id", userID))
		return nil
	}
	// 吊销失败不阻断登出
	if err := s.tokens.DeleteRefreshToken(ctx, userID); err != nil {
		s.logger.Warn("删除 Refresh Token 失败", zap.Uint("user_id", userID), zap.Error(err))
	}
	return nil
}

func (s *authService) ChangePassword(ctx context.Context, userID uint, req *dto.ChangePasswordRequest) error {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("User with id %d not found", userID)
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return err
	}

	// 旧密码重新校验
	if !hash.Verify(req.OldPassword, user.Password) {
		return apperr.Validation("Password is incorrect")
	}
	if req.NewPassword == req.OldPassword {
		return apperr.Validation("New password must be different from the old password")
	}

	digest, err := hash.Password(req.NewPassword)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return err
	}

	user.Password = digest
	user.IsFirstLogin = false
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新密码失败", zap.Error(err))
		return err
	}
	return nil
}

// issueTokens 签发 Token 对并存储 Refresh Token（尽力而为）
func (s *authService) issueTokens(ctx context.Context, user *model.User) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(
		user.ID, user.Username, string(user.Role), string(user.Location), user.IsFirstLogin,
	)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}

	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.ID, user.Username)
	if err != nil {
		s.logger.Error("生成 RefreshToken 失败", zap.Error(err))
		return nil, err
	}

	// 存储失败不阻断登录
	if s.tokens != nil {
		if err := s.tokens.StoreRefreshToken(ctx, user.ID, refreshToken, s.jwtMgr.RefreshTokenTTL()); err != nil {
			s.logger.Warn("存储 Refresh Token 失败", zap.Uint("user_id", user.ID), zap.Error(err))
		}
	} else {
		s.logger.Warn("Redis 不可用，Refresh Token 未存储", zap.Uint("user_id", user.ID))
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:         toUserResponse(user),
	}, nil
}
