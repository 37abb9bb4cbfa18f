package service

import (
	"go.uber.org/zap"

	"assets-management/config"
	"assets-management/internal/repository"
	"assets-management/pkg/jwt"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth       AuthService
	User       UserService
	Category   CategoryService
	Asset      AssetService
	Assignment AssignmentService
	Request    RequestService
	Report     ReportService
}

// NewService 创建 Service 聚合
// tokens 允许为 nil：Redis 不可用时认证模块降级运行
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	tokens TokenStore,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:       NewAuthService(cfg, repo, jwtMgr, tokens, logger),
		User:       NewUserService(cfg, repo, logger),
		Category:   NewCategoryService(repo, logger),
		Asset:      NewAssetService(repo, logger),
		Assignment: NewAssignmentService(repo, logger),
		Request:    NewRequestService(repo, logger),
		Report:     NewReportService(repo, logger),
	}
}
