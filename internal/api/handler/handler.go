package handler

import (
	"assets-management/config"
	"assets-management/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	User       *UserHandler
	Category   *CategoryHandler
	Asset      *AssetHandler
	Assignment *AssignmentHandler
	Request    *RequestHandler
	Report     *ReportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(cfg, svc.Auth),
		User:       NewUserHandler(svc.User),
		Category:   NewCategoryHandler(svc.Category),
		Asset:      NewAssetHandler(svc.Asset),
		Assignment: NewAssignmentHandler(svc.Assignment),
		Request:    NewRequestHandler(svc.Request),
		Report:     NewReportHandler(svc.Report),
	}
}
