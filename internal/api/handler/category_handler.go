package handler

import (
	"github.com/gin-gonic/gin"

	"assets-management/internal/dto"
	"assets-management/internal/service"
	"assets-management/pkg/response"
)

// CategoryHandler 类别模块 HTTP 处理器
type CategoryHandler struct {
	categorySvc service.CategoryService
}

// NewCategoryHandler 创建 CategoryHandler
func NewCategoryHandler(categorySvc service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categorySvc: categorySvc}
}

// Create 创建类别
// POST /api/v1/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.categorySvc.Create(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Get 查询单个类别
// GET /api/v1/categories/:id
func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := MustGetID(c, "id")
	if !ok {
		return
	}

	result, err := h.categorySvc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// List 查询全部类别
// GET /api/v1/categories
func (h *CategoryHandler) List(c *gin.Context) {
	result, err := h.categorySvc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}
