package handler

import (
	"github.com/gin-gonic/gin"

	"assets-management/internal/dto"
	"assets-management/internal/service"
	"assets-management/pkg/response"
)

// RequestHandler 归还请求模块 HTTP 处理器
type RequestHandler struct {
	requestSvc service.RequestService
}

// NewRequestHandler 创建 RequestHandler
func NewRequestHandler(requestSvc service.RequestService) *RequestHandler {
	return &RequestHandler{requestSvc: requestSvc}
}

// Create 管理员创建归还请求
// POST /api/v1/requests
func (h *RequestHandler) Create(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.requestSvc.Create(c.Request.Context(), actor, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// CreateByStaff 员工为本人分配创建归还请求
// POST /api/v1/requests/me
func (h *RequestHandler) CreateByStaff(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.requestSvc.CreateByStaff(c.Request.Context(), actor, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Complete 完成归还请求
// PATCH /api/v1/requests/:id
func (h *RequestHandler) Complete(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := MustGetID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.requestSvc.Complete(c.Request.Context(), actor, id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Cancel 取消归还请求
// DELETE /api/v1/requests/:id
func (h *RequestHandler) Cancel(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := MustGetID(c, "id")
	if !ok {
		return
	}

	if err := h.requestSvc.Cancel(c.Request.Context(), actor, id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// List 分页查询归还请求列表
// GET /api/v1/requests
func (h *RequestHandler) List(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.RequestListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	result, total, err := h.requestSvc.List(c.Request.Context(), actor, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OKPage(c, result, total, req.Page, req.Size)
}
