package handler

import (
	"github.com/gin-gonic/gin"

	"assets-management/internal/dto"
	"assets-management/internal/service"
	"assets-management/pkg/response"
)

// AssignmentHandler 分配模块 HTTP 处理器
type AssignmentHandler struct {
	assignmentSvc service.AssignmentService
}

// NewAssignmentHandler 创建 AssignmentHandler
func NewAssignmentHandler(assignmentSvc service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentSvc: assignmentSvc}
}

// Create 创建分配
// POST /api/v1/assignments
func (h *AssignmentHandler) Create(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.assignmentSvc.Create(c.Request.Context(), actor, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// UpdateState 受派人接受/拒绝分配
// PATCH /api/v1/assignments/:id/state
func (h *AssignmentHandler) UpdateState(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := MustGetID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateAssignmentStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.assignmentSvc.UpdateState(c.Request.Context(), actor, id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Update 编辑分配
// PUT /api/v1/assignments/:id
func (h *AssignmentHandler) Update(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := MustGetID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.assignmentSvc.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Delete 删除分配
// DELETE /api/v1/assignments/:id
func (h *AssignmentHandler) Delete(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := MustGetID(c, "id")
	if !ok {
		return
	}

	if err := h.assignmentSvc.Delete(c.Request.Context(), actor, id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Get 查询分配详情
// GET /api/v1/assignments/:id
func (h *AssignmentHandler) Get(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := MustGetID(c, "id")
	if !ok {
		return
	}

	result, err := h.assignmentSvc.Get(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// List 分页查询分配列表
// GET /api/v1/assignments
func (h *AssignmentHandler) List(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.AssignmentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	result, total, err := h.assignmentSvc.List(c.Request.Context(), actor, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OKPage(c, result, total, req.Page, req.Size)
}

// MyAssignments 查询当前用户名下的分配
// GET /api/v1/assignments/me
func (h *AssignmentHandler) MyAssignments(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		bindError(c, err)
		return
	}

	result, total, err := h.assignmentSvc.MyAssignments(c.Request.Context(), actor, &page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OKPage(c, result, total, page.Page, page.Size)
}
