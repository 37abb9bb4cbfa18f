package handler

import (
	"github.com/gin-gonic/gin"

	"assets-management/internal/dto"
	"assets-management/internal/service"
	"assets-management/pkg/response"
)

// AssetHandler 资产模块 HTTP 处理器
type AssetHandler struct {
	assetSvc service.AssetService
}

// NewAssetHandler 创建 AssetHandler
func NewAssetHandler(assetSvc service.AssetService) *AssetHandler {
	return &AssetHandler{assetSvc: assetSvc}
}

// Create 创建资产
// POST /api/v1/assets
func (h *AssetHandler) Create(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.assetSvc.Create(c.Request.Context(), actor, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Get 查询单个资产
// GET /api/v1/assets/:id
func (h *AssetHandler) Get(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := MustGetID(c, "id")
	if !ok {
		return
	}

	result, err := h.assetSvc.Get(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// List 分页查询资产列表
// GET /api/v1/assets
func (h *AssetHandler) List(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.AssetListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	result, total, err := h.assetSvc.List(c.Request.Context(), actor, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OKPage(c, result, total, req.Page, req.Size)
}

// Update 编辑资产
// PUT /api/v1/assets/:id
func (h *AssetHandler) Update(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := MustGetID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.assetSvc.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Delete 删除资产
// DELETE /api/v1/assets/:id
func (h *AssetHandler) Delete(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := MustGetID(c, "id")
	if !ok {
		return
	}

	if err := h.assetSvc.Delete(c.Request.Context(), actor, id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CheckValid 查询资产是否可被删除
// GET /api/v1/assets/:id/check
func (h *AssetHandler) CheckValid(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := MustGetID(c, "id")
	if !ok {
		return
	}

	result, err := h.assetSvc.CheckValid(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// History 查询资产分配历史
// GET /api/v1/assets/:id/history
func (h *AssetHandler) History(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}
	id, ok := MustGetID(c, "id")
	if !ok {
		return
	}

	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		bindError(c, err)
		return
	}

	result, total, err := h.assetSvc.History(c.Request.Context(), actor, id, &page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OKPage(c, result, total, page.Page, page.Size)
}
