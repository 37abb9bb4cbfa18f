package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"assets-management/internal/dto"
	"assets-management/internal/service"
	"assets-management/pkg/response"
)

// xlsxContentType .xlsx 的 MIME 类型
const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler 报表模块 HTTP 处理器
type ReportHandler struct {
	reportSvc service.ReportService
}

// NewReportHandler 创建 ReportHandler
func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// Get 分页查询报表
// GET /api/v1/reports
func (h *ReportHandler) Get(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	var req dto.ReportListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	result, total, err := h.reportSvc.Get(c.Request.Context(), actor, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OKPage(c, result, total, req.Page, req.Size)
}

// Export 导出报表为 Excel 附件
// GET /api/v1/reports/export
func (h *ReportHandler) Export(c *gin.Context) {
	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	buf, filename, err := h.reportSvc.Export(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
