package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"assets-management/pkg/apperr"
)

// PaginationMeta 分页元数据
type PaginationMeta struct {
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
}

// Page 分页响应信封（与 API 文档约定一致）
type Page struct {
	Data interface{}    `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

// NewPage 构造分页信封
func NewPage(data interface{}, total int64, page, size int) Page {
	totalPages := int(total) / size
	if int(total)%size > 0 {
		totalPages++
	}
	return Page{
		Data: data,
		Meta: PaginationMeta{
			Total:      total,
			TotalPages: totalPages,
			Page:       page,
			PageSize:   size,
		},
	}
}

// ── 成功响应 ──

// OK 200 成功响应
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 201 创建成功
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// NoContent 204 无内容
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// OKPage 200 分页成功
func OKPage(c *gin.Context, data interface{}, total int64, page, size int) {
	c.JSON(http.StatusOK, NewPage(data, total, page, size))
}

// ── 错误响应 ──

// errorBody 错误响应体
type errorBody struct {
	Detail string `json:"detail"`
}

// Error 按错误分类写出对应状态码的错误响应
func Error(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	detail := err.Error()
	if status == http.StatusInternalServerError {
		// 内部错误不向客户端泄露细节
		detail = "Internal server error"
	}
	c.JSON(status, errorBody{Detail: detail})
}

// Fail 指定状态码与消息的错误响应
func Fail(c *gin.Context, status int, detail string) {
	c.JSON(status, errorBody{Detail: detail})
}

// Unauthorized 401
func Unauthorized(c *gin.Context, detail string) {
	Fail(c, http.StatusUnauthorized, detail)
}

// Forbidden 403
func Forbidden(c *gin.Context, detail string) {
	Fail(c, http.StatusForbidden, detail)
}

// BadRequest 400
func BadRequest(c *gin.Context, detail string) {
	Fail(c, http.StatusBadRequest, detail)
}
