package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"assets-management/internal/api/middleware"
	"assets-management/internal/authz"
	"assets-management/pkg/response"
)

// MustGetActor 从 Gin 上下文中安全提取调用方身份。
// 如果 JWT 中间件未正确注入，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetActor(c *gin.Context) (authz.Actor, bool) {
	v, exists := c.Get(middleware.ContextActorKey)
	if !exists {
		response.Unauthorized(c, "Not authenticated")
		return authz.Actor{}, false
	}
	actor, ok := v.(authz.Actor)
	if !ok || actor.UserID == 0 {
		response.Unauthorized(c, "Not authenticated")
		return authz.Actor{}, false
	}
	return actor, true
}

// MustGetID 解析路径参数中的数字 ID。
// 非法 ID 写入 422 响应，调用方应在 ok=false 时直接 return。
func MustGetID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		response.Fail(c, http.StatusUnprocessableEntity, "Invalid "+name+" parameter")
		return 0, false
	}
	return uint(id), true
}

// bindError 绑定/校验失败的统一 422 响应
func bindError(c *gin.Context, err error) {
	response.Fail(c, http.StatusUnprocessableEntity, err.Error())
}
