// Package authz 提供无状态的授权判定
// 只依赖调用方身份与目标归属，不访问持久层
package authz

import "assets-management/internal/model"

// Actor 经过认证的调用方身份（来自 JWT Claims）
type Actor struct {
	UserID   uint
	Username string
	Role     model.Role
	Location model.Location
}

// IsAdmin 是否为管理员
func (a Actor) IsAdmin() bool { return a.Role == model.RoleAdmin }

// SameLocation 目标地点是否与调用方一致
// 绝大多数管理操作按此规则收敛可见性与可操作性
func (a Actor) SameLocation(loc model.Location) bool { return a.Location == loc }

// Owns 调用方是否为目标记录的归属人
func (a Actor) Owns(ownerID uint) bool { return a.UserID == ownerID }

// CanManage 管理员且与目标同地点
func (a Actor) CanManage(loc model.Location) bool {
	return a.IsAdmin() && a.SameLocation(loc)
}
