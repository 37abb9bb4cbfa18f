package authz

import (
	"testing"

	"assets-management/internal/model"
)

func TestCanManage(t *testing.T) {
	admin := Actor{UserID: 1, Role: model.RoleAdmin, Location: model.LocationHanoi}
	staff := Actor{UserID: 2, Role: model.RoleStaff, Location: model.LocationHanoi}

	if !admin.CanManage(model.LocationHanoi) {
		t.Error("同地点管理员应可管理")
	}
	if admin.CanManage(model.LocationHoChiMinh) {
		t.Error("跨地点管理员不应可管理")
	}
	if staff.CanManage(model.LocationHanoi) {
		t.Error("员工不应可管理")
	}
}

func TestOwns(t *testing.T) {
	actor := Actor{UserID: 7, Role: model.RoleStaff, Location: model.LocationDaNang}
	if !actor.Owns(7) {
		t.Error("本人记录应判定为归属")
	}
	if actor.Owns(8) {
		t.Error("他人记录不应判定为归属")
	}
}
