package model

import "time"

// AssignmentState 分配状态机
//
//	Waiting for acceptance ─┬─ accept ──→ Accepted ── 归还完成 ──→ Returned
//	                        └─ decline ─→ Declined
type AssignmentState string

const (
	AssignmentWaitingForAcceptance AssignmentState = "Waiting for acceptance"
	AssignmentAccepted             AssignmentState = "Accepted"
	AssignmentDeclined             AssignmentState = "Declined"
	AssignmentReturned             AssignmentState = "Returned"
)

// Valid 状态取值是否合法
func (s AssignmentState) Valid() bool {
	switch s {
	case AssignmentWaitingForAcceptance, AssignmentAccepted, AssignmentDeclined, AssignmentReturned:
		return true
	}
	return false
}

// IsActive 活跃分配：仍占用资产的状态
func (s AssignmentState) IsActive() bool {
	return s == AssignmentWaitingForAcceptance || s == AssignmentAccepted
}

// Assignment 资产分配表 — 对应 assignments
// 将一项资产绑定到一名使用者，带独立的接受流程
type Assignment struct {
	BaseModel
	AssetID      uint            `gorm:"not null;index"  json:"asset_id"`
	AssignedToID uint            `gorm:"not null;index"  json:"assigned_to_id"`
	AssignedByID uint            `gorm:"not null"        json:"assigned_by_id"`
	AssignDate   time.Time       `gorm:"type:date;not null" json:"assign_date"`
	Note         *string         `gorm:"type:text"       json:"note,omitempty"`
	State        AssignmentState `gorm:"type:varchar(30);not null;default:'Waiting for acceptance';column:state" json:"state"`

	// 关联
	Asset      *Asset `gorm:"foreignKey:AssetID"      json:"asset,omitempty"`
	AssignedTo *User  `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	AssignedBy *User  `gorm:"foreignKey:AssignedByID" json:"assigned_by,omitempty"`
}

// TableName 指定表名
func (Assignment) TableName() string { return "assignments" }
