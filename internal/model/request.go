package model

import "time"

// RequestState 归还请求状态
type RequestState string

const (
	RequestWaitingForReturning RequestState = "Waiting for returning"
	RequestCompleted           RequestState = "Completed"
)

// Valid 状态取值是否合法
func (s RequestState) Valid() bool {
	return s == RequestWaitingForReturning || s == RequestCompleted
}

// Request 归还请求表 — 对应 requests
// 由分配的使用者（或管理员代为）发起，管理员完成后级联更新分配与资产状态
type Request struct {
	BaseModel
	AssignmentID  uint         `gorm:"not null;index" json:"assignment_id"`
	RequestedByID uint         `gorm:"not null"       json:"requested_by_id"`
	AcceptedByID  *uint        `gorm:""               json:"accepted_by_id,omitempty"`
	ReturnDate    *time.Time   `gorm:""               json:"return_date,omitempty"`
	State         RequestState `gorm:"type:varchar(30);not null;default:'Waiting for returning';column:state" json:"state"`

	// 关联
	Assignment  *Assignment `gorm:"foreignKey:AssignmentID"  json:"assignment,omitempty"`
	RequestedBy *User       `gorm:"foreignKey:RequestedByID" json:"requested_by,omitempty"`
	AcceptedBy  *User       `gorm:"foreignKey:AcceptedByID"  json:"accepted_by,omitempty"`
}

// TableName 指定表名
func (Request) TableName() string { return "requests" }
