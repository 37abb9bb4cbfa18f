package model

import "time"

// Role 用户角色
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// Valid 角色取值是否合法
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStaff
}

// Location 固定办公地点
// 绝大多数授权与可见性规则按地点匹配收敛
type Location string

const (
	LocationHanoi     Location = "HN"
	LocationDaNang    Location = "DN"
	LocationHoChiMinh Location = "HCM"
)

// Valid 地点取值是否合法
func (l Location) Valid() bool {
	switch l {
	case LocationHanoi, LocationDaNang, LocationHoChiMinh:
		return true
	}
	return false
}

// UserStatus 用户生命周期状态（禁用代替物理删除）
type UserStatus string

const (
	StatusActive   UserStatus = "Active"
	StatusDisabled UserStatus = "Disabled"
)

// Gender 性别
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// User 用户表 — 对应 users
type User struct {
	BaseModel
	StaffCode    string     `gorm:"type:varchar(10);not null;uniqueIndex"  json:"staff_code"`
	Username     string     `gorm:"type:varchar(128);not null;uniqueIndex" json:"username"`
	Password     string     `gorm:"type:varchar(255);not null"             json:"-"`
	FirstName    string     `gorm:"type:varchar(128);not null"             json:"first_name"`
	LastName     string     `gorm:"type:varchar(128);not null"             json:"last_name"`
	DateOfBirth  time.Time  `gorm:"type:date;not null"                     json:"date_of_birth"`
	JoinDate     time.Time  `gorm:"type:date;not null"                     json:"join_date"`
	Gender       *Gender    `gorm:"type:varchar(10)"                       json:"gender,omitempty"`
	Role         Role       `gorm:"type:varchar(10);not null;default:'staff';column:role" json:"role"`
	Location     Location   `gorm:"type:varchar(10);not null;index"        json:"location"`
	Status       UserStatus `gorm:"type:varchar(10);not null;default:'Active'" json:"status"`
	IsFirstLogin bool       `gorm:"not null;default:true"                  json:"is_first_login"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// IsAdmin 是否为管理员
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// IsActive 是否处于可用状态
func (u *User) IsActive() bool { return u.Status == StatusActive }
