package dto

// ── 用户模块 DTO ──

// CreateUserRequest 创建用户请求
// 用户名、员工编号、初始密码均由系统生成
type CreateUserRequest struct {
	FirstName   string  `json:"first_name"    binding:"required,min=1,max=128"`
	LastName    string  `json:"last_name"     binding:"required,min=1,max=128"`
	DateOfBirth string  `json:"date_of_birth" binding:"required"` // YYYY-MM-DD
	JoinDate    string  `json:"join_date"     binding:"required"` // YYYY-MM-DD
	Gender      *string `json:"gender"        binding:"omitempty,oneof=Male Female"`
	Role        string  `json:"role"          binding:"required,oneof=admin staff"`
	Location    string  `json:"location"      binding:"required,oneof=HN DN HCM"`
}

// UpdateUserRequest 更新用户请求
type UpdateUserRequest struct {
	DateOfBirth *string `json:"date_of_birth" binding:"omitempty"`
	JoinDate    *string `json:"join_date"     binding:"omitempty"`
	Gender      *string `json:"gender"        binding:"omitempty,oneof=Male Female"`
	Role        *string `json:"role"          binding:"omitempty,oneof=admin staff"`
	Location    *string `json:"location"      binding:"omitempty,oneof=HN DN HCM"`
}

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	PaginationRequest
	Role    string `form:"role"    binding:"omitempty,oneof=admin staff"`
	Search  string `form:"search"  binding:"omitempty,max=100"`
	SortBy  string `form:"sort_by" binding:"omitempty,oneof=staff_code username join_date"`
	SortDir string `form:"sort_dir" binding:"omitempty,oneof=asc desc"`
}

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID           uint    `json:"id"`
	StaffCode    string  `json:"staff_code"`
	Username     string  `json:"username"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	DateOfBirth  string  `json:"date_of_birth"`
	JoinDate     string  `json:"join_date"`
	Gender       *string `json:"gender,omitempty"`
	Role         string  `json:"role"`
	Location     string  `json:"location"`
	Status       string  `json:"status"`
	IsFirstLogin bool    `json:"is_first_login"`
}
