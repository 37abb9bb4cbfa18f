package dto

// ── 分配模块 DTO ──

// CreateAssignmentRequest 创建分配请求
type CreateAssignmentRequest struct {
	AssetID      uint    `json:"asset_id"       binding:"required"`
	AssignedToID uint    `json:"assigned_to_id" binding:"required"`
	AssignDate   string  `json:"assign_date"    binding:"required"` // YYYY-MM-DD，不得早于今天
	Note         *string `json:"note"           binding:"omitempty,max=1000"`
}

// UpdateAssignmentRequest 编辑分配请求（管理员）
type UpdateAssignmentRequest struct {
	AssetID      *uint   `json:"asset_id"       binding:"omitempty"`
	AssignedToID *uint   `json:"assigned_to_id" binding:"omitempty"`
	AssignDate   *string `json:"assign_date"    binding:"omitempty"`
	Note         *string `json:"note"           binding:"omitempty,max=1000"`
}

// UpdateAssignmentStateRequest 受派人接受/拒绝分配
type UpdateAssignmentStateRequest struct {
	State string `json:"state" binding:"required"`
}

// AssignmentListRequest 分配列表查询参数
type AssignmentListRequest struct {
	PaginationRequest
	State      string `form:"state"       binding:"omitempty"`
	AssignDate string `form:"assign_date" binding:"omitempty"`
	AssetID    uint   `form:"asset_id"    binding:"omitempty"`
	Search     string `form:"search"      binding:"omitempty,max=100"`
	SortBy     string `form:"sort_by"     binding:"omitempty,oneof=id asset_code asset_name assigned_to assign_date state"`
	SortDir    string `form:"sort_dir"    binding:"omitempty,oneof=asc desc"`
}

// AssignmentResponse 分配响应
type AssignmentResponse struct {
	ID                 uint           `json:"id"`
	AssetID            uint           `json:"asset_id"`
	AssignedToID       uint           `json:"assigned_to_id"`
	AssignedByID       uint           `json:"assigned_by_id"`
	AssignDate         string         `json:"assign_date"`
	Note               *string        `json:"note,omitempty"`
	State              string         `json:"state"`
	AssignedToUsername string         `json:"assigned_to_username,omitempty"`
	AssignedByUsername string         `json:"assigned_by_username,omitempty"`
	Asset              *AssetResponse `json:"asset,omitempty"`
}

// AssignmentDetailResponse 分配详情（含受派人、派发人与资产）
type AssignmentDetailResponse struct {
	Assignment AssignmentResponse `json:"assignment"`
	AssignedTo UserResponse       `json:"assigned_to_user"`
	AssignedBy UserResponse       `json:"assigned_by_user"`
	Asset      AssetResponse      `json:"asset"`
}
