package dto

// ── 归还请求模块 DTO ──

// CreateRequestRequest 创建归还请求
type CreateRequestRequest struct {
	AssignmentID uint `json:"assignment_id" binding:"required"`
}

// UpdateRequestRequest 完成归还请求（目前仅支持置为 Completed）
type UpdateRequestRequest struct {
	State string `json:"state" binding:"required"`
}

// RequestListRequest 归还请求列表查询参数
type RequestListRequest struct {
	PaginationRequest
	State      string `form:"state"       binding:"omitempty"`
	ReturnDate string `form:"return_date" binding:"omitempty"`
	Search     string `form:"search"      binding:"omitempty,max=100"`
	SortBy     string `form:"sort_by"     binding:"omitempty,oneof=id asset_code requested_by return_date state"`
	SortDir    string `form:"sort_dir"    binding:"omitempty,oneof=asc desc"`
}

// RequestResponse 归还请求响应
type RequestResponse struct {
	ID                  uint    `json:"id"`
	AssignmentID        uint    `json:"assignment_id"`
	RequestedByID       uint    `json:"requested_by_id"`
	AcceptedByID        *uint   `json:"accepted_by_id,omitempty"`
	ReturnDate          *string `json:"return_date,omitempty"`
	State               string  `json:"state"`
	AssetCode           string  `json:"asset_code,omitempty"`
	AssetName           string  `json:"asset_name,omitempty"`
	RequestedByUsername string  `json:"requested_by_username,omitempty"`
	AcceptedByUsername  string  `json:"accepted_by_username,omitempty"`
}
