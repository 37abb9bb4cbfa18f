package dto

// ── 资产模块 DTO ──

// CreateAssetRequest 创建资产请求
// 资产编码由类别前缀 + 计数器生成；地点继承自创建者
type CreateAssetRequest struct {
	AssetName     string `json:"asset_name"     binding:"required,min=1,max=255"`
	Specification string `json:"specification"  binding:"required"`
	InstalledDate string `json:"installed_date" binding:"required"` // YYYY-MM-DD，不得晚于今天
	State         string `json:"state"          binding:"omitempty"`
	CategoryID    uint   `json:"category_id"    binding:"required"`
}

// UpdateAssetRequest 更新资产请求（Assigned 状态下禁止）
type UpdateAssetRequest struct {
	AssetName     *string `json:"asset_name"     binding:"omitempty,min=1,max=255"`
	Specification *string `json:"specification"  binding:"omitempty"`
	InstalledDate *string `json:"installed_date" binding:"omitempty"`
	State         *string `json:"state"          binding:"omitempty"`
}

// AssetListRequest 资产列表查询参数
type AssetListRequest struct {
	PaginationRequest
	States     []string `form:"states"      binding:"omitempty"`
	CategoryID uint     `form:"category_id" binding:"omitempty"`
	Search     string   `form:"search"      binding:"omitempty,max=100"`
	SortBy     string   `form:"sort_by"     binding:"omitempty,oneof=asset_code asset_name category state"`
	SortDir    string   `form:"sort_dir"    binding:"omitempty,oneof=asc desc"`
}

// AssetResponse 资产响应
type AssetResponse struct {
	ID            uint   `json:"id"`
	AssetCode     string `json:"asset_code"`
	AssetName     string `json:"asset_name"`
	Specification string `json:"specification"`
	InstalledDate string `json:"installed_date"`
	State         string `json:"state"`
	Location      string `json:"location"`
	CategoryID    uint   `json:"category_id"`
	CategoryName  string `json:"category_name,omitempty"`
}

// AssetHistoryEntry 资产分配历史条目
// 仅包含 Accepted / Returned 的分配，按时间倒序
type AssetHistoryEntry struct {
	AssignmentID       uint    `json:"assignment_id"`
	AssignDate         string  `json:"assign_date"`
	AssignedToUsername string  `json:"assigned_to_username"`
	AssignedByUsername string  `json:"assigned_by_username"`
	State              string  `json:"state"`
	ReturnDate         *string `json:"return_date,omitempty"`
}
