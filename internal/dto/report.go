package dto

// ── 报表模块 DTO ──

// ReportListRequest 报表查询参数
type ReportListRequest struct {
	PaginationRequest
	SortBy  string `form:"sort_by"  binding:"omitempty,oneof=category total assigned available not_available waiting_for_recycling recycled"`
	SortDir string `form:"sort_dir" binding:"omitempty,oneof=asc desc"`
}

// ReportRow 按类别聚合的资产状态统计（按地点过滤）
type ReportRow struct {
	Category            string `json:"category"`
	Total               int    `json:"total"`
	Assigned            int    `json:"assigned"`
	Available           int    `json:"available"`
	NotAvailable        int    `json:"not_available"`
	WaitingForRecycling int    `json:"waiting_for_recycling"`
	Recycled            int    `json:"recycled"`
}
