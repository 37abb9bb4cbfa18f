package dto

// ── 共享查询参数 ──

// PaginationRequest 分页查询参数
type PaginationRequest struct {
	Page int `form:"page" binding:"omitempty,min=1"`
	Size int `form:"size" binding:"omitempty,min=1,max=100"`
}

// Normalize 填充分页默认值
func (p *PaginationRequest) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Size < 1 {
		p.Size = 20
	}
}

// Offset 计算记录偏移量
func (p *PaginationRequest) Offset() int {
	return (p.Page - 1) * p.Size
}

// IsValidResponse 实体可操作性校验响应（删除/禁用前检查）
type IsValidResponse struct {
	IsValid bool   `json:"is_valid"`
	Detail  string `json:"detail,omitempty"`
}
