package dto

// ── 类别模块 DTO ──

// CreateCategoryRequest 创建类别请求
// Prefix 省略时按类别名自动推导
type CreateCategoryRequest struct {
	CategoryName string `json:"category_name" binding:"required,min=1,max=100"`
	Prefix       string `json:"prefix"        binding:"omitempty,max=10"`
}

// CategoryResponse 类别响应
type CategoryResponse struct {
	ID           uint   `json:"id"`
	CategoryName string `json:"category_name"`
	Prefix       string `json:"prefix"`
	IDCounter    int    `json:"id_counter"`
}
