package model

// Category 资产类别表 — 对应 categories
// IDCounter 为该类别下资产编码的单调计数器，只增不减
type Category struct {
	BaseModel
	CategoryName string `gorm:"type:varchar(100);not null;uniqueIndex" json:"category_name"`
	Prefix       string `gorm:"type:varchar(10);not null;uniqueIndex"  json:"prefix"`
	IDCounter    int    `gorm:"not null;default:0"                     json:"id_counter"`
}

// TableName 指定表名
func (Category) TableName() string { return "categories" }
