package model

import "time"

// AssetState 资产状态
type AssetState string

const (
	AssetAvailable           AssetState = "Available"
	AssetNotAvailable        AssetState = "Not Available"
	AssetAssigned            AssetState = "Assigned"
	AssetWaitingForRecycling AssetState = "Waiting for Recycling"
	AssetRecycled            AssetState = "Recycled"
)

// Valid 状态取值是否合法
func (s AssetState) Valid() bool {
	switch s {
	case AssetAvailable, AssetNotAvailable, AssetAssigned, AssetWaitingForRecycling, AssetRecycled:
		return true
	}
	return false
}

// Asset 资产表 — 对应 assets
// Location 在创建时继承自创建者，此后不可变更
type Asset struct {
	BaseModel
	AssetCode     string     `gorm:"type:varchar(20);not null;uniqueIndex" json:"asset_code"`
	AssetName     string     `gorm:"type:varchar(255);not null"            json:"asset_name"`
	Specification string     `gorm:"type:text;not null"                    json:"specification"`
	InstalledDate time.Time  `gorm:"type:date;not null"                    json:"installed_date"`
	State         AssetState `gorm:"type:varchar(30);not null;default:'Not Available';column:state" json:"state"`
	Location      Location   `gorm:"type:varchar(10);not null;index"       json:"location"`
	CategoryID    uint       `gorm:"not null;index"                        json:"category_id"`

	// 关联
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// TableName 指定表名
func (Asset) TableName() string { return "assets" }
