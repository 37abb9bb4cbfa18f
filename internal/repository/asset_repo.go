package repository

import (
	"context"

	"gorm.io/gorm"

	"assets-management/internal/model"
)

// ListAssetsQuery 资产列表查询条件
type ListAssetsQuery struct {
	Location   model.Location
	States     []model.AssetState
	CategoryID uint
	Search     string
	SortBy     string
	SortDir    string
	Offset     int
	Limit      int
}

// AssetRepository 资产数据访问接口
type AssetRepository interface {
	Create(ctx context.Context, asset *model.Asset) error
	GetByID(ctx context.Context, id uint) (*model.Asset, error)
	Update(ctx context.Context, asset *model.Asset) error
	UpdateState(ctx context.Context, id uint, state model.AssetState) error
	Delete(ctx context.Context, asset *model.Asset) error
	List(ctx context.Context, q ListAssetsQuery) ([]model.Asset, int64, error)
}

// assetRepo AssetRepository 的 GORM 实现
type assetRepo struct {
	db *gorm.DB
}

// NewAssetRepo 创建 AssetRepository 实例
func NewAssetRepo(db *gorm.DB) AssetRepository {
	return &assetRepo{db: db}
}

func (r *assetRepo) Create(ctx context.Context, asset *model.Asset) error {
	return r.db.WithContext(ctx).Create(asset).Error
}

func (r *assetRepo) GetByID(ctx context.Context, id uint) (*model.Asset, error) {
	var asset model.Asset
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("id = ?", id).
		First(&asset).Error
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *assetRepo) Update(ctx context.Context, asset *model.Asset) error {
	return r.db.WithContext(ctx).Save(asset).Error
}

func (r *assetRepo) UpdateState(ctx context.Context, id uint, state model.AssetState) error {
	res := r.db.WithContext(ctx).Model(&model.Asset{}).
		Where("id = ?", id).
		Update("state", state)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *assetRepo) Delete(ctx context.Context, asset *model.Asset) error {
	return r.db.WithContext(ctx).Delete(asset).Error
}

func (r *assetRepo) List(ctx context.Context, q ListAssetsQuery) ([]model.Asset, int64, error) {
	var assets []model.Asset
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Asset{}).
		Where("assets.location = ?", q.Location)

	if len(q.States) > 0 {
		db = db.Where("assets.state IN ?", q.States)
	}
	if q.CategoryID != 0 {
		db = db.Where("assets.category_id = ?", q.CategoryID)
	}
	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		db = db.Where("assets.asset_code ILIKE ? OR assets.asset_name ILIKE ?", pattern, pattern)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	dir := "ASC"
	if q.SortDir == "desc" {
		dir = "DESC"
	}
	order := "assets.asset_code " + dir
	switch q.SortBy {
	case "asset_name":
		order = "assets.asset_name " + dir
	case "state":
		order = "assets.state " + dir
	case "category":
		db = db.Joins("LEFT JOIN categories ON categories.id = assets.category_id")
		order = "categories.category_name " + dir
	}

	if err := db.Preload("Category").
		Offset(q.Offset).Limit(q.Limit).
		Order(order).
		Find(&assets).Error; err != nil {
		return nil, 0, err
	}

	return assets, total, nil
}
