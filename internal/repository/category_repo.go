package repository

import (
	"context"

	"gorm.io/gorm"

	"assets-management/internal/model"
)

// CategoryRepository 类别数据访问接口
type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	GetByID(ctx context.Context, id uint) (*model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
	IsNameExists(ctx context.Context, name string) (bool, error)
	IsPrefixExists(ctx context.Context, prefix string) (bool, error)
	// IncrementCounter 原子地将类别计数器 +1 并返回新值。
	// 必须在数据库端以单条读-改-写语句完成，并发创建资产时不得出现重复编号。
	IncrementCounter(ctx context.Context, id uint) (int, error)
}

// categoryRepo CategoryRepository 的 GORM 实现
type categoryRepo struct {
	db *gorm.DB
}

// NewCategoryRepo 创建 CategoryRepository 实例
func NewCategoryRepo(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) Create(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepo) GetByID(ctx context.Context, id uint) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepo) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).
		Order("category_name ASC").
		Find(&categories).Error
	return categories, err
}

func (r *categoryRepo) IsNameExists(ctx context.Context, name string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Category{}).
		Where("category_name = ?", name).
		Count(&n).Error
	return n > 0, err
}

func (r *categoryRepo) IsPrefixExists(ctx context.Context, prefix string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Category{}).
		Where("prefix = ?", prefix).
		Count(&n).Error
	return n > 0, err
}

func (r *categoryRepo) IncrementCounter(ctx context.Context, id uint) (int, error) {
	var counter int
	err := r.db.WithContext(ctx).
		Raw("UPDATE categories SET id_counter = id_counter + 1, updated_at = CURRENT_TIMESTAMP WHERE id = ? RETURNING id_counter", id).
		Scan(&counter).Error
	if err != nil {
		return 0, err
	}
	if counter == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return counter, nil
}
