package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User       UserRepository
	Category   CategoryRepository
	Asset      AssetRepository
	Assignment AssignmentRepository
	Request    RequestRepository
	Report     ReportRepository

	db *gorm.DB
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:       NewUserRepo(db),
		Category:   NewCategoryRepo(db),
		Asset:      NewAssetRepo(db),
		Assignment: NewAssignmentRepo(db),
		Request:    NewRequestRepo(db),
		Report:     NewReportRepo(db),
		db:         db,
	}
}

// Transaction 在单个数据库事务内执行 fn
// 状态级联（分配/资产/请求）必须经由此入口，保证要么全部提交要么全部回滚。
// 无底层连接时（内存实现）退化为直接执行。
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
