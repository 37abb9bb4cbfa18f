package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"assets-management/internal/model"
)

// ReportRow 按类别聚合的资产状态统计行
type ReportRow struct {
	Category            string `gorm:"column:category"`
	Total               int    `gorm:"column:total"`
	Assigned            int    `gorm:"column:assigned"`
	Available           int    `gorm:"column:available"`
	NotAvailable        int    `gorm:"column:not_available"`
	WaitingForRecycling int    `gorm:"column:waiting_for_recycling"`
	Recycled            int    `gorm:"column:recycled"`
}

// ReportQuery 报表查询条件
type ReportQuery struct {
	Location model.Location
	SortBy   string
	SortDir  string
	Offset   int
	Limit    int
}

// ReportRepository 报表聚合只读接口
type ReportRepository interface {
	Get(ctx context.Context, q ReportQuery) ([]ReportRow, int64, error)
}

// reportRepo ReportRepository 的 GORM 实现
type reportRepo struct {
	db *gorm.DB
}

// NewReportRepo 创建 ReportRepository 实例
func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db: db}
}

// 聚合列白名单：DTO 校验之外的第二道防线，杜绝排序注入
var reportSortColumns = map[string]string{
	"category":              "LOWER(category)",
	"total":                 "total",
	"assigned":              "assigned",
	"available":             "available",
	"not_available":         "not_available",
	"waiting_for_recycling": "waiting_for_recycling",
	"recycled":              "recycled",
}

func (r *reportRepo) Get(ctx context.Context, q ReportQuery) ([]ReportRow, int64, error) {
	var rows []ReportRow
	var total int64

	if err := r.db.WithContext(ctx).Model(&model.Category{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := reportSortColumns[q.SortBy]
	if !ok {
		column = "LOWER(category)"
	}
	dir := "ASC"
	if q.SortDir == "desc" {
		dir = "DESC"
	}

	query := fmt.Sprintf(`
		SELECT category, total, assigned, available, not_available, waiting_for_recycling, recycled
		FROM (
			SELECT
				c.category_name AS category,
				COUNT(a.id) AS total,
				COALESCE(SUM(CASE WHEN a.state = ? THEN 1 ELSE 0 END), 0) AS assigned,
				COALESCE(SUM(CASE WHEN a.state = ? THEN 1 ELSE 0 END), 0) AS available,
				COALESCE(SUM(CASE WHEN a.state = ? THEN 1 ELSE 0 END), 0) AS not_available,
				COALESCE(SUM(CASE WHEN a.state = ? THEN 1 ELSE 0 END), 0) AS waiting_for_recycling,
				COALESCE(SUM(CASE WHEN a.state = ? THEN 1 ELSE 0 END), 0) AS recycled
			FROM categories c
			LEFT JOIN assets a ON a.category_id = c.id AND a.location = ?
			GROUP BY c.category_name
		) report
		ORDER BY %s %s
		OFFSET ? LIMIT ?`, column, dir)

	err := r.db.WithContext(ctx).
		Raw(query,
			model.AssetAssigned,
			model.AssetAvailable,
			model.AssetNotAvailable,
			model.AssetWaitingForRecycling,
			model.AssetRecycled,
			q.Location,
			q.Offset, q.Limit,
		).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}
