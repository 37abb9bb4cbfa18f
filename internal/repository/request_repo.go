package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"assets-management/internal/model"
)

// ListRequestsQuery 归还请求列表查询条件
type ListRequestsQuery struct {
	Location   model.Location
	State      model.RequestState
	ReturnDate *time.Time
	Search     string
	SortBy     string
	SortDir    string
	Offset     int
	Limit      int
}

// RequestRepository 归还请求数据访问接口
type RequestRepository interface {
	Create(ctx context.Context, request *model.Request) error
	GetByID(ctx context.Context, id uint) (*model.Request, error)
	Update(ctx context.Context, request *model.Request) error
	Delete(ctx context.Context, request *model.Request) error
	List(ctx context.Context, q ListRequestsQuery) ([]model.Request, int64, error)
	// ExistsWaitingByAssignment 指定分配是否已有待归还请求
	ExistsWaitingByAssignment(ctx context.Context, assignmentID uint) (bool, error)
}

// requestRepo RequestRepository 的 GORM 实现
type requestRepo struct {
	db *gorm.DB
}

// NewRequestRepo 创建 RequestRepository 实例
func NewRequestRepo(db *gorm.DB) RequestRepository {
	return &requestRepo{db: db}
}

func (r *requestRepo) Create(ctx context.Context, request *model.Request) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *requestRepo) GetByID(ctx context.Context, id uint) (*model.Request, error) {
	var request model.Request
	err := r.db.WithContext(ctx).
		Preload("Assignment").
		Preload("Assignment.Asset").
		Preload("RequestedBy").
		Preload("AcceptedBy").
		Where("id = ?", id).
		First(&request).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *requestRepo) Update(ctx context.Context, request *model.Request) error {
	return r.db.WithContext(ctx).Save(request).Error
}

func (r *requestRepo) Delete(ctx context.Context, request *model.Request) error {
	return r.db.WithContext(ctx).Delete(request).Error
}

func (r *requestRepo) List(ctx context.Context, q ListRequestsQuery) ([]model.Request, int64, error) {
	var requests []model.Request
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Request{}).
		Joins("JOIN assignments ON assignments.id = requests.assignment_id").
		Joins("JOIN assets ON assets.id = assignments.asset_id").
		Joins("JOIN users AS requesters ON requesters.id = requests.requested_by_id").
		Where("assets.location = ?", q.Location)

	if q.State != "" {
		db = db.Where("requests.state = ?", q.State)
	}
	if q.ReturnDate != nil {
		db = db.Where("DATE(requests.return_date) = ?", q.ReturnDate.Format("2006-01-02"))
	}
	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		db = db.Where(
			"assets.asset_code ILIKE ? OR assets.asset_name ILIKE ? OR requesters.username ILIKE ?",
			pattern, pattern, pattern,
		)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	dir := "ASC"
	if q.SortDir == "desc" {
		dir = "DESC"
	}
	order := "requests.id " + dir
	switch q.SortBy {
	case "asset_code":
		order = "assets.asset_code " + dir
	case "requested_by":
		order = "requesters.username " + dir
	case "return_date":
		order = "requests.return_date " + dir
	case "state":
		order = "requests.state " + dir
	}

	if err := db.Preload("Assignment").
		Preload("Assignment.Asset").
		Preload("RequestedBy").
		Preload("AcceptedBy").
		Offset(q.Offset).Limit(q.Limit).
		Order(order).
		Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *requestRepo) ExistsWaitingByAssignment(ctx context.Context, assignmentID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Request{}).
		Where("assignment_id = ?", assignmentID).
		Where("state = ?", model.RequestWaitingForReturning).
		Count(&n).Error
	return n > 0, err
}
