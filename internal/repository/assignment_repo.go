package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"assets-management/internal/model"
)

// ListAssignmentsQuery 分配列表查询条件
type ListAssignmentsQuery struct {
	Location   model.Location
	State      model.AssignmentState
	AssignDate *time.Time
	AssetID    uint
	Search     string
	SortBy     string
	SortDir    string
	Offset     int
	Limit      int
}

// AssignmentHistoryRow 资产分配历史行
// ReturnDate 取自该分配已完成的归还请求（如有）
type AssignmentHistoryRow struct {
	AssignmentID       uint                  `gorm:"column:assignment_id"`
	AssignDate         time.Time             `gorm:"column:assign_date"`
	State              model.AssignmentState `gorm:"column:state"`
	AssignedToUsername string                `gorm:"column:assigned_to_username"`
	AssignedByUsername string                `gorm:"column:assigned_by_username"`
	ReturnDate         *time.Time            `gorm:"column:return_date"`
}

// AssignmentRepository 分配数据访问接口
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *model.Assignment) error
	GetByID(ctx context.Context, id uint) (*model.Assignment, error)
	Update(ctx context.Context, assignment *model.Assignment) error
	UpdateState(ctx context.Context, id uint, state model.AssignmentState) error
	Delete(ctx context.Context, assignment *model.Assignment) error
	List(ctx context.Context, q ListAssignmentsQuery) ([]model.Assignment, int64, error)
	ListByAssignee(ctx context.Context, assigneeID uint, until time.Time, offset, limit int) ([]model.Assignment, int64, error)
	// CountActiveByAsset 资产当前的活跃分配数（Waiting for acceptance / Accepted）
	CountActiveByAsset(ctx context.Context, assetID uint) (int64, error)
	// CountActiveByAssignee 用户当前持有的活跃分配数
	CountActiveByAssignee(ctx context.Context, assigneeID uint) (int64, error)
	// CountByAsset 资产的全部分配记录数（含历史）
	CountByAsset(ctx context.Context, assetID uint) (int64, error)
	History(ctx context.Context, assetID uint, offset, limit int) ([]AssignmentHistoryRow, int64, error)
}

// assignmentRepo AssignmentRepository 的 GORM 实现
type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo 创建 AssignmentRepository 实例
func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) Create(ctx context.Context, assignment *model.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepo) GetByID(ctx context.Context, id uint) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.db.WithContext(ctx).
		Preload("Asset").
		Preload("Asset.Category").
		Preload("AssignedTo").
		Preload("AssignedBy").
		Where("id = ?", id).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepo) Update(ctx context.Context, assignment *model.Assignment) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}

func (r *assignmentRepo) UpdateState(ctx context.Context, id uint, state model.AssignmentState) error {
	res := r.db.WithContext(ctx).Model(&model.Assignment{}).
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

func (r *assignmentRepo) Delete(ctx context.Context, assignment *model.Assignment) error {
	return r.db.WithContext(ctx).Delete(assignment).Error
}

func (r *assignmentRepo) List(ctx context.Context, q ListAssignmentsQuery) ([]model.Assignment, int64, error) {
	var assignments []model.Assignment
	var total int64

	// 列表默认排除 Returned（历史查询走 History）
	db := r.db.WithContext(ctx).Model(&model.Assignment{}).
		Joins("JOIN assets ON assets.id = assignments.asset_id").
		Joins("JOIN users AS assignees ON assignees.id = assignments.assigned_to_id").
		Where("assignments.state <> ?", model.AssignmentReturned).
		Where("assignees.location = ?", q.Location)

	if q.State != "" {
		db = db.Where("assignments.state = ?", q.State)
	}
	if q.AssignDate != nil {
		db = db.Where("assignments.assign_date = ?", q.AssignDate.Format("2006-01-02"))
	}
	if q.AssetID != 0 {
		db = db.Where("assignments.asset_id = ?", q.AssetID)
	}
	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		db = db.Where(
			"assets.asset_code ILIKE ? OR assets.asset_name ILIKE ? OR assignees.username ILIKE ?",
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
	order := "assignments.id " + dir
	switch q.SortBy {
	case "asset_code":
		order = "assets.asset_code " + dir
	case "asset_name":
		order = "assets.asset_name " + dir
	case "assigned_to":
		order = "assignees.username " + dir
	case "assign_date":
		order = "assignments.assign_date " + dir
	case "state":
		order = "assignments.state " + dir
	}

	if err := db.Preload("Asset").
		Preload("AssignedTo").
		Preload("AssignedBy").
		Offset(q.Offset).Limit(q.Limit).
		Order(order).
		Find(&assignments).Error; err != nil {
		return nil, 0, err
	}

	return assignments, total, nil
}

func (r *assignmentRepo) ListByAssignee(ctx context.Context, assigneeID uint, until time.Time, offset, limit int) ([]model.Assignment, int64, error) {
	var assignments []model.Assignment
	var total int64

	// 个人视图：仅到今天为止、且未被拒绝/归还的分配
	db := r.db.WithContext(ctx).Model(&model.Assignment{}).
		Where("assigned_to_id = ?", assigneeID).
		Where("assign_date <= ?", until.Format("2006-01-02")).
		Where("state NOT IN ?", []model.AssignmentState{model.AssignmentDeclined, model.AssignmentReturned})

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Asset").
		Preload("Asset.Category").
		Preload("AssignedBy").
		Offset(offset).Limit(limit).
		Order("assign_date DESC").
		Find(&assignments).Error; err != nil {
		return nil, 0, err
	}

	return assignments, total, nil
}

func (r *assignmentRepo) CountActiveByAsset(ctx context.Context, assetID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Assignment{}).
		Where("asset_id = ?", assetID).
		Where("state IN ?", []model.AssignmentState{model.AssignmentWaitingForAcceptance, model.AssignmentAccepted}).
		Count(&n).Error
	return n, err
}

func (r *assignmentRepo) CountActiveByAssignee(ctx context.Context, assigneeID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Assignment{}).
		Where("assigned_to_id = ?", assigneeID).
		Where("state IN ?", []model.AssignmentState{model.AssignmentWaitingForAcceptance, model.AssignmentAccepted}).
		Count(&n).Error
	return n, err
}

func (r *assignmentRepo) CountByAsset(ctx context.Context, assetID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Assignment{}).
		Where("asset_id = ?", assetID).
		Count(&n).Error
	return n, err
}

func (r *assignmentRepo) History(ctx context.Context, assetID uint, offset, limit int) ([]AssignmentHistoryRow, int64, error) {
	var rows []AssignmentHistoryRow
	var total int64

	base := r.db.WithContext(ctx).Model(&model.Assignment{}).
		Where("assignments.asset_id = ?", assetID).
		Where("assignments.state IN ?", []model.AssignmentState{model.AssignmentAccepted, model.AssignmentReturned})

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := base.
		Select("assignments.id AS assignment_id, assignments.assign_date, assignments.state, " +
			"assignees.username AS assigned_to_username, assigners.username AS assigned_by_username, " +
			"requests.return_date").
		Joins("JOIN users AS assignees ON assignees.id = assignments.assigned_to_id").
		Joins("JOIN users AS assigners ON assigners.id = assignments.assigned_by_id").
		Joins("LEFT JOIN requests ON requests.assignment_id = assignments.id AND requests.state = ?", model.RequestCompleted).
		Order("assignments.created_at DESC").
		Offset(offset).Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}
