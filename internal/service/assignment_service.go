package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"assets-management/internal/authz"
	"assets-management/internal/dto"
	"assets-management/internal/model"
	"assets-management/internal/repository"
	"assets-management/pkg/apperr"
)

// AssignmentService 资产分配业务接口
//
// 状态机:
//
//	Waiting for acceptance ──接受──▶ Accepted ──归还完成──▶ Returned
//	        │
//	        └──拒绝──▶ Declined
//
// 状态级联（资产随分配变化）必须经由事务执行。
type AssignmentService interface {
	Create(ctx context.Context, actor authz.Actor, req *dto.CreateAssignmentRequest) (*dto.AssignmentResponse, error)
	// UpdateState 受派人接受/拒绝（仅限 Waiting for acceptance 起始态）
	UpdateState(ctx context.Context, actor authz.Actor, id uint, req *dto.UpdateAssignmentStateRequest) (*dto.AssignmentResponse, error)
	Update(ctx context.Context, actor authz.Actor, id uint, req *dto.UpdateAssignmentRequest) (*dto.AssignmentResponse, error)
	Delete(ctx context.Context, actor authz.Actor, id uint) error
	Get(ctx context.Context, actor authz.Actor, id uint) (*dto.AssignmentDetailResponse, error)
	List(ctx context.Context, actor authz.Actor, req *dto.AssignmentListRequest) ([]dto.AssignmentResponse, int64, error)
	// MyAssignments 当前用户名下的分配（分配日期 ≤ 今天，不含 Declined/Returned）
	MyAssignments(ctx context.Context, actor authz.Actor, page *dto.PaginationRequest) ([]dto.AssignmentResponse, int64, error)
}

type assignmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAssignmentService 创建 AssignmentService 实例
func NewAssignmentService(repo *repository.Repository, logger *zap.Logger) AssignmentService {
	return &assignmentService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *assignmentService) Create(ctx context.Context, actor authz.Actor, req *dto.CreateAssignmentRequest) (*dto.AssignmentResponse, error) {
	// 1. 分配日期不得早于今天
	assignDate, err := time.Parse(dateLayout, req.AssignDate)
	if err != nil {
		return nil, apperr.Validation("Invalid assign date format, expected YYYY-MM-DD")
	}
	if assignDate.Before(today()) {
		return nil, apperr.Validation("Assign date must be today or in the future")
	}

	// 2. 资产必须存在、可用、与管理员同地点
	asset, err := s.repo.Asset.GetByID(ctx, req.AssetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Asset with ID %d not found", req.AssetID)
		}
		s.logger.Error("查询资产失败", zap.Uint("asset_id", req.AssetID), zap.Error(err))
		return nil, err
	}
	if !actor.SameLocation(asset.Location) {
		return nil, apperr.Business("Asset with id %d is not in the same location as the user", asset.ID)
	}
	if asset.State != model.AssetAvailable {
		return nil, apperr.Business("Asset with ID %d is not available (current state: %s)", asset.ID, asset.State)
	}
	// 状态之外再按活跃分配兜底，杜绝不变量被旁路更新打破
	active, err := s.repo.Assignment.CountActiveByAsset(ctx, asset.ID)
	if err != nil {
		s.logger.Error("统计活跃分配失败", zap.Uint("asset_id", asset.ID), zap.Error(err))
		return nil, err
	}
	if active > 0 {
		return nil, apperr.Business("Asset with ID %d is not available for assignment", asset.ID)
	}

	// 3. 受派人必须存在、可用、与管理员同地点
	assignee, err := s.repo.User.GetByID(ctx, req.AssignedToID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("User with ID %d not found", req.AssignedToID)
		}
		s.logger.Error("查询受派人失败", zap.Uint("user_id", req.AssignedToID), zap.Error(err))
		return nil, err
	}
	if !assignee.IsActive() {
		return nil, apperr.Business("User with ID %d is not active (current status: %s)", assignee.ID, assignee.Status)
	}
	if !actor.SameLocation(assignee.Location) {
		return nil, apperr.Business("User with ID %d belongs to %s location, but assignment is for %s location",
			assignee.ID, assignee.Location, actor.Location)
	}

	// 4. 同一事务内落库并将资产置为 Assigned
	assignment := &model.Assignment{
		AssetID:      asset.ID,
		AssignedToID: assignee.ID,
		AssignedByID: actor.UserID,
		AssignDate:   assignDate,
		Note:         req.Note,
		State:        model.AssignmentWaitingForAcceptance,
	}
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Assignment.Create(ctx, assignment); err != nil {
			return err
		}
		return tx.Asset.UpdateState(ctx, asset.ID, model.AssetAssigned)
	})
	if err != nil {
		s.logger.Error("创建分配失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("分配创建成功",
		zap.Uint("assignment_id", assignment.ID),
		zap.Uint("asset_id", asset.ID),
		zap.Uint("assigned_to_id", assignee.ID))

	assignment.Asset = asset
	assignment.AssignedTo = assignee
	resp := toAssignmentResponse(assignment)
	return &resp, nil
}

// ────────────────────── UpdateState ──────────────────────

func (s *assignmentService) UpdateState(ctx context.Context, actor authz.Actor, id uint, req *dto.UpdateAssignmentStateRequest) (*dto.AssignmentResponse, error) {
	assignment, err := s.getAssignment(ctx, id)
	if err != nil {
		return nil, err
	}

	// 仅受派人本人可操作
	if !actor.Owns(assignment.AssignedToID) {
		return nil, apperr.PermissionDenied("You can only update your own assignments")
	}
	// 仅允许从 Waiting for acceptance 出发
	if assignment.State != model.AssignmentWaitingForAcceptance {
		return nil, apperr.PermissionDenied("You can only update assignments that are waiting for acceptance")
	}

	target := model.AssignmentState(req.State)
	switch target {
	case model.AssignmentAccepted:
		if err := s.repo.Assignment.UpdateState(ctx, id, model.AssignmentAccepted); err != nil {
			s.logger.Error("接受分配失败", zap.Uint("assignment_id", id), zap.Error(err))
			return nil, err
		}
	case model.AssignmentDeclined:
		// 拒绝后资产回到可用池，与分配状态变更同事务
		err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
			if err := tx.Assignment.UpdateState(ctx, id, model.AssignmentDeclined); err != nil {
				return err
			}
			return tx.Asset.UpdateState(ctx, assignment.AssetID, model.AssetAvailable)
		})
		if err != nil {
			s.logger.Error("拒绝分配失败", zap.Uint("assignment_id", id), zap.Error(err))
			return nil, err
		}
	default:
		return nil, apperr.Validation("Invalid assignment state: %s", req.State)
	}

	assignment.State = target
	resp := toAssignmentResponse(assignment)
	return &resp, nil
}

// ────────────────────── Update ──────────────────────

// Update 管理员编辑分配。对分配自身状态不设闸门（历史行为如此），
// 但新受派人/新资产仍需满足创建时的可用性约束，并重新落派发人。
func (s *assignmentService) Update(ctx context.Context, actor authz.Actor, id uint, req *dto.UpdateAssignmentRequest) (*dto.AssignmentResponse, error) {
	assignment, err := s.getAssignment(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.AssignedToID != nil && *req.AssignedToID != assignment.AssignedToID {
		assignee, err := s.repo.User.GetByID(ctx, *req.AssignedToID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("User with id %d in this assignment not found", *req.AssignedToID)
			}
			return nil, err
		}
		if !assignee.IsActive() {
			return nil, apperr.Validation("User with ID %d is not active (current status: %s)", assignee.ID, assignee.Status)
		}
		if !actor.SameLocation(assignee.Location) {
			return nil, apperr.Validation("User with ID %d belongs to %s location, but assignment is for %s location",
				assignee.ID, assignee.Location, actor.Location)
		}
		assignment.AssignedToID = assignee.ID
		assignment.AssignedTo = assignee
	}

	if req.AssetID != nil && *req.AssetID != assignment.AssetID {
		asset, err := s.repo.Asset.GetByID(ctx, *req.AssetID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("Asset with id %d in this assignment not found", *req.AssetID)
			}
			return nil, err
		}
		if asset.State != model.AssetAvailable {
			return nil, apperr.Validation("Asset with ID %d is not available (current state: %s)", asset.ID, asset.State)
		}
		assignment.AssetID = asset.ID
		assignment.Asset = asset
	}

	if req.AssignDate != nil {
		assignDate, err := time.Parse(dateLayout, *req.AssignDate)
		if err != nil {
			return nil, apperr.Validation("Invalid assign date format, expected YYYY-MM-DD")
		}
		assignment.AssignDate = assignDate
	}
	if req.Note != nil {
		assignment.Note = req.Note
	}

	// 每次编辑都将派发人落为当前操作的管理员
	assignment.AssignedByID = actor.UserID

	if err := s.repo.Assignment.Update(ctx, assignment); err != nil {
		s.logger.Error("更新分配失败", zap.Uint("assignment_id", id), zap.Error(err))
		return nil, err
	}

	resp := toAssignmentResponse(assignment)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *assignmentService) Delete(ctx context.Context, actor authz.Actor, id uint) error {
	assignment, err := s.getAssignment(ctx, id)
	if err != nil {
		return err
	}

	if assignment.Asset != nil && !actor.SameLocation(assignment.Asset.Location) {
		return apperr.Business("You can only delete assignments that are in the same location as you")
	}
	if assignment.State != model.AssignmentWaitingForAcceptance && assignment.State != model.AssignmentDeclined {
		return apperr.Business("You can only delete assignments that are 'Waiting for acceptance' or 'Declined'")
	}

	// 资产释放与删除同事务
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Asset.UpdateState(ctx, assignment.AssetID, model.AssetAvailable); err != nil {
			return err
		}
		return tx.Assignment.Delete(ctx, assignment)
	})
	if err != nil {
		s.logger.Error("删除分配失败", zap.Uint("assignment_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("分配已删除",
		zap.Uint("assignment_id", id),
		zap.Uint("asset_id", assignment.AssetID))
	return nil
}

// ────────────────────── 查询 ──────────────────────

func (s *assignmentService) Get(ctx context.Context, actor authz.Actor, id uint) (*dto.AssignmentDetailResponse, error) {
	assignment, err := s.getAssignment(ctx, id)
	if err != nil {
		return nil, err
	}
	if assignment.Asset != nil && !actor.SameLocation(assignment.Asset.Location) {
		return nil, apperr.PermissionDenied("You don't have permission to view assignment from other location")
	}

	detail := &dto.AssignmentDetailResponse{
		Assignment: toAssignmentResponse(assignment),
	}
	if assignment.AssignedTo != nil {
		detail.AssignedTo = toUserResponse(assignment.AssignedTo)
	}
	if assignment.AssignedBy != nil {
		detail.AssignedBy = toUserResponse(assignment.AssignedBy)
	}
	if assignment.Asset != nil {
		detail.Asset = toAssetResponse(assignment.Asset)
	}
	return detail, nil
}

func (s *assignmentService) List(ctx context.Context, actor authz.Actor, req *dto.AssignmentListRequest) ([]dto.AssignmentResponse, int64, error) {
	req.Normalize()

	query := repository.ListAssignmentsQuery{
		Location: actor.Location,
		AssetID:  req.AssetID,
		Search:   req.Search,
		SortBy:   req.SortBy,
		SortDir:  req.SortDir,
		Offset:   req.Offset(),
		Limit:    req.Size,
	}
	if req.State != "" {
		state := model.AssignmentState(req.State)
		if !state.Valid() {
			return nil, 0, apperr.Validation("Invalid assignment state: %s", req.State)
		}
		query.State = state
	}
	if req.AssignDate != "" {
		assignDate, err := time.Parse(dateLayout, req.AssignDate)
		if err != nil {
			return nil, 0, apperr.Validation("Invalid assign date format, expected YYYY-MM-DD")
		}
		query.AssignDate = &assignDate
	}

	assignments, total, err := s.repo.Assignment.List(ctx, query)
	if err != nil {
		s.logger.Error("查询分配列表失败", zap.Error(err))
		return nil, 0, err
	}
	return toAssignmentResponses(assignments), total, nil
}

func (s *assignmentService) MyAssignments(ctx context.Context, actor authz.Actor, page *dto.PaginationRequest) ([]dto.AssignmentResponse, int64, error) {
	page.Normalize()
	assignments, total, err := s.repo.Assignment.ListByAssignee(ctx, actor.UserID, today(), page.Offset(), page.Size)
	if err != nil {
		s.logger.Error("查询个人分配失败", zap.Uint("user_id", actor.UserID), zap.Error(err))
		return nil, 0, err
	}
	return toAssignmentResponses(assignments), total, nil
}

// ────────────────────── 内部工具 ──────────────────────

func (s *assignmentService) getAssignment(ctx context.Context, id uint) (*model.Assignment, error) {
	assignment, err := s.repo.Assignment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Assignment with id %d not found", id)
		}
		s.logger.Error("查询分配失败", zap.Uint("assignment_id", id), zap.Error(err))
		return nil, err
	}
	return assignment, nil
}

// today 今天零点（按本地时区截断）
func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func toAssignmentResponse(assignment *model.Assignment) dto.AssignmentResponse {
	resp := dto.AssignmentResponse{
		ID:           assignment.ID,
		AssetID:      assignment.AssetID,
		AssignedToID: assignment.AssignedToID,
		AssignedByID: assignment.AssignedByID,
		AssignDate:   assignment.AssignDate.Format(dateLayout),
		Note:         assignment.Note,
		State:        string(assignment.State),
	}
	if assignment.AssignedTo != nil {
		resp.AssignedToUsername = assignment.AssignedTo.Username
	}
	if assignment.AssignedBy != nil {
		resp.AssignedByUsername = assignment.AssignedBy.Username
	}
	if assignment.Asset != nil {
		asset := toAssetResponse(assignment.Asset)
		resp.Asset = &asset
	}
	return resp
}

func toAssignmentResponses(assignments []model.Assignment) []dto.AssignmentResponse {
	resp := make([]dto.AssignmentResponse, 0, len(assignments))
	for i := range assignments {
		resp = append(resp, toAssignmentResponse(&assignments[i]))
	}
	return resp
}
