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

// RequestService 归还请求业务接口
//
// Waiting for returning ──管理员完成──▶ Completed
// 完成时在同一事务内级联：请求 → Completed、分配 → Returned、资产 → Available。
type RequestService interface {
	// Create 管理员为任意 Accepted 分配发起归还请求
	Create(ctx context.Context, actor authz.Actor, req *dto.CreateRequestRequest) (*dto.RequestResponse, error)
	// CreateByStaff 员工仅能为本人的分配发起归还请求
	CreateByStaff(ctx context.Context, actor authz.Actor, req *dto.CreateRequestRequest) (*dto.RequestResponse, error)
	// Complete 管理员完成归还请求（目前仅支持置为 Completed）
	Complete(ctx context.Context, actor authz.Actor, id uint, req *dto.UpdateRequestRequest) (*dto.RequestResponse, error)
	// Cancel 管理员取消待归还的请求（删除记录）
	Cancel(ctx context.Context, actor authz.Actor, id uint) error
	List(ctx context.Context, actor authz.Actor, req *dto.RequestListRequest) ([]dto.RequestResponse, int64, error)
}

type requestService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRequestService 创建 RequestService 实例
func NewRequestService(repo *repository.Repository, logger *zap.Logger) RequestService {
	return &requestService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *requestService) Create(ctx context.Context, actor authz.Actor, req *dto.CreateRequestRequest) (*dto.RequestResponse, error) {
	assignment, err := s.getAssignment(ctx, req.AssignmentID)
	if err != nil {
		return nil, err
	}
	return s.createForAssignment(ctx, actor, assignment)
}

func (s *requestService) CreateByStaff(ctx context.Context, actor authz.Actor, req *dto.CreateRequestRequest) (*dto.RequestResponse, error) {
	assignment, err := s.getAssignment(ctx, req.AssignmentID)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(assignment.AssignedToID) {
		return nil, apperr.Business("You can only create return requests for your own assignments")
	}
	return s.createForAssignment(ctx, actor, assignment)
}

func (s *requestService) createForAssignment(ctx context.Context, actor authz.Actor, assignment *model.Assignment) (*dto.RequestResponse, error) {
	if assignment.State != model.AssignmentAccepted {
		return nil, apperr.Business("Assignment is not in accepted state to return")
	}

	// 同一分配同时只允许一个待归还请求
	exists, err := s.repo.Request.ExistsWaitingByAssignment(ctx, assignment.ID)
	if err != nil {
		s.logger.Error("查询待归还请求失败", zap.Uint("assignment_id", assignment.ID), zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, apperr.Business("Request already exists for this assignment with waiting for returning state.")
	}

	request := &model.Request{
		AssignmentID:  assignment.ID,
		RequestedByID: actor.UserID,
		State:         model.RequestWaitingForReturning,
	}
	if err := s.repo.Request.Create(ctx, request); err != nil {
		s.logger.Error("创建归还请求失败", zap.Uint("assignment_id", assignment.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("归还请求创建成功",
		zap.Uint("request_id", request.ID),
		zap.Uint("assignment_id", assignment.ID))

	request.Assignment = assignment
	resp := toRequestResponse(request)
	return &resp, nil
}

// ────────────────────── Complete ──────────────────────

func (s *requestService) Complete(ctx context.Context, actor authz.Actor, id uint, req *dto.UpdateRequestRequest) (*dto.RequestResponse, error) {
	if model.RequestState(req.State) != model.RequestCompleted {
		return nil, apperr.Business("Only completion of return requests is currently supported")
	}

	request, err := s.getRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.State != model.RequestWaitingForReturning {
		return nil, apperr.Business("Only requests with 'Waiting for returning' state can be completed")
	}
	if request.Assignment == nil || request.Assignment.Asset == nil {
		return nil, apperr.NotFound("Assignment with id %d not found", request.AssignmentID)
	}
	if !actor.SameLocation(request.Assignment.Asset.Location) {
		return nil, apperr.Business("You can only complete requests for assets in your location")
	}

	// 三方级联：请求完成、分配归还、资产释放，同一事务
	now := time.Now()
	request.State = model.RequestCompleted
	request.ReturnDate = &now
	request.AcceptedByID = &actor.UserID
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Request.Update(ctx, request); err != nil {
			return err
		}
		if err := tx.Assignment.UpdateState(ctx, request.AssignmentID, model.AssignmentReturned); err != nil {
			return err
		}
		return tx.Asset.UpdateState(ctx, request.Assignment.AssetID, model.AssetAvailable)
	})
	if err != nil {
		s.logger.Error("完成归还请求失败", zap.Uint("request_id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("归还请求已完成",
		zap.Uint("request_id", id),
		zap.Uint("assignment_id", request.AssignmentID),
		zap.Uint("asset_id", request.Assignment.AssetID))

	request.Assignment.State = model.AssignmentReturned
	resp := toRequestResponse(request)
	return &resp, nil
}

// ────────────────────── Cancel ──────────────────────

func (s *requestService) Cancel(ctx context.Context, actor authz.Actor, id uint) error {
	request, err := s.getRequest(ctx, id)
	if err != nil {
		return err
	}
	if request.State != model.RequestWaitingForReturning {
		return apperr.Business("Only requests with 'Waiting for returning' state can be cancelled")
	}

	if err := s.repo.Request.Delete(ctx, request); err != nil {
		s.logger.Error("取消归还请求失败", zap.Uint("request_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("归还请求已取消", zap.Uint("request_id", id), zap.Uint("admin_id", actor.UserID))
	return nil
}

// ────────────────────── List ──────────────────────

func (s *requestService) List(ctx context.Context, actor authz.Actor, req *dto.RequestListRequest) ([]dto.RequestResponse, int64, error) {
	req.Normalize()

	query := repository.ListRequestsQuery{
		Location: actor.Location,
		Search:   req.Search,
		SortBy:   req.SortBy,
		SortDir:  req.SortDir,
		Offset:   req.Offset(),
		Limit:    req.Size,
	}
	if req.State != "" {
		state := model.RequestState(req.State)
		if !state.Valid() {
			return nil, 0, apperr.Validation("Invalid request state: %s", req.State)
		}
		query.State = state
	}
	if req.ReturnDate != "" {
		returnDate, err := time.Parse(dateLayout, req.ReturnDate)
		if err != nil {
			return nil, 0, apperr.Validation("Invalid return date format, expected YYYY-MM-DD")
		}
		query.ReturnDate = &returnDate
	}

	requests, total, err := s.repo.Request.List(ctx, query)
	if err != nil {
		s.logger.Error("查询归还请求列表失败", zap.Error(err))
		return nil, 0, err
	}

	resp := make([]dto.RequestResponse, 0, len(requests))
	for i := range requests {
		resp = append(resp, toRequestResponse(&requests[i]))
	}
	return resp, total, nil
}

// ────────────────────── 内部工具 ──────────────────────

func (s *requestService) getAssignment(ctx context.Context, id uint) (*model.Assignment, error) {
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

func (s *requestService) getRequest(ctx context.Context, id uint) (*model.Request, error) {
	request, err := s.repo.Request.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Request with id %d not found", id)
		}
		s.logger.Error("查询归还请求失败", zap.Uint("request_id", id), zap.Error(err))
		return nil, err
	}
	return request, nil
}

func toRequestResponse(request *model.Request) dto.RequestResponse {
	resp := dto.RequestResponse{
		ID:            request.ID,
		AssignmentID:  request.AssignmentID,
		RequestedByID: request.RequestedByID,
		AcceptedByID:  request.AcceptedByID,
		State:         string(request.State),
	}
	if request.ReturnDate != nil {
		d := request.ReturnDate.Format(dateLayout)
		resp.ReturnDate = &d
	}
	if request.Assignment != nil && request.Assignment.Asset != nil {
		resp.AssetCode = request.Assignment.Asset.AssetCode
		resp.AssetName = request.Assignment.Asset.AssetName
	}
	if request.RequestedBy != nil {
		resp.RequestedByUsername = request.RequestedBy.Username
	}
	if request.AcceptedBy != nil {
		resp.AcceptedByUsername = request.AcceptedBy.Username
	}
	return resp
}
