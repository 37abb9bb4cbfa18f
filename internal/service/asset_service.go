package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"assets-management/internal/authz"
	"assets-management/internal/dto"
	"assets-management/internal/model"
	"assets-management/internal/repository"
	"assets-management/pkg/apperr"
)

// AssetService 资产业务接口
// 所有读写均按调用方地点收敛
type AssetService interface {
	Create(ctx context.Context, actor authz.Actor, req *dto.CreateAssetRequest) (*dto.AssetResponse, error)
	Get(ctx context.Context, actor authz.Actor, id uint) (*dto.AssetResponse, error)
	List(ctx context.Context, actor authz.Actor, req *dto.AssetListRequest) ([]dto.AssetResponse, int64, error)
	Update(ctx context.Context, actor authz.Actor, id uint, req *dto.UpdateAssetRequest) (*dto.AssetResponse, error)
	// Delete 仅允许删除从未出现在任何分配中的资产
	Delete(ctx context.Context, actor authz.Actor, id uint) error
	// CheckValid 资产是否可被删除（无任何分配记录）
	CheckValid(ctx context.Context, actor authz.Actor, id uint) (*dto.IsValidResponse, error)
	// History 资产的分配历史（Accepted/Returned，按时间倒序）
	History(ctx context.Context, actor authz.Actor, id uint, page *dto.PaginationRequest) ([]dto.AssetHistoryEntry, int64, error)
}

type assetService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAssetService 创建 AssetService 实例
func NewAssetService(repo *repository.Repository, logger *zap.Logger) AssetService {
	return &assetService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *assetService) Create(ctx context.Context, actor authz.Actor, req *dto.CreateAssetRequest) (*dto.AssetResponse, error) {
	category, err := s.repo.Category.GetByID(ctx, req.CategoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Category with ID %d not found", req.CategoryID)
		}
		s.logger.Error("查询类别失败", zap.Uint("category_id", req.CategoryID), zap.Error(err))
		return nil, err
	}

	installedDate, err := time.Parse(dateLayout, req.InstalledDate)
	if err != nil {
		return nil, apperr.Validation("Invalid installed date format, expected YYYY-MM-DD")
	}
	if installedDate.After(time.Now()) {
		return nil, apperr.Validation("Installed date cannot be in the future")
	}

	state := model.AssetNotAvailable
	if req.State != "" {
		state = model.AssetState(req.State)
		if !state.Valid() {
			return nil, apperr.Validation("Invalid asset state: %s", req.State)
		}
	}

	// 编码铸造与入库在同一事务内：计数器自增为数据库端原子操作，
	// 并发创建不会产生重复编号
	var asset *model.Asset
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		counter, err := tx.Category.IncrementCounter(ctx, category.ID)
		if err != nil {
			return err
		}
		asset = &model.Asset{
			AssetCode:     fmt.Sprintf("%s%06d", category.Prefix, counter),
			AssetName:     req.AssetName,
			Specification: req.Specification,
			InstalledDate: installedDate,
			State:         state,
			Location:      actor.Location,
			CategoryID:    category.ID,
		}
		return tx.Asset.Create(ctx, asset)
	})
	if err != nil {
		s.logger.Error("创建资产失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("资产创建成功",
		zap.Uint("asset_id", asset.ID),
		zap.String("asset_code", asset.AssetCode))

	asset.Category = category
	resp := toAssetResponse(asset)
	return &resp, nil
}

// ────────────────────── 查询 ──────────────────────

func (s *assetService) Get(ctx context.Context, actor authz.Actor, id uint) (*dto.AssetResponse, error) {
	asset, err := s.getAsset(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.SameLocation(asset.Location) {
		return nil, apperr.PermissionDenied("You can only read asset that are in the same location as you")
	}
	resp := toAssetResponse(asset)
	return &resp, nil
}

func (s *assetService) List(ctx context.Context, actor authz.Actor, req *dto.AssetListRequest) ([]dto.AssetResponse, int64, error) {
	req.Normalize()

	states := make([]model.AssetState, 0, len(req.States))
	for _, raw := range req.States {
		state := model.AssetState(raw)
		if !state.Valid() {
			return nil, 0, apperr.Validation("Invalid asset state: %s", raw)
		}
		states = append(states, state)
	}

	assets, total, err := s.repo.Asset.List(ctx, repository.ListAssetsQuery{
		Location:   actor.Location,
		States:     states,
		CategoryID: req.CategoryID,
		Search:     req.Search,
		SortBy:     req.SortBy,
		SortDir:    req.SortDir,
		Offset:     req.Offset(),
		Limit:      req.Size,
	})
	if err != nil {
		s.logger.Error("查询资产列表失败", zap.Error(err))
		return nil, 0, err
	}

	resp := make([]dto.AssetResponse, 0, len(assets))
	for i := range assets {
		resp = append(resp, toAssetResponse(&assets[i]))
	}
	return resp, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *assetService) Update(ctx context.Context, actor authz.Actor, id uint, req *dto.UpdateAssetRequest) (*dto.AssetResponse, error) {
	asset, err := s.getAsset(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.SameLocation(asset.Location) {
		return nil, apperr.PermissionDenied("You are not allowed to update asset from other location")
	}
	// 在借资产不得编辑
	if asset.State == model.AssetAssigned {
		return nil, apperr.Business("Asset is currently assigned to a user, cannot be updated")
	}

	if req.AssetName != nil {
		asset.AssetName = *req.AssetName
	}
	if req.Specification != nil {
		asset.Specification = *req.Specification
	}
	if req.InstalledDate != nil {
		installedDate, err := time.Parse(dateLayout, *req.InstalledDate)
		if err != nil {
			return nil, apperr.Validation("Invalid installed date format, expected YYYY-MM-DD")
		}
		if installedDate.After(time.Now()) {
			return nil, apperr.Validation("Installed date cannot be in the future")
		}
		asset.InstalledDate = installedDate
	}
	if req.State != nil {
		state := model.AssetState(*req.State)
		if !state.Valid() {
			return nil, apperr.Validation("Invalid asset state: %s", *req.State)
		}
		asset.State = state
	}

	if err := s.repo.Asset.Update(ctx, asset); err != nil {
		s.logger.Error("更新资产失败", zap.Uint("asset_id", id), zap.Error(err))
		return nil, err
	}

	resp := toAssetResponse(asset)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *assetService) Delete(ctx context.Context, actor authz.Actor, id uint) error {
	asset, err := s.getAsset(ctx, id)
	if err != nil {
		return err
	}
	if !actor.SameLocation(asset.Location) {
		return apperr.PermissionDenied("You are not allowed to update asset from other location")
	}

	canDelete, err := s.canDelete(ctx, id)
	if err != nil {
		return err
	}
	if !canDelete {
		return apperr.Business("Cannot delete the asset because it belongs to one or more historical assignments. " +
			"If the asset is not able to be used anymore, please update its state in Edit Asset page")
	}

	if err := s.repo.Asset.Delete(ctx, asset); err != nil {
		s.logger.Error("删除资产失败", zap.Uint("asset_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("资产已删除", zap.Uint("asset_id", id), zap.String("asset_code", asset.AssetCode))
	return nil
}

func (s *assetService) CheckValid(ctx context.Context, actor authz.Actor, id uint) (*dto.IsValidResponse, error) {
	if _, err := s.getAsset(ctx, id); err != nil {
		return nil, err
	}
	canDelete, err := s.canDelete(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canDelete {
		return &dto.IsValidResponse{
			IsValid: false,
			Detail:  "Cannot delete the asset because it belongs to one or more historical assignments",
		}, nil
	}
	return &dto.IsValidResponse{IsValid: true}, nil
}

// ────────────────────── History ──────────────────────

func (s *assetService) History(ctx context.Context, actor authz.Actor, id uint, page *dto.PaginationRequest) ([]dto.AssetHistoryEntry, int64, error) {
	asset, err := s.getAsset(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	if !actor.SameLocation(asset.Location) {
		return nil, 0, apperr.PermissionDenied("You can only read asset that are in the same location as you")
	}

	page.Normalize()
	rows, total, err := s.repo.Assignment.History(ctx, id, page.Offset(), page.Size)
	if err != nil {
		s.logger.Error("查询资产历史失败", zap.Uint("asset_id", id), zap.Error(err))
		return nil, 0, err
	}

	entries := make([]dto.AssetHistoryEntry, 0, len(rows))
	for _, row := range rows {
		entry := dto.AssetHistoryEntry{
			AssignmentID:       row.AssignmentID,
			AssignDate:         row.AssignDate.Format(dateLayout),
			AssignedToUsername: row.AssignedToUsername,
			AssignedByUsername: row.AssignedByUsername,
			State:              string(row.State),
		}
		if row.ReturnDate != nil {
			d := row.ReturnDate.Format(dateLayout)
			entry.ReturnDate = &d
		}
		entries = append(entries, entry)
	}
	return entries, total, nil
}

// ────────────────────── 内部工具 ──────────────────────

func (s *assetService) getAsset(ctx context.Context, id uint) (*model.Asset, error) {
	asset, err := s.repo.Asset.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Asset with id %d not found", id)
		}
		s.logger.Error("查询资产失败", zap.Uint("asset_id", id), zap.Error(err))
		return nil, err
	}
	return asset, nil
}

// canDelete 删除闸门：存在过任何分配记录（含历史）即不可删除
func (s *assetService) canDelete(ctx context.Context, id uint) (bool, error) {
	count, err := s.repo.Assignment.CountByAsset(ctx, id)
	if err != nil {
		s.logger.Error("统计资产分配记录失败", zap.Uint("asset_id", id), zap.Error(err))
		return false, err
	}
	return count == 0, nil
}

func toAssetResponse(asset *model.Asset) dto.AssetResponse {
	resp := dto.AssetResponse{
		ID:            asset.ID,
		AssetCode:     asset.AssetCode,
		AssetName:     asset.AssetName,
		Specification: asset.Specification,
		InstalledDate: asset.InstalledDate.Format(dateLayout),
		State:         string(asset.State),
		Location:      string(asset.Location),
		CategoryID:    asset.CategoryID,
	}
	if asset.Category != nil {
		resp.CategoryName = asset.Category.CategoryName
	}
	return resp
}
