package service

import (
	"context"
	"testing"

	"assets-management/internal/dto"
	"assets-management/internal/model"
	"assets-management/pkg/apperr"
)

func setupAssetService() (AssetService, *testRepos) {
	repos := newTestRepos()
	return NewAssetService(repos.repo, testLogger()), repos
}

func validCreateAssetRequest(categoryID uint) *dto.CreateAssetRequest {
	return &dto.CreateAssetRequest{
		AssetName:     "ThinkPad X1",
		Specification: "i7 / 16GB / 512GB",
		InstalledDate: "2023-05-10",
		CategoryID:    categoryID,
	}
}

// ── Create ──

func TestCreateAsset_MintsSequentialCodes(t *testing.T) {
	svc, repos := setupAssetService()
	seedCategory(repos, 1, "Laptop", "LA", 0)

	first, err := svc.Create(context.Background(), adminActor(1, model.LocationHanoi), validCreateAssetRequest(1))
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	// 编码 = 前缀 + 6 位计数器
	if first.AssetCode != "LA000001" {
		t.Errorf("期望 asset_code=LA000001，实际=%s", first.AssetCode)
	}
	if first.Location != "HN" {
		t.Errorf("资产地点应取自操作者，期望 HN，实际=%s", first.Location)
	}
	if first.State != string(model.AssetNotAvailable) {
		t.Errorf("缺省状态应为 Not Available，实际=%s", first.State)
	}

	second, err := svc.Create(context.Background(), adminActor(1, model.LocationHanoi), validCreateAssetRequest(1))
	if err != nil {
		t.Fatalf("第二次 Create 应成功: %v", err)
	}
	if second.AssetCode != "LA000002" {
		t.Errorf("期望 asset_code=LA000002，实际=%s", second.AssetCode)
	}
	if repos.categories.categories[1].IDCounter != 2 {
		t.Errorf("类别计数器应为 2，实际=%d", repos.categories.categories[1].IDCounter)
	}
}

func TestCreateAsset_CategoryNotFound(t *testing.T) {
	svc, _ := setupAssetService()

	_, err := svc.Create(context.Background(), adminActor(1, model.LocationHanoi), validCreateAssetRequest(999))
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("类别不存在应返回 NotFound，实际: %v", err)
	}
}

func TestCreateAsset_FutureInstalledDate(t *testing.T) {
	svc, repos := setupAssetService()
	seedCategory(repos, 1, "Laptop", "LA", 0)

	req := validCreateAssetRequest(1)
	req.InstalledDate = "2999-01-01"
	_, err := svc.Create(context.Background(), adminActor(1, model.LocationHanoi), req)
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("未来安装日期应返回 Validation，实际: %v", err)
	}
}

func TestCreateAsset_InvalidState(t *testing.T) {
	svc, repos := setupAssetService()
	seedCategory(repos, 1, "Laptop", "LA", 0)

	req := validCreateAssetRequest(1)
	req.State = "Broken"
	_, err := svc.Create(context.Background(), adminActor(1, model.LocationHanoi), req)
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("非法状态应返回 Validation，实际: %v", err)
	}
}

// ── Get / List ──

func TestGetAsset_OtherLocationRejected(t *testing.T) {
	svc, repos := setupAssetService()
	seedCategory(repos, 1, "Laptop", "LA", 1)
	seedAsset(repos, 1, "LA000001", model.AssetAvailable, model.LocationHoChiMinh)

	_, err := svc.Get(context.Background(), adminActor(1, model.LocationHanoi), 1)
	if !apperr.IsKind(err, apperr.KindPermissionDenied) {
		t.Errorf("跨地点读取应返回 PermissionDenied，实际: %v", err)
	}
}

func TestListAssets_FiltersByState(t *testing.T) {
	svc, repos := setupAssetService()
	seedCategory(repos, 1, "Laptop", "LA", 2)
	seedAsset(repos, 1, "LA000001", model.AssetAvailable, model.LocationHanoi)
	seedAsset(repos, 2, "LA000002", model.AssetAssigned, model.LocationHanoi)

	result, total, err := svc.List(context.Background(), adminActor(1, model.LocationHanoi), &dto.AssetListRequest{
		States: []string{string(model.AssetAvailable)},
	})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if total != 1 || len(result) != 1 {
		t.Fatalf("期望 1 条记录，实际 total=%d len=%d", total, len(result))
	}
	if result[0].AssetCode != "LA000001" {
		t.Errorf("期望 LA000001，实际=%s", result[0].AssetCode)
	}
}

// ── Update ──

func TestUpdateAsset_BlockedWhileAssigned(t *testing.T) {
	svc, repos := setupAssetService()
	seedCategory(repos, 1, "Laptop", "LA", 1)
	seedAsset(repos, 1, "LA000001", model.AssetAssigned, model.LocationHanoi)

	name := "New name"
	_, err := svc.Update(context.Background(), adminActor(1, model.LocationHanoi), 1, &dto.UpdateAssetRequest{AssetName: &name})
	if !apperr.IsKind(err, apperr.KindBusiness) {
		t.Errorf("在借资产编辑应返回 Business，实际: %v", err)
	}
}

func TestUpdateAsset_OtherLocationRejected(t *testing.T) {
	svc, repos := setupAssetService()
	seedCategory(repos, 1, "Laptop", "LA", 1)
	seedAsset(repos, 1, "LA000001", model.AssetAvailable, model.LocationDaNang)

	name := "New name"
	_, err := svc.Update(context.Background(), adminActor(1, model.LocationHanoi), 1, &dto.UpdateAssetRequest{AssetName: &name})
	if !apperr.IsKind(err, apperr.KindPermissionDenied) {
		t.Errorf("跨地点编辑应返回 PermissionDenied，实际: %v", err)
	}
}

func TestUpdateAsset_ChangesState(t *testing.T) {
	svc, repos := setupAssetService()
	seedCategory(repos, 1, "Laptop", "LA", 1)
	seedAsset(repos, 1, "LA000001", model.AssetAvailable, model.LocationHanoi)

	state := string(model.AssetWaitingForRecycling)
	result, err := svc.Update(context.Background(), adminActor(1, model.LocationHanoi), 1, &dto.UpdateAssetRequest{State: &state})
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if result.State != string(model.AssetWaitingForRecycling) {
		t.Errorf("期望状态 Waiting for Recycling，实际=%s", result.State)
	}
}

// ── Delete / CheckValid ──

func TestDeleteAsset_BlockedByAssignmentHistory(t *testing.T) {
	svc, repos := setupAssetService()
	seedCategory(repos, 1, "Laptop", "LA", 1)
	seedUser(repos, 2, "staffhn", model.RoleStaff, model.LocationHanoi, model.StatusActive)
	seedAsset(repos, 1, "LA000001", model.AssetAvailable, model.LocationHanoi)
	// 即使分配已归还，历史记录仍阻断删除
	seedAssignment(repos, 1, 1, 2, model.AssignmentReturned)

	err := svc.Delete(context.Background(), adminActor(1, model.LocationHanoi), 1)
	if !apperr.IsKind(err, apperr.KindBusiness) {
		t.Errorf("有分配历史的资产删除应返回 Business，实际: %v", err)
	}
}

func TestDeleteAsset_Success(t *testing.T) {
	svc, repos := setupAssetService()
	seedCategory(repos, 1, "Laptop", "LA", 1)
	seedAsset(repos, 1, "LA000001", model.AssetAvailable, model.LocationHanoi)

	if err := svc.Delete(context.Background(), adminActor(1, model.LocationHanoi), 1); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if _, ok := repos.assets.assets[1]; ok {
		t.Error("资产应已被删除")
	}
}

func TestCheckValidAsset(t *testing.T) {
	svc, repos := setupAssetService()
	seedCategory(repos, 1, "Laptop", "LA", 1)
	seedUser(repos, 2, "staffhn", model.RoleStaff, model.LocationHanoi, model.StatusActive)
	seedAsset(repos, 1, "LA000001", model.AssetAssigned, model.LocationHanoi)
	seedAssignment(repos, 1, 1, 2, model.AssignmentAccepted)

	result, err := svc.CheckValid(context.Background(), adminActor(1, model.LocationHanoi), 1)
	if err != nil {
		t.Fatalf("CheckValid 应成功: %v", err)
	}
	if result.IsValid {
		t.Error("有分配记录的资产应为不可删除")
	}
}

// ── History ──

func TestAssetHistory_ReturnsAcceptedAndReturned(t *testing.T) {
	svc, repos := setupAssetService()
	seedCategory(repos, 1, "Laptop", "LA", 1)
	seedUser(repos, 2, "staffhn", model.RoleStaff, model.LocationHanoi, model.StatusActive)
	seedAsset(repos, 1, "LA000001", model.AssetAssigned, model.LocationHanoi)
	seedAssignment(repos, 1, 1, 2, model.AssignmentReturned)
	seedAssignment(repos, 2, 1, 2, model.AssignmentAccepted)
	// 待接受的分配不进入历史
	seedAssignment(repos, 3, 1, 2, model.AssignmentWaitingForAcceptance)

	entries, total, err := svc.History(context.Background(), adminActor(1, model.LocationHanoi), 1, &dto.PaginationRequest{})
	if err != nil {
		t.Fatalf("History 应成功: %v", err)
	}
	if total != 2 || len(entries) != 2 {
		t.Fatalf("期望 2 条历史，实际 total=%d len=%d", total, len(entries))
	}
	if entries[0].AssignedToUsername != "staffhn" {
		t.Errorf("期望 assigned_to=staffhn，实际=%s", entries[0].AssignedToUsername)
	}
}
