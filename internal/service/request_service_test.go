package service

import (
	"context"
	"testing"

	"assets-management/internal/dto"
	"assets-management/internal/model"
	"assets-management/pkg/apperr"
)

func setupRequestService() (RequestService, *testRepos) {
	repos := newTestRepos()
	return NewRequestService(repos.repo, testLogger()), repos
}

// seedRequestScene 管理员 + 受派人 + 在借资产 + Accepted 分配
func seedRequestScene(repos *testRepos) {
	seedUser(repos, 1, "adminhn", model.RoleAdmin, model.LocationHanoi, model.StatusActive)
	seedUser(repos, 2, "staffhn", model.RoleStaff, model.LocationHanoi, model.StatusActive)
	seedCategory(repos, 1, "Laptop", "LA", 1)
	seedAsset(repos, 1, "LA000001", model.AssetAssigned, model.LocationHanoi)
	seedAssignment(repos, 1, 1, 2, model.AssignmentAccepted)
}

// ── Create ──

func TestCreateRequest_ForAcceptedAssignment(t *testing.T) {
	svc, repos := setupRequestService()
	seedRequestScene(repos)

	result, err := svc.Create(context.Background(), adminActor(1, model.LocationHanoi), &dto.CreateRequestRequest{AssignmentID: 1})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if result.State != string(model.RequestWaitingForReturning) {
		t.Errorf("新请求应为 Waiting for returning，实际=%s", result.State)
	}
	if result.RequestedByID != 1 {
		t.Errorf("发起人应为操作者，期望 1，实际=%d", result.RequestedByID)
	}
}

func TestCreateRequest_AssignmentNotAccepted(t *testing.T) {
	svc, repos := setupRequestService()
	seedRequestScene(repos)
	repos.assignments.assignments[1].State = model.AssignmentWaitingForAcceptance

	_, err := svc.Create(context.Background(), adminActor(1, model.LocationHanoi), &dto.CreateRequestRequest{AssignmentID: 1})
	if !apperr.IsKind(err, apperr.KindBusiness) {
		t.Errorf("非 Accepted 分配应返回 Business，实际: %v", err)
	}
}

func TestCreateRequest_DuplicateWaiting(t *testing.T) {
	svc, repos := setupRequestService()
	seedRequestScene(repos)
	seedRequest(repos, 1, 1, 2, model.RequestWaitingForReturning)

	_, err := svc.Create(context.Background(), adminActor(1, model.LocationHanoi), &dto.CreateRequestRequest{AssignmentID: 1})
	if !apperr.IsKind(err, apperr.KindBusiness) {
		t.Errorf("重复待归还请求应返回 Business，实际: %v", err)
	}
}

func TestCreateRequestByStaff_OwnAssignment(t *testing.T) {
	svc, repos := setupRequestService()
	seedRequestScene(repos)

	result, err := svc.CreateByStaff(context.Background(), staffActor(2, model.LocationHanoi), &dto.CreateRequestRequest{AssignmentID: 1})
	if err != nil {
		t.Fatalf("CreateByStaff 应成功: %v", err)
	}
	if result.RequestedByID != 2 {
		t.Errorf("发起人应为员工本人，期望 2，实际=%d", result.RequestedByID)
	}
}

func TestCreateRequestByStaff_OthersAssignmentRejected(t *testing.T) {
	svc, repos := setupRequestService()
	seedRequestScene(repos)

	_, err := svc.CreateByStaff(context.Background(), staffActor(3, model.LocationHanoi), &dto.CreateRequestRequest{AssignmentID: 1})
	if !apperr.IsKind(err, apperr.KindBusiness) {
		t.Errorf("为他人分配发起请求应返回 Business，实际: %v", err)
	}
}

// ── Complete ──

func TestCompleteRequest_CascadesAllThree(t *testing.T) {
	svc, repos := setupRequestService()
	seedRequestScene(repos)
	seedRequest(repos, 1, 1, 2, model.RequestWaitingForReturning)

	result, err := svc.Complete(context.Background(), adminActor(1, model.LocationHanoi), 1,
		&dto.UpdateRequestRequest{State: string(model.RequestCompleted)})
	if err != nil {
		t.Fatalf("Complete 应成功: %v", err)
	}

	if result.State != string(model.RequestCompleted) {
		t.Errorf("请求应为 Completed，实际=%s", result.State)
	}
	if result.ReturnDate == nil {
		t.Error("完成后应落归还日期")
	}
	if result.AcceptedByID == nil || *result.AcceptedByID != 1 {
		t.Error("完成后应落受理管理员")
	}
	// 三方级联
	if repos.assignments.assignments[1].State != model.AssignmentReturned {
		t.Errorf("分配应为 Returned，实际=%s", repos.assignments.assignments[1].State)
	}
	if repos.assets.assets[1].State != model.AssetAvailable {
		t.Errorf("资产应回到 Available，实际=%s", repos.assets.assets[1].State)
	}
}

func TestCompleteRequest_UnsupportedTarget(t *testing.T) {
	svc, repos := setupRequestService()
	seedRequestScene(repos)
	seedRequest(repos, 1, 1, 2, model.RequestWaitingForReturning)

	_, err := svc.Complete(context.Background(), adminActor(1, model.LocationHanoi), 1,
		&dto.UpdateRequestRequest{State: string(model.RequestWaitingForReturning)})
	if !apperr.IsKind(err, apperr.KindBusiness) {
		t.Errorf("非 Completed 目标应返回 Business，实际: %v", err)
	}
}

func TestCompleteRequest_AlreadyCompleted(t *testing.T) {
	svc, repos := setupRequestService()
	seedRequestScene(repos)
	seedRequest(repos, 1, 1, 2, model.RequestCompleted)

	_, err := svc.Complete(context.Background(), adminActor(1, model.LocationHanoi), 1,
		&dto.UpdateRequestRequest{State: string(model.RequestCompleted)})
	if !apperr.IsKind(err, apperr.KindBusiness) {
		t.Errorf("已完成请求再次完成应返回 Business，实际: %v", err)
	}
}

func TestCompleteRequest_OtherLocationRejected(t *testing.T) {
	svc, repos := setupRequestService()
	seedRequestScene(repos)
	repos.assets.assets[1].Location = model.LocationHoChiMinh
	seedRequest(repos, 1, 1, 2, model.RequestWaitingForReturning)

	_, err := svc.Complete(context.Background(), adminActor(1, model.LocationHanoi), 1,
		&dto.UpdateRequestRequest{State: string(model.RequestCompleted)})
	if !apperr.IsKind(err, apperr.KindBusiness) {
		t.Errorf("跨地点完成应返回 Business，实际: %v", err)
	}
}

// ── Cancel ──

func TestCancelRequest_DeletesWaiting(t *testing.T) {
	svc, repos := setupRequestService()
	seedRequestScene(repos)
	seedRequest(repos, 1, 1, 2, model.RequestWaitingForReturning)

	if err := svc.Cancel(context.Background(), adminActor(1, model.LocationHanoi), 1); err != nil {
		t.Fatalf("Cancel 应成功: %v", err)
	}
	if _, ok := repos.requests.requests[1]; ok {
		t.Error("请求应已被删除")
	}
	// 取消不触碰分配与资产
	if repos.assignments.assignments[1].State != model.AssignmentAccepted {
		t.Errorf("分配应保持 Accepted，实际=%s", repos.assignments.assignments[1].State)
	}
}

func TestCancelRequest_CompletedRejected(t *testing.T) {
	svc, repos := setupRequestService()
	seedRequestScene(repos)
	seedRequest(repos, 1, 1, 2, model.RequestCompleted)

	err := svc.Cancel(context.Background(), adminActor(1, model.LocationHanoi), 1)
	if !apperr.IsKind(err, apperr.KindBusiness) {
		t.Errorf("已完成请求取消应返回 Business，实际: %v", err)
	}
}

// ── List ──

func TestListRequests_FiltersByState(t *testing.T) {
	svc, repos := setupRequestService()
	seedRequestScene(repos)
	seedRequest(repos, 1, 1, 2, model.RequestWaitingForReturning)
	seedRequest(repos, 2, 1, 2, model.RequestCompleted)

	result, total, err := svc.List(context.Background(), adminActor(1, model.LocationHanoi), &dto.RequestListRequest{
		State: string(model.RequestWaitingForReturning),
	})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if total != 1 || len(result) != 1 {
		t.Fatalf("期望 1 条记录，实际 total=%d len=%d", total, len(result))
	}
	if result[0].State != string(model.RequestWaitingForReturning) {
		t.Errorf("期望 Waiting for returning，实际=%s", result[0].State)
	}
}

func TestListRequests_InvalidState(t *testing.T) {
	svc, repos := setupRequestService()
	seedRequestScene(repos)

	_, _, err := svc.List(context.Background(), adminActor(1, model.LocationHanoi), &dto.RequestListRequest{
		State: "Pending",
	})
	if !apperr.IsKind(err, apperr.KindValidation) {
		t.Errorf("非法状态过滤应返回 Validation，实际: %v", err)
	}
}
