package service

import (
	"time"

	"go.uber.org/zap"

	"assets-management/internal/authz"
	"assets-management/internal/model"
	"assets-management/pkg/hash"
)

// ── 共享测试夹具 ──

func testLogger() *zap.Logger { return zap.NewNop() }

func adminActor(id uint, location model.Location) authz.Actor {
	return authz.Actor{UserID: id, Username: "admin", Role: model.RoleAdmin, Location: location}
}

func staffActor(id uint, location model.Location) authz.Actor {
	return authz.Actor{UserID: id, Username: "staff", Role: model.RoleStaff, Location: location}
}

func seedUser(r *testRepos, id uint, username string, role model.Role, location model.Location, status model.UserStatus) *model.User {
	digest, _ := hash.Password("password123")
	user := &model.User{
		BaseModel:   model.BaseModel{ID: id},
		StaffCode:   "SD0001",
		Username:    username,
		Password:    digest,
		FirstName:   "Test",
		LastName:    "User",
		DateOfBirth: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		JoinDate:    time.Date(2020, 1, 6, 0, 0, 0, 0, time.UTC),
		Role:        role,
		Location:    location,
		Status:      status,
	}
	r.users.users[id] = user
	if id >= r.users.nextID {
		r.users.nextID = id + 1
	}
	return user
}

func seedCategory(r *testRepos, id uint, name, prefix string, counter int) *model.Category {
	category := &model.Category{
		BaseModel:    model.BaseModel{ID: id},
		CategoryName: name,
		Prefix:       prefix,
		IDCounter:    counter,
	}
	r.categories.categories[id] = category
	if id >= r.categories.nextID {
		r.categories.nextID = id + 1
	}
	return category
}

func seedAsset(r *testRepos, id uint, code string, state model.AssetState, location model.Location) *model.Asset {
	asset := &model.Asset{
		BaseModel:     model.BaseModel{ID: id},
		AssetCode:     code,
		AssetName:     "Test Asset",
		Specification: "Test Specification",
		InstalledDate: time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
		State:         state,
		Location:      location,
		CategoryID:    1,
	}
	r.assets.assets[id] = asset
	if id >= r.assets.nextID {
		r.assets.nextID = id + 1
	}
	return asset
}

func seedAssignment(r *testRepos, id, assetID, assignedToID uint, state model.AssignmentState) *model.Assignment {
	assignment := &model.Assignment{
		BaseModel:    model.BaseModel{ID: id},
		AssetID:      assetID,
		AssignedToID: assignedToID,
		AssignedByID: 1,
		AssignDate:   time.Now().AddDate(0, 0, -1),
		State:        state,
	}
	r.assignments.assignments[id] = assignment
	if id >= r.assignments.nextID {
		r.assignments.nextID = id + 1
	}
	return assignment
}

func seedRequest(r *testRepos, id, assignmentID, requestedByID uint, state model.RequestState) *model.Request {
	request := &model.Request{
		BaseModel:     model.BaseModel{ID: id},
		AssignmentID:  assignmentID,
		RequestedByID: requestedByID,
		State:         state,
	}
	r.requests.requests[id] = request
	if id >= r.requests.nextID {
		r.requests.nextID = id + 1
	}
	return request
}
