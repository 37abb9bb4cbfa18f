package service

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"assets-management/internal/model"
	"assets-management/internal/repository"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users  map[uint]*model.User
	nextID uint
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uint]*model.User), nextID: 1}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.ID == 0 {
		user.ID = m.nextID
		m.nextID++
	} else if user.ID >= m.nextID {
		m.nextID = user.ID + 1
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uint) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) List(_ context.Context, q repository.ListUsersQuery) ([]model.User, int64, error) {
	var all []model.User
	for _, u := range m.users {
		if q.Location != "" && u.Location != q.Location {
			continue
		}
		if q.Role != "" && u.Role != q.Role {
			continue
		}
		if q.Search != "" {
			s := strings.ToLower(q.Search)
			if !strings.Contains(strings.ToLower(u.Username), s) &&
				!strings.Contains(strings.ToLower(u.StaffCode), s) &&
				!strings.Contains(strings.ToLower(u.FirstName+" "+u.LastName), s) {
				continue
			}
		}
		all = append(all, *u)
	}
	return paginate(all, q.Offset, q.Limit)
}

func (m *mockUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

func (m *mockUserRepo) IsUsernameExists(_ context.Context, username string) (bool, error) {
	for _, u := range m.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

// ── Mock CategoryRepository ──

type mockCategoryRepo struct {
	categories map[uint]*model.Category
	nextID     uint
}

func newMockCategoryRepo() *mockCategoryRepo {
	return &mockCategoryRepo{categories: make(map[uint]*model.Category), nextID: 1}
}

func (m *mockCategoryRepo) Create(_ context.Context, category *model.Category) error {
	if category.ID == 0 {
		category.ID = m.nextID
		m.nextID++
	}
	m.categories[category.ID] = category
	return nil
}

func (m *mockCategoryRepo) GetByID(_ context.Context, id uint) (*model.Category, error) {
	if c, ok := m.categories[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCategoryRepo) List(_ context.Context) ([]model.Category, error) {
	var result []model.Category
	for _, c := range m.categories {
		result = append(result, *c)
	}
	return result, nil
}

func (m *mockCategoryRepo) IsNameExists(_ context.Context, name string) (bool, error) {
	for _, c := range m.categories {
		if c.CategoryName == name {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockCategoryRepo) IsPrefixExists(_ context.Context, prefix string) (bool, error) {
	for _, c := range m.categories {
		if c.Prefix == prefix {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockCategoryRepo) IncrementCounter(_ context.Context, id uint) (int, error) {
	c, ok := m.categories[id]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	c.IDCounter++
	return c.IDCounter, nil
}

// ── Mock AssetRepository ──

type mockAssetRepo struct {
	assets map[uint]*model.Asset
	nextID uint
}

func newMockAssetRepo() *mockAssetRepo {
	return &mockAssetRepo{assets: make(map[uint]*model.Asset), nextID: 1}
}

func (m *mockAssetRepo) Create(_ context.Context, asset *model.Asset) error {
	if asset.ID == 0 {
		asset.ID = m.nextID
		m.nextID++
	}
	m.assets[asset.ID] = asset
	return nil
}

func (m *mockAssetRepo) GetByID(_ context.Context, id uint) (*model.Asset, error) {
	if a, ok := m.assets[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssetRepo) Update(_ context.Context, asset *model.Asset) error {
	m.assets[asset.ID] = asset
	return nil
}

func (m *mockAssetRepo) UpdateState(_ context.Context, id uint, state model.AssetState) error {
	a, ok := m.assets[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.State = state
	return nil
}

func (m *mockAssetRepo) Delete(_ context.Context, asset *model.Asset) error {
	delete(m.assets, asset.ID)
	return nil
}

func (m *mockAssetRepo) List(_ context.Context, q repository.ListAssetsQuery) ([]model.Asset, int64, error) {
	var all []model.Asset
	for _, a := range m.assets {
		if q.Location != "" && a.Location != q.Location {
			continue
		}
		if len(q.States) > 0 && !containsState(q.States, a.State) {
			continue
		}
		if q.CategoryID != 0 && a.CategoryID != q.CategoryID {
			continue
		}
		if q.Search != "" {
			s := strings.ToLower(q.Search)
			if !strings.Contains(strings.ToLower(a.AssetCode), s) &&
				!strings.Contains(strings.ToLower(a.AssetName), s) {
				continue
			}
		}
		all = append(all, *a)
	}
	return paginate(all, q.Offset, q.Limit)
}

func containsState(states []model.AssetState, state model.AssetState) bool {
	for _, s := range states {
		if s == state {
			return true
		}
	}
	return false
}

// ── Mock AssignmentRepository ──

// mockAssignmentRepo 持有 asset/user mock 的引用，GetByID 时补齐关联对象，
// 对应 GORM 实现中的 Preload
type mockAssignmentRepo struct {
	assignments map[uint]*model.Assignment
	nextID      uint
	assets      *mockAssetRepo
	users       *mockUserRepo
}

func newMockAssignmentRepo(assets *mockAssetRepo, users *mockUserRepo) *mockAssignmentRepo {
	return &mockAssignmentRepo{
		assignments: make(map[uint]*model.Assignment),
		nextID:      1,
		assets:      assets,
		users:       users,
	}
}

func (m *mockAssignmentRepo) hydrate(a *model.Assignment) *model.Assignment {
	if asset, ok := m.assets.assets[a.AssetID]; ok {
		a.Asset = asset
	}
	if u, ok := m.users.users[a.AssignedToID]; ok {
		a.AssignedTo = u
	}
	if u, ok := m.users.users[a.AssignedByID]; ok {
		a.AssignedBy = u
	}
	return a
}

func (m *mockAssignmentRepo) Create(_ context.Context, assignment *model.Assignment) error {
	if assignment.ID == 0 {
		assignment.ID = m.nextID
		m.nextID++
	}
	m.assignments[assignment.ID] = assignment
	return nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id uint) (*model.Assignment, error) {
	if a, ok := m.assignments[id]; ok {
		return m.hydrate(a), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) Update(_ context.Context, assignment *model.Assignment) error {
	m.assignments[assignment.ID] = assignment
	return nil
}

func (m *mockAssignmentRepo) UpdateState(_ context.Context, id uint, state model.AssignmentState) error {
	a, ok := m.assignments[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.State = state
	return nil
}

func (m *mockAssignmentRepo) Delete(_ context.Context, assignment *model.Assignment) error {
	delete(m.assignments, assignment.ID)
	return nil
}

func (m *mockAssignmentRepo) List(_ context.Context, q repository.ListAssignmentsQuery) ([]model.Assignment, int64, error) {
	var all []model.Assignment
	for _, a := range m.assignments {
		if a.State == model.AssignmentReturned {
			continue
		}
		if q.State != "" && a.State != q.State {
			continue
		}
		if q.AssetID != 0 && a.AssetID != q.AssetID {
			continue
		}
		if q.Location != "" {
			if asset, ok := m.assets.assets[a.AssetID]; ok && asset.Location != q.Location {
				continue
			}
		}
		all = append(all, *m.hydrate(a))
	}
	return paginate(all, q.Offset, q.Limit)
}

func (m *mockAssignmentRepo) ListByAssignee(_ context.Context, assigneeID uint, until time.Time, offset, limit int) ([]model.Assignment, int64, error) {
	var all []model.Assignment
	for _, a := range m.assignments {
		if a.AssignedToID != assigneeID {
			continue
		}
		if a.State == model.AssignmentDeclined || a.State == model.AssignmentReturned {
			continue
		}
		if a.AssignDate.After(until) {
			continue
		}
		all = append(all, *m.hydrate(a))
	}
	return paginate(all, offset, limit)
}

func (m *mockAssignmentRepo) CountActiveByAsset(_ context.Context, assetID uint) (int64, error) {
	var count int64
	for _, a := range m.assignments {
		if a.AssetID == assetID && a.State.IsActive() {
			count++
		}
	}
	return count, nil
}

func (m *mockAssignmentRepo) CountActiveByAssignee(_ context.Context, assigneeID uint) (int64, error) {
	var count int64
	for _, a := range m.assignments {
		if a.AssignedToID == assigneeID && a.State.IsActive() {
			count++
		}
	}
	return count, nil
}

func (m *mockAssignmentRepo) CountByAsset(_ context.Context, assetID uint) (int64, error) {
	var count int64
	for _, a := range m.assignments {
		if a.AssetID == assetID {
			count++
		}
	}
	return count, nil
}

func (m *mockAssignmentRepo) History(_ context.Context, assetID uint, offset, limit int) ([]repository.AssignmentHistoryRow, int64, error) {
	var all []repository.AssignmentHistoryRow
	for _, a := range m.assignments {
		if a.AssetID != assetID {
			continue
		}
		if a.State != model.AssignmentAccepted && a.State != model.AssignmentReturned {
			continue
		}
		m.hydrate(a)
		row := repository.AssignmentHistoryRow{
			AssignmentID: a.ID,
			AssignDate:   a.AssignDate,
			State:        a.State,
		}
		if a.AssignedTo != nil {
			row.AssignedToUsername = a.AssignedTo.Username
		}
		if a.AssignedBy != nil {
			row.AssignedByUsername = a.AssignedBy.Username
		}
		all = append(all, row)
	}
	total := int64(len(all))
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	if offset > len(all) {
		return nil, total, nil
	}
	return all[offset:end], total, nil
}

// ── Mock RequestRepository ──

type mockRequestRepo struct {
	requests    map[uint]*model.Request
	nextID      uint
	assignments *mockAssignmentRepo
	users       *mockUserRepo
}

func newMockRequestRepo(assignments *mockAssignmentRepo, users *mockUserRepo) *mockRequestRepo {
	return &mockRequestRepo{
		requests:    make(map[uint]*model.Request),
		nextID:      1,
		assignments: assignments,
		users:       users,
	}
}

func (m *mockRequestRepo) hydrate(r *model.Request) *model.Request {
	if a, ok := m.assignments.assignments[r.AssignmentID]; ok {
		r.Assignment = m.assignments.hydrate(a)
	}
	if u, ok := m.users.users[r.RequestedByID]; ok {
		r.RequestedBy = u
	}
	if r.AcceptedByID != nil {
		if u, ok := m.users.users[*r.AcceptedByID]; ok {
			r.AcceptedBy = u
		}
	}
	return r
}

func (m *mockRequestRepo) Create(_ context.Context, request *model.Request) error {
	if request.ID == 0 {
		request.ID = m.nextID
		m.nextID++
	}
	m.requests[request.ID] = request
	return nil
}

func (m *mockRequestRepo) GetByID(_ context.Context, id uint) (*model.Request, error) {
	if r, ok := m.requests[id]; ok {
		return m.hydrate(r), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRequestRepo) Update(_ context.Context, request *model.Request) error {
	m.requests[request.ID] = request
	return nil
}

func (m *mockRequestRepo) Delete(_ context.Context, request *model.Request) error {
	delete(m.requests, request.ID)
	return nil
}

func (m *mockRequestRepo) List(_ context.Context, q repository.ListRequestsQuery) ([]model.Request, int64, error) {
	var all []model.Request
	for _, r := range m.requests {
		if q.State != "" && r.State != q.State {
			continue
		}
		m.hydrate(r)
		if q.Location != "" && r.Assignment != nil && r.Assignment.Asset != nil &&
			r.Assignment.Asset.Location != q.Location {
			continue
		}
		all = append(all, *r)
	}
	return paginate(all, q.Offset, q.Limit)
}

func (m *mockRequestRepo) ExistsWaitingByAssignment(_ context.Context, assignmentID uint) (bool, error) {
	for _, r := range m.requests {
		if r.AssignmentID == assignmentID && r.State == model.RequestWaitingForReturning {
			return true, nil
		}
	}
	return false, nil
}

// ── Mock ReportRepository ──

type mockReportRepo struct {
	rows []repository.ReportRow
}

func (m *mockReportRepo) Get(_ context.Context, q repository.ReportQuery) ([]repository.ReportRow, int64, error) {
	total := int64(len(m.rows))
	end := q.Offset + q.Limit
	if end > len(m.rows) {
		end = len(m.rows)
	}
	if q.Offset > len(m.rows) {
		return nil, total, nil
	}
	return m.rows[q.Offset:end], total, nil
}

// ── 组装 ──

// testRepos 聚合所有 mock，并构造无底层连接的 Repository
// （Transaction 在无连接时退化为直接执行，级联逻辑仍被覆盖）
type testRepos struct {
	users       *mockUserRepo
	categories  *mockCategoryRepo
	assets      *mockAssetRepo
	assignments *mockAssignmentRepo
	requests    *mockRequestRepo
	report      *mockReportRepo
	repo        *repository.Repository
}

func newTestRepos() *testRepos {
	users := newMockUserRepo()
	categories := newMockCategoryRepo()
	assets := newMockAssetRepo()
	assignments := newMockAssignmentRepo(assets, users)
	requests := newMockRequestRepo(assignments, users)
	report := &mockReportRepo{}

	return &testRepos{
		users:       users,
		categories:  categories,
		assets:      assets,
		assignments: assignments,
		requests:    requests,
		report:      report,
		repo: &repository.Repository{
			User:       users,
			Category:   categories,
			Asset:      assets,
			Assignment: assignments,
			Request:    requests,
			Report:     report,
		},
	}
}

func paginate[T any](all []T, offset, limit int) ([]T, int64, error) {
	total := int64(len(all))
	if limit <= 0 {
		return all, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	if offset > len(all) {
		return nil, total, nil
	}
	return all[offset:end], total, nil
}
