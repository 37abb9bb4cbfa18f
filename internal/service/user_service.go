package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"assets-management/config"
	"assets-management/internal/authz"
	"assets-management/internal/dto"
	"assets-management/internal/model"
	"assets-management/internal/repository"
	"assets-management/pkg/apperr"
	"assets-management/pkg/hash"
)

const dateLayout = "2006-01-02"

// UserService 用户业务接口
// 除 Get/CheckValid 外均为管理员操作，且只能作用于同地点用户
type UserService interface {
	Create(ctx context.Context, actor authz.Actor, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	Update(ctx context.Context, actor authz.Actor, id uint, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	Get(ctx context.Context, id uint) (*dto.UserResponse, error)
	List(ctx context.Context, actor authz.Actor, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
	// Disable 禁用用户（本系统不做物理删除）
	Disable(ctx context.Context, actor authz.Actor, id uint) error
	// CheckValid 用户是否可被禁用（无活跃分配）
	CheckValid(ctx context.Context, id uint) (*dto.IsValidResponse, error)
	// EnsureRootUser 启动引导：配置的 root 管理员不存在时创建
	EnsureRootUser(ctx context.Context) error
}

type userService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{cfg: cfg, repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *userService) Create(ctx context.Context, actor authz.Actor, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	// 1. 地点约束：管理员只能在本地点创建用户
	if !actor.SameLocation(model.Location(req.Location)) {
		return nil, apperr.PermissionDenied("You are not allowed to create a staff in other location")
	}

	// 2. 日期解析与业务校验
	dob, err := time.Parse(dateLayout, req.DateOfBirth)
	if err != nil {
		return nil, apperr.Validation("Invalid date of birth format, expected YYYY-MM-DD")
	}
	joinDate, err := time.Parse(dateLayout, req.JoinDate)
	if err != nil {
		return nil, apperr.Validation("Invalid join date format, expected YYYY-MM-DD")
	}
	if err := validateUserDates(dob, joinDate); err != nil {
		return nil, err
	}

	// 3. 生成用户名、员工编号、初始密码
	username, err := s.generateUsername(ctx, req.FirstName, req.LastName)
	if err != nil {
		return nil, err
	}
	staffCode, err := s.generateStaffCode(ctx)
	if err != nil {
		return nil, err
	}
	// 初始密码格式: username@ddmmyyyy（出生日期）
	digest, err := hash.Password(fmt.Sprintf("%s@%s", username, dob.Format("02012006")))
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		StaffCode:    staffCode,
		Username:     username,
		Password:     digest,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		DateOfBirth:  dob,
		JoinDate:     joinDate,
		Role:         model.Role(req.Role),
		Location:     model.Location(req.Location),
		Status:       model.StatusActive,
		IsFirstLogin: true,
	}
	if req.Gender != nil {
		g := model.Gender(*req.Gender)
		user.Gender = &g
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("用户创建成功",
		zap.Uint("user_id", user.ID),
		zap.String("staff_code", user.StaffCode),
		zap.String("username", user.Username))

	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── Update ──────────────────────

func (s *userService) Update(ctx context.Context, actor authz.Actor, id uint, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.SameLocation(user.Location) {
		return nil, apperr.PermissionDenied("You are not allowed to edit a staff in other location")
	}

	if req.DateOfBirth != nil {
		dob, err := time.Parse(dateLayout, *req.DateOfBirth)
		if err != nil {
			return nil, apperr.Validation("Invalid date of birth format, expected YYYY-MM-DD")
		}
		user.DateOfBirth = dob
	}
	if req.JoinDate != nil {
		joinDate, err := time.Parse(dateLayout, *req.JoinDate)
		if err != nil {
			return nil, apperr.Validation("Invalid join date format, expected YYYY-MM-DD")
		}
		user.JoinDate = joinDate
	}
	if err := validateUserDates(user.DateOfBirth, user.JoinDate); err != nil {
		return nil, err
	}

	if req.Gender != nil {
		g := model.Gender(*req.Gender)
		user.Gender = &g
	}
	if req.Role != nil {
		user.Role = model.Role(*req.Role)
	}
	if req.Location != nil {
		user.Location = model.Location(*req.Location)
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户失败", zap.Uint("user_id", id), zap.Error(err))
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── 查询 ──────────────────────

func (s *userService) Get(ctx context.Context, id uint) (*dto.UserResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) List(ctx context.Context, actor authz.Actor, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	req.Normalize()
	users, total, err := s.repo.User.List(ctx, repository.ListUsersQuery{
		Location: actor.Location,
		Role:     model.Role(req.Role),
		Search:   req.Search,
		SortBy:   req.SortBy,
		SortDir:  req.SortDir,
		Offset:   req.Offset(),
		Limit:    req.Size,
	})
	if err != nil {
		s.logger.Error("查询用户列表失败", zap.Error(err))
		return nil, 0, err
	}

	resp := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, toUserResponse(&users[i]))
	}
	return resp, total, nil
}

// ────────────────────── Disable ──────────────────────

func (s *userService) Disable(ctx context.Context, actor authz.Actor, id uint) error {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return err
	}
	if !actor.SameLocation(user.Location) {
		return apperr.PermissionDenied("You are not allowed to edit a staff in other location")
	}

	// 持有活跃分配的用户不得禁用
	active, err := s.repo.Assignment.CountActiveByAssignee(ctx, id)
	if err != nil {
		s.logger.Error("统计活跃分配失败", zap.Uint("user_id", id), zap.Error(err))
		return err
	}
	if active > 0 {
		return apperr.Business("Cannot disable user. User has one or more valid assignments.")
	}

	user.Status = model.StatusDisabled
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("禁用用户失败", zap.Uint("user_id", id), zap.Error(err))
		return err
	}

	s.logger.Info("用户已禁用", zap.Uint("user_id", id))
	return nil
}

func (s *userService) CheckValid(ctx context.Context, id uint) (*dto.IsValidResponse, error) {
	if _, err := s.getUser(ctx, id); err != nil {
		return nil, err
	}
	active, err := s.repo.Assignment.CountActiveByAssignee(ctx, id)
	if err != nil {
		return nil, err
	}
	if active > 0 {
		return &dto.IsValidResponse{
			IsValid: false,
			Detail:  "Cannot disable user. User has one or more valid assignments.",
		}, nil
	}
	return &dto.IsValidResponse{IsValid: true}, nil
}

// ────────────────────── EnsureRootUser ──────────────────────

func (s *userService) EnsureRootUser(ctx context.Context) error {
	root := s.cfg.Root
	if root.Username == "" || root.Password == "" {
		return errors.New("root 账号未配置: username 与 password 均为必填")
	}

	if _, err := s.repo.User.GetByUsername(ctx, root.Username); err == nil {
		s.logger.Info("root 用户已存在", zap.String("username", root.Username))
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	staffCode, err := s.generateStaffCode(ctx)
	if err != nil {
		return err
	}
	digest, err := hash.Password(root.Password)
	if err != nil {
		return err
	}

	location := model.Location(root.Location)
	if !location.Valid() {
		location = model.LocationHanoi
	}

	now := time.Now()
	user := &model.User{
		StaffCode:    staffCode,
		Username:     root.Username,
		Password:     digest,
		FirstName:    "Root",
		LastName:     "Admin",
		DateOfBirth:  now.AddDate(-30, 0, 0),
		JoinDate:     now,
		Role:         model.RoleAdmin,
		Location:     location,
		Status:       model.StatusActive,
		IsFirstLogin: false,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		return err
	}

	s.logger.Info("root 用户创建成功", zap.String("username", root.Username))
	return nil
}

// ────────────────────── 内部工具 ──────────────────────

func (s *userService) getUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("User with id %d not found", id)
		}
		s.logger.Error("查询用户失败", zap.Uint("user_id", id), zap.Error(err))
		return nil, err
	}
	return user, nil
}

// generateUsername 名的首个单词 + 姓各单词首字母，全小写；冲突时追加数字后缀
// 例: "An" + "Nguyen Van" → annv；再次冲突 → annv1, annv2, ...
func (s *userService) generateUsername(ctx context.Context, firstName, lastName string) (string, error) {
	firstWords := strings.Fields(firstName)
	if len(firstWords) == 0 {
		return "", apperr.Validation("First name must not be blank")
	}

	var b strings.Builder
	b.WriteString(strings.ToLower(firstWords[0]))
	for _, word := range strings.Fields(lastName) {
		b.WriteString(strings.ToLower(word[:1]))
	}
	base := b.String()

	username := base
	for suffix := 1; ; suffix++ {
		exists, err := s.repo.User.IsUsernameExists(ctx, username)
		if err != nil {
			return "", err
		}
		if !exists {
			return username, nil
		}
		username = fmt.Sprintf("%s%d", base, suffix)
	}
}

// generateStaffCode 员工编号 SD + 4 位序号（按现有用户数 +1）
func (s *userService) generateStaffCode(ctx context.Context) (string, error) {
	count, err := s.repo.User.Count(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("SD%04d", count+1), nil
}

// validateUserDates 出生日期与入职日期的领域校验
func validateUserDates(dob, joinDate time.Time) error {
	now := time.Now()
	if dob.After(now) {
		return apperr.Validation("Date of birth cannot be in the future")
	}
	if dob.AddDate(18, 0, 0).After(now) {
		return apperr.Validation("User must be at least 18 years old")
	}
	if joinDate.Before(dob) {
		return apperr.Validation("Join date cannot be before date of birth")
	}
	if wd := joinDate.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return apperr.Validation("Joined date is Saturday or Sunday. Please select a different date")
	}
	return nil
}

// toUserResponse 模型到响应 DTO 的转换（脱敏）
func toUserResponse(user *model.User) dto.UserResponse {
	resp := dto.UserResponse{
		ID:           user.ID,
		StaffCode:    user.StaffCode,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		DateOfBirth:  user.DateOfBirth.Format(dateLayout),
		JoinDate:     user.JoinDate.Format(dateLayout),
		Role:         string(user.Role),
		Location:     string(user.Location),
		Status:       string(user.Status),
		IsFirstLogin: user.IsFirstLogin,
	}
	if user.Gender != nil {
		g := string(*user.Gender)
		resp.Gender = &g
	}
	return resp
}
