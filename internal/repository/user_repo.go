package repository

import (
	"context"

	"gorm.io/gorm"

	"assets-management/internal/model"
)

// ListUsersQuery 用户列表查询条件
type ListUsersQuery struct {
	Location model.Location
	Role     model.Role
	Search   string
	SortBy   string
	SortDir  string
	Offset   int
	Limit    int
}

// UserRepository 用户数据访问接口
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	List(ctx context.Context, q ListUsersQuery) ([]model.User, int64, error)
	Count(ctx context.Context) (int64, error)
	IsUsernameExists(ctx context.Context, username string) (bool, error)
}

// userRepo UserRepository 的 GORM 实现
type userRepo struct {
	db *gorm.DB
}

// NewUserRepo 创建 UserRepository 实例
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepo) List(ctx context.Context, q ListUsersQuery) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	db := r.db.WithContext(ctx).Model(&model.User{}).
		Where("location = ?", q.Location)

	if q.Role != "" {
		db = db.Where("role = ?", q.Role)
	}
	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		db = db.Where(
			"username ILIKE ? OR staff_code ILIKE ? OR (first_name || ' ' || last_name) ILIKE ?",
			pattern, pattern, pattern,
		)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "staff_code ASC"
	if q.SortBy != "" {
		dir := "ASC"
		if q.SortDir == "desc" {
			dir = "DESC"
		}
		// SortBy 已由 DTO 层白名单校验
		order = q.SortBy + " " + dir
	}

	if err := db.Offset(q.Offset).Limit(q.Limit).
		Order(order).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *userRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Count(&total).Error
	return total, err
}

func (r *userRepo) IsUsernameExists(ctx context.Context, username string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("username = ?", username).
		Count(&n).Error
	return n > 0, err
}
