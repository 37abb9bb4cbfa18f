package service

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"assets-management/internal/dto"
	"assets-management/internal/model"
	"assets-management/internal/repository"
	"assets-management/pkg/apperr"
)

// CategoryService 类别业务接口
type CategoryService interface {
	Create(ctx context.Context, req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	Get(ctx context.Context, id uint) (*dto.CategoryResponse, error)
	List(ctx context.Context) ([]dto.CategoryResponse, error)
}

type categoryService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCategoryService 创建 CategoryService 实例
func NewCategoryService(repo *repository.Repository, logger *zap.Logger) CategoryService {
	return &categoryService{repo: repo, logger: logger}
}

func (s *categoryService) Create(ctx context.Context, req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(req.CategoryName)
	if name == "" {
		return nil, apperr.Validation("Category name must not be blank")
	}

	// 前缀缺省时按类别名推导
	prefix := strings.TrimSpace(req.Prefix)
	if prefix == "" {
		prefix = derivePrefix(name)
	}
	prefix = strings.ToUpper(prefix)
	if !isLettersOnly(prefix) {
		return nil, apperr.Validation("Prefix must contain only letters (A-Z, a-z)")
	}

	// 重名与重前缀分别报不同错误
	nameExists, err := s.repo.Category.IsNameExists(ctx, name)
	if err != nil {
		s.logger.Error("查询类别名失败", zap.Error(err))
		return nil, err
	}
	prefixExists, err := s.repo.Category.IsPrefixExists(ctx, prefix)
	if err != nil {
		s.logger.Error("查询类别前缀失败", zap.Error(err))
		return nil, err
	}
	switch {
	case nameExists && prefixExists:
		return nil, apperr.Business("Category and Prefix are already existed. Please enter different values")
	case nameExists:
		return nil, apperr.Business("Category is already existed. Please enter a different category")
	case prefixExists:
		return nil, apperr.Business("Prefix is already existed. Please enter a different prefix")
	}

	category := &model.Category{
		CategoryName: name,
		Prefix:       prefix,
		IDCounter:    0,
	}
	if err := s.repo.Category.Create(ctx, category); err != nil {
		s.logger.Error("创建类别失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("类别创建成功",
		zap.Uint("category_id", category.ID),
		zap.String("prefix", category.Prefix))

	resp := toCategoryResponse(category)
	return &resp, nil
}

func (s *categoryService) Get(ctx context.Context, id uint) (*dto.CategoryResponse, error) {
	category, err := s.repo.Category.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Category with ID %d not found", id)
		}
		s.logger.Error("查询类别失败", zap.Uint("category_id", id), zap.Error(err))
		return nil, err
	}
	resp := toCategoryResponse(category)
	return &resp, nil
}

func (s *categoryService) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.repo.Category.List(ctx)
	if err != nil {
		s.logger.Error("查询类别列表失败", zap.Error(err))
		return nil, err
	}
	resp := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		resp = append(resp, toCategoryResponse(&categories[i]))
	}
	return resp, nil
}

// derivePrefix 按类别名推导前缀：
// 两个以上单词取前两个单词的首字母，单个单词取前两个字母，统一大写
func derivePrefix(name string) string {
	words := strings.Fields(name)
	if len(words) >= 2 {
		return strings.ToUpper(words[0][:1] + words[1][:1])
	}
	word := words[0]
	if len(word) < 2 {
		return strings.ToUpper(word)
	}
	return strings.ToUpper(word[:2])
}

func isLettersOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) || r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

func toCategoryResponse(category *model.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:           category.ID,
		CategoryName: category.CategoryName,
		Prefix:       category.Prefix,
		IDCounter:    category.IDCounter,
	}
}
