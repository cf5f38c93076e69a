package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/calzado-next/internal/models"
	"github.com/calzado-next/internal/repository"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// CategoryService 分类管理
type CategoryService struct {
	repo repository.CategoryRepository
}

// NewCategoryService 创建分类服务
func NewCategoryService(repo repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// CategoryInput 创建/更新分类输入
type CategoryInput struct {
	Name      string
	Slug      string
	Active    *bool
	SortOrder int
}

// List 分类列表
func (s *CategoryService) List(ctx context.Context, onlyActive bool) ([]models.Category, error) {
	categories, err := s.repo.List(ctx, onlyActive)
	if err != nil {
		return nil, internalError("category_list", err)
	}
	return categories, nil
}

// Get 获取分类
func (s *CategoryService) Get(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internalError("category_get", err)
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

// Create 创建分类
func (s *CategoryService) Create(ctx context.Context, input CategoryInput) (*models.Category, error) {
	name, slug, err := s.normalize(ctx, input, 0)
	if err != nil {
		return nil, err
	}
	category := &models.Category{
		Name:      name,
		Slug:      slug,
		Active:    true,
		SortOrder: input.SortOrder,
	}
	if input.Active != nil {
		category.Active = *input.Active
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, internalError("category_create", err)
	}
	return category, nil
}

// Update 更新分类
func (s *CategoryService) Update(ctx context.Context, id uint, input CategoryInput) (*models.Category, error) {
	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	name, slug, err := s.normalize(ctx, input, id)
	if err != nil {
		return nil, err
	}
	category.Name = name
	category.Slug = slug
	category.SortOrder = input.SortOrder
	if input.Active != nil {
		category.Active = *input.Active
	}
	if err := s.repo.Update(ctx, category); err != nil {
		return nil, internalError("category_update", err)
	}
	return category, nil
}

// Deactivate 停用分类（商品保留）
func (s *CategoryService) Deactivate(ctx context.Context, id uint) error {
	affected, err := s.repo.SetActive(ctx, id, false)
	if err != nil {
		return internalError("category_deactivate", err)
	}
	if affected == 0 {
		if _, err := s.Get(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *CategoryService) normalize(ctx context.Context, input CategoryInput, excludeID uint) (string, string, error) {
	name := strings.TrimSpace(input.Name)
	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	if name == "" || !slugPattern.MatchString(slug) {
		return "", "", ErrCategoryInvalid
	}
	count, err := s.repo.CountBySlug(ctx, slug, excludeID)
	if err != nil {
		return "", "", internalError("category_slug", err)
	}
	if count > 0 {
		return "", "", ErrSlugExists
	}
	return name, slug, nil
}
