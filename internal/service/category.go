package service

import (
	"context"
	"strings"

	"github.com/evently-labs/event-booking-api/internal/model"
	"github.com/evently-labs/event-booking-api/internal/repository"
)

// CategoryService orchestrates catalog operations on categories.
type CategoryService struct {
	categories *repository.CategoryRepository
}

// NewCategoryService constructs a CategoryService.
func NewCategoryService(categories *repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

// CreateCategory validates the request and delegates to the repository.
func (s *CategoryService) CreateCategory(ctx context.Context, req model.CreateCategoryRequest) (*model.Category, error) {
	req.Name = strings.TrimSpace(req.Name)
	return s.categories.Create(ctx, req)
}

// ListCategories returns all categories.
func (s *CategoryService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.categories.List(ctx)
}

// GetCategory returns a single category by ID.
func (s *CategoryService) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	if id == "" {
		return nil, repository.ErrNotFound
	}
	return s.categories.GetByID(ctx, id)
}

// UpdateCategory replaces a category's fields.
func (s *CategoryService) UpdateCategory(ctx context.Context, id string, req model.UpdateCategoryRequest) (*model.Category, error) {
	req.Name = strings.TrimSpace(req.Name)
	return s.categories.Update(ctx, id, req)
}

// DeleteCategory removes a category.
func (s *CategoryService) DeleteCategory(ctx context.Context, id string) error {
	if id == "" {
		return repository.ErrNotFound
	}
	return s.categories.Delete(ctx, id)
}
