package application

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/his-platform/inventory-service/pkg/errors"
	"github.com/his-platform/inventory-service/pkg/logging"

	"github.com/his-platform/inventory-service/internal/domain"
)

// CategoryService handles category use cases.
type CategoryService struct {
	categories domain.CategoryRepository
	logger     *logging.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categories domain.CategoryRepository, logger *logging.Logger) *CategoryService {
	return &CategoryService{
		categories: categories,
		logger:     logger,
	}
}

// CreateCategory creates a new category
func (s *CategoryService) CreateCategory(ctx context.Context, cmd CreateCategoryCommand) (*CategoryDTO, error) {
	if !cmd.Actor.Role.CanMutateInventory() {
		return nil, apperrors.ErrForbidden("role may not manage categories")
	}

	category, err := domain.NewCategory(cmd.Name, cmd.Description)
	if err != nil {
		return nil, apperrors.ErrValidation(err.Error()).Wrap(err)
	}

	if err := s.categories.Create(ctx, category); err != nil {
		if errors.Is(err, domain.ErrDuplicateCategory) {
			return nil, apperrors.ErrConflict("category name already exists").Wrap(err)
		}
		s.logger.Error("Failed to create category", "name", cmd.Name, "error", err)
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.logger.Info("Created category", "name", category.Name)
	return ToCategoryDTO(category), nil
}

// UpdateCategory renames a category
func (s *CategoryService) UpdateCategory(ctx context.Context, cmd UpdateCategoryCommand) (*CategoryDTO, error) {
	if !cmd.Actor.Role.CanMutateInventory() {
		return nil, apperrors.ErrForbidden("role may not manage categories")
	}

	id, err := primitive.ObjectIDFromHex(cmd.CategoryID)
	if err != nil {
		return nil, apperrors.ErrValidation("invalid category id")
	}

	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to load category", "categoryId", cmd.CategoryID, "error", err)
		return nil, fmt.Errorf("failed to load category: %w", err)
	}
	if category == nil {
		return nil, apperrors.ErrNotFound("category")
	}

	if err := category.Rename(cmd.Name, cmd.Description); err != nil {
		return nil, apperrors.ErrValidation(err.Error()).Wrap(err)
	}

	if err := s.categories.Update(ctx, category); err != nil {
		if errors.Is(err, domain.ErrDuplicateCategory) {
			return nil, apperrors.ErrConflict("category name already exists").Wrap(err)
		}
		s.logger.Error("Failed to update category", "categoryId", cmd.CategoryID, "error", err)
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return ToCategoryDTO(category), nil
}

// DeleteCategory removes a category
func (s *CategoryService) DeleteCategory(ctx context.Context, cmd DeleteCategoryCommand) error {
	if !cmd.Actor.Role.CanDeleteItems() {
		return apperrors.ErrForbidden("role may not delete categories")
	}

	id, err := primitive.ObjectIDFromHex(cmd.CategoryID)
	if err != nil {
		return apperrors.ErrValidation("invalid category id")
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return apperrors.ErrNotFound("category").Wrap(err)
		}
		s.logger.Error("Failed to delete category", "categoryId", cmd.CategoryID, "error", err)
		return fmt.Errorf("failed to delete category: %w", err)
	}

	return nil
}

// GetCategory retrieves a category by ID
func (s *CategoryService) GetCategory(ctx context.Context, categoryID string) (*CategoryDTO, error) {
	id, err := primitive.ObjectIDFromHex(categoryID)
	if err != nil {
		return nil, apperrors.ErrValidation("invalid category id")
	}

	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get category", "categoryId", categoryID, "error", err)
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	if category == nil {
		return nil, apperrors.ErrNotFound("category")
	}

	return ToCategoryDTO(category), nil
}

// ListCategories retrieves all categories
func (s *CategoryService) ListCategories(ctx context.Context) ([]*CategoryDTO, error) {
	categories, err := s.categories.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list categories", "error", err)
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return ToCategoryDTOs(categories), nil
}
