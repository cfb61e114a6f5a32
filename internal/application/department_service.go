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

// DepartmentService handles department use cases.
type DepartmentService struct {
	departments domain.DepartmentRepository
	logger      *logging.Logger
}

// NewDepartmentService creates a new DepartmentService
func NewDepartmentService(departments domain.DepartmentRepository, logger *logging.Logger) *DepartmentService {
	return &DepartmentService{
		departments: departments,
		logger:      logger,
	}
}

// CreateDepartment creates a new department
func (s *DepartmentService) CreateDepartment(ctx context.Context, cmd CreateDepartmentCommand) (*DepartmentDTO, error) {
	if !cmd.Actor.Role.CanManageDepartments() {
		return nil, apperrors.ErrForbidden("role may not manage departments")
	}

	department, err := domain.NewDepartment(cmd.Name, cmd.Description, cmd.Location, cmd.HeadOfDept)
	if err != nil {
		return nil, apperrors.ErrValidation(err.Error()).Wrap(err)
	}

	if err := s.departments.Create(ctx, department); err != nil {
		if errors.Is(err, domain.ErrDuplicateDepartment) {
			return nil, apperrors.ErrConflict("department name already exists").Wrap(err)
		}
		s.logger.Error("Failed to create department", "name", cmd.Name, "error", err)
		return nil, fmt.Errorf("failed to create department: %w", err)
	}

	s.logger.Info("Created department", "name", department.Name)
	return ToDepartmentDTO(department), nil
}

// UpdateDepartment updates a department's details
func (s *DepartmentService) UpdateDepartment(ctx context.Context, cmd UpdateDepartmentCommand) (*DepartmentDTO, error) {
	if !cmd.Actor.Role.CanManageDepartments() {
		return nil, apperrors.ErrForbidden("role may not manage departments")
	}

	id, err := primitive.ObjectIDFromHex(cmd.DepartmentID)
	if err != nil {
		return nil, apperrors.ErrValidation("invalid department id")
	}

	department, err := s.departments.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to load department", "departmentId", cmd.DepartmentID, "error", err)
		return nil, fmt.Errorf("failed to load department: %w", err)
	}
	if department == nil {
		return nil, apperrors.ErrNotFound("department")
	}

	if err := department.Update(cmd.Name, cmd.Description, cmd.Location, cmd.HeadOfDept); err != nil {
		return nil, apperrors.ErrValidation(err.Error()).Wrap(err)
	}

	if err := s.departments.Update(ctx, department); err != nil {
		s.logger.Error("Failed to update department", "departmentId", cmd.DepartmentID, "error", err)
		return nil, fmt.Errorf("failed to update department: %w", err)
	}

	return ToDepartmentDTO(department), nil
}

// DeleteDepartment removes a department
func (s *DepartmentService) DeleteDepartment(ctx context.Context, cmd DeleteDepartmentCommand) error {
	if !cmd.Actor.Role.CanManageDepartments() {
		return apperrors.ErrForbidden("role may not delete departments")
	}

	id, err := primitive.ObjectIDFromHex(cmd.DepartmentID)
	if err != nil {
		return apperrors.ErrValidation("invalid department id")
	}

	if err := s.departments.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrDepartmentNotFound) {
			return apperrors.ErrNotFound("department").Wrap(err)
		}
		s.logger.Error("Failed to delete department", "departmentId", cmd.DepartmentID, "error", err)
		return fmt.Errorf("failed to delete department: %w", err)
	}

	return nil
}

// GetDepartment retrieves a department by ID
func (s *DepartmentService) GetDepartment(ctx context.Context, departmentID string) (*DepartmentDTO, error) {
	id, err := primitive.ObjectIDFromHex(departmentID)
	if err != nil {
		return nil, apperrors.ErrValidation("invalid department id")
	}

	department, err := s.departments.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get department", "departmentId", departmentID, "error", err)
		return nil, fmt.Errorf("failed to get department: %w", err)
	}
	if department == nil {
		return nil, apperrors.ErrNotFound("department")
	}

	return ToDepartmentDTO(department), nil
}

// ListDepartments retrieves all departments
func (s *DepartmentService) ListDepartments(ctx context.Context) ([]*DepartmentDTO, error) {
	departments, err := s.departments.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list departments", "error", err)
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return ToDepartmentDTOs(departments), nil
}
