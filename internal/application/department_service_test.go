package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/his-platform/inventory-service/internal/domain"
	"github.com/his-platform/inventory-service/pkg/logging"
)

type fakeDepartmentRepo struct {
	departments map[string]*domain.Department
}

func (f *fakeDepartmentRepo) Create(ctx context.Context, department *domain.Department) error {
	if f.departments == nil {
		f.departments = make(map[string]*domain.Department)
	}
	for _, existing := range f.departments {
		if existing.Name == department.Name {
			return domain.ErrDuplicateDepartment
		}
	}
	if department.ID.IsZero() {
		department.ID = primitive.NewObjectID()
	}
	f.departments[department.ID.Hex()] = department
	return nil
}

func (f *fakeDepartmentRepo) Update(ctx context.Context, department *domain.Department) error {
	if _, ok := f.departments[department.ID.Hex()]; !ok {
		return domain.ErrDepartmentNotFound
	}
	f.departments[department.ID.Hex()] = department
	return nil
}

func (f *fakeDepartmentRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := f.departments[id.Hex()]; !ok {
		return domain.ErrDepartmentNotFound
	}
	delete(f.departments, id.Hex())
	return nil
}

func (f *fakeDepartmentRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Department, error) {
	return f.departments[id.Hex()], nil
}

func (f *fakeDepartmentRepo) FindAll(ctx context.Context) ([]*domain.Department, error) {
	results := make([]*domain.Department, 0, len(f.departments))
	for _, department := range f.departments {
		results = append(results, department)
	}
	return results, nil
}

func newTestDepartmentService(repo *fakeDepartmentRepo) *DepartmentService {
	logger := logging.New(logging.DefaultConfig("test"))
	return NewDepartmentService(repo, logger)
}

func adminActor() Actor {
	return Actor{UserID: "user-3", Role: domain.RoleAdmin}
}

func TestCreateDepartment(t *testing.T) {
	svc := newTestDepartmentService(&fakeDepartmentRepo{})

	dto, err := svc.CreateDepartment(context.Background(), CreateDepartmentCommand{
		Actor:      adminActor(),
		Name:       "Pharmacy",
		Location:   "Building A",
		HeadOfDept: "Dr. Osei",
	})
	require.NoError(t, err)
	assert.Equal(t, "Pharmacy", dto.Name)
	assert.Equal(t, "Building A", dto.Location)
}

func TestCreateDepartment_DuplicateName(t *testing.T) {
	svc := newTestDepartmentService(&fakeDepartmentRepo{})

	cmd := CreateDepartmentCommand{Actor: adminActor(), Name: "Pharmacy"}
	_, err := svc.CreateDepartment(context.Background(), cmd)
	require.NoError(t, err)

	_, err = svc.CreateDepartment(context.Background(), cmd)
	require.Error(t, err)
	assertAppErrorCode(t, err, "CONFLICT")
}

func TestCreateDepartment_ManagerForbidden(t *testing.T) {
	svc := newTestDepartmentService(&fakeDepartmentRepo{})

	_, err := svc.CreateDepartment(context.Background(), CreateDepartmentCommand{
		Actor: managerActor(),
		Name:  "Pharmacy",
	})
	require.Error(t, err)
	assertAppErrorCode(t, err, "FORBIDDEN")
}

func TestUpdateDepartment(t *testing.T) {
	svc := newTestDepartmentService(&fakeDepartmentRepo{})

	created, err := svc.CreateDepartment(context.Background(), CreateDepartmentCommand{
		Actor: adminActor(),
		Name:  "Pharmacy",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateDepartment(context.Background(), UpdateDepartmentCommand{
		Actor:        adminActor(),
		DepartmentID: created.ID,
		Name:         "Central Pharmacy",
		Location:     "Building B",
	})
	require.NoError(t, err)
	assert.Equal(t, "Central Pharmacy", updated.Name)
	assert.Equal(t, "Building B", updated.Location)
}

func TestUpdateDepartment_NotFound(t *testing.T) {
	svc := newTestDepartmentService(&fakeDepartmentRepo{})

	_, err := svc.UpdateDepartment(context.Background(), UpdateDepartmentCommand{
		Actor:        adminActor(),
		DepartmentID: primitive.NewObjectID().Hex(),
		Name:         "Pharmacy",
	})
	require.Error(t, err)
	assertAppErrorCode(t, err, "RESOURCE_NOT_FOUND")
}

func TestDeleteDepartment_ManagerForbidden(t *testing.T) {
	svc := newTestDepartmentService(&fakeDepartmentRepo{})

	err := svc.DeleteDepartment(context.Background(), DeleteDepartmentCommand{
		Actor:        managerActor(),
		DepartmentID: primitive.NewObjectID().Hex(),
	})
	require.Error(t, err)
	assertAppErrorCode(t, err, "FORBIDDEN")
}
