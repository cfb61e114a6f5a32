package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/his-platform/inventory-service/internal/domain"
)

const departmentsCollection = "departments"

// DepartmentRepository persists departments in MongoDB.
type DepartmentRepository struct {
	departments *mongo.Collection
}

// NewDepartmentRepository creates a DepartmentRepository and ensures its indexes.
func NewDepartmentRepository(db *mongo.Database) *DepartmentRepository {
	repo := &DepartmentRepository{
		departments: db.Collection(departmentsCollection),
	}
	repo.departments.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return repo
}

// Create inserts a department. Returns ErrDuplicateDepartment when the name is taken.
func (r *DepartmentRepository) Create(ctx context.Context, department *domain.Department) error {
	if department.ID.IsZero() {
		department.ID = primitive.NewObjectID()
	}
	if _, err := r.departments.InsertOne(ctx, department); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateDepartment
		}
		return fmt.Errorf("failed to insert department: %w", err)
	}
	return nil
}

// Update replaces a department document.
func (r *DepartmentRepository) Update(ctx context.Context, department *domain.Department) error {
	result, err := r.departments.ReplaceOne(ctx, bson.M{"_id": department.ID}, department)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateDepartment
		}
		return fmt.Errorf("failed to update department: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrDepartmentNotFound
	}
	return nil
}

// Delete removes a department by id.
func (r *DepartmentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.departments.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete department: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrDepartmentNotFound
	}
	return nil
}

// FindByID returns the department or nil when it does not exist.
func (r *DepartmentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Department, error) {
	var department domain.Department
	err := r.departments.FindOne(ctx, bson.M{"_id": id}).Decode(&department)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &department, nil
}

// FindAll returns all departments ordered by name.
func (r *DepartmentRepository) FindAll(ctx context.Context) ([]*domain.Department, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.departments.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var departments []*domain.Department
	err = cursor.All(ctx, &departments)
	return departments, err
}
