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

const categoriesCollection = "categories"

// CategoryRepository persists categories in MongoDB.
type CategoryRepository struct {
	categories *mongo.Collection
}

// NewCategoryRepository creates a CategoryRepository and ensures its indexes.
func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	repo := &CategoryRepository{
		categories: db.Collection(categoriesCollection),
	}
	repo.categories.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return repo
}

// Create inserts a category. Returns ErrDuplicateCategory when the name is taken.
func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	if category.ID.IsZero() {
		category.ID = primitive.NewObjectID()
	}
	if _, err := r.categories.InsertOne(ctx, category); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateCategory
		}
		return fmt.Errorf("failed to insert category: %w", err)
	}
	return nil
}

// Update replaces a category document.
func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	result, err := r.categories.ReplaceOne(ctx, bson.M{"_id": category.ID}, category)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateCategory
		}
		return fmt.Errorf("failed to update category: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

// Delete removes a category by id.
func (r *CategoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.categories.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

// FindByID returns the category or nil when it does not exist.
func (r *CategoryRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Category, error) {
	var category domain.Category
	err := r.categories.FindOne(ctx, bson.M{"_id": id}).Decode(&category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// FindAll returns all categories ordered by name.
func (r *CategoryRepository) FindAll(ctx context.Context) ([]*domain.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.categories.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var categories []*domain.Category
	err = cursor.All(ctx, &categories)
	return categories, err
}
