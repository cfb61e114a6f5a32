package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/his-platform/inventory-service/internal/domain"
)

const (
	itemsCollection        = "items"
	transactionsCollection = "transactions"
)

// ItemRepository persists items in MongoDB. Mutations that carry a ledger
// entry run inside a session transaction so the item and its entry commit
// together or not at all.
type ItemRepository struct {
	items        *mongo.Collection
	transactions *mongo.Collection
	db           *mongo.Database
}

// NewItemRepository creates an ItemRepository and ensures its indexes.
func NewItemRepository(db *mongo.Database) *ItemRepository {
	repo := &ItemRepository{
		items:        db.Collection(itemsCollection),
		transactions: db.Collection(transactionsCollection),
		db:           db,
	}
	repo.ensureIndexes(context.Background())
	return repo
}

func (r *ItemRepository) ensureIndexes(ctx context.Context) {
	itemIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "sku", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "categoryId", Value: 1}}},
		{Keys: bson.D{{Key: "expiryDate", Value: 1}}},
	}
	r.items.Indexes().CreateMany(ctx, itemIndexes)

	txnIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "itemId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}
	r.transactions.Indexes().CreateMany(ctx, txnIndexes)
}

// Create inserts a new item with version 1 and, when present, its opening
// ledger entry in the same transaction.
func (r *ItemRepository) Create(ctx context.Context, item *domain.Item, txn *domain.Transaction) error {
	item.Version = 1

	err := r.withTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if _, err := r.items.InsertOne(sessCtx, item); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return domain.ErrDuplicateSKU
			}
			return fmt.Errorf("failed to insert item: %w", err)
		}

		if txn != nil {
			if _, err := r.transactions.InsertOne(sessCtx, txn); err != nil {
				return fmt.Errorf("failed to insert transaction: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	return nil
}

// Update replaces the item guarded by its version and inserts the ledger
// entry, if any, in the same transaction. The stored version must match the
// version the caller loaded; otherwise the write is rejected as stale.
func (r *ItemRepository) Update(ctx context.Context, item *domain.Item, txn *domain.Transaction) error {
	loadedVersion := item.Version
	item.Version = loadedVersion + 1

	err := r.withTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		filter := bson.M{"_id": item.ID, "version": loadedVersion}
		result, err := r.items.ReplaceOne(sessCtx, filter, item)
		if err != nil {
			return fmt.Errorf("failed to update item: %w", err)
		}
		if result.MatchedCount == 0 {
			// Distinguish a vanished item from a lost version race.
			count, err := r.items.CountDocuments(sessCtx, bson.M{"_id": item.ID})
			if err != nil {
				return fmt.Errorf("failed to check item existence: %w", err)
			}
			if count == 0 {
				return domain.ErrItemNotFound
			}
			return domain.ErrStaleItem
		}

		if txn != nil {
			if _, err := r.transactions.InsertOne(sessCtx, txn); err != nil {
				return fmt.Errorf("failed to insert transaction: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		item.Version = loadedVersion
		return err
	}

	return nil
}

// Delete removes the item document. Ledger entries are never deleted.
func (r *ItemRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.items.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// FindByID returns the item or nil when it does not exist.
func (r *ItemRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Item, error) {
	var item domain.Item
	err := r.items.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindBySKU returns the item or nil when it does not exist.
func (r *ItemRepository) FindBySKU(ctx context.Context, sku string) (*domain.Item, error) {
	var item domain.Item
	err := r.items.FindOne(ctx, bson.M{"sku": sku}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindAll returns all items ordered by name.
func (r *ItemRepository) FindAll(ctx context.Context) ([]*domain.Item, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.items.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []*domain.Item
	err = cursor.All(ctx, &items)
	return items, err
}

// FindPage returns one page of items ordered by name plus the total count.
func (r *ItemRepository) FindPage(ctx context.Context, offset, limit int64) ([]*domain.Item, int64, error) {
	total, err := r.items.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(offset).
		SetLimit(limit)
	cursor, err := r.items.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var items []*domain.Item
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// FindLowStock returns items whose stored status is low or out of stock.
func (r *ItemRepository) FindLowStock(ctx context.Context) ([]*domain.Item, error) {
	filter := bson.M{"status": bson.M{"$in": bson.A{domain.StatusLow, domain.StatusOutOfStock}}}
	cursor, err := r.items.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []*domain.Item
	err = cursor.All(ctx, &items)
	return items, err
}

// FindExpiringBefore returns items whose expiry date is on or before the
// cutoff. Items without an expiry date never match.
func (r *ItemRepository) FindExpiringBefore(ctx context.Context, cutoff time.Time) ([]*domain.Item, error) {
	filter := bson.M{"expiryDate": bson.M{"$ne": nil, "$lte": cutoff}}
	opts := options.Find().SetSort(bson.D{{Key: "expiryDate", Value: 1}})
	cursor, err := r.items.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []*domain.Item
	err = cursor.All(ctx, &items)
	return items, err
}

// FindByStatus returns items whose stored status matches, sorted by name.
func (r *ItemRepository) FindByStatus(ctx context.Context, status domain.Status) ([]*domain.Item, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.items.Find(ctx, bson.M{"status": status}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []*domain.Item
	err = cursor.All(ctx, &items)
	return items, err
}

// FindByDepartment returns items assigned to the department, sorted by name.
func (r *ItemRepository) FindByDepartment(ctx context.Context, departmentID string) ([]*domain.Item, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.items.Find(ctx, bson.M{"departmentId": departmentID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []*domain.Item
	err = cursor.All(ctx, &items)
	return items, err
}

func (r *ItemRepository) withTransaction(ctx context.Context, fn func(mongo.SessionContext) error) error {
	session, err := r.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})
	return err
}
