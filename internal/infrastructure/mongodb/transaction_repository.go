package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/his-platform/inventory-service/internal/domain"
)

// TransactionRepository reads the ledger. Writes go through ItemRepository so
// every entry commits in the same transaction as the item change it records.
type TransactionRepository struct {
	transactions *mongo.Collection
}

// NewTransactionRepository creates a TransactionRepository.
func NewTransactionRepository(db *mongo.Database) *TransactionRepository {
	return &TransactionRepository{
		transactions: db.Collection(transactionsCollection),
	}
}

// FindByItem returns all ledger entries for one item, newest first.
func (r *TransactionRepository) FindByItem(ctx context.Context, itemID primitive.ObjectID) ([]*domain.Transaction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.transactions.Find(ctx, bson.M{"itemId": itemID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var txns []*domain.Transaction
	err = cursor.All(ctx, &txns)
	return txns, err
}

// FindInRange returns entries between the optional bounds, newest first.
func (r *TransactionRepository) FindInRange(ctx context.Context, from, to *time.Time) ([]*domain.Transaction, error) {
	filter := bson.M{}
	createdAt := bson.M{}
	if from != nil {
		createdAt["$gte"] = *from
	}
	if to != nil {
		createdAt["$lte"] = *to
	}
	if len(createdAt) > 0 {
		filter["createdAt"] = createdAt
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.transactions.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var txns []*domain.Transaction
	err = cursor.All(ctx, &txns)
	return txns, err
}
