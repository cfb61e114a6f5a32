package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ItemRepository persists items. Mutating calls that take a Transaction must
// write the item and the ledger entry atomically, or fail both.
type ItemRepository interface {
	// Create inserts a new item and its initial ledger entry in one storage
	// transaction. Returns ErrDuplicateSKU when the sku is taken.
	Create(ctx context.Context, item *Item, txn *Transaction) error

	// Update writes the item guarded by its version and, when txn is non-nil,
	// inserts the ledger entry in the same storage transaction. Returns
	// ErrStaleItem when the stored version has moved on.
	Update(ctx context.Context, item *Item, txn *Transaction) error

	// Delete removes the item by id. Ledger entries are retained.
	Delete(ctx context.Context, id primitive.ObjectID) error

	FindByID(ctx context.Context, id primitive.ObjectID) (*Item, error)
	FindBySKU(ctx context.Context, sku string) (*Item, error)
	FindAll(ctx context.Context) ([]*Item, error)

	// FindPage returns one page of items sorted by name together with the
	// total item count.
	FindPage(ctx context.Context, offset, limit int64) ([]*Item, int64, error)

	FindLowStock(ctx context.Context) ([]*Item, error)
	FindExpiringBefore(ctx context.Context, cutoff time.Time) ([]*Item, error)
	FindByStatus(ctx context.Context, status Status) ([]*Item, error)
	FindByDepartment(ctx context.Context, departmentID string) ([]*Item, error)
}

// TransactionRepository reads the append-only ledger. Inserts happen through
// ItemRepository so they share the item's storage transaction; the ledger has
// no update or delete.
type TransactionRepository interface {
	FindByItem(ctx context.Context, itemID primitive.ObjectID) ([]*Transaction, error)
	// FindInRange returns entries between the optional bounds, newest first.
	// A nil bound leaves that side open.
	FindInRange(ctx context.Context, from, to *time.Time) ([]*Transaction, error)
}

// CategoryRepository persists item categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Category, error)
	FindAll(ctx context.Context) ([]*Category, error)
}

// DepartmentRepository persists hospital departments.
type DepartmentRepository interface {
	Create(ctx context.Context, department *Department) error
	Update(ctx context.Context, department *Department) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Department, error)
	FindAll(ctx context.Context) ([]*Department, error)
}

// UserRepository persists user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindAll(ctx context.Context) ([]*User, error)
}
