package application

import (
	"time"

	"github.com/his-platform/inventory-service/internal/domain"
)

// Actor identifies the authenticated user performing an operation. The role
// gates mutations; handlers fill it from the verified access token.
type Actor struct {
	UserID string
	Role   domain.Role
}

// SupplierInput carries supplier details on item commands.
type SupplierInput struct {
	Name          string
	ContactPerson string
	Email         string
	Phone         string
}

// CreateItemCommand represents the command to create a new inventory item
type CreateItemCommand struct {
	Actor        Actor
	SKU          string
	Name         string
	Description  string
	CategoryID   string
	DepartmentID string
	Unit         string
	Quantity     int
	MinimumLevel *int
	ReorderLevel *int
	Cost         *float64
	Location     string
	ExpiryDate   *time.Time
	Supplier     *SupplierInput
	Notes        string
}

// UpdateItemCommand represents the command to patch an existing item. Nil
// fields are left unchanged; SKU cannot be updated.
type UpdateItemCommand struct {
	Actor        Actor
	ItemID       string
	Name         *string
	Description  *string
	CategoryID   *string
	DepartmentID *string
	Unit         *string
	Quantity     *int
	MinimumLevel *int
	ReorderLevel *int
	Cost         *float64
	Location     *string
	ExpiryDate   *time.Time
	Supplier     *SupplierInput
	ApprovedBy   string
	Notes        string
}

// DeleteItemCommand represents the command to remove an item
type DeleteItemCommand struct {
	Actor  Actor
	ItemID string
}

// GetItemQuery represents the query to get an item by ID
type GetItemQuery struct {
	ItemID string
}

// ListItemsQuery represents the query for one page of items
type ListItemsQuery struct {
	Offset int64
	Limit  int64
}

// ItemTransactionsQuery represents the query for one item's ledger history
type ItemTransactionsQuery struct {
	ItemID string
}

// ExpiringItemsQuery asks for items expiring within the given horizon.
// Days of zero falls back to the default horizon.
type ExpiringItemsQuery struct {
	Days int
}

// TransactionsInRangeQuery asks for ledger entries between optional bounds.
type TransactionsInRangeQuery struct {
	From *time.Time
	To   *time.Time
}

// CreateCategoryCommand represents the command to create a category
type CreateCategoryCommand struct {
	Actor       Actor
	Name        string
	Description string
}

// UpdateCategoryCommand represents the command to rename a category
type UpdateCategoryCommand struct {
	Actor       Actor
	CategoryID  string
	Name        string
	Description string
}

// DeleteCategoryCommand represents the command to remove a category
type DeleteCategoryCommand struct {
	Actor      Actor
	CategoryID string
}

// CreateDepartmentCommand represents the command to create a department
type CreateDepartmentCommand struct {
	Actor       Actor
	Name        string
	Description string
	Location    string
	HeadOfDept  string
}

// UpdateDepartmentCommand represents the command to update a department
type UpdateDepartmentCommand struct {
	Actor        Actor
	DepartmentID string
	Name         string
	Description  string
	Location     string
	HeadOfDept   string
}

// DeleteDepartmentCommand represents the command to remove a department
type DeleteDepartmentCommand struct {
	Actor        Actor
	DepartmentID string
}

// RegisterCommand represents the command to register a user account
type RegisterCommand struct {
	Username     string
	Email        string
	Password     string
	FullName     string
	Role         domain.Role
	DepartmentID string
}

// LoginCommand represents the command to authenticate a user
type LoginCommand struct {
	Username string
	Password string
}
