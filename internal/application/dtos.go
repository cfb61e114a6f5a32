package application

import "time"

// ItemDTO represents an inventory item in responses
type ItemDTO struct {
	ID           string       `json:"id"`
	SKU          string       `json:"sku"`
	Name         string       `json:"name"`
	Description  string       `json:"description,omitempty"`
	CategoryID   string       `json:"categoryId"`
	DepartmentID string       `json:"departmentId,omitempty"`
	Unit         string       `json:"unit"`
	Quantity     int          `json:"quantity"`
	MinimumLevel int          `json:"minimumLevel"`
	ReorderLevel int          `json:"reorderLevel"`
	Cost         float64      `json:"cost"`
	TotalValue   float64      `json:"totalValue"`
	Location     string       `json:"location,omitempty"`
	ExpiryDate   *time.Time   `json:"expiryDate,omitempty"`
	Supplier     *SupplierDTO `json:"supplier,omitempty"`
	Status       string       `json:"status"`
	Version      int64        `json:"version"`
	LastUpdated  time.Time    `json:"lastUpdated"`
	UpdatedBy    string       `json:"updatedBy,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// SupplierDTO represents supplier details in responses
type SupplierDTO struct {
	Name          string `json:"name,omitempty"`
	ContactPerson string `json:"contactPerson,omitempty"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
}

// TransactionDTO represents a ledger entry in responses
type TransactionDTO struct {
	ID               string    `json:"id"`
	ItemID           string    `json:"itemId"`
	SKU              string    `json:"sku"`
	Type             string    `json:"type"`
	Quantity         int       `json:"quantity"`
	PreviousQuantity int       `json:"previousQuantity"`
	NewQuantity      int       `json:"newQuantity"`
	RequestedBy      string    `json:"requestedBy"`
	ApprovedBy       string    `json:"approvedBy,omitempty"`
	DepartmentID     string    `json:"departmentId,omitempty"`
	Notes            string    `json:"notes,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// CategoryDTO represents a category in responses
type CategoryDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DepartmentDTO represents a department in responses
type DepartmentDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	HeadOfDept  string    `json:"headOfDepartment,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// UserDTO represents a user account in responses. Password material never
// leaves the application layer.
type UserDTO struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"fullName,omitempty"`
	Role         string    `json:"role"`
	DepartmentID string    `json:"departmentId,omitempty"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
}

// AuthResultDTO is returned from login and register
type AuthResultDTO struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *UserDTO  `json:"user"`
}

// StockSummaryDTO summarizes one stock bucket in the value report
type StockSummaryDTO struct {
	Key        string  `json:"key"`
	ItemCount  int     `json:"itemCount"`
	Quantity   int     `json:"quantity"`
	TotalValue float64 `json:"totalValue"`
}

// InventoryValueDTO represents the total inventory valuation report
type InventoryValueDTO struct {
	TotalItems   int               `json:"totalItems"`
	TotalValue   float64           `json:"totalValue"`
	ByCategory   []StockSummaryDTO `json:"byCategory"`
	ByDepartment []StockSummaryDTO `json:"byDepartment"`
	GeneratedAt  time.Time         `json:"generatedAt"`
}
