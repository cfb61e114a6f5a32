package domain

import "time"

// DomainEvent is implemented by every event raised by the aggregates.
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
}

// ItemCreatedEvent is raised when an item enters the inventory.
type ItemCreatedEvent struct {
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

func (e *ItemCreatedEvent) EventType() string {
	return "inventory.item.created"
}

func (e *ItemCreatedEvent) OccurredAt() time.Time {
	return e.CreatedAt
}

// StockLevelChangedEvent is raised when a mutation changes an item's quantity.
type StockLevelChangedEvent struct {
	SKU              string    `json:"sku"`
	PreviousQuantity int       `json:"previousQuantity"`
	NewQuantity      int       `json:"newQuantity"`
	Status           string    `json:"status"`
	ChangedAt        time.Time `json:"changedAt"`
}

func (e *StockLevelChangedEvent) EventType() string {
	return "inventory.stock.changed"
}

func (e *StockLevelChangedEvent) OccurredAt() time.Time {
	return e.ChangedAt
}

// LowStockAlertEvent is raised when an item lands at or below its minimum
// level after a mutation.
type LowStockAlertEvent struct {
	SKU          string    `json:"sku"`
	Quantity     int       `json:"quantity"`
	MinimumLevel int       `json:"minimumLevel"`
	Status       string    `json:"status"`
	AlertedAt    time.Time `json:"alertedAt"`
}

func (e *LowStockAlertEvent) EventType() string {
	return "inventory.stock.low"
}

func (e *LowStockAlertEvent) OccurredAt() time.Time {
	return e.AlertedAt
}

// ItemDeletedEvent is raised when an item is removed from the inventory.
type ItemDeletedEvent struct {
	SKU       string    `json:"sku"`
	DeletedBy string    `json:"deletedBy"`
	DeletedAt time.Time `json:"deletedAt"`
}

func (e *ItemDeletedEvent) EventType() string {
	return "inventory.item.deleted"
}

func (e *ItemDeletedEvent) OccurredAt() time.Time {
	return e.DeletedAt
}
