package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status classifies an item's stock state. It is always derived from the
// item's quantity, minimum level and expiry date via DeriveStatus and is
// never assigned by callers directly.
type Status string

const (
	StatusAvailable  Status = "available"
	StatusLow        Status = "low"
	StatusOutOfStock Status = "out_of_stock"
	StatusExpired    Status = "expired"
)

// Default stock thresholds applied when an item is created without them.
const (
	DefaultMinimumLevel = 10
	DefaultReorderLevel = 20
)

// DeriveStatus computes the stock status for the given quantity, minimum
// level and optional expiry date. An expiry date in the past overrides every
// quantity-based state.
func DeriveStatus(quantity, minimumLevel int, expiryDate *time.Time, now time.Time) Status {
	if expiryDate != nil && expiryDate.Before(now) {
		return StatusExpired
	}
	switch {
	case quantity <= 0:
		return StatusOutOfStock
	case quantity <= minimumLevel:
		return StatusLow
	default:
		return StatusAvailable
	}
}

// Supplier holds the supplier contact details recorded on an item.
type Supplier struct {
	Name          string `bson:"name,omitempty" json:"name,omitempty"`
	ContactPerson string `bson:"contactPerson,omitempty" json:"contactPerson,omitempty"`
	Email         string `bson:"email,omitempty" json:"email,omitempty"`
	Phone         string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// Item is the aggregate root for a tracked inventory item. Quantity is only
// changed through the inventory application service, which pairs every change
// with a ledger Transaction.
type Item struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	SKU          string             `bson:"sku"`
	Name         string             `bson:"name"`
	Description  string             `bson:"description,omitempty"`
	CategoryID   string             `bson:"categoryId"`
	DepartmentID string             `bson:"departmentId,omitempty"`
	Unit         string             `bson:"unit"`
	Quantity     int                `bson:"quantity"`
	MinimumLevel int                `bson:"minimumLevel"`
	ReorderLevel int                `bson:"reorderLevel"`
	Cost         float64            `bson:"cost"`
	Location     string             `bson:"location,omitempty"`
	ExpiryDate   *time.Time         `bson:"expiryDate,omitempty"`
	Supplier     Supplier           `bson:"supplier,omitempty"`
	Status       Status             `bson:"status"`

	// Version is the optimistic concurrency token; the repository refuses a
	// write whose version does not match the stored document.
	Version int64 `bson:"version"`

	LastUpdated time.Time `bson:"lastUpdated"`
	UpdatedBy   string    `bson:"updatedBy"`
	CreatedAt   time.Time `bson:"createdAt"`

	DomainEvents []DomainEvent `bson:"-"`
}

// NewItem creates an Item with the required fields and default thresholds.
func NewItem(sku, name, categoryID, unit string, quantity int, createdBy string) (*Item, error) {
	switch {
	case sku == "":
		return nil, RequiredFieldError("sku")
	case name == "":
		return nil, RequiredFieldError("name")
	case categoryID == "":
		return nil, RequiredFieldError("category")
	case unit == "":
		return nil, RequiredFieldError("unit")
	}
	if quantity < 0 {
		return nil, ErrNegativeQuantity
	}

	now := time.Now().UTC()
	item := &Item{
		ID:           primitive.NewObjectID(),
		SKU:          sku,
		Name:         name,
		CategoryID:   categoryID,
		Unit:         unit,
		Quantity:     quantity,
		MinimumLevel: DefaultMinimumLevel,
		ReorderLevel: DefaultReorderLevel,
		UpdatedBy:    createdBy,
		LastUpdated:  now,
		CreatedAt:    now,
		DomainEvents: make([]DomainEvent, 0),
	}
	item.Status = DeriveStatus(item.Quantity, item.MinimumLevel, item.ExpiryDate, now)

	item.AddDomainEvent(&ItemCreatedEvent{
		SKU:       sku,
		Name:      name,
		Quantity:  quantity,
		CreatedBy: createdBy,
		CreatedAt: now,
	})

	return item, nil
}

// ItemPatch carries the whitelisted updatable fields. Nil pointers leave the
// corresponding field untouched. SKU is identity and cannot be patched.
type ItemPatch struct {
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
	Supplier     *Supplier
}

// ApplyPatch applies the whitelisted fields to the item and records the actor.
// Status and LastUpdated are not touched here; Recalculate finalizes them
// once the caller has captured the previous quantity.
func (i *Item) ApplyPatch(patch ItemPatch, actorID string) error {
	if patch.Name != nil {
		if *patch.Name == "" {
			return RequiredFieldError("name")
		}
		i.Name = *patch.Name
	}
	if patch.Unit != nil {
		if *patch.Unit == "" {
			return RequiredFieldError("unit")
		}
		i.Unit = *patch.Unit
	}
	if patch.CategoryID != nil {
		if *patch.CategoryID == "" {
			return RequiredFieldError("category")
		}
		i.CategoryID = *patch.CategoryID
	}
	if patch.Quantity != nil {
		if *patch.Quantity < 0 {
			return ErrNegativeQuantity
		}
		i.Quantity = *patch.Quantity
	}
	if patch.MinimumLevel != nil {
		if *patch.MinimumLevel < 0 {
			return ErrNegativeThreshold
		}
		i.MinimumLevel = *patch.MinimumLevel
	}
	if patch.ReorderLevel != nil {
		if *patch.ReorderLevel < 0 {
			return ErrNegativeThreshold
		}
		i.ReorderLevel = *patch.ReorderLevel
	}
	if patch.Description != nil {
		i.Description = *patch.Description
	}
	if patch.DepartmentID != nil {
		i.DepartmentID = *patch.DepartmentID
	}
	if patch.Cost != nil {
		i.Cost = *patch.Cost
	}
	if patch.Location != nil {
		i.Location = *patch.Location
	}
	if patch.ExpiryDate != nil {
		i.ExpiryDate = patch.ExpiryDate
	}
	if patch.Supplier != nil {
		i.Supplier = *patch.Supplier
	}

	i.UpdatedBy = actorID
	return nil
}

// Recalculate re-derives the status, touches LastUpdated and emits the stock
// events for a mutation that started from previousQuantity.
func (i *Item) Recalculate(previousQuantity int, now time.Time) {
	i.Status = DeriveStatus(i.Quantity, i.MinimumLevel, i.ExpiryDate, now)
	i.LastUpdated = now

	if i.Quantity != previousQuantity {
		i.AddDomainEvent(&StockLevelChangedEvent{
			SKU:              i.SKU,
			PreviousQuantity: previousQuantity,
			NewQuantity:      i.Quantity,
			Status:           string(i.Status),
			ChangedAt:        now,
		})
	}

	if i.Status == StatusLow || i.Status == StatusOutOfStock {
		i.AddDomainEvent(&LowStockAlertEvent{
			SKU:          i.SKU,
			Quantity:     i.Quantity,
			MinimumLevel: i.MinimumLevel,
			Status:       string(i.Status),
			AlertedAt:    now,
		})
	}
}

// TotalValue returns quantity times unit cost.
func (i *Item) TotalValue() float64 {
	return float64(i.Quantity) * i.Cost
}

// AddDomainEvent adds a domain event
func (i *Item) AddDomainEvent(event DomainEvent) {
	i.DomainEvents = append(i.DomainEvents, event)
}

// ClearDomainEvents clears all domain events
func (i *Item) ClearDomainEvents() {
	i.DomainEvents = make([]DomainEvent, 0)
}

// GetDomainEvents returns all domain events
func (i *Item) GetDomainEvents() []DomainEvent {
	return i.DomainEvents
}
