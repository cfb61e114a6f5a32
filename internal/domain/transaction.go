package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TransactionType tells whether stock moved into or out of the inventory.
// The type is derived from the quantity delta, never chosen by callers.
type TransactionType string

const (
	TransactionStockIn  TransactionType = "received"
	TransactionStockOut TransactionType = "issued"
)

// Transaction is one immutable ledger entry describing a single quantity
// change on an item. Entries are only ever inserted, in the same storage
// transaction as the item write they record.
type Transaction struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	ItemID           primitive.ObjectID `bson:"itemId"`
	SKU              string             `bson:"sku"`
	Type             TransactionType    `bson:"type"`
	Quantity         int                `bson:"quantity"`
	PreviousQuantity int                `bson:"previousQuantity"`
	NewQuantity      int                `bson:"newQuantity"`
	RequestedBy      string             `bson:"requestedBy"`
	ApprovedBy       string             `bson:"approvedBy,omitempty"`
	DepartmentID     string             `bson:"departmentId,omitempty"`
	Notes            string             `bson:"notes,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt"`
}

// NewTransaction builds a ledger entry for a quantity change. The entry's
// type and quantity are derived from the delta; a zero delta is rejected
// because it would record nothing.
func NewTransaction(itemID primitive.ObjectID, sku string, previousQuantity, newQuantity int, requestedBy, approvedBy, departmentID, notes string) (*Transaction, error) {
	if sku == "" {
		return nil, RequiredFieldError("sku")
	}
	if requestedBy == "" {
		return nil, RequiredFieldError("requestedBy")
	}

	delta := newQuantity - previousQuantity
	if delta == 0 {
		return nil, ErrNoQuantityChange
	}

	txnType := TransactionStockIn
	quantity := delta
	if delta < 0 {
		txnType = TransactionStockOut
		quantity = -delta
	}

	return &Transaction{
		ItemID:           itemID,
		SKU:              sku,
		Type:             txnType,
		Quantity:         quantity,
		PreviousQuantity: previousQuantity,
		NewQuantity:      newQuantity,
		RequestedBy:      requestedBy,
		ApprovedBy:       approvedBy,
		DepartmentID:     departmentID,
		Notes:            notes,
		CreatedAt:        time.Now().UTC(),
	}, nil
}

// Validate re-checks the ledger invariants: the recorded quantity must be
// positive and must match the direction and magnitude of the delta.
func (t *Transaction) Validate() error {
	if t.Quantity <= 0 {
		return ErrInvalidQuantity
	}

	delta := t.NewQuantity - t.PreviousQuantity
	switch t.Type {
	case TransactionStockIn:
		if delta != t.Quantity {
			return ErrInvalidTransactionType
		}
	case TransactionStockOut:
		if delta != -t.Quantity {
			return ErrInvalidTransactionType
		}
	default:
		return ErrInvalidTransactionType
	}
	return nil
}

// Delta returns the signed quantity change the entry records.
func (t *Transaction) Delta() int {
	if t.Type == TransactionStockOut {
		return -t.Quantity
	}
	return t.Quantity
}
