package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveStatus(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	tests := []struct {
		name         string
		quantity     int
		minimumLevel int
		expiryDate   *time.Time
		want         Status
	}{
		{"above minimum", 50, 10, nil, StatusAvailable},
		{"exactly at minimum", 10, 10, nil, StatusLow},
		{"below minimum", 3, 10, nil, StatusLow},
		{"zero quantity", 0, 10, nil, StatusOutOfStock},
		{"negative quantity", -1, 10, nil, StatusOutOfStock},
		{"expired overrides stock", 50, 10, &past, StatusExpired},
		{"expired overrides out of stock", 0, 10, &past, StatusExpired},
		{"future expiry is not expired", 50, 10, &future, StatusAvailable},
		{"zero minimum with stock", 5, 0, nil, StatusAvailable},
		{"zero minimum without stock", 0, 0, nil, StatusOutOfStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveStatus(tt.quantity, tt.minimumLevel, tt.expiryDate, now)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewItem(t *testing.T) {
	item, err := NewItem("MED-001", "Paracetamol 500mg", "cat-1", "box", 100, "user-1")
	require.NoError(t, err)

	assert.Equal(t, "MED-001", item.SKU)
	assert.Equal(t, 100, item.Quantity)
	assert.Equal(t, DefaultMinimumLevel, item.MinimumLevel)
	assert.Equal(t, DefaultReorderLevel, item.ReorderLevel)
	assert.Equal(t, StatusAvailable, item.Status)
	assert.Equal(t, "user-1", item.UpdatedBy)
	require.Len(t, item.DomainEvents, 1)
	assert.Equal(t, "inventory.item.created", item.DomainEvents[0].EventType())
}

func TestNewItem_Validation(t *testing.T) {
	tests := []struct {
		name     string
		sku      string
		itemName string
		category string
		unit     string
		quantity int
		wantErr  error
	}{
		{"missing sku", "", "Gauze", "cat-1", "roll", 1, ErrFieldRequired},
		{"missing name", "SUP-002", "", "cat-1", "roll", 1, ErrFieldRequired},
		{"missing category", "SUP-002", "Gauze", "", "roll", 1, ErrFieldRequired},
		{"missing unit", "SUP-002", "Gauze", "cat-1", "", 1, ErrFieldRequired},
		{"negative quantity", "SUP-002", "Gauze", "cat-1", "roll", -5, ErrNegativeQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewItem(tt.sku, tt.itemName, tt.category, tt.unit, tt.quantity, "user-1")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewItem_ZeroQuantityIsOutOfStock(t *testing.T) {
	item, err := NewItem("MED-002", "Saline", "cat-1", "bag", 0, "user-1")
	require.NoError(t, err)
	assert.Equal(t, StatusOutOfStock, item.Status)
}

func TestApplyPatch(t *testing.T) {
	item, err := NewItem("MED-001", "Paracetamol", "cat-1", "box", 100, "user-1")
	require.NoError(t, err)

	name := "Paracetamol 500mg"
	quantity := 40
	cost := 2.5
	dept := "dept-icu"
	patch := ItemPatch{
		Name:         &name,
		Quantity:     &quantity,
		Cost:         &cost,
		DepartmentID: &dept,
	}

	require.NoError(t, item.ApplyPatch(patch, "user-2"))

	assert.Equal(t, "Paracetamol 500mg", item.Name)
	assert.Equal(t, 40, item.Quantity)
	assert.Equal(t, 2.5, item.Cost)
	assert.Equal(t, "dept-icu", item.DepartmentID)
	assert.Equal(t, "user-2", item.UpdatedBy)
	// untouched fields keep their values
	assert.Equal(t, "MED-001", item.SKU)
	assert.Equal(t, "box", item.Unit)
}

func TestApplyPatch_Validation(t *testing.T) {
	item, err := NewItem("MED-001", "Paracetamol", "cat-1", "box", 100, "user-1")
	require.NoError(t, err)

	empty := ""
	assert.ErrorIs(t, item.ApplyPatch(ItemPatch{Name: &empty}, "user-2"), ErrFieldRequired)

	negative := -1
	assert.ErrorIs(t, item.ApplyPatch(ItemPatch{Quantity: &negative}, "user-2"), ErrNegativeQuantity)
	assert.ErrorIs(t, item.ApplyPatch(ItemPatch{MinimumLevel: &negative}, "user-2"), ErrNegativeThreshold)
}

func TestRecalculate_EmitsStockEvents(t *testing.T) {
	item, err := NewItem("MED-001", "Paracetamol", "cat-1", "box", 100, "user-1")
	require.NoError(t, err)
	item.ClearDomainEvents()

	now := time.Now().UTC()
	item.Quantity = 5
	item.Recalculate(100, now)

	assert.Equal(t, StatusLow, item.Status)
	assert.Equal(t, now, item.LastUpdated)

	require.Len(t, item.DomainEvents, 2)
	changed, ok := item.DomainEvents[0].(*StockLevelChangedEvent)
	require.True(t, ok)
	assert.Equal(t, 100, changed.PreviousQuantity)
	assert.Equal(t, 5, changed.NewQuantity)
	assert.Equal(t, "inventory.stock.low", item.DomainEvents[1].EventType())
}

func TestRecalculate_NoChangeNoEvent(t *testing.T) {
	item, err := NewItem("MED-001", "Paracetamol", "cat-1", "box", 100, "user-1")
	require.NoError(t, err)
	item.ClearDomainEvents()

	item.Recalculate(100, time.Now().UTC())
	assert.Empty(t, item.DomainEvents)
}

func TestTotalValue(t *testing.T) {
	item, err := NewItem("MED-001", "Paracetamol", "cat-1", "box", 12, "user-1")
	require.NoError(t, err)
	item.Cost = 3.5
	assert.Equal(t, 42.0, item.TotalValue())
}
