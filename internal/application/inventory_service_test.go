package application

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/his-platform/inventory-service/internal/domain"
	"github.com/his-platform/inventory-service/pkg/logging"
)

type fakeItemRepo struct {
	items        map[string]*domain.Item
	transactions []*domain.Transaction
	createErr    error
	updateErr    error
	findErr      error
	deleteErr    error
}

func (f *fakeItemRepo) Create(ctx context.Context, item *domain.Item, txn *domain.Transaction) error {
	if f.createErr != nil {
		return f.createErr
	}
	if f.items == nil {
		f.items = make(map[string]*domain.Item)
	}
	for _, existing := range f.items {
		if existing.SKU == item.SKU {
			return domain.ErrDuplicateSKU
		}
	}
	item.Version = 1
	f.items[item.ID.Hex()] = item
	if txn != nil {
		f.transactions = append(f.transactions, txn)
	}
	return nil
}

func (f *fakeItemRepo) Update(ctx context.Context, item *domain.Item, txn *domain.Transaction) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	stored, ok := f.items[item.ID.Hex()]
	if !ok {
		return domain.ErrItemNotFound
	}
	if stored.Version != item.Version {
		return domain.ErrStaleItem
	}
	item.Version++
	f.items[item.ID.Hex()] = item
	if txn != nil {
		f.transactions = append(f.transactions, txn)
	}
	return nil
}

func (f *fakeItemRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.items[id.Hex()]; !ok {
		return domain.ErrItemNotFound
	}
	delete(f.items, id.Hex())
	return nil
}

func (f *fakeItemRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Item, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.items[id.Hex()], nil
}

func (f *fakeItemRepo) FindBySKU(ctx context.Context, sku string) (*domain.Item, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, item := range f.items {
		if item.SKU == sku {
			return item, nil
		}
	}
	return nil, nil
}

func (f *fakeItemRepo) FindAll(ctx context.Context) ([]*domain.Item, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	results := make([]*domain.Item, 0, len(f.items))
	for _, item := range f.items {
		results = append(results, item)
	}
	return results, nil
}

func (f *fakeItemRepo) FindPage(ctx context.Context, offset, limit int64) ([]*domain.Item, int64, error) {
	all, err := f.FindAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

	total := int64(len(all))
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (f *fakeItemRepo) FindLowStock(ctx context.Context) ([]*domain.Item, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	results := make([]*domain.Item, 0)
	for _, item := range f.items {
		if item.Status == domain.StatusLow || item.Status == domain.StatusOutOfStock {
			results = append(results, item)
		}
	}
	return results, nil
}

func (f *fakeItemRepo) FindByStatus(ctx context.Context, status domain.Status) ([]*domain.Item, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	results := make([]*domain.Item, 0)
	for _, item := range f.items {
		if item.Status == status {
			results = append(results, item)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	return results, nil
}

func (f *fakeItemRepo) FindByDepartment(ctx context.Context, departmentID string) ([]*domain.Item, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	results := make([]*domain.Item, 0)
	for _, item := range f.items {
		if item.DepartmentID == departmentID {
			results = append(results, item)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	return results, nil
}

func (f *fakeItemRepo) FindExpiringBefore(ctx context.Context, cutoff time.Time) ([]*domain.Item, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	results := make([]*domain.Item, 0)
	for _, item := range f.items {
		if item.ExpiryDate != nil && !item.ExpiryDate.After(cutoff) {
			results = append(results, item)
		}
	}
	return results, nil
}

func newTestInventoryService(repo *fakeItemRepo) *InventoryService {
	logger := logging.New(logging.DefaultConfig("test"))
	return NewInventoryService(repo, nil, nil, logger)
}

func staffActor() Actor {
	return Actor{UserID: "user-1", Role: domain.RoleStaff}
}

func managerActor() Actor {
	return Actor{UserID: "user-2", Role: domain.RoleManager}
}

func TestCreateItem(t *testing.T) {
	repo := &fakeItemRepo{}
	svc := newTestInventoryService(repo)

	dto, err := svc.CreateItem(context.Background(), CreateItemCommand{
		Actor:      managerActor(),
		SKU:        "MED-001",
		Name:       "Paracetamol 500mg",
		CategoryID: "cat-1",
		Unit:       "box",
		Quantity:   100,
	})
	require.NoError(t, err)

	assert.Equal(t, "MED-001", dto.SKU)
	assert.Equal(t, 100, dto.Quantity)
	assert.Equal(t, "available", dto.Status)
	assert.Equal(t, int64(1), dto.Version)

	// opening ledger entry written alongside the item
	require.Len(t, repo.transactions, 1)
	txn := repo.transactions[0]
	assert.Equal(t, domain.TransactionStockIn, txn.Type)
	assert.Equal(t, 100, txn.Quantity)
	assert.Equal(t, 0, txn.PreviousQuantity)
	assert.Equal(t, "Initial inventory", txn.Notes)
	assert.Equal(t, "user-1", txn.RequestedBy)
	assert.Equal(t, "user-1", txn.ApprovedBy)
}

func TestCreateItem_ZeroQuantityHasNoLedgerEntry(t *testing.T) {
	repo := &fakeItemRepo{}
	svc := newTestInventoryService(repo)

	dto, err := svc.CreateItem(context.Background(), CreateItemCommand{
		Actor:      managerActor(),
		SKU:        "MED-002",
		Name:       "Saline",
		CategoryID: "cat-1",
		Unit:       "bag",
		Quantity:   0,
	})
	require.NoError(t, err)

	assert.Equal(t, "out_of_stock", dto.Status)
	assert.Empty(t, repo.transactions)
}

func TestCreateItem_DuplicateSKU(t *testing.T) {
	repo := &fakeItemRepo{}
	svc := newTestInventoryService(repo)

	cmd := CreateItemCommand{
		Actor:      managerActor(),
		SKU:        "MED-001",
		Name:       "Paracetamol",
		CategoryID: "cat-1",
		Unit:       "box",
		Quantity:   10,
	}

	_, err := svc.CreateItem(context.Background(), cmd)
	require.NoError(t, err)

	_, err = svc.CreateItem(context.Background(), cmd)
	require.Error(t, err)
	assertAppErrorCode(t, err, "CONFLICT")
}

func TestCreateItem_ValidationFailure(t *testing.T) {
	svc := newTestInventoryService(&fakeItemRepo{})

	_, err := svc.CreateItem(context.Background(), CreateItemCommand{
		Actor:    managerActor(),
		SKU:      "MED-001",
		Unit:     "box",
		Quantity: 10,
	})
	require.Error(t, err)
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func TestUpdateItem_QuantityChangeWritesLedgerEntry(t *testing.T) {
	repo := &fakeItemRepo{}
	svc := newTestInventoryService(repo)

	created, err := svc.CreateItem(context.Background(), CreateItemCommand{
		Actor:      managerActor(),
		SKU:        "MED-001",
		Name:       "Paracetamol",
		CategoryID: "cat-1",
		Unit:       "box",
		Quantity:   100,
	})
	require.NoError(t, err)

	quantity := 40
	dto, err := svc.UpdateItem(context.Background(), UpdateItemCommand{
		Actor:    managerActor(),
		ItemID:   created.ID,
		Quantity: &quantity,
	})
	require.NoError(t, err)

	assert.Equal(t, 40, dto.Quantity)
	assert.Equal(t, int64(2), dto.Version)

	require.Len(t, repo.transactions, 2)
	txn := repo.transactions[1]
	assert.Equal(t, domain.TransactionStockOut, txn.Type)
	assert.Equal(t, 60, txn.Quantity)
	assert.Equal(t, 100, txn.PreviousQuantity)
	assert.Equal(t, 40, txn.NewQuantity)
	assert.Equal(t, "Inventory update", txn.Notes)
}

func TestUpdateItem_MetadataOnlyChangeSkipsLedger(t *testing.T) {
	repo := &fakeItemRepo{}
	svc := newTestInventoryService(repo)

	created, err := svc.CreateItem(context.Background(), CreateItemCommand{
		Actor:      managerActor(),
		SKU:        "MED-001",
		Name:       "Paracetamol",
		CategoryID: "cat-1",
		Unit:       "box",
		Quantity:   100,
	})
	require.NoError(t, err)
	ledgerBefore := len(repo.transactions)

	location := "Shelf B2"
	dto, err := svc.UpdateItem(context.Background(), UpdateItemCommand{
		Actor:    managerActor(),
		ItemID:   created.ID,
		Location: &location,
	})
	require.NoError(t, err)

	assert.Equal(t, "Shelf B2", dto.Location)
	assert.Equal(t, 100, dto.Quantity)
	assert.Len(t, repo.transactions, ledgerBefore)
}

func TestUpdateItem_StatusRecalculated(t *testing.T) {
	repo := &fakeItemRepo{}
	svc := newTestInventoryService(repo)

	created, err := svc.CreateItem(context.Background(), CreateItemCommand{
		Actor:      managerActor(),
		SKU:        "MED-001",
		Name:       "Paracetamol",
		CategoryID: "cat-1",
		Unit:       "box",
		Quantity:   100,
	})
	require.NoError(t, err)

	quantity := 5
	dto, err := svc.UpdateItem(context.Background(), UpdateItemCommand{
		Actor:    managerActor(),
		ItemID:   created.ID,
		Quantity: &quantity,
	})
	require.NoError(t, err)
	assert.Equal(t, "low", dto.Status)

	quantity = 0
	dto, err = svc.UpdateItem(context.Background(), UpdateItemCommand{
		Actor:    managerActor(),
		ItemID:   created.ID,
		Quantity: &quantity,
	})
	require.NoError(t, err)
	assert.Equal(t, "out_of_stock", dto.Status)
}

func TestUpdateItem_NotFound(t *testing.T) {
	svc := newTestInventoryService(&fakeItemRepo{})

	name := "anything"
	_, err := svc.UpdateItem(context.Background(), UpdateItemCommand{
		Actor:  managerActor(),
		ItemID: primitive.NewObjectID().Hex(),
		Name:   &name,
	})
	require.Error(t, err)
	assertAppErrorCode(t, err, "RESOURCE_NOT_FOUND")
}

func TestUpdateItem_StaleVersion(t *testing.T) {
	repo := &fakeItemRepo{}
	svc := newTestInventoryService(repo)

	created, err := svc.CreateItem(context.Background(), CreateItemCommand{
		Actor:      managerActor(),
		SKU:        "MED-001",
		Name:       "Paracetamol",
		CategoryID: "cat-1",
		Unit:       "box",
		Quantity:   100,
	})
	require.NoError(t, err)

	// another writer bumped the stored version
	repo.items[created.ID].Version = 7

	quantity := 40
	_, err = svc.UpdateItem(context.Background(), UpdateItemCommand{
		Actor:    managerActor(),
		ItemID:   created.ID,
		Quantity: &quantity,
	})
	require.Error(t, err)
	assertAppErrorCode(t, err, "CONCURRENCY_CONFLICT")
}

func TestDeleteItem(t *testing.T) {
	repo := &fakeItemRepo{}
	svc := newTestInventoryService(repo)

	created, err := svc.CreateItem(context.Background(), CreateItemCommand{
		Actor:      managerActor(),
		SKU:        "MED-001",
		Name:       "Paracetamol",
		CategoryID: "cat-1",
		Unit:       "box",
		Quantity:   100,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteItem(context.Background(), DeleteItemCommand{
		Actor:  managerActor(),
		ItemID: created.ID,
	}))

	assert.Empty(t, repo.items)
	// ledger history survives the item
	assert.Len(t, repo.transactions, 1)
}

func TestDeleteItem_StaffForbidden(t *testing.T) {
	repo := &fakeItemRepo{}
	svc := newTestInventoryService(repo)

	created, err := svc.CreateItem(context.Background(), CreateItemCommand{
		Actor:      managerActor(),
		SKU:        "MED-001",
		Name:       "Paracetamol",
		CategoryID: "cat-1",
		Unit:       "box",
		Quantity:   100,
	})
	require.NoError(t, err)

	err = svc.DeleteItem(context.Background(), DeleteItemCommand{
		Actor:  staffActor(),
		ItemID: created.ID,
	})
	require.Error(t, err)
	assertAppErrorCode(t, err, "FORBIDDEN")
	assert.Len(t, repo.items, 1)
}

func TestCreateItem_StaffForbidden(t *testing.T) {
	svc := newTestInventoryService(&fakeItemRepo{})

	_, err := svc.CreateItem(context.Background(), CreateItemCommand{
		Actor:      staffActor(),
		SKU:        "MED-001",
		Name:       "Paracetamol",
		CategoryID: "cat-1",
		Unit:       "box",
		Quantity:   10,
	})
	require.Error(t, err)
	assertAppErrorCode(t, err, "FORBIDDEN")
}

func TestUpdateItem_StaffForbidden(t *testing.T) {
	repo := &fakeItemRepo{}
	svc := newTestInventoryService(repo)

	created, err := svc.CreateItem(context.Background(), CreateItemCommand{
		Actor:      managerActor(),
		SKU:        "MED-001",
		Name:       "Paracetamol",
		CategoryID: "cat-1",
		Unit:       "box",
		Quantity:   100,
	})
	require.NoError(t, err)

	quantity := 40
	_, err = svc.UpdateItem(context.Background(), UpdateItemCommand{
		Actor:    staffActor(),
		ItemID:   created.ID,
		Quantity: &quantity,
	})
	require.Error(t, err)
	assertAppErrorCode(t, err, "FORBIDDEN")
}

func TestGetItem_NotFound(t *testing.T) {
	svc := newTestInventoryService(&fakeItemRepo{})

	_, err := svc.GetItem(context.Background(), GetItemQuery{ItemID: primitive.NewObjectID().Hex()})
	require.Error(t, err)
	assertAppErrorCode(t, err, "RESOURCE_NOT_FOUND")
}

func TestGetItem_InvalidID(t *testing.T) {
	svc := newTestInventoryService(&fakeItemRepo{})

	_, err := svc.GetItem(context.Background(), GetItemQuery{ItemID: "not-an-object-id"})
	require.Error(t, err)
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func TestListItems_Paginates(t *testing.T) {
	repo := &fakeItemRepo{}
	svc := newTestInventoryService(repo)

	for _, name := range []string{"Bandages", "Aspirin", "Catheter"} {
		_, err := svc.CreateItem(context.Background(), CreateItemCommand{
			Actor:      managerActor(),
			SKU:        "SKU-" + name,
			Name:       name,
			CategoryID: "cat-1",
			Unit:       "box",
			Quantity:   5,
		})
		require.NoError(t, err)
	}

	page, total, err := svc.ListItems(context.Background(), ListItemsQuery{Offset: 0, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 2)
	assert.Equal(t, "Aspirin", page[0].Name)
	assert.Equal(t, "Bandages", page[1].Name)

	page, total, err = svc.ListItems(context.Background(), ListItemsQuery{Offset: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 1)
	assert.Equal(t, "Catheter", page[0].Name)
}
