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

type fakeTransactionRepo struct {
	transactions []*domain.Transaction
	findErr      error
}

func (f *fakeTransactionRepo) FindByItem(ctx context.Context, itemID primitive.ObjectID) ([]*domain.Transaction, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	results := make([]*domain.Transaction, 0)
	for _, txn := range f.transactions {
		if txn.ItemID == itemID {
			results = append(results, txn)
		}
	}
	sortNewestFirst(results)
	return results, nil
}

func (f *fakeTransactionRepo) FindInRange(ctx context.Context, from, to *time.Time) ([]*domain.Transaction, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	results := make([]*domain.Transaction, 0)
	for _, txn := range f.transactions {
		if from != nil && txn.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && txn.CreatedAt.After(*to) {
			continue
		}
		results = append(results, txn)
	}
	sortNewestFirst(results)
	return results, nil
}

func sortNewestFirst(txns []*domain.Transaction) {
	sort.Slice(txns, func(i, j int) bool {
		return txns[i].CreatedAt.After(txns[j].CreatedAt)
	})
}

func newTestReportService(items *fakeItemRepo, txns *fakeTransactionRepo) *ReportService {
	logger := logging.New(logging.DefaultConfig("test"))
	return NewReportService(items, txns, logger)
}

func storedItem(t *testing.T, repo *fakeItemRepo, sku, categoryID, departmentID string, quantity int, cost float64) *domain.Item {
	t.Helper()
	item, err := domain.NewItem(sku, "Item "+sku, categoryID, "unit", quantity, "user-1")
	require.NoError(t, err)
	item.DepartmentID = departmentID
	item.Cost = cost
	if repo.items == nil {
		repo.items = make(map[string]*domain.Item)
	}
	repo.items[item.ID.Hex()] = item
	return item
}

func TestLowStockItems(t *testing.T) {
	repo := &fakeItemRepo{}
	storedItem(t, repo, "MED-001", "cat-1", "", 100, 1)
	storedItem(t, repo, "MED-002", "cat-1", "", 5, 1)
	storedItem(t, repo, "MED-003", "cat-1", "", 0, 1)

	svc := newTestReportService(repo, &fakeTransactionRepo{})
	items, err := svc.LowStockItems(context.Background())
	require.NoError(t, err)

	require.Len(t, items, 2)
	skus := []string{items[0].SKU, items[1].SKU}
	assert.ElementsMatch(t, []string{"MED-002", "MED-003"}, skus)
}

func TestExpiringItems_DefaultHorizon(t *testing.T) {
	repo := &fakeItemRepo{}
	soon := time.Now().UTC().AddDate(0, 0, 7)
	later := time.Now().UTC().AddDate(0, 0, 90)

	expiring := storedItem(t, repo, "MED-001", "cat-1", "", 10, 1)
	expiring.ExpiryDate = &soon
	farOut := storedItem(t, repo, "MED-002", "cat-1", "", 10, 1)
	farOut.ExpiryDate = &later
	storedItem(t, repo, "MED-003", "cat-1", "", 10, 1) // no expiry date

	svc := newTestReportService(repo, &fakeTransactionRepo{})
	items, err := svc.ExpiringItems(context.Background(), ExpiringItemsQuery{})
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, "MED-001", items[0].SKU)
}

func TestExpiringItems_IncludesAlreadyExpired(t *testing.T) {
	repo := &fakeItemRepo{}
	past := time.Now().UTC().AddDate(0, 0, -3)
	expired := storedItem(t, repo, "MED-001", "cat-1", "", 10, 1)
	expired.ExpiryDate = &past

	svc := newTestReportService(repo, &fakeTransactionRepo{})
	items, err := svc.ExpiringItems(context.Background(), ExpiringItemsQuery{Days: 14})
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, "MED-001", items[0].SKU)
}

func TestItemTransactions(t *testing.T) {
	repo := &fakeItemRepo{}
	item := storedItem(t, repo, "MED-001", "cat-1", "", 10, 1)

	txnRepo := &fakeTransactionRepo{}
	first, err := domain.NewTransaction(item.ID, item.SKU, 0, 10, "user-1", "", "", "Initial inventory")
	require.NoError(t, err)
	first.CreatedAt = time.Now().UTC().Add(-time.Hour)
	second, err := domain.NewTransaction(item.ID, item.SKU, 10, 4, "user-1", "", "", "Inventory update")
	require.NoError(t, err)
	other, err := domain.NewTransaction(primitive.NewObjectID(), "MED-999", 0, 5, "user-1", "", "", "")
	require.NoError(t, err)
	txnRepo.transactions = []*domain.Transaction{first, second, other}

	svc := newTestReportService(repo, txnRepo)
	txns, err := svc.ItemTransactions(context.Background(), ItemTransactionsQuery{ItemID: item.ID.Hex()})
	require.NoError(t, err)

	require.Len(t, txns, 2)
	assert.Equal(t, "Inventory update", txns[0].Notes)
	assert.Equal(t, "Initial inventory", txns[1].Notes)
}

func TestItemTransactions_UnknownItem(t *testing.T) {
	svc := newTestReportService(&fakeItemRepo{}, &fakeTransactionRepo{})

	_, err := svc.ItemTransactions(context.Background(), ItemTransactionsQuery{ItemID: primitive.NewObjectID().Hex()})
	require.Error(t, err)
	assertAppErrorCode(t, err, "RESOURCE_NOT_FOUND")
}

func TestTransactionsInRange(t *testing.T) {
	txnRepo := &fakeTransactionRepo{}
	now := time.Now().UTC()
	for i, age := range []time.Duration{time.Hour, 48 * time.Hour, 30 * 24 * time.Hour} {
		txn, err := domain.NewTransaction(primitive.NewObjectID(), "MED-001", 0, 5+i, "user-1", "", "", "")
		require.NoError(t, err)
		txn.CreatedAt = now.Add(-age)
		txnRepo.transactions = append(txnRepo.transactions, txn)
	}

	svc := newTestReportService(&fakeItemRepo{}, txnRepo)

	from := now.Add(-7 * 24 * time.Hour)
	txns, err := svc.TransactionsInRange(context.Background(), TransactionsInRangeQuery{From: &from})
	require.NoError(t, err)
	assert.Len(t, txns, 2)

	// open range returns everything
	txns, err = svc.TransactionsInRange(context.Background(), TransactionsInRangeQuery{})
	require.NoError(t, err)
	assert.Len(t, txns, 3)
}

func TestTransactionsInRange_InvertedBounds(t *testing.T) {
	svc := newTestReportService(&fakeItemRepo{}, &fakeTransactionRepo{})

	from := time.Now().UTC()
	to := from.Add(-time.Hour)
	_, err := svc.TransactionsInRange(context.Background(), TransactionsInRangeQuery{From: &from, To: &to})
	require.Error(t, err)
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func TestInventoryValue(t *testing.T) {
	repo := &fakeItemRepo{}
	storedItem(t, repo, "MED-001", "cat-meds", "dept-icu", 10, 2.5)  // 25
	storedItem(t, repo, "MED-002", "cat-meds", "dept-er", 4, 10)     // 40
	storedItem(t, repo, "SUP-001", "cat-supplies", "dept-icu", 3, 5) // 15
	storedItem(t, repo, "SUP-002", "cat-supplies", "", 2, 1)         // 2, no department

	svc := newTestReportService(repo, &fakeTransactionRepo{})
	report, err := svc.InventoryValue(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, report.TotalItems)
	assert.InDelta(t, 82.0, report.TotalValue, 0.001)

	require.Len(t, report.ByCategory, 2)
	assert.Equal(t, "cat-meds", report.ByCategory[0].Key)
	assert.InDelta(t, 65.0, report.ByCategory[0].TotalValue, 0.001)
	assert.Equal(t, 2, report.ByCategory[0].ItemCount)

	// the department-less item counts in totals but not in the grouping
	require.Len(t, report.ByDepartment, 2)
	assert.Equal(t, "dept-er", report.ByDepartment[0].Key)
	assert.Equal(t, "dept-icu", report.ByDepartment[1].Key)
	assert.InDelta(t, 40.0, report.ByDepartment[1].TotalValue, 0.001)
}

func TestItemsWithStatus(t *testing.T) {
	repo := &fakeItemRepo{}
	storedItem(t, repo, "MED-001", "cat-1", "", 100, 1)
	storedItem(t, repo, "MED-002", "cat-1", "", 5, 1)
	storedItem(t, repo, "MED-003", "cat-1", "", 0, 1)

	svc := newTestReportService(repo, &fakeTransactionRepo{})

	low, err := svc.ItemsWithStatus(context.Background(), domain.StatusLow)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "MED-002", low[0].SKU)

	out, err := svc.ItemsWithStatus(context.Background(), domain.StatusOutOfStock)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "MED-003", out[0].SKU)
}

func TestItemsInDepartment(t *testing.T) {
	repo := &fakeItemRepo{}
	pharmacy := primitive.NewObjectID().Hex()
	surgery := primitive.NewObjectID().Hex()
	storedItem(t, repo, "MED-001", "cat-1", pharmacy, 10, 1)
	storedItem(t, repo, "MED-002", "cat-1", surgery, 10, 1)
	storedItem(t, repo, "MED-003", "cat-1", pharmacy, 10, 1)

	svc := newTestReportService(repo, &fakeTransactionRepo{})
	items, err := svc.ItemsInDepartment(context.Background(), pharmacy)
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.ElementsMatch(t, []string{"MED-001", "MED-003"}, []string{items[0].SKU, items[1].SKU})
}

func TestItemsInDepartment_InvalidID(t *testing.T) {
	svc := newTestReportService(&fakeItemRepo{}, &fakeTransactionRepo{})

	_, err := svc.ItemsInDepartment(context.Background(), "not-an-id")
	require.Error(t, err)
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}
