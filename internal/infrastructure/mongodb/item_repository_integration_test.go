package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/his-platform/inventory-service/internal/domain"
	containertest "github.com/his-platform/inventory-service/pkg/testing"
)

type ItemRepositoryIntegrationTestSuite struct {
	suite.Suite
	mongoContainer *containertest.MongoDBContainer
	client         *mongo.Client
	db             *mongo.Database
	itemRepo       *ItemRepository
	txnRepo        *TransactionRepository
	ctx            context.Context
}

func (s *ItemRepositoryIntegrationTestSuite) SetupSuite() {
	s.ctx = context.Background()

	// Ledger writes run in session transactions, which need a replica set.
	container, err := containertest.NewMongoDBContainer(s.ctx)
	s.Require().NoError(err)
	s.mongoContainer = container

	client, err := container.GetClient(s.ctx)
	s.Require().NoError(err)
	s.client = client

	s.db = client.Database("inventory_test")
	s.itemRepo = NewItemRepository(s.db)
	s.txnRepo = NewTransactionRepository(s.db)
}

func (s *ItemRepositoryIntegrationTestSuite) TearDownSuite() {
	if s.client != nil {
		s.client.Disconnect(s.ctx)
	}
	if s.mongoContainer != nil {
		s.Require().NoError(s.mongoContainer.Close(s.ctx))
	}
}

func (s *ItemRepositoryIntegrationTestSuite) TearDownTest() {
	s.db.Collection(itemsCollection).Drop(s.ctx)
	s.db.Collection(transactionsCollection).Drop(s.ctx)
	s.itemRepo.ensureIndexes(s.ctx)
}

func TestItemRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	suite.Run(t, new(ItemRepositoryIntegrationTestSuite))
}

func (s *ItemRepositoryIntegrationTestSuite) newItem(sku string, quantity int) *domain.Item {
	item, err := domain.NewItem(sku, "Item "+sku, "cat-1", "box", quantity, "user-1")
	s.Require().NoError(err)
	return item
}

func (s *ItemRepositoryIntegrationTestSuite) openingEntry(item *domain.Item) *domain.Transaction {
	txn, err := domain.NewTransaction(item.ID, item.SKU, 0, item.Quantity, "user-1", "", "", "Initial inventory")
	s.Require().NoError(err)
	return txn
}

func (s *ItemRepositoryIntegrationTestSuite) TestCreate_WritesItemAndLedgerEntry() {
	item := s.newItem("MED-001", 50)

	err := s.itemRepo.Create(s.ctx, item, s.openingEntry(item))
	s.Require().NoError(err)
	s.Equal(int64(1), item.Version)

	loaded, err := s.itemRepo.FindBySKU(s.ctx, "MED-001")
	s.Require().NoError(err)
	s.Require().NotNil(loaded)
	s.Equal(50, loaded.Quantity)
	s.Equal(domain.StatusAvailable, loaded.Status)

	txns, err := s.txnRepo.FindByItem(s.ctx, item.ID)
	s.Require().NoError(err)
	s.Require().Len(txns, 1)
	s.Equal(domain.TransactionStockIn, txns[0].Type)
	s.Equal(50, txns[0].Quantity)
}

func (s *ItemRepositoryIntegrationTestSuite) TestCreate_DuplicateSKURejected() {
	first := s.newItem("MED-001", 50)
	s.Require().NoError(s.itemRepo.Create(s.ctx, first, s.openingEntry(first)))

	second := s.newItem("MED-001", 10)
	err := s.itemRepo.Create(s.ctx, second, s.openingEntry(second))
	s.Require().ErrorIs(err, domain.ErrDuplicateSKU)

	// the opening entry of the rejected item must not have been written
	txns, err := s.txnRepo.FindByItem(s.ctx, second.ID)
	s.Require().NoError(err)
	s.Empty(txns)
}

func (s *ItemRepositoryIntegrationTestSuite) TestUpdate_PairsItemWithLedgerEntry() {
	item := s.newItem("MED-001", 50)
	s.Require().NoError(s.itemRepo.Create(s.ctx, item, s.openingEntry(item)))

	previous := item.Quantity
	item.Quantity = 20
	item.Recalculate(previous, time.Now().UTC())
	txn, err := domain.NewTransaction(item.ID, item.SKU, previous, item.Quantity, "user-1", "", "", "Inventory update")
	s.Require().NoError(err)

	s.Require().NoError(s.itemRepo.Update(s.ctx, item, txn))
	s.Equal(int64(2), item.Version)

	loaded, err := s.itemRepo.FindByID(s.ctx, item.ID)
	s.Require().NoError(err)
	s.Equal(20, loaded.Quantity)

	txns, err := s.txnRepo.FindByItem(s.ctx, item.ID)
	s.Require().NoError(err)
	s.Len(txns, 2)
	s.Equal(domain.TransactionStockOut, txns[0].Type)
}

func (s *ItemRepositoryIntegrationTestSuite) TestUpdate_StaleVersionRejected() {
	item := s.newItem("MED-001", 50)
	s.Require().NoError(s.itemRepo.Create(s.ctx, item, s.openingEntry(item)))

	// load two copies and write through the first one
	copyA, err := s.itemRepo.FindByID(s.ctx, item.ID)
	s.Require().NoError(err)
	copyB, err := s.itemRepo.FindByID(s.ctx, item.ID)
	s.Require().NoError(err)

	copyA.Quantity = 40
	s.Require().NoError(s.itemRepo.Update(s.ctx, copyA, nil))

	copyB.Quantity = 10
	prev := 50
	txn, err := domain.NewTransaction(copyB.ID, copyB.SKU, prev, copyB.Quantity, "user-2", "", "", "")
	s.Require().NoError(err)
	err = s.itemRepo.Update(s.ctx, copyB, txn)
	s.Require().ErrorIs(err, domain.ErrStaleItem)

	// the losing write left no ledger entry behind
	txns, err := s.txnRepo.FindByItem(s.ctx, item.ID)
	s.Require().NoError(err)
	s.Len(txns, 1)

	loaded, err := s.itemRepo.FindByID(s.ctx, item.ID)
	s.Require().NoError(err)
	s.Equal(40, loaded.Quantity)
}

func (s *ItemRepositoryIntegrationTestSuite) TestDelete_KeepsLedgerHistory() {
	item := s.newItem("MED-001", 50)
	s.Require().NoError(s.itemRepo.Create(s.ctx, item, s.openingEntry(item)))

	s.Require().NoError(s.itemRepo.Delete(s.ctx, item.ID))

	loaded, err := s.itemRepo.FindByID(s.ctx, item.ID)
	s.Require().NoError(err)
	s.Nil(loaded)

	txns, err := s.txnRepo.FindByItem(s.ctx, item.ID)
	s.Require().NoError(err)
	s.Len(txns, 1)
}

func (s *ItemRepositoryIntegrationTestSuite) TestFindLowStockAndExpiring() {
	healthy := s.newItem("MED-001", 50)
	s.Require().NoError(s.itemRepo.Create(s.ctx, healthy, s.openingEntry(healthy)))

	low := s.newItem("MED-002", 3)
	s.Require().NoError(s.itemRepo.Create(s.ctx, low, s.openingEntry(low)))

	soon := time.Now().UTC().AddDate(0, 0, 5)
	expiring := s.newItem("MED-003", 30)
	expiring.ExpiryDate = &soon
	s.Require().NoError(s.itemRepo.Create(s.ctx, expiring, s.openingEntry(expiring)))

	lowStock, err := s.itemRepo.FindLowStock(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(lowStock, 1)
	s.Equal("MED-002", lowStock[0].SKU)

	cutoff := time.Now().UTC().AddDate(0, 0, 30)
	expiringItems, err := s.itemRepo.FindExpiringBefore(s.ctx, cutoff)
	s.Require().NoError(err)
	s.Require().Len(expiringItems, 1)
	s.Equal("MED-003", expiringItems[0].SKU)
}

func (s *ItemRepositoryIntegrationTestSuite) TestFindExpiringBefore_CutoffInclusive() {
	cutoff := time.Now().UTC().AddDate(0, 0, 30).Truncate(time.Millisecond)

	atCutoff := s.newItem("MED-001", 20)
	atCutoff.ExpiryDate = &cutoff
	s.Require().NoError(s.itemRepo.Create(s.ctx, atCutoff, s.openingEntry(atCutoff)))

	afterCutoff := cutoff.Add(time.Second)
	later := s.newItem("MED-002", 20)
	later.ExpiryDate = &afterCutoff
	s.Require().NoError(s.itemRepo.Create(s.ctx, later, s.openingEntry(later)))

	expiringItems, err := s.itemRepo.FindExpiringBefore(s.ctx, cutoff)
	s.Require().NoError(err)
	s.Require().Len(expiringItems, 1)
	s.Equal("MED-001", expiringItems[0].SKU)
}

func (s *ItemRepositoryIntegrationTestSuite) TestTransactionsInRange() {
	item := s.newItem("MED-001", 50)
	s.Require().NoError(s.itemRepo.Create(s.ctx, item, s.openingEntry(item)))

	from := time.Now().UTC().Add(-time.Hour)
	to := time.Now().UTC().Add(time.Hour)
	txns, err := s.txnRepo.FindInRange(s.ctx, &from, &to)
	s.Require().NoError(err)
	s.Len(txns, 1)

	past := time.Now().UTC().Add(-2 * time.Hour)
	txns, err = s.txnRepo.FindInRange(s.ctx, nil, &past)
	s.Require().NoError(err)
	s.Empty(txns)
}
