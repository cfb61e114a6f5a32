package application

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/his-platform/inventory-service/pkg/errors"
	"github.com/his-platform/inventory-service/pkg/logging"

	"github.com/his-platform/inventory-service/internal/domain"
)

// DefaultExpiryHorizonDays is the lookahead used by the expiring items
// report when the caller does not pass one.
const DefaultExpiryHorizonDays = 30

// ReportService answers read-only queries over items and the ledger.
type ReportService struct {
	items        domain.ItemRepository
	transactions domain.TransactionRepository
	logger       *logging.Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	items domain.ItemRepository,
	transactions domain.TransactionRepository,
	logger *logging.Logger,
) *ReportService {
	return &ReportService{
		items:        items,
		transactions: transactions,
		logger:       logger,
	}
}

// LowStockItems returns items at or below their minimum level, including
// out of stock items.
func (s *ReportService) LowStockItems(ctx context.Context) ([]*ItemDTO, error) {
	items, err := s.items.FindLowStock(ctx)
	if err != nil {
		s.logger.Error("Failed to load low stock items", "error", err)
		return nil, fmt.Errorf("failed to load low stock items: %w", err)
	}
	return ToItemDTOs(items), nil
}

// ExpiringItems returns items whose expiry date falls within the horizon.
// Items already expired are included; items without an expiry date never are.
func (s *ReportService) ExpiringItems(ctx context.Context, query ExpiringItemsQuery) ([]*ItemDTO, error) {
	days := query.Days
	if days <= 0 {
		days = DefaultExpiryHorizonDays
	}

	cutoff := time.Now().UTC().AddDate(0, 0, days)
	items, err := s.items.FindExpiringBefore(ctx, cutoff)
	if err != nil {
		s.logger.Error("Failed to load expiring items", "days", days, "error", err)
		return nil, fmt.Errorf("failed to load expiring items: %w", err)
	}
	return ToItemDTOs(items), nil
}

// ItemsWithStatus returns items currently in the given stock status.
func (s *ReportService) ItemsWithStatus(ctx context.Context, status domain.Status) ([]*ItemDTO, error) {
	items, err := s.items.FindByStatus(ctx, status)
	if err != nil {
		s.logger.Error("Failed to load items by status", "status", status, "error", err)
		return nil, fmt.Errorf("failed to load items by status: %w", err)
	}
	return ToItemDTOs(items), nil
}

// ItemsInDepartment returns items assigned to the department.
func (s *ReportService) ItemsInDepartment(ctx context.Context, departmentID string) ([]*ItemDTO, error) {
	if _, err := primitive.ObjectIDFromHex(departmentID); err != nil {
		return nil, apperrors.ErrValidation("invalid department id")
	}

	items, err := s.items.FindByDepartment(ctx, departmentID)
	if err != nil {
		s.logger.Error("Failed to load items by department", "departmentId", departmentID, "error", err)
		return nil, fmt.Errorf("failed to load items by department: %w", err)
	}
	return ToItemDTOs(items), nil
}

// ItemTransactions returns the full ledger history for one item, newest first.
func (s *ReportService) ItemTransactions(ctx context.Context, query ItemTransactionsQuery) ([]*TransactionDTO, error) {
	id, err := primitive.ObjectIDFromHex(query.ItemID)
	if err != nil {
		return nil, apperrors.ErrValidation("invalid item id")
	}

	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to load item", "itemId", query.ItemID, "error", err)
		return nil, fmt.Errorf("failed to load item: %w", err)
	}
	if item == nil {
		return nil, apperrors.ErrNotFound("item")
	}

	txns, err := s.transactions.FindByItem(ctx, id)
	if err != nil {
		s.logger.Error("Failed to load item transactions", "itemId", query.ItemID, "error", err)
		return nil, fmt.Errorf("failed to load item transactions: %w", err)
	}
	return ToTransactionDTOs(txns), nil
}

// TransactionsInRange returns ledger entries between the optional bounds,
// newest first. A missing bound leaves that side of the range open.
func (s *ReportService) TransactionsInRange(ctx context.Context, query TransactionsInRangeQuery) ([]*TransactionDTO, error) {
	if query.From != nil && query.To != nil && query.To.Before(*query.From) {
		return nil, apperrors.ErrValidation("range end is before range start")
	}

	txns, err := s.transactions.FindInRange(ctx, query.From, query.To)
	if err != nil {
		s.logger.Error("Failed to load transactions in range", "error", err)
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	return ToTransactionDTOs(txns), nil
}

// InventoryValue computes the total stock valuation with per-category and
// per-department breakdowns. Items without a department are excluded from
// the department grouping but still count toward the totals.
func (s *ReportService) InventoryValue(ctx context.Context) (*InventoryValueDTO, error) {
	items, err := s.items.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to load items for valuation", "error", err)
		return nil, fmt.Errorf("failed to load items: %w", err)
	}

	report := &InventoryValueDTO{
		TotalItems:  len(items),
		GeneratedAt: time.Now().UTC(),
	}

	byCategory := make(map[string]*StockSummaryDTO)
	byDepartment := make(map[string]*StockSummaryDTO)

	for _, item := range items {
		value := item.TotalValue()
		report.TotalValue += value

		accumulate(byCategory, item.CategoryID, item.Quantity, value)
		if item.DepartmentID != "" {
			accumulate(byDepartment, item.DepartmentID, item.Quantity, value)
		}
	}

	report.ByCategory = sortedSummaries(byCategory)
	report.ByDepartment = sortedSummaries(byDepartment)

	return report, nil
}

func accumulate(buckets map[string]*StockSummaryDTO, key string, quantity int, value float64) {
	bucket, ok := buckets[key]
	if !ok {
		bucket = &StockSummaryDTO{Key: key}
		buckets[key] = bucket
	}
	bucket.ItemCount++
	bucket.Quantity += quantity
	bucket.TotalValue += value
}

func sortedSummaries(buckets map[string]*StockSummaryDTO) []StockSummaryDTO {
	summaries := make([]StockSummaryDTO, 0, len(buckets))
	for _, bucket := range buckets {
		summaries = append(summaries, *bucket)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Key < summaries[j].Key
	})
	return summaries
}
