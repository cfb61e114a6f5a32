package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/his-platform/inventory-service/pkg/errors"
	"github.com/his-platform/inventory-service/pkg/kafka"
	"github.com/his-platform/inventory-service/pkg/logging"
	"github.com/his-platform/inventory-service/pkg/metrics"

	"github.com/his-platform/inventory-service/internal/domain"
)

const eventSource = "inventory-service"

// EventPublisher publishes event envelopes. Satisfied by kafka.BreakerProducer.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event *kafka.Envelope) error
}

// InventoryService handles item mutation and lookup use cases. Every quantity
// change is paired with a ledger entry in one storage transaction.
type InventoryService struct {
	items    domain.ItemRepository
	producer EventPublisher
	metrics  *metrics.Metrics
	logger   *logging.Logger
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(
	items domain.ItemRepository,
	producer EventPublisher,
	m *metrics.Metrics,
	logger *logging.Logger,
) *InventoryService {
	return &InventoryService{
		items:    items,
		producer: producer,
		metrics:  m,
		logger:   logger,
	}
}

// CreateItem creates a new inventory item together with its opening ledger
// entry when the initial quantity is non-zero.
func (s *InventoryService) CreateItem(ctx context.Context, cmd CreateItemCommand) (*ItemDTO, error) {
	if !cmd.Actor.Role.CanMutateInventory() {
		return nil, apperrors.ErrForbidden("role may not create items")
	}

	item, err := domain.NewItem(cmd.SKU, cmd.Name, cmd.CategoryID, cmd.Unit, cmd.Quantity, cmd.Actor.UserID)
	if err != nil {
		return nil, apperrors.ErrValidation(err.Error()).Wrap(err)
	}

	item.Description = cmd.Description
	item.DepartmentID = cmd.DepartmentID
	item.Location = cmd.Location
	item.ExpiryDate = cmd.ExpiryDate
	if cmd.MinimumLevel != nil {
		if *cmd.MinimumLevel < 0 {
			return nil, apperrors.ErrValidation(domain.ErrNegativeThreshold.Error())
		}
		item.MinimumLevel = *cmd.MinimumLevel
	}
	if cmd.ReorderLevel != nil {
		if *cmd.ReorderLevel < 0 {
			return nil, apperrors.ErrValidation(domain.ErrNegativeThreshold.Error())
		}
		item.ReorderLevel = *cmd.ReorderLevel
	}
	if cmd.Cost != nil {
		item.Cost = *cmd.Cost
	}
	if cmd.Supplier != nil {
		item.Supplier = domain.Supplier{
			Name:          cmd.Supplier.Name,
			ContactPerson: cmd.Supplier.ContactPerson,
			Email:         cmd.Supplier.Email,
			Phone:         cmd.Supplier.Phone,
		}
	}
	// Thresholds and expiry may differ from the constructor defaults.
	item.Recalculate(item.Quantity, time.Now().UTC())

	var txn *domain.Transaction
	if item.Quantity > 0 {
		notes := cmd.Notes
		if notes == "" {
			notes = "Initial inventory"
		}
		txn, err = domain.NewTransaction(item.ID, item.SKU, 0, item.Quantity, cmd.Actor.UserID, cmd.Actor.UserID, item.DepartmentID, notes)
		if err != nil {
			return nil, apperrors.ErrValidation(err.Error()).Wrap(err)
		}
	}

	events := item.GetDomainEvents()

	if err := s.items.Create(ctx, item, txn); err != nil {
		if appErr := s.mapItemError(err, "create_item"); appErr != nil {
			return nil, appErr
		}
		s.logger.Error("Failed to create item", "sku", cmd.SKU, "error", err)
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordItemCreated(item.CategoryID)
		if txn != nil {
			s.metrics.RecordStockMutation(string(txn.Type))
		}
	}
	s.publishEvents(ctx, item.SKU, events)
	item.ClearDomainEvents()

	s.logger.Info("Created inventory item", "sku", item.SKU, "quantity", item.Quantity, "createdBy", cmd.Actor.UserID)
	return ToItemDTO(item), nil
}

// UpdateItem applies a patch to an item. A quantity change writes a ledger
// entry atomically with the item; any other change only bumps the version.
func (s *InventoryService) UpdateItem(ctx context.Context, cmd UpdateItemCommand) (*ItemDTO, error) {
	if !cmd.Actor.Role.CanMutateInventory() {
		return nil, apperrors.ErrForbidden("role may not update items")
	}

	id, err := primitive.ObjectIDFromHex(cmd.ItemID)
	if err != nil {
		return nil, apperrors.ErrValidation("invalid item id")
	}

	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to load item", "itemId", cmd.ItemID, "error", err)
		return nil, fmt.Errorf("failed to load item: %w", err)
	}
	if item == nil {
		return nil, apperrors.ErrNotFound("item")
	}

	previousQuantity := item.Quantity

	patch := domain.ItemPatch{
		Name:         cmd.Name,
		Description:  cmd.Description,
		CategoryID:   cmd.CategoryID,
		DepartmentID: cmd.DepartmentID,
		Unit:         cmd.Unit,
		Quantity:     cmd.Quantity,
		MinimumLevel: cmd.MinimumLevel,
		ReorderLevel: cmd.ReorderLevel,
		Cost:         cmd.Cost,
		Location:     cmd.Location,
		ExpiryDate:   cmd.ExpiryDate,
	}
	if cmd.Supplier != nil {
		patch.Supplier = &domain.Supplier{
			Name:          cmd.Supplier.Name,
			ContactPerson: cmd.Supplier.ContactPerson,
			Email:         cmd.Supplier.Email,
			Phone:         cmd.Supplier.Phone,
		}
	}

	if err := item.ApplyPatch(patch, cmd.Actor.UserID); err != nil {
		return nil, apperrors.ErrValidation(err.Error()).Wrap(err)
	}
	item.Recalculate(previousQuantity, time.Now().UTC())

	var txn *domain.Transaction
	if item.Quantity != previousQuantity {
		notes := cmd.Notes
		if notes == "" {
			notes = "Inventory update"
		}
		txn, err = domain.NewTransaction(item.ID, item.SKU, previousQuantity, item.Quantity, cmd.Actor.UserID, cmd.ApprovedBy, item.DepartmentID, notes)
		if err != nil {
			return nil, apperrors.ErrValidation(err.Error()).Wrap(err)
		}
	}

	events := item.GetDomainEvents()

	if err := s.items.Update(ctx, item, txn); err != nil {
		if appErr := s.mapItemError(err, "update_item"); appErr != nil {
			return nil, appErr
		}
		s.logger.Error("Failed to update item", "itemId", cmd.ItemID, "error", err)
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	if s.metrics != nil && txn != nil {
		s.metrics.RecordStockMutation(string(txn.Type))
	}
	s.publishEvents(ctx, item.SKU, events)
	item.ClearDomainEvents()

	s.logger.Info("Updated inventory item", "sku", item.SKU, "previousQuantity", previousQuantity, "quantity", item.Quantity, "updatedBy", cmd.Actor.UserID)
	return ToItemDTO(item), nil
}

// DeleteItem removes an item. Its ledger history is retained.
func (s *InventoryService) DeleteItem(ctx context.Context, cmd DeleteItemCommand) error {
	if !cmd.Actor.Role.CanDeleteItems() {
		return apperrors.ErrForbidden("role may not delete items")
	}

	id, err := primitive.ObjectIDFromHex(cmd.ItemID)
	if err != nil {
		return apperrors.ErrValidation("invalid item id")
	}

	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to load item", "itemId", cmd.ItemID, "error", err)
		return fmt.Errorf("failed to load item: %w", err)
	}
	if item == nil {
		return apperrors.ErrNotFound("item")
	}

	if err := s.items.Delete(ctx, id); err != nil {
		if appErr := s.mapItemError(err, "delete_item"); appErr != nil {
			return appErr
		}
		s.logger.Error("Failed to delete item", "itemId", cmd.ItemID, "error", err)
		return fmt.Errorf("failed to delete item: %w", err)
	}

	now := time.Now().UTC()
	s.publishEvents(ctx, item.SKU, []domain.DomainEvent{
		&domain.ItemDeletedEvent{SKU: item.SKU, DeletedBy: cmd.Actor.UserID, DeletedAt: now},
	})

	s.logger.Info("Deleted inventory item", "sku", item.SKU, "deletedBy", cmd.Actor.UserID)
	return nil
}

// GetItem retrieves an item by ID
func (s *InventoryService) GetItem(ctx context.Context, query GetItemQuery) (*ItemDTO, error) {
	id, err := primitive.ObjectIDFromHex(query.ItemID)
	if err != nil {
		return nil, apperrors.ErrValidation("invalid item id")
	}

	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get item", "itemId", query.ItemID, "error", err)
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if item == nil {
		return nil, apperrors.ErrNotFound("item")
	}

	return ToItemDTO(item), nil
}

// ListItems retrieves one page of items and the total item count
func (s *InventoryService) ListItems(ctx context.Context, query ListItemsQuery) ([]*ItemDTO, int64, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = 20
	}

	items, total, err := s.items.FindPage(ctx, query.Offset, limit)
	if err != nil {
		s.logger.Error("Failed to list items", "error", err)
		return nil, 0, fmt.Errorf("failed to list items: %w", err)
	}
	return ToItemDTOs(items), total, nil
}

// mapItemError translates domain sentinels to transport errors. A nil return
// means the error is not a domain condition and stays internal.
func (s *InventoryService) mapItemError(err error, operation string) *apperrors.AppError {
	switch {
	case errors.Is(err, domain.ErrDuplicateSKU):
		return apperrors.ErrConflict("sku already exists").Wrap(err)
	case errors.Is(err, domain.ErrItemNotFound):
		return apperrors.ErrNotFound("item").Wrap(err)
	case errors.Is(err, domain.ErrStaleItem):
		if s.metrics != nil {
			s.metrics.RecordConcurrencyConflict(operation)
		}
		return apperrors.ErrConcurrencyConflict("item").Wrap(err)
	default:
		return nil
	}
}

// publishEvents sends domain events to their topics. Publishing is best
// effort: the storage transaction already committed, so a broker failure is
// logged and the request still succeeds.
func (s *InventoryService) publishEvents(ctx context.Context, sku string, events []domain.DomainEvent) {
	if s.producer == nil {
		return
	}

	for _, event := range events {
		topic := kafka.Topics.ItemEvents
		switch event.(type) {
		case *domain.StockLevelChangedEvent:
			topic = kafka.Topics.StockEvents
		case *domain.LowStockAlertEvent:
			topic = kafka.Topics.AlertEvents
		}

		if alert, ok := event.(*domain.LowStockAlertEvent); ok && s.metrics != nil {
			s.metrics.RecordLowStockAlert(alert.Status)
		}

		envelope, err := kafka.NewEnvelope(event.EventType(), eventSource, sku, event.OccurredAt(), event)
		if err != nil {
			s.logger.Error("Failed to build event envelope", "eventType", event.EventType(), "sku", sku, "error", err)
			continue
		}

		if err := s.producer.PublishEvent(ctx, topic, envelope); err != nil {
			s.logger.Error("Failed to publish event", "eventType", event.EventType(), "topic", topic, "sku", sku, "error", err)
		}
	}
}
