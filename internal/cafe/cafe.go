// Package cafe records café orders, stock items and drawer withdrawals.
package cafe

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"console-cafe-backend/internal/apperr"
	"console-cafe-backend/internal/clock"
	"console-cafe-backend/internal/model"
	"console-cafe-backend/internal/store"
)

// DefaultReorderLevel applies when an inventory item is added without one.
const DefaultReorderLevel = 10

type OrderItemRequest struct {
	Name     string  `json:"name" binding:"required"`
	Price    float64 `json:"price" binding:"gte=0"`
	Quantity int     `json:"quantity" binding:"gte=1"`
}

// OrderRequest creates an order. TotalAmount is derived from the items when omitted.
type OrderRequest struct {
	CustomerName string             `json:"customer_name" binding:"required"`
	Items        []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	TotalAmount  *float64           `json:"total_amount" binding:"omitempty,gte=0"`
	Status       model.OrderStatus  `json:"status" binding:"omitempty,oneof=pending completed cancelled"`
}

type InventoryRequest struct {
	Name         string  `json:"name" binding:"required"`
	Category     string  `json:"category" binding:"required,oneof=drinks snacks gaming_accessories"`
	Quantity     int     `json:"quantity" binding:"gte=0"`
	Price        float64 `json:"price" binding:"gte=0"`
	Cost         float64 `json:"cost" binding:"gte=0"`
	ReorderLevel *int    `json:"reorder_level" binding:"omitempty,gte=0"`
}

type WithdrawalRequest struct {
	Amount      float64 `json:"amount" binding:"gt=0"`
	Description string  `json:"description" binding:"required"`
	Category    string  `json:"category" binding:"required,oneof=expense withdrawal"`
}

type Service struct {
	store store.Store
	clock clock.Clock
	log   *zap.Logger
}

func New(s store.Store, c clock.Clock, log *zap.Logger) *Service {
	return &Service{store: s, clock: c, log: log}
}

func (s *Service) CreateOrder(ctx context.Context, req OrderRequest) (*model.CafeOrder, error) {
	customer := strings.TrimSpace(req.CustomerName)
	if customer == "" {
		return nil, apperr.Validation("customer_name is required")
	}
	if len(req.Items) == 0 {
		return nil, apperr.Validation("an order needs at least one item")
	}

	total := decimal.Zero
	items := make([]model.OrderItem, 0, len(req.Items))
	for i, it := range req.Items {
		name := strings.TrimSpace(it.Name)
		if name == "" || it.Price < 0 || it.Quantity < 1 {
			return nil, apperr.Validation("item %d: name, non-negative price and quantity >= 1 are required", i)
		}
		items = append(items, model.OrderItem{Name: name, Price: it.Price, Quantity: it.Quantity})
		total = total.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	status := req.Status
	if status == "" {
		status = model.OrderPending
	}
	switch status {
	case model.OrderPending, model.OrderCompleted, model.OrderCancelled:
	default:
		return nil, apperr.Validation("invalid order status %q", status)
	}

	order := &model.CafeOrder{
		ID:           uuid.NewString(),
		CustomerName: customer,
		Items:        items,
		TotalAmount:  total.Round(2).InexactFloat64(),
		Status:       status,
		CreatedAt:    s.clock.Now().UTC(),
	}
	if req.TotalAmount != nil {
		if *req.TotalAmount < 0 {
			return nil, apperr.Validation("total_amount must not be negative")
		}
		order.TotalAmount = *req.TotalAmount
	}

	if err := s.store.CreateCafeOrder(ctx, order); err != nil {
		return nil, err
	}
	s.log.Info("cafe order created", zap.String("order_id", order.ID), zap.Float64("total_amount", order.TotalAmount))
	return order, nil
}

func (s *Service) ListOrders(ctx context.Context) ([]model.CafeOrder, error) {
	return s.store.ListCafeOrders(ctx)
}

func (s *Service) AddInventoryItem(ctx context.Context, req InventoryRequest) (*model.InventoryItem, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	switch req.Category {
	case model.CategoryDrinks, model.CategorySnacks, model.CategoryGamingAccessories:
	default:
		return nil, apperr.Validation("invalid inventory category %q", req.Category)
	}
	if req.Quantity < 0 || req.Price < 0 || req.Cost < 0 {
		return nil, apperr.Validation("quantity, price and cost must not be negative")
	}

	reorder := DefaultReorderLevel
	if req.ReorderLevel != nil {
		if *req.ReorderLevel < 0 {
			return nil, apperr.Validation("reorder_level must not be negative")
		}
		reorder = *req.ReorderLevel
	}

	item := &model.InventoryItem{
		ID:           uuid.NewString(),
		Name:         name,
		Category:     req.Category,
		Quantity:     req.Quantity,
		Price:        req.Price,
		Cost:         req.Cost,
		ReorderLevel: reorder,
	}
	if err := s.store.CreateInventoryItem(ctx, item); err != nil {
		return nil, err
	}
	s.log.Info("inventory item added", zap.String("item_id", item.ID), zap.String("category", item.Category))
	return item, nil
}

func (s *Service) ListInventory(ctx context.Context) ([]model.InventoryItem, error) {
	return s.store.ListInventoryItems(ctx)
}

// LowStock returns the items at or below their reorder level.
func (s *Service) LowStock(ctx context.Context) ([]model.InventoryItem, error) {
	items, err := s.store.ListInventoryItems(ctx)
	if err != nil {
		return nil, err
	}
	low := make([]model.InventoryItem, 0)
	for _, it := range items {
		if it.Quantity <= it.ReorderLevel {
			low = append(low, it)
		}
	}
	return low, nil
}

func (s *Service) RecordWithdrawal(ctx context.Context, req WithdrawalRequest) (*model.Withdrawal, error) {
	if !(req.Amount > 0) {
		return nil, apperr.Validation("amount must be greater than 0")
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, apperr.Validation("description is required")
	}
	if req.Category != model.WithdrawalExpense && req.Category != model.WithdrawalCash {
		return nil, apperr.Validation("invalid withdrawal category %q", req.Category)
	}

	w := &model.Withdrawal{
		ID:          uuid.NewString(),
		Amount:      req.Amount,
		Description: description,
		Category:    req.Category,
		Date:        s.clock.Now().UTC(),
	}
	if err := s.store.CreateWithdrawal(ctx, w); err != nil {
		return nil, err
	}
	s.log.Info("withdrawal recorded", zap.String("withdrawal_id", w.ID), zap.Float64("amount", w.Amount))
	return w, nil
}

func (s *Service) ListWithdrawals(ctx context.Context) ([]model.Withdrawal, error) {
	return s.store.ListWithdrawals(ctx)
}
