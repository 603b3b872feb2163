// internal/domain/repair/service.go
package repair

import (
	"context"
	"errors"
	"fmt"

	"github.com/your-org/shop-backend/internal/config"
	"github.com/your-org/shop-backend/internal/domain/customer"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a repair order does not exist
	ErrNotFound = errors.New("repair order not found")

	// ErrInvalidTransition is returned for a status change the board does not allow
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Service handles repair order business logic
type Service struct {
	db        *gorm.DB
	config    *config.Config
	customers *customer.Service
}

// NewService creates a new repair order service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:        db,
		config:    cfg,
		customers: customer.NewService(db, cfg),
	}
}

// CreateOrderRequest represents repair order creation data
type CreateOrderRequest struct {
	CustomerID       uint   `json:"customer_id" binding:"required"`
	ProductDetails   string `json:"product_details" binding:"required"`
	IssueDescription string `json:"issue_description"`
}

// UpdateStatusRequest represents a status change request
type UpdateStatusRequest struct {
	Status OrderStatus `json:"status" binding:"required"`
}

// Create opens a new repair order for an existing customer
func (s *Service) Create(ctx context.Context, req *CreateOrderRequest) (*RepairOrder, error) {
	if _, err := s.customers.Get(ctx, req.CustomerID); err != nil {
		return nil, err
	}

	order := &RepairOrder{
		CustomerID:       req.CustomerID,
		ProductDetails:   req.ProductDetails,
		IssueDescription: req.IssueDescription,
		Status:           OrderStatusPending,
	}
	if err := s.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, fmt.Errorf("failed to create repair order: %w", err)
	}
	return order, nil
}

// List retrieves repair orders, optionally filtered by status, newest first
func (s *Service) List(ctx context.Context, status OrderStatus) ([]RepairOrder, error) {
	query := s.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		if !status.IsValid() {
			return nil, fmt.Errorf("unknown status %q", status)
		}
		query = query.Where("status = ?", status)
	}

	var orders []RepairOrder
	if err := query.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve repair orders: %w", err)
	}
	return orders, nil
}

// Get retrieves a single repair order by id
func (s *Service) Get(ctx context.Context, id uint) (*RepairOrder, error) {
	var order RepairOrder
	if err := s.db.WithContext(ctx).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve repair order: %w", err)
	}
	return &order, nil
}

// UpdateStatus moves a repair order along the board, enforcing the transition table
func (s *Service) UpdateStatus(ctx context.Context, id uint, target OrderStatus) (*RepairOrder, error) {
	if !target.IsValid() {
		return nil, fmt.Errorf("unknown status %q", target)
	}

	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, target)
	}

	if err := s.db.WithContext(ctx).Model(order).Update("status", target).Error; err != nil {
		return nil, fmt.Errorf("failed to update repair order status: %w", err)
	}
	order.Status = target
	return order, nil
}
