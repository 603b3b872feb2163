// internal/domain/customer/service.go
package customer

import (
	"context"
	"errors"
	"fmt"

	"github.com/your-org/shop-backend/internal/config"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a customer does not exist
var ErrNotFound = errors.New("customer not found")

// Service handles customer directory business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new customer service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateCustomerRequest represents customer creation data
type CreateCustomerRequest struct {
	Name          string `json:"name" binding:"required"`
	ContactNumber string `json:"contact_number"`
	Address       string `json:"address"`
}

// Create adds a customer to the directory
func (s *Service) Create(ctx context.Context, req *CreateCustomerRequest) (*Customer, error) {
	c := &Customer{
		Name:          req.Name,
		ContactNumber: req.ContactNumber,
		Address:       req.Address,
	}
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return c, nil
}

// List retrieves all customers ordered by name
func (s *Service) List(ctx context.Context) ([]Customer, error) {
	var customers []Customer
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve customers: %w", err)
	}
	return customers, nil
}

// Search finds customers by a case-insensitive match on name or contact number
func (s *Service) Search(ctx context.Context, term string) ([]Customer, error) {
	if term == "" {
		return s.List(ctx)
	}

	var customers []Customer
	pattern := "%" + term + "%"
	err := s.db.WithContext(ctx).
		Where("name ILIKE ? OR contact_number ILIKE ?", pattern, pattern).
		Order("name ASC").
		Find(&customers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search customers: %w", err)
	}
	return customers, nil
}

// Get retrieves a single customer by id
func (s *Service) Get(ctx context.Context, id uint) (*Customer, error) {
	var c Customer
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve customer: %w", err)
	}
	return &c, nil
}
