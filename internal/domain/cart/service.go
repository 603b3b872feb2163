// internal/domain/cart/service.go
package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/your-org/shop-backend/internal/config"
	"github.com/your-org/shop-backend/internal/domain/product"
)

// Service handles cart business logic. Carts live in Redis keyed by session id
// so each POS terminal session owns exactly one cart; nothing durable is
// written until checkout.
type Service struct {
	redisClient *redis.Client
	products    *product.Service
	config      *config.Config
}

// NewService creates a new cart service
func NewService(redisClient *redis.Client, products *product.Service, cfg *config.Config) *Service {
	return &Service{
		redisClient: redisClient,
		products:    products,
		config:      cfg,
	}
}

// AddItemRequest represents add to cart request
type AddItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// CartResponse represents a cart with its computed totals
type CartResponse struct {
	SessionID     string `json:"session_id"`
	Lines         []Line `json:"lines"`
	ItemCount     int    `json:"item_count"`
	TotalQuantity int    `json:"total_quantity"`
	Total         int64  `json:"total"`
}

// Load retrieves the session cart, returning a fresh empty cart when none exists
func (s *Service) Load(ctx context.Context, sessionID string) (*Cart, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID required for cart")
	}

	data, err := s.redisClient.Get(ctx, cartKey(sessionID)).Result()
	if err == redis.Nil {
		return New(sessionID), nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var c Cart
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return &c, nil
}

// AddItem snapshots the product's name and price into the cart and merges
// quantity into any existing line for the same product. Stock is checked as a
// courtesy here; checkout re-validates against current stock before any write.
func (s *Service) AddItem(ctx context.Context, sessionID string, req *AddItemRequest) (*CartResponse, error) {
	p, err := s.products.Get(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	c, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	requested := req.Quantity
	for _, line := range c.Lines {
		if line.ProductID == req.ProductID {
			requested += line.Quantity
		}
	}
	if p.Quantity < requested {
		return nil, fmt.Errorf("insufficient stock for %s: available %d, requested %d", p.Name, p.Quantity, requested)
	}

	if _, err := c.Add(p.ID, p.Name, p.UnitPrice, req.Quantity); err != nil {
		return nil, err
	}

	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return s.toResponse(c), nil
}

// RemoveItem deletes a line by its stable line id
func (s *Service) RemoveItem(ctx context.Context, sessionID string, lineID uint64) (*CartResponse, error) {
	c, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := c.Remove(lineID); err != nil {
		return nil, err
	}

	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return s.toResponse(c), nil
}

// Clear drops the session cart entirely
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	if err := s.redisClient.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// Get returns the cart with computed totals for display
func (s *Service) Get(ctx context.Context, sessionID string) (*CartResponse, error) {
	c, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(c), nil
}

func (s *Service) save(ctx context.Context, c *Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.redisClient.Set(ctx, cartKey(c.SessionID), data, s.config.Shop.CartTTL).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (s *Service) toResponse(c *Cart) *CartResponse {
	return &CartResponse{
		SessionID:     c.SessionID,
		Lines:         c.Lines,
		ItemCount:     c.ItemCount(),
		TotalQuantity: c.TotalQuantity(),
		Total:         c.Total(),
	}
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:session:%s", sessionID)
}
