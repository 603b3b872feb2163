// internal/domain/cart/entity.go
package cart

import (
	"errors"
	"time"
)

var (
	// ErrInvalidQuantity is returned when a line is added with quantity < 1
	ErrInvalidQuantity = errors.New("quantity must be at least 1")

	// ErrLineNotFound is returned when a removal targets a line id not in the cart
	ErrLineNotFound = errors.New("cart line not found")
)

// Line is one pending purchase entry in a cart. Name and UnitPrice are a
// snapshot taken at add time; LineTotal is recomputed on every quantity change.
type Line struct {
	LineID    uint64    `json:"line_id"`
	ProductID uint      `json:"product_id"`
	Name      string    `json:"name"`
	UnitPrice int64     `json:"unit_price"` // Price in cents at add time
	Quantity  int       `json:"quantity"`
	LineTotal int64     `json:"line_total"`
	AddedAt   time.Time `json:"added_at"`
}

// Cart is the session-local, uncommitted collection of purchase lines.
// Lines keep insertion order for display; LineID is a stable per-cart key so
// removals target content rather than a position that may have shifted.
type Cart struct {
	SessionID  string    `json:"session_id"`
	Lines      []Line    `json:"lines"`
	NextLineID uint64    `json:"next_line_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// New creates an empty cart for a session
func New(sessionID string) *Cart {
	now := time.Now().UTC()
	return &Cart{
		SessionID:  sessionID,
		Lines:      []Line{},
		NextLineID: 1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Add merges quantity into an existing line for the product, or appends a new
// line. At most one line exists per product id.
func (c *Cart) Add(productID uint, name string, unitPrice int64, quantity int) (*Line, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Quantity += quantity
			c.Lines[i].LineTotal = int64(c.Lines[i].Quantity) * c.Lines[i].UnitPrice
			c.UpdatedAt = time.Now().UTC()
			return &c.Lines[i], nil
		}
	}

	line := Line{
		LineID:    c.NextLineID,
		ProductID: productID,
		Name:      name,
		UnitPrice: unitPrice,
		Quantity:  quantity,
		LineTotal: int64(quantity) * unitPrice,
		AddedAt:   time.Now().UTC(),
	}
	c.NextLineID++
	c.Lines = append(c.Lines, line)
	c.UpdatedAt = time.Now().UTC()
	return &c.Lines[len(c.Lines)-1], nil
}

// Remove deletes the line with the given id, leaving the cart untouched when
// the id is unknown
func (c *Cart) Remove(lineID uint64) error {
	for i := range c.Lines {
		if c.Lines[i].LineID == lineID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			c.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return ErrLineNotFound
}

// Total sums all line totals; an empty cart totals zero
func (c *Cart) Total() int64 {
	var total int64
	for _, line := range c.Lines {
		total += line.LineTotal
	}
	return total
}

// Clear empties the cart unconditionally
func (c *Cart) Clear() {
	c.Lines = []Line{}
	c.UpdatedAt = time.Now().UTC()
}

// IsEmpty reports whether the cart holds no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// ItemCount returns the number of distinct lines
func (c *Cart) ItemCount() int {
	return len(c.Lines)
}

// TotalQuantity returns the sum of all line quantities
func (c *Cart) TotalQuantity() int {
	var total int
	for _, line := range c.Lines {
		total += line.Quantity
	}
	return total
}
