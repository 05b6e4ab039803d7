package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/amythology/seedsmart-client/pkg/enums"
)

// Product is the catalog entry as served by the backend. Within a session
// it is immutable on the client; the whole set is refreshed on reload.
type Product struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Category    enums.ProductCategory `json:"category"`
	Price       float64               `json:"price"`
	Quantity    int                   `json:"quantity"`
	Unit        string                `json:"unit"`
	ImageURL    *string               `json:"image_url,omitempty"`
	FarmerID    string                `json:"farmer_id"`
	FarmerName  string                `json:"farmer_name"`
	CreatedAt   time.Time             `json:"created_at"`
	IsAvailable bool                  `json:"is_available"`
}

// Validate rejects malformed server payloads instead of letting undefined
// fields propagate into client state.
func (p Product) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("product id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("product %s: name is required", p.ID)
	}
	if !p.Category.IsValid() {
		return fmt.Errorf("product %s: invalid category %q", p.ID, p.Category)
	}
	if p.Price < 0 {
		return fmt.Errorf("product %s: negative price", p.ID)
	}
	if p.Quantity < 0 {
		return fmt.Errorf("product %s: negative quantity", p.ID)
	}
	return nil
}

// InStock reports whether any quantity is left to sell.
func (p Product) InStock() bool {
	return p.Quantity > 0
}

// StockBadge summarizes availability for listing surfaces.
type StockBadge string

const (
	StockBadgeOut StockBadge = "out_of_stock"
	StockBadgeLow StockBadge = "low_stock"
	StockBadgeIn  StockBadge = "in_stock"
)

const lowStockThreshold = 10

// Badge classifies the product's remaining quantity.
func (p Product) Badge() StockBadge {
	switch {
	case p.Quantity == 0:
		return StockBadgeOut
	case p.Quantity < lowStockThreshold:
		return StockBadgeLow
	default:
		return StockBadgeIn
	}
}
