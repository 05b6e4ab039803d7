// Package cart owns the client-local shopping cart: line items with
// denormalized display fields captured at add-time, stock guards checked
// against the catalog snapshot, and synchronous persistence so the stored
// cart and the in-memory cart never diverge.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/amythology/seedsmart-client/internal/notify"
	"github.com/amythology/seedsmart-client/pkg/enums"
	pkgerrors "github.com/amythology/seedsmart-client/pkg/errors"
	"github.com/amythology/seedsmart-client/pkg/logger"
	"github.com/amythology/seedsmart-client/pkg/storage"
	"github.com/amythology/seedsmart-client/pkg/types"
)

// ProductSource yields the catalog snapshot stock checks run against.
type ProductSource interface {
	ProductByID(id string) (types.Product, bool)
}

// Line is one cart entry. Display fields are copied from the product at
// add-time so the cart renders without further catalog lookups.
type Line struct {
	ProductID  string                `json:"id"`
	Name       string                `json:"name"`
	Price      float64               `json:"price"`
	Unit       string                `json:"unit"`
	Category   enums.ProductCategory `json:"category"`
	FarmerName string                `json:"farmer_name"`
	Quantity   int                   `json:"quantity"`
}

type Store struct {
	mu       sync.Mutex
	storage  storage.Store
	products ProductSource
	notifier notify.Notifier
	logg     *logger.Logger
	lines    []Line
}

const (
	msgOutOfStock     = "Product is out of stock"
	msgNotEnoughStock = "Not enough stock available"
)

// NewStore builds the cart and loads any persisted lines. A corrupt stored
// cart drops to empty with a warning rather than failing startup.
func NewStore(ctx context.Context, st storage.Store, products ProductSource, notifier notify.Notifier, logg *logger.Logger) (*Store, error) {
	if st == nil {
		return nil, fmt.Errorf("storage required")
	}
	if products == nil {
		return nil, fmt.Errorf("product source required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}

	store := &Store{storage: st, products: products, notifier: notifier, logg: logg}
	store.load(ctx)
	return store, nil
}

func (s *Store) load(ctx context.Context) {
	raw, err := s.storage.Get(ctx, storage.KeyCart)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logg.Error(ctx, "reading persisted cart failed", err)
		}
		return
	}
	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		s.logg.Warn(ctx, "persisted cart is corrupt, starting empty")
		return
	}
	s.lines = lines
}

// AddItem merges qty into an existing line or appends a new one. It fails
// with a user-visible warning when the product is unknown, out of stock,
// or the resulting quantity would exceed available stock.
func (s *Store) AddItem(ctx context.Context, productID string, qty int) error {
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, ok := s.products.ProductByID(productID)
	if !ok || product.Quantity == 0 {
		s.notifier.Error(msgOutOfStock)
		return pkgerrors.New(pkgerrors.CodeValidation, msgOutOfStock)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if line := s.find(productID); line != nil {
		if line.Quantity+qty > product.Quantity {
			s.notifier.Error(msgNotEnoughStock)
			return pkgerrors.New(pkgerrors.CodeValidation, msgNotEnoughStock)
		}
		line.Quantity += qty
	} else {
		if qty > product.Quantity {
			s.notifier.Error(msgNotEnoughStock)
			return pkgerrors.New(pkgerrors.CodeValidation, msgNotEnoughStock)
		}
		s.lines = append(s.lines, Line{
			ProductID:  product.ID,
			Name:       product.Name,
			Price:      product.Price,
			Unit:       product.Unit,
			Category:   product.Category,
			FarmerName: product.FarmerName,
			Quantity:   qty,
		})
	}

	if err := s.save(ctx); err != nil {
		return err
	}
	s.notifier.Success(product.Name + " added to cart!")
	return nil
}

// UpdateQuantity sets a line's quantity. Zero or negative removes the
// line; exceeding current stock is rejected. Unknown lines no-op silently.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, newQty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	line := s.find(productID)
	if line == nil {
		return nil
	}

	if newQty <= 0 {
		s.remove(productID)
		return s.save(ctx)
	}

	product, ok := s.products.ProductByID(productID)
	if !ok {
		return nil
	}
	if newQty > product.Quantity {
		s.notifier.Error(msgNotEnoughStock)
		return pkgerrors.New(pkgerrors.CodeValidation, msgNotEnoughStock)
	}

	line.Quantity = newQty
	return s.save(ctx)
}

// RemoveItem deletes a line unconditionally.
func (s *Store) RemoveItem(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remove(productID)
	return s.save(ctx)
}

// Clear empties the cart. Idempotent.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
	if err := s.save(ctx); err != nil {
		return err
	}
	s.notifier.Info("Cart cleared")
	return nil
}

// callers hold the lock.
func (s *Store) find(productID string) *Line {
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			return &s.lines[i]
		}
	}
	return nil
}

// callers hold the lock.
func (s *Store) remove(productID string) {
	filtered := s.lines[:0]
	for _, line := range s.lines {
		if line.ProductID != productID {
			filtered = append(filtered, line)
		}
	}
	s.lines = filtered
}

// callers hold the lock.
func (s *Store) save(ctx context.Context) error {
	raw, err := json.Marshal(s.lines)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding cart")
	}
	if err := s.storage.Set(ctx, storage.KeyCart, string(raw)); err != nil {
		s.logg.Error(ctx, "persisting cart failed", err)
		s.notifier.Error("Failed to save cart")
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persisting cart")
	}
	return nil
}

// Lines returns a copy of the cart's line items.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Line(nil), s.lines...)
}

// Count returns the total quantity across all lines (the badge number).
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, line := range s.lines {
		count += line.Quantity
	}
	return count
}

// Total returns the exact sum of price*quantity across all lines.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0.0
	for _, line := range s.lines {
		total += line.Price * float64(line.Quantity)
	}
	return total
}

// FormatTotal renders the total to two decimal places.
func (s *Store) FormatTotal() string {
	return strconv.FormatFloat(s.Total(), 'f', 2, 64)
}

// IsEmpty reports whether the cart has no lines.
func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines) == 0
}
