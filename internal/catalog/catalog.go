// Package catalog holds the full product list and the derived
// filtered/sorted view the browse surfaces render from. The master list is
// seeded once from the gateway and never mutated by filtering; every
// transform produces a fresh derived slice.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/amythology/seedsmart-client/internal/gateway"
	"github.com/amythology/seedsmart-client/internal/notify"
	"github.com/amythology/seedsmart-client/pkg/debounce"
	"github.com/amythology/seedsmart-client/pkg/enums"
	"github.com/amythology/seedsmart-client/pkg/logger"
	"github.com/amythology/seedsmart-client/pkg/types"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ProductLister is the gateway surface the catalog needs.
type ProductLister interface {
	ListProducts(ctx context.Context, query gateway.ProductQuery) ([]types.Product, error)
}

// Filters is the transient search/filter/sort state. It is never persisted.
type Filters struct {
	Term       string
	Category   *enums.ProductCategory
	PriceRange string // "min-max" or open-ended "min-"
	Sort       enums.SortKey
}

// Params wires the catalog state.
type Params struct {
	Lister         ProductLister
	Notifier       notify.Notifier
	Logger         *logger.Logger
	PageSize       int
	SearchDebounce time.Duration
}

const defaultPageSize = 12

type State struct {
	mu        sync.Mutex
	lister    ProductLister
	notifier  notify.Notifier
	logg      *logger.Logger
	pageSize  int
	debouncer *debounce.Timer
	collator  *collate.Collator

	products []types.Product
	filtered []types.Product
	filters  Filters
	page     int
}

// NewState builds an empty catalog; call Load to seed it.
func NewState(p Params) (*State, error) {
	if p.Lister == nil {
		return nil, fmt.Errorf("product lister required")
	}
	if p.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if p.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if p.PageSize <= 0 {
		p.PageSize = defaultPageSize
	}
	if p.SearchDebounce <= 0 {
		p.SearchDebounce = 300 * time.Millisecond
	}
	return &State{
		lister:    p.Lister,
		notifier:  p.Notifier,
		logg:      p.Logger,
		pageSize:  p.PageSize,
		debouncer: debounce.New(p.SearchDebounce),
		collator:  collate.New(language.English),
		page:      1,
	}, nil
}

// Load fetches the full product set and replaces both the master list and
// the filtered view. On failure the prior state is left untouched and the
// failure is surfaced to the user.
func (s *State) Load(ctx context.Context) error {
	products, err := s.lister.ListProducts(ctx, gateway.ProductQuery{})
	if err != nil {
		s.logg.Error(ctx, "loading products failed", err)
		s.notifier.Error("Failed to load products")
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = products
	s.filters = Filters{}
	s.filtered = append([]types.Product(nil), products...)
	s.page = 1
	return nil
}

// Search recomputes the filtered view from the search term alone:
// case-insensitive substring match against name, description, and farmer
// name. An empty term resets to the full set.
func (s *State) Search(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = Filters{Term: term}
	s.recompute()
}

// DebouncedSearch coalesces rapid keystrokes; the filter recompute fires
// once after the idle delay.
func (s *State) DebouncedSearch(term string) {
	s.debouncer.Schedule(func() {
		s.Search(term)
	})
}

// ApplyFilters recomputes the filtered view by chaining search, category,
// price range, and sort. A missing or unknown sort key falls back to the
// name sort, matching the filter panel's default selection.
func (s *State) ApplyFilters(filters Filters) {
	if !filters.Sort.IsValid() {
		filters.Sort = enums.SortKeyName
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = filters
	s.recompute()
}

// ClearFilters resets the view to the full, unsorted product set.
func (s *State) ClearFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = Filters{}
	s.recompute()
}

// recompute rebuilds the derived view; callers hold the lock.
func (s *State) recompute() {
	filtered := make([]types.Product, 0, len(s.products))
	term := strings.ToLower(strings.TrimSpace(s.filters.Term))
	minPrice, maxPrice, priceBounded := parsePriceRange(s.filters.PriceRange)

	for _, product := range s.products {
		if term != "" && !matchesTerm(product, term) {
			continue
		}
		if s.filters.Category != nil && product.Category != *s.filters.Category {
			continue
		}
		if priceBounded {
			if product.Price < minPrice {
				continue
			}
			if maxPrice != nil && product.Price > *maxPrice {
				continue
			}
		}
		filtered = append(filtered, product)
	}

	s.sortView(filtered)
	s.filtered = filtered
	s.page = 1
}

func matchesTerm(product types.Product, term string) bool {
	return strings.Contains(strings.ToLower(product.Name), term) ||
		strings.Contains(strings.ToLower(product.Description), term) ||
		strings.Contains(strings.ToLower(product.FarmerName), term)
}

// parsePriceRange understands "min-max" and open-ended "min-" brackets.
// Anything unparsable disables the price filter.
func parsePriceRange(raw string) (float64, *float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil, false
	}
	parts := strings.SplitN(raw, "-", 2)
	min, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, nil, false
	}
	if len(parts) == 1 || strings.TrimSpace(parts[1]) == "" {
		return min, nil, true
	}
	max, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, nil, false
	}
	return min, &max, true
}

func (s *State) sortView(view []types.Product) {
	switch s.filters.Sort {
	case enums.SortKeyPriceLow:
		sort.SliceStable(view, func(i, j int) bool { return view[i].Price < view[j].Price })
	case enums.SortKeyPriceHigh:
		sort.SliceStable(view, func(i, j int) bool { return view[i].Price > view[j].Price })
	case enums.SortKeyNewest:
		sort.SliceStable(view, func(i, j int) bool { return view[i].CreatedAt.After(view[j].CreatedAt) })
	case enums.SortKeyName:
		sort.SliceStable(view, func(i, j int) bool {
			return s.collator.CompareString(view[i].Name, view[j].Name) < 0
		})
	}
}

// VisibleProducts returns the slice of the filtered view the current page
// exposes: the first page*pageSize entries.
func (s *State) VisibleProducts() []types.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	limit := s.page * s.pageSize
	if limit > len(s.filtered) {
		limit = len(s.filtered)
	}
	return append([]types.Product(nil), s.filtered[:limit]...)
}

// LoadMore reveals the next page of the filtered view without refetching.
func (s *State) LoadMore() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page++
}

// HasMore reports whether the filtered view extends past the current page.
func (s *State) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page*s.pageSize < len(s.filtered)
}

// FilteredCount returns the size of the derived view.
func (s *State) FilteredCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.filtered)
}

// TotalCount returns the size of the master list.
func (s *State) TotalCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.products)
}

// ProductByID looks up a product in the master list.
func (s *State) ProductByID(id string) (types.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, product := range s.products {
		if product.ID == id {
			return product, true
		}
	}
	return types.Product{}, false
}

// CancelPendingSearch drops a debounced search that has not fired yet.
func (s *State) CancelPendingSearch() {
	s.debouncer.Cancel()
}
