package cart

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/amythology/seedsmart-client/internal/notify"
	"github.com/amythology/seedsmart-client/pkg/enums"
	pkgerrors "github.com/amythology/seedsmart-client/pkg/errors"
	"github.com/amythology/seedsmart-client/pkg/logger"
	"github.com/amythology/seedsmart-client/pkg/storage"
	"github.com/amythology/seedsmart-client/pkg/types"
)

type snapshot map[string]types.Product

func (s snapshot) ProductByID(id string) (types.Product, bool) {
	product, ok := s[id]
	return product, ok
}

func testSnapshot() snapshot {
	return snapshot{
		"p1": {ID: "p1", Name: "Tomato", Category: enums.ProductCategoryVegetables, Price: 20, Quantity: 10, Unit: "kg", FarmerName: "Anand Farms"},
		"p2": {ID: "p2", Name: "Apple", Category: enums.ProductCategoryFruits, Price: 80, Quantity: 3, Unit: "kg", FarmerName: "Hill Orchard"},
		"p0": {ID: "p0", Name: "Paneer", Category: enums.ProductCategoryDairy, Price: 300, Quantity: 0, Unit: "kg", FarmerName: "Valley Dairy"},
	}
}

func newTestStore(t *testing.T, st storage.Store) *Store {
	t.Helper()
	store, err := NewStore(context.Background(), st, testSnapshot(), notify.NewHub(nil, 0), logger.New(logger.Options{ServiceName: "test"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return store
}

// persistedLines decodes the stored cart for the persistence invariant.
func persistedLines(t *testing.T, st storage.Store) []Line {
	t.Helper()
	raw, err := st.Get(context.Background(), storage.KeyCart)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		t.Fatalf("stored cart is not valid json: %v", err)
	}
	return lines
}

func TestAddItemZeroStockFailsWithoutMutation(t *testing.T) {
	t.Parallel()

	mem := storage.NewMemoryStore()
	store := newTestStore(t, mem)
	ctx := context.Background()

	err := store.AddItem(ctx, "p0", 1)
	if err == nil {
		t.Fatal("expected error for out-of-stock product")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error code: %v", err)
	}
	if !store.IsEmpty() {
		t.Fatal("cart must be unchanged")
	}
}

func TestAddItemUnknownProductFails(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, storage.NewMemoryStore())
	if err := store.AddItem(context.Background(), "ghost", 1); err == nil {
		t.Fatal("expected error for unknown product")
	}
	if !store.IsEmpty() {
		t.Fatal("cart must be unchanged")
	}
}

func TestAddItemMergesAndEnforcesStock(t *testing.T) {
	t.Parallel()

	mem := storage.NewMemoryStore()
	store := newTestStore(t, mem)
	ctx := context.Background()

	if err := store.AddItem(ctx, "p1", 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.AddItem(ctx, "p1", 6); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := store.Lines()
	if len(lines) != 1 || lines[0].Quantity != 10 {
		t.Fatalf("expected merged line of 10, got %+v", lines)
	}

	// One more would exceed the 10 available.
	if err := store.AddItem(ctx, "p1", 1); err == nil {
		t.Fatal("expected stock overflow to fail")
	}
	if got := store.Lines()[0].Quantity; got != 10 {
		t.Fatalf("failed add must not mutate, got qty %d", got)
	}

	// A fresh line over stock fails outright.
	if err := store.AddItem(ctx, "p2", 4); err == nil {
		t.Fatal("expected over-stock first add to fail")
	}
	if len(store.Lines()) != 1 {
		t.Fatal("no line should have been appended")
	}
}

func TestAddItemCapturesDenormalizedFields(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, storage.NewMemoryStore())
	if err := store.AddItem(context.Background(), "p2", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	line := store.Lines()[0]
	if line.Name != "Apple" || line.Price != 80 || line.Unit != "kg" ||
		line.Category != enums.ProductCategoryFruits || line.FarmerName != "Hill Orchard" {
		t.Fatalf("denormalized fields missing: %+v", line)
	}
}

func TestUpdateQuantity(t *testing.T) {
	t.Parallel()

	mem := storage.NewMemoryStore()
	store := newTestStore(t, mem)
	ctx := context.Background()

	if err := store.AddItem(ctx, "p1", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := store.UpdateQuantity(ctx, "p1", 11); err == nil {
		t.Fatal("expected over-stock update to fail")
	}
	if got := store.Lines()[0].Quantity; got != 2 {
		t.Fatalf("rejected update must not mutate, got %d", got)
	}

	if err := store.UpdateQuantity(ctx, "p1", 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := store.Lines()[0].Quantity; got != 7 {
		t.Fatalf("expected qty 7, got %d", got)
	}

	if err := store.UpdateQuantity(ctx, "p1", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !store.IsEmpty() {
		t.Fatal("zero quantity should remove the line")
	}

	// Unknown lines no-op silently.
	if err := store.UpdateQuantity(ctx, "ghost", 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTotalAndCount(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, storage.NewMemoryStore())
	ctx := context.Background()

	store.AddItem(ctx, "p1", 3) // 60
	store.AddItem(ctx, "p2", 2) // 160

	if got := store.Total(); got != 220 {
		t.Fatalf("expected total 220, got %v", got)
	}
	if got := store.FormatTotal(); got != "220.00" {
		t.Fatalf("expected formatted total 220.00, got %q", got)
	}
	if got := store.Count(); got != 5 {
		t.Fatalf("expected count 5, got %d", got)
	}

	if err := store.RemoveItem(ctx, "p2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := store.Total(); got != 60 {
		t.Fatalf("removal should subtract the line's contribution, got %v", got)
	}
}

func TestClearIsIdempotent(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, storage.NewMemoryStore())
	ctx := context.Background()

	store.AddItem(ctx, "p1", 1)
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("second clear should not error: %v", err)
	}
	if !store.IsEmpty() {
		t.Fatal("cart should be empty")
	}
}

func TestPersistedCartMatchesMemoryAfterEveryMutation(t *testing.T) {
	t.Parallel()

	mem := storage.NewMemoryStore()
	store := newTestStore(t, mem)
	ctx := context.Background()

	check := func(step string) {
		stored := persistedLines(t, mem)
		inMemory := store.Lines()
		if len(stored) != len(inMemory) {
			t.Fatalf("%s: persisted %d lines, memory %d", step, len(stored), len(inMemory))
		}
		for i := range stored {
			if stored[i] != inMemory[i] {
				t.Fatalf("%s: line %d diverged: %+v vs %+v", step, i, stored[i], inMemory[i])
			}
		}
	}

	store.AddItem(ctx, "p1", 2)
	check("add")
	store.UpdateQuantity(ctx, "p1", 5)
	check("update")
	store.AddItem(ctx, "p2", 1)
	check("second add")
	store.RemoveItem(ctx, "p1")
	check("remove")
	store.Clear(ctx)
	check("clear")
}

func TestCartRoundTripAcrossRestart(t *testing.T) {
	t.Parallel()

	mem := storage.NewMemoryStore()
	store := newTestStore(t, mem)
	ctx := context.Background()

	store.AddItem(ctx, "p1", 4)
	store.AddItem(ctx, "p2", 2)
	want := store.Lines()

	reloaded := newTestStore(t, mem)
	got := reloaded.Lines()
	if len(got) != len(want) {
		t.Fatalf("expected %d lines after reload, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d changed across restart: %+v vs %+v", i, got[i], want[i])
		}
	}
}

func TestCorruptPersistedCartStartsEmpty(t *testing.T) {
	t.Parallel()

	mem := storage.NewMemoryStore()
	mem.Set(context.Background(), storage.KeyCart, "{broken")

	store := newTestStore(t, mem)
	if !store.IsEmpty() {
		t.Fatal("corrupt cart should load as empty")
	}
}
