package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/amythology/seedsmart-client/internal/cart"
	"github.com/amythology/seedsmart-client/internal/nav"
	"github.com/amythology/seedsmart-client/internal/notify"
	"github.com/amythology/seedsmart-client/pkg/enums"
	pkgerrors "github.com/amythology/seedsmart-client/pkg/errors"
	"github.com/amythology/seedsmart-client/pkg/logger"
	"github.com/amythology/seedsmart-client/pkg/types"
)

type stubCart struct {
	lines   []cart.Line
	cleared bool
}

func (s *stubCart) Lines() []cart.Line { return append([]cart.Line(nil), s.lines...) }
func (s *stubCart) IsEmpty() bool      { return len(s.lines) == 0 }
func (s *stubCart) Total() float64 {
	total := 0.0
	for _, line := range s.lines {
		total += line.Price * float64(line.Quantity)
	}
	return total
}
func (s *stubCart) Clear(ctx context.Context) error {
	s.lines = nil
	s.cleared = true
	return nil
}

type stubSession struct {
	authenticated bool
	role          enums.UserRole
}

func (s *stubSession) IsAuthenticated(ctx context.Context) bool { return s.authenticated }
func (s *stubSession) Role(ctx context.Context) (enums.UserRole, bool) {
	return s.role, s.role != ""
}

type stubPlacer struct {
	got   *types.OrderCreate
	err   error
	order types.Order
	hook  func()
}

func (s *stubPlacer) CreateOrder(ctx context.Context, input types.OrderCreate) (*types.Order, error) {
	s.got = &input
	if s.hook != nil {
		s.hook()
	}
	if s.err != nil {
		return nil, s.err
	}
	return &s.order, nil
}

type navRecorder struct {
	routes []nav.Route
}

func (n *navRecorder) NavigateTo(route nav.Route) {
	n.routes = append(n.routes, route)
}

type scheduled struct {
	delays []time.Duration
}

// immediate runs callbacks inline and records the requested delay.
func (s *scheduled) immediate(delay time.Duration, fn func()) {
	s.delays = append(s.delays, delay)
	fn()
}

type fixture struct {
	flow    *Flow
	cart    *stubCart
	session *stubSession
	placer  *stubPlacer
	hub     *notify.Hub
	nav     *navRecorder
	sched   *scheduled
}

func twoLines() []cart.Line {
	return []cart.Line{
		{ProductID: "p1", Name: "Tomato", Price: 20, Unit: "kg", Quantity: 3},
		{ProductID: "p2", Name: "Apple", Price: 80, Unit: "kg", Quantity: 2},
	}
}

func newFixture(t *testing.T, mutate func(*fixture)) *fixture {
	t.Helper()
	f := &fixture{
		cart:    &stubCart{lines: twoLines()},
		session: &stubSession{authenticated: true, role: enums.UserRoleBuyer},
		placer:  &stubPlacer{order: types.Order{ID: "o1", Status: enums.OrderStatusPending}},
		hub:     notify.NewHub(nil, 0),
		nav:     &navRecorder{},
		sched:   &scheduled{},
	}
	if mutate != nil {
		mutate(f)
	}
	flow, err := NewFlow(Params{
		Cart:          f.cart,
		Session:       f.session,
		Orders:        f.placer,
		Notifier:      f.hub,
		Nav:           f.nav,
		Logger:        logger.New(logger.Options{ServiceName: "test"}),
		DeliveryFee:   50,
		RedirectDelay: 2 * time.Second,
		Schedule:      f.sched.immediate,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.flow = flow
	return f
}

func validDetails() Details {
	return Details{Address: "12 Market Road", Phone: "9876543210", PaymentMethod: enums.PaymentMethodCashOnDelivery}
}

func lastToast(t *testing.T, hub *notify.Hub) notify.Toast {
	t.Helper()
	toasts := hub.Drain()
	if len(toasts) == 0 {
		t.Fatal("expected a notification")
	}
	return toasts[len(toasts)-1]
}

func TestSubmitEmptyCart(t *testing.T) {
	t.Parallel()

	f := newFixture(t, func(f *fixture) { f.cart.lines = nil })
	if _, err := f.flow.Submit(context.Background(), validDetails()); err == nil {
		t.Fatal("expected empty-cart guard to fail")
	}
	if toast := lastToast(t, f.hub); toast.Message != "Your cart is empty" {
		t.Fatalf("unexpected message: %q", toast.Message)
	}
	if f.placer.got != nil {
		t.Fatal("no order should have been submitted")
	}
}

func TestSubmitRequiresAuthentication(t *testing.T) {
	t.Parallel()

	f := newFixture(t, func(f *fixture) { f.session.authenticated = false })
	_, err := f.flow.Submit(context.Background(), validDetails())
	if err == nil {
		t.Fatal("expected unauthenticated guard to fail")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("unexpected code: %v", err)
	}
	if len(f.nav.routes) != 1 || f.nav.routes[0] != nav.RouteLogin {
		t.Fatalf("expected scheduled login redirect, got %v", f.nav.routes)
	}
}

func TestSubmitRequiresBuyerRole(t *testing.T) {
	t.Parallel()

	f := newFixture(t, func(f *fixture) { f.session.role = enums.UserRoleSeller })
	_, err := f.flow.Submit(context.Background(), validDetails())
	if err == nil {
		t.Fatal("expected role guard to fail")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("unexpected code: %v", err)
	}
	if toast := lastToast(t, f.hub); toast.Message != "Only buyers can place orders" {
		t.Fatalf("unexpected message: %q", toast.Message)
	}
}

func TestSubmitRequiresDeliveryDetails(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	for _, details := range []Details{
		{Address: "", Phone: "9876543210", PaymentMethod: enums.PaymentMethodCashOnDelivery},
		{Address: "12 Market Road", Phone: "  ", PaymentMethod: enums.PaymentMethodCashOnDelivery},
	} {
		if _, err := f.flow.Submit(context.Background(), details); err == nil {
			t.Fatalf("expected details guard to fail for %+v", details)
		}
	}
	if f.placer.got != nil {
		t.Fatal("no order should have been submitted")
	}
}

func TestSubmitSuccess(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	order, err := f.flow.Submit(context.Background(), validDetails())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.ID != "o1" {
		t.Fatalf("unexpected order: %+v", order)
	}

	if len(f.placer.got.Items) != 2 {
		t.Fatalf("expected one item per cart line, got %d", len(f.placer.got.Items))
	}
	first := f.placer.got.Items[0]
	if first.ProductID != "p1" || first.UnitPrice != 20 || first.Quantity != 3 || first.TotalPrice != 60 {
		t.Fatalf("line totals wrong: %+v", first)
	}
	if f.placer.got.PaymentMethod != enums.PaymentMethodCashOnDelivery {
		t.Fatalf("payment method not carried: %v", f.placer.got.PaymentMethod)
	}

	if !f.cart.cleared {
		t.Fatal("cart should be cleared on success")
	}
	if toast := lastToast(t, f.hub); toast.Kind != notify.KindSuccess {
		t.Fatalf("expected success toast, got %+v", toast)
	}
	if len(f.nav.routes) != 1 || f.nav.routes[0] != nav.RouteDashboard {
		t.Fatalf("expected dashboard redirect, got %v", f.nav.routes)
	}
	if len(f.sched.delays) != 1 || f.sched.delays[0] != 2*time.Second {
		t.Fatalf("redirect should honor the configured delay, got %v", f.sched.delays)
	}
	if f.flow.Submitting() {
		t.Fatal("flow should return to idle")
	}
}

func TestSubmitFailureLeavesCartUntouched(t *testing.T) {
	t.Parallel()

	f := newFixture(t, func(f *fixture) {
		f.placer.err = pkgerrors.New(pkgerrors.CodeValidation, "Not enough stock available")
	})
	if _, err := f.flow.Submit(context.Background(), validDetails()); err == nil {
		t.Fatal("expected submit to fail")
	}
	if f.cart.cleared || f.cart.IsEmpty() {
		t.Fatal("cart must be untouched on failure")
	}
	if toast := lastToast(t, f.hub); toast.Message != "Not enough stock available" {
		t.Fatalf("failure toast should carry the server message, got %q", toast.Message)
	}
	if len(f.nav.routes) != 0 {
		t.Fatalf("no redirect on failure, got %v", f.nav.routes)
	}
	if f.flow.Submitting() {
		t.Fatal("flow should return to idle")
	}
}

func TestSubmitBlocksReentry(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	f.placer.hook = func() {
		if _, err := f.flow.Submit(context.Background(), validDetails()); err == nil {
			t.Error("expected re-entrant submit to be rejected")
		} else if pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
			t.Errorf("unexpected code: %v", err)
		}
	}
	if _, err := f.flow.Submit(context.Background(), validDetails()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSummary(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	summary := f.flow.Summary()
	if summary.Subtotal != 220 || summary.DeliveryFee != 50 || summary.Total != 270 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}
