// Package checkout orchestrates order placement: it gates on the cart,
// the session, and the delivery details, builds the order payload from the
// cart lines, and drives the post-submit navigation.
package checkout

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/amythology/seedsmart-client/internal/cart"
	"github.com/amythology/seedsmart-client/internal/nav"
	"github.com/amythology/seedsmart-client/internal/notify"
	"github.com/amythology/seedsmart-client/pkg/enums"
	pkgerrors "github.com/amythology/seedsmart-client/pkg/errors"
	"github.com/amythology/seedsmart-client/pkg/logger"
	"github.com/amythology/seedsmart-client/pkg/types"
)

// Cart is the cart surface checkout reads and clears.
type Cart interface {
	Lines() []cart.Line
	Total() float64
	IsEmpty() bool
	Clear(ctx context.Context) error
}

// Session is the identity surface gating submission.
type Session interface {
	IsAuthenticated(ctx context.Context) bool
	Role(ctx context.Context) (enums.UserRole, bool)
}

// OrderPlacer is the gateway surface checkout submits through.
type OrderPlacer interface {
	CreateOrder(ctx context.Context, input types.OrderCreate) (*types.Order, error)
}

// Scheduler defers a callback; swapped for a synchronous one in tests.
type Scheduler func(delay time.Duration, fn func())

// Details is the delivery form the user fills in.
type Details struct {
	Address       string
	Phone         string
	PaymentMethod enums.PaymentMethod
}

// Summary is the order breakdown the rendering layer shows before submit.
type Summary struct {
	Subtotal    float64
	DeliveryFee float64
	Total       float64
}

// Params wires the checkout flow.
type Params struct {
	Cart          Cart
	Session       Session
	Orders        OrderPlacer
	Notifier      notify.Notifier
	Nav           nav.Navigator
	Logger        *logger.Logger
	DeliveryFee   float64
	RedirectDelay time.Duration
	Schedule      Scheduler
}

type Flow struct {
	mu            sync.Mutex
	submitting    bool
	cart          Cart
	session       Session
	orders        OrderPlacer
	notifier      notify.Notifier
	nav           nav.Navigator
	logg          *logger.Logger
	deliveryFee   float64
	redirectDelay time.Duration
	schedule      Scheduler
}

const (
	msgCartEmpty      = "Your cart is empty"
	msgLoginRequired  = "Please login to place an order"
	msgBuyersOnly     = "Only buyers can place orders"
	msgMissingDetails = "Please fill in all delivery details"
)

// NewFlow builds the checkout flow in the Idle state.
func NewFlow(p Params) (*Flow, error) {
	if p.Cart == nil {
		return nil, fmt.Errorf("cart required")
	}
	if p.Session == nil {
		return nil, fmt.Errorf("session required")
	}
	if p.Orders == nil {
		return nil, fmt.Errorf("order placer required")
	}
	if p.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if p.Nav == nil {
		return nil, fmt.Errorf("navigator required")
	}
	if p.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if p.RedirectDelay <= 0 {
		p.RedirectDelay = 2 * time.Second
	}
	if p.Schedule == nil {
		p.Schedule = func(delay time.Duration, fn func()) { time.AfterFunc(delay, fn) }
	}
	return &Flow{
		cart:          p.Cart,
		session:       p.Session,
		orders:        p.Orders,
		notifier:      p.Notifier,
		nav:           p.Nav,
		logg:          p.Logger,
		deliveryFee:   p.DeliveryFee,
		redirectDelay: p.RedirectDelay,
		schedule:      p.Schedule,
	}, nil
}

// Summary returns the subtotal, delivery fee, and grand total for the
// current cart.
func (f *Flow) Summary() Summary {
	subtotal := f.cart.Total()
	return Summary{
		Subtotal:    subtotal,
		DeliveryFee: f.deliveryFee,
		Total:       subtotal + f.deliveryFee,
	}
}

// Submitting reports whether an order submission is in flight.
func (f *Flow) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// Submit runs the guards, places the order, and on success clears the cart
// and schedules the dashboard redirect. Every guard failure surfaces its
// own notification and leaves the flow Idle.
func (f *Flow) Submit(ctx context.Context, details Details) (*types.Order, error) {
	if err := f.begin(ctx, details); err != nil {
		return nil, err
	}
	defer f.end()

	payload := f.buildPayload(details)
	order, err := f.orders.CreateOrder(ctx, payload)
	if err != nil {
		f.logg.Error(ctx, "placing order failed", err)
		f.notifier.Error(pkgerrors.UserMessage(err))
		return nil, err
	}

	if err := f.cart.Clear(ctx); err != nil {
		f.logg.Error(ctx, "clearing cart after order failed", err)
	}
	f.notifier.Success("Order placed successfully!")
	f.schedule(f.redirectDelay, func() {
		f.nav.NavigateTo(nav.RouteDashboard)
	})
	return order, nil
}

// begin runs the guards and flips to Submitting atomically.
func (f *Flow) begin(ctx context.Context, details Details) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.submitting {
		return pkgerrors.New(pkgerrors.CodeConflict, "order submission already in progress")
	}
	if f.cart.IsEmpty() {
		f.notifier.Error(msgCartEmpty)
		return pkgerrors.New(pkgerrors.CodeValidation, msgCartEmpty)
	}
	if !f.session.IsAuthenticated(ctx) {
		f.notifier.Error(msgLoginRequired)
		f.schedule(f.redirectDelay, func() {
			f.nav.NavigateTo(nav.RouteLogin)
		})
		return pkgerrors.New(pkgerrors.CodeUnauthorized, msgLoginRequired)
	}
	if role, ok := f.session.Role(ctx); !ok || role != enums.UserRoleBuyer {
		f.notifier.Error(msgBuyersOnly)
		return pkgerrors.New(pkgerrors.CodeForbidden, msgBuyersOnly)
	}
	if strings.TrimSpace(details.Address) == "" || strings.TrimSpace(details.Phone) == "" {
		f.notifier.Error(msgMissingDetails)
		return pkgerrors.New(pkgerrors.CodeValidation, msgMissingDetails)
	}
	if !details.PaymentMethod.IsValid() {
		f.notifier.Error("Please choose a payment method")
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}

	f.submitting = true
	return nil
}

func (f *Flow) end() {
	f.mu.Lock()
	f.submitting = false
	f.mu.Unlock()
}

func (f *Flow) buildPayload(details Details) types.OrderCreate {
	lines := f.cart.Lines()
	items := make([]types.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, types.OrderItem{
			ProductID:   line.ProductID,
			ProductName: line.Name,
			Quantity:    line.Quantity,
			UnitPrice:   line.Price,
			TotalPrice:  line.Price * float64(line.Quantity),
		})
	}
	return types.OrderCreate{
		Items:           items,
		DeliveryAddress: strings.TrimSpace(details.Address) + " (Phone: " + strings.TrimSpace(details.Phone) + ")",
		PaymentMethod:   details.PaymentMethod,
	}
}
