package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/amythology/seedsmart-client/internal/cart"
	"github.com/amythology/seedsmart-client/internal/catalog"
	"github.com/amythology/seedsmart-client/internal/checkout"
	"github.com/amythology/seedsmart-client/internal/gateway"
	"github.com/amythology/seedsmart-client/internal/nav"
	"github.com/amythology/seedsmart-client/internal/notify"
	"github.com/amythology/seedsmart-client/internal/session"
	"github.com/amythology/seedsmart-client/pkg/enums"
	pkgerrors "github.com/amythology/seedsmart-client/pkg/errors"
	"github.com/amythology/seedsmart-client/pkg/logger"
)

// screenNavigator prints route changes; the terminal has no real views to
// switch between.
func screenNavigator(out io.Writer) nav.Func {
	return func(route nav.Route) {
		fmt.Fprintf(out, ">> navigating to %s\n", route)
	}
}

// App is the interactive command loop over the state components.
type App struct {
	Gateway  *gateway.Client
	Session  *session.Store
	Catalog  *catalog.State
	Cart     *cart.Store
	Checkout *checkout.Flow
	Hub      *notify.Hub
	Nav      nav.Navigator
	Logger   *logger.Logger
	In       io.Reader
	Out      io.Writer
}

// Run reads commands until EOF or quit, draining toasts after each one.
func (a *App) Run(ctx context.Context) error {
	fmt.Fprintln(a.Out, "SeedSmart marketplace. Type 'help' for commands.")

	scanner := bufio.NewScanner(a.In)
	for {
		fmt.Fprint(a.Out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}
		a.dispatch(ctx, fields[0], fields[1:])
		a.flushToasts()
	}
}

func (a *App) dispatch(ctx context.Context, cmd string, args []string) {
	var err error
	switch cmd {
	case "help":
		a.printHelp()
	case "login":
		err = a.login(ctx, args)
	case "register":
		err = a.register(ctx, args)
	case "logout":
		err = a.Gateway.Logout(ctx)
	case "whoami":
		a.whoami(ctx)
	case "load":
		err = a.Catalog.Load(ctx)
	case "products":
		a.printProducts()
	case "search":
		a.Catalog.Search(strings.Join(args, " "))
		a.printProducts()
	case "filter":
		err = a.filter(args)
	case "clear-filters":
		a.Catalog.ClearFilters()
		a.printProducts()
	case "more":
		a.Catalog.LoadMore()
		a.printProducts()
	case "cart":
		a.printCart()
	case "add":
		err = a.addToCart(ctx, args)
	case "qty":
		err = a.updateQuantity(ctx, args)
	case "remove":
		if len(args) != 1 {
			err = fmt.Errorf("usage: remove <product-id>")
			break
		}
		err = a.Cart.RemoveItem(ctx, args[0])
	case "clear-cart":
		err = a.Cart.Clear(ctx)
	case "checkout":
		err = a.checkout(ctx, args)
	case "orders":
		err = a.orders(ctx)
	case "my-products":
		err = a.myProducts(ctx)
	case "order-status":
		err = a.orderStatus(ctx, args)
	default:
		fmt.Fprintf(a.Out, "unknown command %q, try 'help'\n", cmd)
	}
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			fmt.Fprintf(a.Out, "error: %s\n", pkgerrors.UserMessage(err))
		} else {
			fmt.Fprintf(a.Out, "error: %s\n", err)
		}
		a.Logger.Debug(a.Logger.WithField(ctx, "error_dump", pkgerrors.Dump(err)), "command failed: "+cmd)
	}
}

func (a *App) printHelp() {
	fmt.Fprintln(a.Out, `commands:
  login <username> <password>
  register <username> <email> <password> <full-name> <phone> <address> <buyer|seller>
  logout | whoami
  load | products | more | clear-filters
  search <term>
  filter [category=<c>] [price=<min-max>] [sort=<name|price-low|price-high|newest>]
  cart | add <id> <qty> | qty <id> <n> | remove <id> | clear-cart
  checkout <address> <phone> [cash_on_delivery|upi|card]
  orders | my-products | order-status <id> <status>
  quit`)
}

func (a *App) login(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: login <username> <password>")
	}
	result, err := a.Gateway.Login(ctx, gateway.LoginInput{Username: args[0], Password: args[1]})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "logged in as %s (%s)\n", args[0], result.UserRole)
	if result.UserRole == enums.UserRoleSeller {
		a.Nav.NavigateTo(nav.RouteDashboard)
	} else {
		a.Nav.NavigateTo(nav.RouteMarketplace)
	}
	return nil
}

func (a *App) register(ctx context.Context, args []string) error {
	if len(args) != 7 {
		return fmt.Errorf("usage: register <username> <email> <password> <full-name> <phone> <address> <buyer|seller>")
	}
	role, err := enums.ParseUserRole(args[6])
	if err != nil {
		return err
	}
	profile, err := a.Gateway.Register(ctx, gateway.RegisterInput{
		Username: args[0],
		Email:    args[1],
		Password: args[2],
		FullName: args[3],
		Phone:    args[4],
		Address:  args[5],
		Role:     role,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "registered %s, now log in\n", profile.Username)
	return nil
}

func (a *App) whoami(ctx context.Context) {
	if !a.Session.IsAuthenticated(ctx) {
		fmt.Fprintln(a.Out, "not logged in")
		return
	}
	userID, _ := a.Session.UserID(ctx)
	role, _ := a.Session.Role(ctx)
	fmt.Fprintf(a.Out, "user %s (%s)", userID, role)
	if expiry, ok := a.Session.TokenExpiry(ctx); ok {
		fmt.Fprintf(a.Out, ", token expires %s", expiry.Format("2006-01-02 15:04"))
	}
	fmt.Fprintln(a.Out)
}

func (a *App) filter(args []string) error {
	filters := catalog.Filters{}
	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if !found {
			return fmt.Errorf("usage: filter [category=<c>] [price=<min-max>] [sort=<key>]")
		}
		switch key {
		case "category":
			category, err := enums.ParseProductCategory(value)
			if err != nil {
				return err
			}
			filters.Category = &category
		case "price":
			filters.PriceRange = value
		case "sort":
			sortKey, err := enums.ParseSortKey(value)
			if err != nil {
				return err
			}
			filters.Sort = sortKey
		default:
			return fmt.Errorf("unknown filter %q", key)
		}
	}
	a.Catalog.ApplyFilters(filters)
	a.printProducts()
	return nil
}

func (a *App) printProducts() {
	products := a.Catalog.VisibleProducts()
	if len(products) == 0 {
		fmt.Fprintln(a.Out, "no products to show (try 'load')")
		return
	}
	for _, p := range products {
		fmt.Fprintf(a.Out, "  %-10s %-20s ₹%.2f/%s  %-12s %s\n",
			p.ID, p.Name, p.Price, p.Unit, p.Badge(), p.FarmerName)
	}
	fmt.Fprintf(a.Out, "showing %d of %d", len(products), a.Catalog.FilteredCount())
	if a.Catalog.HasMore() {
		fmt.Fprint(a.Out, " ('more' for the next page)")
	}
	fmt.Fprintln(a.Out)
}

func (a *App) printCart() {
	lines := a.Cart.Lines()
	if len(lines) == 0 {
		fmt.Fprintln(a.Out, "cart is empty")
		return
	}
	for _, line := range lines {
		fmt.Fprintf(a.Out, "  %-10s %-20s %d x ₹%.2f/%s\n",
			line.ProductID, line.Name, line.Quantity, line.Price, line.Unit)
	}
	summary := a.Checkout.Summary()
	fmt.Fprintf(a.Out, "subtotal ₹%.2f + delivery ₹%.2f = ₹%.2f (%d items)\n",
		summary.Subtotal, summary.DeliveryFee, summary.Total, a.Cart.Count())
}

func (a *App) addToCart(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: add <product-id> <qty>")
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("quantity must be a number")
	}
	return a.Cart.AddItem(ctx, args[0], qty)
}

func (a *App) updateQuantity(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: qty <product-id> <n>")
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("quantity must be a number")
	}
	return a.Cart.UpdateQuantity(ctx, args[0], qty)
}

func (a *App) checkout(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: checkout <address> <phone> [payment-method]")
	}
	method := enums.PaymentMethodCashOnDelivery
	if len(args) > 2 {
		parsed, err := enums.ParsePaymentMethod(args[2])
		if err != nil {
			return err
		}
		method = parsed
	}
	order, err := a.Checkout.Submit(ctx, checkout.Details{
		Address:       args[0],
		Phone:         args[1],
		PaymentMethod: method,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "order %s placed, total ₹%.2f\n", order.ID, order.TotalAmount)
	return nil
}

func (a *App) orders(ctx context.Context) error {
	orders, err := a.Gateway.MyOrders(ctx)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		fmt.Fprintln(a.Out, "no orders yet")
		return nil
	}
	for _, order := range orders {
		fmt.Fprintf(a.Out, "  %-10s %-10s ₹%.2f  %s\n",
			order.ID, order.Status, order.TotalAmount, order.CreatedAt.Format("2006-01-02"))
	}
	return nil
}

func (a *App) myProducts(ctx context.Context) error {
	products, err := a.Gateway.MyProducts(ctx)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		fmt.Fprintln(a.Out, "no listings yet")
		return nil
	}
	for _, p := range products {
		fmt.Fprintf(a.Out, "  %-10s %-20s ₹%.2f/%s  stock %d\n",
			p.ID, p.Name, p.Price, p.Unit, p.Quantity)
	}
	return nil
}

func (a *App) orderStatus(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: order-status <order-id> <status>")
	}
	status, err := enums.ParseOrderStatus(args[1])
	if err != nil {
		return err
	}
	order, err := a.Gateway.UpdateOrderStatus(ctx, args[0], status)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "order %s is now %s\n", order.ID, order.Status)
	return nil
}

func (a *App) flushToasts() {
	for _, toast := range a.Hub.Drain() {
		fmt.Fprintf(a.Out, "[%s] %s\n", toast.Kind, toast.Message)
	}
}
