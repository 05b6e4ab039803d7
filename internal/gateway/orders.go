package gateway

import (
	"context"
	"net/http"

	"github.com/amythology/seedsmart-client/pkg/enums"
	pkgerrors "github.com/amythology/seedsmart-client/pkg/errors"
	"github.com/amythology/seedsmart-client/pkg/types"
)

// CreateOrder submits the checkout payload.
func (c *Client) CreateOrder(ctx context.Context, input types.OrderCreate) (*types.Order, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}

	var order types.Order
	if err := c.do(ctx, http.MethodPost, "/orders/", nil, input, &order, requestOptions{}); err != nil {
		return nil, err
	}
	return &order, nil
}

// MyOrders lists the authenticated buyer's order history.
func (c *Client) MyOrders(ctx context.Context) ([]types.Order, error) {
	var orders []types.Order
	if err := c.do(ctx, http.MethodGet, "/orders/my-orders", nil, nil, &orders, requestOptions{}); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder fetches one order by id.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*types.Order, error) {
	if orderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	var order types.Order
	if err := c.do(ctx, http.MethodGet, "/orders/"+orderID, nil, nil, &order, requestOptions{}); err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrderStatus moves an order through its lifecycle (seller surface).
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID string, status enums.OrderStatus) (*types.Order, error) {
	if orderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}

	var order types.Order
	if err := c.do(ctx, http.MethodPatch, "/orders/"+orderID+"/status", nil, orderStatusUpdate{Status: status}, &order, requestOptions{}); err != nil {
		return nil, err
	}
	return &order, nil
}
