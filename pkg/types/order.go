package types

import (
	"time"

	"github.com/amythology/seedsmart-client/pkg/enums"
)

// OrderItem is one purchased line inside an order payload.
type OrderItem struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalPrice  float64 `json:"total_price"`
}

// OrderCreate is the checkout submission payload.
type OrderCreate struct {
	Items           []OrderItem         `json:"items"`
	DeliveryAddress string              `json:"delivery_address"`
	PaymentMethod   enums.PaymentMethod `json:"payment_method"`
}

// Order is an order as echoed back by the backend.
type Order struct {
	ID              string              `json:"id"`
	BuyerID         string              `json:"buyer_id"`
	BuyerName       string              `json:"buyer_name"`
	Items           []OrderItem         `json:"items"`
	TotalAmount     float64             `json:"total_amount"`
	DeliveryAddress string              `json:"delivery_address"`
	PaymentMethod   enums.PaymentMethod `json:"payment_method"`
	Status          enums.OrderStatus   `json:"status"`
	CreatedAt       time.Time           `json:"created_at"`
}
