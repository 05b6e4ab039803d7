package gateway

import (
	"time"

	"github.com/amythology/seedsmart-client/pkg/enums"
)

// LoginInput carries the credentials posted to /auth/login.
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is the token response returned on successful login.
type LoginResult struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	UserID      string         `json:"user_id"`
	UserRole    enums.UserRole `json:"user_type"`
}

// RegisterInput carries a new account registration.
type RegisterInput struct {
	Username string         `json:"username" validate:"required,min=3"`
	Email    string         `json:"email" validate:"required,email"`
	Password string         `json:"password" validate:"required,min=6"`
	FullName string         `json:"full_name" validate:"required"`
	Phone    string         `json:"phone" validate:"required"`
	Address  string         `json:"address" validate:"required"`
	Role     enums.UserRole `json:"user_type" validate:"required"`
}

// UserProfile is the account record echoed back by register.
type UserProfile struct {
	ID        string         `json:"id"`
	Username  string         `json:"username"`
	Email     string         `json:"email"`
	FullName  string         `json:"full_name"`
	Phone     string         `json:"phone"`
	Address   string         `json:"address"`
	Role      enums.UserRole `json:"user_type"`
	CreatedAt time.Time      `json:"created_at"`
}

// ProductQuery maps to the browse endpoint's filter query parameters.
type ProductQuery struct {
	Category      *enums.ProductCategory
	FarmerID      string
	AvailableOnly *bool
}

// ProductCreateInput carries a seller's new listing.
type ProductCreateInput struct {
	Name        string                `json:"name" validate:"required"`
	Description string                `json:"description" validate:"required"`
	Category    enums.ProductCategory `json:"category" validate:"required"`
	Price       float64               `json:"price" validate:"gte=0"`
	Quantity    int                   `json:"quantity" validate:"gte=0"`
	Unit        string                `json:"unit" validate:"required"`
	ImageURL    *string               `json:"image_url,omitempty"`
}

// ProductUpdateInput carries a partial listing update; nil fields are left
// untouched by the backend.
type ProductUpdateInput struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Quantity    *int     `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	ImageURL    *string  `json:"image_url,omitempty"`
	IsAvailable *bool    `json:"is_available,omitempty"`
}

// orderStatusUpdate is the PATCH body for order status transitions.
type orderStatusUpdate struct {
	Status enums.OrderStatus `json:"status"`
}
