package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	pkgerrors "github.com/amythology/seedsmart-client/pkg/errors"
	"github.com/amythology/seedsmart-client/pkg/types"
)

// ListProducts fetches the browsable catalog. Every decoded product is
// validated; a single malformed entry fails the whole call rather than
// leaking undefined fields into client state.
func (c *Client) ListProducts(ctx context.Context, query ProductQuery) ([]types.Product, error) {
	params := url.Values{}
	if query.Category != nil {
		params.Set("category", query.Category.String())
	}
	if query.FarmerID != "" {
		params.Set("farmer_id", query.FarmerID)
	}
	if query.AvailableOnly != nil {
		params.Set("available_only", strconv.FormatBool(*query.AvailableOnly))
	}

	var products []types.Product
	if err := c.do(ctx, http.MethodGet, "/products/", params, nil, &products, requestOptions{}); err != nil {
		return nil, err
	}
	for _, product := range products {
		if err := product.Validate(); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDecode, err, "malformed product in response")
		}
	}
	return products, nil
}

// CreateProduct publishes a new listing for the authenticated seller.
func (c *Client) CreateProduct(ctx context.Context, input ProductCreateInput) (*types.Product, error) {
	if err := validatePayload(input); err != nil {
		return nil, err
	}
	if !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown product category")
	}

	var product types.Product
	if err := c.do(ctx, http.MethodPost, "/products/", nil, input, &product, requestOptions{}); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct applies a partial update to one of the seller's listings.
func (c *Client) UpdateProduct(ctx context.Context, productID string, input ProductUpdateInput) (*types.Product, error) {
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if err := validatePayload(input); err != nil {
		return nil, err
	}

	var product types.Product
	if err := c.do(ctx, http.MethodPut, "/products/"+productID, nil, input, &product, requestOptions{}); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes one of the seller's listings.
func (c *Client) DeleteProduct(ctx context.Context, productID string) error {
	if productID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return c.do(ctx, http.MethodDelete, "/products/"+productID, nil, nil, nil, requestOptions{})
}

// MyProducts lists the authenticated seller's own listings.
func (c *Client) MyProducts(ctx context.Context) ([]types.Product, error) {
	var products []types.Product
	if err := c.do(ctx, http.MethodGet, "/products/my-products", nil, nil, &products, requestOptions{}); err != nil {
		return nil, err
	}
	for _, product := range products {
		if err := product.Validate(); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDecode, err, "malformed product in response")
		}
	}
	return products, nil
}
