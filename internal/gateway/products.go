package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/aurafashions/storefront/internal/domain"
)

// ProductQuery filters the public catalog listing. Zero values are omitted
// from the request.
type ProductQuery struct {
	Category string
	Color    string
	Size     string
	Grouped  bool
	Skip     int
	Limit    int
}

func (q ProductQuery) values() url.Values {
	values := url.Values{}
	if q.Category != "" {
		values.Set("category", q.Category)
	}
	if q.Color != "" {
		values.Set("color", q.Color)
	}
	if q.Size != "" {
		values.Set("size", q.Size)
	}
	if q.Grouped {
		values.Set("grouped", "true")
	}
	if q.Skip > 0 {
		values.Set("skip", strconv.Itoa(q.Skip))
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	return values
}

// ListProducts fetches the catalog. Public, no auth required.
func (c *Client) ListProducts(ctx context.Context, query ProductQuery) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.do(ctx, http.MethodGet, "/products", query.values(), nil, &products, nil); err != nil {
		return nil, err
	}
	return products, nil
}

// Product fetches one catalog entry by id.
func (c *Client) Product(ctx context.Context, id int64) (*domain.Product, error) {
	var product domain.Product
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/products/%d", id), nil, nil, &product, nil); err != nil {
		return nil, err
	}
	return &product, nil
}

// ProductInput is the admin create/update payload.
type ProductInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Category    string  `json:"category"`
	Color       string  `json:"color"`
	Size        string  `json:"size"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// CreateProduct adds a catalog entry (admin only).
func (c *Client) CreateProduct(ctx context.Context, input ProductInput) (*domain.Product, error) {
	var product domain.Product
	if err := c.do(ctx, http.MethodPost, "/products", nil, input, &product, nil); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct replaces a catalog entry (admin only).
func (c *Client) UpdateProduct(ctx context.Context, id int64, input ProductInput) (*domain.Product, error) {
	var product domain.Product
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/products/%d", id), nil, input, &product, nil); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes a catalog entry (admin only).
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", id), nil, nil, nil, nil)
}
