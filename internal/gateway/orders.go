package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aurafashions/storefront/internal/domain"
)

// OrderItemInput names a product and a quantity. Deliberately no price: the
// backend prices orders from its own catalog (trust boundary).
type OrderItemInput struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// CreateOrderRequest is the order submission payload. IdempotencyKey rides
// in a header, not the body, so an ambiguous transport failure can be
// retried without double-creating the order.
type CreateOrderRequest struct {
	Items           []OrderItemInput `json:"items"`
	ShippingAddress string           `json:"shipping_address"`
	IdempotencyKey  string           `json:"-"`
}

// CreateOrder places an order for the authenticated user.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*domain.Order, error) {
	var header map[string]string
	if req.IdempotencyKey != "" {
		header = map[string]string{"X-Idempotency-Key": req.IdempotencyKey}
	}

	var order domain.Order
	if err := c.do(ctx, http.MethodPost, "/orders", nil, req, &order, header); err != nil {
		return nil, err
	}
	return &order, nil
}

// MyOrders lists the authenticated user's orders, newest first.
func (c *Client) MyOrders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if err := c.do(ctx, http.MethodGet, "/orders/my", nil, nil, &orders, nil); err != nil {
		return nil, err
	}
	return orders, nil
}

// Order fetches one order by id. Non-owners get an authorization rejection
// from the backend.
func (c *Client) Order(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", id), nil, nil, &order, nil); err != nil {
		return nil, err
	}
	return &order, nil
}
