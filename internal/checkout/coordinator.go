// Package checkout converts the current cart plus a shipping form into one
// submitted order, guarding against empty-cart and double submission.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/aurafashions/storefront/internal/domain"
	"github.com/aurafashions/storefront/internal/gateway"
)

// Shipping cost rule: flat fee below the free-shipping threshold.
const (
	freeShippingThreshold = 999
	shippingFee           = 99
)

var (
	// ErrEmptyCart rejects a submission with nothing to order. The caller
	// should not be able to reach this state; the coordinator re-checks
	// defensively.
	ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

	// ErrSubmitInFlight rejects re-entry while a submission is unresolved.
	ErrSubmitInFlight = errors.New("checkout already in progress")
)

// ValidationError lists the missing shipping fields. No network call is
// made when it is returned.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// ShippingForm is the checkout form. All fields are required.
type ShippingForm struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
}

// missing returns the names of empty required fields, in form order.
func (f ShippingForm) missing() []string {
	var fields []string
	for _, field := range []struct {
		name  string
		value string
	}{
		{"name", f.Name},
		{"email", f.Email},
		{"phone", f.Phone},
		{"address", f.Address},
		{"city", f.City},
		{"state", f.State},
		{"postal_code", f.PostalCode},
	} {
		if strings.TrimSpace(field.value) == "" {
			fields = append(fields, field.name)
		}
	}
	return fields
}

// FormatAddress renders the single shipping-address string the backend
// expects.
func (f ShippingForm) FormatAddress() string {
	return fmt.Sprintf("%s\n%s\n%s\n%s, %s - %s",
		f.Name, f.Phone, f.Address, f.City, f.State, f.PostalCode)
}

// Cart is the slice of the cart manager the coordinator needs.
type Cart interface {
	State() domain.CartState
	Clear(ctx context.Context) error
}

// Gateway places the order.
type Gateway interface {
	CreateOrder(ctx context.Context, req gateway.CreateOrderRequest) (*domain.Order, error)
}

// Quote is the display breakdown of the pending submission.
type Quote struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

// Coordinator performs the one-shot cart-to-order handoff.
type Coordinator struct {
	mu        sync.Mutex
	inFlight  bool
	lastOrder *domain.Order

	cart Cart
	gw   Gateway
}

func NewCoordinator(cart Cart, gw Gateway) *Coordinator {
	return &Coordinator{cart: cart, gw: gw}
}

// Quote prices the current cart for display. The backend prices the real
// order; this is presentation only.
func (c *Coordinator) Quote() Quote {
	subtotal := c.cart.State().Total()
	if subtotal == 0 {
		return Quote{}
	}

	var shipping float64
	if subtotal < freeShippingThreshold {
		shipping = shippingFee
	}
	return Quote{Subtotal: subtotal, Shipping: shipping, Total: subtotal + shipping}
}

// Submit validates the form locally, then issues exactly one order-creation
// request. On success the cart is cleared and the returned order recorded;
// on any failure the cart is left untouched so the user can retry.
func (c *Coordinator) Submit(ctx context.Context, form ShippingForm) (*domain.Order, error) {
	if fields := form.missing(); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	c.inFlight = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.inFlight = false
		c.mu.Unlock()
	}()

	state := c.cart.State()
	if state.IsEmpty() {
		return nil, ErrEmptyCart
	}

	req := gateway.CreateOrderRequest{
		Items:           make([]gateway.OrderItemInput, 0, len(state.Lines)),
		ShippingAddress: form.FormatAddress(),
		IdempotencyKey:  uuid.NewString(),
	}
	for _, line := range state.Lines {
		req.Items = append(req.Items, gateway.OrderItemInput{
			ProductID: line.Product.ID,
			Quantity:  line.Quantity,
		})
	}

	order, err := c.gw.CreateOrder(ctx, req)
	if err != nil {
		return nil, err
	}

	// The order exists regardless of whether the local clear succeeds.
	if err := c.cart.Clear(ctx); err != nil {
		log.Printf("failed to clear cart after order %d: %v", order.ID, err)
	}

	c.mu.Lock()
	c.lastOrder = order
	c.mu.Unlock()

	return order, nil
}

// LastOrder returns the most recently confirmed order, or nil before the
// first successful submission.
func (c *Coordinator) LastOrder() *domain.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastOrder
}
