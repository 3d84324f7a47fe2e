package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aurafashions/storefront/internal/checkout"
)

type CheckoutHandler struct {
	coordinator *checkout.Coordinator
}

func NewCheckoutHandler(coordinator *checkout.Coordinator) *CheckoutHandler {
	return &CheckoutHandler{coordinator: coordinator}
}

type OrderResponseDTO struct {
	OrderID int64  `json:"order_id"`
	Status  string `json:"status"`
}

// GET /api/v1/checkout/quote
func (h *CheckoutHandler) Quote(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.coordinator.Quote())
}

// POST /api/v1/checkout
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var form checkout.ShippingForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	order, err := h.coordinator.Submit(r.Context(), form)
	if err != nil {
		var validationErr *checkout.ValidationError
		switch {
		case errors.As(err, &validationErr):
			respondJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:   "missing required shipping fields",
				Code:    "missing_fields",
				Details: strings.Join(validationErr.Fields, ", "),
			})
		case errors.Is(err, checkout.ErrEmptyCart):
			respondError(w, http.StatusBadRequest, "empty_cart", err.Error())
		case errors.Is(err, checkout.ErrSubmitInFlight):
			respondError(w, http.StatusConflict, "checkout_in_progress", err.Error())
		default:
			handleGatewayError(w, err)
		}
		return
	}

	respondJSON(w, http.StatusCreated, OrderResponseDTO{
		OrderID: order.ID,
		Status:  order.Status.String(),
	})
}
