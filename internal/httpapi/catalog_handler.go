package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aurafashions/storefront/internal/domain"
	"github.com/aurafashions/storefront/internal/gateway"
)

// Catalog is the read-only slice of the backend client the facade proxies.
type Catalog interface {
	ListProducts(ctx context.Context, query gateway.ProductQuery) ([]domain.Product, error)
	Product(ctx context.Context, id int64) (*domain.Product, error)
	MyOrders(ctx context.Context) ([]domain.Order, error)
	Order(ctx context.Context, id int64) (*domain.Order, error)
}

// CatalogHandler proxies catalog browsing and order history straight
// through to the backend; it holds no state of its own.
type CatalogHandler struct {
	catalog Catalog
}

func NewCatalogHandler(catalog Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// GET /api/v1/products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := gateway.ProductQuery{
		Category: q.Get("category"),
		Color:    q.Get("color"),
		Size:     q.Get("size"),
		Grouped:  q.Get("grouped") == "true",
	}
	if skip, err := strconv.Atoi(q.Get("skip")); err == nil && skip > 0 {
		query.Skip = skip
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 {
		query.Limit = limit
	}

	products, err := h.catalog.ListProducts(r.Context(), query)
	if err != nil {
		handleGatewayError(w, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	respondJSON(w, http.StatusOK, products)
}

// GET /api/v1/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	product, err := h.catalog.Product(r.Context(), id)
	if err != nil {
		handleGatewayError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// GET /api/v1/orders/my
func (h *CatalogHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.catalog.MyOrders(r.Context())
	if err != nil {
		handleGatewayError(w, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	respondJSON(w, http.StatusOK, orders)
}

// GET /api/v1/orders/{id}
func (h *CatalogHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	order, err := h.catalog.Order(r.Context(), id)
	if err != nil {
		handleGatewayError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_id", "id must be a positive integer")
		return 0, false
	}
	return id, true
}
