package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurafashions/storefront/internal/cart"
	"github.com/aurafashions/storefront/internal/domain"
	"github.com/aurafashions/storefront/internal/store"
)

func newCartRouter(t *testing.T) (*cart.Manager, chi.Router) {
	t.Helper()

	manager, err := cart.NewManager(context.Background(), store.NewMemoryStore())
	require.NoError(t, err)

	handler := NewCartHandler(manager)
	r := chi.NewRouter()
	r.Get("/cart", handler.GetCart)
	r.Post("/cart/items", handler.AddItem)
	r.Put("/cart/items/{product_id}", handler.UpdateQuantity)
	r.Delete("/cart/items/{product_id}", handler.RemoveItem)
	r.Delete("/cart", handler.ClearCart)
	return manager, r
}

func addItemBody(t *testing.T, quantity int) *bytes.Reader {
	t.Helper()
	raw, err := json.Marshal(AddItemRequestDTO{
		Product: domain.ProductRef{ID: 1, Name: "Classic Tee", Price: 500, Size: "M", Color: "black"},
		Quantity: quantity,
	})
	require.NoError(t, err)
	return bytes.NewReader(raw)
}

func TestCartHandler_AddItem(t *testing.T) {
	_, r := newCartRouter(t)

	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/cart/items", addItemBody(t, 2)))

	require.Equal(t, http.StatusCreated, recorder.Code)

	var resp CartResponseDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, 2, resp.Lines[0].Quantity)
	assert.Equal(t, float64(1000), resp.Total)
	assert.Equal(t, 2, resp.ItemCount)
}

func TestCartHandler_AddItem_MergesSameKey(t *testing.T) {
	_, r := newCartRouter(t)

	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/cart/items", addItemBody(t, 2)))
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder = httptest.NewRecorder()
	r.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/cart/items", addItemBody(t, 1)))
	require.Equal(t, http.StatusCreated, recorder.Code)

	var resp CartResponseDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, 3, resp.Lines[0].Quantity)
	assert.Equal(t, float64(1500), resp.Total)
}

func TestCartHandler_AddItem_RejectsBadQuantity(t *testing.T) {
	_, r := newCartRouter(t)

	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/cart/items", addItemBody(t, 100)))

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, "invalid_quantity", resp.Code)
}

func TestCartHandler_UpdateQuantityZeroRemovesLine(t *testing.T) {
	manager, r := newCartRouter(t)

	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/cart/items", addItemBody(t, 2)))
	require.Equal(t, http.StatusCreated, recorder.Code)

	raw, err := json.Marshal(UpdateQuantityRequestDTO{Size: "M", Color: "black", Quantity: 0})
	require.NoError(t, err)

	recorder = httptest.NewRecorder()
	r.ServeHTTP(recorder, httptest.NewRequest(http.MethodPut, "/cart/items/1", bytes.NewReader(raw)))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, manager.State().IsEmpty())
}

func TestCartHandler_RemoveItemUsesFullIdentityKey(t *testing.T) {
	manager, r := newCartRouter(t)

	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/cart/items", addItemBody(t, 2)))
	require.Equal(t, http.StatusCreated, recorder.Code)

	// Wrong size: no-op.
	recorder = httptest.NewRecorder()
	r.ServeHTTP(recorder, httptest.NewRequest(http.MethodDelete, "/cart/items/1?size=L&color=black", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Len(t, manager.State().Lines, 1)

	// Exact key: removed.
	recorder = httptest.NewRecorder()
	r.ServeHTTP(recorder, httptest.NewRequest(http.MethodDelete, "/cart/items/1?size=M&color=black", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, manager.State().IsEmpty())
}

func TestCartHandler_InvalidProductID(t *testing.T) {
	_, r := newCartRouter(t)

	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, httptest.NewRequest(http.MethodDelete, "/cart/items/abc", nil))

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, "invalid_product_id", resp.Code)
}

func TestCartHandler_Clear(t *testing.T) {
	manager, r := newCartRouter(t)

	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/cart/items", addItemBody(t, 2)))
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder = httptest.NewRecorder()
	r.ServeHTTP(recorder, httptest.NewRequest(http.MethodDelete, "/cart", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, manager.State().IsEmpty())

	var resp CartResponseDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Empty(t, resp.Lines)
	assert.Equal(t, float64(0), resp.Total)
}
