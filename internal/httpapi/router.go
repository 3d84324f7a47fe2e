package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter assembles the facade the UI talks to. The state containers are
// constructed by the caller and injected here; handlers expose their
// operation sets and nothing else.
func NewRouter(
	sessions *SessionHandler,
	carts *CartHandler,
	checkouts *CheckoutHandler,
	catalog *CatalogHandler,
	requestTimeout time.Duration,
) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/session", func(r chi.Router) {
			r.Get("/", sessions.Get)
			r.Post("/login", sessions.Login)
			r.Post("/dev-login", sessions.DevLogin)
			r.Post("/logout", sessions.Logout)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", carts.GetCart)
			r.Post("/items", carts.AddItem)
			r.Put("/items/{product_id}", carts.UpdateQuantity)
			r.Delete("/items/{product_id}", carts.RemoveItem)
			r.Delete("/", carts.ClearCart)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/quote", checkouts.Quote)
			r.Post("/", checkouts.Submit)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", catalog.ListProducts)
			r.Get("/{id}", catalog.GetProduct)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/my", catalog.MyOrders)
			r.Get("/{id}", catalog.GetOrder)
		})
	})

	return r
}
