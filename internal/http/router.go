package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter assembles the full API surface. Operator routes sit behind
// AdminOnly; everything under /api/v1 requires a resolved identity.
func NewRouter(identities Identities, carts *CartHandler, orders *OrderHandler, wishlist *WishlistHandler, requestTimeout time.Duration) chi.Router {
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
		r.Use(AuthMiddleware(identities))

		r.Route("/cart", func(r chi.Router) {
			r.Post("/get", carts.GetCart)
			r.Post("/add", carts.AddItem)
			r.Post("/update", carts.UpdateQuantity)
			r.Post("/clear", carts.ClearCart)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Post("/toggle", wishlist.Toggle)
			r.Post("/get", wishlist.List)
			r.Post("/clear", wishlist.Clear)
		})

		r.Route("/order", func(r chi.Router) {
			r.Post("/place", orders.PlaceCOD)
			r.Post("/session", orders.PlaceHosted)
			r.Post("/session/verify", orders.VerifyHosted)
			r.Post("/gateway", orders.PlaceSigned)
			r.Post("/gateway/verify", orders.VerifySigned)
			r.Post("/cancel", orders.Cancel)
			r.Post("/userorders", orders.UserOrders)

			r.Group(func(r chi.Router) {
				r.Use(AdminOnly)
				r.Get("/list", orders.ListAll)
				r.Post("/status", orders.UpdateStatus)
			})
		})
	})

	return r
}
