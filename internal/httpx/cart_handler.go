package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/eshoplabs/eshop/internal/cart"
)

type CartHandler struct {
	Manager  *cart.Manager
	Sessions Sessions
}

func (h *CartHandler) Register(r *chi.Mux) {
	r.Get("/cart/", h.viewCart)
	r.Post("/add_to_cart/{productID}/", h.addToCart)
	r.Post("/remove_from_cart/{productID}/", h.removeFromCart)
}

type cartView struct {
	Lines      []cart.Line `json:"lines"`
	TotalCents int         `json:"total_cents"`
	Messages   []string    `json:"messages,omitempty"`
}

func (h *CartHandler) viewCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	sid := sessionID(r)
	c, total, err := h.Manager.View(ctx, sid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	lines := make([]cart.Line, 0, len(c))
	for _, l := range c {
		lines = append(lines, l)
	}
	msgs, _ := h.Sessions.PopFlashes(ctx, sid)
	writeJSON(w, http.StatusOK, cartView{Lines: lines, TotalCents: total, Messages: msgs})
}

// addToCart adds exactly one unit; any quantity field in the request is
// ignored on purpose.
func (h *CartHandler) addToCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	sid := sessionID(r)
	outcome, err := h.Manager.Add(ctx, sid, chi.URLParam(r, "productID"))
	if errors.Is(err, cart.ErrProductNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	switch outcome {
	case cart.Added:
		_ = h.Sessions.Flash(ctx, sid, "Product has been added to the cart!")
		writeJSON(w, http.StatusOK, map[string]string{"outcome": string(outcome), "redirect": "/products"})
	case cart.OutOfStock:
		writeJSON(w, http.StatusConflict, map[string]string{"outcome": string(outcome), "error": "product is out of stock"})
	case cart.StockLimitReached:
		writeJSON(w, http.StatusConflict, map[string]string{"outcome": string(outcome), "error": "no more stock available"})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": fmt.Sprintf("unexpected outcome %q", outcome)})
	}
}

func (h *CartHandler) removeFromCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	sid := sessionID(r)
	_, err := h.Manager.Remove(ctx, sid, chi.URLParam(r, "productID"))
	if errors.Is(err, cart.ErrLineNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not in cart"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	_ = h.Sessions.Flash(ctx, sid, "Product is removed from your cart.")
	writeJSON(w, http.StatusOK, map[string]string{"outcome": string(cart.Removed), "redirect": "/cart/"})
}
