package httpx

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/eshoplabs/eshop/internal/accounts"
	"github.com/eshoplabs/eshop/internal/checkout"
	"github.com/eshoplabs/eshop/internal/orders"
)

type CheckoutHandler struct {
	Orchestrator *checkout.Orchestrator
	Accounts     *accounts.Service
	Orders       *orders.Repo
	Sessions     Sessions
}

func (h *CheckoutHandler) Register(r *chi.Mux) {
	r.Group(func(r chi.Router) {
		r.Use(RequireUser(h.Sessions))
		r.Post("/checkout/", h.doCheckout)
		r.Get("/order_success/{orderID}", h.orderSuccess)
	})
}

func (h *CheckoutHandler) doCheckout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, client, err := h.Accounts.Profile(ctx, userID(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	sid := sessionID(r)
	res, err := h.Orchestrator.Run(ctx, client.ID, user.Email, sid)
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "cart is empty", "redirect": "/cart/"})
		return
	case errors.Is(err, checkout.ErrNotificationFailed):
		// The order is in; the mail is not. Fail loudly either way.
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error":    "order placed but confirmation mail failed",
			"order_id": res.OrderID,
		})
		return
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	_ = h.Sessions.Flash(ctx, sid, "Your order has been placed successfully and payment instructions have been sent to your email.")
	w.Header().Set("Location", "/order_success/"+res.OrderID)
	writeJSON(w, http.StatusSeeOther, map[string]any{
		"order_id":    res.OrderID,
		"total_cents": res.TotalCents,
		"redirect":    "/order_success/" + res.OrderID,
	})
}

func (h *CheckoutHandler) orderSuccess(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.Orders.Get(ctx, chi.URLParam(r, "orderID"))
	if errors.Is(err, orders.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	items, err := h.Orders.ListItems(ctx, o.ID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	msgs, _ := h.Sessions.PopFlashes(ctx, sessionID(r))
	writeJSON(w, http.StatusOK, map[string]any{"order": o, "items": items, "messages": msgs})
}
