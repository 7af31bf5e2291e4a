package httpapi

import (
	"net/http"

	"restoflow/internal/domain"
)

func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request) {
	var in domain.CartItemInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	cartID, err := h.Cart.AddItem(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "added", "cart_id": cartID})
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "user_id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	cart, err := h.Cart.Get(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

func (h *Handler) removeFromCart(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "user_id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	dishID, err := pathID(r, "dish_id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	lineID, err := h.Cart.RemoveItem(r.Context(), userID, dishID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "deleted", "cart_item_id": lineID})
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var in domain.OrderInput
	if err := decodeJSON(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	receipt, err := h.Orders.Place(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

func (h *Handler) userOrders(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "user_id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	orders, err := h.Orders.ListByUser(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

func (h *Handler) orderQRCode(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	png, err := h.Orders.QRCode(r.Context(), orderID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
