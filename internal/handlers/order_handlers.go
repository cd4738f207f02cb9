package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PlaceOrder handles POST /api/orders. The whole cart becomes one order.
func (h *Handlers) PlaceOrder(c *gin.Context) {
	userID, role := identity(c)
	order, err := h.Orders.PlaceOrder(c.Request.Context(), userID, role)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Order placed successfully", order)
}

func (h *Handlers) MyOrders(c *gin.Context) {
	userID, role := identity(c)
	orders, err := h.Orders.MyOrders(c.Request.Context(), userID, role)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Orders fetched", orders)
}

func (h *Handlers) GetOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, role := identity(c)
	order, err := h.Orders.Order(c.Request.Context(), id, userID, role)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Order fetched", order)
}
