package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type addToCartInput struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// AddToCart handles POST /api/cart. Quantity defaults to 1.
func (h *Handlers) AddToCart(c *gin.Context) {
	var input addToCartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if input.Quantity == 0 {
		input.Quantity = 1
	}
	userID, role := identity(c)
	item, err := h.Cart.AddToCart(c.Request.Context(), userID, role, input.ProductID, input.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Added to cart", item)
}

func (h *Handlers) GetCart(c *gin.Context) {
	userID, _ := identity(c)
	items, subtotal, err := h.Cart.Cart(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Cart fetched", gin.H{"items": items, "subtotal": subtotal})
}

type updateCartInput struct {
	CartItemID int64 `json:"cartItemId"`
	Quantity   *int  `json:"quantity"`
}

// UpdateCart handles PUT /api/cart/update. An explicit quantity of zero or
// less removes the line; a missing quantity is rejected.
func (h *Handlers) UpdateCart(c *gin.Context) {
	var input updateCartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if input.CartItemID <= 0 || input.Quantity == nil {
		respondMessage(c, http.StatusBadRequest, "cartItemId and quantity are required")
		return
	}
	userID, _ := identity(c)
	item, err := h.Cart.UpdateQuantity(c.Request.Context(), userID, input.CartItemID, *input.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	if item == nil {
		respondOK(c, http.StatusOK, "Item removed from cart", nil)
		return
	}
	respondOK(c, http.StatusOK, "Cart updated", item)
}

func (h *Handlers) RemoveFromCart(c *gin.Context) {
	id, ok := pathID(c, "cartItemId")
	if !ok {
		return
	}
	userID, _ := identity(c)
	if err := h.Cart.RemoveFromCart(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Item removed from cart", nil)
}

type wishlistInput struct {
	ProductID int64 `json:"productId"`
}

func (h *Handlers) AddToWishlist(c *gin.Context) {
	var input wishlistInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	userID, _ := identity(c)
	item, err := h.Cart.AddToWishlist(c.Request.Context(), userID, input.ProductID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Added to wishlist", item)
}

func (h *Handlers) GetWishlist(c *gin.Context) {
	userID, _ := identity(c)
	items, err := h.Cart.Wishlist(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Wishlist fetched", items)
}

func (h *Handlers) RemoveFromWishlist(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, _ := identity(c)
	if err := h.Cart.RemoveFromWishlist(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Removed from wishlist", nil)
}
