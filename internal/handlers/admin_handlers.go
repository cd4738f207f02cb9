package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/campusmart/internal/models"
)

//
// --- Admin: session ---
//

type adminLoginInput struct {
	Username string `json:"username"`
	Password string `json:"password" binding:"required"`
}

// AdminLogin handles POST /api/admin/login.
func (h *Handlers) AdminLogin(c *gin.Context) {
	var input adminLoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondMessage(c, http.StatusBadRequest, "Password is required")
		return
	}
	token, err := h.Admin.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Admin login successful", gin.H{"token": token})
}

//
// --- Admin: overview ---
//

func (h *Handlers) Dashboard(c *gin.Context) {
	stats, err := h.Admin.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Dashboard fetched", stats)
}

func (h *Handlers) Buyers(c *gin.Context) {
	list, err := h.Admin.Buyers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Buyers fetched", list)
}

func (h *Handlers) Sellers(c *gin.Context) {
	list, err := h.Admin.Sellers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Sellers fetched", list)
}

func (h *Handlers) SoldItems(c *gin.Context) {
	list, err := h.Admin.SoldItems(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Sold items fetched", list)
}

// SalesStats handles GET /api/admin/sales-stats. Every year is summed into
// the month buckets unless ?year=YYYY narrows it to one.
func (h *Handlers) SalesStats(c *gin.Context) {
	year := 0
	if v := c.Query("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1970 || y > 9999 {
			respondMessage(c, http.StatusBadRequest, "Invalid year")
			return
		}
		year = y
	}
	stats, err := h.Admin.SalesStats(c.Request.Context(), year)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Sales stats fetched", stats)
}

//
// --- Admin: moderation ---
//

func (h *Handlers) AdminProducts(c *gin.Context) {
	list, err := h.Admin.Products(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Products fetched", list)
}

type statusInput struct {
	Status string `json:"status" binding:"required,productstatus"`
}

// UpdateProductStatus handles PATCH /api/admin/products/:id/status. This is
// the unchecked override; any valid status may be set.
func (h *Handlers) UpdateProductStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input statusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondMessage(c, http.StatusBadRequest, "Status must be pending, active or sold")
		return
	}
	product, err := h.Admin.OverrideStatus(c.Request.Context(), id, models.ProductStatus(input.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Product status updated", product)
}

// ApproveProduct handles PATCH /api/admin/products/:id/approve.
func (h *Handlers) ApproveProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	product, err := h.Catalog.Approve(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Product approved", product)
}

func (h *Handlers) AdminDeleteProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Admin.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Product deleted successfully", nil)
}

// DeleteUser serves the buyer, seller and generic user delete routes.
func (h *Handlers) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Admin.DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "User deleted successfully", nil)
}

//
// --- Admin: notifications ---
//

func (h *Handlers) AdminNotifications(c *gin.Context) {
	list, err := h.Admin.Notifications(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Notifications fetched", list)
}

func (h *Handlers) DeleteNotification(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.Admin.DeleteNotification(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Notification deleted", nil)
}

type informAdminInput struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// InformAdmin handles POST /api/admin/inform from a seller.
func (h *Handlers) InformAdmin(c *gin.Context) {
	var input informAdminInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	userID, role := identity(c)
	n, err := h.Admin.InformAdmin(c.Request.Context(), userID, role, input.Subject, input.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Admin has been informed", n)
}
