package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/01moynul/campusmart/internal/models"
	"github.com/01moynul/campusmart/internal/repository"
	"github.com/01moynul/campusmart/internal/service"
)

// UploadProduct handles POST /api/products/upload (multipart, images[]).
func (h *Handlers) UploadProduct(c *gin.Context) {
	userID, role := identity(c)
	if role != models.RoleSeller {
		respondMessage(c, http.StatusForbidden, "Only sellers can upload products")
		return
	}

	price, err := decimal.NewFromString(strings.TrimSpace(c.PostForm("price")))
	if err != nil {
		respondMessage(c, http.StatusBadRequest, "Price must be a number")
		return
	}
	in := service.ProductInput{
		Name:        c.PostForm("productName"),
		Category:    c.PostForm("category"),
		Condition:   c.PostForm("condition"),
		Price:       price,
		Description: formString(c, "description"),
	}

	form, err := c.MultipartForm()
	if err != nil {
		respondMessage(c, http.StatusBadRequest, "At least one product image is required")
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		respondMessage(c, http.StatusBadRequest, "At least one product image is required")
		return
	}
	if len(files) > service.MaxProductImages {
		respondMessage(c, http.StatusBadRequest, "Too many images")
		return
	}

	saved := make([]string, 0, len(files))
	for _, f := range files {
		name, err := h.saveUpload(c, f)
		if err != nil {
			h.removeUploads(saved)
			respondMessage(c, http.StatusBadRequest, "Invalid image: "+err.Error())
			return
		}
		saved = append(saved, name)
	}

	product, err := h.Catalog.Create(c.Request.Context(), userID, role, in, saved)
	if err != nil {
		h.removeUploads(saved)
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Product uploaded successfully! (Pending Approval)", product)
}

type productQuery struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Status   string `form:"status" binding:"omitempty,productstatus"`
}

// ListProducts handles GET /api/products?search=&category=&status=.
func (h *Handlers) ListProducts(c *gin.Context) {
	var q productQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondMessage(c, http.StatusBadRequest, "Status must be pending, active or sold")
		return
	}
	products, err := h.Catalog.List(c.Request.Context(), repository.ProductFilter{
		Search:   strings.TrimSpace(q.Search),
		Category: strings.TrimSpace(q.Category),
		Status:   models.ProductStatus(q.Status),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Products fetched", products)
}

func (h *Handlers) GetProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	product, err := h.Catalog.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Product fetched", product)
}

func (h *Handlers) ProductsBySeller(c *gin.Context) {
	sellerID, ok := pathID(c, "sellerId")
	if !ok {
		return
	}
	products, err := h.Catalog.BySeller(c.Request.Context(), sellerID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Products fetched", products)
}

func (h *Handlers) MyProducts(c *gin.Context) {
	userID, role := identity(c)
	products, err := h.Catalog.Mine(c.Request.Context(), userID, role)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Products fetched", products)
}

// DeleteProduct handles DELETE /api/products/:id for the owning seller.
func (h *Handlers) DeleteProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, _ := identity(c)
	if err := h.Catalog.Delete(c.Request.Context(), id, userID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Product deleted successfully", nil)
}

type informSoldInput struct {
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName"`
}

// InformSold handles POST /api/products/inform-sold.
func (h *Handlers) InformSold(c *gin.Context) {
	var input informSoldInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondMessage(c, http.StatusBadRequest, "Product ID and Name are required")
		return
	}
	userID, role := identity(c)
	n, err := h.Catalog.InformSold(c.Request.Context(), userID, role, input.ProductID, input.ProductName)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Admin has been notified successfully!", n)
}

// GetRecommendations handles GET /api/products/recommendations/:purchasedProductId.
func (h *Handlers) GetRecommendations(c *gin.Context) {
	id, ok := pathID(c, "purchasedProductId")
	if !ok {
		return
	}
	rec, err := h.Recommendations.Recommend(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Recommendations fetched", rec)
}
