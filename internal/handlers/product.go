package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sarkargroup/smd-backend/internal/middleware"
	"github.com/sarkargroup/smd-backend/internal/services"
	"github.com/sarkargroup/smd-backend/pkg/response"
	"gorm.io/gorm"
)

type ProductHandler struct {
	productService *services.ProductService
}

func NewProductHandler(db *gorm.DB) *ProductHandler {
	return &ProductHandler{
		productService: services.NewProductService(db),
	}
}

// Create registers equipment owned by the calling admin.
// POST /smd/api/v1/product/create
func (h *ProductHandler) Create(c *gin.Context) {
	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(err)
		return
	}

	product, err := h.productService.Create(c.Request.Context(), middleware.CurrentUser(c), &req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Created(c, "Product created successfully.", product)
}

// List returns paginated products
// GET /smd/api/v1/product/all
func (h *ProductHandler) List(c *gin.Context) {
	items, meta, err := h.productService.List(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		c.Error(err)
		return
	}

	response.Paginated(c, "All product found successfully.", meta, items)
}

// GetByID returns a product by ID
// GET /smd/api/v1/product/:id
func (h *ProductHandler) GetByID(c *gin.Context) {
	product, err := h.productService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	response.OK(c, "Product info found successfully.", product)
}

// Update updates a product
// PATCH /smd/api/v1/product/:id/update
func (h *ProductHandler) Update(c *gin.Context) {
	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(err)
		return
	}

	product, err := h.productService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		c.Error(err)
		return
	}

	response.OK(c, "Update product info successfully.", product)
}
