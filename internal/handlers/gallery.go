package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sarkargroup/smd-backend/internal/middleware"
	"github.com/sarkargroup/smd-backend/internal/services"
	"github.com/sarkargroup/smd-backend/pkg/response"
	"gorm.io/gorm"
)

type GalleryHandler struct {
	galleryService *services.GalleryService
}

func NewGalleryHandler(db *gorm.DB) *GalleryHandler {
	return &GalleryHandler{
		galleryService: services.NewGalleryService(db),
	}
}

// POST /smd/api/v1/project-gallery/create
func (h *GalleryHandler) Create(c *gin.Context) {
	var req services.CreateGalleryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(err)
		return
	}

	gallery, err := h.galleryService.Create(c.Request.Context(), middleware.CurrentUser(c), &req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Created(c, "Project gallery add successfully.", gallery)
}

// GET /smd/api/v1/project-gallery/all
func (h *GalleryHandler) List(c *gin.Context) {
	items, meta, err := h.galleryService.List(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		c.Error(err)
		return
	}

	response.Paginated(c, "All project gallery found successfully.", meta, items)
}

// GET /smd/api/v1/project-gallery/:id
func (h *GalleryHandler) GetByID(c *gin.Context) {
	gallery, err := h.galleryService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	response.OK(c, "Project gallery info found successfully.", gallery)
}

// AddComment appends the caller's comment
// PATCH /smd/api/v1/project-gallery/:id/add-comment
func (h *GalleryHandler) AddComment(c *gin.Context) {
	var req services.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(err)
		return
	}

	gallery, err := h.galleryService.AddComment(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), req.Comment)
	if err != nil {
		c.Error(err)
		return
	}

	response.OK(c, "Comment added successfully.", gallery)
}

// DELETE /smd/api/v1/project-gallery/:id
func (h *GalleryHandler) Delete(c *gin.Context) {
	if err := h.galleryService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	response.OK(c, "Project gallery info delete successfully.", nil)
}
