package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sarkargroup/smd-backend/internal/middleware"
	"github.com/sarkargroup/smd-backend/internal/services"
	"github.com/sarkargroup/smd-backend/pkg/response"
	"gorm.io/gorm"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(db *gorm.DB) *ProjectHandler {
	return &ProjectHandler{
		projectService: services.NewProjectService(db),
	}
}

// Create creates a new project
// POST /smd/api/v1/project/create
func (h *ProjectHandler) Create(c *gin.Context) {
	var req services.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(err)
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), middleware.CurrentUser(c), &req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Created(c, "Project created successfully.", project)
}

// List returns paginated projects
// GET /smd/api/v1/project/all
func (h *ProjectHandler) List(c *gin.Context) {
	items, meta, err := h.projectService.List(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		c.Error(err)
		return
	}

	response.Paginated(c, "All project found successfully.", meta, items)
}

// GetByID returns a project with its engineers, products and gallery
// GET /smd/api/v1/project/:id
func (h *ProjectHandler) GetByID(c *gin.Context) {
	project, err := h.projectService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	response.OK(c, "Project info found successfully.", project)
}

// Update updates a project unless it is completed
// PATCH /smd/api/v1/project/:id/update
func (h *ProjectHandler) Update(c *gin.Context) {
	var req services.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(err)
		return
	}

	project, err := h.projectService.UpdateInfo(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		c.Error(err)
		return
	}

	response.OK(c, "Update project info successfully.", project)
}

// AddEngineers assigns engineers to a project
// POST /smd/api/v1/project/:id/add-engineer
func (h *ProjectHandler) AddEngineers(c *gin.Context) {
	var req services.AddEngineersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(err)
		return
	}

	links, err := h.projectService.AddEngineers(c.Request.Context(), c.Param("id"), req.EngineerIDs)
	if err != nil {
		c.Error(err)
		return
	}

	response.OK(c, "Engineer added successfully.", links)
}

// RemoveEngineer unassigns an engineer
// POST /smd/api/v1/project/:id/remove-engineer
func (h *ProjectHandler) RemoveEngineer(c *gin.Context) {
	var req services.RemoveEngineerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(err)
		return
	}

	if err := h.projectService.RemoveEngineer(c.Request.Context(), c.Param("id"), req.EngineerID); err != nil {
		c.Error(err)
		return
	}

	response.OK(c, "Engineer remove successfully.", nil)
}

// AddProducts assigns stand-by equipment to a project
// POST /smd/api/v1/project/:id/add-product
func (h *ProjectHandler) AddProducts(c *gin.Context) {
	var req services.AddProductsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(err)
		return
	}

	links, err := h.projectService.AddProducts(c.Request.Context(), c.Param("id"), req.ProductIDs)
	if err != nil {
		c.Error(err)
		return
	}

	response.OK(c, "Product added successfully.", links)
}

// RemoveProduct unassigns equipment
// POST /smd/api/v1/project/:id/remove-product
func (h *ProjectHandler) RemoveProduct(c *gin.Context) {
	var req services.RemoveProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(err)
		return
	}

	if err := h.projectService.RemoveProduct(c.Request.Context(), c.Param("id"), req.ProductID); err != nil {
		c.Error(err)
		return
	}

	response.OK(c, "Product remove successfully.", nil)
}
