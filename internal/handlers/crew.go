package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sarkargroup/smd-backend/internal/services"
	"github.com/sarkargroup/smd-backend/pkg/response"
	"gorm.io/gorm"
)

type CrewHandler struct {
	crewService *services.CrewService
}

func NewCrewHandler(db *gorm.DB) *CrewHandler {
	return &CrewHandler{
		crewService: services.NewCrewService(db),
	}
}

// POST /smd/api/v1/crew/create
func (h *CrewHandler) Create(c *gin.Context) {
	var req services.CreateCrewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(err)
		return
	}

	crew, err := h.crewService.Create(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Created(c, "Crew created successfully.", crew)
}

// GET /smd/api/v1/crew/all
func (h *CrewHandler) List(c *gin.Context) {
	items, meta, err := h.crewService.List(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		c.Error(err)
		return
	}

	response.Paginated(c, "All crew found successfully.", meta, items)
}

// GET /smd/api/v1/crew/:id
func (h *CrewHandler) GetByID(c *gin.Context) {
	crew, err := h.crewService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	response.OK(c, "Crew info found successfully.", crew)
}

// PATCH /smd/api/v1/crew/:id/update
func (h *CrewHandler) Update(c *gin.Context) {
	var req services.UpdateCrewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(err)
		return
	}

	crew, err := h.crewService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		c.Error(err)
		return
	}

	response.OK(c, "Update crew info successfully.", crew)
}
