package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sarkargroup/smd-backend/internal/models"
	"github.com/sarkargroup/smd-backend/internal/services"
	"github.com/sarkargroup/smd-backend/pkg/response"
	"gorm.io/gorm"
)

// profileUpdate is a bound update body: the user-side part plus profile columns.
type profileUpdate interface {
	UserPart() *services.UserUpdate
	Updates() map[string]any
}

type employeeUpdate struct{ services.EmployeeUpdateRequest }

func (r *employeeUpdate) UserPart() *services.UserUpdate { return r.User }

type clientUpdate struct{ services.ClientUpdateRequest }

func (r *clientUpdate) UserPart() *services.UserUpdate { return r.User }

// messages holds the per-role success messages.
type messages struct {
	list, get, update string
}

// ProfileHandler serves list, get and update for one kind of role profile.
type ProfileHandler[T any] struct {
	service  *services.ProfileService[T]
	newBody  func() profileUpdate
	messages messages
}

func NewAdminHandler(db *gorm.DB) *ProfileHandler[models.Admin] {
	return &ProfileHandler[models.Admin]{
		service: services.NewAdminService(db),
		newBody: func() profileUpdate { return &employeeUpdate{} },
		messages: messages{
			list:   "All admin found successfully.",
			get:    "Admin info found successfully.",
			update: "Update admin info successfully.",
		},
	}
}

func NewEngineerHandler(db *gorm.DB) *ProfileHandler[models.Engineer] {
	return &ProfileHandler[models.Engineer]{
		service: services.NewEngineerService(db),
		newBody: func() profileUpdate { return &employeeUpdate{} },
		messages: messages{
			list:   "All engineer found successfully.",
			get:    "Engineer info found successfully.",
			update: "Update engineer info successfully.",
		},
	}
}

func NewProjectManagerHandler(db *gorm.DB) *ProfileHandler[models.ProjectManager] {
	return &ProfileHandler[models.ProjectManager]{
		service: services.NewProjectManagerService(db),
		newBody: func() profileUpdate { return &employeeUpdate{} },
		messages: messages{
			list:   "All project manager found successfully.",
			get:    "Project-Manager info found successfully.",
			update: "Update project manager info successfully.",
		},
	}
}

func NewClientHandler(db *gorm.DB) *ProfileHandler[models.Client] {
	return &ProfileHandler[models.Client]{
		service: services.NewClientService(db),
		newBody: func() profileUpdate { return &clientUpdate{} },
		messages: messages{
			list:   "All client found successfully.",
			get:    "Client info found successfully.",
			update: "Update client info successfully.",
		},
	}
}

// List returns paginated profiles.
// GET /smd/api/v1/{admin,engineer,project-manager,client}/all
func (h *ProfileHandler[T]) List(c *gin.Context) {
	items, meta, err := h.service.List(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		c.Error(err)
		return
	}

	response.Paginated(c, h.messages.list, meta, items)
}

// Get returns a profile by its id.
// GET /smd/api/v1/{admin,engineer,project-manager,client}/:id
func (h *ProfileHandler[T]) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	response.OK(c, h.messages.get, item)
}

// Update changes the user and profile rows together. The path segment is the
// user id, not the profile id.
// PATCH /smd/api/v1/{admin,engineer,project-manager,client}/:id/update
func (h *ProfileHandler[T]) Update(c *gin.Context) {
	body := h.newBody()
	if err := c.ShouldBindJSON(body); err != nil {
		c.Error(err)
		return
	}

	result, err := h.service.UpdateData(c.Request.Context(), c.Param("id"), body.UserPart(), body.Updates())
	if err != nil {
		c.Error(err)
		return
	}

	response.OK(c, h.messages.update, result)
}
