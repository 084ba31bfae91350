package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sarkargroup/smd-backend/internal/middleware"
	"github.com/sarkargroup/smd-backend/internal/models"
	"github.com/sarkargroup/smd-backend/internal/services"
	"github.com/sarkargroup/smd-backend/pkg/response"
	"gorm.io/gorm"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{
		userService: services.NewUserService(db),
	}
}

// registerEmployee returns a handler creating a user with the given employee role.
func (h *UserHandler) registerEmployee(role models.Role, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.EmployeeRegistrationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(err)
			return
		}

		view, err := h.userService.EmployeeRegistration(c.Request.Context(), role, &req)
		if err != nil {
			c.Error(err)
			return
		}

		response.Created(c, message, view)
	}
}

// RegisterAdmin creates an admin.
// POST /smd/api/v1/user/registration/admin
func (h *UserHandler) RegisterAdmin() gin.HandlerFunc {
	return h.registerEmployee(models.RoleAdmin, "Admin Registration Successful.")
}

// RegisterProjectManager creates a project manager.
// POST /smd/api/v1/user/registration/project-manager
func (h *UserHandler) RegisterProjectManager() gin.HandlerFunc {
	return h.registerEmployee(models.RoleProjectManager, "Project Manager Registration Successful.")
}

// RegisterEngineer creates an engineer.
// POST /smd/api/v1/user/registration/engineer
func (h *UserHandler) RegisterEngineer() gin.HandlerFunc {
	return h.registerEmployee(models.RoleEngineer, "Engineer Registration Successful.")
}

// RegisterClient creates a client.
// POST /smd/api/v1/user/registration/client
func (h *UserHandler) RegisterClient(c *gin.Context) {
	var req services.ClientRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(err)
		return
	}

	view, err := h.userService.ClientRegistration(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	response.Created(c, "Client Registration Successful.", view)
}

// Profile returns the current user merged with its role profile.
// GET /smd/api/v1/user/profile
func (h *UserHandler) Profile(c *gin.Context) {
	view, err := h.userService.Profile(c.Request.Context(), middleware.GetEmail(c))
	if err != nil {
		c.Error(err)
		return
	}

	response.OK(c, "Profile info found successfully.", view)
}

// UpdateActiveStatus blocks or unblocks a user.
// PUT /smd/api/v1/user/:userId/update/active/status
func (h *UserHandler) UpdateActiveStatus(c *gin.Context) {
	var req services.ActiveStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(err)
		return
	}

	user, err := h.userService.ActiveStatusUpdate(c.Request.Context(), middleware.CurrentUser(c), c.Param("userId"), *req.IsActive)
	if err != nil {
		c.Error(err)
		return
	}

	response.OK(c, "User active status updated successfully.", user)
}

// SoftDelete flags a user as deleted or restores it.
// DELETE /smd/api/v1/user/:userId/soft-delete
func (h *UserHandler) SoftDelete(c *gin.Context) {
	var req services.SoftDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(err)
		return
	}

	user, err := h.userService.SoftDelete(c.Request.Context(), middleware.CurrentUser(c), c.Param("userId"), *req.IsDeleted)
	if err != nil {
		c.Error(err)
		return
	}

	response.OK(c, "User soft deleted successfully.", user)
}
