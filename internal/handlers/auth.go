package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sarkargroup/smd-backend/internal/config"
	"github.com/sarkargroup/smd-backend/internal/middleware"
	"github.com/sarkargroup/smd-backend/internal/services"
	"github.com/sarkargroup/smd-backend/pkg/response"
)

const refreshCookie = "refreshToken"

type AuthHandler struct {
	authService *services.AuthService
	refreshTTL  int
	secure      bool
}

func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		refreshTTL:  int(cfg.Token.Refresh.TTL.Seconds()),
		secure:      cfg.Server.Mode == "release",
	}
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookie, value, maxAge, "/", "", h.secure, true)
}

// Login handles user login. The refresh token travels as an http-only cookie.
// POST /smd/api/v1/user/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken, h.refreshTTL)
	response.OK(c, "User logged in successfully.", result.AccessToken)
}

// Logout revokes the presented tokens and clears the refresh cookie.
// POST /smd/api/v1/user/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var tokens []string
	if t := middleware.BearerToken(c.GetHeader("Authorization")); t != "" {
		tokens = append(tokens, t)
	}
	if t, err := c.Cookie(refreshCookie); err == nil && t != "" {
		tokens = append(tokens, t)
	}

	if err := h.authService.Logout(c.Request.Context(), tokens...); err != nil {
		c.Error(err)
		return
	}

	h.setRefreshCookie(c, "", -1)
	response.OK(c, "User logged out successfully.", nil)
}

// RefreshToken issues a new access token from the refresh cookie.
// POST /smd/api/v1/user/refresh-token
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	refreshToken, _ := c.Cookie(refreshCookie)

	accessToken, err := h.authService.RefreshToken(c.Request.Context(), refreshToken)
	if err != nil {
		c.Error(err)
		return
	}

	response.OK(c, "Access token refreshed successfully.", accessToken)
}

// ForgetPassword mails a reset link.
// POST /smd/api/v1/user/forget-password
func (h *AuthHandler) ForgetPassword(c *gin.Context) {
	var req services.ForgetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(err)
		return
	}

	if err := h.authService.ForgetPassword(c.Request.Context(), req.Email); err != nil {
		c.Error(err)
		return
	}

	response.OK(c, "Check your email to reset your password.", nil)
}

// SetNewPassword completes a forgotten-password reset. The reset token may be
// sent in the body or as the Authorization header.
// POST /smd/api/v1/user/set-new-password
func (h *AuthHandler) SetNewPassword(c *gin.Context) {
	var req services.SetNewPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(err)
		return
	}

	token := req.Token
	if token == "" {
		token = middleware.BearerToken(c.GetHeader("Authorization"))
	}

	if err := h.authService.SetNewPassword(c.Request.Context(), token, req.NewPassword); err != nil {
		c.Error(err)
		return
	}

	response.OK(c, "Password changed successfully.", nil)
}

// ResetPassword changes the current user's password.
// POST /smd/api/v1/user/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req services.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(err)
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), middleware.GetUserID(c), &req); err != nil {
		c.Error(err)
		return
	}

	response.OK(c, "Password reset successfully.", nil)
}
