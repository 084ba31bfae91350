package main

import (
	"github.com/gin-gonic/gin"
	"github.com/sarkargroup/smd-backend/internal/handlers"
	"github.com/sarkargroup/smd-backend/internal/middleware"
	"github.com/sarkargroup/smd-backend/internal/models"
	"github.com/sarkargroup/smd-backend/pkg/logger"
)

var (
	admins        = []models.Role{models.RoleSuperAdmin, models.RoleAdmin}
	managers      = []models.Role{models.RoleSuperAdmin, models.RoleAdmin, models.RoleProjectManager}
	anyRole       = models.AllRoles
	authRateRPS   = 1.0
	authRateBurst = 5
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	cfg := svc.cfg
	db := svc.db

	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS(cfg.Server.ClientURL))
	r.Use(middleware.AuditLog(cfg.Server.BasePath))
	r.Use(middleware.ErrorHandler(cfg.Server.UniformErrorStatus))
	r.NoRoute(middleware.NotFound())

	// Rate limiter for credential endpoints
	authLimiter := middleware.NewRateLimiter(authRateRPS, authRateBurst)
	svc.limiters = append(svc.limiters, authLimiter)

	guard := middleware.NewAuthGuard(svc.authService)

	authHandler := handlers.NewAuthHandler(svc.authService, cfg)
	userHandler := handlers.NewUserHandler(db)
	healthHandler := handlers.NewHealthHandler(db)

	api := r.Group(cfg.Server.BasePath)
	{
		api.GET("/health", healthHandler.CheckHealth)

		// Users and auth
		user := api.Group("/user")
		{
			user.POST("/login", authLimiter.Middleware(), authHandler.Login)
			user.POST("/logout", authHandler.Logout)
			user.POST("/refresh-token", authHandler.RefreshToken)
			user.POST("/forget-password", authLimiter.Middleware(), authHandler.ForgetPassword)
			user.POST("/set-new-password", authHandler.SetNewPassword)
			user.POST("/reset-password", guard.Require(anyRole...), authHandler.ResetPassword)

			if cfg.Auth.OpenAdminRegistration {
				user.POST("/registration/admin", userHandler.RegisterAdmin())
			} else {
				user.POST("/registration/admin", guard.Require(admins...), userHandler.RegisterAdmin())
			}
			user.POST("/registration/project-manager", guard.Require(admins...), userHandler.RegisterProjectManager())
			user.POST("/registration/engineer", guard.Require(admins...), userHandler.RegisterEngineer())
			user.POST("/registration/client", guard.Require(admins...), userHandler.RegisterClient)

			user.GET("/profile", guard.Require(anyRole...), userHandler.Profile)
			user.PUT("/:userId/update/active/status", guard.Require(admins...), userHandler.UpdateActiveStatus)
			user.DELETE("/:userId/soft-delete", guard.Require(admins...), userHandler.SoftDelete)
		}

		// Role profiles
		registerProfileRoutes(api.Group("/admin", guard.Require(admins...)), handlers.NewAdminHandler(db))
		registerProfileRoutes(api.Group("/engineer", guard.Require(admins...)), handlers.NewEngineerHandler(db))
		registerProfileRoutes(api.Group("/project-manager", guard.Require(admins...)), handlers.NewProjectManagerHandler(db))
		registerProfileRoutes(api.Group("/client", guard.Require(admins...)), handlers.NewClientHandler(db))

		// Products
		productHandler := handlers.NewProductHandler(db)
		product := api.Group("/product")
		{
			product.POST("/create", guard.Require(admins...), productHandler.Create)
			product.GET("/all", guard.Require(anyRole...), productHandler.List)
			product.GET("/:id", guard.Require(anyRole...), productHandler.GetByID)
			product.PATCH("/:id/update", guard.Require(admins...), productHandler.Update)
		}

		// Crews
		crewHandler := handlers.NewCrewHandler(db)
		crew := api.Group("/crew", guard.Require(admins...))
		{
			crew.POST("/create", crewHandler.Create)
			crew.GET("/all", crewHandler.List)
			crew.GET("/:id", crewHandler.GetByID)
			crew.PATCH("/:id/update", crewHandler.Update)
		}

		// Projects
		projectHandler := handlers.NewProjectHandler(db)
		project := api.Group("/project")
		{
			project.POST("/create", guard.Require(admins...), projectHandler.Create)
			project.GET("/all", guard.Require(anyRole...), projectHandler.List)
			project.GET("/:id", guard.Require(anyRole...), projectHandler.GetByID)
			project.PATCH("/:id/update", guard.Require(managers...), projectHandler.Update)
			project.POST("/:id/add-engineer", guard.Require(admins...), projectHandler.AddEngineers)
			project.POST("/:id/remove-engineer", guard.Require(admins...), projectHandler.RemoveEngineer)
			project.POST("/:id/add-product", guard.Require(admins...), projectHandler.AddProducts)
			project.POST("/:id/remove-product", guard.Require(admins...), projectHandler.RemoveProduct)
		}

		// Project galleries
		galleryHandler := handlers.NewGalleryHandler(db)
		gallery := api.Group("/project-gallery")
		{
			gallery.POST("/create", guard.Require(managers...), galleryHandler.Create)
			gallery.GET("/all", guard.Require(anyRole...), galleryHandler.List)
			gallery.GET("/:id", guard.Require(anyRole...), galleryHandler.GetByID)
			gallery.PATCH("/:id/add-comment", guard.Require(anyRole...), galleryHandler.AddComment)
			gallery.DELETE("/:id", guard.Require(admins...), galleryHandler.Delete)
		}
	}
}

type profileRoutes interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
}

func registerProfileRoutes(g *gin.RouterGroup, h profileRoutes) {
	g.GET("/all", h.List)
	g.GET("/:id", h.Get)
	g.PATCH("/:id/update", h.Update)
}
