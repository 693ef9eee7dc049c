package handlers

import (
	"net/http"

	"taskboard/internal/events"
	"taskboard/internal/logger"
	"taskboard/internal/ratelimit"
	"taskboard/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires the HTTP layer to services, the task event feed, the rate
// limiter, and logging.
type Handler struct {
	services *service.Service
	feed     *events.Broadcaster
	limiter  *ratelimit.Limiter
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies. feed and
// limiter may be nil (the WebSocket feed then serves no events and rate
// limiting is disabled), which the tests rely on.
func NewHandler(services *service.Service, feed *events.Broadcaster, limiter *ratelimit.Limiter, log *logger.Logger) *Handler {
	return &Handler{services: services, feed: feed, limiter: limiter, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	registerCustomValidators()

	router := gin.New()
	router.Use(gin.Recovery())
	if h.limiter != nil {
		router.Use(h.rateLimitMiddleware)
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Live task feed (WebSocket upgrade) — authenticates inside the handler
	// because browsers cannot set headers on upgrade requests.
	router.GET("/ws", h.wsConnect)

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api", h.authMiddleware)
	{
		h.registerUserRoutes(api)
		h.registerTaskRoutes(api)
	}
}

func (h *Handler) registerUserRoutes(api *gin.RouterGroup) {
	users := api.Group("/users")
	{
		users.GET("/me", h.getMe)
		users.PUT("/me", h.updateMe)

		// Admin-only account management
		users.GET("", h.adminRequired, h.listUsers)
		users.PUT("/:id/deactivate", h.adminRequired, h.deactivateUser)
		users.PUT("/:id/activate", h.adminRequired, h.activateUser)
	}
}

func (h *Handler) registerTaskRoutes(api *gin.RouterGroup) {
	tasks := api.Group("/tasks")
	{
		tasks.POST("", h.createTask)
		tasks.GET("", h.listTasks)
		tasks.GET("/:id", h.getTask)
		tasks.PUT("/:id", h.updateTask)
		tasks.DELETE("/:id", h.deleteTask)
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
