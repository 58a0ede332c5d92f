package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/MaratulyTemirbolat/roommate-back/internal/config"
	"github.com/MaratulyTemirbolat/roommate-back/internal/service"
)

// Handler wires all HTTP endpoints to the service layer.
type Handler struct {
	authService     service.AuthService
	userService     service.UserService
	matcherService  service.MatcherService
	locationService service.LocationService
	hobbyService    service.HobbyService
	cfg             *config.Config
}

// NewHandler creates a new Handler.
func NewHandler(
	authService service.AuthService,
	userService service.UserService,
	matcherService service.MatcherService,
	locationService service.LocationService,
	hobbyService service.HobbyService,
	cfg *config.Config,
) *Handler {
	return &Handler{
		authService:     authService,
		userService:     userService,
		matcherService:  matcherService,
		locationService: locationService,
		hobbyService:    hobbyService,
		cfg:             cfg,
	}
}

// RegisterRoutes mounts the API surface. rateLimiter guards the endpoints
// that accept credentials; pass nil to disable (tests).
func (h *Handler) RegisterRoutes(router *gin.Engine, rateLimiter gin.HandlerFunc) {
	limited := func(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
		if rateLimiter == nil {
			return handlers
		}
		return append([]gin.HandlerFunc{rateLimiter}, handlers...)
	}

	users := router.Group("/api/v1/auths/users")
	{
		users.GET("", h.AuthMiddleware(), h.RequireNonDeleted(), h.RequireActiveAccount(), h.listCandidates)
		users.GET("/:id", h.AuthMiddleware(), h.RequireNonDeleted(), h.getUser)
		// OptionalAuth: служебные флаги в теле учитываются только для персонала
		users.POST("/register_user", limited(h.OptionalAuth(), h.registerUser)...)
		users.POST("/login", limited(h.login)...)
		users.POST("/add_districts", h.AuthMiddleware(), h.RequireNonDeleted(), h.addDistricts)
		users.PATCH("/deactivate", h.AuthMiddleware(), h.RequireNonDeleted(), h.deactivateAccount)
		users.PATCH("/activate", h.AuthMiddleware(), h.RequireNonDeleted(), h.activateAccount)
		users.PATCH("/:id/confirm_account", h.AuthMiddleware(), h.RequireNonDeleted(), h.RequireStaff(), h.confirmAccount)
		// Recover must stay reachable for soft-deleted profiles, auth only
		users.PATCH("/recover", h.AuthMiddleware(), h.recoverAccount)
		users.DELETE("", h.AuthMiddleware(), h.RequireNonDeleted(), h.deleteAccount)
	}

	locations := router.Group("/api/v1/locations")
	locations.Use(h.AuthMiddleware(), h.RequireNonDeleted(), h.RequireActiveAccount())
	{
		locations.GET("/city", h.listCities)
		locations.GET("/city/:id/districts", h.listDistricts)
		locations.POST("/city", h.RequireStaff(), h.createCity)
		locations.POST("/city/:id/districts", h.RequireStaff(), h.createDistrict)
	}

	hobbies := router.Group("/api/v1/hobbies")
	hobbies.Use(h.AuthMiddleware(), h.RequireNonDeleted(), h.RequireActiveAccount())
	{
		hobbies.GET("/categories", h.listCategories)
		hobbies.GET("/categories/:id/subcategories", h.listSubCategories)
	}

	token := router.Group("/api/token")
	{
		token.POST("/", limited(h.obtainTokenPair)...)
		token.POST("/refresh/", h.refreshToken)
		token.POST("/verify/", h.verifyToken)
	}
}
