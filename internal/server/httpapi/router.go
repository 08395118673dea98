package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/healthkeeper/internal/logging"
	"github.com/dmitrijs2005/healthkeeper/internal/server/metrics"
)

// NewRouter wires the routes:
//
//	POST /api/auth/register, /api/auth/login
//	POST /api/auth/me, /api/auth/editname, /api/auth/editemail (guarded)
//	GET  /health, /metrics
func NewRouter(h *Handler, tokens TokenVerifier, m *metrics.Metrics, logger logging.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(m, logger), cors())

	router.GET("/health", h.health)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	api := router.Group("/api/auth")
	api.POST("/register", h.register)
	api.POST("/login", h.login)

	guarded := api.Group("")
	guarded.Use(RequireAuth(tokens, m, logger))
	guarded.POST("/me", h.me)
	guarded.POST("/editname", h.editName)
	guarded.POST("/editemail", h.editEmail)

	return router
}
