package http

import (
	"github.com/gin-gonic/gin"

	"snapcal/internal/middleware"
)

// RegisterRoutes maps the versioned event routes under rg.
func RegisterRoutes(rg *gin.RouterGroup, h Handler, mw middleware.Middleware) {
	events := rg.Group("/events", mw.RateLimit(), mw.LimitBody())
	{
		events.POST("/process-image", h.ProcessImage)
		events.POST("/extract", h.Extract)
	}
}

// RegisterLegacyRoutes keeps the unversioned upload path used by existing frontends.
func RegisterLegacyRoutes(rg *gin.RouterGroup, h Handler, mw middleware.Middleware) {
	rg.POST("/process-image", mw.RateLimit(), mw.LimitBody(), h.ProcessImageLegacy)
}
