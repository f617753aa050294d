package api

import (
	"github.com/gin-gonic/gin"

	"vitals-service/internal/logging"
	"vitals-service/internal/metrics"
	"vitals-service/internal/services"
)

func NewRouter(monitor *services.Monitor, ws *services.WebSocketManager, logger *logging.Logger, m *metrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLoggingMiddleware(logger, m))

	h := NewHandler(monitor, ws, logger)
	r.GET("/", h.Root)
	r.GET("/health", h.Health)

	// Vitals
	r.GET("/vitals", h.AllVitals)
	r.GET("/vitals/:room", h.GetVitals)
	r.PUT("/vitals/:room", h.UpdateVitals)

	// Rooms
	r.GET("/rooms", h.Rooms)
	r.POST("/rooms/:room/activate", h.ActivateRoom)
	r.DELETE("/rooms/:room/deactivate", h.DeactivateRoom)

	// Streams
	r.GET("/ws/vitals", h.StreamVitals)
	r.GET("/ws/vitals/:room", h.StreamVitals)

	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}
	return r
}
