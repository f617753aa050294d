package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"vitals-service/internal/logging"
	"vitals-service/internal/models"
	"vitals-service/internal/services"
)

type Handler struct {
	monitor *services.Monitor
	ws      *services.WebSocketManager
	logger  *logging.Logger
}

func NewHandler(monitor *services.Monitor, ws *services.WebSocketManager, logger *logging.Logger) *Handler {
	return &Handler{monitor: monitor, ws: ws, logger: logger}
}

func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": services.ServiceName, "version": services.ServiceVersion})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.monitor.Health())
}

func (h *Handler) GetVitals(c *gin.Context) {
	room := c.Param("room")
	v, err := h.monitor.Get(room)
	if err != nil {
		h.logger.Errorf("Failed to generate vitals for room %s: %v", room, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generating vital signs: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) UpdateVitals(c *gin.Context) {
	room := c.Param("room")
	var u models.VitalSignsUpdate
	if err := c.ShouldBindJSON(&u); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Errorf("Invalid request body for room %s: %v", room, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	v, err := h.monitor.Update(room, u)
	if err != nil {
		h.logger.Errorf("Failed to update vitals for room %s: %v", room, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating vital signs: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) AllVitals(c *gin.Context) {
	c.JSON(http.StatusOK, h.monitor.All())
}

func (h *Handler) Rooms(c *gin.Context) {
	c.JSON(http.StatusOK, h.monitor.Rooms())
}

func (h *Handler) ActivateRoom(c *gin.Context) {
	room := c.Param("room")
	_, already, err := h.monitor.Activate(room)
	if err != nil {
		h.logger.Errorf("Failed to activate room %s: %v", room, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error activating room: " + err.Error()})
		return
	}
	msg := "Room " + room + " activated for monitoring"
	if already {
		msg = "Room " + room + " is already being monitored"
	}
	c.JSON(http.StatusOK, models.RoomActionResponse{Message: msg, Room: room})
}

func (h *Handler) DeactivateRoom(c *gin.Context) {
	room := c.Param("room")
	msg := "Room " + room + " was not being monitored"
	if h.monitor.Deactivate(room) {
		msg = "Room " + room + " deactivated"
	}
	c.JSON(http.StatusOK, models.RoomActionResponse{Message: msg, Room: room})
}
