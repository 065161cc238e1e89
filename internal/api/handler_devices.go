package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"console-cafe-backend/internal/model"
)

// GetDevices handles GET /api/devices.
func (h *Handler) GetDevices(c *gin.Context) {
	devices, err := h.devices.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, devices)
}

// GetDevice handles GET /api/devices/:device_id.
func (h *Handler) GetDevice(c *gin.Context) {
	device, err := h.devices.Get(c.Request.Context(), c.Param("device_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, device)
}

type deviceStatusRequest struct {
	Status model.DeviceStatus `json:"status" binding:"required"`
}

// PutDeviceStatus handles PUT /api/devices/:device_id/status.
func (h *Handler) PutDeviceStatus(c *gin.Context) {
	var req deviceStatusRequest
	if !bind(c, &req) {
		return
	}
	if err := h.devices.SetStatus(c.Request.Context(), c.Param("device_id"), req.Status); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Device status updated"})
}
