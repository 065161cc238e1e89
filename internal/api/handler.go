package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"console-cafe-backend/internal/apperr"
	"console-cafe-backend/internal/cafe"
	"console-cafe-backend/internal/dashboard"
	"console-cafe-backend/internal/ledger"
	"console-cafe-backend/internal/registry"
	"console-cafe-backend/internal/settings"
)

// Pinger reports whether the record store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	devices   *registry.Registry
	sessions  *ledger.Ledger
	dashboard *dashboard.Aggregator
	settings  *settings.Service
	cafe      *cafe.Service
	health    Pinger
	log       *zap.Logger
}

// Deps lists the services the handlers delegate to.
type Deps struct {
	Registry  *registry.Registry
	Ledger    *ledger.Ledger
	Dashboard *dashboard.Aggregator
	Settings  *settings.Service
	Cafe      *cafe.Service
	Health    Pinger
	Logger    *zap.Logger
}

func NewHandler(d Deps) *Handler {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		devices:   d.Registry,
		sessions:  d.Ledger,
		dashboard: d.Dashboard,
		settings:  d.Settings,
		cafe:      d.Cafe,
		health:    d.Health,
		log:       log,
	}
}

// bind decodes the JSON body into req, writing a 400 on failure.
func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// respondError maps service errors to status codes. Unclassified errors are
// store failures and surface as 500.
func (h *Handler) respondError(c *gin.Context, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		_ = c.Error(err)
		h.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	status := http.StatusInternalServerError
	switch appErr.Kind {
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindConflict:
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": appErr.Error()})
}
