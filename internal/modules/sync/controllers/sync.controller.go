package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"surgicare-core/internal/modules/sync/services"
)

type SyncController struct {
	engine *services.SyncEngine
	hub    *EventsHub
}

// NewSyncController crée le contrôleur du moteur de synchronisation et
// branche le hub websocket sur les événements du moteur
func NewSyncController(engine *services.SyncEngine, hub *EventsHub) *SyncController {
	engine.OnEvent(hub.Broadcast)
	return &SyncController{
		engine: engine,
		hub:    hub,
	}
}

// Status - GET /api/v1/sync/status
// État de synchronisation patients (seul statut surfacé aux tableaux de bord)
func (c *SyncController) Status(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    c.engine.PatientsState(),
	})
}

// Refresh - POST /api/v1/sync/refresh
// Relance le chargement initial patients : action de récupération quand le
// statut est "error", et échappatoire si le chargement initial reste bloqué
func (c *SyncController) Refresh(ctx *gin.Context) {
	c.engine.ForceRefresh(ctx.Request.Context())

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    c.engine.PatientsState(),
	})
}

// Events - GET /api/v1/sync/events (websocket)
func (c *SyncController) Events(ctx *gin.Context) {
	if err := c.hub.Accept(ctx.Writer, ctx.Request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "Connexion websocket impossible",
			"details": map[string]interface{}{
				"code": "WEBSOCKET_UPGRADE_FAILED",
			},
		})
	}
}
