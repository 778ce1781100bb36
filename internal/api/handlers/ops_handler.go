package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nyayaline/gateway/internal/analytics"
	"github.com/nyayaline/gateway/internal/providers/knowledge"
	"github.com/nyayaline/gateway/internal/store"
)

// OpsHandler serves the read-only operational endpoints: service health,
// usage totals and a debug listing of active sessions.
type OpsHandler struct {
	store     store.Store
	knowledge knowledge.Provider
	stats     *analytics.Stats
	startedAt time.Time
}

func NewOpsHandler(st store.Store, kp knowledge.Provider, stats *analytics.Stats) *OpsHandler {
	return &OpsHandler{store: st, knowledge: kp, stats: stats, startedAt: time.Now().UTC()}
}

func (h *OpsHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	resp := gin.H{"sessions_active": h.store.Count()}
	if err := h.knowledge.Health(ctx); err != nil {
		resp["status"] = "degraded"
		resp["error"] = err.Error()
	} else {
		resp["status"] = "healthy"
		resp["rag_api"] = "connected"
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OpsHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"uptime_seconds":  int64(time.Since(h.startedAt).Seconds()),
		"sessions_active": h.store.Count(),
		"stats":           h.stats.Report(),
	})
}

func (h *OpsHandler) DebugSessions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sessions": h.store.Snapshot()})
}
