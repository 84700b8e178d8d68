package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-mythos/internal/config"
)

// GET /health
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// GET /config
func configHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Only return non-sensitive config fields
		c.JSON(http.StatusOK, gin.H{
			"server": gin.H{
				"host":    cfg.Server.Host,
				"port":    cfg.Server.Port,
				"subpath": cfg.Server.Subpath,
			},
			"llm": gin.H{
				"name": cfg.LLM.Name,
				"url":  cfg.LLM.URL,
			},
			"objectives": cfg.Objectives,
			"sanity":     cfg.Sanity,
			"ai":         cfg.AI,
		})
	}
}
