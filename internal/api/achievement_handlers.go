package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /achievements
func (s *Server) ListAchievementsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.achievements == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "achievements disabled"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"progress":   s.achievements.AllProgress(),
			"unlocked":   s.achievements.Unlocked(),
			"points":     s.achievements.TotalPoints(),
			"completion": s.achievements.Completion(),
		})
	}
}

// GET /achievements/:id/progress
func (s *Server) AchievementProgressHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.achievements == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "achievements disabled"})
			return
		}
		info, err := s.achievements.Progress(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, info)
	}
}
