package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-mythos/internal/ai"
	"go-mythos/internal/objective"
)

type suggestionsRequest struct {
	GameState map[string]interface{} `json:"game_state"`
}

// POST /suggestions
// Returns the current suggestion list for the given game state. Cached
// per TTL; the optional LLM refinement pass never blocks past its budget.
func (s *Server) SuggestionsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.coordinator == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "suggestions disabled"})
			return
		}
		var req suggestionsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		s.mu.Lock()
		out := s.coordinator.Suggest(c.Request.Context(), s.manager, objective.GameState(req.GameState))
		s.mu.Unlock()

		c.JSON(http.StatusOK, gin.H{"suggestions": out})
	}
}

type implementRequest struct {
	Suggestion ai.Suggestion `json:"suggestion"`
}

// POST /suggestions/implement
// Turns an accepted suggestion into a registered objective.
func (s *Server) ImplementSuggestionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.coordinator == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "suggestions disabled"})
			return
		}
		var req implementRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Suggestion.ID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid suggestion"})
			return
		}

		s.mu.Lock()
		obj, err := s.coordinator.Implement(s.manager, req.Suggestion)
		s.mu.Unlock()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, obj.Base().Snapshot())
	}
}
