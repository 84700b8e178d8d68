package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-mythos/internal/achievement"
	"go-mythos/internal/objective"
)

func secondsToDuration(s int) time.Duration {
	return time.Duration(s) * time.Second
}

type createObjectiveRequest struct {
	ID          string                 `json:"id"`
	Template    string                 `json:"template"`
	Scope       string                 `json:"scope"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Kind        string                 `json:"kind"`
	Priority    int                    `json:"priority"`
	TimeLimit   int                    `json:"time_limit_seconds"`
	Options     map[string]interface{} `json:"options"`
}

// POST /objectives
// Builds from a named template when one is given, otherwise from scope +
// definition fields. The objective starts INACTIVE; admission happens on
// the next turn.
func (s *Server) CreateObjectiveHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createObjectiveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if req.ID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		var (
			obj objective.Objective
			err error
		)
		if req.Template != "" {
			overrides := map[string]interface{}{}
			if req.Title != "" {
				overrides["title"] = req.Title
			}
			if req.Description != "" {
				overrides["description"] = req.Description
			}
			if req.Priority != 0 {
				overrides["priority"] = req.Priority
			}
			if req.TimeLimit != 0 {
				overrides["time_limit_seconds"] = req.TimeLimit
			}
			for k, v := range req.Options {
				overrides[k] = v
			}
			obj, err = s.manager.CreateFromTemplate(req.Template, req.ID, overrides)
		} else {
			def := objective.Def{
				ID:          req.ID,
				Title:       req.Title,
				Description: req.Description,
				Kind:        objective.Kind(req.Kind),
				TimeLimit:   secondsToDuration(req.TimeLimit),
			}
			if req.Priority != 0 {
				def.Priority = objective.ClampPriority(req.Priority)
			}
			obj, err = s.manager.Registry().Create(req.Scope, def, req.Options)
			if err == nil {
				err = s.manager.Add(obj)
			}
		}
		if err != nil {
			status := http.StatusInternalServerError
			var merr *objective.ManagerError
			if errors.As(err, &merr) {
				status = http.StatusBadRequest
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, obj.Base().Snapshot())
	}
}

// GET /objectives?scope=&status=
func (s *Server) ListObjectivesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		defer s.mu.Unlock()

		var objs []objective.Objective
		switch {
		case c.Query("scope") != "":
			objs = s.manager.ByScope(objective.Scope(c.Query("scope")))
		case c.Query("status") != "":
			objs = s.manager.ByStatus(objective.Status(c.Query("status")))
		default:
			objs = s.manager.Active()
		}
		out := make([]objective.DisplayInfo, 0, len(objs))
		for _, o := range objs {
			out = append(out, o.Base().Display())
		}
		c.JSON(http.StatusOK, gin.H{
			"objectives": out,
			"summary":    s.manager.DisplaySummary(),
		})
	}
}

// GET /objectives/:id
func (s *Server) GetObjectiveHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		defer s.mu.Unlock()

		obj, ok := s.manager.Get(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "objective not found"})
			return
		}
		c.JSON(http.StatusOK, obj.Base().Snapshot())
	}
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

// POST /objectives/:id/abandon
func (s *Server) AbandonHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req reasonRequest
		_ = c.ShouldBindJSON(&req) // reason is optional

		s.mu.Lock()
		err := s.manager.Abandon(c.Param("id"), req.Reason)
		s.mu.Unlock()
		respondLifecycle(c, err)
	}
}

// POST /objectives/:id/suspend
func (s *Server) SuspendHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req reasonRequest
		_ = c.ShouldBindJSON(&req)

		s.mu.Lock()
		err := s.manager.Suspend(c.Param("id"), req.Reason)
		s.mu.Unlock()
		respondLifecycle(c, err)
	}
}

// POST /objectives/:id/resume
func (s *Server) ResumeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		err := s.manager.Resume(c.Param("id"))
		s.mu.Unlock()
		respondLifecycle(c, err)
	}
}

type turnRequest struct {
	GameState   map[string]interface{} `json:"game_state"`
	ActionData  map[string]interface{} `json:"action_data"`
	PlayerStats map[string]interface{} `json:"player_stats"`
}

// POST /turn
// One game turn: record the action for behavior analysis, run the full
// update cycle, feed terminal results to achievements and difficulty.
func (s *Server) TurnHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req turnRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		state := objective.GameState(req.GameState)
		action := objective.ActionData(req.ActionData)

		if s.coordinator != nil {
			if at, ok := action["action_type"].(string); ok {
				s.coordinator.RecordAction(c.Request.Context(), at)
			}
		}

		s.mu.Lock()
		if s.achievements != nil {
			for k, v := range req.PlayerStats {
				s.achievements.SetStat(k, v)
			}
		}
		delta := s.manager.UpdateAll(state, action)
		unlocked := s.settleTurn(delta, state)
		stats := s.manager.Stats()
		s.mu.Unlock()

		c.JSON(http.StatusOK, gin.H{
			"delta":        delta,
			"achievements": unlocked,
			"stats":        stats,
		})
	}
}

// settleTurn pushes terminal outcomes into the achievement engine and
// the difficulty loop, maintains the completion counters, and closes
// the turn with a condition pass over the current sanity band. Caller
// holds s.mu.
func (s *Server) settleTurn(delta objective.Delta, state objective.GameState) []achievement.UnlockRecord {
	var unlocked []achievement.UnlockRecord
	report := func(ids []string, eventType string, success bool) {
		for _, id := range ids {
			if s.coordinator != nil {
				s.coordinator.RecordOutcome(success)
			}
			if s.achievements == nil {
				continue
			}
			data := map[string]interface{}{"objective_id": id}
			if obj, ok := s.manager.Get(id); ok {
				kind := obj.Base().Kind
				data["kind"] = string(kind)
				data["scope"] = string(obj.Base().Scope)
				if success {
					s.achievements.RecordStat("objectives_completed", 1)
					if kind == objective.KindInvestigation {
						s.achievements.RecordStat("investigations_completed", 1)
					}
				}
			}
			if san, ok := state["sanity"]; ok {
				data["sanity"] = san
			}
			unlocked = append(unlocked, s.achievements.HandleEvent(eventType, data)...)
		}
	}
	report(delta.Completed, "objective_completed", true)
	report(delta.Failed, "objective_failed", false)
	report(delta.Expired, "objective_expired", false)

	if s.achievements != nil {
		data := map[string]interface{}{
			"sanity_state": string(objective.DeriveSanityState(state, s.thresholds)),
		}
		if san, ok := state["sanity"]; ok {
			data["sanity"] = san
		}
		unlocked = append(unlocked, s.achievements.HandleEvent("turn_resolved", data)...)
	}
	return unlocked
}

func respondLifecycle(c *gin.Context, err error) {
	if err != nil {
		status := http.StatusConflict
		var merr *objective.ManagerError
		if errors.As(err, &merr) && merr.Reason == "not found" {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
