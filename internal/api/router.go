package api

import (
	"path"
	"sync"

	"github.com/gin-gonic/gin"

	"go-mythos/internal/achievement"
	"go-mythos/internal/ai"
	"go-mythos/internal/config"
	"go-mythos/internal/objective"
)

// Server bundles the engine pieces the handlers need. The objective
// manager is single-writer: mu serializes every mutating endpoint.
type Server struct {
	mu           sync.Mutex
	cfg          *config.Config
	manager      *objective.Manager
	achievements *achievement.Engine
	coordinator  *ai.Coordinator
	hub          *EventHub
	thresholds   objective.Thresholds
}

func NewServer(cfg *config.Config, mgr *objective.Manager, eng *achievement.Engine, coord *ai.Coordinator) *Server {
	s := &Server{
		cfg:          cfg,
		manager:      mgr,
		achievements: eng,
		coordinator:  coord,
		hub:          NewEventHub(),
		thresholds:   SanityThresholds(cfg),
	}
	s.hub.Attach(mgr.Bus())
	return s
}

// SanityThresholds maps the sanity config section onto threshold
// bands, falling back to the defaults when the section is absent.
func SanityThresholds(cfg *config.Config) objective.Thresholds {
	if cfg == nil || cfg.Sanity.StableMin == 0 {
		return objective.DefaultThresholds()
	}
	return objective.Thresholds{
		StableMin:    cfg.Sanity.StableMin,
		StressedMin:  cfg.Sanity.StressedMin,
		DisturbedMin: cfg.Sanity.DisturbedMin,
		UnhingedMin:  cfg.Sanity.UnhingedMin,
	}
}

func SetupRouter(cfg *config.Config, s *Server) *gin.Engine {
	r := gin.Default()
	subpath := cfg.Server.Subpath // e.g. "/mythos" or any custom path, always starts with '/'

	group := r.Group(subpath)
	{
		group.GET("/health", healthHandler)
		group.GET("/config", configHandler(cfg))

		group.POST("/objectives", s.CreateObjectiveHandler())
		group.GET("/objectives", s.ListObjectivesHandler())
		group.GET("/objectives/:id", s.GetObjectiveHandler())
		group.POST("/objectives/:id/abandon", s.AbandonHandler())
		group.POST("/objectives/:id/suspend", s.SuspendHandler())
		group.POST("/objectives/:id/resume", s.ResumeHandler())

		group.POST("/turn", s.TurnHandler())

		group.GET("/achievements", s.ListAchievementsHandler())
		group.GET(path.Join("/achievements", ":id", "progress"), s.AchievementProgressHandler())

		group.POST("/suggestions", s.SuggestionsHandler())
		group.POST("/suggestions/implement", s.ImplementSuggestionHandler())

		group.GET("/ws/events", s.EventStreamHandler())
	}

	return r
}
