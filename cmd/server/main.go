package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"go-mythos/internal/achievement"
	"go-mythos/internal/ai"
	"go-mythos/internal/api"
	"go-mythos/internal/config"
	"go-mythos/internal/db"
	"go-mythos/internal/llm"
	"go-mythos/internal/objective"
	redisdb "go-mythos/internal/redis"
)

func main() {
	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := db.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}
	rdb := redisdb.NewClient(cfg)
	if rdb == nil {
		log.Printf("[Main] no redis configured, AI caches stay in memory")
	} else if err := redisdb.Ping(rdb, 2*time.Second); err != nil {
		log.Printf("[Main] redis unreachable at %s: %v", cfg.Redis.Addr, err)
	}

	// Objective engine
	mgrCfg := objective.ManagerConfig{
		MaxActive:    cfg.Objectives.MaxActive,
		MaxImmediate: cfg.Objectives.MaxImmediate,
		MaxShortTerm: cfg.Objectives.MaxShortTerm,
		CleanupAfter: time.Duration(cfg.Objectives.CleanupHours) * time.Hour,
		AutoCleanup:  cfg.Objectives.AutoCleanup,
	}
	registry := objective.NewRegistry()
	registry.SetSanityThresholds(api.SanityThresholds(cfg))
	manager := objective.NewManager(mgrCfg, registry, nil)

	// Achievements, persisted through gorm
	engine, err := achievement.NewEngine("local", nil, achievement.NewGormStore(db.DB))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Achievement engine error: %v\n", err)
		os.Exit(1)
	}

	// Optional LLM queue for suggestion refinement
	var (
		llmClient ai.LLMService
		llmURL    string
	)
	if cfg.LLM.URL != "" {
		queue := llm.NewManager(llm.DefaultConfig(), llm.NewCircuitBreaker(3, 30*time.Second))
		timeout := time.Duration(cfg.LLM.TimeoutSeconds) * time.Second
		llmClient = llm.NewClient(queue, llm.PriorityCritical, timeout)
		llmURL = cfg.LLM.URL
		log.Printf("[Main] LLM queue ready for %s (%s)", cfg.LLM.Name, cfg.LLM.URL)
	} else {
		log.Printf("[Main] no LLM configured, suggestions stay heuristic")
	}

	coordinator := ai.NewCoordinator(ai.CoordinatorConfig{
		Generator: ai.GeneratorConfig{
			MinConfidence:  cfg.AI.MinConfidence,
			MaxSuggestions: cfg.AI.MaxSuggestions,
		},
		Adjuster: ai.AdjusterConfig{
			TargetSuccessRate: cfg.AI.TargetSuccessRate,
			Sensitivity:       cfg.AI.Sensitivity,
			Window:            cfg.AI.HistoryWindow,
		},
		LLM:           llmClient,
		LLMURL:        llmURL,
		Redis:         rdb,
		SuggestionTTL: time.Duration(cfg.AI.SuggestionTTL) * time.Second,
	})

	server := api.NewServer(cfg, manager, engine, coordinator)
	r := api.SetupRouter(cfg, server)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("Starting server on %s%s\n", addr, cfg.Server.Subpath)
	if err := r.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
