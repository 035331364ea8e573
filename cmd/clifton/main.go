package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"clifton/internal/agent"
	"clifton/internal/config"
	"clifton/internal/db"
	"clifton/internal/history"
	"clifton/internal/llm"
	"clifton/internal/logger"
	"clifton/internal/profile"
	"clifton/internal/tools"
)

func main() {
	logger.Init()

	rootCmd := &cobra.Command{
		Use:   "clifton",
		Short: "Clifton is a CliftonStrengths profile agent",
	}

	rootCmd.AddCommand(agentCmd())
	rootCmd.AddCommand(gatewayCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app bundles everything a command needs, built once from config.
type app struct {
	cfg      *config.Config
	database *db.DB
	runner   agent.Runner
	sessions *history.Store
}

func buildApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	database, err := db.Open(cfg.DB.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := database.Migrate(); err != nil {
		database.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	profiles := profile.NewStore(database)

	registry := agent.NewRegistry()
	registry.Register(tools.NewStoreProfile(profiles))
	registry.Register(tools.NewGetProfile(profiles))
	registry.Register(tools.NewGetAllProfiles(profiles))
	registry.Register(tools.NewCompareProfiles())

	provider := llm.NewOpenAI(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model)
	sessions := history.NewStore(database)

	opts := []agent.ReactOption{
		agent.WithMaxIterations(cfg.Agent.MaxIterations),
	}
	if cfg.Agent.SystemPrompt != "" {
		opts = append(opts, agent.WithSystemPrompt(cfg.Agent.SystemPrompt))
	}

	return &app{
		cfg:      cfg,
		database: database,
		runner:   agent.NewReactRunner(provider, sessions, registry, opts...),
		sessions: sessions,
	}, nil
}

func (a *app) Close() {
	a.database.Close()
}
