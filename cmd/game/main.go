package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/tatianab/text-rpg/internal/config"
	"github.com/tatianab/text-rpg/internal/engine"
	"github.com/tatianab/text-rpg/internal/game"
	"github.com/tatianab/text-rpg/internal/llm"
	"github.com/tatianab/text-rpg/internal/logger"
	"github.com/tatianab/text-rpg/internal/tui"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	log, closer, err := logger.Setup(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		fmt.Printf("Error opening log: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	gen, err := llm.New(llm.Options{
		Provider:        cfg.Provider,
		APIKeyEnv:       cfg.APIKeyEnv,
		BaseURL:         cfg.BaseURL,
		ReasoningEffort: cfg.ReasoningEffort,
	}, log)
	if err != nil {
		fmt.Printf("Error creating model backend: %v\n", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	gen = llm.Instrument(gen, cfg.Provider, llm.NewMetrics(reg))

	if cfg.MetricsAddr != "" {
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: llm.Handler(reg)}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Str("addr", cfg.MetricsAddr).Msg("metrics listener stopped")
			}
		}()
		defer srv.Close()
		log.Info().Str("addr", cfg.MetricsAddr).Msg("serving metrics")
	}

	eng := engine.NewEngine(gen, engine.Options{
		Model:          cfg.Model,
		ThinkingBudget: cfg.ThinkingBudget,
	}, log)

	log.Info().Str("provider", cfg.Provider).Str("model", cfg.Model).Msg("starting game")

	newStore := func() *game.Store { return game.NewStore(eng, log) }
	if err := tui.Run(newStore, log); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
