// clnp serves continuous liveness verification challenges and scores
// submitted pointer traces for biomechanical plausibility.
//
// Startup sequence:
//  1. Parse flags.
//  2. Initialise the logger.
//  3. Load configuration from the environment.
//  4. Load the scorer config (defaults, optionally overlaid from YAML).
//  5. Create the challenge generator, store, sweeper, metrics, and session
//     log.
//  6. Wire the Session Service and HTTP server.
//  7. Start the sweeper and HTTP server.
//  8. Block until OS signals SIGINT or SIGTERM, then perform a clean
//     shutdown.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glyphwatch/clnp/admin"
	"github.com/glyphwatch/clnp/challenge"
	"github.com/glyphwatch/clnp/config"
	"github.com/glyphwatch/clnp/httpapi"
	"github.com/glyphwatch/clnp/logger"
	"github.com/glyphwatch/clnp/metrics"
	"github.com/glyphwatch/clnp/scorer"
	"github.com/glyphwatch/clnp/session"
)

func main() {
	// ── Flags ──────────────────────────────────────────────────────────────
	debug := flag.Bool("debug", false, "enable debug-level logging")
	flag.Parse()

	// ── Logger ─────────────────────────────────────────────────────────────
	level := logger.LevelInfo
	if *debug {
		level = logger.LevelDebug
	}
	log := logger.New(level)
	log.Info("clnp starting up")

	// ── Configuration ──────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Errorf("failed to load config: %v", err)
		os.Exit(1)
	}
	if cfg.SecretIsEphemeral {
		log.Info("CLNP_SECRET not set; using an ephemeral signing key for this process's lifetime")
	}
	if cfg.AdminToken == "" {
		log.Info("CLNP_ADMIN_TOKEN not set; admin routes will return admin_not_configured")
	}

	// ── Scorer config ──────────────────────────────────────────────────────
	scoreCfg := scorer.DefaultConfig()
	if cfg.ScorerConfigPath != "" {
		scoreCfg, err = scorer.LoadOverlay(cfg.ScorerConfigPath)
		if err != nil {
			log.Errorf("failed to load scorer config from %q: %v", cfg.ScorerConfigPath, err)
			os.Exit(1)
		}
		log.Infof("scorer config loaded from %q", cfg.ScorerConfigPath)
	}

	// ── Challenge generator, store, sweeper ─────────────────────────────────
	gen, err := challenge.NewGenerator()
	if err != nil {
		log.Errorf("failed to create challenge generator: %v", err)
		os.Exit(1)
	}
	store := session.NewStore()
	sweeper := session.NewSweeper(store, log)

	// ── Metrics ────────────────────────────────────────────────────────────
	m, reg := metrics.New()

	// ── Session log + aggregator ────────────────────────────────────────────
	sessionLog, err := session.OpenLog(cfg.DataDir, log)
	if err != nil {
		log.Errorf("failed to open session log in %q: %v", cfg.DataDir, err)
		os.Exit(1)
	}
	defer sessionLog.Close()
	aggregator := admin.New(sessionLog.Path())

	// ── Session Service ──────────────────────────────────────────────────────
	svc := session.NewService(gen, store, scoreCfg, cfg.Secret, sessionLog, log, m, cfg.StandaloneTTL, cfg.EmbedTTL)

	// ── HTTP server ──────────────────────────────────────────────────────────
	api := httpapi.New(svc, store, aggregator, cfg, m, reg, log)
	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: api.Handler(),
	}

	sweeper.Start()
	log.Info("sweeper started")

	go func() {
		log.Infof("HTTP server listening on %s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("HTTP server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	fmt.Println()
	log.Infof("received signal %s; shutting down", sig)

	sweeper.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown error: %v", err)
	}

	log.Info("clnp shut down cleanly")
}
