package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/SergioPardoA/auditorIA/internal/appmanager"
	"github.com/SergioPardoA/auditorIA/internal/config"
	"github.com/SergioPardoA/auditorIA/internal/isoforest"
	"github.com/SergioPardoA/auditorIA/internal/journal"
	"github.com/SergioPardoA/auditorIA/internal/logger"
	"github.com/SergioPardoA/auditorIA/internal/pipeline"
	"github.com/SergioPardoA/auditorIA/internal/schema"
)

func main() {
	// Load .env for local dev
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		l := logger.L()
		l.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Init(cfg.LogLevel)

	table, err := loadSchema(cfg.SynonymsFile)
	if err != nil {
		l := logger.L()
		l.Fatal().Err(err).Msg("invalid synonym table")
	}

	detector := isoforest.NewDetector(isoforest.Config{
		Contamination: cfg.Contamination,
		Seed:          cfg.Seed,
	})
	auditor := pipeline.New(table, detector, logger.L())
	auditor.SetJournal(journal.New(0))
	appmanager.SetAuditor(auditor)

	manager := appmanager.NewAppManager()

	servicesCfg, err := appmanager.LoadServiceSequence(servicesPath())
	if err != nil {
		l := logger.L()
		l.Fatal().Err(err).Msg("failed to load service sequence")
	}
	manager.AutoRegisterServices(servicesCfg)

	if err := manager.StartAll(); err != nil {
		l := logger.L()
		l.Fatal().Err(err).Msg("failed to start")
	}

	// Graceful shutdown handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	if err := manager.StopAll(); err != nil {
		l := logger.L()
		l.Fatal().Err(err).Msg("failed to stop")
	}
}

// loadSchema validates the synonym table at startup, before any service can
// accept an upload.
func loadSchema(path string) (*schema.Table, error) {
	if path != "" {
		return schema.Load(path)
	}
	table := schema.Default()
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// servicesPath finds services.yaml whether the binary runs from the repo root
// or from cmd/.
func servicesPath() string {
	if _, err := os.Stat("services.yaml"); err == nil {
		return "services.yaml"
	}
	return "../services.yaml"
}
