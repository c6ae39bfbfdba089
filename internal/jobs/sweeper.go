// Package jobs runs the background inbox sweeper: a cron-driven worker that
// audits ledger files dropped into a watched folder and writes the annotated
// dataset and summary next to each input.
package jobs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/SergioPardoA/auditorIA/internal/checksum"
	"github.com/SergioPardoA/auditorIA/internal/config"
	"github.com/SergioPardoA/auditorIA/internal/ingest"
	"github.com/SergioPardoA/auditorIA/internal/logger"
	"github.com/SergioPardoA/auditorIA/internal/pipeline"
	"github.com/SergioPardoA/auditorIA/internal/schema"
	"github.com/SergioPardoA/auditorIA/internal/serviceiface"
)

const (
	auditedSuffix = ".audited.csv"
	summarySuffix = ".summary.json"
)

var sweepExtensions = map[string]bool{
	".csv":  true,
	".txt":  true,
	".xlsx": true,
	".xls":  true,
}

type SweeperService struct {
	config   map[string]interface{}
	auditor  *pipeline.Auditor
	cron     *cron.Cron
	seen     *checksum.Registry
	dir      string
	schedule string
}

func NewSweeperService(cfg map[string]interface{}, auditor *pipeline.Auditor) serviceiface.Service {
	return &SweeperService{
		config:  cfg,
		auditor: auditor,
		seen:    checksum.NewRegistry(),
	}
}

func (s *SweeperService) Name() string {
	return "inbox-sweeper"
}

// Start schedules the sweep. Without a configured inbox directory the
// service stays idle, so deployments that only use the HTTP API need no
// extra configuration.
func (s *SweeperService) Start() error {
	dir, _ := s.config["inbox_dir"].(string)
	if dir == "" {
		dir = config.Env("AUDIT_INBOX_DIR", "")
	}
	if dir == "" {
		l := logger.L()
		l.Info().Msg("inbox sweeper disabled: no inbox directory configured")
		return nil
	}
	s.dir = dir

	schedule, _ := s.config["schedule"].(string)
	if schedule == "" {
		schedule = config.Env("AUDIT_SWEEP_SCHEDULE", config.DefaultSweepSchedule)
	}
	s.schedule = schedule

	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.schedule, s.sweep); err != nil {
		return fmt.Errorf("unable to schedule inbox sweep: %w", err)
	}
	s.cron.Start()
	logger.Audit(fmt.Sprintf("inbox sweeper started on %s (%s)", s.dir, s.schedule))
	return nil
}

func (s *SweeperService) Stop() error {
	if s.cron != nil {
		s.cron.Stop()
	}
	return nil
}

func (s *SweeperService) sweep() {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		l := logger.L()
		l.Error().Err(err).Str("dir", s.dir).Msg("inbox sweep failed")
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, auditedSuffix) {
			continue
		}
		if !sweepExtensions[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		s.sweepFile(filepath.Join(s.dir, name))
	}
}

// sweepFile audits one inbox file. Content already seen, in this run or a
// previous one, is skipped by digest so reprocessing a folder is idempotent.
func (s *SweeperService) sweepFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		l := logger.L()
		l.Error().Err(err).Str("file", path).Msg("reading inbox file")
		return
	}
	if !s.seen.Remember(checksum.Digest(data)) {
		return
	}

	table, err := ingest.Read(filepath.Base(path), data)
	if err != nil {
		l := logger.L()
		l.Warn().Err(err).Str("file", path).Msg("skipping unreadable inbox file")
		return
	}
	res, err := s.auditor.Run(table)
	if err != nil {
		var schemaErr *schema.SchemaError
		l := logger.L()
		if errors.As(err, &schemaErr) {
			l.Warn().Err(err).Str("file", path).Msg("inbox file rejected")
		} else {
			l.Error().Err(err).Str("file", path).Msg("audit run failed")
		}
		return
	}

	base := strings.TrimSuffix(path, filepath.Ext(path))
	if err := writeOutputs(base, res); err != nil {
		l := logger.L()
		l.Error().Err(err).Str("file", path).Msg("writing audit outputs")
		return
	}
	logger.Audit(fmt.Sprintf("audited %s: %d rows, %d outliers",
		filepath.Base(path), res.Rows, res.Summary.Outlier.Count))
}

func writeOutputs(base string, res *pipeline.Result) error {
	var buf bytes.Buffer
	if err := res.WriteCSV(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(base+auditedSuffix, buf.Bytes(), 0644); err != nil {
		return err
	}
	summary, err := json.MarshalIndent(res.Summary, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(base+summarySuffix, summary, 0644)
}
