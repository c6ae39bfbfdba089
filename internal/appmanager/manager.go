// Package appmanager starts and stops the application services in the order
// declared by services.yaml.
package appmanager

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/SergioPardoA/auditorIA/api/audit"
	"github.com/SergioPardoA/auditorIA/internal/jobs"
	"github.com/SergioPardoA/auditorIA/internal/logger"
	"github.com/SergioPardoA/auditorIA/internal/monitor"
	"github.com/SergioPardoA/auditorIA/internal/pipeline"
	"github.com/SergioPardoA/auditorIA/internal/serviceiface"
)

var auditor *pipeline.Auditor

// SetAuditor installs the shared audit pipeline before services are
// registered. Services receive it through their constructors.
func SetAuditor(a *pipeline.Auditor) {
	auditor = a
}

// GetAuditor returns the shared audit pipeline.
func GetAuditor() *pipeline.Auditor {
	return auditor
}

var serviceConstructors = map[string]func(map[string]interface{}) serviceiface.Service{
	"logger": func(cfg map[string]interface{}) serviceiface.Service {
		return logger.NewLoggerService(cfg)
	},
	"audit-api": func(cfg map[string]interface{}) serviceiface.Service {
		return audit.NewAuditService(cfg, auditor)
	},
	"inbox-sweeper": func(cfg map[string]interface{}) serviceiface.Service {
		return jobs.NewSweeperService(cfg, auditor)
	},
	"monitor": func(cfg map[string]interface{}) serviceiface.Service {
		return monitor.NewMonitorService(cfg)
	},
}

// ------------------- MANAGER -------------------

type AppManager struct {
	services []serviceiface.Service
	mu       sync.Mutex
}

func NewAppManager() *AppManager {
	return &AppManager{
		services: make([]serviceiface.Service, 0),
	}
}

func (am *AppManager) RegisterService(s serviceiface.Service) {
	am.mu.Lock()
	defer am.mu.Unlock()
	am.services = append(am.services, s)
}

func (am *AppManager) StartAll() error {
	am.mu.Lock()
	defer am.mu.Unlock()
	for _, service := range am.services {
		l := logger.L()
		l.Info().Str("service", service.Name()).Msg("starting service")
		if err := service.Start(); err != nil {
			return fmt.Errorf("failed to start service %s: %w", service.Name(), err)
		}
	}
	return nil
}

// StopAll stops services in reverse registration order.
func (am *AppManager) StopAll() error {
	am.mu.Lock()
	defer am.mu.Unlock()
	for i := len(am.services) - 1; i >= 0; i-- {
		svc := am.services[i]
		if err := svc.Stop(); err != nil {
			return fmt.Errorf("failed to stop service %s: %w", svc.Name(), err)
		}
	}
	return nil
}

// ------------------- YAML CONFIG -------------------

type ServiceSequencer struct {
	Services []ServiceConfig `yaml:"services"`
}

type ServiceConfig struct {
	Name       string                 `yaml:"name"`
	StartOrder int                    `yaml:"start_order"`
	Config     map[string]interface{} `yaml:"config"`
}

func LoadServiceSequence(path string) ([]ServiceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var seq ServiceSequencer
	if err := yaml.Unmarshal(data, &seq); err != nil {
		return nil, err
	}

	// sort by start_order
	sort.Slice(seq.Services, func(i, j int) bool {
		return seq.Services[i].StartOrder < seq.Services[j].StartOrder
	})

	return seq.Services, nil
}

// AutoRegisterServices instantiates every sequenced service that has a known
// constructor. Unknown names are skipped so a stale services.yaml cannot take
// the whole process down.
func (am *AppManager) AutoRegisterServices(configs []ServiceConfig) {
	for _, svc := range configs {
		constructor, ok := serviceConstructors[svc.Name]
		if !ok {
			l := logger.L()
			l.Warn().Str("service", svc.Name).Msg("no constructor for sequenced service")
			continue
		}
		am.RegisterService(constructor(svc.Config))
	}
}

func (am *AppManager) GetServiceByName(name string) serviceiface.Service {
	for _, svc := range am.services {
		if svc.Name() == name {
			return svc
		}
	}
	return nil
}
