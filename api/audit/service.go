package audit

import (
	"github.com/SergioPardoA/auditorIA/internal/config"
	"github.com/SergioPardoA/auditorIA/internal/pipeline"
	"github.com/SergioPardoA/auditorIA/internal/serviceiface"
)

type AuditService struct {
	config  map[string]interface{}
	auditor *pipeline.Auditor
}

func NewAuditService(cfg map[string]interface{}, auditor *pipeline.Auditor) serviceiface.Service {
	return &AuditService{config: cfg, auditor: auditor}
}

func (s *AuditService) Name() string {
	return "audit-api"
}

func (s *AuditService) Start() error {
	addr, _ := s.config["addr"].(string)
	if addr == "" {
		addr = config.Env("AUDIT_HTTP_ADDR", config.DefaultHTTPAddr)
	}
	go StartAuditService(addr, s.auditor)
	return nil
}

func (s *AuditService) Stop() error {
	// Implement stop logic if needed
	return nil
}
