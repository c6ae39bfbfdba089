// Package monitor emits a periodic runtime heartbeat so operators can see
// the process is alive and how much it is carrying between audits.
package monitor

import (
	"runtime"
	"time"

	"github.com/SergioPardoA/auditorIA/internal/logger"
	"github.com/SergioPardoA/auditorIA/internal/serviceiface"
)

type MonitorService struct {
	interval time.Duration
	started  time.Time
	stopChan chan struct{}
}

func NewMonitorService(cfg map[string]interface{}) serviceiface.Service {
	interval := 60 * time.Second
	if val, ok := cfg["heartbeat_interval"]; ok {
		switch v := val.(type) {
		case string:
			if d, err := time.ParseDuration(v); err == nil {
				interval = d
			}
		case int:
			interval = time.Duration(v) * time.Second
		case float64:
			interval = time.Duration(v) * time.Second
		}
	}
	return &MonitorService{
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

func (m *MonitorService) Name() string { return "monitor" }

func (m *MonitorService) Start() error {
	m.started = time.Now()
	go m.heartbeatLoop()
	return nil
}

func (m *MonitorService) Stop() error {
	close(m.stopChan)
	return nil
}

func (m *MonitorService) heartbeatLoop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stopChan:
			return
		case <-ticker.C:
			var mem runtime.MemStats
			runtime.ReadMemStats(&mem)
			l := logger.L()
			l.Info().
				Str("channel", "audit").
				Int("goroutines", runtime.NumGoroutine()).
				Uint64("heap_mb", mem.HeapAlloc/(1024*1024)).
				Dur("uptime", time.Since(m.started).Round(time.Second)).
				Msg("heartbeat")
		}
	}
}
