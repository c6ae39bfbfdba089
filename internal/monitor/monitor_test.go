package monitor

import (
	"testing"
	"time"
)

func TestNewMonitorServiceInterval(t *testing.T) {
	cases := []struct {
		name string
		cfg  map[string]interface{}
		want time.Duration
	}{
		{"default", map[string]interface{}{}, 60 * time.Second},
		{"duration string", map[string]interface{}{"heartbeat_interval": "250ms"}, 250 * time.Millisecond},
		{"integer seconds", map[string]interface{}{"heartbeat_interval": 5}, 5 * time.Second},
		{"float seconds", map[string]interface{}{"heartbeat_interval": 2.0}, 2 * time.Second},
		{"garbage string", map[string]interface{}{"heartbeat_interval": "soon"}, 60 * time.Second},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewMonitorService(tc.cfg).(*MonitorService)
			if svc.interval != tc.want {
				t.Fatalf("interval = %v, want %v", svc.interval, tc.want)
			}
		})
	}
}

func TestMonitorStartStop(t *testing.T) {
	svc := NewMonitorService(map[string]interface{}{"heartbeat_interval": "10ms"})
	if svc.Name() != "monitor" {
		t.Fatalf("Name() = %q, want %q", svc.Name(), "monitor")
	}
	if err := svc.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	if err := svc.Stop(); err != nil {
		t.Fatalf("Stop() error: %v", err)
	}
}
