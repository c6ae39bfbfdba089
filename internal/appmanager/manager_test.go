package appmanager

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/SergioPardoA/auditorIA/internal/serviceiface"
)

func TestLoadServiceSequenceSortsByStartOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "services.yaml")
	yaml := `services:
  - name: inbox-sweeper
    start_order: 3
    config:
      inbox_dir: ""
  - name: logger
    start_order: 1
    config:
      level: info
  - name: audit-api
    start_order: 2
    config:
      addr: ":8143"
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	configs, err := LoadServiceSequence(path)
	if err != nil {
		t.Fatalf("LoadServiceSequence: %v", err)
	}
	want := []string{"logger", "audit-api", "inbox-sweeper"}
	if len(configs) != len(want) {
		t.Fatalf("services = %d, want %d", len(configs), len(want))
	}
	for i, name := range want {
		if configs[i].Name != name {
			t.Errorf("position %d = %s, want %s", i, configs[i].Name, name)
		}
	}
	if addr, _ := configs[1].Config["addr"].(string); addr != ":8143" {
		t.Errorf("audit-api addr = %q, want :8143", addr)
	}
}

func TestLoadServiceSequenceMissingFile(t *testing.T) {
	if _, err := LoadServiceSequence(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("missing file did not error")
	}
}

type fakeService struct {
	name     string
	started  bool
	stopped  bool
	startErr error
	order    *[]string
}

func (f *fakeService) Name() string { return f.name }

func (f *fakeService) Start() error {
	f.started = true
	return f.startErr
}

func (f *fakeService) Stop() error {
	f.stopped = true
	if f.order != nil {
		*f.order = append(*f.order, f.name)
	}
	return nil
}

func TestStartAllStopsOnFirstFailure(t *testing.T) {
	am := NewAppManager()
	okSvc := &fakeService{name: "first"}
	badSvc := &fakeService{name: "second", startErr: errors.New("boom")}
	lastSvc := &fakeService{name: "third"}
	am.RegisterService(okSvc)
	am.RegisterService(badSvc)
	am.RegisterService(lastSvc)

	if err := am.StartAll(); err == nil {
		t.Fatal("StartAll did not surface the failure")
	}
	if !okSvc.started || !badSvc.started {
		t.Error("services before the failure were not started")
	}
	if lastSvc.started {
		t.Error("service after the failure was started")
	}
}

func TestStopAllRunsInReverseOrder(t *testing.T) {
	var order []string
	am := NewAppManager()
	am.RegisterService(&fakeService{name: "a", order: &order})
	am.RegisterService(&fakeService{name: "b", order: &order})
	am.RegisterService(&fakeService{name: "c", order: &order})

	if err := am.StopAll(); err != nil {
		t.Fatalf("StopAll: %v", err)
	}
	want := []string{"c", "b", "a"}
	for i, name := range want {
		if order[i] != name {
			t.Fatalf("stop order = %v, want %v", order, want)
		}
	}
}

func TestGetServiceByName(t *testing.T) {
	am := NewAppManager()
	svc := &fakeService{name: "audit-api"}
	am.RegisterService(svc)

	var got serviceiface.Service = am.GetServiceByName("audit-api")
	if got != svc {
		t.Errorf("GetServiceByName returned %v", got)
	}
	if am.GetServiceByName("missing") != nil {
		t.Error("unknown name did not return nil")
	}
}
