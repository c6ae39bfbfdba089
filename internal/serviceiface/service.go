// Package serviceiface defines the contract every managed service satisfies
// so the appmanager can sequence them from services.yaml.
package serviceiface

// Service is one runnable unit of the process: the HTTP API, the logger file
// sink, the inbox sweeper or the heartbeat monitor. Start must not block;
// long-running work belongs in goroutines the service owns until Stop.
type Service interface {
	Name() string
	Start() error
	Stop() error
}
