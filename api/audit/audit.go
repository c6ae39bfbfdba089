// Package audit exposes the ledger audit pipeline over HTTP: file upload and
// export endpoints plus schema and sample-file introspection.
package audit

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/SergioPardoA/auditorIA/internal/logger"
	"github.com/SergioPardoA/auditorIA/internal/pipeline"
)

func StartAuditService(addr string, auditor *pipeline.Auditor) {
	router := mux.NewRouter()

	router.Handle("/audit/upload", UploadAuditHandler(auditor)).Methods("POST")
	router.Handle("/audit/export", ExportAuditHandler(auditor)).Methods("POST")
	router.Handle("/audit/sample", SampleAuditHandler()).Methods("GET")
	router.Handle("/audit/schema", SchemaAuditHandler(auditor)).Methods("GET")
	router.Handle("/audit/runs", RunsAuditHandler(auditor)).Methods("GET")
	router.Handle("/audit/health", HealthAuditHandler()).Methods("GET")

	l := logger.L()
	l.Info().Str("addr", addr).Msg("audit service listening")
	if err := http.ListenAndServe(addr, router); err != nil {
		l := logger.L()
		l.Fatal().Err(err).Msg("audit service failed")
	}
}
