package audit

import (
	"encoding/json"
	"net/http"

	"github.com/SergioPardoA/auditorIA/internal/pipeline"
	"github.com/SergioPardoA/auditorIA/internal/schema"
)

// SchemaAuditHandler reports the upload contract: required and optional
// canonical columns and every header spelling the resolver recognizes.
func SchemaAuditHandler(auditor *pipeline.Auditor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":  true,
			"required": schema.Required,
			"optional": schema.Optional,
			"synonyms": auditor.Schema().Synonyms(),
		})
	})
}

func HealthAuditHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
}
