package audit

import (
	"encoding/json"
	"net/http"

	"github.com/SergioPardoA/auditorIA/internal/journal"
	"github.com/SergioPardoA/auditorIA/internal/pipeline"
)

// RunsAuditHandler lists the recent audit runs recorded in the journal,
// newest first. Without an attached journal the list is always empty.
func RunsAuditHandler(auditor *pipeline.Auditor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		runs := []journal.RunRecord{}
		if j := auditor.Journal(); j != nil {
			runs = j.Recent()
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"runs":    runs,
		})
	})
}
