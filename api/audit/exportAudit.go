package audit

import (
	"net/http"

	"github.com/SergioPardoA/auditorIA/internal/logger"
	"github.com/SergioPardoA/auditorIA/internal/pipeline"
)

// ExportAuditHandler audits an uploaded ledger file and streams back the
// annotated dataset as a CSV download.
func ExportAuditHandler(auditor *pipeline.Auditor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res, ok := runFromRequest(w, r, auditor)
		if !ok {
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="audited_ledger.csv"`)
		if err := res.WriteCSV(w); err != nil {
			// headers are already on the wire, nothing left but to log it
			l := logger.L()
			l.Error().Err(err).Str("run_id", res.RunID).Msg("streaming export failed")
		}
	})
}
