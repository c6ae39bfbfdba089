package audit

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/SergioPardoA/auditorIA/internal/config"
	"github.com/SergioPardoA/auditorIA/internal/ingest"
	"github.com/SergioPardoA/auditorIA/internal/pipeline"
	"github.com/SergioPardoA/auditorIA/internal/schema"
)

const maxUploadBytes = int64(config.DefaultMaxUploadMB) << 20

// UploadAuditHandler audits an uploaded ledger file and returns the annotated
// entries, the column classification and the anomaly summary as JSON.
func UploadAuditHandler(auditor *pipeline.Auditor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res, ok := runFromRequest(w, r, auditor)
		if !ok {
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":        true,
			"run_id":         res.RunID,
			"rows":           res.Rows,
			"scored_rows":    res.ScoredRows,
			"classification": res.Classification,
			"summary":        res.Summary,
			"entries":        res.Entries,
		})
	})
}

// runFromRequest parses the multipart upload and runs the audit. On failure
// it writes the error response and reports ok=false; infrastructure problems
// go out as plain text, domain rejections as a JSON envelope.
func runFromRequest(w http.ResponseWriter, r *http.Request, auditor *pipeline.Auditor) (*pipeline.Result, bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Failed to parse multipart form: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing 'file' field: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Failed to read upload: "+err.Error(), http.StatusInternalServerError)
		return nil, false
	}

	table, err := ingest.Read(header.Filename, data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return nil, false
	}

	res, err := auditor.Run(table)
	if err != nil {
		var schemaErr *schema.SchemaError
		if errors.As(err, &schemaErr) {
			writeError(w, http.StatusBadRequest, schemaErr.Error(), schemaErr.Missing)
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, err.Error(), nil)
		return nil, false
	}
	return res, true
}

func writeError(w http.ResponseWriter, status int, msg string, missing []string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := map[string]interface{}{
		"success": false,
		"error":   msg,
	}
	if missing != nil {
		body["missing_columns"] = missing
	}
	json.NewEncoder(w).Encode(body)
}
