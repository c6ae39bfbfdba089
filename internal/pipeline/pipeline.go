// Package pipeline runs a full audit over an ingested table: column
// resolution, feature derivation, outlier detection and summarization. Each
// run is self-contained and reproducible from its input alone; no state is
// carried between batches.
package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/SergioPardoA/auditorIA/internal/derive"
	"github.com/SergioPardoA/auditorIA/internal/ingest"
	"github.com/SergioPardoA/auditorIA/internal/isoforest"
	"github.com/SergioPardoA/auditorIA/internal/journal"
	"github.com/SergioPardoA/auditorIA/internal/ledger"
	"github.com/SergioPardoA/auditorIA/internal/schema"
)

// Result is the complete outcome of one audit run.
type Result struct {
	RunID          string                  `json:"run_id"`
	Rows           int                     `json:"rows"`
	ScoredRows     int                     `json:"scored_rows"`
	Classification schema.Classification   `json:"classification"`
	Summary        ledger.Summary          `json:"summary"`
	Entries        []ledger.AnnotatedEntry `json:"entries"`

	// Columns and ExtraColumns fix the export order for WriteCSV: canonical
	// columns that were present, then extraneous passthrough columns.
	Columns      []string `json:"-"`
	ExtraColumns []string `json:"-"`
}

// Auditor wires the schema table and the outlier detector into a reusable
// audit pipeline. Safe for concurrent use; runs share no mutable state.
type Auditor struct {
	table    *schema.Table
	detector *isoforest.Detector
	log      zerolog.Logger
	journal  *journal.Journal
}

func New(table *schema.Table, detector *isoforest.Detector, log zerolog.Logger) *Auditor {
	return &Auditor{table: table, detector: detector, log: log}
}

// Schema exposes the active synonym table for introspection endpoints.
func (a *Auditor) Schema() *schema.Table {
	return a.table
}

// SetJournal attaches a run history; every completed run is recorded there.
func (a *Auditor) SetJournal(j *journal.Journal) {
	a.journal = j
}

// Journal returns the attached run history, nil when none was set.
func (a *Auditor) Journal() *journal.Journal {
	return a.journal
}

// Run audits one table. A missing required column surfaces as a
// *schema.SchemaError before any output is assembled; every other per-value
// problem degrades to null or false on its own row. Unexpected panics from
// any stage are caught and reported as a single run failure with no partial
// output.
func (a *Auditor) Run(table *ingest.Table) (res *Result, err error) {
	runID := uuid.New().String()
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("audit run %s failed: %v", runID, r)
		}
	}()

	resolution, err := a.table.Resolve(table.Headers)
	if err != nil {
		return nil, err
	}

	entries := buildEntries(table, resolution)
	_, hasDocument := resolution.Columns[schema.Document]
	annotated, feats := derive.Annotate(entries, hasDocument)

	for i, outlier := range a.detector.FitPredict(feats.Rows) {
		if outlier {
			annotated[feats.Indexes[i]].Outlier = true
		}
	}

	res = &Result{
		RunID:          runID,
		Rows:           len(annotated),
		ScoredRows:     len(feats.Rows),
		Classification: resolution.Classification,
		Summary:        ledger.Summarize(annotated),
		Entries:        annotated,
		Columns:        presentColumns(resolution),
		ExtraColumns:   resolution.ExtraNames,
	}
	a.log.Info().
		Str("run_id", runID).
		Str("file", table.Name).
		Int("rows", res.Rows).
		Int("scored_rows", res.ScoredRows).
		Int("outliers", res.Summary.Outlier.Count).
		Msg("audit run complete")
	if a.journal != nil {
		a.journal.Record(journal.RunRecord{
			RunID:      runID,
			File:       table.Name,
			Rows:       res.Rows,
			ScoredRows: res.ScoredRows,
			Outliers:   res.Summary.Outlier.Count,
			FinishedAt: time.Now().UTC(),
		})
	}
	return res, nil
}

// buildEntries maps every data row onto the canonical entry shape. Rows were
// already padded to header width by ingest, so positional access is safe.
func buildEntries(table *ingest.Table, res *schema.Resolution) []ledger.Entry {
	cell := func(row []string, name string) string {
		idx, ok := res.Columns[name]
		if !ok {
			return ""
		}
		return row[idx]
	}
	entries := make([]ledger.Entry, len(table.Rows))
	for i, row := range table.Rows {
		e := ledger.Entry{
			Date:         cell(row, schema.Date),
			Account:      cell(row, schema.Account),
			DebitAmount:  cell(row, schema.DebitAmount),
			CreditAmount: cell(row, schema.CreditAmount),
			Document:     cell(row, schema.Document),
			TimeOfDay:    cell(row, schema.TimeOfDay),
		}
		if len(res.Extras) > 0 {
			e.Extra = make(map[string]string, len(res.Extras))
			for j, idx := range res.Extras {
				e.Extra[res.ExtraNames[j]] = row[idx]
			}
		}
		entries[i] = e
	}
	return entries
}

func presentColumns(res *schema.Resolution) []string {
	var cols []string
	for _, name := range schema.Required {
		if _, ok := res.Columns[name]; ok {
			cols = append(cols, name)
		}
	}
	for _, name := range schema.Optional {
		if _, ok := res.Columns[name]; ok {
			cols = append(cols, name)
		}
	}
	return cols
}

// derivedColumns are appended after the passthrough columns in every export.
var derivedColumns = []string{
	"Amount",
	"NormalizedHour",
	"OutOfHours",
	"RoundedAmount",
	"Duplicate",
	"DateOffsetDays",
	"Outlier",
}

// WriteCSV streams the annotated dataset: the canonical columns that were
// present, extraneous columns passed through untouched, then the derived
// audit columns. Null derived values render as empty cells.
func (r *Result) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := make([]string, 0, len(r.Columns)+len(r.ExtraColumns)+len(derivedColumns))
	header = append(header, r.Columns...)
	header = append(header, r.ExtraColumns...)
	header = append(header, derivedColumns...)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, e := range r.Entries {
		rec := make([]string, 0, len(header))
		for _, name := range r.Columns {
			rec = append(rec, canonicalValue(e.Entry, name))
		}
		for _, name := range r.ExtraColumns {
			rec = append(rec, e.Extra[name])
		}
		rec = append(rec,
			e.Amount.String(),
			intCell(e.NormalizedHour),
			strconv.FormatBool(e.OutOfHours),
			strconv.FormatBool(e.RoundedAmount),
			strconv.FormatBool(e.Duplicate),
			intCell(e.DateOffsetDays),
			strconv.FormatBool(e.Outlier),
		)
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func canonicalValue(e ledger.Entry, name string) string {
	switch name {
	case schema.Date:
		return e.Date
	case schema.Account:
		return e.Account
	case schema.DebitAmount:
		return e.DebitAmount
	case schema.CreditAmount:
		return e.CreditAmount
	case schema.Document:
		return e.Document
	case schema.TimeOfDay:
		return e.TimeOfDay
	}
	return ""
}

func intCell(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}
