// Package schema resolves arbitrary upload headers onto the canonical ledger
// schema through an enumerated synonym table.
package schema

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Canonical column names. Every recognized header spelling resolves to one of
// these.
const (
	Date         = "Date"
	Account      = "Account"
	DebitAmount  = "DebitAmount"
	CreditAmount = "CreditAmount"
	Document     = "Document"
	TimeOfDay    = "TimeOfDay"
)

// Required and Optional define the upload contract. A file missing any
// required column is rejected with a SchemaError.
var (
	Required = []string{Date, Account, DebitAmount, CreditAmount}
	Optional = []string{Document, TimeOfDay}
)

var canonical = map[string]bool{
	Date:         true,
	Account:      true,
	DebitAmount:  true,
	CreditAmount: true,
	Document:     true,
	TimeOfDay:    true,
}

// defaultSynonyms maps lowercased header spellings to canonical names. The
// Spanish spellings come from the ledger exports this tool was built for.
var defaultSynonyms = map[string]string{
	"fecha":           Date,
	"fecha asiento":   Date,
	"date":            Date,
	"cuenta":          Account,
	"cuenta contable": Account,
	"account":         Account,
	"debe":            DebitAmount,
	"debit":           DebitAmount,
	"debit amount":    DebitAmount,
	"haber":           CreditAmount,
	"credit":          CreditAmount,
	"credit amount":   CreditAmount,
	"documento":       Document,
	"referencia":      Document,
	"factura":         Document,
	"document":        Document,
	"reference":       Document,
	"invoice":         Document,
	"hora":            TimeOfDay,
	"hora operacion":  TimeOfDay,
	"hora operación":  TimeOfDay,
	"time":            TimeOfDay,
	"time of day":     TimeOfDay,
}

// SchemaError reports required canonical columns that are absent after header
// mapping. It aborts the run before any output is produced.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return "missing required columns: " + strings.Join(e.Missing, ", ")
}

// Table is the synonym mapping applied to upload headers. Construct with
// Default or Load; the zero value is unusable.
type Table struct {
	synonyms map[string]string
}

// Default returns the built-in synonym table.
func Default() *Table {
	return &Table{synonyms: defaultSynonyms}
}

// Load reads a synonym table override from a YAML file of the shape
//
//	synonyms:
//	  fecha: Date
//	  debe: DebitAmount
//
// The table replaces the built-in one entirely and is validated before use.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc struct {
		Synonyms map[string]string `yaml:"synonyms"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse synonym table: %w", err)
	}
	syn := make(map[string]string, len(doc.Synonyms))
	for k, v := range doc.Synonyms {
		key := strings.ToLower(strings.TrimSpace(k))
		if prev, ok := syn[key]; ok && prev != v {
			return nil, fmt.Errorf("synonym %q maps to both %s and %s", key, prev, v)
		}
		syn[key] = v
	}
	t := &Table{synonyms: syn}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks the enumerated mapping at startup: non-empty keys, known
// canonical targets, and every required column reachable through at least one
// synonym.
func (t *Table) Validate() error {
	if len(t.synonyms) == 0 {
		return errors.New("synonym table is empty")
	}
	reachable := make(map[string]bool)
	for k, v := range t.synonyms {
		if strings.TrimSpace(k) == "" {
			return errors.New("synonym table has an empty header key")
		}
		if !canonical[v] {
			return fmt.Errorf("synonym %q maps to unknown canonical column %q", k, v)
		}
		reachable[v] = true
	}
	for _, name := range Required {
		if !reachable[name] {
			return fmt.Errorf("no synonym resolves to required column %s", name)
		}
	}
	return nil
}

// Synonyms returns a copy of the active mapping.
func (t *Table) Synonyms() map[string]string {
	out := make(map[string]string, len(t.synonyms))
	for k, v := range t.synonyms {
		out[k] = v
	}
	return out
}

// Classification reports column coverage for one upload: fatal gaps, optional
// gaps, and headers the schema does not know. Computed once, never mutated.
type Classification struct {
	MissingRequired []string `json:"missing_required"`
	MissingOptional []string `json:"missing_optional"`
	Extraneous      []string `json:"extraneous"`
}

// Resolution is the outcome of mapping one header row.
type Resolution struct {
	// Columns maps canonical names to header positions. First match wins;
	// later headers for an already-taken canonical column become extraneous.
	Columns map[string]int
	// Extras lists the positions of extraneous columns in header order, for
	// passthrough to export.
	Extras []int
	// ExtraNames holds the normalized header text for each position in Extras.
	ExtraNames []string

	Classification Classification
}

// Resolve maps raw headers onto the canonical schema. Headers are trimmed and
// lowercased before lookup. A *SchemaError is returned when any required
// column is absent; optional gaps and unrecognized headers are only reported.
func (t *Table) Resolve(headers []string) (*Resolution, error) {
	res := &Resolution{Columns: make(map[string]int)}
	seenExtra := make(map[string]bool)
	for i, h := range headers {
		key := strings.ToLower(strings.TrimSpace(h))
		name, ok := t.synonyms[key]
		if ok {
			if _, taken := res.Columns[name]; !taken {
				res.Columns[name] = i
				continue
			}
		}
		res.Extras = append(res.Extras, i)
		res.ExtraNames = append(res.ExtraNames, key)
		if !seenExtra[key] {
			seenExtra[key] = true
			res.Classification.Extraneous = append(res.Classification.Extraneous, key)
		}
	}
	for _, name := range Required {
		if _, ok := res.Columns[name]; !ok {
			res.Classification.MissingRequired = append(res.Classification.MissingRequired, name)
		}
	}
	for _, name := range Optional {
		if _, ok := res.Columns[name]; !ok {
			res.Classification.MissingOptional = append(res.Classification.MissingOptional, name)
		}
	}
	sort.Strings(res.Classification.MissingRequired)
	sort.Strings(res.Classification.MissingOptional)
	sort.Strings(res.Classification.Extraneous)
	if len(res.Classification.MissingRequired) > 0 {
		return nil, &SchemaError{Missing: res.Classification.MissingRequired}
	}
	return res, nil
}
