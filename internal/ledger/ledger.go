package ledger

import (
	"math"

	"github.com/shopspring/decimal"
)

// Entry is one ledger row after column resolution. Fields keep the original
// cell text; optional columns that were absent stay empty. Extra carries the
// unrecognized columns so they survive through to export.
type Entry struct {
	Date         string            `json:"date"`
	Account      string            `json:"account"`
	DebitAmount  string            `json:"debit_amount"`
	CreditAmount string            `json:"credit_amount"`
	Document     string            `json:"document,omitempty"`
	TimeOfDay    string            `json:"time_of_day,omitempty"`
	Extra        map[string]string `json:"extra,omitempty"`
}

// AnnotatedEntry is an Entry plus the derived audit fields.
//
// NormalizedHour and DateOffsetDays are nil when the raw value could not be
// parsed; OutOfHours and Outlier are never true for such rows.
type AnnotatedEntry struct {
	Entry
	Amount         decimal.Decimal `json:"amount"`
	NormalizedHour *int            `json:"normalized_hour"`
	OutOfHours     bool            `json:"out_of_hours"`
	RoundedAmount  bool            `json:"rounded_amount"`
	Duplicate      bool            `json:"duplicate"`
	DateOffsetDays *int            `json:"date_offset_days"`
	Outlier        bool            `json:"outlier"`
}

// KindCount is one summary line: how many rows carry a flag and the share of
// the whole batch as a percentage rounded to two decimals.
type KindCount struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Summary tallies the four anomaly kinds over the full batch. Percentages are
// computed over the total row count, not the scored subset.
type Summary struct {
	OutOfHours    KindCount `json:"out_of_hours"`
	RoundedAmount KindCount `json:"rounded_amount"`
	Duplicate     KindCount `json:"duplicate"`
	Outlier       KindCount `json:"outlier"`
}

// Summarize counts the anomaly flags across the annotated batch.
func Summarize(entries []AnnotatedEntry) Summary {
	var s Summary
	for _, e := range entries {
		if e.OutOfHours {
			s.OutOfHours.Count++
		}
		if e.RoundedAmount {
			s.RoundedAmount.Count++
		}
		if e.Duplicate {
			s.Duplicate.Count++
		}
		if e.Outlier {
			s.Outlier.Count++
		}
	}
	total := len(entries)
	s.OutOfHours.Percentage = percentOf(s.OutOfHours.Count, total)
	s.RoundedAmount.Percentage = percentOf(s.RoundedAmount.Count, total)
	s.Duplicate.Percentage = percentOf(s.Duplicate.Count, total)
	s.Outlier.Percentage = percentOf(s.Outlier.Count, total)
	return s
}

func percentOf(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*10000) / 100
}
