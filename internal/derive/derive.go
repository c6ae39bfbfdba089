// Package derive computes the audit features over a resolved ledger batch:
// transaction amount, out-of-hours and rounded-amount flags, duplicate
// detection and the numeric date offset fed to the outlier model.
package derive

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SergioPardoA/auditorIA/internal/ledger"
	"github.com/SergioPardoA/auditorIA/internal/timeparse"
)

// Features is the numeric matrix handed to the outlier detector: one row per
// scorable entry, column order {date offset, account, amount}. Indexes maps
// each matrix row back to its position in the annotated slice.
type Features struct {
	Rows    [][]float64
	Indexes []int
}

// Annotate derives the audit fields for every entry and assembles the feature
// matrix for rows whose date offset and account both resolved. Outlier stays
// false here; the detector fills it in for scored rows only.
//
// Every per-value parse failure degrades to nil or zero for that row alone;
// Annotate never fails and always returns one annotated entry per input row.
func Annotate(entries []ledger.Entry, hasDocument bool) ([]ledger.AnnotatedEntry, *Features) {
	annotated := make([]ledger.AnnotatedEntry, len(entries))

	dates := make([]*time.Time, len(entries))
	var minDate *time.Time
	for i, e := range entries {
		annotated[i].Entry = e
		annotated[i].NormalizedHour = timeparse.Hour(e.TimeOfDay)

		debit, _ := ParseAmount(e.DebitAmount)
		credit, _ := ParseAmount(e.CreditAmount)
		amount := debit
		if credit.GreaterThan(debit) {
			amount = credit
		}
		annotated[i].Amount = amount
		annotated[i].RoundedAmount = roundedAmount(amount)

		if h := annotated[i].NormalizedHour; h != nil && (*h < 8 || *h > 18) {
			annotated[i].OutOfHours = true
		}

		if d, err := ParseDate(e.Date); err == nil {
			dates[i] = &d
			if minDate == nil || d.Before(*minDate) {
				minDate = &d
			}
		}
	}

	if minDate != nil {
		for i, d := range dates {
			if d == nil {
				continue
			}
			offset := int(d.Sub(*minDate) / (24 * time.Hour))
			annotated[i].DateOffsetDays = &offset
		}
	}

	if hasDocument {
		markDuplicates(annotated)
	}

	feats := &Features{}
	for i := range annotated {
		if annotated[i].DateOffsetDays == nil {
			continue
		}
		account, err := strconv.ParseFloat(strings.TrimSpace(annotated[i].Account), 64)
		if err != nil {
			continue
		}
		feats.Rows = append(feats.Rows, []float64{
			float64(*annotated[i].DateOffsetDays),
			account,
			annotated[i].Amount.InexactFloat64(),
		})
		feats.Indexes = append(feats.Indexes, i)
	}
	return annotated, feats
}

// markDuplicates flags every entry sharing {raw date, account, amount,
// document} with at least one other. Marking is symmetric: all members of a
// group are flagged, not just the later copies. The raw date cell is part of
// the key, so two spellings of the same day count as different.
func markDuplicates(annotated []ledger.AnnotatedEntry) {
	groups := make(map[string][]int, len(annotated))
	for i, e := range annotated {
		key := strings.Join([]string{
			e.Date,
			e.Account,
			amountKey(e.Amount),
			e.Document,
		}, "\x1f")
		groups[key] = append(groups[key], i)
	}
	for _, idxs := range groups {
		if len(idxs) < 2 {
			continue
		}
		for _, i := range idxs {
			annotated[i].Duplicate = true
		}
	}
}

// amountKey renders an amount in a scale-independent form so "1000" and
// "1000.00" collide in the duplicate key.
func amountKey(d decimal.Decimal) string {
	return strconv.FormatFloat(d.InexactFloat64(), 'f', -1, 64)
}

// roundedAmount applies the textual heuristic: the decimal form of the amount
// ends in "000" or "99". Deliberately lexical, not a magnitude check.
func roundedAmount(d decimal.Decimal) bool {
	s := d.String()
	return strings.HasSuffix(s, "000") || strings.HasSuffix(s, "99")
}

// ParseAmount converts a raw amount cell to a decimal. Currency symbols,
// thousands separators and parenthesized negatives are stripped first. Empty
// or unparseable cells report ok=false with a zero value, which the amount
// policy treats as 0.
func ParseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return decimal.Zero, false
	}
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") && len(s) > 2 {
		neg = true
		s = s[1 : len(s)-1]
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "€", "")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.TrimSpace(s)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if neg {
		d = d.Neg()
	}
	return d, true
}

// dateLayouts are tried in order: ISO first, then day-first European forms,
// then compact digits. dd/mm must come before any mm/dd interpretation.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"02/01/2006",
	"02/01/06",
	"02-01-2006",
	"02.01.2006",
	"02-Jan-2006",
	"02-Jan-06",
	"2 Jan 2006",
	"20060102",
}

// ParseDate parses a raw date cell, falling back to Excel date serials for
// numeric cells produced by spreadsheet exports.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	if t, err := parseExcelSerial(s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("could not parse date: %s", s)
}

// parseExcelSerial converts an Excel date serial (possibly with a fractional
// day) into a date. Excel serial 1 is 1900-01-01 and the count includes a
// fake 1900-02-29. Only serials landing between 1900 and ~2173 are accepted,
// so ordinary small integers in a date column stay unparseable instead of
// becoming ancient dates.
func parseExcelSerial(s string) (time.Time, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}, err
	}
	if f < 60 || f >= 100000 {
		return time.Time{}, errors.New("not an excel date serial")
	}
	days := int(f)
	frac := f - float64(days)
	if days > 59 {
		days-- // Excel counts the nonexistent 1900-02-29
	}
	base := time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC)
	d := base.AddDate(0, 0, days)
	return d.Add(time.Duration(frac * float64(24*time.Hour))), nil
}
