package ledger

import "testing"

func TestSummarize(t *testing.T) {
	entries := []AnnotatedEntry{
		{OutOfHours: true, RoundedAmount: true, Duplicate: true},
		{RoundedAmount: true, Duplicate: true},
		{},
		{OutOfHours: true, Outlier: true},
	}

	s := Summarize(entries)

	if s.OutOfHours.Count != 2 || s.OutOfHours.Percentage != 50 {
		t.Errorf("OutOfHours = %+v, want count 2 pct 50", s.OutOfHours)
	}
	if s.RoundedAmount.Count != 2 || s.RoundedAmount.Percentage != 50 {
		t.Errorf("RoundedAmount = %+v, want count 2 pct 50", s.RoundedAmount)
	}
	if s.Duplicate.Count != 2 || s.Duplicate.Percentage != 50 {
		t.Errorf("Duplicate = %+v, want count 2 pct 50", s.Duplicate)
	}
	if s.Outlier.Count != 1 || s.Outlier.Percentage != 25 {
		t.Errorf("Outlier = %+v, want count 1 pct 25", s.Outlier)
	}
}

func TestSummarizeRoundsPercentages(t *testing.T) {
	entries := []AnnotatedEntry{{Duplicate: true}, {}, {}}

	s := Summarize(entries)

	if s.Duplicate.Percentage != 33.33 {
		t.Errorf("Duplicate.Percentage = %v, want 33.33", s.Duplicate.Percentage)
	}
}

func TestSummarizeEmptyBatch(t *testing.T) {
	s := Summarize(nil)
	if s.Outlier.Count != 0 || s.Outlier.Percentage != 0 {
		t.Errorf("empty batch summary = %+v, want zeros", s)
	}
}
