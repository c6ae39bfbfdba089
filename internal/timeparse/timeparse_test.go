package timeparse

import "testing"

func TestHour(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int
		wantNil bool
	}{
		{name: "HH:MM morning", raw: "07:45", want: 7},
		{name: "HH:MM single digit hour", raw: "7:45", want: 7},
		{name: "HH:MM noon", raw: "12:00", want: 12},
		{name: "HH:MM evening", raw: "20:00", want: 20},
		{name: "compact four digits", raw: "0745", want: 7},
		{name: "compact three digits", raw: "930", want: 9},
		{name: "compact noon", raw: "1200", want: 12},
		{name: "bare hour", raw: "7", want: 7},
		{name: "bare hour two digits", raw: "23", want: 23},
		{name: "midnight", raw: "0", want: 0},
		{name: "surrounding whitespace", raw: " 12:00 ", want: 12},
		{name: "not a time", raw: "abc", wantNil: true},
		{name: "empty", raw: "", wantNil: true},
		{name: "hour out of range", raw: "24", wantNil: true},
		{name: "negative hour", raw: "-5", wantNil: true},
		{name: "clock out of range", raw: "25:00", wantNil: true},
		{name: "minutes out of range", raw: "9:75", wantNil: true},
		{name: "compact out of range", raw: "2500", wantNil: true},
		{name: "seconds not accepted", raw: "07:45:30", wantNil: true},
		{name: "mixed digits and letters", raw: "12h", wantNil: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Hour(tt.raw)
			if tt.wantNil {
				if got != nil {
					t.Errorf("Hour(%q) = %d, want nil", tt.raw, *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("Hour(%q) = nil, want %d", tt.raw, tt.want)
			}
			if *got != tt.want {
				t.Errorf("Hour(%q) = %d, want %d", tt.raw, *got, tt.want)
			}
		})
	}
}
