package date

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDaysRoundTrip(t *testing.T) {
	epoch := New(1970, time.January, 1)
	if epoch.Days() != 0 {
		t.Fatalf("1970-01-01 should be day 0, got %d", epoch.Days())
	}

	// walk a few centuries day by day and compare against the time package
	start := time.Date(1896, time.February, 20, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 365*250; i += 17 {
		tm := start.AddDate(0, 0, i)
		d := FromTime(tm)
		back := FromDays(d.Days())
		if back != d {
			t.Fatalf("FromDays(%d) = %s, want %s", d.Days(), back, d)
		}
		if got := d.Days(); got != tm.Unix()/86400 {
			t.Fatalf("%s.Days() = %d, want %d", d, got, tm.Unix()/86400)
		}
	}
}

func TestNewNormalizes(t *testing.T) {
	tests := []struct {
		name  string
		year  int64
		month time.Month
		day   int
		want  string
	}{
		{"in range", 2021, time.March, 3, "2021-03-03"},
		{"day overflow", 2021, time.October, 32, "2021-11-01"},
		{"month overflow", 2021, 13, 1, "2022-01-01"},
		{"month underflow", 2021, 0, 1, "2020-12-01"},
		{"day zero", 2020, time.March, 0, "2020-02-29"},
		{"negative month", 2021, -13, 15, "2019-11-15"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := New(tt.year, tt.month, tt.day).String(); got != tt.want {
				t.Errorf("New(%d, %d, %d) = %s, want %s", tt.year, tt.month, tt.day, got, tt.want)
			}
		})
	}
}

func TestOf(t *testing.T) {
	if _, err := Of(2024, time.February, 29); err != nil {
		t.Errorf("2024-02-29 should exist: %v", err)
	}
	if _, err := Of(2023, time.February, 29); err == nil {
		t.Errorf("2023-02-29 should not exist")
	}
	if _, err := Of(2024, 13, 28); err == nil {
		t.Errorf("month 13 should not exist")
	}
	if _, err := Of(1900, time.February, 29); err == nil {
		t.Errorf("1900 is not a leap year")
	}
}

func TestAdvance(t *testing.T) {
	tests := []struct {
		name                string
		base                Date
		days, months, years int64
		want                string
	}{
		{"identity", New(2021, 3, 3), 0, 0, 0, "2021-03-03"},
		{"previous month", New(2021, 8, 1), 0, -1, 0, "2021-07-01"},
		{"multi-year underflow", New(2023, 2, 10), 0, -13, -1, "2021-01-10"},
		{"month end clamp then day", New(2020, 3, 1), -1, 1, 0, "2020-03-31"},
		{"clamp to february", New(2024, 3, 28), -2, -1, -1, "2023-02-26"},
		{"range end", New(2024, 3, 28), -3, 1, 1, "2025-04-25"},
		{"jan 31 plus one month", New(2023, 1, 31), 0, 1, 0, "2023-02-28"},
		{"jan 31 plus one month leap", New(2024, 1, 31), 0, 1, 0, "2024-02-29"},
		{"leap day plus a year", New(2024, 2, 29), 0, 0, 1, "2025-02-28"},
		// years are clamped before months, so the two steps do not combine into 13 months
		{"leap day plus a year and a month", New(2024, 2, 29), 0, 1, 1, "2025-03-28"},
		{"month 13 rolls into next year", New(2020, 12, 21), -1, 1, 0, "2021-01-20"},
		{"twelve months", New(2020, 2, 15), -1, 12, 0, "2021-02-14"},
		{"across year boundary", New(2023, 11, 25), 10, 1, 0, "2024-01-04"},
		{"hundred years back", New(2024, 3, 28), 0, 0, -100, "1924-03-28"},
		{"1900 is common", New(1900, 2, 28), 1, 0, 0, "1900-03-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.base.Advance(tt.days, tt.months, tt.years)
			if got.String() != tt.want {
				t.Errorf("%s.Advance(%d, %d, %d) = %s, want %s",
					tt.base, tt.days, tt.months, tt.years, got, tt.want)
			}
		})
	}
}

func TestAdvanceHugeOffsets(t *testing.T) {
	base := New(2021, 3, 3)

	far := base.Advance(1<<62, 1<<62, 1<<62)
	if far.Year() <= base.Year() {
		t.Errorf("expected a far future date, got %s", far)
	}
	if !IsValid(far.Year(), far.Month(), far.Day()) {
		t.Errorf("far date is not valid: %s", far)
	}

	past := base.Advance(-1<<62, -1<<62, -1<<62)
	if past.Year() >= 0 {
		t.Errorf("expected a far past date, got %s", past)
	}
	if !IsValid(past.Year(), past.Month(), past.Day()) {
		t.Errorf("far past date is not valid: %s", past)
	}

	clamped := base.AddYears(MaxOffset * 10)
	if clamped.Year() != base.Year()+MaxOffset {
		t.Errorf("year offset should clamp to MaxOffset, got %d", clamped.Year())
	}
}

func TestString(t *testing.T) {
	if got := New(5, time.June, 7).String(); got != "0005-06-07" {
		t.Errorf("got %s", got)
	}
	if got := New(-44, time.March, 15).String(); got != "-0044-03-15" {
		t.Errorf("got %s", got)
	}
}

func TestTextRoundTrip(t *testing.T) {
	type wrapper struct {
		Date Date `json:"date"`
	}
	in := wrapper{Date: New(2024, 3, 28)}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `{"date":"2024-03-28"}` {
		t.Errorf("unexpected JSON: %s", data)
	}

	var out wrapper
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if out.Date != in.Date {
		t.Errorf("got %s, want %s", out.Date, in.Date)
	}

	var bad Date
	if err := bad.UnmarshalText([]byte("28.3.2024")); err == nil {
		t.Errorf("expected error for non ISO input")
	}
	if err := bad.UnmarshalText([]byte("2023-02-29")); err == nil {
		t.Errorf("expected error for impossible date")
	}
}

func TestTime(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	tm, err := New(2024, 3, 28).Time(loc)
	if err != nil {
		t.Fatalf("Time failed: %v", err)
	}
	if tm.Year() != 2024 || tm.Month() != time.March || tm.Day() != 28 || tm.Hour() != 0 {
		t.Errorf("unexpected time %v", tm)
	}
	if FromTime(tm) != New(2024, 3, 28) {
		t.Errorf("FromTime(Time()) should round trip")
	}
}
