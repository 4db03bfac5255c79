// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package period

import (
	"errors"
	"testing"
	"time"
)

func mustParse(t *testing.T, start, end string) Range {
	t.Helper()
	r, err := Parse(start, end)
	if err != nil {
		t.Fatalf("Parse(%q, %q) error = %v", start, end, err)
	}
	return r
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		wantErr bool
	}{
		{"single day", "2024-01-08", "2024-01-08", false},
		{"week", "2024-01-08", "2024-01-14", false},
		{"end before start", "2024-01-14", "2024-01-08", true},
		{"bad start", "08/01/2024", "2024-01-14", true},
		{"bad end", "2024-01-08", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.start, tt.end)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidRange) {
				t.Errorf("error %v should wrap ErrInvalidRange", err)
			}
		})
	}
}

func TestDays(t *testing.T) {
	if got := mustParse(t, "2024-01-08", "2024-01-14").Days(); got != 7 {
		t.Errorf("Days() = %d, want 7", got)
	}
	if got := mustParse(t, "2024-02-28", "2024-03-01").Days(); got != 3 {
		t.Errorf("Days() across leap day = %d, want 3", got)
	}
}

func TestPrevious(t *testing.T) {
	tests := []struct {
		start, end         string
		wantStart, wantEnd string
	}{
		{"2024-01-08", "2024-01-14", "2024-01-01", "2024-01-07"},
		{"2024-03-01", "2024-03-01", "2024-02-29", "2024-02-29"},
		{"2024-01-01", "2024-01-31", "2023-12-01", "2023-12-31"},
	}
	for _, tt := range tests {
		prev := mustParse(t, tt.start, tt.end).Previous()
		if prev.StartDate() != tt.wantStart || prev.EndDate() != tt.wantEnd {
			t.Errorf("Previous(%s..%s) = %s, want %s a %s", tt.start, tt.end, prev, tt.wantStart, tt.wantEnd)
		}
	}
}

func TestString(t *testing.T) {
	if got := mustParse(t, "2024-01-08", "2024-01-14").String(); got != "2024-01-08 a 2024-01-14" {
		t.Errorf("String() = %q", got)
	}
}

func TestNewTruncatesToDay(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	r, err := New(time.Date(2024, 5, 10, 22, 30, 0, 0, loc), time.Date(2024, 5, 12, 1, 0, 0, 0, loc))
	if err != nil {
		t.Fatal(err)
	}
	if r.String() != "2024-05-10 a 2024-05-12" {
		t.Errorf("New() = %s, want calendar days in the caller's zone", r)
	}
}

func TestResolve(t *testing.T) {
	today := time.Date(2024, 3, 15, 13, 0, 0, 0, time.UTC)
	tests := []struct {
		preset, start, end string
		want               string
		wantErr            bool
	}{
		{"", "", "", "2024-03-09 a 2024-03-15", false},
		{Today, "", "", "2024-03-15 a 2024-03-15", false},
		{Yesterday, "", "", "2024-03-14 a 2024-03-14", false},
		{Last7Days, "", "", "2024-03-09 a 2024-03-15", false},
		{Last30Days, "", "", "2024-02-15 a 2024-03-15", false},
		{ThisMonth, "", "", "2024-03-01 a 2024-03-15", false},
		{LastMonth, "", "", "2024-02-01 a 2024-02-29", false},
		{Custom, "", "", "2024-02-14 a 2024-03-15", false},
		{Custom, "2024-01-01", "2024-01-10", "2024-01-01 a 2024-01-10", false},
		{"", "2024-01-01", "2024-01-10", "2024-01-01 a 2024-01-10", false},
		{Custom, "2024-01-10", "", "", true},
		{"Ano passado", "", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.preset+tt.start, func(t *testing.T) {
			got, err := Resolve(tt.preset, tt.start, tt.end, today)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Resolve() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got.String() != tt.want {
				t.Errorf("Resolve() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestLastMonthInJanuary(t *testing.T) {
	r, err := Resolve(LastMonth, "", "", time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if r.String() != "2024-12-01 a 2024-12-31" {
		t.Errorf("LastMonth = %s", r)
	}
}

func TestPresetsOrder(t *testing.T) {
	presets := Presets(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	want := []string{Today, Yesterday, Last7Days, Last30Days, ThisMonth, LastMonth, Custom}
	if len(presets) != len(want) {
		t.Fatalf("len(Presets) = %d, want %d", len(presets), len(want))
	}
	for i, p := range presets {
		if p.Name != want[i] {
			t.Errorf("Presets[%d] = %q, want %q", i, p.Name, want[i])
		}
	}
}
