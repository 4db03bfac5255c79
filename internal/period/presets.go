// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package period

import (
	"fmt"
	"time"
)

// Preset names, in display order.
const (
	Today      = "Hoje"
	Yesterday  = "Ontem"
	Last7Days  = "Últimos 7 dias"
	Last30Days = "Últimos 30 dias"
	ThisMonth  = "Este mês"
	LastMonth  = "Mês anterior"
	Custom     = "Personalizado"
)

// DefaultPreset is selected when a request names none.
const DefaultPreset = Last7Days

// Preset is a named range resolved against a reference day.
type Preset struct {
	Name  string `json:"name"`
	Range Range  `json:"range"`
}

var presetOrder = []string{Today, Yesterday, Last7Days, Last30Days, ThisMonth, LastMonth}

// Presets lists the fixed presets resolved for today, followed by Custom
// with its default range.
func Presets(today time.Time) []Preset {
	out := make([]Preset, 0, len(presetOrder)+1)
	for _, name := range presetOrder {
		r, _ := fixed(name, today)
		out = append(out, Preset{Name: name, Range: r})
	}
	return append(out, Preset{Name: Custom, Range: customDefault(today)})
}

// Resolve returns the range for a preset. Custom uses start and end when
// both are given and falls back to the last 30 days plus today otherwise.
// An empty preset resolves to DefaultPreset unless explicit dates are given.
func Resolve(preset, start, end string, today time.Time) (Range, error) {
	if preset == "" {
		if start != "" || end != "" {
			preset = Custom
		} else {
			preset = DefaultPreset
		}
	}

	if preset == Custom {
		if start == "" && end == "" {
			return customDefault(today), nil
		}
		return Parse(start, end)
	}

	r, ok := fixed(preset, today)
	if !ok {
		return Range{}, fmt.Errorf("%w: unknown preset %q", ErrInvalidRange, preset)
	}
	return r, nil
}

func fixed(name string, today time.Time) (Range, bool) {
	t := day(today)
	firstOfMonth := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)

	switch name {
	case Today:
		return Range{Start: t, End: t}, true
	case Yesterday:
		y := t.AddDate(0, 0, -1)
		return Range{Start: y, End: y}, true
	case Last7Days:
		return Range{Start: t.AddDate(0, 0, -6), End: t}, true
	case Last30Days:
		return Range{Start: t.AddDate(0, 0, -29), End: t}, true
	case ThisMonth:
		return Range{Start: firstOfMonth, End: t}, true
	case LastMonth:
		lastDay := firstOfMonth.AddDate(0, 0, -1)
		return Range{Start: firstOfMonth.AddDate(0, -1, 0), End: lastDay}, true
	}
	return Range{}, false
}

func customDefault(today time.Time) Range {
	t := day(today)
	return Range{Start: t.AddDate(0, 0, -30), End: t}
}

// IsPreset reports whether name is a known preset, Custom included.
func IsPreset(name string) bool {
	if name == Custom {
		return true
	}
	_, ok := fixed(name, time.Now())
	return ok
}
