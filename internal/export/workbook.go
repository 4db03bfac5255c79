// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package export

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/tomtom215/storelens/internal/metrics"
	"github.com/tomtom215/storelens/internal/period"
)

// ErrNoSheets is returned when a workbook would be empty.
var ErrNoSheets = errors.New("workbook needs at least one sheet")

// Sheet is one report table: a header row plus value rows.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]any
}

// Workbook writes each sheet to its own worksheet, in order.
func Workbook(sheets []Sheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const defaultSheet = "Sheet1"
	used := make(map[string]bool, len(sheets))
	for i, s := range sheets {
		name := sheetName(s.Name, used)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %q: %w", name, err)
		}

		if err := writeRow(f, name, 1, toAny(s.Header)); err != nil {
			return nil, err
		}
		for r, row := range s.Rows {
			if err := writeRow(f, name, r+2, row); err != nil {
				return nil, err
			}
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	metrics.ExportsTotal.WithLabelValues(string(FormatWorkbook)).Inc()
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
	}
	return nil
}

// maxSheetName is Excel's sheet name length limit.
const maxSheetName = 31

// sheetName strips characters Excel rejects, truncates to 31 characters
// and makes the name unique within the workbook.
func sheetName(name string, used map[string]bool) string {
	clean := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '-'
		}
		return r
	}, strings.TrimSpace(name))
	if clean == "" {
		clean = "Planilha"
	}
	clean = truncateRunes(clean, maxSheetName)

	candidate := clean
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		candidate = truncateRunes(clean, maxSheetName-len(suffix)) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// Table builds a sheet from a slice of structs. Columns follow the struct's
// exported fields with their JSON names as headers; fields tagged "-" are
// skipped. Times are written as dates and Stringers as their string form.
func Table[T any](name string, rows []T) Sheet {
	t := reflect.TypeOf((*T)(nil)).Elem()
	var (
		fields []int
		header []string
	)
	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			col := strings.Split(f.Tag.Get("json"), ",")[0]
			if col == "-" {
				continue
			}
			if col == "" {
				col = f.Name
			}
			fields = append(fields, i)
			header = append(header, col)
		}
	}

	s := Sheet{Name: name, Header: header, Rows: make([][]any, 0, len(rows))}
	for _, row := range rows {
		v := reflect.ValueOf(row)
		values := make([]any, len(fields))
		for j, i := range fields {
			values[j] = cellValue(v.Field(i).Interface())
		}
		s.Rows = append(s.Rows, values)
	}
	return s
}

func cellValue(v any) any {
	switch x := v.(type) {
	case time.Time:
		return x.Format(period.DateLayout)
	case fmt.Stringer:
		return x.String()
	default:
		return v
	}
}
