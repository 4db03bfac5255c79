// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package export

import (
	"fmt"
	"unicode/utf8"

	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"
)

var headingColor = color.Color{Red: 38, Green: 38, Blue: 34}

// charsPerLine approximates how many 10pt characters fit the A4 text width.
const charsPerLine = 95

// rowHeight reserves 5mm per wrapped line so long lines do not overlap.
func rowHeight(line string) float64 {
	wrapped := utf8.RuneCountInString(line)/charsPerLine + 1
	return 5 * float64(wrapped)
}

// PDF builds an A4 document with title as heading and one row per line of
// text. Blank lines keep their vertical space.
func PDF(title, text string) ([]byte, error) {
	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetPageMargins(20, 20, 20)

	m.Row(14, func() {
		m.Col(12, func() {
			m.Text(title, props.Text{
				Size:  16,
				Style: consts.Bold,
				Color: headingColor,
			})
		})
	})

	for _, line := range lines(text) {
		if line == "" {
			m.Row(4, func() {})
			continue
		}
		m.Row(rowHeight(line), func() {
			m.Col(12, func() {
				m.Text(line, props.Text{Size: 10})
			})
		})
	}

	buf, err := m.Output()
	if err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
