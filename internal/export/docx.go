// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package export

import (
	"bytes"
	"fmt"

	"github.com/gomutex/godocx"
)

// DOCX builds a Word document with title as a level-1 heading and one
// paragraph per line of text. Blank lines become empty paragraphs.
func DOCX(title, text string) ([]byte, error) {
	doc, err := godocx.NewDocument()
	if err != nil {
		return nil, fmt.Errorf("create docx: %w", err)
	}
	if _, err := doc.AddHeading(title, 1); err != nil {
		return nil, fmt.Errorf("add docx heading: %w", err)
	}
	for _, line := range lines(text) {
		doc.AddParagraph(line)
	}

	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		return nil, fmt.Errorf("write docx: %w", err)
	}
	return buf.Bytes(), nil
}
