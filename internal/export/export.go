// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tomtom215/storelens/internal/metrics"
)

// DefaultHeading titles exported diagnostics.
const DefaultHeading = "Diagnóstico Automatizado de Performance GA4"

// Format is an export document type.
type Format string

const (
	FormatText     Format = "txt"
	FormatDOCX     Format = "docx"
	FormatPDF      Format = "pdf"
	FormatWorkbook Format = "xlsx"
)

// Content types served for each format.
const (
	ContentTypeText     = "text/plain; charset=utf-8"
	ContentTypeDOCX     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	ContentTypePDF      = "application/pdf"
	ContentTypeWorkbook = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ErrUnknownFormat is returned for formats other than txt, docx and pdf.
var ErrUnknownFormat = errors.New("unknown export format")

// Document is a rendered export ready to be served as a download.
type Document struct {
	Data        []byte
	ContentType string
	Filename    string
}

// Exporter renders diagnostic text under a fixed heading.
type Exporter struct {
	heading string
}

// New returns an exporter. An empty heading uses DefaultHeading.
func New(heading string) *Exporter {
	if heading == "" {
		heading = DefaultHeading
	}
	return &Exporter{heading: heading}
}

// Heading returns the document title.
func (e *Exporter) Heading() string {
	return e.heading
}

// Render produces text in the requested format. filename is used without its
// extension; the format's extension is always appended.
func (e *Exporter) Render(format Format, text, filename string) (*Document, error) {
	var (
		data        []byte
		contentType string
		err         error
	)
	switch format {
	case FormatText:
		data, contentType = Text(text), ContentTypeText
	case FormatDOCX:
		data, err = DOCX(e.heading, text)
		contentType = ContentTypeDOCX
	case FormatPDF:
		data, err = PDF(e.heading, text)
		contentType = ContentTypePDF
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}

	metrics.ExportsTotal.WithLabelValues(string(format)).Inc()
	return &Document{Data: data, ContentType: contentType, Filename: Filename(filename, format)}, nil
}

// Filename strips any directory and extension from name and appends the
// format's extension. An empty name becomes "diagnostico".
func Filename(name string, format Format) string {
	base := filepath.Base(strings.TrimSpace(name))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "diagnostico"
	}
	return base + "." + string(format)
}

// Text encodes s as UTF-8 bytes.
func Text(s string) []byte {
	return []byte(s)
}

// lines splits s on newlines, dropping carriage returns.
func lines(s string) []string {
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}
