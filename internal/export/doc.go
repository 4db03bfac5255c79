// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

/*
Package export renders diagnostics and report views as downloadable
documents.

Diagnostic text is exported as plain text, a Word document or a PDF, each
under the configured heading with one paragraph per line. Report views are
exported as XLSX workbooks with one sheet per table; Table derives the
columns of a sheet from the JSON names of a row type.
*/
package export
