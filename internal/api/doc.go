// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

/*
Package api serves the Storelens HTTP API.

Every JSON response uses the models.APIResponse envelope:

	{"success": true, "data": ..., "meta": {"timestamp": ..., "request_id": ...}}
	{"success": false, "error": {"code": "VALIDATION_FAILED", "message": ...}, "meta": ...}

Routes under /api/v1:

	GET    /health                  dependency status (public)
	POST   /auth/login              issue a session token (rate limited)
	POST   /auth/logout             end the current session
	GET    /auth/session            current session and permissions
	GET    /periods                 period presets with their ranges
	GET    /customers               customer scopes the caller may select
	GET    /reports/{view}          summary, sales, products, channels, engagement, pages
	GET    /reports/{view}/xlsx     the same view as an Excel workbook
	POST   /diagnostic              LLM diagnostic of a period
	POST   /export                  render diagnostic text as txt, docx or pdf
	GET    /admin/users             list accounts (admin)
	POST   /admin/users             create an account (admin)
	DELETE /admin/users/{id}        delete an account and revoke its sessions (admin)
	GET    /admin/audit             security audit trail (admin)

Report parameters are preset, start, end (YYYY-MM-DD) and customer. Regular
users are pinned to their own customer whatever they request; admins may
pick any customer or none for all customers.
*/
package api
