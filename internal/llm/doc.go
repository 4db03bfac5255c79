// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

/*
Package llm turns a diagnostic prompt into prose through an OpenAI-compatible
chat completion API, called through github.com/sashabaranov/go-openai.

Candidate models come from three sources, in order: the preferred model, the
backend's model list ranked by prefix, and a static fallback list. Each
candidate is tried exactly once. Failures are logged and collected; when every
candidate fails, Complete returns an *ExhaustedError that unwraps to the last
failure, usually a *ProviderError carrying the provider's own message:

	c := llm.NewClient(&cfg.LLM, nil)
	out, err := c.Complete(ctx, prompt)
	var perr *llm.ProviderError
	if errors.As(err, &perr) {
		// perr.StatusCode, perr.Message
	}
*/
package llm
