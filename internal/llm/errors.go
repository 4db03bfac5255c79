// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

var (
	// ErrEmptyCompletion is a 200 response without any answer text.
	ErrEmptyCompletion = errors.New("empty completion")

	// ErrNoModels means no candidate model was configured or discovered.
	ErrNoModels = errors.New("no chat models available")
)

// ProviderError is a non-2xx response from the completion API.
type ProviderError struct {
	StatusCode int
	Type       string
	Code       string
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("provider error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("provider error %d: %s", e.StatusCode, e.Message)
}

// ExhaustedError is returned when every candidate failed. It unwraps to the
// last candidate's error.
type ExhaustedError struct {
	Failures []Failure
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("all %d chat models failed, last %v", len(e.Failures), e.Err)
}

func (e *ExhaustedError) Unwrap() error { return e.Err }

// providerError maps go-openai failures onto ProviderError. Transport errors
// are wrapped with op and keep their cause for errors.Is.
func providerError(op string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		perr := &ProviderError{StatusCode: apiErr.HTTPStatusCode, Type: apiErr.Type, Message: apiErr.Message}
		if apiErr.Code != nil {
			perr.Code = fmt.Sprint(apiErr.Code)
		}
		return perr
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		perr := &ProviderError{StatusCode: reqErr.HTTPStatusCode, Message: strings.TrimSpace(string(reqErr.Body))}
		if perr.Message == "" {
			perr.Message = http.StatusText(reqErr.HTTPStatusCode)
		}
		return perr
	}
	return fmt.Errorf("%s: %w", op, err)
}
