// Storelens - E-commerce Analytics Reporting Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storelens

package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/samber/lo"
	openai "github.com/sashabaranov/go-openai"

	"github.com/tomtom215/storelens/internal/config"
	"github.com/tomtom215/storelens/internal/logging"
	"github.com/tomtom215/storelens/internal/metrics"
)

// SystemPrompt is the system turn sent with every completion.
const SystemPrompt = "Você é um analista de dados Web Analytics consultivo e especialista em e-commerce."

// Completion is a successful chat completion and the candidates that failed
// before it.
type Completion struct {
	Text     string    `json:"text"`
	Model    string    `json:"model"`
	Failures []Failure `json:"failures,omitempty"`
}

// Failure is one candidate model that did not produce a completion.
type Failure struct {
	Model string `json:"model"`
	Err   error  `json:"-"`
}

// MarshalJSON exposes the error message.
func (f Failure) MarshalJSON() ([]byte, error) {
	msg := ""
	if f.Err != nil {
		msg = f.Err.Error()
	}
	return json.Marshal(struct {
		Model string `json:"model"`
		Error string `json:"error"`
	}{f.Model, msg})
}

// Client calls an OpenAI-compatible chat completion API, walking an ordered
// list of candidate models until one answers. Safe for concurrent use.
type Client struct {
	api         *openai.Client
	preferred   string
	fallbacks   []string
	discover    bool
	prefixes    []string
	temperature float32
	maxTokens   int
}

// NewClient builds a client from cfg. A nil httpClient uses one with
// cfg.Timeout.
func NewClient(cfg *config.LLMConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 90 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	apiCfg.HTTPClient = httpClient

	return &Client{
		api:         openai.NewClientWithConfig(apiCfg),
		preferred:   cfg.PreferredModel,
		fallbacks:   cfg.FallbackModels,
		discover:    cfg.DiscoveryEnabled,
		prefixes:    cfg.PriorityPrefixes,
		temperature: float32(cfg.Temperature),
		maxTokens:   cfg.MaxTokens,
	}
}

// Candidates returns the models Complete will try, in order, without
// duplicates. Discovery errors are logged and skipped.
func (c *Client) Candidates(ctx context.Context) []string {
	var models []string
	if c.preferred != "" {
		models = append(models, c.preferred)
	}
	if c.discover {
		discovered, err := c.Discover(ctx)
		if err != nil {
			metrics.LLMDiscoveryErrors.Inc()
			logging.Ctx(ctx).Warn().Err(err).Msg("Chat model discovery failed, using configured models")
		} else {
			models = append(models, discovered...)
		}
	}
	models = append(models, c.fallbacks...)
	return lo.Uniq(lo.Compact(models))
}

// Complete sends prompt to each candidate once, in order, and returns the
// first non-empty answer. When every candidate fails the last error is
// returned.
func (c *Client) Complete(ctx context.Context, prompt string) (*Completion, error) {
	candidates := c.Candidates(ctx)
	if len(candidates) == 0 {
		return nil, ErrNoModels
	}

	start := time.Now()
	defer func() { metrics.LLMCompletionDuration.Observe(time.Since(start).Seconds()) }()

	var failures []Failure
	for _, model := range candidates {
		text, err := c.complete(ctx, model, prompt)
		metrics.RecordLLMAttempt(model, err)
		if err == nil {
			return &Completion{Text: text, Model: model, Failures: failures}, nil
		}

		failures = append(failures, Failure{Model: model, Err: err})
		logging.Ctx(ctx).Warn().Str("model", model).Err(err).Msg("Chat model failed, trying next candidate")
		if ctx.Err() != nil {
			break
		}
	}

	metrics.LLMExhausted.Inc()
	last := failures[len(failures)-1]
	return nil, &ExhaustedError{Failures: failures, Err: fmt.Errorf("model %s: %w", last.Model, last.Err)}
}

func (c *Client) complete(ctx context.Context, model, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", providerError("chat request failed", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}
