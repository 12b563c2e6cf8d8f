// Package reasoning abstracts the external reasoning service behind a
// narrow structured-generation capability. The pipeline core depends only
// on Generator, keeping scoring and orchestration deterministic and
// unit-testable without any LLM backend.
package reasoning

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/vendor-risk/pkg/anthropic"
)

// Generator produces a schema-conformant JSON document for a prompt. Any
// schema violation or service failure is returned as an error; callers are
// expected to treat that as "pass unavailable" and fall back.
type Generator interface {
	GenerateStructured(ctx context.Context, req Request) (json.RawMessage, error)
}

// Request describes one structured generation call.
type Request struct {
	// Phase labels the call in usage logs (e.g. "evaluate", "dependency_tree").
	Phase string

	// System is the role instruction; Prompt carries the data and task.
	System string
	Prompt string

	// Schema is a JSON description of the expected output shape. It is
	// embedded into the system instruction verbatim.
	Schema string

	MaxTokens   int64
	Temperature *float64
}

// Decode unmarshals a structured result into T, treating any mismatch as a
// schema violation.
func Decode[T any](raw json.RawMessage) (T, error) {
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, eris.Wrap(err, "reasoning: result does not conform to schema")
	}
	return out, nil
}

type anthropicGenerator struct {
	client anthropic.Client
	model  string
}

// NewAnthropicGenerator creates a Generator backed by the Anthropic client.
func NewAnthropicGenerator(client anthropic.Client, model string) Generator {
	return &anthropicGenerator{client: client, model: model}
}

func (g *anthropicGenerator) GenerateStructured(ctx context.Context, req Request) (json.RawMessage, error) {
	system := req.System
	if system != "" {
		system += "\n\n"
	}
	system += "Respond with a single JSON object conforming to this schema. No prose, no markdown fences.\n\nSchema:\n" + req.Schema

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	resp, err := g.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       g.model,
		MaxTokens:   maxTokens,
		System:      system,
		Messages:    []anthropic.Message{{Role: "user", Content: req.Prompt}},
		Temperature: req.Temperature,
	})
	if err != nil {
		return nil, eris.Wrap(err, "reasoning: generate")
	}
	resp.Usage.LogCost(resp.Model, req.Phase)

	raw, err := extractJSON(resp.Text)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// extractJSON pulls the first JSON object out of a completion, tolerating
// markdown fences and surrounding prose.
func extractJSON(text string) (json.RawMessage, error) {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```"); idx >= 0 {
		text = text[idx+3:]
		text = strings.TrimPrefix(text, "json")
		if end := strings.Index(text, "```"); end >= 0 {
			text = text[:end]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, eris.New("reasoning: no JSON object in completion")
	}

	raw := json.RawMessage(text[start : end+1])
	if !json.Valid(raw) {
		return nil, eris.New("reasoning: completion is not valid JSON")
	}
	return raw, nil
}
