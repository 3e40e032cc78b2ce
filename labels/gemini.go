// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package labels

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/danielhkuo/flowhub/locale"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-3-flash-preview"

var (
	ErrMissingAPIKey    = errors.New("gemini API key is required")
	ErrMalformedPayload = errors.New("malformed label payload")
)

// contentGenerator is the part of *genai.Models the generator needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini asks a Gemini model for creative group names.
type Gemini struct {
	models  contentGenerator
	model   string
	printer *locale.Printer
	logger  *zap.Logger
}

// NewGemini creates a Gemini-backed generator. The printer supplies the
// prompt text in the active locale.
func NewGemini(ctx context.Context, apiKey, model string, printer *locale.Printer, logger *zap.Logger) (*Gemini, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return newGemini(client.Models, model, printer, logger), nil
}

func newGemini(models contentGenerator, model string, printer *locale.Printer, logger *zap.Logger) *Gemini {
	if model == "" {
		model = DefaultModel
	}
	if printer == nil {
		printer = locale.Default().Printer(locale.BaseLocale)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gemini{models: models, model: model, printer: printer, logger: logger}
}

// namesSchema constrains the reply to {"names": ["..."]}.
var namesSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"names": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
	},
	Required: []string{"names"},
}

type namesPayload struct {
	Names []string `json:"names"`
}

// GenerateLabels requests count names for theme. It returns at most count
// trimmed labels; fewer is not an error. Filling missing slots is the
// caller's job.
func (g *Gemini) GenerateLabels(ctx context.Context, count int, theme string) ([]string, error) {
	if count <= 0 {
		return nil, nil
	}

	prompt := g.printer.LabelPrompt(count, theme)
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   namesSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("GenAI generate failed: %w", err)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: empty response", ErrMalformedPayload)
	}

	labels, err := parseNames(resp.Text())
	if err != nil {
		return nil, err
	}
	if len(labels) > count {
		labels = labels[:count]
	}

	g.logger.Debug("generated group labels",
		zap.String("model", g.model),
		zap.Int("requested", count),
		zap.Int("received", len(labels)),
	)
	return labels, nil
}

func parseNames(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty text", ErrMalformedPayload)
	}
	var payload namesPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	out := make([]string, 0, len(payload.Names))
	for _, name := range payload.Names {
		out = append(out, strings.TrimSpace(name))
	}
	return out, nil
}
