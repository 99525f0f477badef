package textgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/UnknownOlympus/veloroute/internal/models"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// ContentGenerator is the part of genai.Models the generator needs.
type ContentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator writes POI descriptions with the Gemini API.
type GeminiGenerator struct {
	client ContentGenerator
	model  string
	log    *slog.Logger
}

// NewGeminiGenerator creates a Gemini API client for the given key.
func NewGeminiGenerator(ctx context.Context, apiKey, model string, log *slog.Logger) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("API key is required for Gemini generator")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return NewGeminiGeneratorWithClient(client.Models, model, log), nil
}

// NewGeminiGeneratorWithClient allows injecting a custom content generator.
func NewGeminiGeneratorWithClient(client ContentGenerator, model string, log *slog.Logger) *GeminiGenerator {
	if model == "" {
		model = DefaultModel
	}
	return &GeminiGenerator{client: client, model: model, log: log}
}

// PoiDescription asks the model for a 3-4 sentence practical description of a POI.
func (gg *GeminiGenerator) PoiDescription(
	ctx context.Context,
	name string,
	poiType models.PoiType,
	city string,
) (string, error) {
	gg.log.DebugContext(ctx, "Generating POI description", "name", name, "type", poiType, "model", gg.model)

	resp, err := gg.client.GenerateContent(ctx, gg.model, genai.Text(descriptionPrompt(name, poiType, city)), nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate description: %w", err)
	}

	text := completionText(resp)
	if text == "" {
		return "", ErrEmptyCompletion
	}

	return text, nil
}

func descriptionPrompt(name string, poiType models.PoiType, city string) string {
	var b strings.Builder
	fmt.Fprintf(&b,
		"Ecris une courte description touristique et pratique (3-4 phrases maximum) pour le point d'intérêt %q "+
			"de type %q situé à %q sur le parcours Cœur de France à Vélo.",
		name, string(poiType), city,
	)
	if poiType == models.PoiTypeFarm {
		b.WriteString(" Mentionne les produits du terroir potentiels (fromages, vins, etc).")
	}
	return b.String()
}

// completionText concatenates the text parts of the first candidate, skipping thoughts.
func completionText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}

	return strings.TrimSpace(b.String())
}
