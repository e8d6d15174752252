// README: Gemini streaming story provider.
package story

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GeminiProvider implements Provider using Google's Gemini models.
type GeminiProvider struct {
	apiKey string
	model  string
}

// NewGeminiProvider configures a Gemini-backed provider. The key is checked
// on first use so the rest of the planner works without one.
func NewGeminiProvider(apiKey, model string) *GeminiProvider {
	return &GeminiProvider{apiKey: apiKey, model: model}
}

func (p *GeminiProvider) Name() string { return "gemini" }

// StreamStory generates the narrative, emitting text parts as they arrive.
func (p *GeminiProvider) StreamStory(ctx context.Context, req Request, emit func(string)) error {
	if strings.TrimSpace(p.apiKey) == "" {
		return ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return fmt.Errorf("gemini: create client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(p.model)
	// Creative but coherent output for narrative text.
	model.SetTemperature(0.8)

	iter := model.GenerateContentStream(ctx, genai.Text(BuildPrompt(req)))
	for {
		resp, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("gemini: stream: %w", err)
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			continue
		}
		for _, part := range resp.Candidates[0].Content.Parts {
			if txt, ok := part.(genai.Text); ok && txt != "" {
				emit(string(txt))
			}
		}
	}
}
