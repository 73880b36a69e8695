package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

type geminiClient struct {
	apiKey string
	model  string
}

func newGeminiClient(apiKey, model string) (*geminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("llm: GEMINI_API_KEY not set")
	}
	if model == "" {
		model = defaultGeminiModel
	}
	return &geminiClient{apiKey: apiKey, model: model}, nil
}

func (g *geminiClient) Model() string {
	return g.model
}

func (g *geminiClient) buildConfig(req Request) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemPrompt}},
		},
		Temperature:     &req.Temperature,
		MaxOutputTokens: req.MaxOutputTokens,
	}
	if req.ResponseSchema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseJsonSchema = req.ResponseSchema
	}
	return cfg
}

func (g *geminiClient) Complete(ctx context.Context, req Request) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: g.apiKey})
	if err != nil {
		return "", err
	}
	result, err := client.Models.GenerateContent(ctx, g.model, genai.Text(req.UserPrompt), g.buildConfig(req))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return result.Text(), nil
}
