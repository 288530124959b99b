package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

type GeminiProvider struct {
	client *genai.Client
	model  string
}

func NewGeminiProvider(apiKey, model string) (*GeminiProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &GeminiProvider{client: client, model: model}, nil
}

func (p *GeminiProvider) Name() string { return "gemini" }

func (p *GeminiProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	temperature := float32(req.Temperature)
	cfg := &genai.GenerateContentConfig{
		Temperature: &temperature,
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.JSONOnly {
		cfg.ResponseMIMEType = "application/json"
	}

	var userParts []string
	for _, m := range req.Messages {
		switch m.Role {
		case "system":
			cfg.SystemInstruction = &genai.Content{
				Parts: []*genai.Part{{Text: m.Content}},
			}
		default:
			userParts = append(userParts, m.Content)
		}
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(strings.Join(userParts, "\n\n")), cfg)
	if err != nil {
		return nil, p.wrapErr(err)
	}
	if resp == nil {
		return nil, newError("gemini", KindOther, errors.New("nil response"))
	}

	text := resp.Text()
	if text == "" {
		return nil, newError("gemini", KindOther, errors.New("no text content in response"))
	}

	return &ChatResponse{Provider: "gemini", Model: p.model, Content: text}, nil
}

func (p *GeminiProvider) wrapErr(err error) error {
	if kind, ok := kindFromContext(err); ok {
		return newError("gemini", kind, err)
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		kind := kindFromStatus(apiErr.Code)
		if kind == KindRateLimited && strings.Contains(strings.ToLower(apiErr.Message), "quota") {
			kind = KindQuota
		}
		return newError("gemini", kind, err)
	}

	return newError("gemini", KindOther, err)
}
