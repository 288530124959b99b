package llm

import (
	"context"
	"errors"
	"fmt"
	"math"

	openai "github.com/sashabaranov/go-openai"
)

type OpenAIProvider struct {
	client *openai.Client
	model  string
}

func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIProvider{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	msgs := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, m := range req.Messages {
		msgs[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	// the request struct marshals temperature with omitempty, so an exact
	// zero would fall back to the API default of 1
	temperature := float32(req.Temperature)
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}

	oReq := openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    msgs,
		Temperature: temperature,
	}
	if req.MaxTokens > 0 {
		oReq.MaxTokens = req.MaxTokens
	}
	if req.JSONOnly {
		oReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, oReq)
	if err != nil {
		return nil, p.wrapErr(err)
	}

	if len(resp.Choices) == 0 {
		return nil, newError("openai", KindOther, errors.New("no choices in response"))
	}

	return &ChatResponse{
		Provider: "openai",
		Model:    resp.Model,
		Content:  resp.Choices[0].Message.Content,
	}, nil
}

func (p *OpenAIProvider) wrapErr(err error) error {
	if kind, ok := kindFromContext(err); ok {
		return newError("openai", kind, err)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		kind := kindFromStatus(apiErr.HTTPStatusCode)
		if kind == KindRateLimited {
			if code, ok := apiErr.Code.(string); ok && code == "insufficient_quota" {
				kind = KindQuota
			}
		}
		return newError("openai", kind, err)
	}

	return newError("openai", KindOther, fmt.Errorf("openai chat: %w", err))
}
