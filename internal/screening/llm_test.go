package screening

import (
	"context"

	"github.com/talentsift/screening/internal/llm"
)

// fakeProvider scripts Chat responses per call. err fails every call, errs
// fails per call index.
type fakeProvider struct {
	responses []string
	err       error
	errs      []error

	calls    int
	requests []llm.ChatRequest
}

func (f *fakeProvider) Chat(_ context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	i := f.calls
	f.calls++
	f.requests = append(f.requests, req)

	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if f.err != nil {
		return nil, f.err
	}

	content := ""
	if len(f.responses) > 0 {
		if i < len(f.responses) {
			content = f.responses[i]
		} else {
			content = f.responses[len(f.responses)-1]
		}
	}
	return &llm.ChatResponse{Provider: "gemini", Model: "test-model", Content: content}, nil
}

func (f *fakeProvider) Name() string { return "gemini" }
