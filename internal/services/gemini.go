package services

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// ExtractionRequest is one call to the extraction provider. Credentials and
// model name come in per request because they are read from the owning
// company's settings on every run, not fixed at startup.
type ExtractionRequest struct {
	Document []byte
	MimeType string
	Prompt   string
	APIKey   string
	Model    string
}

// ExtractionProvider turns a CV document into the model's raw text answer.
// Implementations are interchangeable across vendors; the engine only sees
// this interface.
type ExtractionProvider interface {
	Extract(ctx context.Context, req ExtractionRequest) (string, error)
}

type geminiProvider struct{}

func NewGeminiProvider() ExtractionProvider {
	return &geminiProvider{}
}

// Extract implements ExtractionProvider. One attempt per call; the job
// lifecycle has no automatic retry, a failed run stays in error until a
// human re-submits it.
func (g *geminiProvider) Extract(ctx context.Context, req ExtractionRequest) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  req.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", &ProviderError{Err: fmt.Errorf("failed to create gemini client: %w", err)}
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(req.Prompt),
			genai.NewPartFromBytes(req.Document, req.MimeType),
		}, genai.RoleUser),
	}

	config := &genai.GenerateContentConfig{
		MaxOutputTokens: 4096,
	}

	resp, err := client.Models.GenerateContent(ctx, req.Model, contents, config)
	if err != nil {
		return "", &ProviderError{Err: err}
	}

	if resp == nil {
		return "", &ProviderError{Err: fmt.Errorf("no response generated (nil response)")}
	}

	text := resp.Text()
	if text == "" {
		return "", &ProviderError{Err: fmt.Errorf("no text content in response")}
	}

	return text, nil
}
