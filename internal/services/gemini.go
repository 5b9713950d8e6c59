package services

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"
)

const defaultEmbedModel = "text-embedding-004"

// maxEmbedChars keeps requests under the embedding model's token limit.
const maxEmbedChars = 40000

type GeminiService interface {
	EmbeddingService
	EmbedModel() string
}

type geminiService struct {
	client     *genai.Client
	embedModel string
}

func NewGeminiService(ctx context.Context, apiKey, embedModel string) (GeminiService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: gemini api key is not set", ErrCapabilityUnavailable)
	}
	if embedModel == "" {
		embedModel = defaultEmbedModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	slog.Info("🔑 Gemini embedding client ready", slog.String("model", embedModel))

	return &geminiService{
		client:     client,
		embedModel: embedModel,
	}, nil
}

func (g *geminiService) EmbedModel() string {
	return g.embedModel
}

// GenerateEmbedding implements EmbeddingService.
func (g *geminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if len(text) > maxEmbedChars {
		text = text[:maxEmbedChars]
	}

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}
