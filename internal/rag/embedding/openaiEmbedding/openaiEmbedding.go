package openaiEmbedding

import (
	"context"
	"errors"
	"sync"

	"github.com/campuskeep/NotesAPI/internal/config"
	"github.com/campuskeep/NotesAPI/internal/rag/embedding"
	"github.com/campuskeep/NotesAPI/internal/rag/fault"
	"github.com/campuskeep/NotesAPI/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var logger *logger_i.Logger
var once sync.Once
var embeddingClient *client

type client struct {
	oa    openai.Client
	model string
}

// GetOpenAIEmbeddingClient returns the embedder for OpenAI-compatible
// endpoints, selected when AI_PROVIDER=openai.
func GetOpenAIEmbeddingClient(modelName string, apikey string) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("openai_embedding")
		if apikey == "" {
			logger.Error("OpenAI api key missing")
			return
		}
		embeddingClient = &client{
			oa:    openai.NewClient(option.WithAPIKey(apikey)),
			model: modelName,
		}
		logger.Info("OpenAI Embedding client created", "model", modelName)
	})

	if embeddingClient == nil {
		return nil
	}
	return embeddingClient
}

func (c *client) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	callCtx, cancel := context.WithTimeout(ctx, config.ProviderCallTimeout)
	defer cancel()

	resp, err := c.oa.Embeddings.New(callCtx, openai.EmbeddingNewParams{
		Model:      openai.EmbeddingModel(c.model),
		Input:      openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Dimensions: openai.Int(int64(config.EmbeddingOutputDimensionality)),
	})
	if err != nil {
		logger.Error("Error getting Embedding from OpenAI", "error", err.Error())
		return nil, openaiFault(fault.EmbeddingFailure, err)
	}
	if len(resp.Data) == 0 {
		return nil, fault.New(fault.EmbeddingFailure, "provider returned no embedding")
	}

	vector := make([]float32, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		vector[i] = float32(v)
	}
	return vector, nil
}

func openaiFault(step fault.Kind, err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return fault.FromHTTP(step, apiErr.StatusCode, 0, err)
	}
	return fault.Classify(step, err)
}
