package gemini

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/campuskeep/NotesAPI/internal/config"
	"github.com/campuskeep/NotesAPI/internal/rag/fault"
	"github.com/campuskeep/NotesAPI/internal/rag/llm"
	"github.com/campuskeep/NotesAPI/pkg/logger_i"
	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type llmClient struct {
	client    *genai.Client
	modelName string
	prompt    string
}

var logger *logger_i.Logger
var geminiClient *llmClient
var once sync.Once

func GetGeminiClient(ctx context.Context, modelName string, apikey string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_gemini")
		newGeminiClient(ctx, modelName, apikey)
	})

	if geminiClient == nil {
		return nil
	}
	return &llmClient{client: geminiClient.client, modelName: geminiClient.modelName, prompt: geminiClient.prompt}
}

func newGeminiClient(ctx context.Context, modelName string, apikey string) {

	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating Gemini client:", "error", err)
	}
	if c != nil {
		geminiClient = &llmClient{client: c, modelName: modelName, prompt: config.GroundedSystemPrompt}
		logger.Info("Gemini client created", "model", modelName)
		go closeClient(ctx, geminiClient)
	}

}

// Generate asks the model the question, constrained by the system instruction
// to answer only from the supplied context block.
func (c *llmClient) Generate(ctx context.Context, question string, contextBlock string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, config.ProviderCallTimeout)
	defer cancel()

	systemInstruction := &genai.Content{
		Parts: []*genai.Part{
			{Text: c.prompt},
		},
	}
	userPrompt := fmt.Sprintf("Context:\n%s\n\nStudent Question: %s", contextBlock, question)

	contentConfig := &genai.GenerateContentConfig{
		SystemInstruction: systemInstruction,
	}

	result, err := c.client.Models.GenerateContent(
		callCtx,
		c.modelName,
		genai.Text(userPrompt),
		contentConfig,
	)
	if err != nil {
		logger.Error("Error generating answer from Gemini", "error", err.Error())
		return "", classify(err)
	}
	return result.Text(), nil
}

func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return fault.FromHTTP(fault.GenerationFailure, apiErr.Code, 0, err)
	}
	if s, ok := status.FromError(err); ok && s.Code() == codes.ResourceExhausted {
		return fault.FromHTTP(fault.GenerationFailure, 429, 0, err)
	}
	return fault.Classify(fault.GenerationFailure, err)
}

func closeClient(ctx context.Context, llm *llmClient) {
	<-ctx.Done()
	logger.Info("Closing Gemini client")
	llm.client = nil
	llm.modelName = ""
	llm.prompt = ""
}
