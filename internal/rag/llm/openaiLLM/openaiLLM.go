package openaiLLM

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/campuskeep/NotesAPI/internal/config"
	"github.com/campuskeep/NotesAPI/internal/rag/fault"
	"github.com/campuskeep/NotesAPI/internal/rag/llm"
	"github.com/campuskeep/NotesAPI/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var logger *logger_i.Logger
var once sync.Once
var llmClient *client

type client struct {
	oa        openai.Client
	modelName string
	prompt    string
}

func GetOpenAIClient(modelName string, apikey string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_openai")
		if apikey == "" {
			logger.Error("OpenAI api key missing")
			return
		}
		llmClient = &client{
			oa:        openai.NewClient(option.WithAPIKey(apikey)),
			modelName: modelName,
			prompt:    config.GroundedSystemPrompt,
		}
		logger.Info("OpenAI chat client created", "model", modelName)
	})

	if llmClient == nil {
		return nil
	}
	return llmClient
}

func (c *client) Generate(ctx context.Context, question string, contextBlock string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, config.ProviderCallTimeout)
	defer cancel()

	userPrompt := fmt.Sprintf("Context:\n%s\n\nStudent Question: %s", contextBlock, question)

	resp, err := c.oa.Chat.Completions.New(callCtx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.modelName),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(c.prompt),
			openai.UserMessage(userPrompt),
		},
	})
	if err != nil {
		logger.Error("Error generating answer from OpenAI", "error", err.Error())
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", fault.New(fault.GenerationFailure, "provider returned empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func classify(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return fault.FromHTTP(fault.GenerationFailure, apiErr.StatusCode, 0, err)
	}
	return fault.Classify(fault.GenerationFailure, err)
}
