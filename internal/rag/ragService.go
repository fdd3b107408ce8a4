package rag

import (
	"context"
	"time"

	"github.com/campuskeep/NotesAPI/internal/adapter/utils"
	"github.com/campuskeep/NotesAPI/internal/config"
	"github.com/campuskeep/NotesAPI/internal/domain/noteModel"
	"github.com/campuskeep/NotesAPI/internal/metrics"
	"github.com/campuskeep/NotesAPI/internal/rag/chunker"
	"github.com/campuskeep/NotesAPI/internal/rag/embedding"
	"github.com/campuskeep/NotesAPI/internal/rag/fault"
	"github.com/campuskeep/NotesAPI/internal/rag/ingest"
	"github.com/campuskeep/NotesAPI/internal/rag/llm"
	"github.com/campuskeep/NotesAPI/internal/rag/vectorDB"
	"github.com/campuskeep/NotesAPI/pkg/logger_i"
)

/*
ARCHITECTURE NOTE: OPAQUE INTERFACE PATTERN
---------------------------------------------------------

1. Service (Interface):
  - This is the PUBLIC contract the handlers call.
  - It defines the "behavior" without leaking any provider client.

2. service (Private Struct):
  - This is the PRIVATE implementation.
  - It holds the "state" (vector store and provider clients).
  - Lowercase keeps external packages away from our internal
    dependencies (vectorDB, llmProvider).

3. Dependency Injection (NewService):
  - The constructor links the private struct to the public interface,
    so tests can swap real providers for mocks.
*/

// Service is everything the HTTP layer needs from the pipeline.
type Service interface {
	IngestDocument(ctx context.Context, doc noteModel.Document, text string) (int, error)
	Answer(ctx context.Context, enrollmentNumber string, question string) (noteModel.Answer, error)
	RemoveDocument(ctx context.Context, documentId string) error
}

type service struct {
	vectorDB    vectorDB.DataProcessor
	llmProvider llm.Provider
	embedder    embedding.Embedder
	logger      *logger_i.Logger
}

// NewService constructor
func NewService(vector vectorDB.DataProcessor, llm llm.Provider, em embedding.Embedder) Service {
	return &service{
		vectorDB:    vector,
		llmProvider: llm,
		embedder:    em,
		logger:      logger_i.NewLogger("RAG Service :"),
	}
}

func (s *service) IngestDocument(ctx context.Context, doc noteModel.Document, text string) (int, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_ingestion", time.Since(start)) }()

	texts := chunker.Chunk(text, config.ChunkSizeTarget)
	persisted, err := ingest.IndexChunks(ctx, doc, texts, s.embedder, s.vectorDB)
	if persisted > 0 {
		metrics.ChunksIndexed.Add(float64(persisted))
	}
	return persisted, err
}

func (s *service) Answer(ctx context.Context, enrollmentNumber string, question string) (noteModel.Answer, error) {
	inMethodLogger := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "enrollment", enrollmentNumber)

	processContext, cancel := context.WithTimeout(ctx, config.PipelineTimeout)
	defer cancel()

	// Embedding
	questionVector, err := s.executeEmbeddingStep(processContext, question)
	if err != nil {
		inMethodLogger.Error("Question embedding failed", "error", err)
		return noteModel.Answer{}, err
	}

	// Cache Check
	if cached, found := s.executeCacheCheckStep(processContext, enrollmentNumber, questionVector); found {
		inMethodLogger.Debug("Serving cached answer")
		metrics.AnswerCacheHits.Inc()
		return cached, nil
	}

	// Vector DB Search
	matches, err := s.executeVectorSearchStep(processContext, enrollmentNumber, questionVector)
	if err != nil {
		inMethodLogger.Error("Retrieval failed", "error", err)
		return noteModel.Answer{}, err
	}

	// Nothing relevant in this student's notes: answer honestly, skip the LLM
	if len(matches) == 0 {
		inMethodLogger.Debug("No relevant chunks above threshold")
		metrics.UnansweredQuestions.Inc()
		return noteModel.Answer{
			Text:    config.NotFoundAnswer,
			Sources: []noteModel.Source{},
		}, nil
	}

	// LLM Generation
	answerText, err := s.executeLLMStep(processContext, question, matches)
	if err != nil {
		inMethodLogger.Error("Answer generation failed", "error", err)
		return noteModel.Answer{}, err
	}

	answer := noteModel.Answer{
		Text:    answerText,
		Sources: toSources(matches),
	}

	//Background Cache Save
	go func() {
		saveCtx, saveCancel := context.WithTimeout(context.Background(), config.ProviderCallTimeout)
		defer saveCancel()
		if err := s.vectorDB.SaveToCache(saveCtx, utils.GetNewUUID(), questionVector, enrollmentNumber, answer); err != nil {
			s.logger.Error("Failed to save to cache")
		}
	}()

	return answer, nil
}

func (s *service) RemoveDocument(ctx context.Context, documentId string) error {
	return s.vectorDB.DeleteByDocument(ctx, documentId)
}

func (s *service) executeEmbeddingStep(ctx context.Context, question string) ([]float32, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	var vector []float32
	err := fault.Retry(ctx, defaultRetryPolicy(), func() error {
		var embErr error
		vector, embErr = s.embedder.GetEmbedding(ctx, question)
		return embErr
	})
	return vector, err
}

func (s *service) executeCacheCheckStep(ctx context.Context, enrollmentNumber string, vector []float32) (noteModel.Answer, bool) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("cache_lookup", time.Since(start)) }()

	answer, found, _ := s.vectorDB.GetCachedAnswer(ctx, vector, enrollmentNumber)
	return answer, found
}

func (s *service) executeVectorSearchStep(ctx context.Context, enrollmentNumber string, vector []float32) ([]noteModel.RetrievedChunk, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	return s.vectorDB.Search(ctx, vector, enrollmentNumber, config.RetrievalTopK, config.SimilarityThreshold)
}

func (s *service) executeLLMStep(ctx context.Context, question string, matches []noteModel.RetrievedChunk) (string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

	var answer string
	err := fault.Retry(ctx, defaultRetryPolicy(), func() error {
		var genErr error
		answer, genErr = s.llmProvider.Generate(ctx, question, buildContextBlock(matches))
		return genErr
	})
	return answer, err
}
