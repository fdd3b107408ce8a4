package config

import (
	"log/slog"
	"os"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//chunking
	ChunkSizeTarget = 500 //characters; a single longer sentence is kept whole

	//retrieval
	RetrievalTopK                         = 5
	SimilarityThreshold           float32 = 0.5
	CacheSimilarityCutoff         float32 = 0.97
	NotesCollectionName                   = "student-notes"
	AnswerCacheCollectionName             = "answer-cache"
	EmbeddingOutputDimensionality int32   = 1536

	//responder
	SourceExcerptLimit = 150 //characters, before the ellipsis
	NotFoundAnswer     = "I couldn't find anything about that in your notes. Upload the study material first, or try asking in a different way."
	GroundedSystemPrompt = "You are a study assistant for a college student. Answer using ONLY the provided context from the student's own notes. " +
		"If the context does not contain the answer, say so explicitly instead of guessing. Never use outside knowledge."

	//ingestion
	EmbedWorkerCount = 4
	UpsertBatchSize  = 100
	MaxDownloadBytes = 32 << 20 //32mb

	//retry policy for provider calls
	RetryMaxAttempts = 3
	RetryBaseDelay   = 500 * time.Millisecond
	RetryMaxDelay    = 8 * time.Second

	//per external call / whole pipeline
	ProviderCallTimeout = 30 * time.Second
	PipelineTimeout     = 60 * time.Second

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 90 * time.Second //answering waits on two provider round trips
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//vectorDB
	QdrantHost             = "localhost"
	QdrantGrpcPort         = 6334
	QdrantUseTLS           = false
	QdrantPoolSize         = 1
	QdrantKeepAliveTimeout = 30 * time.Second

	//llm + embeddings (gemini is the default provider)
	GeminiModelName      = "gemini-2.5-flash-lite-preview-09-2025"
	GoogleEmbeddingModel = "gemini-embedding-001"
	OpenAIModelName      = "gpt-4o-mini"
	OpenAIEmbeddingModel = "text-embedding-3-small"

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	RedisPassword      = ""
	RedisDocumentStore = 0
)

// env backed values, read lazily so a .env loaded in main is respected

func GoogleAPIKey() string {
	return os.Getenv("GOOGLE_API_KEY")
}

func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

// AIProvider selects the embedding/generation backend: "gemini" (default) or "openai".
func AIProvider() string {
	if p := os.Getenv("AI_PROVIDER"); p != "" {
		return p
	}
	return "gemini"
}

// AuthToken is the shared service bearer token. Empty means auth is bypassed (dev only).
func AuthToken() string {
	return os.Getenv("SERVICE_TOKEN")
}

func NoAuthBypass() bool {
	return AuthToken() == ""
}
