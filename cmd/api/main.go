// @title           Student Notes Q&A API
// @version         1.0
// @description     This API ingests student study documents and answers questions grounded in them.
// @termsOfService  http://swagger.io/terms/

// @contact.name    API Support
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/campuskeep/NotesAPI/internal/config"
	"github.com/campuskeep/NotesAPI/internal/data/store"
	"github.com/campuskeep/NotesAPI/internal/domain/noteModel"
	"github.com/campuskeep/NotesAPI/internal/handlers"
	"github.com/campuskeep/NotesAPI/internal/rag"
	"github.com/campuskeep/NotesAPI/internal/rag/embedding"
	"github.com/campuskeep/NotesAPI/internal/rag/embedding/googleEmbedding"
	"github.com/campuskeep/NotesAPI/internal/rag/embedding/openaiEmbedding"
	"github.com/campuskeep/NotesAPI/internal/rag/llm"
	"github.com/campuskeep/NotesAPI/internal/rag/llm/gemini"
	"github.com/campuskeep/NotesAPI/internal/rag/llm/openaiLLM"
	"github.com/campuskeep/NotesAPI/internal/rag/vectorDB/qdrantDB"
	"github.com/campuskeep/NotesAPI/internal/server"
	"github.com/campuskeep/NotesAPI/pkg/logger_i"
	"github.com/joho/godotenv"
)

var listenAddr string

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, relying on the environment")
	}
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//document registry, redis with an in-memory fallback
	var docStore noteModel.DocumentStore
	if redisDocs := store.GetRedisDocumentStore(serviceContext); redisDocs != nil {
		docStore = redisDocs
	} else {
		logger.Error("Redis store is offline, falling back to in-memory registry")
		docStore = store.InitInMemoryDocumentStore()
	}

	vectorDB := qdrantDB.GetQdrantClient(serviceContext)

	var embeddingService embedding.Embedder
	var llmProvider llm.Provider
	switch config.AIProvider() {
	case "openai":
		embeddingService = openaiEmbedding.GetOpenAIEmbeddingClient(config.OpenAIEmbeddingModel, config.OpenAIAPIKey())
		llmProvider = openaiLLM.GetOpenAIClient(config.OpenAIModelName, config.OpenAIAPIKey())
	default:
		embeddingService = googleEmbedding.GetGoogleEmbeddingClient(serviceContext, config.GoogleEmbeddingModel, config.GoogleAPIKey())
		llmProvider = gemini.GetGeminiClient(serviceContext, config.GeminiModelName, config.GoogleAPIKey())
	}

	if vectorDB == nil || embeddingService == nil || llmProvider == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.")
		logger.Debug("Available services : ", "VectorDB", vectorDB != nil, "EmbeddingService", embeddingService != nil, "LLMProvider", llmProvider != nil)
		return
	}

	ragService := rag.NewService(vectorDB, llmProvider, embeddingService)
	handlers.Init(ragService, docStore)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}
