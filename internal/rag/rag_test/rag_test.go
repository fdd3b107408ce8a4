package rag_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/campuskeep/NotesAPI/internal/config"
	"github.com/campuskeep/NotesAPI/internal/domain/noteModel"
	"github.com/campuskeep/NotesAPI/internal/rag"
	"github.com/campuskeep/NotesAPI/internal/rag/fault"
)

func testContext() context.Context {
	return context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
}

func TestAnswer_Scenarios(t *testing.T) {
	tests := []struct {
		name           string
		setupMocks     func(e *MockEmbedder, v *MockVectorDB, l *MockLLM)
		expectedAnswer string
		expectedKind   fault.Kind
	}{
		{
			name: "Success_Full_Flow",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				l.OnGenerate = func(ctx context.Context, q string, c string) (string, error) {
					return "final answer", nil
				}
			},
			expectedAnswer: "final answer",
		},
		{
			name: "Success_Cache_Hit",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				v.OnGetCachedAnswer = func(ctx context.Context, emb []float32, enrollment string) (noteModel.Answer, bool, error) {
					return noteModel.Answer{Text: "cached answer", Sources: []noteModel.Source{}}, true, nil
				}
			},
			expectedAnswer: "cached answer",
		},
		{
			name: "Failure_Embedding",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				e.OnGetEmbedding = func(ctx context.Context, text string) ([]float32, error) {
					return nil, fault.New(fault.EmbeddingFailure, "embedding call failed")
				}
			},
			expectedKind: fault.EmbeddingFailure,
		},
		{
			name: "Failure_Vector_Search",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				v.OnSearch = func(ctx context.Context, emb []float32, enrollment string, limit uint64, threshold float32) ([]noteModel.RetrievedChunk, error) {
					return nil, fault.Wrap(fault.StorageFailure, "similarity search failed", errors.New("db timeout"))
				}
			},
			expectedKind: fault.StorageFailure,
		},
		{
			name: "Failure_LLM_Generation",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				l.OnGenerate = func(ctx context.Context, q string, c string) (string, error) {
					return "", fault.New(fault.GenerationFailure, "provider down")
				}
			},
			expectedKind: fault.GenerationFailure,
		},
		{
			name: "Failure_Quota_Propagates",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				e.OnGetEmbedding = func(ctx context.Context, text string) ([]float32, error) {
					return nil, fault.New(fault.QuotaExhausted, "no credits left")
				}
			},
			expectedKind: fault.QuotaExhausted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mEmbed := &MockEmbedder{}
			mVec := &MockVectorDB{}
			mLLM := &MockLLM{}

			tt.setupMocks(mEmbed, mVec, mLLM)

			s := rag.NewService(mVec, mLLM, mEmbed)
			answer, err := s.Answer(testContext(), "EN-2024-001", "what is osmosis?")

			if tt.expectedKind != "" {
				if fault.KindOf(err) != tt.expectedKind {
					t.Fatalf("got error %v, want kind %s", err, tt.expectedKind)
				}
				return
			}

			if err != nil {
				t.Fatalf("Answer failed: %v", err)
			}
			if answer.Text != tt.expectedAnswer {
				t.Errorf("Answer got %q, want %q", answer.Text, tt.expectedAnswer)
			}
		})
	}
}

func TestAnswer_NoMatchesSkipsGeneration(t *testing.T) {
	mVec := &MockVectorDB{
		OnSearch: func(ctx context.Context, emb []float32, enrollment string, limit uint64, threshold float32) ([]noteModel.RetrievedChunk, error) {
			return nil, nil
		},
	}
	mLLM := &MockLLM{}

	s := rag.NewService(mVec, mLLM, &MockEmbedder{})
	answer, err := s.Answer(testContext(), "EN-2024-001", "something not in the notes")

	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if answer.Text != config.NotFoundAnswer {
		t.Errorf("got %q, want the honest fallback", answer.Text)
	}
	if answer.Sources == nil || len(answer.Sources) != 0 {
		t.Errorf("expected an empty, non-nil sources list, got %v", answer.Sources)
	}
	if mLLM.GenerateCalls != 0 {
		t.Errorf("LLM was called %d times; must be 0 when nothing was retrieved", mLLM.GenerateCalls)
	}
}

func TestAnswer_SearchIsScopedToStudent(t *testing.T) {
	var gotEnrollment string
	var gotCacheEnrollment string

	mVec := &MockVectorDB{
		OnSearch: func(ctx context.Context, emb []float32, enrollment string, limit uint64, threshold float32) ([]noteModel.RetrievedChunk, error) {
			gotEnrollment = enrollment
			if limit != config.RetrievalTopK {
				t.Errorf("limit = %d, want %d", limit, config.RetrievalTopK)
			}
			if threshold != config.SimilarityThreshold {
				t.Errorf("threshold = %v, want %v", threshold, config.SimilarityThreshold)
			}
			return []noteModel.RetrievedChunk{{Text: "relevant", FileName: "notes.pdf"}}, nil
		},
		OnGetCachedAnswer: func(ctx context.Context, emb []float32, enrollment string) (noteModel.Answer, bool, error) {
			gotCacheEnrollment = enrollment
			return noteModel.Answer{}, false, nil
		},
	}

	s := rag.NewService(mVec, &MockLLM{}, &MockEmbedder{})
	if _, err := s.Answer(testContext(), "EN-2024-042", "question"); err != nil {
		t.Fatalf("Answer failed: %v", err)
	}

	if gotEnrollment != "EN-2024-042" {
		t.Errorf("Search saw enrollment %q, want EN-2024-042", gotEnrollment)
	}
	if gotCacheEnrollment != "EN-2024-042" {
		t.Errorf("Cache lookup saw enrollment %q, want EN-2024-042", gotCacheEnrollment)
	}
}

func TestAnswer_SourcesTruncatedAndOrdered(t *testing.T) {
	long := strings.Repeat("x", config.SourceExcerptLimit+40)
	mVec := &MockVectorDB{
		OnSearch: func(ctx context.Context, emb []float32, enrollment string, limit uint64, threshold float32) ([]noteModel.RetrievedChunk, error) {
			return []noteModel.RetrievedChunk{
				{Text: long, FileName: "first.pdf", Score: 0.9},
				{Text: "short chunk", FileName: "second.pdf", Score: 0.7},
			}, nil
		},
	}

	var contextBlock string
	mLLM := &MockLLM{
		OnGenerate: func(ctx context.Context, q string, c string) (string, error) {
			contextBlock = c
			return "answer", nil
		},
	}

	s := rag.NewService(mVec, mLLM, &MockEmbedder{})
	answer, err := s.Answer(testContext(), "EN-2024-001", "question")
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}

	if len(answer.Sources) != 2 {
		t.Fatalf("got %d sources, want 2", len(answer.Sources))
	}
	if answer.Sources[0].FileName != "first.pdf" || answer.Sources[1].FileName != "second.pdf" {
		t.Errorf("sources out of rank order: %v", answer.Sources)
	}
	if !strings.HasSuffix(answer.Sources[0].Excerpt, "…") {
		t.Errorf("long excerpt was not truncated: %q", answer.Sources[0].Excerpt)
	}
	if len([]rune(answer.Sources[0].Excerpt)) != config.SourceExcerptLimit+1 {
		t.Errorf("excerpt length = %d runes", len([]rune(answer.Sources[0].Excerpt)))
	}
	if answer.Sources[1].Excerpt != "short chunk" {
		t.Errorf("short excerpt was altered: %q", answer.Sources[1].Excerpt)
	}

	// the prompt context keeps rank order, most similar first
	if !strings.HasPrefix(contextBlock, long) || !strings.Contains(contextBlock, "short chunk") {
		t.Error("context block missing or reordered retrieved chunks")
	}
}

func TestAnswer_RetriesThrottledEmbedding(t *testing.T) {
	calls := 0
	mEmbed := &MockEmbedder{
		OnGetEmbedding: func(ctx context.Context, text string) ([]float32, error) {
			calls++
			if calls == 1 {
				return nil, fault.New(fault.RateLimited, "throttled")
			}
			return []float32{0.1}, nil
		},
	}

	s := rag.NewService(&MockVectorDB{}, &MockLLM{}, mEmbed)
	if _, err := s.Answer(testContext(), "EN-2024-001", "question"); err != nil {
		t.Fatalf("Answer failed after retryable error: %v", err)
	}
	if calls != 2 {
		t.Errorf("embedding called %d times, want 2 (one retry)", calls)
	}
}

func TestIngestDocument_ChunksAndCounts(t *testing.T) {
	var upserted []noteModel.DocumentChunk
	mVec := &MockVectorDB{
		OnUpsertChunks: func(ctx context.Context, chunks []noteModel.DocumentChunk) error {
			upserted = append(upserted, chunks...)
			return nil
		},
	}

	s := rag.NewService(mVec, &MockLLM{}, &MockEmbedder{})
	doc := noteModel.Document{Id: "doc-9", EnrollmentNumber: "EN-2024-001", FileName: "chem.txt"}

	persisted, err := s.IngestDocument(testContext(), doc, "First sentence. Second sentence.")
	if err != nil {
		t.Fatalf("IngestDocument failed: %v", err)
	}
	if persisted != len(upserted) {
		t.Errorf("persisted = %d but %d chunks reached the store", persisted, len(upserted))
	}
	if persisted == 0 {
		t.Error("expected at least one chunk")
	}
}
