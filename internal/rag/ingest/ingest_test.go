package ingest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/campuskeep/NotesAPI/internal/config"
	"github.com/campuskeep/NotesAPI/internal/domain/noteModel"
	"github.com/campuskeep/NotesAPI/internal/rag/fault"
)

// --- Mocks for IndexChunks ---

type mockEmbedder struct {
	embedFunc func(ctx context.Context, text string) ([]float32, error)
}

func (m *mockEmbedder) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	if m.embedFunc != nil {
		return m.embedFunc(ctx, text)
	}
	return []float32{0.1, 0.2}, nil
}

type mockVectorDB struct {
	mu          sync.Mutex
	upserted    []noteModel.DocumentChunk
	upsertCalls int
	deletedDocs []string
	upsertFunc  func(ctx context.Context, chunks []noteModel.DocumentChunk) error
	deleteFunc  func(ctx context.Context, documentId string) error
}

func (m *mockVectorDB) Search(ctx context.Context, v []float32, enrollment string, limit uint64, threshold float32) ([]noteModel.RetrievedChunk, error) {
	return nil, nil
}
func (m *mockVectorDB) GetCachedAnswer(ctx context.Context, v []float32, enrollment string) (noteModel.Answer, bool, error) {
	return noteModel.Answer{}, false, nil
}
func (m *mockVectorDB) SaveToCache(ctx context.Context, id string, v []float32, enrollment string, a noteModel.Answer) error {
	return nil
}
func (m *mockVectorDB) UpsertChunks(ctx context.Context, chunks []noteModel.DocumentChunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertFunc != nil {
		if err := m.upsertFunc(ctx, chunks); err != nil {
			return err
		}
	}
	m.upsertCalls++
	m.upserted = append(m.upserted, chunks...)
	return nil
}
func (m *mockVectorDB) DeleteByDocument(ctx context.Context, documentId string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, documentId)
	}
	m.deletedDocs = append(m.deletedDocs, documentId)
	return nil
}

func testDoc() noteModel.Document {
	return noteModel.Document{
		Id:               "doc-1",
		EnrollmentNumber: "EN-2024-001",
		FileName:         "bio-notes.pdf",
	}
}

func testCtx() context.Context {
	return context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
}

// --- Unit Tests ---

func TestGetDocType(t *testing.T) {
	tests := []struct {
		path     string
		expected noteModel.DocType
	}{
		{"test.pdf", noteModel.PDF},
		{"DOC.DOCX", noteModel.DOCX},
		{"notes.txt", noteModel.DOCX},
		{"image.png", noteModel.ERR},
	}

	for _, tt := range tests {
		if got := getDocType(tt.path); got != tt.expected {
			t.Errorf("getDocType(%s) = %v; want %v", tt.path, got, tt.expected)
		}
	}
}

func TestIndexChunks_Success(t *testing.T) {
	vDB := &mockVectorDB{}
	emb := &mockEmbedder{}
	texts := []string{"chunk zero", "chunk one", "chunk two"}

	persisted, err := IndexChunks(testCtx(), testDoc(), texts, emb, vDB)
	if err != nil {
		t.Fatalf("IndexChunks failed: %v", err)
	}
	if persisted != 3 {
		t.Errorf("persisted = %d; want 3", persisted)
	}
	if len(vDB.upserted) != 3 {
		t.Fatalf("upserted %d chunks; want 3", len(vDB.upserted))
	}

	// persisted chunks carry their original order and owner
	for i, c := range vDB.upserted {
		if c.Ordinal != i {
			t.Errorf("chunk %d has ordinal %d", i, c.Ordinal)
		}
		if c.Text != texts[i] {
			t.Errorf("chunk %d text = %q; want %q", i, c.Text, texts[i])
		}
		if c.EnrollmentNumber != "EN-2024-001" {
			t.Errorf("chunk %d lost its owner: %q", i, c.EnrollmentNumber)
		}
	}
}

func TestIndexChunks_StopsAtFirstFailedOrdinal(t *testing.T) {
	vDB := &mockVectorDB{}
	emb := &mockEmbedder{
		embedFunc: func(ctx context.Context, text string) ([]float32, error) {
			if text == "chunk one" {
				return nil, fault.New(fault.QuotaExhausted, "no credits")
			}
			return []float32{0.5}, nil
		},
	}

	texts := []string{"chunk zero", "chunk one", "chunk two"}
	persisted, err := IndexChunks(testCtx(), testDoc(), texts, emb, vDB)

	if fault.KindOf(err) != fault.QuotaExhausted {
		t.Fatalf("expected quota error, got %v", err)
	}
	if persisted != 1 {
		t.Errorf("persisted = %d; want exactly the prefix before the failure", persisted)
	}
	if len(vDB.upserted) != 1 || vDB.upserted[0].Ordinal != 0 {
		t.Errorf("expected only ordinal 0 persisted, got %+v", vDB.upserted)
	}
}

func TestIndexChunks_DeletesExistingVectorsFirst(t *testing.T) {
	vDB := &mockVectorDB{}
	emb := &mockEmbedder{}

	_, err := IndexChunks(testCtx(), testDoc(), []string{"only chunk"}, emb, vDB)
	if err != nil {
		t.Fatalf("IndexChunks failed: %v", err)
	}
	if len(vDB.deletedDocs) != 1 || vDB.deletedDocs[0] != "doc-1" {
		t.Errorf("expected a delete for doc-1 before indexing, got %v", vDB.deletedDocs)
	}
}

func TestIndexChunks_BatchesLargeDocuments(t *testing.T) {
	vDB := &mockVectorDB{}
	emb := &mockEmbedder{}

	texts := make([]string, config.UpsertBatchSize+50)
	for i := range texts {
		texts[i] = "some chunk text"
	}

	persisted, err := IndexChunks(testCtx(), testDoc(), texts, emb, vDB)
	if err != nil {
		t.Fatalf("IndexChunks failed: %v", err)
	}
	if persisted != len(texts) {
		t.Errorf("persisted = %d; want %d", persisted, len(texts))
	}
	if vDB.upsertCalls != 2 {
		t.Errorf("upsert calls = %d; want 2 batches", vDB.upsertCalls)
	}
}

func TestIndexChunks_EmptyInput(t *testing.T) {
	vDB := &mockVectorDB{}
	persisted, err := IndexChunks(testCtx(), testDoc(), nil, &mockEmbedder{}, vDB)
	if err != nil {
		t.Fatalf("IndexChunks failed: %v", err)
	}
	if persisted != 0 {
		t.Errorf("persisted = %d; want 0", persisted)
	}
	if len(vDB.upserted) != 0 {
		t.Errorf("nothing should be upserted for empty input")
	}
}

func TestIndexChunks_UpsertFailureSurfacesStorageError(t *testing.T) {
	vDB := &mockVectorDB{
		upsertFunc: func(ctx context.Context, chunks []noteModel.DocumentChunk) error {
			return fault.Wrap(fault.StorageFailure, "qdrant upsert failed", errors.New("connection reset"))
		},
	}

	persisted, err := IndexChunks(testCtx(), testDoc(), []string{"a chunk"}, &mockEmbedder{}, vDB)
	if fault.KindOf(err) != fault.StorageFailure {
		t.Fatalf("expected storage error, got %v", err)
	}
	if persisted != 0 {
		t.Errorf("persisted = %d; want 0", persisted)
	}
}
