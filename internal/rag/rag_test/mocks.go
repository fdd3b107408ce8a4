package rag_test

import (
	"context"

	"github.com/campuskeep/NotesAPI/internal/domain/noteModel"
)

// MockVectorDB implements vectorDB.DataProcessor
type MockVectorDB struct {
	// Control fields to simulate different behaviors
	OnSearch           func(ctx context.Context, vector []float32, enrollmentNumber string, limit uint64, threshold float32) ([]noteModel.RetrievedChunk, error)
	OnGetCachedAnswer  func(ctx context.Context, queryVector []float32, enrollmentNumber string) (noteModel.Answer, bool, error)
	OnSaveToCache      func(ctx context.Context, id string, vector []float32, enrollmentNumber string, answer noteModel.Answer) error
	OnUpsertChunks     func(ctx context.Context, chunks []noteModel.DocumentChunk) error
	OnDeleteByDocument func(ctx context.Context, documentId string) error

	SearchCalls int
}

func (m *MockVectorDB) Search(ctx context.Context, v []float32, enrollmentNumber string, limit uint64, threshold float32) ([]noteModel.RetrievedChunk, error) {
	m.SearchCalls++
	if m.OnSearch != nil {
		return m.OnSearch(ctx, v, enrollmentNumber, limit, threshold)
	}
	return []noteModel.RetrievedChunk{{Text: "default context", FileName: "notes.pdf"}}, nil
}

func (m *MockVectorDB) GetCachedAnswer(ctx context.Context, v []float32, enrollmentNumber string) (noteModel.Answer, bool, error) {
	if m.OnGetCachedAnswer != nil {
		return m.OnGetCachedAnswer(ctx, v, enrollmentNumber)
	}
	return noteModel.Answer{}, false, nil
}

func (m *MockVectorDB) SaveToCache(ctx context.Context, id string, v []float32, enrollmentNumber string, a noteModel.Answer) error {
	if m.OnSaveToCache != nil {
		return m.OnSaveToCache(ctx, id, v, enrollmentNumber, a)
	}
	return nil
}

func (m *MockVectorDB) UpsertChunks(ctx context.Context, chunks []noteModel.DocumentChunk) error {
	if m.OnUpsertChunks != nil {
		return m.OnUpsertChunks(ctx, chunks)
	}
	return nil
}

func (m *MockVectorDB) DeleteByDocument(ctx context.Context, documentId string) error {
	if m.OnDeleteByDocument != nil {
		return m.OnDeleteByDocument(ctx, documentId)
	}
	return nil
}

type MockEmbedder struct {
	OnGetEmbedding func(ctx context.Context, text string) ([]float32, error)
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, text)
	}
	return []float32{0.1}, nil
}

// MockLLM implements llm.Provider
type MockLLM struct {
	OnGenerate    func(ctx context.Context, question string, contextBlock string) (string, error)
	GenerateCalls int
}

func (m *MockLLM) Generate(ctx context.Context, question string, contextBlock string) (string, error) {
	m.GenerateCalls++
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, question, contextBlock)
	}
	return "mocked llm response", nil
}
