package vectorDB

import (
	"context"

	"github.com/campuskeep/NotesAPI/internal/domain/noteModel"
)

type DataProcessor interface {
	// Search returns up to limit chunks owned by the given student, most
	// similar first, excluding anything under the score threshold.
	Search(ctx context.Context, vector []float32, enrollmentNumber string, limit uint64, threshold float32) ([]noteModel.RetrievedChunk, error)

	// UpsertChunks persists chunk records with their vectors.
	UpsertChunks(ctx context.Context, chunks []noteModel.DocumentChunk) error

	// DeleteByDocument removes every chunk of a document (cascade delete and
	// idempotent re-ingest).
	DeleteByDocument(ctx context.Context, documentId string) error

	// Answer cache, scoped per student like retrieval.
	GetCachedAnswer(ctx context.Context, queryVector []float32, enrollmentNumber string) (noteModel.Answer, bool, error)
	SaveToCache(ctx context.Context, id string, vector []float32, enrollmentNumber string, answer noteModel.Answer) error
}
