package store

import (
	"context"
	"sync"

	"github.com/campuskeep/NotesAPI/internal/domain/noteModel"
	"github.com/campuskeep/NotesAPI/pkg/logger_i"
)

// InMemoryDocumentStore is the fallback registry when Redis is offline.
// Contents do not survive a restart; the vector store remains the source of
// truth for indexed chunks.
type InMemoryDocumentStore struct {
	mutex     *sync.RWMutex
	documents map[string]noteModel.Document
	byStudent map[string][]string
	logger    *logger_i.Logger
}

func InitInMemoryDocumentStore() *InMemoryDocumentStore {
	return &InMemoryDocumentStore{
		mutex:     new(sync.RWMutex),
		documents: make(map[string]noteModel.Document),
		byStudent: make(map[string][]string),
		logger:    logger_i.NewLogger("InMem DocumentStore"),
	}
}

func (s *InMemoryDocumentStore) SaveDocument(ctx context.Context, doc noteModel.Document) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, existed := s.documents[doc.Id]; !existed {
		s.byStudent[doc.EnrollmentNumber] = append(s.byStudent[doc.EnrollmentNumber], doc.Id)
	}
	s.documents[doc.Id] = doc
	return nil
}

func (s *InMemoryDocumentStore) GetDocument(ctx context.Context, id string) (noteModel.Document, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	doc, found := s.documents[id]
	return doc, found
}

func (s *InMemoryDocumentStore) DeleteDocument(ctx context.Context, doc noteModel.Document) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.documents, doc.Id)
	ids := s.byStudent[doc.EnrollmentNumber]
	for i, id := range ids {
		if id == doc.Id {
			s.byStudent[doc.EnrollmentNumber] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
}

func (s *InMemoryDocumentStore) ListDocuments(ctx context.Context, enrollmentNumber string) ([]noteModel.Document, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	ids := s.byStudent[enrollmentNumber]
	docs := make([]noteModel.Document, 0, len(ids))
	for _, id := range ids {
		if doc, found := s.documents[id]; found {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}
