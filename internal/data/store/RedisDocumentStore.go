package store

import (
	"context"
	"encoding/json"

	"github.com/campuskeep/NotesAPI/internal/config"
	"github.com/campuskeep/NotesAPI/internal/data/redisStore"
	"github.com/campuskeep/NotesAPI/internal/domain/noteModel"
	"github.com/campuskeep/NotesAPI/pkg/logger_i"
)

// RedisDocumentStore keeps the registry of uploaded documents: one JSON value
// per document plus a per-student list of document ids for listing.
type RedisDocumentStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisDocumentStore(ctx context.Context) *RedisDocumentStore {
	inner := redisStore.GetRedisStore(ctx, config.RedisDocumentStore)
	if inner == nil {
		return nil
	}
	return &RedisDocumentStore{
		store:  inner,
		logger: logger_i.NewLogger("DocumentStore"),
	}
}

func (s *RedisDocumentStore) SaveDocument(ctx context.Context, doc noteModel.Document) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "document Id", doc.Id)
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	existed, err := s.store.Exists(ctx, docKey(doc.Id))
	if err != nil {
		return err
	}

	if err = s.store.Set(ctx, docKey(doc.Id), data, 0); err != nil {
		return err
	}
	//re-ingest overwrites the value but must not duplicate the list entry
	if !existed {
		if err = s.store.ListPush(ctx, studentKey(doc.EnrollmentNumber), doc.Id); err != nil {
			return err
		}
	}
	log.Debug("Saved document to registry")
	return nil
}

func (s *RedisDocumentStore) GetDocument(ctx context.Context, id string) (noteModel.Document, bool) {
	var doc noteModel.Document
	val, err := s.store.Get(ctx, docKey(id))
	if s.store.IsNil(err) {
		return doc, false
	} else if err != nil {
		return doc, false
	}

	if err = json.Unmarshal([]byte(val), &doc); err != nil {
		return doc, false
	}
	return doc, true
}

func (s *RedisDocumentStore) DeleteDocument(ctx context.Context, doc noteModel.Document) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "document Id", doc.Id)
	if err := s.store.Del(ctx, docKey(doc.Id)); err != nil {
		log.Error("Error deleting document from registry", "error", err)
		return
	}
	if err := s.store.ListRemove(ctx, studentKey(doc.EnrollmentNumber), doc.Id); err != nil {
		log.Error("Error removing document from student index", "error", err)
	}
	log.Debug("Document deleted from registry")
}

func (s *RedisDocumentStore) ListDocuments(ctx context.Context, enrollmentNumber string) ([]noteModel.Document, error) {
	ids, err := s.store.ListGetAll(ctx, studentKey(enrollmentNumber))
	if err != nil {
		return nil, err
	}

	docs := make([]noteModel.Document, 0, len(ids))
	for _, id := range ids {
		if doc, found := s.GetDocument(ctx, id); found {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func docKey(id string) string {
	return "doc:" + id
}

func studentKey(enrollmentNumber string) string {
	return "docs:" + enrollmentNumber
}

func TestDocumentStore(store *redisStore.Store) *RedisDocumentStore {
	return &RedisDocumentStore{
		store:  store,
		logger: logger_i.NewLogger("test document store"),
	}
}
