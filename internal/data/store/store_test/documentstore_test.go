package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/campuskeep/NotesAPI/internal/config"
	"github.com/campuskeep/NotesAPI/internal/data/redisStore"
	"github.com/campuskeep/NotesAPI/internal/data/store"
	"github.com/campuskeep/NotesAPI/internal/domain/noteModel"
	"github.com/redis/go-redis/v9"
)

func newTestDocumentStore(t *testing.T) *store.RedisDocumentStore {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return store.TestDocumentStore(redisStore.NewTestStore(client))
}

func testDoc(id string, enrollment string) noteModel.Document {
	return noteModel.Document{
		Id:               id,
		EnrollmentNumber: enrollment,
		FileName:         "bio-notes.pdf",
		ChunkCount:       7,
		UploadedAt:       time.Now().UTC(),
	}
}

func TestRedisDocumentStore_Lifecycle(t *testing.T) {
	docStore := newTestDocumentStore(t)
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

	doc := testDoc("doc_abc_123", "EN-2024-001")

	t.Run("Save and Get Roundtrip", func(t *testing.T) {
		if err := docStore.SaveDocument(ctx, doc); err != nil {
			t.Fatalf("SaveDocument failed: %v", err)
		}

		retrieved, found := docStore.GetDocument(ctx, doc.Id)
		if !found {
			t.Fatal("Document was saved but not found in Redis")
		}
		if retrieved.FileName != doc.FileName || retrieved.ChunkCount != doc.ChunkCount {
			t.Errorf("Data mismatch! Got %+v, want %+v", retrieved, doc)
		}
	})

	t.Run("Get Non-Existent Document", func(t *testing.T) {
		if _, found := docStore.GetDocument(ctx, "ghost-id"); found {
			t.Error("Expected found=false for non-existent key")
		}
	})

	t.Run("Resave Does Not Duplicate Listing", func(t *testing.T) {
		updated := doc
		updated.ChunkCount = 12
		if err := docStore.SaveDocument(ctx, updated); err != nil {
			t.Fatalf("SaveDocument failed: %v", err)
		}

		docs, err := docStore.ListDocuments(ctx, doc.EnrollmentNumber)
		if err != nil {
			t.Fatalf("ListDocuments failed: %v", err)
		}
		if len(docs) != 1 {
			t.Fatalf("got %d listing entries after re-save, want 1", len(docs))
		}
		if docs[0].ChunkCount != 12 {
			t.Errorf("re-save did not overwrite the record: %+v", docs[0])
		}
	})

	t.Run("Delete Document", func(t *testing.T) {
		docStore.DeleteDocument(ctx, doc)

		if _, found := docStore.GetDocument(ctx, doc.Id); found {
			t.Error("Document still exists after DeleteDocument call")
		}
		docs, err := docStore.ListDocuments(ctx, doc.EnrollmentNumber)
		if err != nil {
			t.Fatalf("ListDocuments failed: %v", err)
		}
		if len(docs) != 0 {
			t.Errorf("listing still has %d entries after delete", len(docs))
		}
	})
}

func TestRedisDocumentStore_StudentsAreIsolated(t *testing.T) {
	docStore := newTestDocumentStore(t)
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

	docA := testDoc("doc-a", "EN-2024-001")
	docB := testDoc("doc-b", "EN-2024-002")

	if err := docStore.SaveDocument(ctx, docA); err != nil {
		t.Fatalf("SaveDocument failed: %v", err)
	}
	if err := docStore.SaveDocument(ctx, docB); err != nil {
		t.Fatalf("SaveDocument failed: %v", err)
	}

	docsA, err := docStore.ListDocuments(ctx, "EN-2024-001")
	if err != nil {
		t.Fatalf("ListDocuments failed: %v", err)
	}
	if len(docsA) != 1 || docsA[0].Id != "doc-a" {
		t.Errorf("student A sees %v, want only doc-a", docsA)
	}

	docsB, err := docStore.ListDocuments(ctx, "EN-2024-002")
	if err != nil {
		t.Fatalf("ListDocuments failed: %v", err)
	}
	if len(docsB) != 1 || docsB[0].Id != "doc-b" {
		t.Errorf("student B sees %v, want only doc-b", docsB)
	}
}

func TestInMemoryDocumentStore_MatchesRedisBehavior(t *testing.T) {
	docStore := store.InitInMemoryDocumentStore()
	ctx := context.Background()

	doc := testDoc("mem-doc", "EN-2024-009")
	if err := docStore.SaveDocument(ctx, doc); err != nil {
		t.Fatalf("SaveDocument failed: %v", err)
	}

	if _, found := docStore.GetDocument(ctx, "mem-doc"); !found {
		t.Fatal("document not found after save")
	}

	docs, err := docStore.ListDocuments(ctx, "EN-2024-009")
	if err != nil {
		t.Fatalf("ListDocuments failed: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("got %d docs, want 1", len(docs))
	}

	docStore.DeleteDocument(ctx, doc)
	if _, found := docStore.GetDocument(ctx, "mem-doc"); found {
		t.Error("document still present after delete")
	}
}
