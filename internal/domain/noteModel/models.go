package noteModel

import (
	"context"
	"time"
)

// Document is one uploaded study file, owned by exactly one student.
type Document struct {
	Id               string    `json:"document_id"`
	EnrollmentNumber string    `json:"enrollment_number"`
	StudentId        string    `json:"student_id"`
	FileName         string    `json:"file_name"`
	SourceURL        string    `json:"source_url"`
	SizeBytes        int64     `json:"size_bytes"`
	ChunkCount       int       `json:"chunk_count"`
	UploadedAt       time.Time `json:"uploaded_at"`
}

// DocumentChunk is a bounded slice of a document's extracted text plus its
// embedding vector. Ordinal reflects original left-to-right order and is
// unique per document.
type DocumentChunk struct {
	ChunkId          string    `json:"chunk_id"`
	DocumentId       string    `json:"document_id"`
	EnrollmentNumber string    `json:"enrollment_number"`
	FileName         string    `json:"file_name"`
	Ordinal          int       `json:"chunk_order"`
	Text             string    `json:"content"`
	Vector           []float32 `json:"-"`
}

// RetrievedChunk is a similarity search hit, ranked most similar first.
type RetrievedChunk struct {
	Text       string
	FileName   string
	DocumentId string
	Ordinal    int
	Score      float32
}

type Source struct {
	FileName string `json:"fileName"`
	Excerpt  string `json:"text"`
}

type Answer struct {
	Text    string   `json:"answer"`
	Sources []Source `json:"sources"`
}

type DocType string

var (
	PDF  DocType = "PDF"
	DOCX DocType = "DOCX"
	ERR  DocType = "ERROR"
)

type DocumentStore interface {
	SaveDocument(ctx context.Context, doc Document) error
	GetDocument(ctx context.Context, id string) (Document, bool)
	DeleteDocument(ctx context.Context, doc Document)
	ListDocuments(ctx context.Context, enrollmentNumber string) ([]Document, error)
}
