package api

import "time"

// requests---------------------

type IngestRequest struct {
	FileURL          string `json:"fileUrl" validate:"required"`
	FileName         string `json:"fileName" validate:"required"`
	EnrollmentNumber string `json:"enrollmentNumber" validate:"required"`
	StudentId        string `json:"studentId,omitempty"`
	DocumentId       string `json:"documentId,omitempty"`
}

type AskRequest struct {
	Question         string `json:"question" validate:"required"`
	EnrollmentNumber string `json:"enrollmentNumber" validate:"required"`
}

// responses---------------------

type IngestResponse struct {
	Success         bool   `json:"success"`
	DocumentId      string `json:"documentId"`
	ChunksProcessed int    `json:"chunksProcessed"`
}

type SourceResponse struct {
	FileName string `json:"fileName"`
	Text     string `json:"text"`
}

type AskResponse struct {
	Answer  string           `json:"answer"`
	Sources []SourceResponse `json:"sources"`
}

type DocumentResponse struct {
	DocumentId string    `json:"documentId"`
	FileName   string    `json:"fileName"`
	ChunkCount int       `json:"chunkCount"`
	UploadedAt time.Time `json:"uploadedAt"`
}

type ListDocumentsResponse struct {
	EnrollmentNumber string             `json:"enrollmentNumber"`
	Documents        []DocumentResponse `json:"documents"`
}

type ErrorResponse struct {
	Error string `json:"error" example:"Bad Request"`
}
