package adapter

import (
	"time"

	"github.com/campuskeep/NotesAPI/internal/adapter/utils"
	"github.com/campuskeep/NotesAPI/internal/api"
	"github.com/campuskeep/NotesAPI/internal/domain/noteModel"
)

func ToDocument(req api.IngestRequest) noteModel.Document {
	id := req.DocumentId
	if id == "" {
		id = utils.GetNewUUID()
	}
	return noteModel.Document{
		Id:               id,
		EnrollmentNumber: req.EnrollmentNumber,
		StudentId:        req.StudentId,
		FileName:         req.FileName,
		SourceURL:        req.FileURL,
		UploadedAt:       time.Now(),
	}
}

func ToIngestResponse(doc noteModel.Document, chunksProcessed int) api.IngestResponse {
	return api.IngestResponse{
		Success:         true,
		DocumentId:      doc.Id,
		ChunksProcessed: chunksProcessed,
	}
}

func ToAskResponse(answer noteModel.Answer) api.AskResponse {
	sources := make([]api.SourceResponse, 0, len(answer.Sources))
	for _, s := range answer.Sources {
		sources = append(sources, api.SourceResponse{
			FileName: s.FileName,
			Text:     s.Excerpt,
		})
	}
	return api.AskResponse{
		Answer:  answer.Text,
		Sources: sources,
	}
}

func ToListDocumentsResponse(enrollmentNumber string, docs []noteModel.Document) api.ListDocumentsResponse {
	out := make([]api.DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, api.DocumentResponse{
			DocumentId: d.Id,
			FileName:   d.FileName,
			ChunkCount: d.ChunkCount,
			UploadedAt: d.UploadedAt,
		})
	}
	return api.ListDocumentsResponse{
		EnrollmentNumber: enrollmentNumber,
		Documents:        out,
	}
}
