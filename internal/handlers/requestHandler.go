package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/campuskeep/NotesAPI/internal/adapter"
	"github.com/campuskeep/NotesAPI/internal/adapter/utils"
	"github.com/campuskeep/NotesAPI/internal/api"
	"github.com/campuskeep/NotesAPI/internal/customHttpClient"
	"github.com/campuskeep/NotesAPI/internal/domain/noteModel"
	"github.com/campuskeep/NotesAPI/internal/rag"
	"github.com/campuskeep/NotesAPI/internal/rag/ingest"
	"github.com/campuskeep/NotesAPI/pkg/logger_i"
)

var (
	logRH      *logger_i.Logger
	ragService rag.Service
	docStore   noteModel.DocumentStore
	initOnce   sync.Once
)

// Init wires the pipeline and the document registry into the handlers.
func Init(service rag.Service, store noteModel.DocumentStore) {
	initOnce.Do(func() {
		logRH = logger_i.NewLogger("Request Handler")
		ragService = service
		docStore = store
	})
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// IngestHandler godoc
// @Summary      Ingest a study document
// @Description  Downloads the document behind fileUrl, extracts its text, chunks it and indexes the chunks for the given student.
// @Tags         Documents
// @Accept       json
// @Produce      json
// @Param        request  body      api.IngestRequest  true  "Document location and owner"
// @Success      201      {object}  api.IngestResponse "Document indexed"
// @Failure      400      {object}  api.ErrorResponse  "Invalid request data"
// @Failure      429      {object}  api.ErrorResponse  "Provider is throttling, retry later"
// @Failure      402      {object}  api.ErrorResponse  "Provider quota exhausted"
// @Failure      500      {object}  api.ErrorResponse  "Extraction, embedding or storage error"
// @Router       /documents [post]
func IngestHandler(w http.ResponseWriter, request *http.Request) {
	if !validateContext(request.Context()) {
		logRH.Warn("Invalid Context by request ", request.RemoteAddr)
		return
	}

	var requestData api.IngestRequest
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			logRH.Error("Couldn't close the ingest handler reader :", err)
		}
	}(request.Body)
	if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || !validateIngestRequest(requestData) {
		logRH.Warn("Bad Ingest Request: ", "error:", err, "request data:", requestData)
		WriteErrorResponse(w, http.StatusBadRequest, "fileUrl, fileName and enrollmentNumber are required")
		return
	}

	localPath, err := customHttpClient.DownloadToTempFile(request.Context(), requestData.FileURL, requestData.FileName)
	if err != nil {
		logRH.Error("Download failed", "error", err, "url", requestData.FileURL)
		WriteErrorResponse(w, http.StatusBadRequest, "Could not download the document")
		return
	}
	defer func() {
		if err := os.Remove(localPath); err != nil {
			logRH.Error("Error removing temp file", "error", err)
		}
	}()

	text, err := ingest.ExtractText(localPath)
	if err != nil {
		logRH.Error("Extraction failed", "error", err, "file", requestData.FileName)
		WriteErrorResponse(w, http.StatusBadRequest, "Could not extract text from the document")
		return
	}

	doc := adapter.ToDocument(requestData)
	if info, statErr := os.Stat(localPath); statErr == nil {
		doc.SizeBytes = info.Size()
	}

	persisted, err := ragService.IngestDocument(request.Context(), doc, text)
	doc.ChunkCount = persisted

	// A partial failure still leaves the finished prefix indexed, so the
	// registry entry is written either way; re-ingesting the same documentId
	// starts the document over.
	if persisted > 0 || err == nil {
		if saveErr := docStore.SaveDocument(request.Context(), doc); saveErr != nil {
			logRH.Error("Saving document registry entry failed", "error", saveErr)
		}
	}

	if err != nil {
		logRH.Error("Ingestion stopped", "error", err, "persisted chunks", persisted)
		writeFaultResponse(w, err)
		return
	}

	writeJsonResponse(w, http.StatusCreated, adapter.ToIngestResponse(doc, persisted))
}

// AskHandler godoc
// @Summary      Ask a question about the student's notes
// @Description  Answers the question using only chunks owned by the given enrollment number. Questions the notes cannot answer get an honest fallback.
// @Tags         Questions
// @Accept       json
// @Produce      json
// @Param        request  body      api.AskRequest    true  "Question and owner"
// @Success      200      {object}  api.AskResponse   "Grounded answer with source citations"
// @Failure      400      {object}  api.ErrorResponse "Invalid request data"
// @Failure      429      {object}  api.ErrorResponse "Provider is throttling, retry later"
// @Failure      402      {object}  api.ErrorResponse "Provider quota exhausted"
// @Failure      500      {object}  api.ErrorResponse "Embedding, retrieval or generation error"
// @Router       /ask [post]
func AskHandler(w http.ResponseWriter, request *http.Request) {
	if !validateContext(request.Context()) {
		logRH.Warn("Invalid Context by request ", request.RemoteAddr)
		return
	}

	var requestData api.AskRequest
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			logRH.Error("Couldn't close the ask handler reader :", err)
		}
	}(request.Body)
	if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || !validateAskRequest(requestData) {
		logRH.Warn("Bad Ask Request: ", "error:", err, "request data:", requestData)
		WriteErrorResponse(w, http.StatusBadRequest, "question and enrollmentNumber are required")
		return
	}

	answer, err := ragService.Answer(request.Context(), requestData.EnrollmentNumber, requestData.Question)
	if err != nil {
		writeFaultResponse(w, err)
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToAskResponse(answer))
}

// ListDocumentsHandler godoc
// @Summary      List a student's documents
// @Tags         Documents
// @Produce      json
// @Param        enrollment  path      string  true  "Enrollment number"
// @Success      200  {object}  api.ListDocumentsResponse
// @Router       /documents/{enrollment} [get]
func ListDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	enrollmentNumber := utils.GetChiURLParam(r, "enrollment")
	if enrollmentNumber == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "enrollment number is required")
		return
	}

	docs, err := docStore.ListDocuments(r.Context(), enrollmentNumber)
	if err != nil {
		logRH.Error("Listing documents failed", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "Could not list documents")
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToListDocumentsResponse(enrollmentNumber, docs))
}

// DeleteDocumentHandler godoc
// @Summary      Delete a document and its indexed chunks
// @Description  Removes the document's vectors and its registry entry. The enrollmentNumber query parameter must match the owner.
// @Tags         Documents
// @Produce      json
// @Param        id                path   string  true  "Document ID"
// @Param        enrollmentNumber  query  string  true  "Owner's enrollment number"
// @Success      200  {object}  map[string]bool
// @Failure      404  {object}  api.ErrorResponse "Unknown document or wrong owner"
// @Router       /documents/{id} [delete]
func DeleteDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}

	id := utils.GetChiURLParam(r, "id")
	enrollmentNumber := r.URL.Query().Get("enrollmentNumber")

	doc, found := docStore.GetDocument(r.Context(), id)
	// a document belonging to another student looks exactly like a missing one
	if !found || doc.EnrollmentNumber != enrollmentNumber {
		WriteErrorResponse(w, http.StatusNotFound, "Document not found")
		return
	}

	if err := ragService.RemoveDocument(r.Context(), doc.Id); err != nil {
		logRH.Error("Removing document vectors failed", "error", err)
		writeFaultResponse(w, err)
		return
	}
	docStore.DeleteDocument(r.Context(), doc)

	writeJsonResponse(w, http.StatusOK, map[string]bool{"success": true})
}

func validateIngestRequest(req api.IngestRequest) bool {
	return req.FileURL != "" && req.FileName != "" && req.EnrollmentNumber != ""
}

func validateAskRequest(req api.AskRequest) bool {
	return req.Question != "" && req.EnrollmentNumber != ""
}
