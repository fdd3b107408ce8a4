package ingest

import (
	"context"
	"sync"

	"github.com/campuskeep/NotesAPI/internal/adapter/utils"
	"github.com/campuskeep/NotesAPI/internal/config"
	"github.com/campuskeep/NotesAPI/internal/domain/noteModel"
	"github.com/campuskeep/NotesAPI/internal/rag/embedding"
	"github.com/campuskeep/NotesAPI/internal/rag/fault"
	"github.com/campuskeep/NotesAPI/internal/rag/vectorDB"
)

// IndexChunks embeds the chunk texts and persists them in ordinal order.
// Embedding fans out across a small worker pool, but persistence only keeps
// the contiguous prefix of ordinals that embedded successfully: if chunk N
// fails, chunks 0..N-1 are stored and the error for chunk N comes back with
// the persisted count. Re-running the ingestion for the same document starts
// clean because existing vectors are dropped first.
func IndexChunks(ctx context.Context, doc noteModel.Document, texts []string, embedder embedding.Embedder, vectorDatabase vectorDB.DataProcessor) (int, error) {
	initLogger()
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "document Id", doc.Id)

	if err := vectorDatabase.DeleteByDocument(ctx, doc.Id); err != nil {
		return 0, err
	}

	if len(texts) == 0 {
		return 0, nil
	}

	vectors := make([][]float32, len(texts))
	errs := make([]error, len(texts))

	jobs := make(chan int)
	var wg sync.WaitGroup

	workerCount := config.EmbedWorkerCount
	if workerCount > len(texts) {
		workerCount = len(texts)
	}

	policy := fault.RetryPolicy{
		MaxAttempts: config.RetryMaxAttempts,
		BaseDelay:   config.RetryBaseDelay,
		MaxDelay:    config.RetryMaxDelay,
	}

	for w := 0; w < workerCount; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				errs[i] = fault.Retry(ctx, policy, func() error {
					vec, err := embedder.GetEmbedding(ctx, texts[i])
					if err != nil {
						return err
					}
					vectors[i] = vec
					return nil
				})
			}
		}()
	}

	for i := range texts {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	// walk ordinals in order so persistence stops at the first failure
	persisted := 0
	var batch []noteModel.DocumentChunk
	for i := range texts {
		if errs[i] != nil {
			loggr.Error("Embedding failed, stopping at this ordinal", "ordinal", i, "error", errs[i])
			if err := flushBatch(ctx, vectorDatabase, batch); err != nil {
				return persisted, err
			}
			return persisted + len(batch), errs[i]
		}

		batch = append(batch, noteModel.DocumentChunk{
			ChunkId:          utils.GetNewUUID(),
			DocumentId:       doc.Id,
			EnrollmentNumber: doc.EnrollmentNumber,
			FileName:         doc.FileName,
			Ordinal:          i,
			Text:             texts[i],
			Vector:           vectors[i],
		})

		if len(batch) == config.UpsertBatchSize {
			if err := flushBatch(ctx, vectorDatabase, batch); err != nil {
				return persisted, err
			}
			persisted += len(batch)
			batch = nil
		}
	}

	if err := flushBatch(ctx, vectorDatabase, batch); err != nil {
		return persisted, err
	}
	persisted += len(batch)

	loggr.Debug("Indexed document", "chunks", persisted)
	return persisted, nil
}

func flushBatch(ctx context.Context, vectorDatabase vectorDB.DataProcessor, batch []noteModel.DocumentChunk) error {
	if len(batch) == 0 {
		return nil
	}
	return vectorDatabase.UpsertChunks(ctx, batch)
}
