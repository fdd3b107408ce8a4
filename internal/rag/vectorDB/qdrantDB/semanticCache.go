package qdrantDB

import (
	"context"
	"encoding/json"
	"time"

	"github.com/campuskeep/NotesAPI/internal/config"
	"github.com/campuskeep/NotesAPI/internal/domain/noteModel"
	"github.com/qdrant/go-client/qdrant"
)

var cacheCollectionName = config.AnswerCacheCollectionName

func initCacheCollection(ctx context.Context, client *qdrant.Client) {
	err := createCollection(ctx, client, cacheCollectionName)
	if err != nil {
		logger.Error("Answer cache collection creation failed", "error", err)
	}
}

// GetCachedAnswer looks for a near-identical earlier question from the SAME
// student. The owner filter matters here as much as in retrieval: a cached
// answer is built from one student's notes and must never be served to
// another.
func (db *ClientHolder) GetCachedAnswer(ctx context.Context, queryVector []float32, enrollmentNumber string) (noteModel.Answer, bool, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	searchResult, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: cacheCollectionName,
		Query:          qdrant.NewQuery(queryVector...),
		Limit:          qdrant.PtrOf(uint64(1)),
		Filter:         ownerFilter(enrollmentNumber),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil || len(searchResult) == 0 {
		return noteModel.Answer{}, false, err
	}

	if searchResult[0].Score < config.CacheSimilarityCutoff {
		return noteModel.Answer{}, false, nil
	}

	var answer noteModel.Answer
	answer.Text = searchResult[0].Payload["answer"].GetStringValue()
	if raw := searchResult[0].Payload["sources"].GetStringValue(); raw != "" {
		if err := json.Unmarshal([]byte(raw), &answer.Sources); err != nil {
			loggr.Error("Cached sources are corrupt, skipping cache hit", "error", err)
			return noteModel.Answer{}, false, nil
		}
	}

	loggr.Debug("Answer cache hit", "score", searchResult[0].Score)
	return answer, true, nil
}

func (db *ClientHolder) SaveToCache(ctx context.Context, id string, vector []float32, enrollmentNumber string, answer noteModel.Answer) error {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	sources, err := json.Marshal(answer.Sources)
	if err != nil {
		return err
	}

	_, err = db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: cacheCollectionName,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewID(id),
				Vectors: qdrant.NewVectors(vector...),
				Payload: qdrant.NewValueMap(map[string]any{
					"answer":            answer.Text,
					"sources":           string(sources),
					"enrollment_number": enrollmentNumber,
					"timestamp":         time.Now().Unix(),
				}),
			},
		},
	})
	if err != nil {
		loggr.Error("Saving answer to cache failed", "error", err)
	}
	return err
}
