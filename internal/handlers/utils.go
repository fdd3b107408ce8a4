package handlers

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strconv"

	"github.com/campuskeep/NotesAPI/internal/api"
	"github.com/campuskeep/NotesAPI/internal/config"
	"github.com/campuskeep/NotesAPI/internal/metrics"
	"github.com/campuskeep/NotesAPI/internal/rag/fault"
)

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but can't send a clean status code now
		logRH.Error("Error encoding response: %v", err)
	}
}

func WriteErrorResponse(w http.ResponseWriter, httpCode int, errorMessage string) {
	writeJsonResponse(w, httpCode, api.ErrorResponse{Error: errorMessage})
}

// writeFaultResponse maps a classified pipeline failure to the boundary:
// 429 with a Retry-After header for throttling, 402 for exhausted quota,
// 500 for everything else. The raw provider error never reaches the caller.
func writeFaultResponse(w http.ResponseWriter, err error) {
	status := fault.HTTPStatus(err)

	if status == http.StatusTooManyRequests {
		seconds := int64(1)
		if hint := fault.RetryAfterOf(err); hint > 0 {
			seconds = int64(math.Ceil(hint.Seconds()))
		}
		w.Header().Set("Retry-After", strconv.FormatInt(seconds, 10))
	}
	if kind := fault.KindOf(err); kind != "" {
		metrics.CountProviderFailure(string(kind))
	}

	WriteErrorResponse(w, status, fault.UserMessage(err))
}

func validateContext(ctx context.Context) bool {
	logRH.With("traceId:", ctx.Value(config.TRACE_ID_KEY))
	if ctx.Err() != nil {
		logRH.Warn("context error", ctx.Err())
		return false
	}

	select {
	case <-ctx.Done():
		logRH.Warn("context cancelled")
		return false
	default:
		return true

	}
}
