package googleEmbedding

import (
	"errors"

	"github.com/campuskeep/NotesAPI/internal/rag/fault"
	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// googleFault translates a genai or transport error into the pipeline
// taxonomy. Google reports both throttling and billing exhaustion as 429 /
// RESOURCE_EXHAUSTED, so the message decides between the two.
func googleFault(step fault.Kind, err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return fault.FromHTTP(step, apiErr.Code, 0, err)
	}
	if s, ok := status.FromError(err); ok && s.Code() == codes.ResourceExhausted {
		return fault.FromHTTP(step, 429, 0, err)
	}
	return fault.Classify(step, err)
}
