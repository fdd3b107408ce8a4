package fault

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Kind classifies a pipeline failure. Every external-call error is translated
// into one of these before it crosses back to the caller; raw provider errors
// never leave the pipeline boundary.
type Kind string

const (
	RateLimited       Kind = "RATE_LIMITED"
	QuotaExhausted    Kind = "QUOTA_EXHAUSTED"
	EmbeddingFailure  Kind = "EMBEDDING_FAILURE"
	GenerationFailure Kind = "GENERATION_FAILURE"
	StorageFailure    Kind = "STORAGE_FAILURE"
	ProviderTimeout   Kind = "PROVIDER_TIMEOUT"
)

type Error struct {
	Kind       Kind
	Step       Kind //the pipeline step that failed, e.g. EmbeddingFailure
	Message    string
	RetryAfter time.Duration //hint from the provider, zero when unknown
	cause      error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Step: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Step: kind, Message: message, cause: cause}
}

// KindOf returns the classified kind, or the zero Kind for unclassified errors.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

// StepOf returns the pipeline step recorded on the error, falling back to Kind.
func StepOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		if fe.Step != "" {
			return fe.Step
		}
		return fe.Kind
	}
	return ""
}

func RetryAfterOf(err error) time.Duration {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.RetryAfter
	}
	return 0
}

// Retryable reports whether a capped backoff retry makes sense. Quota
// exhaustion needs operator intervention and is never retried.
func Retryable(err error) bool {
	switch KindOf(err) {
	case RateLimited, ProviderTimeout:
		return true
	default:
		return false
	}
}

// HTTPStatus maps a kind to the boundary status code: 429 for throttling,
// 402 for exhausted quota, 500 otherwise.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case RateLimited:
		return http.StatusTooManyRequests
	case QuotaExhausted:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

// UserMessage is the short human readable text surfaced to the caller.
func UserMessage(err error) string {
	switch KindOf(err) {
	case RateLimited:
		return "The service is busy right now, please try again shortly"
	case QuotaExhausted:
		return "The AI service quota is exhausted, please contact an administrator"
	case ProviderTimeout:
		return "The AI service took too long to respond, please try again"
	case StorageFailure:
		return "Could not save your data, please try again"
	default:
		var fe *Error
		if errors.As(err, &fe) {
			return fe.Message
		}
		return "Something went wrong"
	}
}

// FromHTTP classifies a provider error by its HTTP status code, falling back
// to message sniffing for codes that are ambiguous (429 covers both
// throttling and billing exhaustion on some providers).
func FromHTTP(step Kind, statusCode int, retryAfter time.Duration, cause error) *Error {
	kind := step
	switch statusCode {
	case http.StatusTooManyRequests:
		if smellsLikeQuota(cause) {
			kind = QuotaExhausted
		} else {
			kind = RateLimited
		}
	case http.StatusPaymentRequired, http.StatusForbidden:
		if smellsLikeQuota(cause) {
			kind = QuotaExhausted
		}
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		kind = ProviderTimeout
	}
	return &Error{Kind: kind, Step: step, Message: fmt.Sprintf("provider returned %d", statusCode), RetryAfter: retryAfter, cause: cause}
}

// Classify is the fallback path for errors that carry no status code.
func Classify(step Kind, cause error) *Error {
	if errors.Is(cause, context.DeadlineExceeded) {
		return &Error{Kind: ProviderTimeout, Step: step, Message: "call timed out", cause: cause}
	}
	msg := strings.ToLower(cause.Error())
	switch {
	case smellsLikeQuota(cause):
		return &Error{Kind: QuotaExhausted, Step: step, Message: "provider quota exhausted", cause: cause}
	case strings.Contains(msg, "rate") || strings.Contains(msg, "429") || strings.Contains(msg, "resource exhausted"):
		return &Error{Kind: RateLimited, Step: step, Message: "provider is throttling", cause: cause}
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		return &Error{Kind: ProviderTimeout, Step: step, Message: "call timed out", cause: cause}
	default:
		return &Error{Kind: step, Step: step, Message: "provider call failed", cause: cause}
	}
}

func smellsLikeQuota(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "quota") || strings.Contains(msg, "billing") ||
		strings.Contains(msg, "credit") || strings.Contains(msg, "insufficient_quota")
}
