package apperror

import "net/http"

var (
	ErrNotFound = New(
		CodeNotFound,
		"Resource not found",
		http.StatusNotFound,
	)

	ErrInvalidInput = New(
		CodeInvalidInput,
		"Invalid input",
		http.StatusBadRequest,
	)

	ErrRateLimited = New(
		CodeRateLimited,
		"Too many requests from this IP",
		http.StatusTooManyRequests,
	)

	ErrRequestInProgress = New(
		CodeRequestInProgress,
		"A request with this Idempotency-Key is still being processed",
		http.StatusConflict,
	)

	ErrInternal = New(
		CodeInternalError,
		"An unexpected error occurred",
		http.StatusInternalServerError,
	)
)

// RouteNotFound is returned for paths no handler is registered for.
func RouteNotFound(path string) *AppError {
	return New(CodeNotFound, "Route "+path+" not found", http.StatusNotFound)
}
