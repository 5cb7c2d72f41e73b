package llm

import "errors"

var (
	// ErrUnavailable indicates the model endpoint could not be reached.
	ErrUnavailable = errors.New("llm endpoint unreachable")

	// ErrUnauthorized indicates the API key was rejected.
	ErrUnauthorized = errors.New("llm api key rejected")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrInvalidOutput indicates the model reply could not be parsed into
	// the expected structured format.
	ErrInvalidOutput = errors.New("invalid llm output format")

	// ErrEmptyReply indicates the model returned no candidate text.
	ErrEmptyReply = errors.New("llm returned empty reply")
)
