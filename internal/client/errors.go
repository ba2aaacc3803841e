package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError reports attribution or entity data rejected before any
// request was issued.
type ValidationError struct {
	// Field names the offending input, e.g. "author.name".
	Field string
	// Rule is the failed constraint, e.g. "min".
	Rule string
	// Message is a human-readable description.
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ResponseError reports a non-success HTTP response. Its message carries
// the response body text so server explanations reach the user verbatim.
type ResponseError struct {
	// Op describes the failed operation, e.g. "save recipe".
	Op string
	// StatusCode is the HTTP status code.
	StatusCode int
	// Body is the trimmed response body.
	Body string
}

func (e *ResponseError) Error() string {
	detail := e.Body
	if detail == "" {
		detail = fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("failed to %s: %s", e.Op, detail)
}

// DecodeError reports a success response whose body is not the expected
// JSON document.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: decode response: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsValidationError returns true if err was raised by client-side
// validation. Uses errors.As to handle wrapped errors.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsResponseError returns true if err is a non-success response.
func IsResponseError(err error) bool {
	var re *ResponseError
	return errors.As(err, &re)
}

// IsDecodeError returns true if a success response could not be decoded.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// StatusCode extracts the HTTP status from a ResponseError, 0 otherwise.
func StatusCode(err error) int {
	var re *ResponseError
	if errors.As(err, &re) {
		return re.StatusCode
	}
	return 0
}

// IsNotFound returns true if the server answered 404.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}
