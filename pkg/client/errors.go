package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// RequestError represents a non-2xx response from the API. Detail is the raw
// JSON of the body's "detail" field, nil when absent.
type RequestError struct {
	StatusCode int
	Detail     json.RawMessage
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("Response Error: Status: %d, Detail: %s", e.StatusCode, e.detailJSON())
}

// Message returns the detail for display: a JSON string detail unquoted,
// anything else as compact JSON.
func (e *RequestError) Message() string {
	var s string
	if json.Unmarshal(e.Detail, &s) == nil && len(e.Detail) > 0 && e.Detail[0] == '"' {
		return s
	}
	return e.detailJSON()
}

func (e *RequestError) detailJSON() string {
	if len(e.Detail) == 0 {
		return "null"
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, e.Detail); err != nil {
		return string(e.Detail)
	}
	return buf.String()
}

// ParseError is returned when a response body is not valid JSON.
type ParseError struct {
	StatusCode int
	Err        error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse response (HTTP %d): %v", e.StatusCode, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsStatus returns true if err (or any wrapped error) is a RequestError with the given status code.
func IsStatus(err error, code int) bool {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode == code
	}
	return false
}
