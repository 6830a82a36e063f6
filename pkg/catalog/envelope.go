package catalog

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Envelope is the wrapper around every json response of the catalog.
type Envelope[T any] struct {
	Success bool
	Message *string
	Errors  []ErrorDetail
	Payload T
}

type rawEnvelope struct {
	Success *bool             `json:"success"`
	Message *string           `json:"message"`
	Errors  []json.RawMessage `json:"errors"`
	Payload json.RawMessage   `json:"d"`
}

// ErrorDetail is a single element of an envelope's errors, it is either a
// StringError or a StructuredError.
type ErrorDetail interface {
	Render() string
	errorDetail()
}

// StringError is an error element that was a json string, it renders as the string itself.
type StringError string

func (e StringError) Render() string {
	return string(e)
}

func (StringError) errorDetail() {}

// StructuredError is any other error element, it renders as compact json.
type StructuredError struct {
	Raw json.RawMessage
}

func (e StructuredError) Render() string {
	return string(e.Raw)
}

func (StructuredError) errorDetail() {}

func parseErrorDetail(raw json.RawMessage) (ErrorDetail, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var value string
		err := json.Unmarshal(trimmed, &value)
		if err != nil {
			return nil, err
		}
		return StringError(value), nil
	}

	var compact bytes.Buffer
	err := json.Compact(&compact, trimmed)
	if err != nil {
		return nil, err
	}
	return StructuredError{Raw: compact.Bytes()}, nil
}

// RemoteRejectionError is returned when the catalog answers with `success: false`.
type RemoteRejectionError struct {
	Message string
	Errors  []ErrorDetail
}

func (e *RemoteRejectionError) Error() string {
	rendered := make([]string, len(e.Errors))
	for i, detail := range e.Errors {
		rendered[i] = detail.Render()
	}
	return e.Message + " " + strings.Join(rendered, ", ")
}

func (e *RemoteRejectionError) Is(target error) bool {
	return target == ErrRemoteRejection
}
