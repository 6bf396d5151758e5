package backend

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoFiles is returned when an upload is attempted with an empty batch.
var ErrNoFiles = errors.New("no files to upload")

// Error describes a failed backend call.
//
// A transport failure has StatusCode 0 and Err set. A backend-reported
// failure has a non-2xx StatusCode and, when the backend sent one, Detail.
type Error struct {
	Op         string
	StatusCode int
	Detail     string
	Err        error
}

// Error returns the text a user should see: the backend detail when
// present, otherwise the transport error.
func (e *Error) Error() string {
	switch {
	case e.Detail != "":
		return e.Detail
	case e.Err != nil:
		return e.Err.Error()
	default:
		return fmt.Sprintf("Request failed with status code %d", e.StatusCode)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Transport reports whether the call failed before any response arrived.
func (e *Error) Transport() bool {
	return e.StatusCode == 0 && e.Err != nil
}

// Message returns the user-visible text for err, unwrapping any context
// added on top of a backend error.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var be *Error
	if errors.As(err, &be) {
		return be.Error()
	}
	return err.Error()
}

// extractDetail pulls the "detail" member out of an error body. String
// details are returned verbatim; structured ones as compact JSON.
func extractDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || isNull(envelope.Detail) {
		return ""
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return s
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, envelope.Detail); err != nil {
		return string(envelope.Detail)
	}
	return buf.String()
}
