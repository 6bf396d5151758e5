package connector

import "strings"

// Failure buckets a connection error by its message text.
type Failure int

const (
	FailureGeneric Failure = iota
	FailureAuth
	FailureHostNotFound
)

const (
	authMarker         = "FATAL: password authentication failed"
	hostNotFoundMarker = "could not translate host name"
)

// Classify matches a backend or transport message against known failures.
func Classify(detail string) Failure {
	switch {
	case strings.Contains(detail, authMarker):
		return FailureAuth
	case strings.Contains(detail, hostNotFoundMarker):
		return FailureHostNotFound
	default:
		return FailureGeneric
	}
}

func (f Failure) String() string {
	switch f {
	case FailureAuth:
		return "auth"
	case FailureHostNotFound:
		return "host_not_found"
	default:
		return "generic"
	}
}

// Message returns the status line shown for a failure with the given detail.
func (f Failure) Message(detail string) string {
	switch f {
	case FailureAuth:
		return "Error: Connection Failed. Check Username/Password/Port (e.g., demo:demo@localhost:5432)."
	case FailureHostNotFound:
		return "Error: Host Not Found. Check if your Docker container is running or if the host name is correct."
	default:
		return "Error: " + detail
	}
}
