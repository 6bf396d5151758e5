package common

import "strconv"

// Itoa converts an integer to a string.
func Itoa(n int) string {
	return strconv.Itoa(n)
}

// IngestLabel is the uploader button label for n selected files.
func IngestLabel(n int, loading bool) string {
	if loading {
		return "Processing..."
	}
	return "Start Ingestion (" + Itoa(n) + " files)"
}

// ConnectLabel is the connector button label.
func ConnectLabel(loading bool) string {
	if loading {
		return "Analyzing..."
	}
	return "Connect & Analyze"
}

// QueryLabel is the query button label.
func QueryLabel(loading bool) string {
	if loading {
		return "Thinking..."
	}
	return "Query"
}
