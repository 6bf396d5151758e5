package nlquery

// QuerySignals represents the signals sent from the query panel.
type QuerySignals struct {
	Question string `json:"question"`
}
