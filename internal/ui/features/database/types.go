package database

// ConnectSignals represents the signals sent from the connector panel.
type ConnectSignals struct {
	Connection string `json:"connection"`
}
