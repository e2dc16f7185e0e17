package models

// Endpoint defaults for the answering service
const (
	DefaultEndpoint = "http://localhost:8000/ask"
	AskPath         = "/ask"
)

// DefaultTitle is shown in the chat header.
const DefaultTitle = "Elevate Aviation Co-Pilot"

// DefaultPlaceholder is shown in the empty input box.
const DefaultPlaceholder = "Ask about your trip..."

// DefaultHeaders returns the headers sent with every ask request
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
		"User-Agent":   "askchat",
	}
}
