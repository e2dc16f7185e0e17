// Package api provides the answering-service client.
package api

// GJSON paths for extracting values from ask responses.
const (
	// PathAnswer holds the assistant's reply on success
	PathAnswer = "answer"

	// PathError is set by the service when it could not answer,
	// e.g. {"error": "RAG chain not initialized"}
	PathError = "error"

	// PathTupleError covers services that serialize a (body, status)
	// tuple as a JSON array: [{"error": "..."}, 503]
	PathTupleError = "0.error"
)
