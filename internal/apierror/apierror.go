// Package apierror holds the JSON bodies the API answers with on failure and
// the domain error kinds that decide the HTTP status. Clients only ever see
// Detail and Fields; database and driver errors stay in the logs.
package apierror

// APIError is the body of every 4xx/5xx response: {"detail": "..."}.
type APIError struct {
	Detail string `json:"detail"`
}

func New(detail string) *APIError {
	return &APIError{Detail: detail}
}

// ValidationError is the 422 body, one validator tag per offending field.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(campos map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: campos}
}
