package models

// APIResponse is the error envelope returned by failing endpoints.
type APIResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// NewErrorResponse creates an error response
func NewErrorResponse(message string) APIResponse {
	return APIResponse{
		Success: false,
		Error:   message,
	}
}

// NewValidationErrorResponse creates a validation error response
func NewValidationErrorResponse(errors map[string]string) APIResponse {
	return APIResponse{
		Success: false,
		Error:   "Validation failed",
		Errors:  errors,
	}
}

// CreatedResponse is returned after a listing is stored.
type CreatedResponse struct {
	ID string `json:"id"`
}

// MessageResponse is the liveness payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// Diagnostics reports storage connectivity and configuration presence.
type Diagnostics struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseURL      string   `json:"database_url"`
	DatabaseName     string   `json:"database_name"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
	StorageDriver    string   `json:"storage_driver"`
}
