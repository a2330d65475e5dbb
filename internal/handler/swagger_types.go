package handler

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// --- Request Types ---

// UploadImageRequest represents the Grok image upload request body.
// Image may be a local upload path, an http(s) URL, a data URI, or raw base64.
type UploadImageRequest struct {
	Image  string `json:"image" example:"https://example.com/cat.png"`
	Cookie string `json:"cookie" example:"sso=eyJhbGciOi...; sso-rw=eyJhbGciOi..."`
}

// --- Response Types ---

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"image cache not reachable"`
}

// --- Generic Response Wrappers ---

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
