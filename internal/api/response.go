package api

import (
	"encoding/json"
)

// ErrorResponse is a standardized error message for API responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// jsonResponse formats a JSON response with the shared content-type and
// cache-control headers. The router adds the cross-origin header afterwards.
func jsonResponse(statusCode int, data interface{}) Response {
	body, err := json.Marshal(data)
	if err != nil {
		body = []byte(`{"error":"Internal server error"}`)
		statusCode = 500
	}
	return Response{
		StatusCode: statusCode,
		Headers: map[string]string{
			"content-type":  "application/json",
			"cache-control": "no-store",
		},
		Body: string(body),
	}
}

// errorResponse formats an error body with the given status.
func errorResponse(statusCode int, message string) Response {
	return jsonResponse(statusCode, ErrorResponse{Error: message})
}
