// Package api turns HTTP-shaped gateway events into reads and writes against
// the quote repository. It decouples the wire contract from the domain types.
package api

// Event is the inbound request envelope. API Gateway delivers two shapes
// (HTTP API v2 with rawPath/requestContext.http, and the legacy REST format
// with httpMethod/path); the struct carries both and normalization picks
// whichever is populated.
type Event struct {
	RawPath               string            `json:"rawPath"`
	Path                  string            `json:"path"`
	HTTPMethod            string            `json:"httpMethod"`
	RequestContext        RequestContext    `json:"requestContext"`
	QueryStringParameters map[string]string `json:"queryStringParameters"`
	Body                  string            `json:"body"`
}

// RequestContext is the v2 envelope's nested request context.
type RequestContext struct {
	HTTP HTTPContext `json:"http"`
}

// HTTPContext carries the v2 method and path.
type HTTPContext struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

// Response is the gateway response shape shared by both envelope formats.
type Response struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`
}
