package api

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// handlerFunc handles a normalized event. A returned error is a backend fault
// that must propagate to the platform unhandled; client faults are regular
// 4xx responses with a nil error.
type handlerFunc func(ctx context.Context, event Event) (Response, error)

type routeKey struct {
	method string
	path   string
}

// Router normalizes inbound events and dispatches them through a fixed
// (method, path) table. The table is the single source of truth for the
// service's HTTP surface.
type Router struct {
	routes      map[routeKey]handlerFunc
	allowOrigin string
	logger      *zap.Logger
}

// NewRouter wires the read and write handlers into the dispatch table.
func NewRouter(read *ReadHandler, write *WriteHandler, allowOrigin string, logger *zap.Logger) *Router {
	return &Router{
		routes: map[routeKey]handlerFunc{
			{http.MethodGet, "/quotes"}:  read.Handle,
			{http.MethodPost, "/quotes"}: write.Handle,
		},
		allowOrigin: allowOrigin,
		logger:      logger,
	}
}

var multiSlash = regexp.MustCompile(`//+`)

// normalize extracts the method and path from whichever envelope fields are
// populated, collapses repeated slashes and strips the trailing slash (except
// for the root path).
func normalize(event Event) (method, path string) {
	method = event.RequestContext.HTTP.Method
	if method == "" {
		method = event.HTTPMethod
	}
	if method == "" {
		method = http.MethodGet
	}
	method = strings.ToUpper(method)

	path = event.RawPath
	if path == "" {
		path = event.RequestContext.HTTP.Path
	}
	if path == "" {
		path = event.Path
	}
	if path == "" {
		path = "/"
	}
	path = multiSlash.ReplaceAllString(path, "/")
	if path != "/" && strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
	}
	return method, path
}

// Route is the Lambda handler for the quotes API.
func (rt *Router) Route(ctx context.Context, event Event) (Response, error) {
	method, path := normalize(event)
	logger := rt.logger.With(
		zap.String("request_id", uuid.NewString()),
		zap.String("method", method),
		zap.String("path", path),
	)

	if method == http.MethodOptions {
		// CORS preflight, no body and no cache headers.
		return Response{
			StatusCode: http.StatusNoContent,
			Headers: map[string]string{
				"access-control-allow-origin":  rt.allowOrigin,
				"access-control-allow-methods": "GET,POST,OPTIONS",
				"access-control-allow-headers": "content-type",
			},
			Body: "",
		}, nil
	}

	handler, ok := rt.routes[routeKey{method, path}]
	if !ok {
		logger.Info("route not found")
		return rt.withOrigin(errorResponse(http.StatusNotFound, "Not found")), nil
	}

	logger.Info("handling request")
	resp, err := handler(ctx, event)
	if err != nil {
		// Backend fault: surface it unhandled so the platform reports a
		// server error instead of masking it as a response.
		logger.Error("handler failed", zap.Error(err))
		return Response{}, err
	}
	return rt.withOrigin(resp), nil
}

func (rt *Router) withOrigin(resp Response) Response {
	if resp.Headers == nil {
		resp.Headers = map[string]string{}
	}
	resp.Headers["access-control-allow-origin"] = rt.allowOrigin
	return resp
}
