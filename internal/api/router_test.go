package api

import (
	"context"
	"encoding/json"
	"testing"

	"brucesays-backend/internal/domain"
	"brucesays-backend/internal/repository"
	"brucesays-backend/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) (*Router, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	read := NewReadHandler(store, repository.DefaultLimit)
	write := NewWriteHandler(store, domain.NewULIDGenerator(), nil, nil)
	return NewRouter(read, write, "*", zap.NewNop()), store
}

func v2Event(method, path string) Event {
	e := Event{RawPath: path}
	e.RequestContext.HTTP.Method = method
	e.RequestContext.HTTP.Path = path
	return e
}

func restEvent(method, path string) Event {
	return Event{HTTPMethod: method, Path: path}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name       string
		event      Event
		wantMethod string
		wantPath   string
	}{
		{name: "v2 envelope", event: v2Event("GET", "/quotes"), wantMethod: "GET", wantPath: "/quotes"},
		{name: "rest envelope", event: restEvent("POST", "/quotes"), wantMethod: "POST", wantPath: "/quotes"},
		{name: "defaults", event: Event{}, wantMethod: "GET", wantPath: "/"},
		{name: "lowercase method upcased", event: restEvent("get", "/quotes"), wantMethod: "GET", wantPath: "/quotes"},
		{name: "repeated slashes collapsed", event: restEvent("GET", "//quotes///"), wantMethod: "GET", wantPath: "/quotes"},
		{name: "trailing slash stripped", event: restEvent("GET", "/quotes/"), wantMethod: "GET", wantPath: "/quotes"},
		{name: "root keeps its slash", event: restEvent("GET", "///"), wantMethod: "GET", wantPath: "/"},
		{name: "rawPath wins over legacy path", event: Event{RawPath: "/quotes", Path: "/other", HTTPMethod: "GET"}, wantMethod: "GET", wantPath: "/quotes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method, path := normalize(tt.event)
			assert.Equal(t, tt.wantMethod, method)
			assert.Equal(t, tt.wantPath, path)
		})
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, event := range []Event{
		v2Event("GET", "/nope"),
		v2Event("DELETE", "/quotes"),
		restEvent("PUT", "/"),
		restEvent("GET", "/quotes/123"),
	} {
		resp, err := router.Route(context.Background(), event)
		require.NoError(t, err)
		assert.Equal(t, 404, resp.StatusCode)
		assert.JSONEq(t, `{"error":"Not found"}`, resp.Body)
	}
}

func TestRouter_Preflight(t *testing.T) {
	router, _ := newTestRouter(t)

	resp, err := router.Route(context.Background(), v2Event("OPTIONS", "/quotes"))
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)
	assert.Empty(t, resp.Body)
	assert.Equal(t, "*", resp.Headers["access-control-allow-origin"])
	assert.Equal(t, "GET,POST,OPTIONS", resp.Headers["access-control-allow-methods"])
	assert.Equal(t, "content-type", resp.Headers["access-control-allow-headers"])

	// Preflight answers on any path.
	resp, err = router.Route(context.Background(), v2Event("OPTIONS", "/anything"))
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)
}

func TestRouter_ResponseHeaders(t *testing.T) {
	router, _ := newTestRouter(t)

	resp, err := router.Route(context.Background(), v2Event("GET", "/quotes"))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Headers["content-type"])
	assert.Equal(t, "no-store", resp.Headers["cache-control"])
	assert.Equal(t, "*", resp.Headers["access-control-allow-origin"])
}

func TestRouter_RoundTrip(t *testing.T) {
	router, _ := newTestRouter(t)

	post := v2Event("POST", "/quotes")
	post.Body = `{"quote":"A round trip quote"}`
	resp, err := router.Route(context.Background(), post)
	require.NoError(t, err)
	require.Equal(t, 201, resp.StatusCode)

	var created CreateQuoteResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &created))
	assert.NotEmpty(t, created.CreatedAt)

	get := v2Event("GET", "/quotes")
	resp, err = router.Route(context.Background(), get)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var page PageResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, "A round trip quote", page.Items[0].Quote)
	assert.Equal(t, created.CreatedAt, page.Items[0].CreatedAt)
	assert.Nil(t, page.Cursor)
}
