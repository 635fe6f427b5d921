package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"layerlabs.io/support-chat/internal/catalog"
	"layerlabs.io/support-chat/internal/core"
	"layerlabs.io/support-chat/internal/intent"
	"layerlabs.io/support-chat/internal/store"
)

// countingGenerator serves both the classifier and the composer.
type countingGenerator struct {
	jsonReply string
	textReply string
	err       error
	calls     int
}

func (g *countingGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.calls++
	return g.textReply, g.err
}

func (g *countingGenerator) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	g.calls++
	return g.jsonReply, g.err
}

type memoryRecorder struct {
	items []store.Interaction
	err   error
}

func (m *memoryRecorder) RecordInteraction(ctx context.Context, it *store.Interaction) error {
	m.items = append(m.items, *it)
	return m.err
}

type testServer struct {
	handler      http.Handler
	gen          *countingGenerator
	shopifyCalls int
	recorder     *memoryRecorder
}

// newTestServer builds the full stack against a mocked Shopify store.
func newTestServer(t *testing.T, gen *countingGenerator, shopify http.HandlerFunc) *testServer {
	t.Helper()
	logger := zaptest.NewLogger(t)
	ts := &testServer{gen: gen, recorder: &memoryRecorder{}}

	shop := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.shopifyCalls++
		shopify(w, r)
	}))
	t.Cleanup(shop.Close)

	cat := catalog.NewClient(catalog.Options{
		StoreURL:    shop.URL,
		AccessToken: "shpat_test",
		APIVersion:  "2025-07",
		Timeout:     2 * time.Second,
	}, logger)
	classifier := intent.NewClassifier(gen, logger)
	composer := core.NewComposer(cat, gen, core.ComposerOptions{StoreURL: shop.URL}, logger)
	chat := core.NewChatService(classifier, composer, logger)

	ts.handler = NewRouter(NewAPIHandler(chat, ts.recorder, logger), logger)
	return ts
}

func (ts *testServer) post(t *testing.T, body string) (*httptest.ResponseRecorder, map[string]string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec, out
}

func unexpectedShopify(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected catalog call: %s %s", r.Method, r.URL.Path)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func TestChatHandler_BadRequests(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "empty message", body: `{"message": ""}`, wantErr: "No message provided"},
		{name: "whitespace message", body: `{"message": "   "}`, wantErr: "No message provided"},
		{name: "missing message", body: `{}`, wantErr: "No message provided"},
		{name: "malformed json", body: `{"message": `, wantErr: "Invalid request body"},
		{name: "wrong type", body: `{"message": 42}`, wantErr: "Invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &countingGenerator{}
			ts := newTestServer(t, gen, unexpectedShopify(t))

			rec, out := ts.post(t, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, out["error"], tt.wantErr)
			assert.NotContains(t, out, "reply")
			assert.Zero(t, gen.calls, "classifier must not run")
			assert.Empty(t, ts.recorder.items)
		})
	}
}

func TestChatHandler_OversizedBody(t *testing.T) {
	gen := &countingGenerator{}
	ts := newTestServer(t, gen, unexpectedShopify(t))

	body := `{"message": "` + strings.Repeat("a", maxRequestBodyBytes) + `"}`
	rec, out := ts.post(t, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, out["error"], "Invalid request body")
	assert.Zero(t, gen.calls)
}

func TestChatHandler_Greeting(t *testing.T) {
	gen := &countingGenerator{}
	ts := newTestServer(t, gen, unexpectedShopify(t))

	rec, out := ts.post(t, `{"message": "Hi", "session_id": "s-1"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, core.GreetingReply, out["reply"])
	assert.Zero(t, gen.calls)
	assert.Zero(t, ts.shopifyCalls)

	require.Len(t, ts.recorder.items, 1)
	assert.Equal(t, store.Interaction{SessionID: "s-1", Intent: "greeting", Source: "shortcut", Status: 200}, ts.recorder.items[0])
}

func TestChatHandler_CatalogUnavailable(t *testing.T) {
	gen := &countingGenerator{jsonReply: `{"intent":"order_status","entities":{"order_number":"12345"}}`}
	ts := newTestServer(t, gen, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	})

	rec, out := ts.post(t, `{"message": "Where is my order #12345?"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.True(t, strings.HasPrefix(out["error"], "Shopify API error: "), out["error"])
	assert.Contains(t, out["error"], "503")
	assert.Equal(t, 1, ts.shopifyCalls, "no retries")
	assert.Equal(t, 1, gen.calls, "no generation after the failed lookup")

	require.Len(t, ts.recorder.items, 1)
	assert.Equal(t, "order_status", ts.recorder.items[0].Intent)
	assert.Equal(t, http.StatusBadGateway, ts.recorder.items[0].Status)
}

func TestChatHandler_FallbackVerbatim(t *testing.T) {
	gen := &countingGenerator{
		jsonReply: `{"intent":"fallback","entities":{}}`,
		textReply: "We ship to most countries.\nDelivery takes 3-5 days.",
	}
	ts := newTestServer(t, gen, unexpectedShopify(t))

	rec, out := ts.post(t, `{"message": "Do you ship to Peru?"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, gen.textReply, out["reply"])
	assert.Equal(t, 2, gen.calls)
}

func TestChatHandler_GenerationFailure(t *testing.T) {
	gen := &countingGenerator{err: &core.GenerationError{Op: "generate", Err: errors.New("quota exceeded")}}
	ts := newTestServer(t, gen, unexpectedShopify(t))

	rec, out := ts.post(t, `{"message": "what is the meaning of life"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, out["error"], "quota exceeded")
}

func TestChatHandler_RecorderFailureKeepsReply(t *testing.T) {
	gen := &countingGenerator{}
	ts := newTestServer(t, gen, unexpectedShopify(t))
	ts.recorder.err = errors.New("disk full")

	rec, out := ts.post(t, `{"message": "hello"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, core.GreetingReply, out["reply"])
}

func TestRouter_StaticRoutes(t *testing.T) {
	ts := newTestServer(t, &countingGenerator{}, unexpectedShopify(t))

	tests := []struct {
		path        string
		contentType string
		contains    string
	}{
		{path: "/", contentType: "text/html; charset=utf-8", contains: "LayerLabs Support"},
		{path: "/health", contentType: "application/json", contains: `"status":"ok"`},
		{path: "/metrics", contains: "chat_requests_total"},
	}

	// populate the chat counter so it shows up in the exposition
	ts.post(t, `{"message": "hey"}`)

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			ts.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			if tt.contentType != "" {
				assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
			}
			assert.Contains(t, rec.Body.String(), tt.contains)
		})
	}
}
