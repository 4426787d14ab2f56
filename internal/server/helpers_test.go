package server

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"castboard/internal/content"
	"castboard/internal/models"
	"castboard/internal/registry"
	"castboard/internal/store"
)

type testEnv struct {
	srv     *Server
	store   *store.Store
	screens *registry.ScreenRegistry
	admins  *registry.AdminRegistry
}

func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()
	s, err := store.New(t.TempDir())
	require.NoError(t, err)

	screens := registry.NewScreenRegistry()
	admins := registry.NewAdminRegistry()
	opts = append([]Option{WithContentProvider(content.New(s))}, opts...)

	return &testEnv{
		srv:     NewServer(s, screens, admins, opts...),
		store:   s,
		screens: screens,
		admins:  admins,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.srv.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

type testChannel struct {
	mu        sync.Mutex
	transport registry.Transport
	sent      [][]byte
	failWith  error
}

func newTestChannel(transport registry.Transport) *testChannel {
	return &testChannel{transport: transport}
}

func (c *testChannel) Send(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWith != nil {
		return c.failWith
	}
	c.sent = append(c.sent, payload)
	return nil
}

func (c *testChannel) Transport() registry.Transport { return c.transport }
func (c *testChannel) Close()                        {}

func (c *testChannel) lastPayload() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.sent) == 0 {
		return nil
	}
	return c.sent[len(c.sent)-1]
}

func seedScreen(t *testing.T, e *testEnv, screen models.Screen) {
	t.Helper()
	require.NoError(t, e.store.UpsertScreen(screen))
}
