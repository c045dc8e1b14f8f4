package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockServer builds an httptest.Server that verifies the request it gets
// and answers with a canned response.
type mockServer struct {
	t          *testing.T
	handler    http.HandlerFunc
	expectPath string
	expectMeth string
	expectBody map[string]any
	query      map[string]string
}

func newMockServer(t *testing.T) *mockServer {
	t.Helper()
	return &mockServer{t: t, query: map[string]string{}}
}

func (m *mockServer) ExpectPath(path string) *mockServer {
	m.expectPath = path
	return m
}

func (m *mockServer) ExpectMethod(method string) *mockServer {
	m.expectMeth = method
	return m
}

func (m *mockServer) ExpectGET() *mockServer    { return m.ExpectMethod(http.MethodGet) }
func (m *mockServer) ExpectPOST() *mockServer   { return m.ExpectMethod(http.MethodPost) }
func (m *mockServer) ExpectPUT() *mockServer    { return m.ExpectMethod(http.MethodPut) }
func (m *mockServer) ExpectDELETE() *mockServer { return m.ExpectMethod(http.MethodDelete) }

// ExpectQuery checks one query parameter.
func (m *mockServer) ExpectQuery(name, value string) *mockServer {
	m.query[name] = value
	return m
}

// ExpectBody checks the decoded JSON request body.
func (m *mockServer) ExpectBody(body map[string]any) *mockServer {
	m.expectBody = body
	return m
}

func (m *mockServer) RespondJSON(v any) *mockServer {
	return m.RespondStatusJSON(http.StatusOK, v)
}

func (m *mockServer) RespondStatusJSON(code int, v any) *mockServer {
	m.handler = func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		require.NoError(m.t, json.NewEncoder(w).Encode(v))
	}
	return m
}

func (m *mockServer) RespondStatus(code int) *mockServer {
	m.handler = func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(code)
	}
	return m
}

// Handler replaces the canned response with h.
func (m *mockServer) Handler(h http.HandlerFunc) *mockServer {
	m.handler = h
	return m
}

// RespondAPIError answers with the server's error envelope.
func (m *mockServer) RespondAPIError(code int, errCode, message string) *mockServer {
	return m.RespondStatusJSON(code, map[string]string{"error": message, "code": errCode})
}

// Build starts the server; it is closed when the test ends.
func (m *mockServer) Build() *httptest.Server {
	m.t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.expectPath != "" {
			assert.Equal(m.t, m.expectPath, r.URL.Path, "unexpected request path")
		}
		if m.expectMeth != "" {
			assert.Equal(m.t, m.expectMeth, r.Method, "unexpected request method")
		}
		for name, want := range m.query {
			assert.Equal(m.t, want, r.URL.Query().Get(name), "query parameter %s", name)
		}
		if m.expectBody != nil {
			data, err := io.ReadAll(r.Body)
			require.NoError(m.t, err)
			var got map[string]any
			require.NoError(m.t, json.Unmarshal(data, &got))
			assert.Equal(m.t, m.expectBody, got)
		}
		if m.handler != nil {
			m.handler(w, r)
		}
	}))
	m.t.Cleanup(srv.Close)
	return srv
}

// runCommand executes the root command against url and returns its output.
func runCommand(t *testing.T, url string, args ...string) (string, error) {
	t.Helper()
	old := serverURL
	t.Cleanup(func() {
		serverURL = old
		jsonOutput = false
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append([]string{"--server", url}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}
