package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*************
 * Fake token store
 *************/

type fakeTokens struct {
	mu      sync.Mutex
	token   string
	setCall []string
}

func (f *fakeTokens) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeTokens) SetToken(_ context.Context, token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
	f.setCall = append(f.setCall, token)
}

func newServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

/*************
 * Base URL
 *************/

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"http://host", "http://host/api"},
		{"http://host/", "http://host/api"},
		{"http://host/api", "http://host/api"},
		{"http://host/api/", "http://host/api"},
		{" http://host/v1 ", "http://host/v1/api"},
		{"", "/api"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeBaseURL(tt.in), tt.in)
	}
}

/*************
 * Do
 *************/

func TestDo_SendsJSONAndBearer(t *testing.T) {
	var gotAuth, gotCT, gotPath, gotCustom string
	var gotBody map[string]any
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotCT = r.Header.Get("Content-Type")
		gotCustom = r.Header.Get("X-Tenant")
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		writeJSON(w, http.StatusCreated, map[string]any{"id": "1", "name": "Widget"})
	})

	c := NewHTTPClient(srv.URL, &fakeTokens{token: "T1"})
	out, err := c.Do(context.Background(), http.MethodPost, "/entities/product", map[string]any{"name": "Widget"}, map[string]string{"X-Tenant": "acme"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer T1", gotAuth)
	assert.Equal(t, "application/json", gotCT)
	assert.Equal(t, "acme", gotCustom)
	assert.Equal(t, "/api/entities/product", gotPath)
	assert.Equal(t, "Widget", gotBody["name"])
	assert.Equal(t, map[string]any{"id": "1", "name": "Widget"}, out)
}

func TestDo_NoTokenNoAuthorization(t *testing.T) {
	var hadAuth bool
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, hadAuth = r.Header["Authorization"]
		writeJSON(w, http.StatusOK, []any{})
	})

	c := NewHTTPClient(srv.URL, &fakeTokens{})
	out, err := c.Do(context.Background(), http.MethodGet, "entities/product", nil, nil)
	require.NoError(t, err)
	assert.False(t, hadAuth)
	assert.Equal(t, []any{}, out)
}

func TestDo_EmptySuccessIsEmptyObject(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	out, err := NewHTTPClient(srv.URL, nil).Do(context.Background(), http.MethodDelete, "/entities/product/1", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, out)
}

func TestDo_MalformedJSONIsAbsence(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = io.WriteString(w, "{broken")
	})

	out, err := NewHTTPClient(srv.URL, nil).Do(context.Background(), http.MethodGet, "/x", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, out)
}

func TestDo_TextBodyBecomesMessage(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, "pong")
	})

	out, err := NewHTTPClient(srv.URL, nil).Do(context.Background(), http.MethodGet, "/x", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"message": "pong"}, out)
}

func TestDo_ErrorMessages(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		status  int
		message string
	}{
		{
			name: "error field",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusBadRequest, map[string]any{"error": "bad sku", "message": "ignored"})
			},
			status:  http.StatusBadRequest,
			message: "bad sku",
		},
		{
			name: "message field",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusConflict, map[string]any{"message": "duplicate"})
			},
			status:  http.StatusConflict,
			message: "duplicate",
		},
		{
			name: "status text",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			status:  http.StatusNotFound,
			message: "Not Found",
		},
		{
			name: "plain text body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/plain")
				w.WriteHeader(http.StatusBadGateway)
				_, _ = io.WriteString(w, "upstream down")
			},
			status:  http.StatusBadGateway,
			message: "upstream down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newServer(t, tt.handler)
			_, err := NewHTTPClient(srv.URL, nil).Do(context.Background(), http.MethodGet, "/x", nil, nil)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.message, apiErr.Message)
			assert.False(t, errors.Is(err, ErrUnauthorized))
			assert.False(t, IsUnavailable(err))
		})
	}
}

func TestErrorMessage_Fallback(t *testing.T) {
	resp := &http.Response{StatusCode: 599, Status: "599"}
	assert.Equal(t, DefaultErrorMessage, errorMessage(nil, resp))
}

func TestDo_401ClearsToken(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "token expired"})
	})

	tokens := &fakeTokens{token: "stale"}
	_, err := NewHTTPClient(srv.URL, tokens).Do(context.Background(), http.MethodGet, "/entities/product", nil, nil)

	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, tokens.Token())
	assert.Equal(t, []string{""}, tokens.setCall)
}

func TestDo_NetworkFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	tokens := &fakeTokens{token: "keep"}
	_, err := NewHTTPClient(url, tokens).Do(context.Background(), http.MethodGet, "/x", nil, nil)
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, "keep", tokens.Token())
}

func TestDo_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	_, err := NewHTTPClient(srv.URL, nil, WithTimeout(50*time.Millisecond)).Do(context.Background(), http.MethodGet, "/slow", nil, nil)
	require.ErrorIs(t, err, ErrUnavailable)
}

/*************
 * Upload / Ping
 *************/

func TestUpload_Multipart(t *testing.T) {
	var fileName, partType string
	var content []byte
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		content, _ = io.ReadAll(f)
		fileName = hdr.Filename
		partType = hdr.Header.Get("Content-Type")
		writeJSON(w, http.StatusOK, map[string]any{"file_url": "https://cdn/x.png"})
	})

	out, err := NewHTTPClient(srv.URL, nil).Upload(context.Background(), "/files/upload", "file", `a"b.png`, "image/png", []byte{1, 2, 3})
	require.NoError(t, err)

	assert.Equal(t, []byte{1, 2, 3}, content)
	assert.Equal(t, `a"b.png`, fileName)
	assert.Equal(t, "image/png", partType)
	assert.Equal(t, "https://cdn/x.png", out.(map[string]any)["file_url"])
}

func TestPing(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	})

	c := NewHTTPClient(srv.URL+"/", nil)
	require.NoError(t, c.Ping(context.Background()))
	assert.Equal(t, srv.URL+"/api", c.BaseURL())
}
