package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/wmsclient/internal/logging"
)

const apiSuffix = "/api"

type HTTPClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore
	log     logging.Logger
}

type Option func(*HTTPClient)

// WithTimeout bounds every request. 0 disables the client-side timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.http.Timeout = d }
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) {
		if l != nil {
			c.log = l
		}
	}
}

// NormalizeBaseURL trims trailing slashes and makes sure the URL ends in /api.
func NormalizeBaseURL(raw string) string {
	u := strings.TrimRight(strings.TrimSpace(raw), "/")
	if strings.HasSuffix(u, apiSuffix) {
		return u
	}
	return u + apiSuffix
}

func NewHTTPClient(baseURL string, tokens TokenStore, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: NormalizeBaseURL(baseURL),
		http:    &http.Client{},
		tokens:  tokens,
		log:     logging.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	c.log = c.log.With("component", "transport")
	return c
}

func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

func (c *HTTPClient) url(path string) string {
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// Do sends a request. body may be nil, an io.Reader sent as is, or any
// JSON-serializable value. Caller headers override the JSON content type.
func (c *HTTPClient) Do(ctx context.Context, method, path string, body any, headers map[string]string) (any, error) {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case io.Reader:
		reader = b
	default:
		buf, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug(ctx, "request failed", "method", method, "path", path, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrUnavailable, err)
	}

	c.log.Debug(ctx, "request done",
		"method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	payload := decodePayload(resp.Header.Get("Content-Type"), raw)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusUnauthorized && c.tokens != nil {
			c.tokens.SetToken(ctx, "")
		}
		return nil, &APIError{
			Message: errorMessage(payload, resp),
			Status:  resp.StatusCode,
			Payload: payload,
		}
	}

	if payload == nil {
		return map[string]any{}, nil
	}
	return payload, nil
}

// Upload posts data as multipart/form-data under field.
func (c *HTTPClient) Upload(ctx context.Context, path, field, fileName, mimeType string, data []byte) (any, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		escapeQuotes(field), escapeQuotes(fileName)))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	h.Set("Content-Type", mimeType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("create form part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("write form part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close form: %w", err)
	}

	return c.Do(ctx, http.MethodPost, path, &buf, map[string]string{"Content-Type": w.FormDataContentType()})
}

// Ping checks that the backend answers its health endpoint.
func (c *HTTPClient) Ping(ctx context.Context) error {
	_, err := c.Do(ctx, http.MethodGet, "/health", nil, nil)
	return err
}

func decodePayload(contentType string, raw []byte) any {
	mt, _, _ := mime.ParseMediaType(contentType)
	if mt == "application/json" || strings.HasSuffix(mt, "+json") {
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil
		}
		return v
	}
	if text := string(raw); text != "" {
		return map[string]any{"message": text}
	}
	return nil
}

func errorMessage(payload any, resp *http.Response) string {
	if m, ok := payload.(map[string]any); ok {
		if s, ok := m["error"].(string); ok && s != "" {
			return s
		}
		if s, ok := m["message"].(string); ok && s != "" {
			return s
		}
	}
	if text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode))); text != "" {
		return text
	}
	return DefaultErrorMessage
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
