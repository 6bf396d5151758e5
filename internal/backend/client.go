// Package backend is the HTTP client for the hybrid query engine.
//
// The engine exposes three JSON endpoints: connect-database, upload-documents
// and query. Everything the UI knows about SQL generation, schema discovery
// and document retrieval arrives through them.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

// Endpoint paths, relative to the backend base URL.
const (
	PathConnectDatabase = "/api/connect-database"
	PathUploadDocuments = "/api/upload-documents"
	PathQuery           = "/api/query"
)

// Operation names used in errors and logs.
const (
	OpConnectDatabase = "connect-database"
	OpUploadDocuments = "upload-documents"
	OpQuery           = "query"
)

// UploadField is the multipart field every uploaded file is sent under.
const UploadField = "files"

const maxResponseBytes = 32 << 20

// Config holds configuration for the backend client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration // zero keeps the transport default
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client talks to the backend. It is safe for concurrent use.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *slog.Logger
}

// New creates a client for the backend at cfg.BaseURL.
func New(cfg Config) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("invalid backend url %q: %w", cfg.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid backend url %q: scheme must be http or https", cfg.BaseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid backend url %q: missing host", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		baseURL: u,
		http:    httpClient,
		logger:  logger,
	}, nil
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ConnectDatabase asks the backend to connect to a datastore and returns
// the discovered schema.
func (c *Client) ConnectDatabase(ctx context.Context, connectionString string) (*Schema, error) {
	body := struct {
		ConnectionString string `json:"connection_string"`
	}{connectionString}

	var out struct {
		Schema *Schema `json:"schema"`
	}
	if err := c.postJSON(ctx, OpConnectDatabase, PathConnectDatabase, body, &out); err != nil {
		return nil, err
	}
	if out.Schema == nil {
		return &Schema{}, nil
	}
	return out.Schema, nil
}

// UploadDocuments sends files as one multipart batch. Parts are streamed,
// so files are opened one at a time while the request is in flight.
func (c *Client) UploadDocuments(ctx context.Context, files []File) (*UploadResult, error) {
	if len(files) == 0 {
		return nil, &Error{Op: OpUploadDocuments, Err: ErrNoFiles}
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		_ = pw.CloseWithError(writeParts(mw, files))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(PathUploadDocuments), pr)
	if err != nil {
		_ = pr.Close()
		return nil, &Error{Op: OpUploadDocuments, Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	var out UploadResult
	if err := c.do(OpUploadDocuments, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Query submits a natural-language question. A nil result with a nil
// error means the backend answered without a results payload.
func (c *Client) Query(ctx context.Context, q QueryRequest) (*QueryResult, error) {
	var out struct {
		Results *QueryResult `json:"results"`
	}
	if err := c.postJSON(ctx, OpQuery, PathQuery, q, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

func (c *Client) endpoint(path string) string {
	return c.baseURL.JoinPath(path).String()
}

func (c *Client) postJSON(ctx context.Context, op, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &Error{Op: op, Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), bytes.NewReader(payload))
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.do(op, req, out)
}

func (c *Client) do(op string, req *http.Request, out any) error {
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("backend call failed", "op", op, "error", err, "duration", time.Since(start))
		return &Error{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &Error{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	c.logger.Debug("backend call", "op", op, "status", resp.StatusCode, "bytes", len(body), "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{Op: op, StatusCode: resp.StatusCode, Detail: extractDetail(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func writeParts(mw *multipart.Writer, files []File) error {
	for _, f := range files {
		if err := writePart(mw, f); err != nil {
			return err
		}
	}
	return mw.Close()
}

func writePart(mw *multipart.Writer, f File) error {
	if f.Open == nil {
		return fmt.Errorf("file %s: no content", f.Name)
	}
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer func() { _ = rc.Close() }()

	contentType := mime.TypeByExtension(filepath.Ext(f.Name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, UploadField, quoteEscaper.Replace(f.Name)))
	h.Set("Content-Type", contentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, rc); err != nil {
		return fmt.Errorf("read %s: %w", f.Name, err)
	}
	return nil
}
