// Package index implements the package index upload client, speaking the
// legacy upload API (multipart form, basic auth).
package index

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tagship/pkg/domain/model"
	"github.com/m-mizutani/tagship/pkg/domain/types"
)

// DefaultUploadURL is the legacy upload endpoint of the public index
const DefaultUploadURL = "https://upload.pypi.org/legacy/"

// Client uploads source distributions to a package index
type Client struct {
	uploadURL  string
	httpClient *http.Client
	userAgent  string
	username   string
	password   string
}

// Option is a functional option for Client configuration
type Option func(*Client)

// WithUploadURL sets the upload endpoint
func WithUploadURL(url string) Option {
	return func(c *Client) {
		c.uploadURL = url
	}
}

// WithHTTPClient sets the HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithCredentials sets the basic auth credential pair
func WithCredentials(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// New creates an index client
func New(opts ...Option) *Client {
	c := &Client{
		uploadURL:  DefaultUploadURL,
		httpClient: http.DefaultClient,
		userAgent:  "tagship/" + types.Version,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Upload sends the distribution archive to the index. Both credentials
// must be present; a missing secret fails here before any request is
// made. Remote rejections (duplicate version, bad credentials) pass
// through as errors with the response attached.
func (c *Client) Upload(ctx context.Context, dist *model.Distribution) error {
	if c.username == "" || c.password == "" {
		return goerr.New("index credentials are not configured",
			goerr.T(types.ErrTagPublish),
			goerr.V("username_set", c.username != ""),
			goerr.V("password_set", c.password != ""))
	}

	f, err := os.Open(dist.Path)
	if err != nil {
		return goerr.Wrap(err, "failed to open distribution archive",
			goerr.T(types.ErrTagPublish), goerr.V("path", dist.Path))
	}
	defer f.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	fields := map[string]string{
		":action":          "file_upload",
		"protocol_version": "1",
		"metadata_version": "2.1",
		"name":             dist.Name,
		"version":          dist.Version,
		"filetype":         "sdist",
		"pyversion":        "source",
		"md5_digest":       dist.MD5Digest,
		"sha256_digest":    dist.SHA256Digest,
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return goerr.Wrap(err, "failed to write form field",
				goerr.T(types.ErrTagPublish), goerr.V("field", name))
		}
	}

	part, err := writer.CreateFormFile("content", dist.Filename)
	if err != nil {
		return goerr.Wrap(err, "failed to create form file", goerr.T(types.ErrTagPublish))
	}
	if _, err := io.Copy(part, f); err != nil {
		return goerr.Wrap(err, "failed to copy archive into request",
			goerr.T(types.ErrTagPublish), goerr.V("path", dist.Path))
	}
	if err := writer.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize multipart body", goerr.T(types.ErrTagPublish))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, &body)
	if err != nil {
		return goerr.Wrap(err, "failed to create upload request",
			goerr.T(types.ErrTagPublish), goerr.V("url", c.uploadURL))
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("User-Agent", c.userAgent)
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to send upload request",
			goerr.T(types.ErrTagPublish), goerr.V("url", c.uploadURL))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	return c.responseError(resp, dist)
}

// responseError maps a rejection to an error preserving the remote
// diagnostic. The index rejects an already-published file with 400 (or
// 409 on some implementations); there is no overwrite.
func (c *Client) responseError(resp *http.Response, dist *model.Distribution) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	detail := strings.TrimSpace(string(raw))

	values := []goerr.Option{
		goerr.T(types.ErrTagPublish),
		goerr.V("status", resp.StatusCode),
		goerr.V("response", detail),
		goerr.V("name", dist.Name),
		goerr.V("version", dist.Version),
	}

	switch {
	case resp.StatusCode == http.StatusConflict,
		resp.StatusCode == http.StatusBadRequest && strings.Contains(strings.ToLower(detail), "already exist"):
		values = append(values, goerr.T(types.ErrTagDuplicate))
		return goerr.New("index already has this file", values...)

	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return goerr.New("index rejected credentials", values...)

	default:
		return goerr.New("index rejected upload", values...)
	}
}
