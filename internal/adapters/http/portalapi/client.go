// Package portalapi is the typed client for the recruitment portal REST backend.
package portalapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/okian/recruitportal/pkg/logger"
	"golang.org/x/net/publicsuffix"
)

const (
	defaultTimeout = 15 * time.Second
	// maxBodyBytes bounds how much of a response is read.
	maxBodyBytes = 8 << 20
)

// Client talks to the portal backend. It is safe for concurrent use.
type Client struct {
	base    *url.URL
	http    *http.Client
	csrf    CSRFSource
	log     logger.Logger
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds every call. It replaces an indefinitely pending request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying http.Client. Its transport is wrapped
// with instrumentation; a nil jar is replaced with a fresh one.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithCSRF sets the token source for mutating requests.
func WithCSRF(src CSRFSource) Option {
	return func(c *Client) {
		c.csrf = src
	}
}

// WithLogger sets the client logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a Client for baseURL. The default CSRF source is the csrf cookie.
func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, WrapKind("portalapi.New", ErrValidation, fmt.Errorf("invalid base url %q: %w", baseURL, err))
	}
	c := &Client{
		base:    base,
		http:    &http.Client{},
		log:     logger.Nop(),
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	hc := *c.http
	if hc.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, WrapKind("portalapi.New", ErrTransport, err)
		}
		hc.Jar = jar
	}
	hc.Transport = newInstrumentedTransport(hc.Transport)
	c.http = &hc

	if c.csrf == nil {
		c.csrf = CookieToken{Jar: hc.Jar, Base: c.base}
	} else {
		c.csrf = FirstToken{c.csrf, CookieToken{Jar: hc.Jar, Base: c.base}}
	}
	return c, nil
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() *url.URL {
	u := *c.base
	return &u
}

// Jar returns the cookie jar carrying the backend session.
func (c *Client) Jar() http.CookieJar {
	return c.http.Jar
}

// envelope is the part of every reply the client relies on.
type envelope struct {
	OK      *bool  `json:"ok"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// call describes a single backend request.
type call struct {
	op       string
	method   string
	endpoint string // route template used as the metrics label
	path     string
	query    url.Values
	body     io.Reader
	ctype    string
	mutating bool
}

// do performs the call and decodes the reply into out (which may be nil).
func (c *Client) do(ctx context.Context, cl call, out any) error {
	ctx, cancel := context.WithTimeout(withEndpoint(ctx, cl.endpoint), c.timeout)
	defer cancel()

	u := c.base.JoinPath(cl.path)
	if len(cl.query) > 0 {
		u.RawQuery = cl.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, u.String(), cl.body)
	if err != nil {
		return WrapKind(cl.op, ErrTransport, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if cl.ctype != "" {
		req.Header.Set("Content-Type", cl.ctype)
	}
	if cl.mutating {
		if tok := c.csrf.Token(); tok != "" {
			req.Header.Set(CSRFHeader, tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.log.Warn(ctx, "backend request timed out",
				logger.String("op", cl.op), logger.Duration("timeout", c.timeout))
		}
		return WrapKind(cl.op, ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return WrapKind(cl.op, ErrTransport, fmt.Errorf("read response: %w", err))
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return WrapKind(cl.op, ErrTransport, fmt.Errorf("unexpected status %d", resp.StatusCode))
		}
		return WrapKind(cl.op, ErrTransport, fmt.Errorf("decode response: %w", err))
	}
	if env.OK == nil || !*env.OK {
		c.log.Debug(ctx, "backend rejected request",
			logger.String("op", cl.op), logger.Int("status", resp.StatusCode), logger.String("error", env.Error))
		return serverError(cl.op, env.Error)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return WrapKind(cl.op, ErrTransport, fmt.Errorf("decode payload: %w", err))
	}
	return nil
}

// formFile is an optional file part of a multipart body.
type formFile struct {
	field string
	name  string
	r     io.Reader
}

// multipartBody encodes fields in order, then the file when present.
func multipartBody(fields [][2]string, file *formFile) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}
	if file != nil {
		part, err := w.CreateFormFile(file.field, file.name)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, file.r); err != nil {
			return nil, "", fmt.Errorf("copy %s: %w", file.name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// postForm sends a multipart POST, the encoding the backend's form handlers expect.
func (c *Client) postForm(ctx context.Context, op, path string, fields [][2]string, file *formFile, out any) error {
	body, ctype, err := multipartBody(fields, file)
	if err != nil {
		return WrapKind(op, ErrTransport, fmt.Errorf("encode form: %w", err))
	}
	return c.do(ctx, call{
		op:       op,
		method:   http.MethodPost,
		endpoint: path,
		path:     path,
		body:     body,
		ctype:    ctype,
		mutating: true,
	}, out)
}

func (c *Client) get(ctx context.Context, op, endpoint, path string, query url.Values, out any) error {
	return c.do(ctx, call{
		op:       op,
		method:   http.MethodGet,
		endpoint: endpoint,
		path:     path,
		query:    query,
	}, out)
}
