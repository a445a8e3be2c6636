// Package mlservice talks to the external ML task services: the text service
// that writes bios and the images service that trains persona adapters and
// renders pictures.
package mlservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/publication-admin/internal/domain"
)

const (
	DefaultTimeout        = 60 * time.Second
	DefaultConnectTimeout = 5 * time.Second

	// maxResponseSize caps how much of a response body is read and logged.
	maxResponseSize = 1 << 20
)

// Call outcomes reported to the Observer.
const (
	OutcomeOK        = "ok"
	OutcomeTransport = "transport_error"
	OutcomeStatus    = "bad_status"
	OutcomeDecode    = "decode_error"
)

// ServiceError is any failure of an external ML call. StatusCode is zero
// when the request never got a response.
type ServiceError struct {
	Service    string
	Method     string
	Path       string
	StatusCode int
	Body       string
	Err        error
}

func (e *ServiceError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s", e.Service, e.Method, e.Path)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": status %d", e.StatusCode)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ServiceError) Unwrap() error { return e.Err }

func (e *ServiceError) Is(target error) bool { return target == domain.ErrServiceUnavailable }

// Observer receives the outcome and latency of every call.
type Observer interface {
	ObserveMLCall(service, path, outcome string, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveMLCall(string, string, string, time.Duration) {}

// Options tunes the underlying HTTP client.
type Options struct {
	Timeout        time.Duration
	ConnectTimeout time.Duration
}

// Request is one call relative to the client's base URL.
type Request struct {
	Method string
	Path   string
	Body   any
	Query  url.Values
}

// Client is a JSON-over-HTTP client bound to one service base URL.
type Client struct {
	name       string
	baseURL    string
	httpClient *http.Client
	observer   Observer
	logger     *slog.Logger
}

// NewClient creates a Client. A nil observer disables metrics.
func NewClient(name, baseURL string, opts Options, observer Observer) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = DefaultConnectTimeout
	}
	if observer == nil {
		observer = nopObserver{}
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: opts.ConnectTimeout}).DialContext

	return &Client{
		name:       name,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: opts.Timeout, Transport: transport},
		observer:   observer,
		logger:     slog.Default().With("component", "mlservice", "service", name),
	}
}

// Do sends req and decodes a 2xx JSON response into out (which may be nil).
// Every failure is returned as *ServiceError.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	start := time.Now()
	outcome, err := c.do(ctx, req, out)
	c.observer.ObserveMLCall(c.name, req.Path, outcome, time.Since(start))
	return err
}

func (c *Client) do(ctx context.Context, req Request, out any) (string, error) {
	fail := func(outcome string, status int, body string, err error) (string, error) {
		return outcome, &ServiceError{
			Service: c.name, Method: req.Method, Path: req.Path,
			StatusCode: status, Body: body, Err: err,
		}
	}

	reqURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		reqURL += "?" + req.Query.Encode()
	}

	var payload []byte
	var body io.Reader
	if req.Body != nil {
		var err error
		payload, err = json.Marshal(req.Body)
		if err != nil {
			return fail(OutcomeTransport, 0, "", fmt.Errorf("encode request: %w", err))
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, reqURL, body)
	if err != nil {
		return fail(OutcomeTransport, 0, "", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	c.logger.Info("ml request",
		slog.String("method", req.Method),
		slog.String("path", req.Path),
		slog.String("payload", string(payload)),
		slog.String("query", req.Query.Encode()),
	)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("ml request failed",
			slog.String("method", req.Method),
			slog.String("path", req.Path),
			slog.String("error", err.Error()),
		)
		return fail(OutcomeTransport, 0, "", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fail(OutcomeTransport, resp.StatusCode, "", fmt.Errorf("read response: %w", err))
	}

	c.logger.Info("ml response",
		slog.String("method", req.Method),
		slog.String("path", req.Path),
		slog.Int("http_status", resp.StatusCode),
		slog.String("response", string(raw)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("ml non-2xx response",
			slog.String("method", req.Method),
			slog.String("path", req.Path),
			slog.Int("http_status", resp.StatusCode),
		)
		return fail(OutcomeStatus, resp.StatusCode, string(raw), errors.New(http.StatusText(resp.StatusCode)))
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fail(OutcomeDecode, resp.StatusCode, string(raw), fmt.Errorf("decode response: %w", err))
		}
	}
	return OutcomeOK, nil
}
