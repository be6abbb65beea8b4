package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dghubble/oauth1"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultTimeout   = 30 * time.Second
	HeaderXRequestID = "X-Request-ID"
	ContentTypeJSON  = "application/json"
)

var (
	ErrRequestFailed     = errors.New("http: request failed")
	ErrUnsupportedMethod = errors.New("http: unsupported method")
)

// Credentials are the OAuth 1.0a consumer key and secret issued by Spotler.
type Credentials struct {
	ConsumerKey    string
	ConsumerSecret string
}

type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	// HTTPClient is the base client whose transport carries the signed requests.
	HTTPClient *http.Client
}

// Client performs one signed request per Send call. It keeps no state
// between calls.
type Client struct {
	resty  *resty.Client
	logger *zap.Logger
}

// Response is the raw outcome of a completed HTTP exchange.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	RequestID  string
}

func NewClient(creds Credentials, opts Options) *Client {
	return NewClientWithLogger(creds, opts, zap.NewNop())
}

// NewClientWithLogger creates a new HTTP client with a custom logger
func NewClientWithLogger(creds Credentials, opts Options, logger *zap.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	// Spotler uses two-legged OAuth: consumer credentials only, empty token.
	ctx := context.Background()
	if opts.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth1.HTTPClient, opts.HTTPClient)
	}
	signed := oauth1.NewConfig(creds.ConsumerKey, creds.ConsumerSecret).Client(ctx, oauth1.NewToken("", ""))

	rc := resty.NewWithClient(signed).
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", ContentTypeJSON).
		SetLogger(logger.Sugar())

	if opts.UserAgent != "" {
		rc.SetHeader("User-Agent", opts.UserAgent)
	}

	return &Client{
		resty:  rc,
		logger: logger,
	}
}

// Send issues a single request against endpoint, resolved relative to the
// base URL. Non-2xx statuses are not errors here; only failures that prevent
// a response from being received are.
func (c *Client) Send(ctx context.Context, endpoint, method string, body any) (*Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	method = strings.ToUpper(method)
	if method == "" {
		method = http.MethodGet
	}
	if !supported(method) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMethod, method)
	}

	requestID := uuid.NewString()

	req := c.resty.R().
		SetContext(ctx).
		SetHeader(HeaderXRequestID, requestID)

	if body != nil {
		req.SetHeader("Content-Type", ContentTypeJSON).SetBody(body)
	}

	c.logger.Debug("Making HTTP request",
		zap.String("method", method),
		zap.String("endpoint", endpoint),
		zap.String("request_id", requestID))

	resp, err := req.Execute(method, endpoint)
	if err != nil {
		c.logger.Error("HTTP request failed",
			zap.Error(err),
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.String("request_id", requestID))
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}

	c.logger.Debug("HTTP request completed",
		zap.Int("status_code", resp.StatusCode()),
		zap.String("method", method),
		zap.String("endpoint", endpoint),
		zap.String("request_id", requestID),
		zap.Duration("elapsed", resp.Time()))

	return &Response{
		StatusCode: resp.StatusCode(),
		Headers:    resp.Header(),
		Body:       resp.Body(),
		RequestID:  requestID,
	}, nil
}

func supported(method string) bool {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
		return true
	default:
		return false
	}
}
