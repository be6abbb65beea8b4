// Package spotler provides a client for the Spotler (formerly MailPlus) marketing
// automation REST API.
//
// Spotler exposes contacts, campaigns and campaign mailings over a JSON REST
// interface authenticated with two-legged OAuth 1.0a. The remote service answers
// in several shapes: documents, empty 204 bodies, HTML error pages and JSON error
// objects. This package folds all of them into one contract:
//
//   - a *Result for success-shaped responses, whose Kind tells a parsed document
//     apart from a no-content success and from an unparseable 2xx body
//   - a *Error for everything else, whose Kind is NotFound, System, API or
//     Transport
//
// Every call goes through Client.Execute. The Contact, Campaign and
// CampaignMailing services only assemble endpoints and payloads.
package spotler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/natserract/spotler/pkg/config"
	httpclient "github.com/natserract/spotler/pkg/http"
	"github.com/natserract/spotler/pkg/logger"
	"go.uber.org/zap"
)

var (
	errMissingCredentials = errors.New("spotler: consumer key and secret are required")
	errNoResponse         = errors.New("spotler: transport returned no response")
)

// Transport performs one HTTP exchange per Send call.
type Transport interface {
	Send(ctx context.Context, endpoint, method string, body any) (*httpclient.Response, error)
}

var _ Transport = (*httpclient.Client)(nil)

// Credentials are the consumer key and secret issued by Spotler.
type Credentials struct {
	Key    string
	Secret string
}

// Client is the entry point for the Spotler API. It records the status code
// and body of the latest response; those accessors are last-write-wins, so use
// one Client per logical caller when issuing requests concurrently.
type Client struct {
	credentials Credentials
	transport   Transport
	logger      *zap.Logger

	mu             sync.RWMutex
	lastStatusCode int
	lastBody       []byte

	contact         *ContactService
	campaign        *CampaignService
	campaignMailing *CampaignMailingService
}

type clientOptions struct {
	logger     *zap.Logger
	transport  Transport
	baseURL    string
	timeout    time.Duration
	userAgent  string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*clientOptions)

// WithLogger sets the logger used by the client and its transport.
func WithLogger(logger *zap.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// WithTransport replaces the default signed HTTP transport.
func WithTransport(t Transport) Option {
	return func(o *clientOptions) {
		o.transport = t
	}
}

// WithBaseURL overrides the Spotler REST endpoint.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		o.baseURL = baseURL
	}
}

// WithTimeout bounds each request, including reading the response.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header on every request.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		o.userAgent = userAgent
	}
}

// WithHTTPClient sets the base client underneath the OAuth signing transport.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = httpClient
	}
}

// New creates a client for the given credentials.
func New(creds Credentials, opts ...Option) (*Client, error) {
	if creds.Key == "" || creds.Secret == "" {
		return nil, errMissingCredentials
	}

	o := &clientOptions{
		logger:    zap.NewNop(),
		baseURL:   config.DefaultBaseURL,
		timeout:   config.DefaultTimeout,
		userAgent: config.DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.transport == nil {
		o.transport = httpclient.NewClientWithLogger(
			httpclient.Credentials{ConsumerKey: creds.Key, ConsumerSecret: creds.Secret},
			httpclient.Options{
				BaseURL:    o.baseURL,
				Timeout:    o.timeout,
				UserAgent:  o.userAgent,
				HTTPClient: o.httpClient,
			},
			o.logger,
		)
	}

	c := &Client{
		credentials: creds,
		transport:   o.transport,
		logger:      o.logger,
	}
	c.contact = newContactService(c)
	c.campaign = newCampaignService(c)
	c.campaignMailing = newCampaignMailingService(c)

	return c, nil
}

// NewFromConfig creates a client from loaded configuration, with a zap logger
// at the configured level.
func NewFromConfig(cfg *config.Config) (*Client, error) {
	return New(
		Credentials{Key: cfg.ConsumerKey, Secret: cfg.ConsumerSecret},
		WithBaseURL(cfg.BaseURL),
		WithTimeout(cfg.Timeout),
		WithUserAgent(cfg.UserAgent),
		WithLogger(logger.New(cfg.LogLevel)),
	)
}

// Execute sends one request and normalizes the response. An empty method
// means GET. On success the Result is a parsed document, a no-content true,
// or a soft-failure false; everything else is a *Error.
func (c *Client) Execute(ctx context.Context, endpoint, method string, data any) (*Result, error) {
	if method == "" {
		method = http.MethodGet
	}

	resp, err := c.transport.Send(ctx, endpoint, method, data)
	if err == nil && resp == nil {
		err = errNoResponse
	}
	if err != nil {
		c.logger.Error("Spotler request failed",
			zap.Error(err),
			zap.String("method", method),
			zap.String("endpoint", endpoint))
		return nil, wrapTransportError(endpoint, err)
	}

	c.record(resp.StatusCode, resp.Body)

	result, err := Normalize(endpoint, resp.StatusCode, resp.Body)
	if err != nil {
		c.logger.Warn("Spotler returned an error response",
			zap.Error(err),
			zap.Int("status_code", resp.StatusCode),
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.String("request_id", resp.RequestID))
		return nil, err
	}

	if result.Kind == ResultUnparseable {
		c.logger.Warn("Spotler response body is not valid JSON",
			zap.Int("status_code", resp.StatusCode),
			zap.String("endpoint", endpoint),
			zap.String("content_type", resp.Headers.Get("Content-Type")),
			zap.Int("body_bytes", len(resp.Body)))
	}

	return result, nil
}

func (c *Client) record(statusCode int, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastStatusCode = statusCode
	c.lastBody = bytes.Clone(body)
}

// LastResponseCode returns the status code of the most recent response, or
// 0 before any response has been received.
func (c *Client) LastResponseCode() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.lastStatusCode
}

func (c *Client) LastResponseBody() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return string(c.lastBody)
}

func (c *Client) Contact() *ContactService {
	return c.contact
}

func (c *Client) Campaign() *CampaignService {
	return c.campaign
}

func (c *Client) CampaignMailing() *CampaignMailingService {
	return c.campaignMailing
}
