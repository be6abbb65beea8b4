package spotler

import "context"

// API defines the operations of the Spotler client facade
type API interface {
	// Execute sends one request and normalizes the response
	Execute(ctx context.Context, endpoint, method string, data any) (*Result, error)

	// LastResponseCode returns the status code of the most recent response
	LastResponseCode() int

	// LastResponseBody returns the raw body of the most recent response
	LastResponseBody() string

	Contact() *ContactService
	Campaign() *CampaignService
	CampaignMailing() *CampaignMailingService
}

var _ API = (*Client)(nil)

// executor is the back-reference resource services use to issue calls.
type executor interface {
	Execute(ctx context.Context, endpoint, method string, data any) (*Result, error)
}
