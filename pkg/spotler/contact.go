package spotler

import (
	"context"
	"net/http"
	"time"

	httpclient "github.com/natserract/spotler/pkg/http"
)

const contactEndpoint = "contact"

// ContactService wraps the contact endpoints.
type ContactService struct {
	client executor
}

func newContactService(client executor) *ContactService {
	return &ContactService{client: client}
}

// Get retrieves a contact by external id.
func (s *ContactService) Get(ctx context.Context, externalID string) (*Result, error) {
	if err := requireID(contactEndpoint, externalID); err != nil {
		return nil, err
	}

	return s.client.Execute(ctx, httpclient.BuildPath([]string{contactEndpoint, externalID}, nil), http.MethodGet, nil)
}

// Create inserts a contact. With req.Update set, an existing contact is overwritten.
func (s *ContactService) Create(ctx context.Context, req ContactRequest) (*Result, error) {
	return s.client.Execute(ctx, contactEndpoint, http.MethodPost, req)
}

// Update replaces the properties of an existing contact.
func (s *ContactService) Update(ctx context.Context, externalID string, req ContactRequest) (*Result, error) {
	if err := requireID(contactEndpoint, externalID); err != nil {
		return nil, err
	}

	return s.client.Execute(ctx, httpclient.BuildPath([]string{contactEndpoint, externalID}, nil), http.MethodPut, req)
}

// Properties lists the contact properties defined in the account.
func (s *ContactService) Properties(ctx context.Context) (*Result, error) {
	return s.client.Execute(ctx, httpclient.BuildPath([]string{contactEndpoint, "properties", "list"}, nil), http.MethodGet, nil)
}

// Updates lists contacts changed within [from, to].
func (s *ContactService) Updates(ctx context.Context, from, to time.Time) (*Result, error) {
	endpoint := httpclient.BuildPath([]string{contactEndpoint, "updates"}, map[string]string{
		"fromDate": formatDate(from),
		"toDate":   formatDate(to),
	})

	return s.client.Execute(ctx, endpoint, http.MethodGet, nil)
}
