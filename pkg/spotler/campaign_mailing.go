package spotler

import (
	"context"
	"net/http"

	httpclient "github.com/natserract/spotler/pkg/http"
)

const campaignMailingEndpoint = "campaignmailing"

type CampaignMailingService struct {
	client executor
}

func newCampaignMailingService(client executor) *CampaignMailingService {
	return &CampaignMailingService{client: client}
}

func (s *CampaignMailingService) List(ctx context.Context) (*Result, error) {
	return s.client.Execute(ctx, campaignMailingEndpoint, http.MethodGet, nil)
}

func (s *CampaignMailingService) Get(ctx context.Context, encryptedID string) (*Result, error) {
	if err := requireID(campaignMailingEndpoint, encryptedID); err != nil {
		return nil, err
	}

	return s.client.Execute(ctx, httpclient.BuildPath([]string{campaignMailingEndpoint, encryptedID}, nil), http.MethodGet, nil)
}

// Statistics returns send, open and click counts for a mailing.
func (s *CampaignMailingService) Statistics(ctx context.Context, encryptedID string) (*Result, error) {
	if err := requireID(campaignMailingEndpoint, encryptedID); err != nil {
		return nil, err
	}

	return s.client.Execute(ctx, httpclient.BuildPath([]string{campaignMailingEndpoint, encryptedID, "statistics"}, nil), http.MethodGet, nil)
}
