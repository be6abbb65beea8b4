package spotler

import (
	"context"
	"net/http"

	httpclient "github.com/natserract/spotler/pkg/http"
)

const campaignEndpoint = "campaign"

type CampaignService struct {
	client executor
}

func newCampaignService(client executor) *CampaignService {
	return &CampaignService{client: client}
}

func (s *CampaignService) List(ctx context.Context) (*Result, error) {
	return s.client.Execute(ctx, campaignEndpoint, http.MethodGet, nil)
}

// Trigger starts the campaign identified by encryptedID for one contact.
func (s *CampaignService) Trigger(ctx context.Context, encryptedID string, req TriggerRequest) (*Result, error) {
	if err := requireID(campaignEndpoint, encryptedID); err != nil {
		return nil, err
	}

	return s.client.Execute(ctx, httpclient.BuildPath([]string{campaignEndpoint, encryptedID, "trigger"}, nil), http.MethodPost, req)
}

func (s *CampaignService) Subscriptions(ctx context.Context, encryptedID string) (*Result, error) {
	if err := requireID(campaignEndpoint, encryptedID); err != nil {
		return nil, err
	}

	return s.client.Execute(ctx, httpclient.BuildPath([]string{campaignEndpoint, encryptedID, "subscriptions"}, nil), http.MethodGet, nil)
}
