package spotler

import (
	"fmt"
	"time"
)

// Channel is a contact's opt-in state for one communication channel.
type Channel struct {
	Name  string `json:"name"`
	Value bool   `json:"value"`
}

// Contact is a Spotler contact, identified by the caller's external id.
type Contact struct {
	ExternalID  string         `json:"externalId"`
	Created     string         `json:"created,omitempty"`
	EncryptedID string         `json:"encryptedId,omitempty"`
	TestGroup   bool           `json:"testGroup,omitempty"`
	LastChanged string         `json:"lastChanged,omitempty"`
	Temporary   bool           `json:"temporary,omitempty"`
	Properties  map[string]any `json:"properties,omitempty"`
	Channels    []Channel      `json:"channels,omitempty"`
}

// ContactRequest is the payload for creating or updating a contact.
type ContactRequest struct {
	// Update allows an insert to overwrite an existing contact.
	Update bool `json:"update"`
	// Purge removes properties not present in Contact.Properties.
	Purge   bool    `json:"purge"`
	Contact Contact `json:"contact"`
}

// CampaignField is a named value passed into a campaign trigger.
type CampaignField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// TriggerRequest starts a campaign for one contact.
type TriggerRequest struct {
	ExternalContactID   string          `json:"externalContactId"`
	CampaignFieldValues []CampaignField `json:"campaignFieldValues,omitempty"`
}

const dateLayout = "2006-01-02T15:04:05"

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// requireID rejects a blank path identifier before any request is sent.
func requireID(endpoint, id string) error {
	if id == "" {
		return &Error{
			Kind:     KindTransport,
			Message:  fmt.Sprintf("%s: identifier is required", endpoint),
			Endpoint: endpoint,
		}
	}

	return nil
}
