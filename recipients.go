package wise

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Recipient is a saved recipient account that transfers can target.
type Recipient struct {
	ID             int64
	ProfileID      int64
	FullName       string
	Currency       string
	Country        string
	AccountSummary string
}

type wireRecipient struct {
	ID      int64 `json:"id"`
	Profile int64 `json:"profile"`
	Name    struct {
		FullName string `json:"fullName"`
	} `json:"name"`
	Currency       string `json:"currency"`
	Country        string `json:"country"`
	AccountSummary string `json:"accountSummary"`
}

// ListRecipients returns the recipients of a profile, optionally filtered
// by currency.
func (c *Client) ListRecipients(ctx context.Context, profileID int64, currency string) ([]Recipient, error) {
	query := url.Values{}
	query.Set("profile", fmt.Sprintf("%d", profileID))
	if currency != "" {
		query.Set("currency", currency)
	}

	var envelope struct {
		Content []wireRecipient `json:"content"`
	}
	if err := c.invokeJSON(ctx, http.MethodGet, "/v2/accounts?"+query.Encode(), nil, &envelope); err != nil {
		return nil, err
	}

	recipients := make([]Recipient, 0, len(envelope.Content))
	for _, raw := range envelope.Content {
		fullName := raw.Name.FullName
		if fullName == "" {
			fullName = "Unknown"
		}
		recipients = append(recipients, Recipient{
			ID:             raw.ID,
			ProfileID:      raw.Profile,
			FullName:       fullName,
			Currency:       raw.Currency,
			Country:        raw.Country,
			AccountSummary: raw.AccountSummary,
		})
	}
	return recipients, nil
}
