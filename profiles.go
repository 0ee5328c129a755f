package wise

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Profile is a Wise profile associated with the API token.
type Profile struct {
	ID       int64  `json:"id"`
	Type     string `json:"type"`
	FullName string `json:"fullName"`
}

// IsBusiness reports whether the profile belongs to a business. The
// provider is inconsistent about casing across API versions, so the check
// is case-insensitive.
func (p Profile) IsBusiness() bool {
	return strings.EqualFold(p.Type, "business")
}

// ListProfiles returns every profile the API token can act on.
func (c *Client) ListProfiles(ctx context.Context) ([]Profile, error) {
	var profiles []Profile
	if err := c.invokeJSON(ctx, http.MethodGet, "/v2/profiles", nil, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// GetProfile fetches a single profile by id.
func (c *Client) GetProfile(ctx context.Context, profileID int64) (*Profile, error) {
	var profile Profile
	if err := c.invokeJSON(ctx, http.MethodGet, fmt.Sprintf("/v2/profiles/%d", profileID), nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ProfileByType returns the first profile matching the given type
// ("personal" or "business", case-insensitive).
func (c *Client) ProfileByType(ctx context.Context, profileType string) (*Profile, error) {
	profiles, err := c.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}
	for _, profile := range profiles {
		if strings.EqualFold(profile.Type, profileType) {
			return &profile, nil
		}
	}
	return nil, NewValidationError("no %s profile found for this API token", strings.ToLower(profileType))
}
