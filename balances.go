package wise

import (
	"context"
	"fmt"
	"net/http"
)

// BalanceOption is one currency-denominated balance an invoice can collect
// into.
type BalanceOption struct {
	ID       int64  `json:"id"`
	Currency string `json:"currency"`
}

// BalanceCurrencies lists the balances available for payment-request
// creation on a profile.
type BalanceCurrencies struct {
	Balances []BalanceOption `json:"balances"`
}

// GetBalanceCurrencies returns the currencies and balance ids a profile can
// request money into.
func (c *Client) GetBalanceCurrencies(ctx context.Context, profileID int64) (*BalanceCurrencies, error) {
	path := fmt.Sprintf("/v1/profiles/%d/acquiring/requesting-configuration/currency-options", profileID)
	var currencies BalanceCurrencies
	if err := c.invokeJSON(ctx, http.MethodGet, path, nil, &currencies); err != nil {
		return nil, err
	}
	return &currencies, nil
}
