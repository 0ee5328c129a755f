package wise

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Two-factor approval headers accompany funding attempts that trip SCA.
const (
	headerTwoFactorResult = "x-2fa-approval-result"
	headerTwoFactorToken  = "x-2fa-approval"
	twoFactorRejected     = "REJECTED"
)

// FundResult reports the provider's funding decision. A non-nil ErrorCode
// on an otherwise successful response means funding did not fully succeed:
// the provider signals business-level failure inside a 2xx envelope.
type FundResult struct {
	Type      string  `json:"type"`
	Status    string  `json:"status"`
	ErrorCode *string `json:"errorCode"`
}

// SCAChallenge is issued when the provider requires Strong Customer
// Authentication before funds move. The one-time token must be resolved by
// a separate confirmation flow; no money moved on this attempt.
type SCAChallenge struct {
	OneTimeToken string `json:"oneTimeToken"`
}

// FundingOutcome is the classified result of a single funding attempt.
// Exactly one of the two fields is set.
type FundingOutcome struct {
	Funded    *FundResult   `json:"funded,omitempty"`
	Challenge *SCAChallenge `json:"challenge,omitempty"`
}

// FundTransfer pays for a previously created transfer from a balance. Only
// the BALANCE payment method is supported; any other value is rejected
// before a remote call is made.
//
// The outcome is classified from the HTTP status, the two-factor approval
// headers, and the body — in that order. A 403 carrying
// x-2fa-approval-result: REJECTED is the SCA-challenge path, not a failure;
// any other error status is a hard failure.
func (c *Client) FundTransfer(ctx context.Context, profileID, transferID int64, paymentMethodType string) (*FundingOutcome, error) {
	if PaymentMethod(paymentMethodType) != PaymentMethodBalance {
		return nil, NewValidationError("only the BALANCE payment method is supported for funding transfers, got %q", paymentMethodType)
	}

	path := fmt.Sprintf("/v3/profiles/%d/transfers/%d/payments", profileID, transferID)
	resp, err := c.invoke(ctx, http.MethodPost, path, struct {
		Type string `json:"type"`
	}{Type: paymentMethodType}, nil)
	if err != nil {
		return nil, err
	}
	return classifyFundingResponse(resp)
}

// classifyFundingResponse maps one funding attempt to exactly one outcome.
// Evaluation order matters: the SCA check must run before the generic
// error-status check, because the challenge also arrives as a 403.
func classifyFundingResponse(resp *apiResponse) (*FundingOutcome, error) {
	if resp.status == http.StatusForbidden && resp.header.Get(headerTwoFactorResult) == twoFactorRejected {
		return &FundingOutcome{
			Challenge: &SCAChallenge{OneTimeToken: resp.header.Get(headerTwoFactorToken)},
		}, nil
	}
	if resp.status >= http.StatusBadRequest {
		return nil, newRemoteError(resp.status, resp.body)
	}

	var result FundResult
	if err := json.Unmarshal(resp.body, &result); err != nil {
		return nil, &Error{
			Type:    ErrorTypeMalformedResponse,
			Message: "cannot decode funding response: " + err.Error(),
			cause:   err,
		}
	}
	return &FundingOutcome{Funded: &result}, nil
}

// GetOneTimeTokenStatus reports the state of an SCA one-time token. The
// response shape is provider-defined and passed through verbatim.
func (c *Client) GetOneTimeTokenStatus(ctx context.Context, oneTimeToken string) (json.RawMessage, error) {
	if oneTimeToken == "" {
		return nil, NewValidationError("a one-time token is required")
	}
	header := http.Header{}
	header.Set("One-Time-Token", oneTimeToken)

	resp, err := c.invoke(ctx, http.MethodGet, "/v1/one-time-token/status", nil, header)
	if err != nil {
		return nil, err
	}
	if resp.status >= http.StatusBadRequest {
		return nil, newRemoteError(resp.status, resp.body)
	}
	return json.RawMessage(resp.body), nil
}
