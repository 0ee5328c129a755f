package wise

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuoteRequest asks for a currency-exchange quote targeting a recipient
// account.
type QuoteRequest struct {
	SourceCurrency string          `json:"sourceCurrency" validate:"required,currency_code"`
	TargetCurrency string          `json:"targetCurrency" validate:"required,currency_code"`
	SourceAmount   decimal.Decimal `json:"sourceAmount" validate:"decimal_nonneg"`
	TargetAccount  int64           `json:"targetAccount" validate:"required"`
}

// Quote is the subset of the provider's quote object the client needs to
// create a transfer. Further provider fields are ignored.
type Quote struct {
	ID             string          `json:"id"`
	SourceCurrency string          `json:"sourceCurrency"`
	TargetCurrency string          `json:"targetCurrency"`
	SourceAmount   decimal.Decimal `json:"sourceAmount"`
	TargetAmount   decimal.Decimal `json:"targetAmount"`
	Rate           decimal.Decimal `json:"rate"`
}

// CreateQuote creates a quote for moving SourceAmount from the source to
// the target currency.
func (c *Client) CreateQuote(ctx context.Context, profileID int64, req QuoteRequest) (*Quote, error) {
	if err := validate.Struct(req); err != nil {
		return nil, NewValidationError("%v", normalizeValidationError(err))
	}
	var quote Quote
	path := fmt.Sprintf("/v3/profiles/%d/quotes", profileID)
	if err := c.invokeJSON(ctx, http.MethodPost, path, req, &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

// TransferRequest creates a transfer from a previously generated quote.
type TransferRequest struct {
	TargetAccount int64  `validate:"required"`
	QuoteUUID     string `validate:"required"`
	Reference     string `validate:"required"`
	SourceOfFunds string
	// CustomerTransactionID deduplicates transfer creation on the remote
	// side. A random UUID is generated when left empty.
	CustomerTransactionID string
}

// Transfer is the provider's transfer object, reduced to the fields the
// funding flow needs.
type Transfer struct {
	ID                    int64  `json:"id"`
	Status                string `json:"status"`
	Reference             string `json:"reference"`
	CustomerTransactionID string `json:"customerTransactionId"`
}

type wireTransferDetails struct {
	Reference     string `json:"reference"`
	SourceOfFunds string `json:"sourceOfFunds,omitempty"`
}

type wireTransfer struct {
	TargetAccount         int64               `json:"targetAccount"`
	QuoteUUID             string              `json:"quoteUuid"`
	Details               wireTransferDetails `json:"details"`
	CustomerTransactionID string              `json:"customerTransactionId"`
}

// CreateTransfer creates a transfer using a previously generated quote. The
// transfer still has to be funded (see [Client.FundTransfer]) before money
// moves.
func (c *Client) CreateTransfer(ctx context.Context, req TransferRequest) (*Transfer, error) {
	if err := validate.Struct(req); err != nil {
		return nil, NewValidationError("%v", normalizeValidationError(err))
	}
	if req.CustomerTransactionID == "" {
		req.CustomerTransactionID = uuid.NewString()
	}

	payload := wireTransfer{
		TargetAccount: req.TargetAccount,
		QuoteUUID:     req.QuoteUUID,
		Details: wireTransferDetails{
			Reference:     req.Reference,
			SourceOfFunds: req.SourceOfFunds,
		},
		CustomerTransactionID: req.CustomerTransactionID,
	}

	var transfer Transfer
	if err := c.invokeJSON(ctx, http.MethodPost, "/v1/transfers", payload, &transfer); err != nil {
		return nil, err
	}
	return &transfer, nil
}
