// Package tools exposes the Wise operations an automated agent calls:
// invoice creation, balance discovery, recipient listing, transfer funding,
// and a quote-transfer-fund money send. Results are human-readable strings
// because the consumer is conversational; failures are reported inside the
// string rather than raised, except where a structured outcome exists
// (funding).
package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintoolkit/wise"
)

// API is the slice of the Wise client the tools depend on. Tests substitute
// a stub.
type API interface {
	ProfileByType(ctx context.Context, profileType string) (*wise.Profile, error)
	CreateAndPublishInvoice(ctx context.Context, profileID int64, draft wise.PaymentRequestDraft) (*wise.PaymentRequest, error)
	GetBalanceCurrencies(ctx context.Context, profileID int64) (*wise.BalanceCurrencies, error)
	ListRecipients(ctx context.Context, profileID int64, currency string) ([]wise.Recipient, error)
	FundTransfer(ctx context.Context, profileID, transferID int64, paymentMethodType string) (*wise.FundingOutcome, error)
	CreateQuote(ctx context.Context, profileID int64, req wise.QuoteRequest) (*wise.Quote, error)
	CreateTransfer(ctx context.Context, req wise.TransferRequest) (*wise.Transfer, error)
}

var _ API = (*wise.Client)(nil)

// Tools implements the exposed operations on top of an [API].
type Tools struct {
	api   API
	clock func() time.Time
}

// New builds the tool set. The clock is injectable for deterministic
// due-date resolution in tests.
func New(api API, opts ...ToolOption) *Tools {
	if api == nil {
		panic("tools: api is required")
	}
	t := &Tools{
		api:   api,
		clock: time.Now,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(t)
	}
	return t
}

// ToolOption customizes the tool set.
type ToolOption func(*Tools)

func withToolClock(fn func() time.Time) ToolOption {
	return func(t *Tools) {
		t.clock = fn
	}
}

// LineItemArgs is one billable entry as supplied by the caller.
type LineItemArgs struct {
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Quantity int             `json:"quantity"`
	// Tax fields are optional; a tax block is built only when both
	// tax_name and tax_percentage are supplied. The behaviour defaults
	// to EXCLUDED.
	TaxName       string           `json:"tax_name,omitempty"`
	TaxPercentage *decimal.Decimal `json:"tax_percentage,omitempty"`
	TaxBehaviour  string           `json:"tax_behaviour,omitempty"`
}

// CreateInvoiceArgs are the caller-supplied parameters of create_invoice.
type CreateInvoiceArgs struct {
	ProfileType    string         `json:"profile_type"`
	BalanceID      int64          `json:"balance_id"`
	DueDays        int            `json:"due_days"`
	LineItems      []LineItemArgs `json:"line_items"`
	PayerName      string         `json:"payer_name,omitempty"`
	PayerEmail     string         `json:"payer_email,omitempty"`
	PayerContactID string         `json:"payer_contact_id,omitempty"`
	InvoiceNumber  string         `json:"invoice_number,omitempty"`
	Message        string         `json:"message,omitempty"`
	// IssueDate is a YYYY-MM-DD day; today when empty.
	IssueDate string `json:"issue_date,omitempty"`
}

// CreateInvoice creates and publishes an invoice payment request. Only
// business profiles may create invoices; a personal profile type is
// rejected with a descriptive message before any remote call is made.
func (t *Tools) CreateInvoice(ctx context.Context, args CreateInvoiceArgs) string {
	if msg := requireBusinessProfile(args.ProfileType, "invoice creation"); msg != "" {
		return msg
	}

	dueAt := t.clock().AddDate(0, 0, args.DueDays)
	issueDate := t.clock()
	if args.IssueDate != "" {
		parsed, err := time.Parse("2006-01-02", args.IssueDate)
		if err != nil {
			return fmt.Sprintf("Invalid issue_date %q: expected YYYY-MM-DD.", args.IssueDate)
		}
		issueDate = parsed
	}

	var payer *wise.Payer
	if args.PayerName != "" || args.PayerEmail != "" || args.PayerContactID != "" {
		payer = &wise.Payer{
			ContactID: args.PayerContactID,
			Name:      args.PayerName,
			Email:     args.PayerEmail,
		}
	}

	lineItems := make([]wise.LineItem, 0, len(args.LineItems))
	for _, item := range args.LineItems {
		lineItem := wise.LineItem{
			Name: item.Name,
			UnitPrice: wise.Money{
				Amount:   item.Amount,
				Currency: item.Currency,
			},
			Quantity: item.Quantity,
		}
		if item.TaxName != "" && item.TaxPercentage != nil {
			behaviour := wise.TaxBehaviour(item.TaxBehaviour)
			if behaviour == "" {
				behaviour = wise.TaxExcluded
			}
			lineItem.Tax = &wise.LineItemTax{
				Name:       item.TaxName,
				Percentage: *item.TaxPercentage,
				Behaviour:  behaviour,
			}
		}
		lineItems = append(lineItems, lineItem)
	}

	profile, err := t.api.ProfileByType(ctx, args.ProfileType)
	if err != nil {
		return fmt.Sprintf("Failed to create invoice: %v", err)
	}

	invoice, err := t.api.CreateAndPublishInvoice(ctx, profile.ID, wise.PaymentRequestDraft{
		BalanceID:     args.BalanceID,
		DueAt:         dueAt,
		IssueDate:     issueDate,
		InvoiceNumber: args.InvoiceNumber,
		Payer:         payer,
		LineItems:     lineItems,
		Message:       args.Message,
	})
	if err != nil {
		return fmt.Sprintf("Failed to create invoice: %v", err)
	}

	link := invoice.Link
	if link == "" {
		link = "N/A"
	}
	result := fmt.Sprintf("Invoice created and published. ID: %s, Status: %s, Link: %s", invoice.ID, invoice.Status, link)
	if number := invoice.InvoiceNumber(); number != "" {
		result += fmt.Sprintf(", Invoice number: %s", number)
	}
	return result
}

// GetBalanceCurrencies lists the currencies and balance ids available for
// invoice creation. Business profiles only.
func (t *Tools) GetBalanceCurrencies(ctx context.Context, profileType string) string {
	if msg := requireBusinessProfile(profileType, "balance discovery"); msg != "" {
		return msg
	}

	profile, err := t.api.ProfileByType(ctx, profileType)
	if err != nil {
		return fmt.Sprintf("Failed to get balance currencies: %v", err)
	}
	currencies, err := t.api.GetBalanceCurrencies(ctx, profile.ID)
	if err != nil {
		return fmt.Sprintf("Failed to get balance currencies: %v", err)
	}
	if len(currencies.Balances) == 0 {
		return "No balances found for this profile."
	}

	var b strings.Builder
	b.WriteString("Available balances for invoice creation:\n")
	for _, balance := range currencies.Balances {
		fmt.Fprintf(&b, "- Currency: %s, Balance ID: %d\n", balance.Currency, balance.ID)
	}
	return b.String()
}

// ListRecipients lists the recipients of the profile matching the given
// type, optionally filtered by currency.
func (t *Tools) ListRecipients(ctx context.Context, profileType, currency string) string {
	profile, err := t.api.ProfileByType(ctx, profileType)
	if err != nil {
		return fmt.Sprintf("Failed to list recipients: %v", err)
	}
	recipients, err := t.api.ListRecipients(ctx, profile.ID, currency)
	if err != nil {
		return fmt.Sprintf("Failed to list recipients: %v", err)
	}
	if len(recipients) == 0 {
		return "No recipients found for this profile."
	}

	var b strings.Builder
	b.WriteString("Recipients:\n")
	for _, recipient := range recipients {
		fmt.Fprintf(&b, "- %s (%s, %s), Account ID: %d", recipient.FullName, recipient.Currency, recipient.Country, recipient.ID)
		if recipient.AccountSummary != "" {
			fmt.Fprintf(&b, ", %s", recipient.AccountSummary)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// FundTransferArgs are the caller-supplied parameters of fund_transfer.
type FundTransferArgs struct {
	ProfileID         int64  `json:"profile_id"`
	TransferID        int64  `json:"transfer_id"`
	PaymentMethodType string `json:"payment_method_type"`
}

// FundTransfer funds an existing transfer. The structured outcome is
// returned as-is so the dispatch layer can serialize it.
func (t *Tools) FundTransfer(ctx context.Context, args FundTransferArgs) (*wise.FundingOutcome, error) {
	return t.api.FundTransfer(ctx, args.ProfileID, args.TransferID, args.PaymentMethodType)
}

// SendMoneyArgs are the caller-supplied parameters of send_money.
type SendMoneyArgs struct {
	ProfileType    string          `json:"profile_type"`
	SourceCurrency string          `json:"source_currency"`
	TargetCurrency string          `json:"target_currency"`
	SourceAmount   decimal.Decimal `json:"source_amount"`
	RecipientID    int64           `json:"recipient_id"`
	Reference      string          `json:"reference"`
	SourceOfFunds  string          `json:"source_of_funds,omitempty"`
}

// SendMoney chains quote, transfer, and balance funding. Each stage's
// failure is reported with the stage name; a transfer created but not
// funded is left as-is, for the caller to fund separately.
func (t *Tools) SendMoney(ctx context.Context, args SendMoneyArgs) string {
	profile, err := t.api.ProfileByType(ctx, args.ProfileType)
	if err != nil {
		return fmt.Sprintf("Failed to send money: %v", err)
	}

	quote, err := t.api.CreateQuote(ctx, profile.ID, wise.QuoteRequest{
		SourceCurrency: args.SourceCurrency,
		TargetCurrency: args.TargetCurrency,
		SourceAmount:   args.SourceAmount,
		TargetAccount:  args.RecipientID,
	})
	if err != nil {
		return fmt.Sprintf("Failed to create quote: %v", err)
	}

	transfer, err := t.api.CreateTransfer(ctx, wise.TransferRequest{
		TargetAccount: args.RecipientID,
		QuoteUUID:     quote.ID,
		Reference:     args.Reference,
		SourceOfFunds: args.SourceOfFunds,
	})
	if err != nil {
		return fmt.Sprintf("Failed to create transfer: %v", err)
	}

	outcome, err := t.api.FundTransfer(ctx, profile.ID, transfer.ID, string(wise.PaymentMethodBalance))
	if err != nil {
		return fmt.Sprintf("Transfer %d created but funding failed: %v", transfer.ID, err)
	}
	if outcome.Challenge != nil {
		return fmt.Sprintf("Transfer %d requires Strong Customer Authentication. One-time token: %s", transfer.ID, outcome.Challenge.OneTimeToken)
	}
	if outcome.Funded != nil && outcome.Funded.ErrorCode != nil {
		return fmt.Sprintf("Transfer %d funding reported error code %s (status %s).", transfer.ID, *outcome.Funded.ErrorCode, outcome.Funded.Status)
	}
	return fmt.Sprintf("Transfer %d funded from balance. Status: %s", transfer.ID, outcome.Funded.Status)
}

// requireBusinessProfile gates operations that only business profiles may
// perform. The returned message is empty when the profile type is allowed.
func requireBusinessProfile(profileType, operation string) string {
	if strings.EqualFold(profileType, "business") {
		return ""
	}
	return fmt.Sprintf("Only business profiles can perform %s; profile type %q was given. Use profile_type \"business\".", operation, profileType)
}
