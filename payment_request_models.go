package wise

import (
	"encoding/json"
	"time"

	"github.com/oapi-codegen/runtime"
	"github.com/shopspring/decimal"
)

// The provider expects monetary values as bare JSON numbers, not quoted
// strings.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// PaymentRequestStatus defines model for PaymentRequest.Status.
type PaymentRequestStatus string

// Defines values for PaymentRequestStatus. The provider may introduce
// further statuses; the decoder passes unknown values through verbatim.
const (
	PaymentRequestStatusDraft       PaymentRequestStatus = "DRAFT"
	PaymentRequestStatusPublished   PaymentRequestStatus = "PUBLISHED"
	PaymentRequestStatusCompleted   PaymentRequestStatus = "COMPLETED"
	PaymentRequestStatusExpired     PaymentRequestStatus = "EXPIRED"
	PaymentRequestStatusInvalidated PaymentRequestStatus = "INVALIDATED"
)

// RequestType defines model for PaymentRequestDraft.RequestType.
type RequestType string

// Defines values for RequestType.
const (
	RequestTypeInvoice RequestType = "INVOICE"
)

// TaxBehaviour defines model for LineItemTax.Behaviour.
type TaxBehaviour string

// Defines values for TaxBehaviour.
const (
	// TaxExcluded means the percentage is added on top of the unit price.
	TaxExcluded TaxBehaviour = "EXCLUDED"
	// TaxIncluded means the percentage is already folded into the unit price.
	TaxIncluded TaxBehaviour = "INCLUDED"
)

// PaymentMethod defines model for PaymentRequestDraft.SelectedPaymentMethods.
type PaymentMethod string

// Defines values for PaymentMethod.
const (
	PaymentMethodAccountDetails PaymentMethod = "ACCOUNT_DETAILS"
	PaymentMethodBalance        PaymentMethod = "BALANCE"
	PaymentMethodCard           PaymentMethod = "CARD"
)

// Money is an immutable amount/currency pair. The provider serializes the
// numeric field as "value"; currency is a 3-letter uppercase ISO-4217 code.
type Money struct {
	Amount   decimal.Decimal `json:"value" validate:"decimal_nonneg"`
	Currency string          `json:"currency" validate:"required,currency_code"`
}

// LineItemTax describes the tax treatment of a single line item.
type LineItemTax struct {
	Name       string          `json:"name" validate:"required"`
	Percentage decimal.Decimal `json:"percentage" validate:"percentage"`
	Behaviour  TaxBehaviour    `json:"behaviour" validate:"required,oneof=INCLUDED EXCLUDED"`
}

// LineItem is one billable entry on an invoice. It is owned by the payment
// request that contains it and has no identity of its own.
type LineItem struct {
	Name      string       `json:"name" validate:"required"`
	UnitPrice Money        `json:"unitPrice"`
	Quantity  int          `json:"quantity" validate:"required,gt=0"`
	Tax       *LineItemTax `json:"tax,omitempty" validate:"omitempty"`
}

// Payer identifies who the invoice is addressed to. All fields are optional;
// the codec omits the payer entirely when none of them is set.
type Payer struct {
	ContactID string            `json:"contactId,omitempty"`
	Name      string            `json:"name,omitempty"`
	Email     string            `json:"email,omitempty"`
	Address   map[string]string `json:"address,omitempty"`
}

func (p *Payer) isZero() bool {
	return p == nil || (p.ContactID == "" && p.Name == "" && p.Email == "" && len(p.Address) == 0)
}

// PaymentRequestDraft is the command object for creating an invoice-type
// payment request. DueAt and IssueDate are absolute instants; relative
// inputs such as "N days from now" must be resolved before building a draft
// (the tools package does this against an injectable clock).
type PaymentRequestDraft struct {
	// SelectedPaymentMethods defaults to ACCOUNT_DETAILS when empty.
	SelectedPaymentMethods []PaymentMethod `validate:"dive,oneof=ACCOUNT_DETAILS BALANCE CARD"`
	BalanceID              int64           `validate:"required"`
	DueAt                  time.Time       `validate:"required"`
	// IssueDate defaults to the moment of invocation when zero.
	IssueDate     time.Time
	InvoiceNumber string
	Payer         *Payer
	LineItems     []LineItem `validate:"dive"`
	Message       string
}

// PaymentRequest is the local projection of the remote payment-request
// entity. It only ever comes into existence by decoding an API response;
// every mutation must be round-tripped through the remote system, which is
// authoritative and may reject or normalize values.
type PaymentRequest struct {
	ID        string
	Amount    Money
	ProfileID int64
	BalanceID int64
	Creator   Creator
	Status    PaymentRequestStatus
	Link      string
	// Timestamps are kept in the provider's wire form
	// (see TimestampLayout); they are absent when the server omits them.
	CreatedAt   string
	PublishedAt string
	DueAt       string
	Message     string
	Description string
	Reference   string
	RequestType RequestType
	// Invoice carries provider-generated invoice fields such as the
	// auto-assigned invoice number. Nil when the server omits it.
	Invoice *InvoiceDetails
}

// InvoiceNumber returns the provider-generated invoice number, or "" when
// the response carried none.
func (pr *PaymentRequest) InvoiceNumber() string {
	if pr.Invoice == nil {
		return ""
	}
	summary, err := pr.Invoice.AsInvoiceSummary()
	if err != nil {
		return ""
	}
	return summary.InvoiceNumber
}

// CreatorAccount is the typed view of the provider-opaque creator field.
type CreatorAccount struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// InvoiceSummary is the typed view of the provider-opaque invoice field.
type InvoiceSummary struct {
	InvoiceNumber string `json:"invoiceNumber,omitempty"`
}

// Creator holds the provider-defined creator object. Its shape is not part
// of this contract, so it is carried as a union with typed accessors.
type Creator struct {
	union json.RawMessage
}

// AsCreatorAccount returns the union data inside the Creator as a CreatorAccount.
func (t Creator) AsCreatorAccount() (CreatorAccount, error) {
	var body CreatorAccount
	err := json.Unmarshal(t.union, &body)
	return body, err
}

// FromCreatorAccount overwrites any union data inside the Creator with the provided CreatorAccount.
func (t *Creator) FromCreatorAccount(v CreatorAccount) error {
	b, err := json.Marshal(v)
	t.union = b
	return err
}

// MergeCreatorAccount performs a merge with any union data inside the Creator, using the provided CreatorAccount.
func (t *Creator) MergeCreatorAccount(v CreatorAccount) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	merged, err := runtime.JSONMerge(t.union, b)
	t.union = merged
	return err
}

// MarshalJSON serializes the underlying union for the Creator.
func (t Creator) MarshalJSON() ([]byte, error) {
	b, err := t.union.MarshalJSON()
	return b, err
}

// UnmarshalJSON loads union data for the Creator.
func (t *Creator) UnmarshalJSON(b []byte) error {
	err := t.union.UnmarshalJSON(b)
	return err
}

// InvoiceDetails holds the provider-defined invoice object attached to a
// payment request of request type INVOICE.
type InvoiceDetails struct {
	union json.RawMessage
}

// AsInvoiceSummary returns the union data inside the InvoiceDetails as an InvoiceSummary.
func (t InvoiceDetails) AsInvoiceSummary() (InvoiceSummary, error) {
	var body InvoiceSummary
	err := json.Unmarshal(t.union, &body)
	return body, err
}

// FromInvoiceSummary overwrites any union data inside the InvoiceDetails with the provided InvoiceSummary.
func (t *InvoiceDetails) FromInvoiceSummary(v InvoiceSummary) error {
	b, err := json.Marshal(v)
	t.union = b
	return err
}

// MergeInvoiceSummary performs a merge with any union data inside the InvoiceDetails, using the provided InvoiceSummary.
func (t *InvoiceDetails) MergeInvoiceSummary(v InvoiceSummary) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	merged, err := runtime.JSONMerge(t.union, b)
	t.union = merged
	return err
}

// MarshalJSON serializes the underlying union for the InvoiceDetails.
func (t InvoiceDetails) MarshalJSON() ([]byte, error) {
	b, err := t.union.MarshalJSON()
	return b, err
}

// UnmarshalJSON loads union data for the InvoiceDetails.
func (t *InvoiceDetails) UnmarshalJSON(b []byte) error {
	err := t.union.UnmarshalJSON(b)
	return err
}
