package wise

import (
	"bytes"
	"encoding/json"
	"time"
)

// TimestampLayout is the provider's wire format for every timestamp:
// extended ISO-8601 with millisecond precision, always UTC, literal Z.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// FormatTimestamp renders an instant in the provider's wire format.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// wirePaymentRequest is the request payload shared by the draft-allocation
// and full-update calls. Field names are the provider's contract and must be
// reproduced byte for byte.
type wirePaymentRequest struct {
	RequestType            RequestType     `json:"requestType"`
	SelectedPaymentMethods []PaymentMethod `json:"selectedPaymentMethods"`
	BalanceID              int64           `json:"balanceId"`
	DueAt                  string          `json:"dueAt"`
	IssueDate              string          `json:"issueDate"`
	LineItems              []LineItem      `json:"lineItems"`
	InvoiceNumber          string          `json:"invoiceNumber,omitempty"`
	Message                string          `json:"message,omitempty"`
	Payer                  *Payer          `json:"payer,omitempty"`
}

// wireStatusTransition is the publish payload.
type wireStatusTransition struct {
	Status PaymentRequestStatus `json:"status"`
}

// encodeCreateEmpty produces the minimal payload that allocates a draft
// invoice: no line items, no payment methods, fixed INVOICE request type.
func encodeCreateEmpty(balanceID int64, dueAt, issueDate time.Time) wirePaymentRequest {
	return wirePaymentRequest{
		RequestType:            RequestTypeInvoice,
		SelectedPaymentMethods: []PaymentMethod{},
		BalanceID:              balanceID,
		DueAt:                  FormatTimestamp(dueAt),
		IssueDate:              FormatTimestamp(issueDate),
		LineItems:              []LineItem{},
	}
}

// encodeInvoice produces the complete payload for a draft. Scalar fields
// pass through verbatim, with the encoding conventions the provider expects:
// the payment-method list defaults to ACCOUNT_DETAILS, an empty payer is
// omitted rather than serialized as null, and each line item's tax block
// appears only when a tax is specified (LineItem's own tags handle that).
func encodeInvoice(draft PaymentRequestDraft) wirePaymentRequest {
	methods := draft.SelectedPaymentMethods
	if len(methods) == 0 {
		methods = []PaymentMethod{PaymentMethodAccountDetails}
	}
	items := draft.LineItems
	if items == nil {
		items = []LineItem{}
	}
	payload := wirePaymentRequest{
		RequestType:            RequestTypeInvoice,
		SelectedPaymentMethods: methods,
		BalanceID:              draft.BalanceID,
		DueAt:                  FormatTimestamp(draft.DueAt),
		IssueDate:              FormatTimestamp(draft.IssueDate),
		LineItems:              items,
		InvoiceNumber:          draft.InvoiceNumber,
		Message:                draft.Message,
	}
	if !draft.Payer.isZero() {
		payload.Payer = draft.Payer
	}
	return payload
}

// paymentRequestEnvelope mirrors the provider's response shape. Pointer
// fields distinguish "absent" from zero values so missing mandatory fields
// can be reported precisely.
type paymentRequestEnvelope struct {
	ID          *string               `json:"id"`
	Amount      *Money                `json:"amount"`
	ProfileID   *int64                `json:"profileId"`
	BalanceID   *int64                `json:"balanceId"`
	Creator     json.RawMessage       `json:"creator"`
	Status      *PaymentRequestStatus `json:"status"`
	Link        string                `json:"link"`
	CreatedAt   string                `json:"createdAt"`
	PublishedAt string                `json:"publishedAt"`
	DueAt       string                `json:"dueAt"`
	Message     string                `json:"message"`
	Description string                `json:"description"`
	Reference   string                `json:"reference"`
	RequestType RequestType           `json:"requestType"`
	Invoice     json.RawMessage       `json:"invoice"`
}

// decodePaymentRequest maps a response body to the PaymentRequest entity.
// It is the single decoder for all payment-request call sites. Optional
// fields the server omits map to their unset values; the mandatory fields
// of the contract (id, amount, profileId, balanceId, creator, status) yield
// a malformed-response error when absent.
func decodePaymentRequest(body []byte) (*PaymentRequest, error) {
	var envelope paymentRequestEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &Error{
			Type:    ErrorTypeMalformedResponse,
			Message: "cannot decode payment request: " + err.Error(),
			cause:   err,
		}
	}
	switch {
	case envelope.ID == nil || *envelope.ID == "":
		return nil, newMalformedResponseError("id")
	case envelope.Amount == nil:
		return nil, newMalformedResponseError("amount")
	case envelope.ProfileID == nil:
		return nil, newMalformedResponseError("profileId")
	case envelope.BalanceID == nil:
		return nil, newMalformedResponseError("balanceId")
	case isJSONAbsent(envelope.Creator):
		return nil, newMalformedResponseError("creator")
	case envelope.Status == nil || *envelope.Status == "":
		return nil, newMalformedResponseError("status")
	}

	pr := &PaymentRequest{
		ID:          *envelope.ID,
		Amount:      *envelope.Amount,
		ProfileID:   *envelope.ProfileID,
		BalanceID:   *envelope.BalanceID,
		Creator:     Creator{union: envelope.Creator},
		Status:      *envelope.Status,
		Link:        envelope.Link,
		CreatedAt:   envelope.CreatedAt,
		PublishedAt: envelope.PublishedAt,
		DueAt:       envelope.DueAt,
		Message:     envelope.Message,
		Description: envelope.Description,
		Reference:   envelope.Reference,
		RequestType: envelope.RequestType,
	}
	if !isJSONAbsent(envelope.Invoice) {
		pr.Invoice = &InvoiceDetails{union: envelope.Invoice}
	}
	return pr, nil
}

func isJSONAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
