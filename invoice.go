package wise

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

func acquiringPath(profileID int64) string {
	return fmt.Sprintf("/v2/profiles/%d/acquiring/payment-requests", profileID)
}

// CreateAndPublishInvoice drives the full invoice lifecycle: allocate a
// draft on the remote system, overwrite it with the caller's data, then
// publish it. The three calls are strictly sequential because the later
// steps address the identifier produced by the first one.
//
// Either the published payment request comes back, or a step-failed error
// names which of ALLOCATE, POPULATE, PUBLISH did not complete. A draft
// allocated by a step that later fails is left behind on the remote system;
// there is no delete or cancel in this contract, and no step is retried.
// Invoking twice with the same draft creates two distinct remote drafts.
func (c *Client) CreateAndPublishInvoice(ctx context.Context, profileID int64, draft PaymentRequestDraft) (*PaymentRequest, error) {
	if err := draft.Validate(); err != nil {
		return nil, NewValidationError("%v", err)
	}
	if draft.IssueDate.IsZero() {
		draft.IssueDate = c.clock()
	}

	allocated, err := c.paymentRequestCall(ctx, http.MethodPost, acquiringPath(profileID),
		encodeCreateEmpty(draft.BalanceID, draft.DueAt, draft.IssueDate))
	if err != nil {
		return nil, stepFailed(StepAllocate, "", err)
	}

	// The identifiers resolved here are authoritative for the rest of the
	// flow. A caller-supplied invoice number takes precedence over the
	// server-generated one.
	if draft.InvoiceNumber == "" {
		draft.InvoiceNumber = allocated.InvoiceNumber()
	}

	populated, err := c.UpdatePaymentRequest(ctx, profileID, allocated.ID, draft)
	if err != nil {
		return nil, stepFailed(StepPopulate, allocated.ID, err)
	}

	published, err := c.PublishPaymentRequest(ctx, profileID, populated.ID)
	if err != nil {
		return nil, stepFailed(StepPublish, allocated.ID, err)
	}
	if published.Status != PaymentRequestStatusPublished {
		return nil, stepFailed(StepPublish, allocated.ID,
			fmt.Errorf("payment request ended in status %s, expected %s", published.Status, PaymentRequestStatusPublished))
	}
	return published, nil
}

// CreatePaymentRequest creates a payment request in a single call, without
// the draft/publish lifecycle. The result stays in DRAFT status until
// published.
func (c *Client) CreatePaymentRequest(ctx context.Context, profileID int64, draft PaymentRequestDraft) (*PaymentRequest, error) {
	if err := draft.Validate(); err != nil {
		return nil, NewValidationError("%v", err)
	}
	if draft.IssueDate.IsZero() {
		draft.IssueDate = c.clock()
	}
	return c.paymentRequestCall(ctx, http.MethodPost, acquiringPath(profileID), encodeInvoice(draft))
}

// UpdatePaymentRequest overwrites an existing draft with the full invoice
// data. The remote system is authoritative: it may reject or normalize
// values, so the returned entity is the decoded response, never the input.
func (c *Client) UpdatePaymentRequest(ctx context.Context, profileID int64, paymentRequestID string, draft PaymentRequestDraft) (*PaymentRequest, error) {
	if paymentRequestID == "" {
		return nil, NewValidationError("a payment request id is required")
	}
	if draft.IssueDate.IsZero() {
		draft.IssueDate = c.clock()
	}
	path := acquiringPath(profileID) + "/" + url.PathEscape(paymentRequestID)
	return c.paymentRequestCall(ctx, http.MethodPut, path, encodeInvoice(draft))
}

// PublishPaymentRequest transitions a draft to PUBLISHED, making it active
// and payable. This is the only status transition the contract permits
// from the client side.
func (c *Client) PublishPaymentRequest(ctx context.Context, profileID int64, paymentRequestID string) (*PaymentRequest, error) {
	if paymentRequestID == "" {
		return nil, NewValidationError("a payment request id is required")
	}
	path := acquiringPath(profileID) + "/" + url.PathEscape(paymentRequestID) + "/status"
	return c.paymentRequestCall(ctx, http.MethodPut, path, wireStatusTransition{Status: PaymentRequestStatusPublished})
}

// paymentRequestCall funnels every payment-request operation through the
// one shared decoder.
func (c *Client) paymentRequestCall(ctx context.Context, method, path string, payload any) (*PaymentRequest, error) {
	resp, err := c.invoke(ctx, method, path, payload, nil)
	if err != nil {
		return nil, err
	}
	if resp.status >= http.StatusBadRequest {
		return nil, newRemoteError(resp.status, resp.body)
	}
	return decodePaymentRequest(resp.body)
}
