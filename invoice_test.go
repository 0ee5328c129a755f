package wise

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// recordingServer captures method+path of every call and replies from a
// scripted list of responses, one per call in order.
type recordingServer struct {
	mu        sync.Mutex
	calls     []string
	bodies    [][]byte
	responses []scriptedResponse
	server    *httptest.Server
}

type scriptedResponse struct {
	status int
	body   string
}

func newRecordingServer(t *testing.T, responses ...scriptedResponse) *recordingServer {
	t.Helper()

	rs := &recordingServer{responses: responses}
	rs.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rs.mu.Lock()
		defer rs.mu.Unlock()

		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read request body: %v", err)
		}
		idx := len(rs.calls)
		rs.calls = append(rs.calls, r.Method+" "+r.URL.EscapedPath())
		rs.bodies = append(rs.bodies, body)

		if idx >= len(rs.responses) {
			t.Errorf("unexpected call %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		resp := rs.responses[idx]
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(resp.status)
		_, _ = w.Write([]byte(resp.body))
	}))
	t.Cleanup(rs.server.Close)
	return rs
}

func (rs *recordingServer) recordedCalls() []string {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return append([]string(nil), rs.calls...)
}

func (rs *recordingServer) recordedBody(i int) []byte {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if i >= len(rs.bodies) {
		return nil
	}
	return rs.bodies[i]
}

func paymentRequestBody(id, status, invoiceNumber string) string {
	invoice := "null"
	if invoiceNumber != "" {
		invoice = fmt.Sprintf(`{"invoiceNumber":%q}`, invoiceNumber)
	}
	return fmt.Sprintf(`{
		"id": %q,
		"amount": {"value": 301, "currency": "EUR"},
		"profileId": 7,
		"balanceId": 42,
		"creator": {"id": 99, "name": "Jo Doe"},
		"status": %q,
		"link": "https://wise.com/pay/r/%s",
		"invoice": %s
	}`, id, status, id, invoice)
}

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()

	client, err := NewClient("token", WithBaseURL(baseURL), withClock(func() time.Time {
		return time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)
	}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func validDraft() PaymentRequestDraft {
	return PaymentRequestDraft{
		BalanceID: 42,
		DueAt:     time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		LineItems: []LineItem{{
			Name:      "Consulting",
			UnitPrice: Money{Amount: decimal.RequireFromString("150.50"), Currency: "EUR"},
			Quantity:  2,
		}},
	}
}

func TestCreateAndPublishInvoice(t *testing.T) {
	t.Parallel()

	rs := newRecordingServer(t,
		scriptedResponse{http.StatusOK, paymentRequestBody("pr_1", "DRAFT", "INV-0007")},
		scriptedResponse{http.StatusOK, paymentRequestBody("pr_1", "DRAFT", "INV-0007")},
		scriptedResponse{http.StatusOK, paymentRequestBody("pr_1", "PUBLISHED", "INV-0007")},
	)
	client := testClient(t, rs.server.URL)

	published, err := client.CreateAndPublishInvoice(context.Background(), 7, validDraft())
	if err != nil {
		t.Fatalf("create and publish: %v", err)
	}
	if published.Status != PaymentRequestStatusPublished {
		t.Fatalf("unexpected status %s", published.Status)
	}

	wantCalls := []string{
		"POST /v2/profiles/7/acquiring/payment-requests",
		"PUT /v2/profiles/7/acquiring/payment-requests/pr_1",
		"PUT /v2/profiles/7/acquiring/payment-requests/pr_1/status",
	}
	calls := rs.recordedCalls()
	if len(calls) != len(wantCalls) {
		t.Fatalf("expected %d calls, got %v", len(wantCalls), calls)
	}
	for i, want := range wantCalls {
		if calls[i] != want {
			t.Fatalf("call %d: expected %q got %q", i, want, calls[i])
		}
	}

	// The allocation payload must be the minimal one.
	var allocate struct {
		SelectedPaymentMethods []string `json:"selectedPaymentMethods"`
		LineItems              []any    `json:"lineItems"`
	}
	if err := json.Unmarshal(rs.recordedBody(0), &allocate); err != nil {
		t.Fatalf("decode allocate body: %v", err)
	}
	if allocate.SelectedPaymentMethods == nil || len(allocate.SelectedPaymentMethods) != 0 {
		t.Fatalf("allocate must send an empty payment-method list, got %v", allocate.SelectedPaymentMethods)
	}
	if allocate.LineItems == nil || len(allocate.LineItems) != 0 {
		t.Fatalf("allocate must send an empty line-item list, got %v", allocate.LineItems)
	}

	// The update payload adopts the server-generated invoice number.
	var update struct {
		InvoiceNumber string `json:"invoiceNumber"`
	}
	if err := json.Unmarshal(rs.recordedBody(1), &update); err != nil {
		t.Fatalf("decode update body: %v", err)
	}
	if update.InvoiceNumber != "INV-0007" {
		t.Fatalf("expected adopted invoice number INV-0007, got %q", update.InvoiceNumber)
	}

	var publish struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rs.recordedBody(2), &publish); err != nil {
		t.Fatalf("decode publish body: %v", err)
	}
	if publish.Status != "PUBLISHED" {
		t.Fatalf("unexpected publish payload status %q", publish.Status)
	}
}

func TestCreateAndPublishInvoiceCallerInvoiceNumberWins(t *testing.T) {
	t.Parallel()

	rs := newRecordingServer(t,
		scriptedResponse{http.StatusOK, paymentRequestBody("pr_1", "DRAFT", "INV-0007")},
		scriptedResponse{http.StatusOK, paymentRequestBody("pr_1", "DRAFT", "CUSTOM-1")},
		scriptedResponse{http.StatusOK, paymentRequestBody("pr_1", "PUBLISHED", "CUSTOM-1")},
	)
	client := testClient(t, rs.server.URL)

	draft := validDraft()
	draft.InvoiceNumber = "CUSTOM-1"
	if _, err := client.CreateAndPublishInvoice(context.Background(), 7, draft); err != nil {
		t.Fatalf("create and publish: %v", err)
	}

	var update struct {
		InvoiceNumber string `json:"invoiceNumber"`
	}
	if err := json.Unmarshal(rs.recordedBody(1), &update); err != nil {
		t.Fatalf("decode update body: %v", err)
	}
	if update.InvoiceNumber != "CUSTOM-1" {
		t.Fatalf("caller invoice number must win, got %q", update.InvoiceNumber)
	}
}

func TestCreateAndPublishInvoiceValidationShortCircuits(t *testing.T) {
	t.Parallel()

	rs := newRecordingServer(t)
	client := testClient(t, rs.server.URL)

	draft := validDraft()
	draft.BalanceID = 0
	_, err := client.CreateAndPublishInvoice(context.Background(), 7, draft)

	var wiseErr *Error
	if !errors.As(err, &wiseErr) || wiseErr.Type != ErrorTypeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if calls := rs.recordedCalls(); len(calls) != 0 {
		t.Fatalf("validation failure must not issue remote calls, got %v", calls)
	}
}

func TestCreateAndPublishInvoiceAllocateFails(t *testing.T) {
	t.Parallel()

	rs := newRecordingServer(t,
		scriptedResponse{http.StatusUnprocessableEntity, `{"errors":[{"message":"balance not found"}]}`},
	)
	client := testClient(t, rs.server.URL)

	_, err := client.CreateAndPublishInvoice(context.Background(), 7, validDraft())

	var wiseErr *Error
	if !errors.As(err, &wiseErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if wiseErr.Type != ErrorTypeStepFailed || wiseErr.Step != StepAllocate {
		t.Fatalf("unexpected error %+v", wiseErr)
	}
	if wiseErr.PaymentRequestID != "" {
		t.Fatalf("no draft exists when allocation fails, got id %q", wiseErr.PaymentRequestID)
	}
	if !strings.Contains(wiseErr.Error(), "balance not found") {
		t.Fatalf("provider message lost: %q", wiseErr.Error())
	}
	if calls := rs.recordedCalls(); len(calls) != 1 {
		t.Fatalf("expected 1 call, got %v", calls)
	}
}

func TestCreateAndPublishInvoicePopulateFails(t *testing.T) {
	t.Parallel()

	rs := newRecordingServer(t,
		scriptedResponse{http.StatusOK, paymentRequestBody("pr_1", "DRAFT", "")},
		scriptedResponse{http.StatusBadRequest, `{"errors":[{"message":"invalid line item"}]}`},
	)
	client := testClient(t, rs.server.URL)

	_, err := client.CreateAndPublishInvoice(context.Background(), 7, validDraft())

	var wiseErr *Error
	if !errors.As(err, &wiseErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if wiseErr.Step != StepPopulate {
		t.Fatalf("unexpected step %s", wiseErr.Step)
	}
	if wiseErr.PaymentRequestID != "pr_1" {
		t.Fatalf("the orphaned draft id must be reported, got %q", wiseErr.PaymentRequestID)
	}
	if calls := rs.recordedCalls(); len(calls) != 2 {
		t.Fatalf("publish must not be attempted after populate fails, got %v", calls)
	}
}

func TestCreateAndPublishInvoiceRejectsNonPublishedResult(t *testing.T) {
	t.Parallel()

	rs := newRecordingServer(t,
		scriptedResponse{http.StatusOK, paymentRequestBody("pr_1", "DRAFT", "")},
		scriptedResponse{http.StatusOK, paymentRequestBody("pr_1", "DRAFT", "")},
		scriptedResponse{http.StatusOK, paymentRequestBody("pr_1", "DRAFT", "")},
	)
	client := testClient(t, rs.server.URL)

	_, err := client.CreateAndPublishInvoice(context.Background(), 7, validDraft())

	var wiseErr *Error
	if !errors.As(err, &wiseErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if wiseErr.Step != StepPublish || wiseErr.PaymentRequestID != "pr_1" {
		t.Fatalf("unexpected error %+v", wiseErr)
	}
}

func TestUpdatePaymentRequestRequiresID(t *testing.T) {
	t.Parallel()

	rs := newRecordingServer(t)
	client := testClient(t, rs.server.URL)

	_, err := client.UpdatePaymentRequest(context.Background(), 7, "", validDraft())
	var wiseErr *Error
	if !errors.As(err, &wiseErr) || wiseErr.Type != ErrorTypeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if calls := rs.recordedCalls(); len(calls) != 0 {
		t.Fatalf("expected no calls, got %v", calls)
	}
}

func TestPublishPaymentRequestEscapesID(t *testing.T) {
	t.Parallel()

	rs := newRecordingServer(t,
		scriptedResponse{http.StatusOK, paymentRequestBody("pr 1", "PUBLISHED", "")},
	)
	client := testClient(t, rs.server.URL)

	if _, err := client.PublishPaymentRequest(context.Background(), 7, "pr 1"); err != nil {
		t.Fatalf("publish: %v", err)
	}
	calls := rs.recordedCalls()
	if len(calls) != 1 || !strings.HasSuffix(calls[0], "/pr%201/status") {
		t.Fatalf("id must be path-escaped, got %v", calls)
	}
}
