package wise

import (
	"context"
	"net/http"
	"testing"
)

func TestGetBalanceCurrencies(t *testing.T) {
	t.Parallel()

	rs := newRecordingServer(t, scriptedResponse{http.StatusOK, `{"balances": [
		{"id": 42, "currency": "EUR"},
		{"id": 43, "currency": "USD"}
	]}`})
	client := testClient(t, rs.server.URL)

	currencies, err := client.GetBalanceCurrencies(context.Background(), 7)
	if err != nil {
		t.Fatalf("get balance currencies: %v", err)
	}
	if len(currencies.Balances) != 2 || currencies.Balances[0].Currency != "EUR" {
		t.Fatalf("unexpected balances %+v", currencies.Balances)
	}

	calls := rs.recordedCalls()
	if len(calls) != 1 || calls[0] != "GET /v1/profiles/7/acquiring/requesting-configuration/currency-options" {
		t.Fatalf("unexpected calls %v", calls)
	}
}
