// Package wise is a Go client for collecting money through the Wise API:
// invoice-style payment requests, transfer funding with Strong Customer
// Authentication (SCA) handling, and the supporting profile, recipient,
// balance, quote, and transfer calls.
//
// # Invoices
//
// Use [Client.CreateAndPublishInvoice] to run the full invoice lifecycle.
// An invoice only exists on the remote system: the client allocates an
// empty draft there to obtain its identifier and the auto-generated
// invoice number, overwrites the draft with the caller's line items and
// payer, and publishes it. A failure at any step aborts the remaining
// steps and reports which step did not complete, because a half-created
// draft is left behind remotely and cleanup is the caller's decision.
//
// # Funding
//
// [Client.FundTransfer] pays for a transfer from a balance. The provider
// may answer with an SCA challenge instead of moving funds; the classified
// [FundingOutcome] distinguishes a captured payment from a challenge whose
// one-time token must be resolved out of band.
//
// # Configuration
//
// Build a client explicitly with [NewClient] plus options, or from the
// WISE_API_TOKEN / WISE_IS_SANDBOX environment via [NewClientFromEnv]. The
// client never retries and keeps no state between calls.
package wise
