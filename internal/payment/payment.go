// Package payment is the boundary to the hosted payment gateway. The
// lifecycle service only sees the Gateway interface and the tagged Outcome;
// the gateway's wire protocol stays behind the adapter.
package payment

import "context"

type OutcomeKind string

const (
	OutcomeSuccess   OutcomeKind = "success"
	OutcomeCancelled OutcomeKind = "cancelled"
	OutcomeFailed    OutcomeKind = "failed"
)

// Outcome is the terminal result the checkout UI reports back. Cancelled is
// the user dismissing the hosted page; Failed is a gateway or transport
// error. Neither removes the underlying registration.
type Outcome struct {
	Kind      OutcomeKind
	PaymentID string
	Signature string
	Reason    string
}

type Gateway interface {
	// CreateOrder registers a payable order with the gateway and returns its
	// order id. Amount is in minor units per the gateway's convention.
	CreateOrder(ctx context.Context, amountMinorUnits int64, currency, receipt string, notes map[string]string) (string, error)

	// VerifySignature checks the gateway's payment signature for an order.
	VerifySignature(orderID, paymentID, signature string) bool
}
