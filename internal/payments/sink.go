// Package payments defines the outbound value-transfer boundary.
//
// The ledger only ever hands a payout to a Sink and moves on: the
// transfer is fire-and-forget from the ledger's perspective, and a
// sink must not report asynchronous settlement failures back into the
// cycle state.
package payments

import (
	"context"
	"log/slog"
)

// Sink moves value to an external account.
type Sink interface {
	// Pay transfers amount contract units to recipient. An error here
	// means the transfer was never handed off; once Pay returns nil
	// the transfer is considered accepted.
	Pay(ctx context.Context, recipient string, amount int64) error
}

// LogSink is a Sink that records transfers in the process log only.
// It stands in for a real payment rail in development and tests; the
// durable audit trail is the store's transfer table, written by the
// cycle ledger after Pay returns.
type LogSink struct{}

// Pay logs the transfer and accepts it.
func (LogSink) Pay(ctx context.Context, recipient string, amount int64) error {
	slog.Info("Transfer dispatched", "recipient", recipient, "amount", amount)
	return nil
}
