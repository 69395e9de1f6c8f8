package adapter

import "context"

// ActivitySink receives human-readable one-line audit strings for every
// ledger mutation ("Subscription for X updated to Active"). The format is
// free text; nothing depends on it programmatically.
type ActivitySink interface {
	Record(ctx context.Context, line string)
}
