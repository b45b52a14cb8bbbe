package bus

import "time"

// Event kinds published by the core. Subscribers filter by namespace
// prefix, e.g. "net." receives both KindOnline and KindOffline.
const (
	KindOnline  = "net.online"
	KindOffline = "net.offline"

	KindSyncStarted   = "sync.started"
	KindSyncCompleted = "sync.completed"
	KindSyncItemError = "sync.item_error"

	KindOrderSaved  = "order.saved"
	KindOrderSynced = "order.synced"

	KindSignedIn  = "auth.signed_in"
	KindSignedOut = "auth.signed_out"
)

// Event represents a domain event published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}
