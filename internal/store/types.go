package store

import (
	"errors"
	"time"

	"github.com/udclean/udc/internal/status"
)

// ErrNotFound is returned by point lookups when no row matches.
var ErrNotFound = errors.New("store: not found")

// ServiceType identifies the laundry service an order is for.
type ServiceType string

const (
	WashFold    ServiceType = "wash_fold"
	DryCleaning ServiceType = "dry_cleaning"
	Ironing     ServiceType = "ironing"
	Premium     ServiceType = "premium"
)

// Action is the kind of remote mutation a queue item carries.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// TableOrders is the only remote table currently wired into the queue.
const TableOrders = "orders"

// Order is the local mirror of a server order row. IsSynced is true only
// once the server has accepted this exact row.
type Order struct {
	ID                  string
	UserID              string
	OrderNumber         string // empty until server-assigned
	ServiceType         ServiceType
	Status              status.Status
	WeightLbs           float64
	ItemCount           int
	PickupDate          string
	PickupTime          string
	DeliveryDate        string
	DeliveryTime        string
	SpecialInstructions string
	Subtotal            int64
	Tax                 int64
	Total               int64
	IsSynced            bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Profile is the cached snapshot of the authenticated user's profile.
type Profile struct {
	ID            string
	Email         string
	FirstName     string
	LastName      string
	Phone         string
	Role          string
	LoyaltyPoints int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Mutation is a pending remote change awaiting propagation. It is
// immutable except for Synced and Error. Seq is assigned by the store and
// fixes the drain order.
type Mutation struct {
	ID        string
	Seq       int64
	UserID    string
	Action    Action
	Table     string
	RecordID  string
	Data      []byte // JSON in the remote table's insert/update shape
	Synced    bool
	Error     string
	CreatedAt time.Time
}
