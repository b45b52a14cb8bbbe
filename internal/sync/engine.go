// Package sync reconciles local pending mutations against the remote
// service and pulls authoritative server state back into the local store.
package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	gosync "sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/udclean/udc/internal/bus"
	"github.com/udclean/udc/internal/pricing"
	"github.com/udclean/udc/internal/remote"
	"github.com/udclean/udc/internal/status"
	"github.com/udclean/udc/internal/store"
	"go.uber.org/zap"
)

// DefaultInterval is the auto-sync cadence when none is configured.
const DefaultInterval = 30 * time.Second

// ErrNotAuthenticated is returned by mutating operations when no user is
// bound to the engine.
var ErrNotAuthenticated = errors.New("sync: not authenticated")

// Remote is the slice of the backend the engine drives. Implemented by
// remote.Client, mocked in tests.
type Remote interface {
	CurrentUserID(ctx context.Context) (string, error)
	InsertOrder(ctx context.Context, row remote.OrderRow) error
	UpdateOrder(ctx context.Context, id string, row remote.OrderRow) error
	DeleteOrder(ctx context.Context, id string) error
	ListOrders(ctx context.Context, userID string) ([]remote.OrderRow, error)
}

// Connectivity reports whether the remote service is reachable.
type Connectivity interface {
	Online() bool
}

// Engine owns the online-aware reconciliation loop and the offline-first
// order workflow. Construct one per store; it is safe for concurrent use.
type Engine struct {
	db        *store.DB
	remote    Remote
	net       Connectivity
	bus       *bus.Bus
	logger    *zap.Logger
	retention time.Duration

	syncing atomic.Bool

	mu     gosync.Mutex
	cancel context.CancelFunc
	user   string
}

// NewEngine creates an engine. retention bounds how long synced queue
// items are kept before compaction.
func NewEngine(db *store.DB, r Remote, net Connectivity, b *bus.Bus, logger *zap.Logger, retention time.Duration) *Engine {
	return &Engine{
		db:        db,
		remote:    r,
		net:       net,
		bus:       b,
		logger:    logger,
		retention: retention,
	}
}

// Online reports current connectivity. Delegates to the monitor.
func (e *Engine) Online() bool {
	return e.net.Online()
}

// SetUser binds the authenticated user's id so mutations can be created
// while offline. Called by the auth layer on sign-in.
func (e *Engine) SetUser(id string) {
	e.mu.Lock()
	e.user = id
	e.mu.Unlock()
}

// ClearUser unbinds the current user. Called on sign-out.
func (e *Engine) ClearUser() {
	e.SetUser("")
}

// CurrentUser returns the bound user id, or empty when signed out.
func (e *Engine) CurrentUser() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.user
}

// StartAutoSync runs SyncAll immediately and then on every tick of
// interval. A second call replaces the previous schedule rather than
// stacking a duplicate timer.
func (e *Engine) StartAutoSync(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}

	e.mu.Lock()
	if e.cancel != nil {
		e.cancel()
	}
	ctx, e.cancel = context.WithCancel(ctx)
	e.mu.Unlock()

	go func() {
		e.SyncAll(ctx)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				e.SyncAll(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// StopAutoSync cancels the periodic schedule. Safe to call when no timer
// exists; an in-flight pass is not interrupted.
func (e *Engine) StopAutoSync() {
	e.mu.Lock()
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.mu.Unlock()
}

// SyncAll runs one full sync pass: drain the pending queue, then pull the
// authoritative order list. A call while offline or while a pass is
// already running is a silent no-op. Errors are logged, never returned;
// the next tick is the retry mechanism.
func (e *Engine) SyncAll(ctx context.Context) {
	if !e.net.Online() {
		return
	}
	if !e.syncing.CompareAndSwap(false, true) {
		return
	}
	defer e.syncing.Store(false)

	userID, err := e.remote.CurrentUserID(ctx)
	if err != nil {
		e.logger.Info("sync skipped: no user session", zap.Error(err))
		return
	}

	e.bus.Emit(bus.KindSyncStarted, userID)

	pending, err := e.db.PendingMutations(userID)
	if err != nil {
		e.logger.Error("read sync queue", zap.Error(err))
		return
	}

	for _, m := range pending {
		if err := e.push(ctx, m); err != nil {
			e.logger.Error("mutation push failed",
				zap.Error(err),
				zap.String("mutation_id", m.ID),
				zap.String("record_id", m.RecordID))
			if dbErr := e.db.SetMutationError(m.ID, err.Error()); dbErr != nil {
				e.logger.Error("record mutation error", zap.Error(dbErr), zap.String("mutation_id", m.ID))
			}
			e.bus.Emit(bus.KindSyncItemError, m.ID)
			continue
		}
		if err := e.db.MarkMutationSynced(m.ID); err != nil {
			e.logger.Error("mark mutation synced", zap.Error(err), zap.String("mutation_id", m.ID))
			continue
		}
		if m.Table == store.TableOrders && m.Action != store.ActionDelete {
			e.markOrderSynced(m.RecordID)
		}
	}

	// The pull runs even when the queue was empty so staff-side changes
	// reach the local cache.
	e.pull(ctx, userID)
	e.compact()

	e.bus.Emit(bus.KindSyncCompleted, userID)
}

// push dispatches one mutation to the remote service.
func (e *Engine) push(ctx context.Context, m *store.Mutation) error {
	if m.Table != store.TableOrders {
		return fmt.Errorf("unknown table %q", m.Table)
	}
	switch m.Action {
	case store.ActionCreate, store.ActionUpdate:
		var row remote.OrderRow
		if err := json.Unmarshal(m.Data, &row); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
		if m.Action == store.ActionCreate {
			return e.remote.InsertOrder(ctx, row)
		}
		return e.remote.UpdateOrder(ctx, m.RecordID, row)
	case store.ActionDelete:
		return e.remote.DeleteOrder(ctx, m.RecordID)
	default:
		return fmt.Errorf("unknown action %q", m.Action)
	}
}

// markOrderSynced flips the local row's flag after the server accepted
// the pushed mutation.
func (e *Engine) markOrderSynced(orderID string) {
	o, err := e.db.GetOrder(orderID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			e.logger.Error("load order after push", zap.Error(err), zap.String("order_id", orderID))
		}
		return
	}
	if o.IsSynced {
		return
	}
	o.IsSynced = true
	if err := e.db.SaveOrder(o); err != nil {
		e.logger.Error("flip order synced", zap.Error(err), zap.String("order_id", orderID))
		return
	}
	e.bus.Emit(bus.KindOrderSynced, orderID)
}

// pull upserts the authoritative order list into the local store.
func (e *Engine) pull(ctx context.Context, userID string) {
	rows, err := e.remote.ListOrders(ctx, userID)
	if err != nil {
		e.logger.Error("pull orders", zap.Error(err))
		return
	}
	for _, r := range rows {
		if err := e.db.SaveOrder(r.ToOrder()); err != nil {
			e.logger.Error("save pulled order", zap.Error(err), zap.String("order_id", r.ID))
		}
	}
}

// compact removes synced queue items past the retention window.
func (e *Engine) compact() {
	if e.retention <= 0 {
		return
	}
	n, err := e.db.PruneSyncedMutations(time.Now().Add(-e.retention))
	if err != nil {
		e.logger.Error("prune sync queue", zap.Error(err))
		return
	}
	if n > 0 {
		e.logger.Info("sync queue compacted", zap.Int64("pruned", n))
	}
}

// OrderDraft carries the caller-supplied fields of a new order. Zero
// fields get defaults: wash_fold service, draft status, amounts from the
// price list.
type OrderDraft struct {
	ServiceType         store.ServiceType
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
}

// CreateOrder writes a new order to the local store, enqueues a create
// mutation, and kicks off a background sync pass when online. The id is
// returned immediately; the caller never waits on the network.
func (e *Engine) CreateOrder(ctx context.Context, draft OrderDraft) (string, error) {
	userID := e.CurrentUser()
	if userID == "" {
		return "", ErrNotAuthenticated
	}

	now := time.Now()
	o := &store.Order{
		ID:                  uuid.NewString(),
		UserID:              userID,
		ServiceType:         draft.ServiceType,
		Status:              draft.Status,
		WeightLbs:           draft.WeightLbs,
		ItemCount:           draft.ItemCount,
		PickupDate:          draft.PickupDate,
		PickupTime:          draft.PickupTime,
		DeliveryDate:        draft.DeliveryDate,
		DeliveryTime:        draft.DeliveryTime,
		SpecialInstructions: draft.SpecialInstructions,
		Subtotal:            draft.Subtotal,
		Tax:                 draft.Tax,
		Total:               draft.Total,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if o.ServiceType == "" {
		o.ServiceType = store.WashFold
	}
	if o.Status == "" {
		o.Status = status.Draft
	}
	if o.Total == 0 {
		q := pricing.ForOrder(o.ServiceType, o.ItemCount)
		o.Subtotal, o.Tax, o.Total = q.Subtotal, q.Tax, q.Total
	}

	if err := e.db.SaveOrder(o); err != nil {
		return "", fmt.Errorf("save order: %w", err)
	}
	if err := e.enqueue(userID, store.ActionCreate, o); err != nil {
		return "", err
	}

	e.bus.Emit(bus.KindOrderSaved, o.ID)
	e.kick(ctx)
	return o.ID, nil
}

// UpdateOrderStatus moves an order along the fulfillment pipeline,
// validating the transition, and queues the change for the server.
func (e *Engine) UpdateOrderStatus(ctx context.Context, orderID string, to status.Status) error {
	if e.CurrentUser() == "" {
		return ErrNotAuthenticated
	}
	o, err := e.db.GetOrder(orderID)
	if err != nil {
		return err
	}
	if err := status.Transition(o.Status, to); err != nil {
		return err
	}

	o.Status = to
	o.IsSynced = false
	o.UpdatedAt = time.Now()
	if err := e.db.SaveOrder(o); err != nil {
		return fmt.Errorf("save order: %w", err)
	}
	if err := e.enqueue(o.UserID, store.ActionUpdate, o); err != nil {
		return err
	}

	e.bus.Emit(bus.KindOrderSaved, o.ID)
	e.kick(ctx)
	return nil
}

// CancelOrder cancels an order if its status allows it.
func (e *Engine) CancelOrder(ctx context.Context, orderID string) error {
	return e.UpdateOrderStatus(ctx, orderID, status.Cancelled)
}

// DeleteOrder removes an order locally and queues the remote delete.
func (e *Engine) DeleteOrder(ctx context.Context, orderID string) error {
	if e.CurrentUser() == "" {
		return ErrNotAuthenticated
	}
	o, err := e.db.GetOrder(orderID)
	if err != nil {
		return err
	}

	m := &store.Mutation{
		ID:        uuid.NewString(),
		UserID:    o.UserID,
		Action:    store.ActionDelete,
		Table:     store.TableOrders,
		RecordID:  o.ID,
		Data:      []byte(`{}`),
		CreatedAt: time.Now(),
	}
	if err := e.db.EnqueueMutation(m); err != nil {
		return fmt.Errorf("enqueue mutation: %w", err)
	}
	if err := e.db.DeleteOrder(o.ID); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	e.kick(ctx)
	return nil
}

// enqueue records a create/update mutation for an order.
func (e *Engine) enqueue(userID string, action store.Action, o *store.Order) error {
	data, err := json.Marshal(remote.RowFromOrder(o))
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	m := &store.Mutation{
		ID:        uuid.NewString(),
		UserID:    userID,
		Action:    action,
		Table:     store.TableOrders,
		RecordID:  o.ID,
		Data:      data,
		CreatedAt: time.Now(),
	}
	if err := e.db.EnqueueMutation(m); err != nil {
		return fmt.Errorf("enqueue mutation: %w", err)
	}
	return nil
}

// kick fires a background sync pass when online, without waiting on it.
func (e *Engine) kick(ctx context.Context) {
	if !e.net.Online() {
		return
	}
	go e.SyncAll(context.WithoutCancel(ctx))
}
