package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/udclean/udc/internal/status"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testOrder(id, userID string) *Order {
	now := time.UnixMilli(time.Now().UnixMilli())
	return &Order{
		ID:          id,
		UserID:      userID,
		ServiceType: WashFold,
		Status:      status.Draft,
		ItemCount:   3,
		Subtotal:    600,
		Tax:         45,
		Total:       1145,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestMigrateIdempotent(t *testing.T) {
	db := testDB(t)

	// testDB already ran Migrate, so run it again to check idempotency.
	result, err := db.Migrate()
	if err != nil {
		t.Fatal(err)
	}
	if result.Changed {
		t.Error("second Migrate() should report Changed=false")
	}
	if result.Version != 1 {
		t.Errorf("version = %d, want 1", result.Version)
	}
}

func TestOrderSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}

	want := testOrder("o1", "u1")
	want.SpecialInstructions = "no starch"
	if err := db.SaveOrder(want); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	// Simulated restart: reopen the same file.
	db, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	got, err := db.GetOrder("o1")
	if err != nil {
		t.Fatal(err)
	}
	if *got != *want {
		t.Errorf("after reopen got %+v, want %+v", got, want)
	}
}

func TestSaveOrderUpsert(t *testing.T) {
	db := testDB(t)

	o := testOrder("o1", "u1")
	if err := db.SaveOrder(o); err != nil {
		t.Fatal(err)
	}

	o.Status = status.Scheduled
	o.IsSynced = true
	if err := db.SaveOrder(o); err != nil {
		t.Fatal(err)
	}

	orders, err := db.OrdersByUser("u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(orders) != 1 {
		t.Fatalf("got %d orders, want 1 (idempotent upsert failed)", len(orders))
	}
	if orders[0].Status != status.Scheduled || !orders[0].IsSynced {
		t.Errorf("got %+v, want latest values", orders[0])
	}
}

func TestGetOrderMissing(t *testing.T) {
	db := testDB(t)

	_, err := db.GetOrder("missing")
	if err != ErrNotFound {
		t.Errorf("GetOrder(missing) error = %v, want ErrNotFound", err)
	}
}

func TestOrdersByUserScoped(t *testing.T) {
	db := testDB(t)

	for _, o := range []*Order{testOrder("a", "u1"), testOrder("b", "u1"), testOrder("c", "u2")} {
		if err := db.SaveOrder(o); err != nil {
			t.Fatal(err)
		}
	}

	orders, err := db.OrdersByUser("u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(orders) != 2 {
		t.Errorf("got %d orders for u1, want 2", len(orders))
	}
}

func TestUnsyncedOrders(t *testing.T) {
	db := testDB(t)

	synced := testOrder("a", "u1")
	synced.IsSynced = true
	pending := testOrder("b", "u1")
	for _, o := range []*Order{synced, pending} {
		if err := db.SaveOrder(o); err != nil {
			t.Fatal(err)
		}
	}

	orders, err := db.UnsyncedOrders("u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(orders) != 1 || orders[0].ID != "b" {
		t.Errorf("UnsyncedOrders = %v, want just b", orders)
	}
}

func TestProfileUpsertAndGet(t *testing.T) {
	db := testDB(t)

	now := time.UnixMilli(time.Now().UnixMilli())
	p := &Profile{ID: "u1", Email: "a@b.c", FirstName: "Amina", Role: "customer", LoyaltyPoints: 10, CreatedAt: now, UpdatedAt: now}
	if err := db.SaveProfile(p); err != nil {
		t.Fatal(err)
	}

	p.LoyaltyPoints = 25
	if err := db.SaveProfile(p); err != nil {
		t.Fatal(err)
	}

	got, err := db.GetProfile("u1")
	if err != nil {
		t.Fatal(err)
	}
	if got.LoyaltyPoints != 25 {
		t.Errorf("loyalty_points = %d, want 25", got.LoyaltyPoints)
	}

	if _, err := db.GetProfile("missing"); err != ErrNotFound {
		t.Errorf("GetProfile(missing) error = %v, want ErrNotFound", err)
	}
}

func TestQueueEnqueueAndDrainOrder(t *testing.T) {
	db := testDB(t)

	now := time.Now()
	for _, id := range []string{"m1", "m2", "m3"} {
		m := &Mutation{
			ID: id, UserID: "u1", Action: ActionCreate, Table: TableOrders,
			RecordID: "o-" + id, Data: []byte(`{"id":"x"}`), CreatedAt: now,
		}
		if err := db.EnqueueMutation(m); err != nil {
			t.Fatal(err)
		}
	}

	pending, err := db.PendingMutations("u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 3 {
		t.Fatalf("got %d pending, want 3", len(pending))
	}
	// Seq fixes drain order regardless of created_at ties.
	for i, want := range []string{"m1", "m2", "m3"} {
		if pending[i].ID != want {
			t.Errorf("pending[%d] = %s, want %s", i, pending[i].ID, want)
		}
	}
}

func TestMarkMutationSynced(t *testing.T) {
	db := testDB(t)

	m := &Mutation{ID: "m1", UserID: "u1", Action: ActionCreate, Table: TableOrders, RecordID: "o1", Data: []byte(`{}`), CreatedAt: time.Now()}
	if err := db.EnqueueMutation(m); err != nil {
		t.Fatal(err)
	}
	if err := db.SetMutationError("m1", "network error"); err != nil {
		t.Fatal(err)
	}
	if err := db.MarkMutationSynced("m1"); err != nil {
		t.Fatal(err)
	}

	pending, err := db.PendingMutations("u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 0 {
		t.Errorf("got %d pending after mark, want 0", len(pending))
	}

	// Absent id is a no-op, not an error.
	if err := db.MarkMutationSynced("missing"); err != nil {
		t.Errorf("MarkMutationSynced(missing) error = %v", err)
	}
}

func TestPruneSyncedMutations(t *testing.T) {
	db := testDB(t)

	old := &Mutation{ID: "old", UserID: "u1", Action: ActionCreate, Table: TableOrders, RecordID: "o1", Data: []byte(`{}`), Synced: true, CreatedAt: time.Now().Add(-48 * time.Hour)}
	fresh := &Mutation{ID: "fresh", UserID: "u1", Action: ActionCreate, Table: TableOrders, RecordID: "o2", Data: []byte(`{}`), Synced: true, CreatedAt: time.Now()}
	unsynced := &Mutation{ID: "unsynced", UserID: "u1", Action: ActionCreate, Table: TableOrders, RecordID: "o3", Data: []byte(`{}`), CreatedAt: time.Now().Add(-48 * time.Hour)}
	for _, m := range []*Mutation{old, fresh, unsynced} {
		if err := db.EnqueueMutation(m); err != nil {
			t.Fatal(err)
		}
	}

	n, err := db.PruneSyncedMutations(time.Now().Add(-24 * time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("pruned %d rows, want 1 (only old+synced)", n)
	}

	// The unsynced item must survive regardless of age.
	pending, err := db.PendingMutations("u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 || pending[0].ID != "unsynced" {
		t.Errorf("pending = %v, want just unsynced", pending)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	db := testDB(t)

	if _, err := db.GetSession(); err != ErrNotFound {
		t.Errorf("GetSession() on empty store error = %v, want ErrNotFound", err)
	}

	if err := db.SaveSession([]byte(`{"access_token":"t1"}`)); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveSession([]byte(`{"access_token":"t2"}`)); err != nil {
		t.Fatal(err)
	}

	got, err := db.GetSession()
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `{"access_token":"t2"}` {
		t.Errorf("GetSession() = %s, want latest value", got)
	}

	if err := db.ClearSession(); err != nil {
		t.Fatal(err)
	}
	if _, err := db.GetSession(); err != ErrNotFound {
		t.Errorf("GetSession() after clear error = %v, want ErrNotFound", err)
	}
}
