package store

import (
	"database/sql"
	"errors"
	"time"
)

const orderColumns = `id, user_id, order_number, service_type, status, weight_lbs,
	item_count, pickup_date, pickup_time, delivery_date, delivery_time,
	special_instructions, subtotal, tax, total, is_synced, created_at, updated_at`

// SaveOrder upserts an order by id. Later reads reflect the new value
// immediately; an existing row with the same id is overwritten silently.
func (db *DB) SaveOrder(o *Order) error {
	_, err := db.Exec(`
		INSERT INTO orders (`+orderColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			order_number = excluded.order_number,
			service_type = excluded.service_type,
			status = excluded.status,
			weight_lbs = excluded.weight_lbs,
			item_count = excluded.item_count,
			pickup_date = excluded.pickup_date,
			pickup_time = excluded.pickup_time,
			delivery_date = excluded.delivery_date,
			delivery_time = excluded.delivery_time,
			special_instructions = excluded.special_instructions,
			subtotal = excluded.subtotal,
			tax = excluded.tax,
			total = excluded.total,
			is_synced = excluded.is_synced,
			updated_at = excluded.updated_at`,
		o.ID, o.UserID, o.OrderNumber, o.ServiceType, o.Status, o.WeightLbs,
		o.ItemCount, o.PickupDate, o.PickupTime, o.DeliveryDate, o.DeliveryTime,
		o.SpecialInstructions, o.Subtotal, o.Tax, o.Total, o.IsSynced,
		o.CreatedAt.UnixMilli(), o.UpdatedAt.UnixMilli())
	return err
}

// GetOrder returns the order with the given id, or ErrNotFound.
func (db *DB) GetOrder(id string) (*Order, error) {
	row := db.QueryRow(`SELECT `+orderColumns+` FROM orders WHERE id = ?`, id)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return o, err
}

// OrdersByUser returns all orders owned by userID, newest first.
func (db *DB) OrdersByUser(userID string) ([]*Order, error) {
	rows, err := db.Query(`
		SELECT `+orderColumns+` FROM orders
		WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return collectOrders(rows)
}

// DeleteOrder removes the local row for id. No-op when absent. Only an
// explicit delete mutation reaches this; sync passes never call it.
func (db *DB) DeleteOrder(id string) error {
	_, err := db.Exec(`DELETE FROM orders WHERE id = ?`, id)
	return err
}

// UnsyncedOrders returns orders not yet accepted by the server.
func (db *DB) UnsyncedOrders(userID string) ([]*Order, error) {
	rows, err := db.Query(`
		SELECT `+orderColumns+` FROM orders
		WHERE user_id = ? AND is_synced = 0 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return collectOrders(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(r rowScanner) (*Order, error) {
	var o Order
	var createdAt, updatedAt int64
	err := r.Scan(&o.ID, &o.UserID, &o.OrderNumber, &o.ServiceType, &o.Status,
		&o.WeightLbs, &o.ItemCount, &o.PickupDate, &o.PickupTime,
		&o.DeliveryDate, &o.DeliveryTime, &o.SpecialInstructions,
		&o.Subtotal, &o.Tax, &o.Total, &o.IsSynced, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	o.CreatedAt = time.UnixMilli(createdAt)
	o.UpdatedAt = time.UnixMilli(updatedAt)
	return &o, nil
}

func collectOrders(rows *sql.Rows) ([]*Order, error) {
	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
