package store

import "time"

// EnqueueMutation upserts a pending mutation by id. Seq is assigned on
// first insert and never changes, so replays drain in enqueue order.
func (db *DB) EnqueueMutation(m *Mutation) error {
	_, err := db.Exec(`
		INSERT INTO sync_queue (id, user_id, action, table_name, record_id, data, synced, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			data = excluded.data,
			synced = excluded.synced,
			error = excluded.error`,
		m.ID, m.UserID, m.Action, m.Table, m.RecordID, string(m.Data),
		m.Synced, m.Error, m.CreatedAt.UnixMilli())
	return err
}

// PendingMutations returns a user's unsynced queue items in enqueue order.
func (db *DB) PendingMutations(userID string) ([]*Mutation, error) {
	rows, err := db.Query(`
		SELECT seq, id, user_id, action, table_name, record_id, data, synced, error, created_at
		FROM sync_queue WHERE user_id = ? AND synced = 0 ORDER BY seq ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []*Mutation
	for rows.Next() {
		var m Mutation
		var data string
		var createdAt int64
		if err := rows.Scan(&m.Seq, &m.ID, &m.UserID, &m.Action, &m.Table,
			&m.RecordID, &data, &m.Synced, &m.Error, &createdAt); err != nil {
			return nil, err
		}
		m.Data = []byte(data)
		m.CreatedAt = time.UnixMilli(createdAt)
		items = append(items, &m)
	}
	return items, rows.Err()
}

// MarkMutationSynced flips a queue item to synced. No-op if the id is absent.
func (db *DB) MarkMutationSynced(id string) error {
	_, err := db.Exec(`UPDATE sync_queue SET synced = 1, error = '' WHERE id = ?`, id)
	return err
}

// SetMutationError records the last failure message for diagnostics.
// The item stays unsynced and is retried on the next pass.
func (db *DB) SetMutationError(id, msg string) error {
	_, err := db.Exec(`UPDATE sync_queue SET error = ? WHERE id = ?`, msg, id)
	return err
}

// PruneSyncedMutations deletes synced queue items older than the cutoff.
// Synced items are inert, so this only bounds table growth.
func (db *DB) PruneSyncedMutations(olderThan time.Time) (int64, error) {
	res, err := db.Exec(`DELETE FROM sync_queue WHERE synced = 1 AND created_at < ?`,
		olderThan.UnixMilli())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
