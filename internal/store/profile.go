package store

import (
	"database/sql"
	"errors"
	"time"
)

// SaveProfile upserts the cached profile snapshot by id.
func (db *DB) SaveProfile(p *Profile) error {
	_, err := db.Exec(`
		INSERT INTO profiles (id, email, first_name, last_name, phone, role, loyalty_points, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email = excluded.email,
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			phone = excluded.phone,
			role = excluded.role,
			loyalty_points = excluded.loyalty_points,
			updated_at = excluded.updated_at`,
		p.ID, p.Email, p.FirstName, p.LastName, p.Phone, p.Role,
		p.LoyaltyPoints, p.CreatedAt.UnixMilli(), p.UpdatedAt.UnixMilli())
	return err
}

// GetProfile returns the cached profile for id, or ErrNotFound.
func (db *DB) GetProfile(id string) (*Profile, error) {
	var p Profile
	var createdAt, updatedAt int64
	err := db.QueryRow(`
		SELECT id, email, first_name, last_name, phone, role, loyalty_points, created_at, updated_at
		FROM profiles WHERE id = ?`, id).Scan(
		&p.ID, &p.Email, &p.FirstName, &p.LastName, &p.Phone, &p.Role,
		&p.LoyaltyPoints, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.CreatedAt = time.UnixMilli(createdAt)
	p.UpdatedAt = time.UnixMilli(updatedAt)
	return &p, nil
}
