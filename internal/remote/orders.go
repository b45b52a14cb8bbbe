package remote

import (
	"context"
	"fmt"

	"github.com/supabase-community/postgrest-go"
)

// InsertOrder pushes a locally created order to the orders table.
func (c *Client) InsertOrder(_ context.Context, row OrderRow) error {
	if _, _, err := c.sb.From("orders").Insert(row, false, "", "", "").Execute(); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// UpdateOrder applies row to the order with the given id.
func (c *Client) UpdateOrder(_ context.Context, id string, row OrderRow) error {
	if _, _, err := c.sb.From("orders").Update(row, "", "").Eq("id", id).Execute(); err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return nil
}

// DeleteOrder removes the order with the given id.
func (c *Client) DeleteOrder(_ context.Context, id string) error {
	if _, _, err := c.sb.From("orders").Delete("", "").Eq("id", id).Execute(); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

// ListOrders returns the authoritative order list for a user, newest first.
func (c *Client) ListOrders(_ context.Context, userID string) ([]OrderRow, error) {
	var rows []OrderRow
	_, err := c.sb.From("orders").
		Select("*", "", false).
		Eq("user_id", userID).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return rows, nil
}

// FetchProfile returns the profile row for a user id.
func (c *Client) FetchProfile(_ context.Context, id string) (*ProfileRow, error) {
	var rows []ProfileRow
	_, err := c.sb.From("profiles").
		Select("*", "", false).
		Eq("id", id).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("fetch profile: no row for %s", id)
	}
	return &rows[0], nil
}
