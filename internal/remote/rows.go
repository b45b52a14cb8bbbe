package remote

import (
	"time"

	"github.com/udclean/udc/internal/status"
	"github.com/udclean/udc/internal/store"
)

// OrderRow is the orders table's wire shape. Zero-valued optional columns
// are omitted so inserts pick up server defaults.
type OrderRow struct {
	ID                  string  `json:"id"`
	UserID              string  `json:"user_id"`
	OrderNumber         string  `json:"order_number,omitempty"`
	ServiceType         string  `json:"service_type"`
	Status              string  `json:"status"`
	WeightLbs           float64 `json:"weight_lbs,omitempty"`
	ItemCount           int     `json:"item_count,omitempty"`
	PickupDate          string  `json:"pickup_date,omitempty"`
	PickupTime          string  `json:"pickup_time,omitempty"`
	DeliveryDate        string  `json:"delivery_date,omitempty"`
	DeliveryTime        string  `json:"delivery_time,omitempty"`
	SpecialInstructions string  `json:"special_instructions,omitempty"`
	Subtotal            int64   `json:"subtotal"`
	Tax                 int64   `json:"tax"`
	Total               int64   `json:"total"`
	IsSynced            bool    `json:"is_synced"`
	CreatedAt           string  `json:"created_at,omitempty"`
	UpdatedAt           string  `json:"updated_at,omitempty"`
}

// ProfileRow is the profiles table's wire shape.
type ProfileRow struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	FirstName     string `json:"first_name,omitempty"`
	LastName      string `json:"last_name,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Role          string `json:"role"`
	LoyaltyPoints int    `json:"loyalty_points"`
	CreatedAt     string `json:"created_at,omitempty"`
	UpdatedAt     string `json:"updated_at,omitempty"`
}

// RowFromOrder converts a local order into the insert/update shape.
func RowFromOrder(o *store.Order) OrderRow {
	return OrderRow{
		ID:                  o.ID,
		UserID:              o.UserID,
		OrderNumber:         o.OrderNumber,
		ServiceType:         string(o.ServiceType),
		Status:              string(o.Status),
		WeightLbs:           o.WeightLbs,
		ItemCount:           o.ItemCount,
		PickupDate:          o.PickupDate,
		PickupTime:          o.PickupTime,
		DeliveryDate:        o.DeliveryDate,
		DeliveryTime:        o.DeliveryTime,
		SpecialInstructions: o.SpecialInstructions,
		Subtotal:            o.Subtotal,
		Tax:                 o.Tax,
		Total:               o.Total,
		IsSynced:            o.IsSynced,
		CreatedAt:           formatTime(o.CreatedAt),
		UpdatedAt:           formatTime(o.UpdatedAt),
	}
}

// ToOrder converts a server row into a local order. The server is
// authoritative, so the result always carries IsSynced=true.
func (r OrderRow) ToOrder() *store.Order {
	return &store.Order{
		ID:                  r.ID,
		UserID:              r.UserID,
		OrderNumber:         r.OrderNumber,
		ServiceType:         store.ServiceType(r.ServiceType),
		Status:              status.Status(r.Status),
		WeightLbs:           r.WeightLbs,
		ItemCount:           r.ItemCount,
		PickupDate:          r.PickupDate,
		PickupTime:          r.PickupTime,
		DeliveryDate:        r.DeliveryDate,
		DeliveryTime:        r.DeliveryTime,
		SpecialInstructions: r.SpecialInstructions,
		Subtotal:            r.Subtotal,
		Tax:                 r.Tax,
		Total:               r.Total,
		IsSynced:            true,
		CreatedAt:           parseTime(r.CreatedAt),
		UpdatedAt:           parseTime(r.UpdatedAt),
	}
}

// ToProfile converts a server profile row into the local snapshot.
func (r ProfileRow) ToProfile() *store.Profile {
	return &store.Profile{
		ID:            r.ID,
		Email:         r.Email,
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		Phone:         r.Phone,
		Role:          r.Role,
		LoyaltyPoints: r.LoyaltyPoints,
		CreatedAt:     parseTime(r.CreatedAt),
		UpdatedAt:     parseTime(r.UpdatedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
