package pricing

import (
	"testing"

	"github.com/udclean/udc/internal/store"
)

func TestForOrder(t *testing.T) {
	cases := []struct {
		name     string
		service  store.ServiceType
		quantity int
		want     Quote
	}{
		{"wash_fold 3kg", store.WashFold, 3, Quote{Subtotal: 600, DeliveryFee: 500, Tax: 45, Total: 1145}},
		{"dry_cleaning 2 items", store.DryCleaning, 2, Quote{Subtotal: 1000, DeliveryFee: 500, Tax: 75, Total: 1575}},
		{"ironing 4 items", store.Ironing, 4, Quote{Subtotal: 600, DeliveryFee: 500, Tax: 45, Total: 1145}},
		{"premium 1", store.Premium, 1, Quote{Subtotal: 800, DeliveryFee: 500, Tax: 60, Total: 1360}},
		{"zero quantity", store.WashFold, 0, Quote{Subtotal: 0, DeliveryFee: 500, Tax: 0, Total: 500}},
		{"unknown service", store.ServiceType("unknown"), 5, Quote{Subtotal: 0, DeliveryFee: 500, Tax: 0, Total: 500}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ForOrder(c.service, c.quantity)
			if got != c.want {
				t.Errorf("ForOrder(%s, %d) = %+v, want %+v", c.service, c.quantity, got, c.want)
			}
		})
	}
}

func TestTaxRounding(t *testing.T) {
	// 150 * 1 = 150 subtotal, 7.5% = 11.25 -> rounds to 11.
	q := ForOrder(store.Ironing, 1)
	if q.Tax != 11 {
		t.Errorf("Tax = %d, want 11 (rounded)", q.Tax)
	}
}
