// Package pricing computes order quotes in naira.
package pricing

import "github.com/udclean/udc/internal/store"

// Unit prices per service. Wash & fold is priced per kg, the rest per item.
var unitPrices = map[store.ServiceType]int64{
	store.WashFold:    200,
	store.DryCleaning: 500,
	store.Ironing:     150,
	store.Premium:     800,
}

// DeliveryFee is the flat pickup-and-delivery charge.
const DeliveryFee int64 = 500

// taxRate is 7.5% VAT, applied to the subtotal.
const taxRate = 0.075

// Quote is a priced order breakdown.
type Quote struct {
	Subtotal    int64
	DeliveryFee int64
	Tax         int64
	Total       int64
}

// ForOrder quotes a service at the given quantity (kg or item count
// depending on the service). Unknown services quote at zero subtotal but
// still carry the delivery fee.
func ForOrder(service store.ServiceType, quantity int) Quote {
	subtotal := unitPrices[service] * int64(quantity)
	tax := int64(float64(subtotal)*taxRate + 0.5)
	return Quote{
		Subtotal:    subtotal,
		DeliveryFee: DeliveryFee,
		Tax:         tax,
		Total:       subtotal + DeliveryFee + tax,
	}
}
