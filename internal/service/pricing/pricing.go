// Package pricing computes cart summaries. Everything here is pure: no
// I/O, no clock, no global state.
package pricing

import (
	"tienda/internal/models"
	"tienda/internal/util"
)

type Config struct {
	FreeShippingThreshold float64
	FlatFee               float64
	TaxRate               float64
}

func DefaultConfig() Config {
	return Config{
		FreeShippingThreshold: 50.00,
		FlatFee:               5.00,
		TaxRate:               0.12,
	}
}

type Summary struct {
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"delivery_fee"`
	Tax         float64 `json:"tax"`
	Total       float64 `json:"total"`
	ItemCount   int     `json:"item_count"`
}

// Summarize totals the given lines. Each component is rounded to 2
// decimals on its own before the grand total is formed. The delivery fee
// is waived only when the subtotal strictly exceeds the threshold, so a
// subtotal of exactly 50.00 still pays the flat fee - as does an empty
// cart.
func Summarize(items []models.CartItem, cfg Config) Summary {
	var subtotal float64
	var count int
	for _, item := range items {
		subtotal += item.Total
		count += int(item.Quantity)
	}
	subtotal = util.Round2(subtotal)

	fee := cfg.FlatFee
	if subtotal > cfg.FreeShippingThreshold {
		fee = 0
	}
	fee = util.Round2(fee)

	tax := util.Round2(subtotal * cfg.TaxRate)

	return Summary{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Tax:         tax,
		Total:       util.Round2(subtotal + fee + tax),
		ItemCount:   count,
	}
}
