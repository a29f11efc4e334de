package pricing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tienda/internal/models"
)

func items(totals ...float64) []models.CartItem {
	out := make([]models.CartItem, len(totals))
	for i, t := range totals {
		out[i] = models.CartItem{Quantity: 1, Total: t}
	}
	return out
}

func TestSummarizeEmptyCart(t *testing.T) {
	s := Summarize(nil, DefaultConfig())

	require.Equal(t, 0.0, s.Subtotal)
	require.Equal(t, 5.00, s.DeliveryFee)
	require.Equal(t, 0.0, s.Tax)
	require.Equal(t, 5.00, s.Total)
	require.Equal(t, 0, s.ItemCount)
}

func TestSummarizeFeeThresholdIsStrict(t *testing.T) {
	atThreshold := Summarize(items(50.00), DefaultConfig())
	require.Equal(t, 5.00, atThreshold.DeliveryFee)
	require.Equal(t, 6.00, atThreshold.Tax)
	require.Equal(t, 61.00, atThreshold.Total)

	aboveThreshold := Summarize(items(50.01), DefaultConfig())
	require.Equal(t, 0.0, aboveThreshold.DeliveryFee)
}

func TestSummarizeRoundsComponentsIndependently(t *testing.T) {
	// 10.004 + 10.004 = 20.008 -> subtotal rounds to 20.01 before tax.
	s := Summarize(items(10.004, 10.004), DefaultConfig())

	require.Equal(t, 20.01, s.Subtotal)
	require.Equal(t, 2.40, s.Tax)
	require.Equal(t, 5.00, s.DeliveryFee)
	require.Equal(t, 27.41, s.Total)
}

func TestSummarizeCountsUnits(t *testing.T) {
	s := Summarize([]models.CartItem{
		{Quantity: 2, Total: 20.00},
		{Quantity: 3, Total: 30.00},
	}, DefaultConfig())

	require.Equal(t, 5, s.ItemCount)
	require.Equal(t, 50.00, s.Subtotal)
}

func TestSummarizeCustomConfig(t *testing.T) {
	cfg := Config{FreeShippingThreshold: 10, FlatFee: 2.50, TaxRate: 0}
	s := Summarize(items(8.00), cfg)

	require.Equal(t, 8.00, s.Subtotal)
	require.Equal(t, 2.50, s.DeliveryFee)
	require.Equal(t, 0.0, s.Tax)
	require.Equal(t, 10.50, s.Total)
}
