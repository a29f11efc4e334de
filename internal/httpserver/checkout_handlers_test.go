package httpserver

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"tienda/internal/transport"
)

func floatPtr(v float64) *float64 { return &v }

func (env *testEnv) fillCart(productID uint, quantity int) {
	env.T.Helper()
	_, c := env.doJSON(http.MethodPost, "/api/v1/cart-items",
		transport.AddCartItemRequest{ProductID: productID, Quantity: quantity}, 1)
	require.NoError(env.T, env.Cart.AddItem(c))
}

func TestSummaryEmptyCart(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSON(http.MethodGet, "/api/v1/checkout/summary", nil, 1)
	require.NoError(t, env.Checkout.Summary(c))
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeJSON[map[string]any](t, rec)
	require.Equal(t, 0.0, resp["subtotal"])
	require.Equal(t, 5.0, resp["delivery_fee"])
	require.Equal(t, 0.0, resp["tax"])
	require.Equal(t, 5.0, resp["total"])
}

func TestSummaryWithDeliveryCheck(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct("Café", "cafe", 30.00, 10)
	env.fillCart(product.ID, 2)

	rec, c := env.doJSON(http.MethodGet, "/api/v1/checkout/summary?lat=-2.196160&lng=-79.886207", nil, 1)
	require.NoError(t, env.Checkout.Summary(c))
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeJSON[map[string]any](t, rec)
	require.Equal(t, 60.0, resp["subtotal"])
	require.Equal(t, 0.0, resp["delivery_fee"]) // above the free-shipping threshold

	check, ok := resp["delivery_check"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, true, check["within_range"])
	require.Equal(t, 0.0, check["distance_km"])
}

func TestCheckoutEmptyCartIs400(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSON(http.MethodPost, "/api/v1/checkout",
		transport.CheckoutRequest{Lat: floatPtr(-2.19), Lng: floatPtr(-79.88)}, 1)
	require.NoError(t, env.Checkout.Checkout(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutWithoutAddressIs400(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct("Café", "cafe", 10.00, 5)
	env.fillCart(product.ID, 1)

	rec, c := env.doJSON(http.MethodPost, "/api/v1/checkout", transport.CheckoutRequest{}, 1)
	require.NoError(t, env.Checkout.Checkout(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutAcceptedClearsCart(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct("Café", "cafe", 10.00, 5)
	env.fillCart(product.ID, 2)

	rec, c := env.doJSON(http.MethodPost, "/api/v1/checkout",
		transport.CheckoutRequest{Lat: floatPtr(-2.196160), Lng: floatPtr(-79.886207)}, 1)
	require.NoError(t, env.Checkout.Checkout(c))
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeJSON[map[string]any](t, rec)
	require.Equal(t, "accepted", resp["status"])

	receipt, ok := resp["receipt"].(map[string]any)
	require.True(t, ok)
	summary := receipt["summary"].(map[string]any)
	require.Equal(t, 20.0, summary["subtotal"])
	require.Equal(t, 27.4, summary["total"])

	rec, c = env.doJSON(http.MethodGet, "/api/v1/cart-items", nil, 1)
	require.NoError(t, env.Cart.GetCart(c))
	items := decodeJSON[[]map[string]any](t, rec)
	require.Empty(t, items)
}

func TestCheckoutOutOfRangeIsRejectionNotError(t *testing.T) {
	env := newTestEnv(t)
	product := env.seedProduct("Café", "cafe", 10.00, 5)
	env.fillCart(product.ID, 2)

	// Quito is far outside the Guayaquil delivery radius.
	rec, c := env.doJSON(http.MethodPost, "/api/v1/checkout",
		transport.CheckoutRequest{Lat: floatPtr(-0.180653), Lng: floatPtr(-78.467834)}, 1)
	require.NoError(t, env.Checkout.Checkout(c))
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeJSON[map[string]any](t, rec)
	require.Equal(t, "rejected", resp["status"])

	rejection, ok := resp["rejection"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "out_of_delivery_range", rejection["reason"])

	// The cart survives a rejection.
	rec, c = env.doJSON(http.MethodGet, "/api/v1/cart-items", nil, 1)
	require.NoError(t, env.Cart.GetCart(c))
	items := decodeJSON[[]map[string]any](t, rec)
	require.Len(t, items, 1)
}
