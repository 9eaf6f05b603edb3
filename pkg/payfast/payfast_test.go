package payfast_test

import (
	"net/url"
	"testing"

	"github.com/aussiebroadwan/finepay/pkg/payfast"
	"github.com/stretchr/testify/require"
)

func TestCheckout(t *testing.T) {
	t.Parallel()

	gw := payfast.New(payfast.Config{
		MerchantID:  "10000100",
		MerchantKey: "46f0cd694581a",
		Sandbox:     true,
		BaseURL:     "https://fines.example.co.za/",
	})

	c := gw.Checkout(payfast.Order{
		PaymentID:           "session-1",
		Email:               "john.smith@email.com",
		Amount:              500,
		FineID:              "1",
		NoticeNumber:        "CT2024001234",
		OffenseDescription:  "Exceeding speed limit by 10-20 km/h",
		Location:            "N1 Highway, Bellville",
		DriverIDNumber:      "8001015009087",
		VehicleRegistration: "CA123456",
	})

	require.Equal(t, payfast.SandboxURL, c.Action)
	require.Equal(t, "POST", c.Method)

	want := []payfast.Field{
		{Name: "merchant_id", Value: "10000100"},
		{Name: "merchant_key", Value: "46f0cd694581a"},
		{Name: "return_url", Value: "https://fines.example.co.za/payment/1/success"},
		{Name: "cancel_url", Value: "https://fines.example.co.za/payment/1/cancel"},
		{Name: "notify_url", Value: "https://fines.example.co.za/payment/notify/1"},
		{Name: "email_address", Value: "john.smith@email.com"},
		{Name: "m_payment_id", Value: "session-1"},
		{Name: "amount", Value: "500.00"},
		{Name: "item_name", Value: "Traffic Fine - CT2024001234"},
		{Name: "item_description", Value: "Exceeding speed limit by 10-20 km/h - N1 Highway, Bellville"},
		{Name: "custom_int1", Value: "1"},
		{Name: "custom_str1", Value: "CT2024001234"},
		{Name: "custom_str2", Value: "8001015009087"},
		{Name: "custom_str3", Value: "CA123456"},
	}
	require.Equal(t, want, c.Fields)
	require.Equal(t, "500.00", c.Values().Get("amount"))
	require.Equal(t, "CA123456", c.Get("custom_str3"))
	require.Empty(t, c.Get("signature"))
}

func TestActionURL(t *testing.T) {
	t.Parallel()

	require.Equal(t, payfast.LiveURL, payfast.New(payfast.Config{}).ActionURL())
	require.Equal(t, payfast.SandboxURL, payfast.New(payfast.Config{Sandbox: true}).ActionURL())
}

func TestFormatAmount(t *testing.T) {
	t.Parallel()

	require.Equal(t, "1500.00", payfast.FormatAmount(1500))
	require.Equal(t, "99.95", payfast.FormatAmount(99.95))
	require.Equal(t, "0.10", payfast.FormatAmount(0.1))
}

func TestParseNotification(t *testing.T) {
	t.Parallel()

	t.Run("complete", func(t *testing.T) {
		n, err := payfast.ParseNotification(url.Values{
			"m_payment_id":   {"session-1"},
			"pf_payment_id":  {"1089250"},
			"payment_status": {"complete"},
			"amount_gross":   {"500.00"},
			"merchant_id":    {"10000100"},
		})
		require.NoError(t, err)
		require.Equal(t, "session-1", n.PaymentID)
		require.Equal(t, "1089250", n.GatewayPaymentID)
		require.Equal(t, payfast.StatusComplete, n.PaymentStatus)
		require.InDelta(t, 500.0, n.AmountGross, 0.001)
	})

	t.Run("missing payment id", func(t *testing.T) {
		_, err := payfast.ParseNotification(url.Values{"payment_status": {"COMPLETE"}})
		require.ErrorIs(t, err, payfast.ErrInvalidNotification)
	})

	t.Run("missing status", func(t *testing.T) {
		_, err := payfast.ParseNotification(url.Values{"m_payment_id": {"x"}})
		require.ErrorIs(t, err, payfast.ErrInvalidNotification)
	})

	t.Run("bad amount", func(t *testing.T) {
		_, err := payfast.ParseNotification(url.Values{
			"m_payment_id":   {"x"},
			"payment_status": {"COMPLETE"},
			"amount_gross":   {"five hundred"},
		})
		require.ErrorIs(t, err, payfast.ErrInvalidNotification)
	})

	for _, raw := range []string{"Inf", "+Inf", "-Inf", "infinity", "NaN", "0", "-5"} {
		t.Run("rejects amount "+raw, func(t *testing.T) {
			_, err := payfast.ParseNotification(url.Values{
				"m_payment_id":   {"x"},
				"payment_status": {"COMPLETE"},
				"amount_gross":   {raw},
			})
			require.ErrorIs(t, err, payfast.ErrInvalidNotification)
		})
	}
}

func TestAccepts(t *testing.T) {
	t.Parallel()

	open := payfast.New(payfast.Config{})
	require.True(t, open.Accepts(payfast.Notification{MerchantID: "anything"}))

	gw := payfast.New(payfast.Config{MerchantID: "10000100"})
	require.True(t, gw.Accepts(payfast.Notification{MerchantID: "10000100"}))
	require.False(t, gw.Accepts(payfast.Notification{MerchantID: "999"}))
}
