//go:build e2e

package fines_test

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/aussiebroadwan/finepay/pkg/finesdk"
	"github.com/stretchr/testify/require"
)

// TestHealthWithCache verifies readiness reports the redis cache.
func TestHealthWithCache(t *testing.T) {
	baseURL := setupFinesStack(t)
	client := finesdk.NewClient(baseURL)

	health, err := client.GetLiveness(t.Context())
	assertHealthy(t, health, err)

	health, err = client.GetReadiness(t.Context())
	assertHealthy(t, health, err)
	require.NotNil(t, health.Checks)
	require.Equal(t, "ok", health.Checks.Database)
	require.Equal(t, "ok", health.Checks.Cache)
}

// TestFineReadsAreCached verifies the second read of a fine is served from redis.
func TestFineReadsAreCached(t *testing.T) {
	baseURL := setupFinesStack(t)
	client := finesdk.NewClient(baseURL)

	for range 2 {
		fine, err := client.GetFine(t.Context(), "1")
		require.NoError(t, err)
		require.Equal(t, "CT2024001234", fine.NoticeNumber)
	}

	metrics := scrapeMetrics(t, baseURL)
	require.Contains(t, metrics, `finepay_cache_lookups_total{kind="fine",result="miss"} 1`)
	require.Contains(t, metrics, `finepay_cache_lookups_total{kind="fine",result="hit"} 1`)
}

// TestSearchAndDashboard exercises the anonymous and signed in read paths.
func TestSearchAndDashboard(t *testing.T) {
	baseURL := setupFinesStack(t)
	client := finesdk.NewClient(baseURL)

	fines, err := client.SearchFines(t.Context(), finesdk.SearchParams{VehicleRegistration: "GP987654"})
	require.NoError(t, err)
	require.Len(t, fines, 1)
	require.Equal(t, "JHB2024005678", fines[0].NoticeNumber)

	session := loginJohn(t, client)
	dash, err := session.Dashboard(t.Context())
	require.NoError(t, err)
	require.Equal(t, 1, dash.Stats.OutstandingCount)
	require.Equal(t, 1, dash.Stats.VehicleCount)
}

// TestPaymentNotificationRecordsPayment runs a payment from initiation to
// the gateway notification.
func TestPaymentNotificationRecordsPayment(t *testing.T) {
	baseURL := setupFinesStack(t)
	client := finesdk.NewClient(baseURL)
	session := loginJohn(t, client)

	out, err := session.InitiatePayment(t.Context(), finesdk.InitiatePaymentRequest{FineID: "1"})
	require.NoError(t, err)
	require.InDelta(t, 500.0, out.Session.Amount, 0.001)

	form := url.Values{
		"m_payment_id":   {out.Session.ID},
		"pf_payment_id":  {"1089250"},
		"payment_status": {"COMPLETE"},
		"amount_gross":   {"500.00"},
		"merchant_id":    {merchantID},
	}
	resp, err := http.Post(baseURL+"/payment/notify/1", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	payments, err := session.Payments(t.Context())
	require.NoError(t, err)
	require.Len(t, payments, 2)

	var found bool
	for _, p := range payments {
		if p.TransactionID == "1089250" {
			found = true
			require.Equal(t, "COMPLETED", p.Status)
		}
	}
	require.True(t, found, "gateway payment should be in the history")
}

// TestLoginRateLimit verifies repeated logins for one email are throttled.
func TestLoginRateLimit(t *testing.T) {
	baseURL := setupFinesStack(t)
	client := finesdk.NewClient(baseURL)

	var limited bool
	for range 20 {
		_, _, err := client.Login(t.Context(), johnEmail, "wrong-password")
		require.Error(t, err)
		var apiErr *finesdk.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	require.True(t, limited, "login should be rate limited")
}
