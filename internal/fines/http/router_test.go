package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/finepay/internal/fines/metrics"
	"github.com/aussiebroadwan/finepay/internal/fines/service"
	"github.com/aussiebroadwan/finepay/internal/fines/store/drivers/sqlite"
	"github.com/aussiebroadwan/finepay/internal/fines/store/seed"
	"github.com/aussiebroadwan/finepay/pkg/cryptox"
	"github.com/aussiebroadwan/finepay/pkg/finesdk"
	"github.com/aussiebroadwan/finepay/pkg/jwtx"
	"github.com/aussiebroadwan/finepay/pkg/payfast"
	"github.com/aussiebroadwan/finepay/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer   = "finepay-test"
	testMerchant = "10000100"
)

type testServer struct {
	url     string
	client  *finesdk.Client
	metrics *metrics.Metrics
}

// newTestServer serves a fully wired router over an in-memory store loaded
// with the default fixtures.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	st, err := sqlite.NewStore(sqlite.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	hasher := cryptox.NewPasswordHasher("test-pepper")
	fx, err := seed.Default()
	require.NoError(t, err)
	require.NoError(t, seed.Apply(ctx, st, fx, hasher, slogx.Discard()))

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("test", pemKey)
	require.NoError(t, err)
	keys := jwtx.NewKeySet()
	keys.Add(signer.KID(), signer.Public())
	verifier := jwtx.NewVerifierEdDSA(keys, testIssuer)

	m := metrics.New()
	gateway := payfast.New(payfast.Config{MerchantID: testMerchant, Sandbox: true, BaseURL: "http://localhost:8080"})

	router := NewRouter(signer, verifier, "test", st, slogx.Discard())
	router.Metrics = m
	router.Gateway = gateway
	router.FineService = &service.FineService{Store: st, Metrics: m}
	router.UserService = &service.UserService{
		Store:    st,
		Hasher:   hasher,
		Signer:   signer,
		Issuer:   testIssuer,
		TokenTTL: time.Hour,
		Metrics:  m,
	}
	router.PaymentService = &service.PaymentService{Store: st, Gateway: gateway, Metrics: m}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testServer{url: srv.URL, client: finesdk.NewClient(srv.URL), metrics: m}
}

func registerJane(t *testing.T, ts *testServer) (*finesdk.Session, *finesdk.AuthResponse) {
	t.Helper()
	sess, auth, err := ts.client.Register(context.Background(), finesdk.RegisterUserRequest{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane.doe@example.com",
		Phone:     "083 555 0101",
		IDNumber:  "9001010000007",
		Password:  "correct-horse",
	})
	require.NoError(t, err)
	return sess, auth
}

func postJSON(t *testing.T, rawURL, token string, body any) *http.Response {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, rawURL, bytes.NewReader(buf))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func postNotification(t *testing.T, ts *testServer, fineID string, form url.Values) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.url+"/payment/notify/"+fineID, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	return resp
}

func TestSearchEndpoint(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := newTestServer(t)

	fines, err := ts.client.SearchFines(ctx, finesdk.SearchParams{IDNumber: "8001015009087"})
	require.NoError(t, err)
	require.Len(t, fines, 1)
	require.Equal(t, "CT2024001234", fines[0].NoticeNumber)
	require.Equal(t, "City of Tshwane", fines[0].Municipality.Name)

	fines, err = ts.client.SearchFines(ctx, finesdk.SearchParams{NoticeNumber: "JHB2024005678", VehicleRegistration: "NP456789"})
	require.NoError(t, err)
	require.Len(t, fines, 2)

	// No criteria yields an empty list, not null.
	resp, err := http.Get(ts.url + "/v1/fines")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var raw map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	require.JSONEq(t, `[]`, string(raw["results"]))

	require.Equal(t, 1.0, testutil.ToFloat64(ts.metrics.SearchesTotal.WithLabelValues("single")))
	require.Equal(t, 1.0, testutil.ToFloat64(ts.metrics.SearchesTotal.WithLabelValues("multi")))
}

func TestSearchEndpointMatchesExactly(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{name: "exact id", query: "idNumber=8001015009087", want: 1},
		{name: "padded id", query: "idNumber=%208001015009087%20", want: 0},
		{name: "trailing space notice", query: "noticeNumber=CT2024001234%20", want: 0},
		{name: "lowercase registration", query: "vehicleRegistration=ca123456", want: 0},
		{name: "lowercase notice", query: "noticeNumber=ct2024001234", want: 0},
		// A blank value still counts as a criterion, so this is an OR search.
		{name: "blank notice with id", query: "idNumber=8001015009087&noticeNumber=%20", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(ts.url + "/v1/fines?" + tt.query)
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var body finesdk.SearchResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			require.NotNil(t, body.Results)
			require.Len(t, body.Results, tt.want)
		})
	}

	require.Equal(t, 1.0, testutil.ToFloat64(ts.metrics.SearchesTotal.WithLabelValues("multi")))
}

func TestGetFineEndpoint(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := newTestServer(t)

	f, err := ts.client.GetFine(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, "SP001", f.Offense.Code)
	require.NotNil(t, f.DiscountAmount)
	require.Equal(t, 50.0, *f.DiscountAmount)

	_, err = ts.client.GetFine(ctx, "999")
	require.ErrorIs(t, err, finesdk.ErrNotFound)
	var apiErr *finesdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	require.Equal(t, "Fine not found", apiErr.Description)
}

func TestMunicipalitiesEndpoint(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	ms, err := ts.client.ListMunicipalities(context.Background())
	require.NoError(t, err)
	require.Len(t, ms, 4)
}

func TestRegisterAndLoginEndpoints(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := newTestServer(t)

	_, auth := registerJane(t, ts)
	require.NotEmpty(t, auth.Token)
	require.Equal(t, "jane.doe@example.com", auth.User.Email)
	require.NotNil(t, auth.User.Vehicles)

	_, _, err := ts.client.Register(ctx, finesdk.RegisterUserRequest{
		FirstName: "John",
		LastName:  "Again",
		Email:     "john.smith@email.com",
		Phone:     "082 000 0000",
		IDNumber:  "9001010000015",
		Password:  "password123",
	})
	require.ErrorIs(t, err, finesdk.ErrDuplicateAccount)

	_, _, err = ts.client.Register(ctx, finesdk.RegisterUserRequest{Email: "not-an-email"})
	require.ErrorIs(t, err, finesdk.ErrValidation)
	var apiErr *finesdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Contains(t, apiErr.Fields, "email")
	require.Contains(t, apiErr.Fields, "firstName")

	sess, login, err := ts.client.Login(ctx, "john.smith@email.com", "password123")
	require.NoError(t, err)
	require.Equal(t, "John", login.User.FirstName)
	require.Len(t, login.User.Vehicles, 1)

	me, err := sess.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "8001015009087", me.IDNumber)

	_, _, err = ts.client.Login(ctx, "john.smith@email.com", "wrong")
	require.ErrorIs(t, err, finesdk.ErrInvalidCredentials)
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "Invalid email or password", apiErr.Description)
}

func TestMeRequiresToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := newTestServer(t)

	_, err := ts.client.NewSession("").Me(ctx)
	require.ErrorIs(t, err, finesdk.ErrUnauthenticated)

	_, err = ts.client.NewSession("garbage").Dashboard(ctx)
	require.ErrorIs(t, err, finesdk.ErrUnauthenticated)
}

func TestMeEndpoints(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := newTestServer(t)

	sess, _ := registerJane(t, ts)

	fines, err := sess.MyFines(ctx)
	require.NoError(t, err)
	require.Empty(t, fines)

	u, err := sess.AddVehicle(ctx, finesdk.AddVehicleRequest{
		Registration: "gp 987-654",
		Make:         "VW",
		Model:        "Polo",
		Year:         2019,
	})
	require.NoError(t, err)
	require.Len(t, u.Vehicles, 1)
	require.Equal(t, "GP987654", u.Vehicles[0].Registration)

	_, err = sess.AddVehicle(ctx, finesdk.AddVehicleRequest{Registration: "GP987654", Make: "VW", Model: "Polo", Year: 2019})
	require.ErrorIs(t, err, finesdk.ErrDuplicateVehicle)

	fines, err = sess.MyFines(ctx)
	require.NoError(t, err)
	require.Len(t, fines, 1)
	require.Equal(t, "2", fines[0].ID)

	dash, err := sess.Dashboard(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, dash.Stats.TotalCount)
	require.Equal(t, 1, dash.Stats.OverdueCount)
	require.Equal(t, 1, dash.Stats.VehicleCount)
	require.Len(t, dash.RecentFines, 1)

	updated, err := sess.UpdateProfile(ctx, finesdk.UpdateProfileRequest{Phone: strPtr("083 999 0000")})
	require.NoError(t, err)
	require.Equal(t, "083 999 0000", updated.Phone)

	_, err = sess.UpdateProfile(ctx, finesdk.UpdateProfileRequest{Email: strPtr("john.smith@email.com")})
	require.ErrorIs(t, err, finesdk.ErrDuplicateAccount)

	require.NoError(t, sess.RemoveVehicle(ctx, u.Vehicles[0].ID))
	err = sess.RemoveVehicle(ctx, u.Vehicles[0].ID)
	require.ErrorIs(t, err, finesdk.ErrNotFound)

	payments, err := sess.Payments(ctx)
	require.NoError(t, err)
	require.NotNil(t, payments)
	require.Empty(t, payments)
}

func TestPaymentFlow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := newTestServer(t)

	sess, _, err := ts.client.Login(ctx, "john.smith@email.com", "password123")
	require.NoError(t, err)

	resp := postJSON(t, ts.url+"/v1/payments", sess.Token(), finesdk.InitiatePaymentRequest{FineID: "1"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var init finesdk.InitiatePaymentResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&init))
	require.Equal(t, 500.0, init.Session.Amount)
	require.Equal(t, "/payment/"+init.Session.ID, init.Session.PaymentURL)
	require.Equal(t, payfast.SandboxURL, init.Checkout.Action)
	require.Equal(t, http.MethodPost, init.Checkout.Method)

	fields := map[string]string{}
	for _, f := range init.Checkout.Fields {
		fields[f.Name] = f.Value
	}
	require.Equal(t, "john.smith@email.com", fields["email_address"])
	require.Equal(t, "500.00", fields["amount"])
	require.Equal(t, init.Session.ID, fields["m_payment_id"])

	notify := url.Values{
		"m_payment_id":   {init.Session.ID},
		"pf_payment_id":  {"1089250"},
		"payment_status": {"COMPLETE"},
		"amount_gross":   {"500.00"},
		"merchant_id":    {testMerchant},
	}
	nresp := postNotification(t, ts, "1", notify)
	nresp.Body.Close()
	require.Equal(t, http.StatusOK, nresp.StatusCode)

	// Gateways retry; a repeat must not create a second record.
	nresp = postNotification(t, ts, "1", notify)
	nresp.Body.Close()
	require.Equal(t, http.StatusOK, nresp.StatusCode)

	payments, err := sess.Payments(ctx)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	var found bool
	for _, p := range payments {
		if p.TransactionID == "1089250" {
			found = true
			require.Equal(t, "1", p.FineID)
			require.Equal(t, "COMPLETED", p.Status)
			require.Equal(t, "PayFast", p.PaymentMethod)
		}
	}
	require.True(t, found)

	oresp, err := http.Get(ts.url + "/payment/1/success")
	require.NoError(t, err)
	defer oresp.Body.Close()
	require.Equal(t, http.StatusOK, oresp.StatusCode)
	var outcome finesdk.PaymentOutcomeResponse
	require.NoError(t, json.NewDecoder(oresp.Body).Decode(&outcome))
	require.Equal(t, OutcomeSuccess, outcome.Outcome)
	require.Equal(t, "CT2024001234", outcome.Fine.NoticeNumber)
}

func TestInitiatePaymentErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := newTestServer(t)

	_, err := ts.client.InitiatePayment(ctx, finesdk.InitiatePaymentRequest{FineID: "1"})
	require.ErrorIs(t, err, finesdk.ErrValidation)

	_, err = ts.client.InitiatePayment(ctx, finesdk.InitiatePaymentRequest{FineID: "3", Email: "a@b.co"})
	require.ErrorIs(t, err, finesdk.ErrNotPayable)

	_, err = ts.client.InitiatePayment(ctx, finesdk.InitiatePaymentRequest{FineID: "999", Email: "a@b.co"})
	require.ErrorIs(t, err, finesdk.ErrNotFound)

	_, err = ts.client.InitiatePayment(ctx, finesdk.InitiatePaymentRequest{Email: "a@b.co"})
	require.ErrorIs(t, err, finesdk.ErrValidation)

	anon, err := ts.client.InitiatePayment(ctx, finesdk.InitiatePaymentRequest{FineID: "2", Email: "payer@example.com"})
	require.NoError(t, err)
	require.Equal(t, 1500.0, anon.Session.Amount)
}

func TestNotifyRejections(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := newTestServer(t)

	anon, err := ts.client.InitiatePayment(ctx, finesdk.InitiatePaymentRequest{FineID: "2", Email: "payer@example.com"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		fineID string
		form   url.Values
		want   int
	}{
		{
			name:   "missing status",
			fineID: "2",
			form:   url.Values{"m_payment_id": {anon.Session.ID}},
			want:   http.StatusBadRequest,
		},
		{
			name:   "other merchant",
			fineID: "2",
			form:   url.Values{"m_payment_id": {anon.Session.ID}, "payment_status": {"COMPLETE"}, "merchant_id": {"999"}},
			want:   http.StatusBadRequest,
		},
		{
			name:   "infinite amount",
			fineID: "2",
			form:   url.Values{"m_payment_id": {anon.Session.ID}, "payment_status": {"COMPLETE"}, "merchant_id": {testMerchant}, "amount_gross": {"Inf"}},
			want:   http.StatusBadRequest,
		},
		{
			name:   "unknown session",
			fineID: "2",
			form:   url.Values{"m_payment_id": {"nope"}, "payment_status": {"COMPLETE"}, "merchant_id": {testMerchant}},
			want:   http.StatusNotFound,
		},
		{
			name:   "fine does not match session",
			fineID: "1",
			form:   url.Values{"m_payment_id": {anon.Session.ID}, "payment_status": {"COMPLETE"}, "merchant_id": {testMerchant}},
			want:   http.StatusNotFound,
		},
		{
			name:   "anonymous session acknowledged",
			fineID: "2",
			form:   url.Values{"m_payment_id": {anon.Session.ID}, "payment_status": {"COMPLETE"}, "merchant_id": {testMerchant}},
			want:   http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postNotification(t, ts, tt.fineID, tt.form)
			resp.Body.Close()
			require.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestPaymentCancelPage(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	resp, err := http.Get(ts.url + "/payment/2/cancel")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var outcome finesdk.PaymentOutcomeResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&outcome))
	require.Equal(t, OutcomeCancelled, outcome.Outcome)

	resp, err = http.Get(ts.url + "/payment/999/cancel")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := newTestServer(t)

	live, err := ts.client.GetLiveness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "test", live.Version)

	ready, err := ts.client.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.NotNil(t, ready.Checks)
	require.Equal(t, "ok", ready.Checks.Database)
	require.Empty(t, ready.Checks.Cache)
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := newTestServer(t)

	_, err := ts.client.GetFine(ctx, "1")
	require.NoError(t, err)

	resp, err := http.Get(ts.url + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body bytes.Buffer
	_, err = body.ReadFrom(resp.Body)
	require.NoError(t, err)
	require.Contains(t, body.String(), "finepay_http_request_duration_seconds")
	require.Contains(t, body.String(), `route="GET /v1/fines/{id}"`)
}

func TestRegisterRateLimited(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	var last int
	for range 20 {
		resp := postJSON(t, ts.url+"/v1/users", "", map[string]string{})
		resp.Body.Close()
		last = resp.StatusCode
		if last == http.StatusTooManyRequests {
			break
		}
	}
	require.Equal(t, http.StatusTooManyRequests, last)
}

func strPtr(s string) *string { return &s }
