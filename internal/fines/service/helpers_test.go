package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/finepay/internal/fines/domain"
	"github.com/aussiebroadwan/finepay/internal/fines/store"
	"github.com/aussiebroadwan/finepay/internal/fines/store/drivers/sqlite"
	"github.com/aussiebroadwan/finepay/internal/fines/store/seed"
	"github.com/aussiebroadwan/finepay/pkg/cryptox"
	"github.com/aussiebroadwan/finepay/pkg/jwtx"
	"github.com/aussiebroadwan/finepay/pkg/payfast"
	"github.com/aussiebroadwan/finepay/pkg/slogx"
	"github.com/stretchr/testify/require"
)

const testIssuer = "finepay-test"

var testNow = time.Date(2024, 1, 20, 9, 30, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

type testEnv struct {
	store    store.Store
	fines    *FineService
	users    *UserService
	payments *PaymentService
	verifier jwtx.Verifier
}

// newTestEnv returns services over an in-memory store loaded with the
// default fixtures.
func newTestEnv(t *testing.T) *testEnv {
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

	return &testEnv{
		store: st,
		fines: &FineService{Store: st},
		users: &UserService{
			Store:    st,
			Hasher:   hasher,
			Signer:   signer,
			Issuer:   testIssuer,
			TokenTTL: time.Hour,
		},
		payments: &PaymentService{
			Store:   st,
			Gateway: payfast.New(payfast.Config{MerchantID: "10000100", Sandbox: true, BaseURL: "http://localhost:8080"}),
			Now:     fixedNow,
		},
		verifier: jwtx.NewVerifierEdDSA(keys, testIssuer),
	}
}

func fineIDs(fs []domain.TrafficFine) []string {
	ids := make([]string, 0, len(fs))
	for _, f := range fs {
		ids = append(ids, f.ID)
	}
	return ids
}

// memCache is an in-process Cache that counts hits.
type memCache struct {
	fines          map[string]domain.TrafficFine
	municipalities []domain.Municipality
	hits           int
}

func newMemCache() *memCache {
	return &memCache{fines: map[string]domain.TrafficFine{}}
}

func (c *memCache) GetFine(_ context.Context, id string) (domain.TrafficFine, bool) {
	f, ok := c.fines[id]
	if ok {
		c.hits++
	}
	return f, ok
}

func (c *memCache) SetFine(_ context.Context, f domain.TrafficFine) { c.fines[f.ID] = f }

func (c *memCache) GetMunicipalities(context.Context) ([]domain.Municipality, bool) {
	if c.municipalities == nil {
		return nil, false
	}
	c.hits++
	return c.municipalities, true
}

func (c *memCache) SetMunicipalities(_ context.Context, ms []domain.Municipality) {
	c.municipalities = ms
}
