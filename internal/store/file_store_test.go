package store_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/gouravdhdb/storefront/internal/domain"
	"github.com/gouravdhdb/storefront/internal/port"
	"github.com/gouravdhdb/storefront/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func randomCartLine() domain.CartLine {
	return domain.CartLine{
		Name:      gofakeit.ProductName(),
		UnitPrice: domain.NewMoney(decimal.NewFromFloat(gofakeit.Price(1, 500)), domain.INR),
		Quantity:  gofakeit.Number(1, 9),
	}
}

func randomOrder() domain.Order {
	lines := []domain.CartLine{randomCartLine(), randomCartLine()}
	subtotal := domain.CartSubtotal(lines, domain.INR)

	return domain.Order{
		ID:              gofakeit.UUID(),
		Lines:           lines,
		Subtotal:        subtotal,
		DiscountApplied: domain.NewMoney(decimal.NewFromInt(int64(gofakeit.Number(0, 50))), domain.INR),
		Customer: domain.Customer{
			Name:    gofakeit.Name(),
			Address: gofakeit.Street(),
			Phone:   gofakeit.Phone(),
		},
		PaymentMethod: domain.PaymentCOD,
		PlacedAt:      time.Now().UTC(),
		Status:        domain.OrderPending,
	}
}

func cmpOpts() cmp.Options {
	return cmp.Options{
		cmp.Comparer(func(x, y currency.Unit) bool {
			return x.String() == y.String()
		}),
		cmp.Comparer(func(x, y decimal.Decimal) bool {
			return x.Equal(y)
		}),
		cmp.Comparer(func(x, y time.Time) bool {
			return x.Equal(y)
		}),
	}
}

func newFileStore(t *testing.T) (port.Store, string) {
	t.Helper()

	dir := t.TempDir()
	st, err := store.NewFile(dir)
	require.NoError(t, err)
	return st, dir
}

func TestFileCartRoundTrip(t *testing.T) {
	st, _ := newFileStore(t)
	ctx := t.Context()

	// absent key loads as an empty cart
	lines, err := st.LoadCart(ctx)
	require.NoError(t, err)
	assert.Empty(t, lines)

	want := []domain.CartLine{randomCartLine(), randomCartLine(), randomCartLine()}
	require.NoError(t, st.SaveCart(ctx, want))

	got, err := st.LoadCart(ctx)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(want, got, cmpOpts()))

	// overwrite with a shorter cart
	want = want[:1]
	require.NoError(t, st.SaveCart(ctx, want))
	got, err = st.LoadCart(ctx)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(want, got, cmpOpts()))
}

func TestFileOrdersRoundTrip(t *testing.T) {
	st, _ := newFileStore(t)
	ctx := t.Context()

	want := []domain.Order{randomOrder(), randomOrder()}
	require.NoError(t, st.SaveOrders(ctx, want))

	got, err := st.LoadOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(want, got, cmpOpts()))
}

func TestFileDarkModeRoundTrip(t *testing.T) {
	st, _ := newFileStore(t)
	ctx := t.Context()

	on, err := st.LoadDarkMode(ctx)
	require.NoError(t, err)
	assert.False(t, on)

	require.NoError(t, st.SaveDarkMode(ctx, true))
	on, err = st.LoadDarkMode(ctx)
	require.NoError(t, err)
	assert.True(t, on)
}

func TestFileDraftLifecycle(t *testing.T) {
	st, _ := newFileStore(t)
	ctx := t.Context()

	draft, err := st.LoadDraft(ctx)
	require.NoError(t, err)
	assert.Nil(t, draft)

	// clearing an absent draft is a no-op
	require.NoError(t, st.ClearDraft(ctx))

	want := randomOrder()
	require.NoError(t, st.SaveDraft(ctx, want))

	draft, err = st.LoadDraft(ctx)
	require.NoError(t, err)
	require.NotNil(t, draft)
	assert.Empty(t, cmp.Diff(want, *draft, cmpOpts()))

	require.NoError(t, st.ClearDraft(ctx))
	draft, err = st.LoadDraft(ctx)
	require.NoError(t, err)
	assert.Nil(t, draft)
}

func TestFileMalformedBlobDegradesToEmpty(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
	}{
		{
			name: "cart is not json",
			file: "cart.json",
			body: `{not json`,
		},
		{
			name: "cart has invalid currency",
			file: "cart.json",
			body: `[{"name":"Samosa","price":"25","currency":"NOPE","quantity":1}]`,
		},
		{
			name: "orders is not json",
			file: "orders.json",
			body: `42garbage`,
		},
		{
			name: "dark mode flag is not a bool",
			file: "darkMode.json",
			body: `"sideways"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, dir := newFileStore(t)
			ctx := t.Context()

			require.NoError(t, os.WriteFile(filepath.Join(dir, tt.file), []byte(tt.body), 0o644))

			lines, err := st.LoadCart(ctx)
			require.NoError(t, err)
			assert.Empty(t, lines)

			orders, err := st.LoadOrders(ctx)
			require.NoError(t, err)
			assert.Empty(t, orders)

			on, err := st.LoadDarkMode(ctx)
			require.NoError(t, err)
			assert.False(t, on)
		})
	}
}

func TestFileSurvivesReopen(t *testing.T) {
	st, dir := newFileStore(t)
	ctx := t.Context()

	want := []domain.CartLine{randomCartLine()}
	require.NoError(t, st.SaveCart(ctx, want))

	reopened, err := store.NewFile(dir)
	require.NoError(t, err)

	got, err := reopened.LoadCart(ctx)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(want, got, cmpOpts()))
}
