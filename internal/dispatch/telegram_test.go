package dispatch_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gouravdhdb/storefront/internal/dispatch"
	"github.com/gouravdhdb/storefront/internal/domain"
	"github.com/gouravdhdb/storefront/internal/port"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSummary() port.OrderSummary {
	return port.OrderSummary{
		Customer: domain.Customer{
			Name:    "Asha",
			Address: "12 Lake Road",
			Phone:   "9876543210",
		},
		PaymentMethod: domain.PaymentCOD,
		Lines: []domain.CartLine{
			{Name: "Samosa", UnitPrice: domain.NewMoney(decimal.NewFromInt(25), domain.INR), Quantity: 2},
		},
		Total:    domain.NewMoney(decimal.NewFromInt(45), domain.INR),
		Discount: domain.NewMoney(decimal.NewFromInt(5), domain.INR),
	}
}

func TestTelegramDispatch(t *testing.T) {
	var (
		gotPath string
		gotBody map[string]string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d := dispatch.NewTelegram("bot-token", "-400123").WithBaseURL(srv.URL)
	require.NoError(t, d.Dispatch(t.Context(), sampleSummary()))

	assert.Equal(t, "/botbot-token/sendMessage", gotPath)
	assert.Equal(t, "-400123", gotBody["chat_id"])

	text := gotBody["text"]
	assert.Contains(t, text, "New Order from Asha")
	assert.Contains(t, text, "Address: 12 Lake Road")
	assert.Contains(t, text, "Payment: cod")
	assert.Contains(t, text, "Samosa (x2) - 50")
	assert.Contains(t, text, "Total: 45")
	assert.Contains(t, text, "Discount: 5")
}

func TestTelegramDispatchFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	d := dispatch.NewTelegram("bot-token", "-400123").WithBaseURL(srv.URL)
	err := d.Dispatch(t.Context(), sampleSummary())
	require.ErrorIs(t, err, domain.ErrDispatchFailure)
}

func TestTelegramDispatchUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	d := dispatch.NewTelegram("bot-token", "-400123").WithBaseURL(srv.URL)
	err := d.Dispatch(t.Context(), sampleSummary())
	require.ErrorIs(t, err, domain.ErrDispatchFailure)
}
