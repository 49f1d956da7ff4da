package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gouravdhdb/storefront/internal/domain"
	"github.com/gouravdhdb/storefront/internal/port"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const defaultTelegramBaseURL = "https://api.telegram.org"

// Telegram delivers order summaries to a Telegram chat via the bot
// sendMessage endpoint.
type Telegram struct {
	client  *http.Client
	baseURL string
	token   string
	chatID  string
	tracer  trace.Tracer
}

var _ port.Dispatcher = (*Telegram)(nil)

func NewTelegram(token, chatID string) *Telegram {
	return &Telegram{
		client:  http.DefaultClient,
		baseURL: defaultTelegramBaseURL,
		token:   token,
		chatID:  chatID,
		tracer:  otel.Tracer("storefront/dispatch"),
	}
}

// WithBaseURL overrides the Telegram API host, for tests.
func (t *Telegram) WithBaseURL(baseURL string) *Telegram {
	t.baseURL = baseURL
	return t
}

func (t *Telegram) Dispatch(ctx context.Context, summary port.OrderSummary) error {
	ctx, span := t.tracer.Start(ctx, "telegram.sendMessage")
	defer span.End()

	body, err := json.Marshal(map[string]string{
		"chat_id": t.chatID,
		"text":    summaryText(summary),
	})
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("client.Do: %w: %w", err, domain.ErrDispatchFailure)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("telegram status %d: %w", resp.StatusCode, domain.ErrDispatchFailure)
	}

	return nil
}

func summaryText(s port.OrderSummary) string {
	items := make([]string, 0, len(s.Lines))
	for _, l := range s.Lines {
		items = append(items, fmt.Sprintf("%s (x%d) - %s", l.Name, l.Quantity, l.LineTotal().Amount))
	}

	return fmt.Sprintf(`New Order from %s
Address: %s
Phone: %s
Payment: %s
Items: %s
Total: %s
Discount: %s`,
		s.Customer.Name,
		s.Customer.Address,
		s.Customer.Phone,
		s.PaymentMethod,
		strings.Join(items, ", "),
		s.Total.Amount,
		s.Discount.Amount,
	)
}
