package dispatch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gouravdhdb/storefront/internal/domain"
	"github.com/gouravdhdb/storefront/internal/port"
	stan "github.com/nats-io/stan.go"
	"github.com/shopspring/decimal"
)

// Stan publishes order summaries to a NATS Streaming subject, for
// deployments where a broker consumer forwards notifications instead of a
// direct chat webhook.
type Stan struct {
	sc      stan.Conn
	subject string
}

var _ port.Dispatcher = (*Stan)(nil)

func NewStan(clusterID, clientID, natsURL, subject string) (*Stan, error) {
	sc, err := stan.Connect(clusterID, clientID, stan.NatsURL(natsURL))
	if err != nil {
		return nil, fmt.Errorf("stan.Connect: %w", err)
	}

	return &Stan{sc: sc, subject: subject}, nil
}

type summaryLine struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type summaryMessage struct {
	Customer      string          `json:"customer"`
	Address       string          `json:"address"`
	Phone         string          `json:"phone"`
	PaymentMethod string          `json:"payment_method"`
	Items         []summaryLine   `json:"items"`
	Total         decimal.Decimal `json:"total"`
	Discount      decimal.Decimal `json:"discount"`
	Currency      string          `json:"currency"`
}

func (s *Stan) Dispatch(_ context.Context, summary port.OrderSummary) error {
	msg := summaryMessage{
		Customer:      summary.Customer.Name,
		Address:       summary.Customer.Address,
		Phone:         summary.Customer.Phone,
		PaymentMethod: string(summary.PaymentMethod),
		Total:         summary.Total.Amount,
		Discount:      summary.Discount.Amount,
		Currency:      summary.Total.Currency.String(),
	}
	for _, l := range summary.Lines {
		msg.Items = append(msg.Items, summaryLine{
			Name:      l.Name,
			Quantity:  l.Quantity,
			LineTotal: l.LineTotal().Amount,
		})
	}

	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	if err := s.sc.Publish(s.subject, raw); err != nil {
		return fmt.Errorf("sc.Publish: %w: %w", err, domain.ErrDispatchFailure)
	}

	return nil
}

func (s *Stan) Close() error {
	return s.sc.Close()
}
