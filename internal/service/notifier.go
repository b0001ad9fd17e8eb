package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/models"
)

// TradeEvent is the message published on every trade lifecycle change.
// Downstream consumers (push notifications, merchant stats, reporting)
// subscribe to the topic.
type TradeEvent struct {
	TradeID      string             `json:"tradeId"`
	OfferID      string             `json:"offerId"`
	Status       models.TradeStatus `json:"status"`
	CancelReason string             `json:"cancelReason,omitempty"`
	Asset        string             `json:"asset"`
	FiatCurrency string             `json:"fiatCurrency"`
	CryptoAmount decimal.Decimal    `json:"cryptoAmount"`
	FiatAmount   decimal.Decimal    `json:"fiatAmount"`
	At           time.Time          `json:"at"`
}

// Notifier is a fire-and-forget Kafka publisher. A nil Notifier is a no-op so
// the service runs without brokers configured.
type Notifier struct {
	writer *kafka.Writer
	log    *zap.Logger
}

func NewNotifier(brokers []string, topic string, log *zap.Logger) *Notifier {
	if len(brokers) == 0 {
		return nil
	}

	w := kafka.NewWriter(kafka.WriterConfig{
		Brokers:      brokers,
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 200 * time.Millisecond,
		RequiredAcks: int(kafka.RequireOne),
	})
	return &Notifier{writer: w, log: log}
}

// PublishTradeEvent writes the event. Failures are logged, never returned:
// notification delivery must not fail the trade operation it accompanies.
func (n *Notifier) PublishTradeEvent(ctx context.Context, evt TradeEvent) {
	if n == nil {
		return
	}
	if evt.At.IsZero() {
		evt.At = time.Now().UTC()
	}

	data, err := json.Marshal(evt)
	if err != nil {
		n.log.Error("marshal trade event", zap.Error(err))
		return
	}

	if err := n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.TradeID),
		Value: data,
	}); err != nil {
		n.log.Warn("publish trade event",
			zap.String("trade_id", evt.TradeID),
			zap.Error(err),
		)
	}
}

func (n *Notifier) Close() error {
	if n == nil {
		return nil
	}
	return n.writer.Close()
}
