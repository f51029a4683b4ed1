package events

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// PaymentConfirmer is the slice of the payment service the consumer needs.
type PaymentConfirmer interface {
	ConfirmPaymentByTransaction(ctx context.Context, transactionID string) error
}

// GatewayEventConsumer listens to payment-gateway events and applies settled
// payments to their bookings.
type GatewayEventConsumer struct {
	reader    *kafkago.Reader
	confirmer PaymentConfirmer
	logger    *zap.Logger
}

// NewGatewayEventConsumer creates a GatewayEventConsumer for the given brokers.
func NewGatewayEventConsumer(
	brokers []string,
	groupID string,
	confirmer PaymentConfirmer,
	logger *zap.Logger,
) *GatewayEventConsumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    TopicGatewayEvents,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return &GatewayEventConsumer{
		reader:    reader,
		confirmer: confirmer,
		logger:    logger,
	}
}

// Start begins consuming gateway events. This blocks until the context is cancelled.
func (c *GatewayEventConsumer) Start(ctx context.Context) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Error("failed to read gateway event", zap.Error(err))
			continue
		}
		c.handleMessage(ctx, msg)
	}
}

// Close closes the underlying Kafka reader.
func (c *GatewayEventConsumer) Close() error {
	return c.reader.Close()
}

func (c *GatewayEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) {
	envelope, err := ParseEnvelope(msg.Value)
	if err != nil {
		// Malformed messages are logged and skipped, never retried.
		c.logger.Error("failed to parse gateway event",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return
	}

	switch envelope.Type {
	case GatewayPaymentCompleted:
		c.handlePaymentCompleted(ctx, envelope)
	default:
		c.logger.Debug("ignoring unhandled gateway event type",
			zap.String("type", envelope.Type),
		)
	}
}

func (c *GatewayEventConsumer) handlePaymentCompleted(ctx context.Context, envelope Envelope) {
	var evt GatewayPaymentCompletedEvent
	if err := envelope.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse gateway payment data", zap.Error(err))
		return
	}

	c.logger.Info("processing gateway payment completion",
		zap.String("transaction_id", evt.TransactionID),
	)

	if err := c.confirmer.ConfirmPaymentByTransaction(ctx, evt.TransactionID); err != nil {
		c.logger.Error("failed to confirm payment from gateway event",
			zap.String("transaction_id", evt.TransactionID),
			zap.Error(err),
		)
	}
}
