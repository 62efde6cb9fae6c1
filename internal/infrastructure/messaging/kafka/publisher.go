package kafka

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
	sdk "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/dyachv/multisend/internal/domain/entities"
)

// Publisher exports finished runs to a Kafka topic, one message per
// outcome, keyed by message id for even partitioning.
type Publisher struct {
	writer *sdk.Writer
	log    *zap.Logger
}

func NewPublisher(brokers []string, topic string, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{
		writer: &sdk.Writer{
			Addr:     sdk.TCP(brokers...),
			Topic:    topic,
			Balancer: &sdk.LeastBytes{},
		},
		log: log,
	}
}

func (p *Publisher) PublishReport(ctx context.Context, report *entities.Report) error {
	messages := make([]sdk.Message, 0, len(report.Outcomes))
	for _, outcome := range report.Outcomes {
		model := toMessage(report.RunID, outcome)
		serialized, err := json.Marshal(model)
		if err != nil {
			return fmt.Errorf("encode outcome message: %w", err)
		}
		messages = append(messages, sdk.Message{
			Key:   []byte(model.ID.String()),
			Value: serialized,
		})
	}
	if len(messages) == 0 {
		return nil
	}
	if err := p.writer.WriteMessages(ctx, messages...); err != nil {
		return fmt.Errorf("publish report %s: %w", report.RunID, err)
	}
	p.log.Info("report published", zap.String("run_id", report.RunID.String()), zap.Int("outcomes", len(messages)))
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
