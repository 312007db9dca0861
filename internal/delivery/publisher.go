package delivery

import (
	"context"
	"time"

	"agri-report-workers/internal/common/config"
	"agri-report-workers/internal/common/errors"
	"agri-report-workers/internal/pipeline"

	kafkago "github.com/segmentio/kafka-go"
)

// MessageWriter is the part of kafka-go's Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher produces each report to a Kafka topic keyed by report id.
type Publisher struct {
	writer MessageWriter
	topic  string
}

func NewPublisher(cfg config.KafkaConfig) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, topic: cfg.Topic}
}

// NewPublisherWithWriter wraps an existing writer.
func NewPublisherWithWriter(w MessageWriter, topic string) *Publisher {
	return &Publisher{writer: w, topic: topic}
}

func (p *Publisher) Name() string { return "kafka" }

func (p *Publisher) Deliver(ctx context.Context, r *pipeline.Result) error {
	if err := p.writer.WriteMessages(ctx, reportMessage(r)); err != nil {
		return errors.NewReportPublishFailedError(p.topic, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func reportMessage(r *pipeline.Result) kafkago.Message {
	return kafkago.Message{
		Key:   []byte(r.ReportID),
		Value: []byte(r.Encoded),
		Headers: []kafkago.Header{
			{Key: "template", Value: []byte(r.Template)},
			{Key: "generated_at", Value: []byte(r.Timestamp.Format(time.RFC3339))},
		},
	}
}
