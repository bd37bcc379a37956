package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// Stream holding the order events
const (
	StreamName    = "CAP_ORDERS"
	streamSubject = "order.>"
	streamMaxAge  = 7 * 24 * time.Hour

	publishTimeout = 5 * time.Second
)

// jetStream is the subset of nats.JetStreamContext used for publishing
type jetStream interface {
	PublishMsg(m *nats.Msg, opts ...nats.PubOpt) (*nats.PubAck, error)
	StreamInfo(stream string, opts ...nats.JSOpt) (*nats.StreamInfo, error)
	AddStream(cfg *nats.StreamConfig, opts ...nats.JSOpt) (*nats.StreamInfo, error)
}

// Publisher publishes order events as JSON on JetStream
type Publisher struct {
	js     jetStream
	logger *logrus.Entry
}

// NewPublisher creates a publisher on the client's JetStream context
func NewPublisher(client *Client, logger *logrus.Logger) *Publisher {
	return newPublisher(client.JetStream(), logger)
}

func newPublisher(js jetStream, logger *logrus.Logger) *Publisher {
	return &Publisher{
		js:     js,
		logger: logger.WithField("component", "events.publisher"),
	}
}

// EnsureStream creates the order stream when it does not exist yet
func (p *Publisher) EnsureStream() error {
	_, err := p.js.StreamInfo(StreamName)
	if err == nil {
		return nil
	}
	if !errors.Is(err, nats.ErrStreamNotFound) {
		return fmt.Errorf("failed to look up stream %s: %w", StreamName, err)
	}

	_, err = p.js.AddStream(&nats.StreamConfig{
		Name:     StreamName,
		Subjects: []string{streamSubject},
		Storage:  nats.FileStorage,
		MaxAge:   streamMaxAge,
	})
	if err != nil {
		return fmt.Errorf("failed to create stream %s: %w", StreamName, err)
	}
	p.logger.WithField("stream", StreamName).Info("Created stream")
	return nil
}

// Publish sends event as JSON. Each message carries a unique id so
// JetStream drops duplicates.
func (p *Publisher) Publish(ctx context.Context, subject string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event for %s: %w", subject, err)
	}

	msg := nats.NewMsg(subject)
	msg.Data = data
	msg.Header.Set(nats.MsgIdHdr, uuid.NewString())

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, publishTimeout)
		defer cancel()
	}

	if _, err := p.js.PublishMsg(msg, nats.Context(ctx)); err != nil {
		return fmt.Errorf("failed to publish %s: %w", subject, err)
	}

	p.logger.WithField("subject", subject).Debug("Published event")
	return nil
}
