package amqp

import (
	"context"
	"errors"

	"earnings/internal/log"
)

// Sender is implemented by Client.
type Sender interface {
	PublishDashboardUpdated(ctx context.Context, msg *DashboardUpdatedMessage) error
}

var ErrQueueFull = errors.New("publish queue full")

// AsyncPublisher decouples request handling from broker latency: messages are
// queued and sent one at a time by Run.
type AsyncPublisher struct {
	sender Sender
	queue  chan *DashboardUpdatedMessage
	logger *log.Logger
}

func NewAsyncPublisher(sender Sender, size int, logger *log.Logger) *AsyncPublisher {
	if logger == nil {
		logger = log.Discard()
	}
	return &AsyncPublisher{
		sender: sender,
		queue:  make(chan *DashboardUpdatedMessage, max(1, size)),
		logger: logger.WithComponent(log.ComponentAMQP),
	}
}

// PublishDashboardUpdated enqueues msg without blocking. A full queue drops
// the message and returns ErrQueueFull.
func (p *AsyncPublisher) PublishDashboardUpdated(_ context.Context, msg *DashboardUpdatedMessage) error {
	select {
	case p.queue <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run sends queued messages until ctx is done. Send errors are logged.
func (p *AsyncPublisher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Stopping dashboard publisher", "pending", len(p.queue))
			return nil
		case msg := <-p.queue:
			if err := p.sender.PublishDashboardUpdated(ctx, msg); err != nil && ctx.Err() == nil {
				p.logger.ErrorContext(ctx, "Failed to publish dashboard update",
					log.FieldError, err,
					"reason", msg.Reason,
					log.FieldVersion, msg.StoreVersion)
			}
		}
	}
}
