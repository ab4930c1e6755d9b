package workers

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/go-article-service/domain"
	"github.com/Guyuepp/go-article-service/internal/metrics"
)

// publishTimeout bounds a single Emit call, including the ones made while draining.
const publishTimeout = 5 * time.Second

type eventDispatcher struct {
	broadcaster domain.EventBroadcaster
	ch          chan domain.Event
	log         logrus.FieldLogger
}

var _ domain.EventDispatcher = (*eventDispatcher)(nil)

func NewEventDispatcher(b domain.EventBroadcaster, size int, log logrus.FieldLogger) *eventDispatcher {
	return &eventDispatcher{
		broadcaster: b,
		ch:          make(chan domain.Event, size),
		log:         log.WithField("component", "event_dispatcher"),
	}
}

// Send never blocks the request path. A full queue drops the event.
func (d *eventDispatcher) Send(ev domain.Event) bool {
	select {
	case d.ch <- ev:
		metrics.RecordEvent(string(ev.Name), metrics.EventQueued)
		return true
	default:
		metrics.RecordEvent(string(ev.Name), metrics.EventDropped)
		d.log.WithField("event", ev.Name).Warn("event queue is full, event dropped")
		return false
	}
}

// Start publishes queued events in FIFO order until ctx is done, then drains
// what is already queued and returns.
func (d *eventDispatcher) Start(ctx context.Context) {
	for {
		select {
		case ev := <-d.ch:
			d.publish(ctx, ev)
		case <-ctx.Done():
			d.log.Info("shutting down event dispatcher, flushing queued events...")
			d.drain()
			return
		}
	}
}

func (d *eventDispatcher) drain() {
	for {
		select {
		case ev := <-d.ch:
			d.publish(context.Background(), ev)
		default:
			return
		}
	}
}

func (d *eventDispatcher) publish(ctx context.Context, ev domain.Event) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := d.broadcaster.Emit(ctx, ev); err != nil {
		metrics.RecordEvent(string(ev.Name), metrics.EventFailed)
		d.log.WithError(err).WithField("event", ev.Name).Error("failed to publish event")
		return
	}
	metrics.RecordEvent(string(ev.Name), metrics.EventPublished)
}
