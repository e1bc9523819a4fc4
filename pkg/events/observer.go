package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"stlc-manager-be/pkg/pipeline"
)

var ErrQueueFull = errors.New("event queue full")

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Observer turns run notifications into events. A single worker publishes
// them in the order the runner reported them; failures go to onError.
type Observer struct {
	pub     Publisher
	timeout time.Duration
	onError func(Event, error)
	now     func() time.Time

	mu     sync.Mutex
	closed bool
	queue  chan Event
	done   chan struct{}
}

func NewObserver(pub Publisher, onError func(Event, error)) *Observer {
	if onError == nil {
		onError = func(Event, error) {}
	}
	o := &Observer{
		pub:     pub,
		timeout: 5 * time.Second,
		onError: onError,
		now:     time.Now,
		queue:   make(chan Event, 1024),
		done:    make(chan struct{}),
	}
	go o.worker()
	return o
}

func (o *Observer) worker() {
	defer close(o.done)
	for e := range o.queue {
		ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
		if err := o.pub.Publish(ctx, e); err != nil {
			o.onError(e, err)
		}
		cancel()
	}
}

// publish never blocks the runner: a full queue drops the event.
func (o *Observer) publish(e Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	select {
	case o.queue <- e:
	default:
		o.onError(e, ErrQueueFull)
	}
}

// Close stops accepting events and waits until the queued ones are published.
func (o *Observer) Close() {
	o.mu.Lock()
	if !o.closed {
		o.closed = true
		close(o.queue)
	}
	o.mu.Unlock()
	<-o.done
}

func (o *Observer) RunStarted(info pipeline.RunInfo, ids []string) {
	o.publish(PipelineStarted(info, ids, o.now()))
}

func (o *Observer) StatusChanged(info pipeline.RunInfo, id string, s pipeline.Status) {
	o.publish(ProcessStatusChanged(info, id, s, o.now()))
}

func (o *Observer) OutputWritten(info pipeline.RunInfo, rec pipeline.OutputRecord) {
	o.publish(ProcessOutputWritten(info, rec, o.now()))
}

func (o *Observer) RunFinished(s pipeline.Summary) {
	e, err := PipelineFinished(s, o.now())
	if err != nil {
		o.onError(BaseEvent{Type: TypePipelineFinished}, err)
		return
	}
	o.publish(e)
}
