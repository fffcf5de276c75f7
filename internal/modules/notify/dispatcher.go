package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Handler delivers the confirmation for one order.
type Handler interface {
	Handle(ctx context.Context, ev OrderPlaced) error
}

// Publisher emits the order event to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, ev OrderPlaced) error
}

// Observer counts outcomes ("sent", "failed", "published", "publish_failed").
type Observer interface {
	Notification(outcome string)
}

// NotificationError wraps a failed confirmation delivery.
type NotificationError struct {
	Order string
	Err   error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notify: order %s: %v", e.Order, e.Err)
}

func (e *NotificationError) Unwrap() error { return e.Err }

type Dispatcher struct {
	handler   Handler
	publisher Publisher
	tracker   *Tracker
	obs       Observer
	logger    *slog.Logger
	timeout   time.Duration

	wg sync.WaitGroup
}

type DispatcherOption func(*Dispatcher)

func WithPublisher(p Publisher) DispatcherOption { return func(d *Dispatcher) { d.publisher = p } }
func WithObserver(o Observer) DispatcherOption   { return func(d *Dispatcher) { d.obs = o } }
func WithTimeout(t time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		if t > 0 {
			d.timeout = t
		}
	}
}

func NewDispatcher(h Handler, tracker *Tracker, logger *slog.Logger, opts ...DispatcherOption) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{
		handler: h,
		tracker: tracker,
		logger:  logger,
		timeout: 10 * time.Second,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Dispatch records the order as pending and delivers it in the background.
// It returns immediately. The work runs on its own context so it outlives
// the request that placed the order.
func (d *Dispatcher) Dispatch(ev OrderPlaced) {
	if d.tracker != nil {
		d.tracker.Set(ev.Number, Outcome{Status: StatusPending, Shopper: ev.Shopper, Recipient: ev.Email})
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.logger.Error("notify_panic", slog.String("order", ev.Number), slog.Any("panic", r))
				d.record(ev, &NotificationError{Order: ev.Number, Err: fmt.Errorf("panic: %v", r)})
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		d.run(ctx, ev)
	}()
}

// Wait blocks until every dispatched notification finished. Used on shutdown.
func (d *Dispatcher) Wait() { d.wg.Wait() }

func (d *Dispatcher) run(ctx context.Context, ev OrderPlaced) {
	var nerr error
	if err := d.handler.Handle(ctx, ev); err != nil {
		nerr = &NotificationError{Order: ev.Number, Err: err}
	}
	d.record(ev, nerr)

	if d.publisher == nil {
		return
	}
	if err := d.publisher.Publish(ctx, ev); err != nil {
		d.observe("publish_failed")
		d.logger.LogAttrs(ctx, slog.LevelWarn, "order_event_publish_failed",
			slog.String("order", ev.Number),
			slog.String("err", err.Error()),
		)
		return
	}
	d.observe("published")
}

func (d *Dispatcher) record(ev OrderPlaced, err error) {
	o := Outcome{Status: StatusSent, Shopper: ev.Shopper, Recipient: ev.Email}
	if err != nil {
		o.Status = StatusFailed
		o.Err = err.Error()
		d.observe("failed")
		d.logger.LogAttrs(context.Background(), slog.LevelWarn, "order_notification_failed",
			slog.String("order", ev.Number),
			slog.String("err", err.Error()),
		)
	} else {
		d.observe("sent")
		d.logger.LogAttrs(context.Background(), slog.LevelInfo, "order_notification_sent",
			slog.String("order", ev.Number),
		)
	}
	if d.tracker != nil {
		d.tracker.Set(ev.Number, o)
	}
}

func (d *Dispatcher) observe(outcome string) {
	if d.obs != nil {
		d.obs.Notification(outcome)
	}
}
