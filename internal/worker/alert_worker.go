package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"shoplist/internal/amqp"
	"shoplist/internal/cache"
	"shoplist/internal/log"
)

// ErrInvalidAlert is returned for alerts that carry no list id.
var ErrInvalidAlert = errors.New("budget alert without list id")

// AlertWorker consumes budget alerts and reports them. Alerts older than the
// newest one already handled for the same list are skipped, since a broker
// redelivery can arrive after a later tier change.
type AlertWorker struct {
	logger *log.Logger
	latest cache.Cache[time.Time]

	received    int64
	escalations int64
	recoveries  int64
	stale       int64
}

// Stats is a snapshot of the worker counters.
type Stats struct {
	Received    int64
	Escalations int64
	Recoveries  int64
	Stale       int64
}

func NewAlertWorker(latest cache.Cache[time.Time], logger *log.Logger) *AlertWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentAlerts)
	}
	return &AlertWorker{logger: logger, latest: latest}
}

// HandleBudgetAlert processes a single alert delivered over AMQP.
func (w *AlertWorker) HandleBudgetAlert(ctx context.Context, msg *amqp.BudgetAlertMessage) error {
	if msg == nil || msg.ListID == "" {
		return ErrInvalidAlert
	}
	atomic.AddInt64(&w.received, 1)

	if prev, ok := w.latest.Get(msg.ListID); ok && msg.Timestamp.Before(prev) {
		atomic.AddInt64(&w.stale, 1)
		w.logger.DebugContext(ctx, "Skipping stale budget alert",
			log.FieldListID, msg.ListID,
			"timestamp", msg.Timestamp,
			"latest", prev)
		return nil
	}
	w.latest.Set(msg.ListID, msg.Timestamp)

	fields := log.NewFields().
		WithOperation(log.OpAlert).
		WithList(msg.ListID, msg.ListName).
		WithBudget(msg.Spent.StringFixed(2), msg.Budget.StringFixed(2), string(msg.Current))
	fields[log.FieldPreviousStatus] = string(msg.Previous)
	fields["percentage"] = msg.Percentage

	if msg.Escalated() {
		atomic.AddInt64(&w.escalations, 1)
		w.logger.WarnContext(ctx, "List budget escalated", fields.ToSlice()...)
		return nil
	}
	atomic.AddInt64(&w.recoveries, 1)
	w.logger.InfoContext(ctx, "List budget recovered", fields.ToSlice()...)
	return nil
}

func (w *AlertWorker) Stats() Stats {
	return Stats{
		Received:    atomic.LoadInt64(&w.received),
		Escalations: atomic.LoadInt64(&w.escalations),
		Recoveries:  atomic.LoadInt64(&w.recoveries),
		Stale:       atomic.LoadInt64(&w.stale),
	}
}
