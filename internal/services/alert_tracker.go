package services

import (
	"context"

	"shoplist/internal/cache"
	"shoplist/internal/core"
	"shoplist/internal/log"
)

// AlertPublisher delivers budget tier changes to interested consumers.
type AlertPublisher interface {
	PublishBudgetAlert(ctx context.Context, l core.List, previous core.BudgetStatus) error
}

// AlertTracker remembers the last tier seen per list and publishes an alert
// whenever a list lands in a different one.
type AlertTracker struct {
	publisher AlertPublisher
	last      cache.Cache[core.BudgetStatus]
	logger    *log.Logger
}

func NewAlertTracker(publisher AlertPublisher, last cache.Cache[core.BudgetStatus], logger *log.Logger) *AlertTracker {
	if logger == nil {
		logger = defaultLogger(log.ComponentAlerts)
	}
	return &AlertTracker{publisher: publisher, last: last, logger: logger}
}

// Prime records the current tier of l without publishing.
func (t *AlertTracker) Prime(l core.List) {
	t.last.Set(l.ID, core.StatusOf(l))
}

// Record stores the tier of after and returns the tier it replaces. When
// nothing is remembered for the list (never seen, evicted or expired) the
// tier of before is used instead. Calls for one list must be serialized in
// the order the changes were applied, which the store's Update lock gives.
func (t *AlertTracker) Record(before, after core.List) (previous core.BudgetStatus, changed bool) {
	current := core.StatusOf(after)
	previous, ok := t.last.Swap(after.ID, current)
	if !ok {
		previous = core.StatusOf(before)
	}
	return previous, previous != current
}

// Publish sends the alert for a change returned by Record. It reports
// whether the alert went out. Failures are logged and never returned: the
// list change already happened.
func (t *AlertTracker) Publish(ctx context.Context, l core.List, previous core.BudgetStatus) bool {
	if err := t.publisher.PublishBudgetAlert(ctx, l, previous); err != nil {
		t.logger.ErrorContext(ctx, "Failed to publish budget alert",
			log.FieldListID, l.ID,
			log.FieldPreviousStatus, previous,
			log.FieldBudgetStatus, core.StatusOf(l),
			log.FieldError, err)
		return false
	}
	return true
}

// Forget drops what is known about a list.
func (t *AlertTracker) Forget(listID string) {
	t.last.Delete(listID)
}
