package amqp

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"shoplist/internal/core"
)

// BudgetAlertMessage announces that a list moved to a different budget tier.
type BudgetAlertMessage struct {
	ListID     string            `json:"list_id"`
	ListName   string            `json:"list_name"`
	Previous   core.BudgetStatus `json:"previous"`
	Current    core.BudgetStatus `json:"current"`
	Spent      decimal.Decimal   `json:"spent"`
	Budget     decimal.Decimal   `json:"budget"`
	Percentage float64           `json:"percentage"`
	Timestamp  time.Time         `json:"timestamp"`
}

// NewBudgetAlertMessage builds an alert from the list's current state.
func NewBudgetAlertMessage(l core.List, previous core.BudgetStatus) *BudgetAlertMessage {
	s := core.Summarize(l)
	return &BudgetAlertMessage{
		ListID:     l.ID,
		ListName:   l.Name,
		Previous:   previous,
		Current:    s.Status,
		Spent:      s.TotalCost,
		Budget:     s.TotalBudget,
		Percentage: s.BudgetPercent,
		Timestamp:  time.Now(),
	}
}

// Escalated reports whether the list got closer to or past its budget.
func (m *BudgetAlertMessage) Escalated() bool {
	return m.Current.Severity() > m.Previous.Severity()
}

func (m *BudgetAlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func BudgetAlertMessageFromJSON(data []byte) (*BudgetAlertMessage, error) {
	var msg BudgetAlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
