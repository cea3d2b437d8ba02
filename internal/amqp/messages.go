package amqp

import (
	"encoding/json"
	"time"
)

// Entities a change message can refer to.
const (
	EntityRecurringItem  = "recurring_item"
	EntityPlannedExpense = "planned_expense"
	EntityBalance        = "balance"
)

// Actions carried by a change message.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// BudgetChangedMessage tells the snapshot worker that budget input data
// changed. It carries only the entity reference; the worker reloads the
// full snapshot from the database.
type BudgetChangedMessage struct {
	Entity    string    `json:"entity"`
	ID        int64     `json:"id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// NewBudgetChangedMessage creates a change message for the given entity
func NewBudgetChangedMessage(entity string, id int64, action string) *BudgetChangedMessage {
	return &BudgetChangedMessage{
		Entity:    entity,
		ID:        id,
		Action:    action,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *BudgetChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BudgetChangedMessageFromJSON creates a message from JSON bytes
func BudgetChangedMessageFromJSON(data []byte) (*BudgetChangedMessage, error) {
	var msg BudgetChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
