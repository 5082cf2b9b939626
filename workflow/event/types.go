package event

import (
	"context"
	"time"
)

// EventType represents the type of event emitted by the workflow.
type EventType string

// Workflow event types.
const (
	Bootstrapped     EventType = "workflow:bootstrapped"
	BootstrapFailed  EventType = "workflow:bootstrap_failed"
	BalanceRefreshed EventType = "workflow:balance_refreshed"
	FaucetCredited   EventType = "workflow:faucet_credited"
	ContractBound    EventType = "workflow:contract_bound"
	ExecuteStarted   EventType = "workflow:execute_started"
	ExecuteSettled   EventType = "workflow:execute_settled"
	CountRefreshed   EventType = "workflow:count_refreshed"
	ErrorRaised      EventType = "workflow:error"
	ErrorDismissed   EventType = "workflow:error_dismissed"
)

// EventDataKey identifies metadata entries.
type EventDataKey string

// EventData stores contextual attributes for an event.
type EventData map[EventDataKey]any

// Standard event data keys.
const (
	KeyError    EventDataKey = "error"
	KeyTxHash   EventDataKey = "txhash"
	KeyCount    EventDataKey = "count"
	KeyAddress  EventDataKey = "address"
	KeyContract EventDataKey = "contract"
	KeyBalance  EventDataKey = "balance"
	KeyCodeID   EventDataKey = "code_id"
	KeyLabel    EventDataKey = "label"
)

// Event represents an emitted workflow event. State holds the workflow
// state name after the transition.
type Event struct {
	Type      EventType
	State     string
	Timestamp time.Time
	Data      EventData
}

// Handler processes events.
type Handler func(ctx context.Context, e Event)
