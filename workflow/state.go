package workflow

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// State is a step of the workflow state machine.
type State int

const (
	Uninitialized State = iota
	AccountReady
	ContractReady
	Executing
	Settled
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case AccountReady:
		return "account_ready"
	case ContractReady:
		return "contract_ready"
	case Executing:
		return "executing"
	case Settled:
		return "settled"
	default:
		return "unknown"
	}
}

// Outcome describes how the last execute settled.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeSuccess
	OutcomeFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	default:
		return "none"
	}
}

// Snapshot is a copy of the workflow state handed to the presentation layer.
type Snapshot struct {
	State    State
	Outcome  Outcome
	Address  string
	Balance  *sdk.Coin
	Contract string
	Count    uint64
	// CountKnown is false until the count was queried for the bound contract.
	CountKnown bool
	LastTxHash string
	// LastResultErr is the failure of the last settled execute.
	LastResultErr error
	// Err is the most recent error of any action, until dismissed.
	Err error
}
