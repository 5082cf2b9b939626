package waittx

import (
	"context"
	"time"

	"github.com/wasmdapps/sdk-go/types"
)

// Result represents the outcome produced by waiting on a tx.
type Result struct {
	TxHash    string
	Height    int64
	Code      uint32
	Codespace string
	RawLog    string
	GasUsed   int64
	Events    []types.Event
}

// TxResult converts r into the public result type.
func (r Result) TxResult() *types.TxResult {
	return &types.TxResult{
		TxHash:  r.TxHash,
		Height:  r.Height,
		GasUsed: r.GasUsed,
		Events:  r.Events,
	}
}

// Err returns a *types.TxError when the tx was included with a non-zero code.
func (r Result) Err() error {
	if r.Code == 0 {
		return nil
	}
	return &types.TxError{TxHash: r.TxHash, Codespace: r.Codespace, Code: r.Code, RawLog: r.RawLog}
}

// Source abstracts a tx wait mechanism (poller, subscriber, etc).
type Source interface {
	Wait(ctx context.Context, txHash string) (Result, error)
}

// Backoff controls polling cadence.
type Backoff interface {
	Next(attempt int) time.Duration
}
