package types

import (
	"context"
	"errors"
	"fmt"
	"net"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("not found")

	// ErrTimeout is returned when an operation times out
	ErrTimeout = errors.New("operation timed out")

	// ErrTxRejected marks a transaction that the chain refused, either at
	// CheckTx or when it was delivered in a block.
	ErrTxRejected = errors.New("transaction rejected")

	// ErrNotBootstrapped is returned when a workflow action needs an account
	// and signing session that do not exist yet.
	ErrNotBootstrapped = errors.New("account not ready")

	// ErrNoContract is returned when an action needs a bound contract.
	ErrNoContract = errors.New("no contract selected")

	// ErrExecuteInFlight is returned when an execute is requested while
	// another one against the same contract has not settled.
	ErrExecuteInFlight = errors.New("execute already in flight")

	// ErrAccountFunded is returned by the faucet guard.
	ErrAccountFunded = errors.New("account already has funds")
)

// TxError describes a transaction that returned a non-zero result code.
type TxError struct {
	TxHash    string
	Codespace string
	Code      uint32
	RawLog    string
}

func (e *TxError) Error() string {
	if e.TxHash != "" {
		return fmt.Sprintf("tx %s failed with code %d (%s): %s", e.TxHash, e.Code, e.Codespace, e.RawLog)
	}
	return fmt.Sprintf("tx failed with code %d (%s): %s", e.Code, e.Codespace, e.RawLog)
}

func (e *TxError) Is(target error) bool { return target == ErrTxRejected }

// BootstrapError is fatal: without a secret, an account and a session no
// contract operation is possible.
type BootstrapError struct {
	Stage string
	Err   error
}

func (e *BootstrapError) Error() string {
	return fmt.Sprintf("bootstrap failed at %s: %v", e.Stage, e.Err)
}

func (e *BootstrapError) Unwrap() error { return e.Err }

// TransportError reports an unreachable endpoint or a timeout.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport error: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ChainRejectionError reports a transaction or query the chain refused.
type ChainRejectionError struct {
	Op      string
	Code    uint32
	Message string
	Err     error
}

func (e *ChainRejectionError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s: rejected by chain (code %d): %s", e.Op, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: rejected by chain: %s", e.Op, e.Message)
}

func (e *ChainRejectionError) Unwrap() error { return e.Err }

// EventNotFoundError means the transaction was included and succeeded but the
// contract did not emit the expected attribute.
type EventNotFoundError struct {
	TxHash string
	Key    string
	Value  string
}

func (e *EventNotFoundError) Error() string {
	return fmt.Sprintf("%s event not found in tx result %s (want %s=%s)", e.Key, e.TxHash, e.Key, e.Value)
}

// InstantiationError wraps the classified cause of a failed instantiate.
type InstantiationError struct {
	CodeID uint64
	Label  string
	Err    error
}

func (e *InstantiationError) Error() string {
	return fmt.Sprintf("instantiate code %d (label %q): %v", e.CodeID, e.Label, e.Err)
}

func (e *InstantiationError) Unwrap() error { return e.Err }

// Classify converts a raw session error into a TransportError or a
// ChainRejectionError. Errors that are already part of the taxonomy, and
// workflow sentinels, are returned unchanged.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var (
		transport *TransportError
		rejection *ChainRejectionError
		notFound  *EventNotFoundError
		bootstrap *BootstrapError
		inst      *InstantiationError
	)
	switch {
	case errors.As(err, &transport), errors.As(err, &rejection), errors.As(err, &notFound),
		errors.As(err, &bootstrap), errors.As(err, &inst):
		return err
	case errors.Is(err, ErrExecuteInFlight), errors.Is(err, ErrNoContract),
		errors.Is(err, ErrNotBootstrapped), errors.Is(err, ErrAccountFunded):
		return err
	}

	// inclusion waits that ran out of attempts
	if errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &TransportError{Op: op, Err: err}
	}

	var txErr *TxError
	if errors.As(err, &txErr) {
		return &ChainRejectionError{Op: op, Code: txErr.Code, Message: txErr.RawLog, Err: err}
	}

	if st, ok := status.FromError(err); ok && st.Code() != codes.OK {
		switch st.Code() {
		case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
			return &TransportError{Op: op, Err: err}
		default:
			return &ChainRejectionError{Op: op, Message: st.Message(), Err: err}
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return &TransportError{Op: op, Err: err}
	}

	return &ChainRejectionError{Op: op, Message: err.Error(), Err: err}
}

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var t *TransportError
	return errors.As(err, &t)
}

// IsChainRejection reports whether err is (or wraps) a ChainRejectionError.
func IsChainRejection(err error) bool {
	var r *ChainRejectionError
	return errors.As(err, &r)
}

// IsEventNotFound reports whether err is (or wraps) an EventNotFoundError.
func IsEventNotFound(err error) bool {
	var e *EventNotFoundError
	return errors.As(err, &e)
}

// UserMessage renders err as a single line suitable for an error banner.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var rejection *ChainRejectionError
	if errors.As(err, &rejection) && rejection.Message != "" {
		return rejection.Message
	}
	return err.Error()
}
