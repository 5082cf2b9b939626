package types

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestClassifyTransport(t *testing.T) {
	cases := []error{
		status.Error(codes.Unavailable, "connection refused"),
		fmt.Errorf("query: %w", status.Error(codes.DeadlineExceeded, "slow")),
		fmt.Errorf("wait: %w", context.DeadlineExceeded),
		fmt.Errorf("tx F00D not indexed after 3 attempts: %w", ErrTimeout),
		fmt.Errorf("polling exhausted after 3 attempts: %w: %w", ErrTimeout, status.Error(codes.NotFound, "tx not found")),
	}
	for _, in := range cases {
		err := Classify("op", in)
		require.True(t, IsTransport(err), "expected transport for %v", in)
		require.False(t, IsChainRejection(err))
		require.ErrorIs(t, err, in)
	}
}

func TestClassifyChainRejection(t *testing.T) {
	txErr := &TxError{TxHash: "ABC", Code: 5, Codespace: "sdk", RawLog: "insufficient funds"}
	err := Classify("execute", fmt.Errorf("broadcast: %w", txErr))

	var rej *ChainRejectionError
	require.ErrorAs(t, err, &rej)
	require.Equal(t, uint32(5), rej.Code)
	require.Equal(t, "insufficient funds", rej.Message)
	require.ErrorIs(t, err, ErrTxRejected)
	require.Equal(t, "insufficient funds", UserMessage(err))

	err = Classify("query", status.Error(codes.InvalidArgument, "unknown variant `foo`"))
	require.True(t, IsChainRejection(err))
	require.Equal(t, "unknown variant `foo`", UserMessage(err))
}

func TestClassifyKeepsTaxonomy(t *testing.T) {
	notFound := &EventNotFoundError{TxHash: "H", Key: "pong", Value: "pong"}
	require.Same(t, notFound, Classify("ping", notFound))
	require.True(t, IsEventNotFound(Classify("ping", notFound)))

	require.ErrorIs(t, Classify("ping", ErrExecuteInFlight), ErrExecuteInFlight)
	require.False(t, IsChainRejection(Classify("ping", ErrExecuteInFlight)))
	require.Nil(t, Classify("noop", nil))
}

func TestEventNotFoundIsNotRejection(t *testing.T) {
	err := error(&EventNotFoundError{TxHash: "H", Key: "pong", Value: "pong"})
	require.False(t, IsTransport(err))
	require.False(t, IsChainRejection(err))
	require.False(t, errors.Is(err, ErrTxRejected))
	require.Contains(t, err.Error(), "pong event not found")
}

func TestWrappingErrorsUnwrap(t *testing.T) {
	cause := errors.New("boom")
	require.ErrorIs(t, &BootstrapError{Stage: "session", Err: cause}, cause)
	require.ErrorIs(t, &InstantiationError{CodeID: 15, Label: "x", Err: cause}, cause)
	require.Equal(t, "", UserMessage(nil))
}
