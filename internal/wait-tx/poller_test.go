package waittx

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	abcipb "cosmossdk.io/api/cosmos/base/abci/v1beta1"
	txtypes "cosmossdk.io/api/cosmos/tx/v1beta1"
	abcitypes "cosmossdk.io/api/tendermint/abci"

	"github.com/wasmdapps/sdk-go/types"
)

type stubQuerier struct {
	resp  *txtypes.GetTxResponse
	err   error
	calls int
}

func (s *stubQuerier) GetTx(ctx context.Context, req *txtypes.GetTxRequest) (*txtypes.GetTxResponse, error) {
	s.calls++
	return s.resp, s.err
}

func TestPollerStopsAfterMaxRetries(t *testing.T) {
	p := &poller{
		querier:  &stubQuerier{err: errors.New("unavailable")},
		backoff:  constantBackoff{every: time.Millisecond},
		maxTries: 3,
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := p.Wait(ctx, "hash")
	if err == nil {
		t.Fatalf("expected error when retries exhausted")
	}
	if !errors.Is(err, types.ErrTimeout) || !strings.Contains(err.Error(), "unavailable") {
		t.Fatalf("expected timeout wrapping the last error, got %v", err)
	}
}

func TestPollerReturnsSuccessfulResult(t *testing.T) {
	resp := &txtypes.GetTxResponse{TxResponse: &abcipb.TxResponse{
		Txhash: "hash",
		Code:   9,
	}}
	p := &poller{
		querier:  &stubQuerier{resp: resp},
		backoff:  constantBackoff{every: 0},
		maxTries: 1,
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	res, err := p.Wait(ctx, "hash")
	if err != nil {
		t.Fatalf("wait error: %v", err)
	}
	if res.Code != resp.TxResponse.Code {
		t.Fatalf("unexpected code: %d", res.Code)
	}
}

func TestPollerDecodesEvents(t *testing.T) {
	resp := &txtypes.GetTxResponse{TxResponse: &abcipb.TxResponse{
		Txhash: "ABCD",
		Height: 42,
		Events: []*abcitypes.Event{{
			Type_: "wasm",
			Attributes: []*abcitypes.EventAttribute{
				{Key: "_contract_address", Value: "wasm1contract"},
				{Key: "pong", Value: "pong"},
			},
		}},
	}}
	p := &poller{
		querier:  &stubQuerier{resp: resp},
		backoff:  constantBackoff{every: 0},
		maxTries: 1,
	}

	res, err := p.Wait(context.Background(), "ABCD")
	if err != nil {
		t.Fatalf("wait error: %v", err)
	}
	if res.TxHash != "ABCD" || res.Height != 42 {
		t.Fatalf("unexpected result header: %#v", res)
	}
	if typ, ok := res.TxResult().FindAttribute("pong", "pong"); !ok || typ != "wasm" {
		t.Fatalf("pong attribute not found: %#v", res.Events)
	}
}

func TestPollerExhaustedWithoutResponseIsTimeout(t *testing.T) {
	p := &poller{
		querier:  &stubQuerier{},
		backoff:  constantBackoff{every: time.Millisecond},
		maxTries: 2,
	}
	_, err := p.Wait(context.Background(), "hash")
	if !errors.Is(err, types.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestExponentialBackoffSequence(t *testing.T) {
	b := &exponentialBackoff{
		initial:    time.Second,
		multiplier: 2,
		max:        5 * time.Second,
	}
	want := []time.Duration{
		time.Second,
		2 * time.Second,
		4 * time.Second,
		5 * time.Second,
		5 * time.Second,
	}
	for i, expected := range want {
		if got := b.Next(i + 1); got != expected {
			t.Fatalf("attempt %d: want %v; got %v", i+1, expected, got)
		}
	}
}

func TestExponentialBackoffJitter(t *testing.T) {
	base := time.Second
	b := &exponentialBackoff{
		initial: base,
		jitter:  0.5,
	}
	b.randFn = func() float64 { return 0 }
	if got := b.Next(1); got != base/2 {
		t.Fatalf("jitter low bound: want %v; got %v", base/2, got)
	}
	b.randFn = func() float64 { return 1 }
	if got := b.Next(1); got != base+base/2 {
		t.Fatalf("jitter high bound: want %v; got %v", base+base/2, got)
	}
}

func TestExponentialBackoffDefaults(t *testing.T) {
	b := &exponentialBackoff{}
	if got := b.Next(0); got != 500*time.Millisecond {
		t.Fatalf("default initial: want %v; got %v", 500*time.Millisecond, got)
	}

	b = &exponentialBackoff{multiplier: 0.5}
	if got := b.Next(3); got != 500*time.Millisecond {
		t.Fatalf("multiplier <= 1 should not shrink delay: want %v; got %v", 500*time.Millisecond, got)
	}
}
