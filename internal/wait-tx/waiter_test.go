package waittx

import (
	"context"
	"errors"
	"testing"
	"time"

	abcipb "cosmossdk.io/api/cosmos/base/abci/v1beta1"
	txtypes "cosmossdk.io/api/cosmos/tx/v1beta1"

	clientconfig "github.com/wasmdapps/sdk-go/client/config"
	"github.com/wasmdapps/sdk-go/types"
)

type stubSource struct {
	res   Result
	err   error
	calls int
}

func (s *stubSource) Wait(ctx context.Context, txHash string) (Result, error) {
	s.calls++
	return s.res, s.err
}

func TestWaiterPrefersSubscriber(t *testing.T) {
	w := &Waiter{
		poller:     &stubSource{res: Result{Code: 1}},
		subscriber: &stubSource{res: Result{Code: 0}},
		setupDelay: 50 * time.Millisecond,
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	res, err := w.Wait(ctx, "hash", 0)
	if err != nil {
		t.Fatalf("wait error: %v", err)
	}
	if res.Code != 0 {
		t.Fatalf("expected subscriber result")
	}

	if w.poller.(*stubSource).calls != 0 {
		t.Fatalf("poller should not be used when subscriber succeeds")
	}
}

func TestWaiterFallsBackToPoller(t *testing.T) {
	poller := &stubSource{res: Result{Code: 2}}
	sub := &stubSource{err: errors.New("boom")}

	w := &Waiter{poller: poller, subscriber: sub, setupDelay: 10 * time.Millisecond}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	res, err := w.Wait(ctx, "hash", 0)
	if err != nil {
		t.Fatalf("wait error: %v", err)
	}
	if res.Code != 2 {
		t.Fatalf("expected poller result")
	}
	if poller.calls == 0 {
		t.Fatalf("poller should have been invoked")
	}
}

// blockingSource never answers; it reports when its context is cancelled.
type blockingSource struct {
	cancelled chan struct{}
}

func (s *blockingSource) Wait(ctx context.Context, txHash string) (Result, error) {
	<-ctx.Done()
	close(s.cancelled)
	return Result{}, ctx.Err()
}

func TestWaiterPollerJoinsSilentSubscriber(t *testing.T) {
	sub := &blockingSource{cancelled: make(chan struct{})}
	poller := &stubSource{res: Result{TxHash: "hash", Height: 4, Events: []types.Event{{Type: "wasm"}}}}
	w := &Waiter{poller: poller, subscriber: sub, setupDelay: 10 * time.Millisecond}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	res, err := w.Wait(ctx, "hash", 0)
	if err != nil {
		t.Fatalf("wait error: %v", err)
	}
	if res.Height != 4 || len(res.Events) != 1 {
		t.Fatalf("expected poller result with events, got %#v", res)
	}
	select {
	case <-sub.cancelled:
	case <-time.After(time.Second):
		t.Fatalf("subscriber was not cancelled after the poller won")
	}
}

func TestWaiterReportsLastFailure(t *testing.T) {
	w := &Waiter{
		poller:     &stubSource{err: types.ErrTimeout},
		subscriber: &stubSource{err: errors.New("ws closed")},
		setupDelay: time.Second,
	}
	_, err := w.Wait(context.Background(), "hash", time.Second)
	if !errors.Is(err, types.ErrTimeout) {
		t.Fatalf("expected poller timeout, got %v", err)
	}
}

type waiterStubQuerier struct {
	resp  *txtypes.GetTxResponse
	err   error
	calls int
}

func (s *waiterStubQuerier) GetTx(ctx context.Context, req *txtypes.GetTxRequest) (*txtypes.GetTxResponse, error) {
	s.calls++
	return s.resp, s.err
}

func TestNewSetsDefaults(t *testing.T) {
	resp := &txtypes.GetTxResponse{TxResponse: &abcipb.TxResponse{Txhash: "hash"}}
	q := &waiterStubQuerier{resp: resp}

	w, err := New(clientconfig.DefaultWaitTxConfig(), "ws://localhost:26657", q)
	if err != nil {
		t.Fatalf("new error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := w.Wait(ctx, "hash", 0); err != nil {
		t.Fatalf("unexpected wait error: %v", err)
	}
}

func TestResultErrCarriesTxError(t *testing.T) {
	ok := Result{TxHash: "AB", Code: 0}
	if err := ok.Err(); err != nil {
		t.Fatalf("unexpected error for code 0: %v", err)
	}

	failed := Result{TxHash: "AB", Code: 5, Codespace: "sdk", RawLog: "insufficient funds"}
	err := failed.Err()
	if !errors.Is(err, types.ErrTxRejected) {
		t.Fatalf("expected ErrTxRejected, got %v", err)
	}
	var txErr *types.TxError
	if !errors.As(err, &txErr) || txErr.Code != 5 || txErr.TxHash != "AB" {
		t.Fatalf("unexpected tx error: %#v", err)
	}

	withEvents := Result{TxHash: "CD", Height: 9, Events: []types.Event{{Type: "wasm"}}}
	tr := withEvents.TxResult()
	if tr.TxHash != "CD" || tr.Height != 9 || len(tr.Events) != 1 {
		t.Fatalf("unexpected tx result: %#v", tr)
	}
}
