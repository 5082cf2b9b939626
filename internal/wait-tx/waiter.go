package waittx

import (
	"context"
	"fmt"
	"time"

	txtypes "cosmossdk.io/api/cosmos/tx/v1beta1"

	clientconfig "github.com/wasmdapps/sdk-go/client/config"
)

// Querier fetches transactions over gRPC.
type Querier interface {
	GetTx(ctx context.Context, req *txtypes.GetTxRequest) (*txtypes.GetTxResponse, error)
}

// Waiter races a CometBFT subscription against a gRPC poller. The poller
// joins once the subscription fails or has not answered within setupDelay.
type Waiter struct {
	subscriber Source
	poller     Source
	setupDelay time.Duration
}

// New creates a waiter for cfg. Without an RPC endpoint only the poller runs.
func New(cfg clientconfig.WaitTxConfig, rpcEndpoint string, querier Querier) (*Waiter, error) {
	if querier == nil {
		return nil, fmt.Errorf("querier is required")
	}
	clientconfig.ApplyWaitTxDefaults(&cfg)

	w := &Waiter{poller: newPoller(querier, cfg), setupDelay: cfg.SubscriberSetupTimeout}
	if rpcEndpoint != "" {
		w.subscriber = newSubscriber(rpcEndpoint)
	}
	return w, nil
}

type outcome struct {
	from string
	res  Result
	err  error
}

// Wait returns the first result either source reports for txHash. The
// result carries the tx events; a non-zero code is left to Result.Err.
func (w *Waiter) Wait(ctx context.Context, txHash string, timeout time.Duration) (Result, error) {
	if w.poller == nil {
		return Result{}, fmt.Errorf("poller is required")
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if w.subscriber == nil {
		return w.poller.Wait(ctx, txHash)
	}

	// the loser is cancelled once a result is in
	raceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	outcomes := make(chan outcome, 2)
	run := func(name string, src Source) {
		res, err := src.Wait(raceCtx, txHash)
		outcomes <- outcome{from: name, res: res, err: err}
	}
	go run("subscriber", w.subscriber)

	setup := time.NewTimer(w.setupDelay)
	defer setup.Stop()

	pollerStarted, running := false, 1
	startPoller := func() {
		if !pollerStarted {
			pollerStarted = true
			running++
			go run("poller", w.poller)
		}
	}

	var lastErr error
	for running > 0 {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-setup.C:
			startPoller()
		case o := <-outcomes:
			running--
			if o.err == nil {
				return o.res, nil
			}
			lastErr = fmt.Errorf("%s: %w", o.from, o.err)
			startPoller()
		}
	}
	return Result{}, lastErr
}
