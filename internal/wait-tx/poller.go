package waittx

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	abcipb "cosmossdk.io/api/cosmos/base/abci/v1beta1"
	txtypes "cosmossdk.io/api/cosmos/tx/v1beta1"

	clientconfig "github.com/wasmdapps/sdk-go/client/config"
	"github.com/wasmdapps/sdk-go/types"
)

const defaultPollInterval = 500 * time.Millisecond

// poller asks the tx service for txHash until it is indexed.
type poller struct {
	querier  Querier
	backoff  Backoff
	maxTries int
}

func newPoller(q Querier, cfg clientconfig.WaitTxConfig) *poller {
	return &poller{querier: q, backoff: NewBackoff(cfg), maxTries: cfg.PollMaxRetries}
}

type constantBackoff struct{ every time.Duration }

func (b constantBackoff) Next(int) time.Duration { return b.every }

// exponentialBackoff grows initial by multiplier per attempt, capped at max,
// then spreads the delay by +/- jitter.
type exponentialBackoff struct {
	initial    time.Duration
	multiplier float64
	max        time.Duration
	jitter     float64
	randFn     func() float64
}

func (b *exponentialBackoff) Next(attempt int) time.Duration {
	// headroom below MaxInt64 so float rounding cannot overflow the conversion
	ceiling := float64(math.MaxInt64) - 2048
	if b.max > 0 {
		ceiling = math.Min(ceiling, float64(b.max))
	}

	initial := b.initial
	if initial <= 0 {
		initial = defaultPollInterval
	}
	delay := float64(initial)
	if b.multiplier > 1 && attempt > 1 {
		delay *= math.Pow(b.multiplier, float64(attempt-1))
	}
	delay = clamp(delay, 0, ceiling)

	if jitter := clamp(b.jitter, 0, 1); jitter > 0 {
		randFn := b.randFn
		if randFn == nil {
			randFn = rand.Float64
		}
		delay = clamp(delay*(1+(randFn()*2-1)*jitter), 0, float64(math.MaxInt64)-2048)
	}

	if d := time.Duration(delay); d > 0 {
		return d
	}
	return time.Millisecond
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// NewBackoff picks a constant interval unless cfg asks for growth or jitter.
func NewBackoff(cfg clientconfig.WaitTxConfig) Backoff {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	grows := cfg.PollBackoffMultiplier > 1 || cfg.PollBackoffJitter > 0 ||
		(cfg.PollBackoffMaxInterval > 0 && cfg.PollBackoffMaxInterval != interval)
	if !grows {
		return constantBackoff{every: interval}
	}
	return &exponentialBackoff{
		initial:    interval,
		multiplier: cfg.PollBackoffMultiplier,
		max:        cfg.PollBackoffMaxInterval,
		jitter:     cfg.PollBackoffJitter,
	}
}

func (p *poller) Wait(ctx context.Context, txHash string) (Result, error) {
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		resp, err := p.querier.GetTx(ctx, &txtypes.GetTxRequest{Hash: txHash})
		if err == nil && resp.GetTxResponse().GetTxhash() != "" {
			return resultFromResponse(resp.GetTxResponse()), nil
		}

		if p.maxTries > 0 && attempt >= p.maxTries {
			if err == nil {
				return Result{}, fmt.Errorf("polling exhausted after %d attempts: %w", attempt, types.ErrTimeout)
			}
			return Result{}, fmt.Errorf("polling exhausted after %d attempts: %w: %w", attempt, types.ErrTimeout, err)
		}

		if err := sleep(ctx, p.backoff.Next(attempt)); err != nil {
			return Result{}, err
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func resultFromResponse(resp *abcipb.TxResponse) Result {
	return Result{
		TxHash:    resp.GetTxhash(),
		Height:    resp.GetHeight(),
		Code:      resp.GetCode(),
		Codespace: resp.GetCodespace(),
		RawLog:    resp.GetRawLog(),
		GasUsed:   resp.GetGasUsed(),
		Events:    types.EventsFromProto(resp),
	}
}
