package waittx

import (
	"context"
	"fmt"
	"strings"

	rpchttp "github.com/cometbft/cometbft/rpc/client/http"
	tmtypes "github.com/cometbft/cometbft/types"

	"github.com/wasmdapps/sdk-go/types"
)

const subscriberID = "pingpong-wait"

type subscriber struct {
	endpoint string
}

func newSubscriber(endpoint string) Source {
	return &subscriber{endpoint: endpoint}
}

func (s *subscriber) Wait(ctx context.Context, txHash string) (Result, error) {
	client, err := rpchttp.New(s.endpoint, "/websocket")
	if err != nil {
		return Result{}, fmt.Errorf("tm client init: %w", err)
	}
	if err := client.Start(); err != nil {
		return Result{}, fmt.Errorf("tm client start: %w", err)
	}
	defer client.Stop() //nolint:errcheck

	query := fmt.Sprintf("tm.event='Tx' AND tx.hash='%s'", formatTMHash(txHash))
	ch, err := client.Subscribe(ctx, subscriberID, query)
	if err != nil {
		return Result{}, fmt.Errorf("subscribe: %w", err)
	}
	defer client.Unsubscribe(context.Background(), subscriberID, query) //nolint:errcheck

	for {
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case ev := <-ch:
			txev, ok := ev.Data.(tmtypes.EventDataTx)
			if !ok {
				continue
			}
			return resultFromEventData(txHash, txev), nil
		}
	}
}

func resultFromEventData(txHash string, txev tmtypes.EventDataTx) Result {
	res := txev.TxResult.Result
	events := make([]types.Event, 0, len(res.Events))
	for _, e := range res.Events {
		ev := types.Event{Type: e.Type}
		for _, a := range e.Attributes {
			ev.Attributes = append(ev.Attributes, types.Attribute{Key: a.Key, Value: a.Value})
		}
		events = append(events, ev)
	}
	return Result{
		TxHash:    strings.ToUpper(strings.TrimPrefix(txHash, "0x")),
		Height:    txev.TxResult.Height,
		Code:      res.Code,
		Codespace: res.Codespace,
		RawLog:    res.Log,
		GasUsed:   res.GasUsed,
		Events:    events,
	}
}

func formatTMHash(h string) string {
	h = strings.TrimPrefix(h, "0x")
	return "0x" + strings.ToUpper(h)
}
