package types

import (
	"encoding/base64"
	"testing"

	abcitypes "cosmossdk.io/api/cosmos/base/abci/v1beta1"
	abci "cosmossdk.io/api/tendermint/abci"
	"github.com/stretchr/testify/require"
)

func TestTxResultFromProtoDecodesBase64Attributes(t *testing.T) {
	enc := base64.StdEncoding.EncodeToString
	resp := &abcitypes.TxResponse{
		Txhash: "HASH",
		Height: 12,
		Events: []*abci.Event{
			{Type_: "message", Attributes: []*abci.EventAttribute{{Key: "action", Value: "/cosmwasm.wasm.v1.MsgExecuteContract"}}},
			{Type_: "wasm", Attributes: []*abci.EventAttribute{
				{Key: enc([]byte("_contract_address")), Value: enc([]byte("wasm1contract"))},
				{Key: "pong", Value: "pong"},
			}},
			nil,
		},
	}

	res := TxResultFromProto(resp)
	require.Equal(t, "HASH", res.TxHash)
	require.Equal(t, int64(12), res.Height)
	require.Len(t, res.Events, 2)

	v, ok := res.AttributeValue("wasm", "_contract_address")
	require.True(t, ok)
	require.Equal(t, "wasm1contract", v)

	evType, ok := res.FindAttribute("pong", "pong")
	require.True(t, ok)
	require.Equal(t, "wasm", evType)

	_, ok = res.FindAttribute("pong", "ping")
	require.False(t, ok)
}

func TestFindAttributeOnNil(t *testing.T) {
	var res *TxResult
	_, ok := res.FindAttribute("pong", "pong")
	require.False(t, ok)
	require.Nil(t, TxResultFromProto(nil))
}
