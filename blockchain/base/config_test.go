package base

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	"github.com/stretchr/testify/require"
)

func TestGasLimitsFor(t *testing.T) {
	g := DefaultGasLimits()
	require.Equal(t, uint64(1_500_000), g.For(&wasmtypes.MsgStoreCode{}))
	require.Equal(t, uint64(500_000), g.For(&wasmtypes.MsgInstantiateContract{}))
	require.Equal(t, uint64(200_000), g.For(&wasmtypes.MsgExecuteContract{}))
	require.Equal(t, uint64(200_000), g.For(&wasmtypes.MsgMigrateContract{}))
	require.Equal(t, uint64(80_000), g.For(&banktypes.MsgSend{}))
	require.Equal(t, uint64(80_000), g.For(&wasmtypes.MsgUpdateAdmin{}))
	require.Zero(t, g.For(&banktypes.MsgMultiSend{}))
}

func TestFeeForRoundsUp(t *testing.T) {
	price, err := ParseGasPrice("")
	require.NoError(t, err)
	require.True(t, price.Equal(sdkmath.LegacyMustNewDecFromStr("0.025")))

	require.Equal(t, int64(5000), FeeFor(200_000, price).Int64())
	require.Equal(t, int64(1), FeeFor(1, price).Int64())
	require.Equal(t, int64(37500), FeeFor(1_500_000, price).Int64())
	require.Equal(t, int64(2000), FeeFor(80_000, price).Int64())
	require.True(t, FeeFor(10, sdkmath.LegacyDec{}).IsZero())

	_, err = ParseGasPrice("abc")
	require.Error(t, err)
}

func TestShouldUseTLS(t *testing.T) {
	require.True(t, shouldUseTLS("grpc.oysternet.cosmwasm.com:443"))
	require.True(t, shouldUseTLS("grpc.example.com:9090"))
	require.False(t, shouldUseTLS("localhost:9090"))
	require.False(t, shouldUseTLS("127.0.0.1:9090"))
	require.False(t, shouldUseTLS(":9090"))
}
