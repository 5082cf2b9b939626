package base

import (
	"time"

	sdkmath "cosmossdk.io/math"
	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"

	clientconfig "github.com/wasmdapps/sdk-go/client/config"
)

// Config captures shared Cosmos SDK chain settings for gRPC + tx workflows.
type Config struct {
	ChainID        string
	GRPCAddr       string
	RPCEndpoint    string
	AccountHRP     string
	FeeDenom       string
	GasPrice       sdkmath.LegacyDec
	GasLimits      GasLimits
	Timeout        time.Duration
	MaxRecvMsgSize int
	MaxSendMsgSize int
	InsecureGRPC   bool
	WaitTx         clientconfig.WaitTxConfig
}

// GasLimits is the fixed gas budget per message kind. A zero entry means
// the limit is estimated by simulation instead.
type GasLimits struct {
	Upload      uint64
	Instantiate uint64
	Execute     uint64
	Migrate     uint64
	Send        uint64
	ChangeAdmin uint64
}

// DefaultGasLimits mirrors the limits used by the CosmWasm JS client.
func DefaultGasLimits() GasLimits {
	return GasLimits{
		Upload:      1_500_000,
		Instantiate: 500_000,
		Execute:     200_000,
		Migrate:     200_000,
		Send:        80_000,
		ChangeAdmin: 80_000,
	}
}

// For returns the configured limit for msg, or 0 when msg is not covered.
func (g GasLimits) For(msg sdk.Msg) uint64 {
	switch msg.(type) {
	case *wasmtypes.MsgStoreCode:
		return g.Upload
	case *wasmtypes.MsgInstantiateContract, *wasmtypes.MsgInstantiateContract2:
		return g.Instantiate
	case *wasmtypes.MsgExecuteContract:
		return g.Execute
	case *wasmtypes.MsgMigrateContract:
		return g.Migrate
	case *banktypes.MsgSend:
		return g.Send
	case *wasmtypes.MsgUpdateAdmin, *wasmtypes.MsgClearAdmin:
		return g.ChangeAdmin
	default:
		return 0
	}
}

// ParseGasPrice parses a decimal amount such as "0.025". Empty input yields
// the default price.
func ParseGasPrice(s string) (sdkmath.LegacyDec, error) {
	if s == "" {
		s = clientconfig.DefaultGasPrice
	}
	return sdkmath.LegacyNewDecFromStr(s)
}

// FeeFor returns ceil(gas * price) as the fee amount.
func FeeFor(gas uint64, price sdkmath.LegacyDec) sdkmath.Int {
	if price.IsNil() {
		return sdkmath.ZeroInt()
	}
	return price.MulInt(sdkmath.NewIntFromUint64(gas)).Ceil().TruncateInt()
}
