package blockchain

import (
	"encoding/json"
	"fmt"

	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"

	"github.com/wasmdapps/sdk-go/types"
)

// TxOption adjusts optional fields of a contract transaction.
type TxOption func(*txOptions)

type txOptions struct {
	memo  string
	admin string
}

// WithMemo sets the tx memo.
func WithMemo(memo string) TxOption {
	return func(o *txOptions) { o.memo = memo }
}

// WithAdmin sets the admin of an instantiated contract.
func WithAdmin(admin string) TxOption {
	return func(o *txOptions) { o.admin = admin }
}

func applyTxOptions(opts []TxOption) txOptions {
	var o txOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// NewMsgStoreCode constructs a MsgStoreCode uploading wasm byte code.
func NewMsgStoreCode(sender string, wasm []byte) *wasmtypes.MsgStoreCode {
	return &wasmtypes.MsgStoreCode{
		Sender:       sender,
		WASMByteCode: wasm,
	}
}

// NewMsgInstantiateContract constructs a MsgInstantiateContract.
// initMsg must be a JSON document.
func NewMsgInstantiateContract(sender, admin string, codeID uint64, label string, initMsg []byte, funds sdk.Coins) (*wasmtypes.MsgInstantiateContract, error) {
	if err := validateJSON(initMsg); err != nil {
		return nil, fmt.Errorf("init msg: %w", err)
	}
	return &wasmtypes.MsgInstantiateContract{
		Sender: sender,
		Admin:  admin,
		CodeID: codeID,
		Label:  label,
		Msg:    wasmtypes.RawContractMessage(initMsg),
		Funds:  funds,
	}, nil
}

// NewMsgExecuteContract constructs a MsgExecuteContract. msg must be a JSON document.
func NewMsgExecuteContract(sender, contract string, msg []byte, funds sdk.Coins) (*wasmtypes.MsgExecuteContract, error) {
	if err := validateJSON(msg); err != nil {
		return nil, fmt.Errorf("execute msg: %w", err)
	}
	return &wasmtypes.MsgExecuteContract{
		Sender:   sender,
		Contract: contract,
		Msg:      wasmtypes.RawContractMessage(msg),
		Funds:    funds,
	}, nil
}

// NewMsgMigrateContract constructs a MsgMigrateContract.
func NewMsgMigrateContract(sender, contract string, codeID uint64, msg []byte) (*wasmtypes.MsgMigrateContract, error) {
	if err := validateJSON(msg); err != nil {
		return nil, fmt.Errorf("migrate msg: %w", err)
	}
	return &wasmtypes.MsgMigrateContract{
		Sender:   sender,
		Contract: contract,
		CodeID:   codeID,
		Msg:      wasmtypes.RawContractMessage(msg),
	}, nil
}

// NewMsgUpdateAdmin constructs a MsgUpdateAdmin.
func NewMsgUpdateAdmin(sender, contract, newAdmin string) *wasmtypes.MsgUpdateAdmin {
	return &wasmtypes.MsgUpdateAdmin{
		Sender:   sender,
		Contract: contract,
		NewAdmin: newAdmin,
	}
}

// NewMsgSend constructs a bank MsgSend between bech32 addresses.
func NewMsgSend(from, to string, amount sdk.Coins) *banktypes.MsgSend {
	return &banktypes.MsgSend{
		FromAddress: from,
		ToAddress:   to,
		Amount:      amount,
	}
}

// uploadMemo records where the byte code came from. MsgStoreCode has no
// fields for it, so it travels in the memo.
func uploadMemo(meta types.UploadMeta) string {
	switch {
	case meta.Source != "" && meta.Builder != "":
		return fmt.Sprintf("source=%s builder=%s", meta.Source, meta.Builder)
	case meta.Source != "":
		return "source=" + meta.Source
	case meta.Builder != "":
		return "builder=" + meta.Builder
	default:
		return ""
	}
}

func validateJSON(bz []byte) error {
	if len(bz) == 0 {
		return fmt.Errorf("empty message")
	}
	if !json.Valid(bz) {
		return fmt.Errorf("invalid JSON: %s", bz)
	}
	return nil
}
