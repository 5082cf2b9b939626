package blockchain

import (
	"context"
	"fmt"
	"strconv"

	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/wasmdapps/sdk-go/types"
)

// Event types and attribute keys emitted by x/wasm.
const (
	EventTypeInstantiate = "instantiate"
	EventTypeStoreCode   = "store_code"
	AttrContractAddress  = "_contract_address"
	AttrCodeID           = "code_id"
	AttrCodeChecksum     = "code_checksum"
)

// WasmClient provides wasm module queries
type WasmClient struct {
	query wasmtypes.QueryClient
}

// SmartQuery sends a JSON query to a contract and returns the raw JSON reply.
func (w *WasmClient) SmartQuery(ctx context.Context, contract string, msg []byte) ([]byte, error) {
	if err := validateJSON(msg); err != nil {
		return nil, fmt.Errorf("query msg: %w", err)
	}
	resp, err := w.query.SmartContractState(ctx, &wasmtypes.QuerySmartContractStateRequest{
		Address:   contract,
		QueryData: wasmtypes.RawContractMessage(msg),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query contract %s: %w", contract, err)
	}
	return resp.Data, nil
}

// ContractInfo returns the on-chain metadata of a contract.
func (w *WasmClient) ContractInfo(ctx context.Context, contract string) (*wasmtypes.ContractInfo, error) {
	resp, err := w.query.ContractInfo(ctx, &wasmtypes.QueryContractInfoRequest{Address: contract})
	if err != nil {
		return nil, fmt.Errorf("failed to get contract info: %w", err)
	}
	return &resp.ContractInfo, nil
}

// ContractsByCode lists contract addresses instantiated from codeID.
func (w *WasmClient) ContractsByCode(ctx context.Context, codeID uint64, opts ...QueryOption) ([]string, error) {
	resp, err := w.query.ContractsByCode(ctx, &wasmtypes.QueryContractsByCodeRequest{
		CodeId:     codeID,
		Pagination: pageRequest(opts),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	return resp.Contracts, nil
}

// QuerySmart runs a smart query against contract.
func (c *Client) QuerySmart(ctx context.Context, contract string, msg []byte) ([]byte, error) {
	return c.Wasm.SmartQuery(ctx, contract, msg)
}

// Execute signs and broadcasts a MsgExecuteContract and returns the
// included tx with its events.
func (c *Client) Execute(ctx context.Context, sender, contract string, msg []byte, funds sdk.Coins, opts ...TxOption) (*types.TxResult, error) {
	sender, err := c.checkSender(sender)
	if err != nil {
		return nil, err
	}
	m, err := NewMsgExecuteContract(sender, contract, msg, funds)
	if err != nil {
		return nil, err
	}
	o := applyTxOptions(opts)
	return c.SignAndBroadcast(ctx, m, o.memo)
}

// Instantiate creates a contract from codeID. The address is read from the
// instantiate event of the included tx.
func (c *Client) Instantiate(ctx context.Context, sender string, codeID uint64, initMsg []byte, label string, funds sdk.Coins, opts ...TxOption) (*types.InstantiateResult, error) {
	if label == "" {
		return nil, fmt.Errorf("label is required")
	}
	sender, err := c.checkSender(sender)
	if err != nil {
		return nil, err
	}
	o := applyTxOptions(opts)
	m, err := NewMsgInstantiateContract(sender, o.admin, codeID, label, initMsg, funds)
	if err != nil {
		return nil, err
	}
	res, err := c.SignAndBroadcast(ctx, m, o.memo)
	if err != nil {
		return nil, err
	}
	addr, ok := res.AttributeValue(EventTypeInstantiate, AttrContractAddress)
	if !ok || addr == "" {
		return nil, fmt.Errorf("tx %s: %s attribute missing from %s event: %w", res.TxHash, AttrContractAddress, EventTypeInstantiate, types.ErrNotFound)
	}
	return &types.InstantiateResult{TxResult: *res, ContractAddress: addr}, nil
}

// Upload stores wasm byte code and returns the assigned code id.
func (c *Client) Upload(ctx context.Context, sender string, wasm []byte, meta types.UploadMeta) (*types.UploadResult, error) {
	if len(wasm) == 0 {
		return nil, fmt.Errorf("wasm byte code is empty")
	}
	sender, err := c.checkSender(sender)
	if err != nil {
		return nil, err
	}
	res, err := c.SignAndBroadcast(ctx, NewMsgStoreCode(sender, wasm), uploadMemo(meta))
	if err != nil {
		return nil, err
	}
	raw, ok := res.AttributeValue(EventTypeStoreCode, AttrCodeID)
	if !ok {
		return nil, fmt.Errorf("tx %s: %s attribute missing from %s event: %w", res.TxHash, AttrCodeID, EventTypeStoreCode, types.ErrNotFound)
	}
	codeID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse code id %q: %w", raw, err)
	}
	checksum, _ := res.AttributeValue(EventTypeStoreCode, AttrCodeChecksum)
	return &types.UploadResult{TxResult: *res, CodeID: codeID, Checksum: checksum}, nil
}

// Migrate moves contract to a new code id.
func (c *Client) Migrate(ctx context.Context, sender, contract string, codeID uint64, msg []byte) (*types.TxResult, error) {
	sender, err := c.checkSender(sender)
	if err != nil {
		return nil, err
	}
	m, err := NewMsgMigrateContract(sender, contract, codeID, msg)
	if err != nil {
		return nil, err
	}
	return c.SignAndBroadcast(ctx, m, "")
}

// UpdateAdmin hands contract administration to newAdmin.
func (c *Client) UpdateAdmin(ctx context.Context, sender, contract, newAdmin string) (*types.TxResult, error) {
	sender, err := c.checkSender(sender)
	if err != nil {
		return nil, err
	}
	return c.SignAndBroadcast(ctx, NewMsgUpdateAdmin(sender, contract, newAdmin), "")
}
