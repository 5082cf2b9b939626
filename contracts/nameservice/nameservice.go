// Package nameservice is a typed proxy for the CosmWasm name service example
// contract.
package nameservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/wasmdapps/sdk-go/blockchain"
	"github.com/wasmdapps/sdk-go/contracts"
	"github.com/wasmdapps/sdk-go/types"
)

// Published build of the contract.
const (
	DefaultWasmURL = "https://github.com/CosmWasm/cosmwasm-examples/releases/download/nameservice-0.11.0/contract.wasm"
	DefaultSource  = "https://github.com/CosmWasm/cosmwasm-examples/tree/nameservice-0.11.0/nameservice"
	DefaultBuilder = "cosmwasm/rust-optimizer:0.11.5"
)

// maxWasmSize bounds a downloaded contract.
const maxWasmSize = 8 << 20

// Factory uploads, instantiates and binds name service contracts through
// one session.
type Factory struct {
	session contracts.Session
	sender  string
}

// NewFactory returns a factory signing as sender.
func NewFactory(session contracts.Session, sender string) *Factory {
	return &Factory{session: session, sender: sender}
}

// Upload stores wasm and returns its code id. Empty meta gets the
// published source and builder.
func (f *Factory) Upload(ctx context.Context, wasm []byte, meta types.UploadMeta) (uint64, error) {
	if meta == (types.UploadMeta{}) {
		meta = types.UploadMeta{Source: DefaultSource, Builder: DefaultBuilder}
	}
	res, err := f.session.Upload(ctx, f.sender, wasm, meta)
	if err != nil {
		return 0, err
	}
	return res.CodeID, nil
}

// Instantiate creates an instance and binds a proxy to the address the
// chain assigned. The memo records the label.
func (f *Factory) Instantiate(ctx context.Context, codeID uint64, initMsg InitMsg, label string) (*Contract, error) {
	bz, err := json.Marshal(initMsg)
	if err != nil {
		return nil, fmt.Errorf("encode init msg: %w", err)
	}
	res, err := f.session.Instantiate(ctx, f.sender, codeID, bz, label, nil, blockchain.WithMemo("Init "+label))
	if err != nil {
		return nil, err
	}
	return f.Use(res.ContractAddress), nil
}

// Use binds a proxy to an existing instance without touching the chain.
func (f *Factory) Use(address string) *Contract {
	return &Contract{session: f.session, sender: f.sender, address: address}
}

// Contract is bound to one name service instance for its lifetime.
type Contract struct {
	session contracts.Session
	sender  string
	address string
}

// Address returns the bound contract address.
func (c *Contract) Address() string { return c.address }

// Record resolves name to its owner. ok is false for unregistered names.
func (c *Contract) Record(ctx context.Context, name string) (owner string, ok bool, err error) {
	var resp ResolveRecordResponse
	if err := c.query(ctx, QueryMsg{ResolveRecord: &ResolveRecord{Name: name}}, &resp); err != nil {
		return "", false, err
	}
	if resp.Address == nil {
		return "", false, nil
	}
	return *resp.Address, true, nil
}

// Config returns the purchase and transfer prices.
func (c *Contract) Config(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := c.query(ctx, QueryMsg{Config: &ConfigQuery{}}, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Register buys name, paying funds. It returns the tx hash.
func (c *Contract) Register(ctx context.Context, name string, funds sdk.Coins) (string, error) {
	return c.execute(ctx, ExecuteMsg{Register: &Register{Name: name}}, funds)
}

// Transfer hands name to another address, paying funds. It returns the tx hash.
func (c *Contract) Transfer(ctx context.Context, name, to string, funds sdk.Coins) (string, error) {
	return c.execute(ctx, ExecuteMsg{Transfer: &Transfer{Name: name, To: to}}, funds)
}

func (c *Contract) query(ctx context.Context, msg QueryMsg, out any) error {
	bz, err := contracts.EncodeMsg(msg)
	if err != nil {
		return err
	}
	reply, err := c.session.QuerySmart(ctx, c.address, bz)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(reply, out); err != nil {
		return fmt.Errorf("decode %T: %w", out, err)
	}
	return nil
}

func (c *Contract) execute(ctx context.Context, msg ExecuteMsg, funds sdk.Coins) (string, error) {
	bz, err := contracts.EncodeMsg(msg)
	if err != nil {
		return "", err
	}
	res, err := c.session.Execute(ctx, c.sender, c.address, bz, funds)
	if err != nil {
		return "", err
	}
	return res.TxHash, nil
}

// DownloadWasm fetches contract byte code from url.
func DownloadWasm(ctx context.Context, hc *http.Client, url string) ([]byte, error) {
	if hc == nil {
		hc = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download wasm: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download error: %d", resp.StatusCode)
	}
	bz, err := io.ReadAll(io.LimitReader(resp.Body, maxWasmSize+1))
	if err != nil {
		return nil, fmt.Errorf("read wasm: %w", err)
	}
	if len(bz) > maxWasmSize {
		return nil, fmt.Errorf("wasm exceeds %d bytes", maxWasmSize)
	}
	return bz, nil
}
