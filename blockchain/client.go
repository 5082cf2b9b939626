package blockchain

import (
	"context"
	"fmt"

	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"
	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	"google.golang.org/grpc"

	"github.com/wasmdapps/sdk-go/blockchain/base"
)

// Config for blockchain client
type Config = base.Config

// Client is a signing session bound to one key and one chain. It provides
// bank and wasm module operations on top of the base tx helpers.
type Client struct {
	*base.Client

	// Module-specific clients
	Wasm *WasmClient
	Bank *BankClient
}

// New creates a new blockchain client
func New(ctx context.Context, cfg Config, kr keyring.Keyring, keyName string) (*Client, error) {
	baseClient, err := base.New(ctx, cfg, kr, keyName)
	if err != nil {
		return nil, err
	}
	return newClient(baseClient), nil
}

// NewWithDialOptions is New with caller supplied gRPC transport options.
func NewWithDialOptions(ctx context.Context, cfg Config, kr keyring.Keyring, keyName string, opts ...grpc.DialOption) (*Client, error) {
	baseClient, err := base.NewWithDialOptions(ctx, cfg, kr, keyName, opts...)
	if err != nil {
		return nil, err
	}
	return newClient(baseClient), nil
}

func newClient(b *base.Client) *Client {
	return &Client{
		Client: b,
		Wasm:   &WasmClient{query: wasmtypes.NewQueryClient(b.GRPCConn())},
		Bank:   &BankClient{base: b},
	}
}

// checkSender resolves an empty sender to the signer and rejects any other
// address, since the session can only sign for its own key.
func (c *Client) checkSender(sender string) (string, error) {
	signer, err := c.SignerAddress()
	if err != nil {
		return "", fmt.Errorf("signer address: %w", err)
	}
	if sender == "" {
		return signer, nil
	}
	if sender != signer {
		return "", fmt.Errorf("sender %s does not match signing key %s", sender, signer)
	}
	return sender, nil
}
