package client

import (
	"context"
	"fmt"

	"github.com/cosmos/cosmos-sdk/crypto/keyring"

	"github.com/wasmdapps/sdk-go/blockchain"
	"github.com/wasmdapps/sdk-go/blockchain/base"
	"github.com/wasmdapps/sdk-go/contracts/nameservice"
	"github.com/wasmdapps/sdk-go/contracts/pingpong"
	"github.com/wasmdapps/sdk-go/faucet"
	sdkcrypto "github.com/wasmdapps/sdk-go/pkg/crypto"
	sdklog "github.com/wasmdapps/sdk-go/pkg/log"
	"github.com/wasmdapps/sdk-go/wallet"
	"github.com/wasmdapps/sdk-go/workflow"
)

// Client provides unified access to a CosmWasm chain and its faucet
type Client struct {
	// High-level modules
	Blockchain *blockchain.Client
	Faucet     *faucet.Client // nil when the network has no faucet

	// Configuration
	config  *Config
	keyring keyring.Keyring
	logger  sdklog.Logger
}

// New creates a new unified client signing with cfg.KeyName from kr
func New(ctx context.Context, cfg Config, kr keyring.Keyring, opts ...Option) (*Client, error) {
	// Apply options
	for _, opt := range opts {
		opt(&cfg)
	}

	// Validate config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.KeyName == "" {
		return nil, fmt.Errorf("invalid config: key_name is required")
	}

	addr, err := sdkcrypto.AddressFromKey(kr, cfg.KeyName, cfg.Network.AddressPrefix)
	if err != nil {
		return nil, fmt.Errorf("resolve signer: %w", err)
	}
	if cfg.Address == "" {
		cfg.Address = addr
	} else if cfg.Address != addr {
		return nil, fmt.Errorf("address %s does not belong to key %s (%s)", cfg.Address, cfg.KeyName, addr)
	}

	blockchainClient, err := OpenSession(ctx, cfg, kr, cfg.KeyName)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize blockchain client: %w", err)
	}

	faucetClient, err := newFaucet(cfg)
	if err != nil {
		_ = blockchainClient.Close()
		return nil, err
	}

	sdklog.Infof(cfg.Logger, "client ready%s", sdklog.FormatKV("chain", cfg.Network.ChainID, "address", cfg.Address))

	return &Client{
		Blockchain: blockchainClient,
		Faucet:     faucetClient,
		config:     &cfg,
		keyring:    kr,
		logger:     cfg.Logger,
	}, nil
}

// OpenSession dials the chain and returns a signing session for keyName.
func OpenSession(ctx context.Context, cfg Config, kr keyring.Keyring, keyName string) (*blockchain.Client, error) {
	bcfg, err := BlockchainConfig(cfg)
	if err != nil {
		return nil, err
	}
	return blockchain.New(ctx, bcfg, kr, keyName)
}

// BlockchainConfig derives the session settings from cfg.
func BlockchainConfig(cfg Config) (blockchain.Config, error) {
	price, err := base.ParseGasPrice(cfg.Network.GasPrice)
	if err != nil {
		return blockchain.Config{}, fmt.Errorf("gas price %q: %w", cfg.Network.GasPrice, err)
	}
	return blockchain.Config{
		ChainID:        cfg.Network.ChainID,
		GRPCAddr:       cfg.Network.GRPCEndpoint,
		RPCEndpoint:    cfg.Network.RPCEndpoint,
		AccountHRP:     cfg.Network.AddressPrefix,
		FeeDenom:       cfg.Network.FeeDenom,
		GasPrice:       price,
		GasLimits:      base.DefaultGasLimits(),
		Timeout:        cfg.BlockchainTimeout,
		MaxRecvMsgSize: cfg.MaxRecvMsgSize,
		MaxSendMsgSize: cfg.MaxSendMsgSize,
		InsecureGRPC:   cfg.InsecureGRPC,
		WaitTx:         cfg.WaitTx,
	}, nil
}

func newFaucet(cfg Config) (*faucet.Client, error) {
	if cfg.Network.FaucetURL == "" {
		return nil, nil
	}
	fc, err := faucet.New(cfg.Network.FaucetURL, faucet.WithTimeout(cfg.FaucetTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize faucet client: %w", err)
	}
	return fc, nil
}

// NewWorkflow builds the dApp workflow: the wallet secret lives in store and
// a signing session is opened against cfg once Bootstrap derives the account.
func NewWorkflow(cfg Config, store wallet.SecretStore, opts ...Option) (*workflow.Workflow, error) {
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	fc, err := newFaucet(cfg)
	if err != nil {
		return nil, err
	}
	wopts := workflow.Options{
		Network: cfg.Network,
		Store:   store,
		Logger:  cfg.Logger,
		Open: func(ctx context.Context, acct *wallet.Account) (workflow.Session, error) {
			return OpenSession(ctx, cfg, acct.Keyring, acct.KeyName)
		},
	}
	// keep the interface nil when there is no faucet
	if fc != nil {
		wopts.Faucet = fc
	}
	return workflow.New(wopts)
}

// PingPong binds a ping-pong proxy to address.
func (c *Client) PingPong(address string) *pingpong.Contract {
	return pingpong.New(c.Blockchain, c.config.Address, address)
}

// InstantiatePingPong creates a ping-pong instance from the configured code id.
func (c *Client) InstantiatePingPong(ctx context.Context, label string) (*pingpong.Contract, error) {
	return pingpong.Instantiate(ctx, c.Blockchain, c.config.Address, c.config.Network.PingPongCodeID, label)
}

// NameService returns a name service factory signing as the client's key.
func (c *Client) NameService() *nameservice.Factory {
	return nameservice.NewFactory(c.Blockchain, c.config.Address)
}

// Close releases all resources
func (c *Client) Close() error {
	if c.Blockchain != nil {
		if err := c.Blockchain.Close(); err != nil {
			return fmt.Errorf("blockchain close: %w", err)
		}
	}
	return nil
}

// Config returns the client configuration
func (c *Client) Config() Config {
	return *c.config
}

// Address returns the signer address.
func (c *Client) Address() string {
	return c.config.Address
}
