package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	sdklog "github.com/wasmdapps/sdk-go/pkg/log"
)

// NetworkConfig is the static description of the chain the dApp talks to.
type NetworkConfig struct {
	ChainID        string `yaml:"chain_id" toml:"chain_id"`
	GRPCEndpoint   string `yaml:"grpc_endpoint" toml:"grpc_endpoint"` // Cosmos SDK gRPC endpoint
	RPCEndpoint    string `yaml:"rpc_endpoint" toml:"rpc_endpoint"`   // CometBFT RPC endpoint for websocket subscriptions
	FaucetURL      string `yaml:"faucet_url" toml:"faucet_url"`
	AddressPrefix  string `yaml:"address_prefix" toml:"address_prefix"`
	FeeDenom       string `yaml:"fee_denom" toml:"fee_denom"`
	GasPrice       string `yaml:"gas_price" toml:"gas_price"` // decimal amount of FeeDenom per gas unit
	PingPongCodeID uint64 `yaml:"ping_pong_code_id" toml:"ping_pong_code_id"`
}

// Config holds all configuration for the dApp client.
type Config struct {
	Network NetworkConfig `yaml:"network" toml:"network"`

	// Account settings
	Address string `yaml:"address" toml:"address"`   // bech32 address of the signer
	KeyName string `yaml:"key_name" toml:"key_name"` // Key name in keyring

	// Timeouts
	BlockchainTimeout time.Duration `yaml:"blockchain_timeout" toml:"blockchain_timeout"`
	FaucetTimeout     time.Duration `yaml:"faucet_timeout" toml:"faucet_timeout"`

	// Optional overrides
	MaxRecvMsgSize int  `yaml:"max_recv_msg_size" toml:"max_recv_msg_size"` // Max message size for gRPC (default: 50MB)
	MaxSendMsgSize int  `yaml:"max_send_msg_size" toml:"max_send_msg_size"`
	InsecureGRPC   bool `yaml:"insecure_grpc" toml:"insecure_grpc"`

	// WaitTx controls transaction confirmation behaviour.
	WaitTx WaitTxConfig `yaml:"wait_tx" toml:"wait_tx"`

	// Logger is optional; when set, SDK operations emit diagnostics.
	Logger sdklog.Logger `yaml:"-" toml:"-"`
}

// WaitTxConfig configures how the SDK waits for transaction inclusion.
type WaitTxConfig struct {
	// SubscriberSetupTimeout defines how long we wait for the websocket subscription to become ready.
	SubscriberSetupTimeout time.Duration `yaml:"subscriber_setup_timeout" toml:"subscriber_setup_timeout"`

	// Polling is a fallback mechanism when a websocket subscription is not available.
	// PollInterval controls how frequently the fallback poller queries gRPC for the tx.
	PollInterval time.Duration `yaml:"poll_interval" toml:"poll_interval"`
	// PollMaxRetries limits the number of poll attempts before failing (0 => unlimited until ctx deadline).
	PollMaxRetries int `yaml:"poll_max_retries" toml:"poll_max_retries"`
	// PollBackoffMultiplier > 1 enables exponential growth for poll intervals.
	PollBackoffMultiplier float64 `yaml:"poll_backoff_multiplier" toml:"poll_backoff_multiplier"`
	// PollBackoffMaxInterval caps the exponential backoff delay (0 => unlimited).
	PollBackoffMaxInterval time.Duration `yaml:"poll_backoff_max_interval" toml:"poll_backoff_max_interval"`
	// PollBackoffJitter randomizes delays (0..1) to avoid synced retries.
	PollBackoffJitter float64 `yaml:"poll_backoff_jitter" toml:"poll_backoff_jitter"`
}

// DefaultGasPrice is the fee token amount paid per unit of gas.
const DefaultGasPrice = "0.025"

// Validate checks the network section and populates defaults.
func (n *NetworkConfig) Validate() error {
	if n.ChainID == "" {
		return fmt.Errorf("chain_id is required")
	}
	if n.GRPCEndpoint == "" {
		return fmt.Errorf("grpc_endpoint is required")
	}
	if n.AddressPrefix == "" {
		return fmt.Errorf("address_prefix is required")
	}
	if n.FeeDenom == "" {
		return fmt.Errorf("fee_denom is required")
	}
	if n.GasPrice == "" {
		n.GasPrice = DefaultGasPrice
	}
	return nil
}

// Validate checks if the configuration is valid and populates defaults.
// Address and KeyName are optional here: they are filled in once the wallet
// has been provisioned.
func (c *Config) Validate() error {
	if err := c.Network.Validate(); err != nil {
		return err
	}

	// Set defaults
	if c.BlockchainTimeout == 0 {
		c.BlockchainTimeout = 30 * time.Second
	}
	if c.FaucetTimeout == 0 {
		c.FaucetTimeout = 30 * time.Second
	}
	if c.MaxRecvMsgSize == 0 {
		c.MaxRecvMsgSize = 1024 * 1024 * 50 // 50MB
	}
	if c.MaxSendMsgSize == 0 {
		c.MaxSendMsgSize = 1024 * 1024 * 50 // 50MB
	}
	ApplyWaitTxDefaults(&c.WaitTx)

	return nil
}

// DefaultNetwork returns the public oysternet parameters the demo was built against.
func DefaultNetwork() NetworkConfig {
	return NetworkConfig{
		ChainID:        "oysternet-1",
		GRPCEndpoint:   "grpc.oysternet.cosmwasm.com:443",
		RPCEndpoint:    "http://rpc.oysternet.cosmwasm.com",
		FaucetURL:      "https://faucet.oysternet.cosmwasm.com",
		AddressPrefix:  "wasm",
		FeeDenom:       "usponge",
		GasPrice:       DefaultGasPrice,
		PingPongCodeID: 15,
	}
}

// Default returns a configuration with sensible defaults for oysternet.
func Default() Config {
	return Config{
		Network:           DefaultNetwork(),
		KeyName:           "pingpong",
		BlockchainTimeout: 30 * time.Second,
		FaucetTimeout:     30 * time.Second,
		MaxRecvMsgSize:    1024 * 1024 * 50,
		MaxSendMsgSize:    1024 * 1024 * 50,
		WaitTx:            DefaultWaitTxConfig(),
	}
}

// Load reads a YAML or TOML file (chosen by extension) on top of Default and
// validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse yaml config: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse toml config: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// DefaultWaitTxConfig returns recommended defaults for wait-tx behaviour.
func DefaultWaitTxConfig() WaitTxConfig {
	return WaitTxConfig{
		SubscriberSetupTimeout: 5 * time.Second,
		PollInterval:           500 * time.Millisecond,
		PollMaxRetries:         40,
		PollBackoffMultiplier:  1.5,
		PollBackoffMaxInterval: 20 * time.Second,
		PollBackoffJitter:      0,
	}
}

// ApplyWaitTxDefaults normalizes zero or negative values using defaults.
func ApplyWaitTxDefaults(cfg *WaitTxConfig) {
	if cfg == nil {
		return
	}
	def := DefaultWaitTxConfig()

	if cfg.SubscriberSetupTimeout <= 0 {
		cfg.SubscriberSetupTimeout = def.SubscriberSetupTimeout
	}

	if cfg.PollInterval <= 0 {
		cfg.PollInterval = def.PollInterval
	}
	if cfg.PollBackoffMultiplier <= 0 {
		cfg.PollBackoffMultiplier = def.PollBackoffMultiplier
	}
	if cfg.PollBackoffMaxInterval <= 0 {
		cfg.PollBackoffMaxInterval = def.PollBackoffMaxInterval
	}
	if cfg.PollBackoffJitter < 0 {
		cfg.PollBackoffJitter = 0
	}
}
