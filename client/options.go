package client

import (
	"time"

	sdklog "github.com/wasmdapps/sdk-go/pkg/log"
)

// Option is a function that modifies Config
type Option func(*Config)

// WithChainID sets the chain ID
func WithChainID(chainID string) Option {
	return func(c *Config) {
		c.Network.ChainID = chainID
	}
}

// WithGRPCAddr sets the gRPC address
func WithGRPCAddr(addr string) Option {
	return func(c *Config) {
		c.Network.GRPCEndpoint = addr
	}
}

// WithRPCEndpoint sets the CometBFT RPC endpoint used for tx subscriptions
func WithRPCEndpoint(endpoint string) Option {
	return func(c *Config) {
		c.Network.RPCEndpoint = endpoint
	}
}

// WithFaucetURL sets the faucet base URL
func WithFaucetURL(url string) Option {
	return func(c *Config) {
		c.Network.FaucetURL = url
	}
}

// WithPingPongCodeID sets the code id used to instantiate ping-pong contracts
func WithPingPongCodeID(codeID uint64) Option {
	return func(c *Config) {
		c.Network.PingPongCodeID = codeID
	}
}

// WithKeyName sets the signing key name
func WithKeyName(name string) Option {
	return func(c *Config) {
		c.KeyName = name
	}
}

// WithBlockchainTimeout sets the blockchain timeout
func WithBlockchainTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.BlockchainTimeout = timeout
	}
}

// WithFaucetTimeout sets the faucet request timeout
func WithFaucetTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.FaucetTimeout = timeout
	}
}

// WithMaxMessageSize sets both send and receive message sizes
func WithMaxMessageSize(size int) Option {
	return func(c *Config) {
		c.MaxRecvMsgSize = size
		c.MaxSendMsgSize = size
	}
}

// WithInsecureGRPC disables TLS for the gRPC connection
func WithInsecureGRPC(insecure bool) Option {
	return func(c *Config) {
		c.InsecureGRPC = insecure
	}
}

// WithWaitTx overrides the tx confirmation settings
func WithWaitTx(cfg WaitTxConfig) Option {
	return func(c *Config) {
		c.WaitTx = cfg
	}
}

// WithLogger sets the diagnostics logger
func WithLogger(logger sdklog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}
