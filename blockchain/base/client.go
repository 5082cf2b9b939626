package base

import (
	"context"
	"fmt"
	"strings"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	clientconfig "github.com/wasmdapps/sdk-go/client/config"
	sdkcrypto "github.com/wasmdapps/sdk-go/pkg/crypto"
)

const defaultMaxMsgSize = 50 * 1024 * 1024

// Client provides common Cosmos SDK gRPC and tx helpers.
type Client struct {
	conn    *grpc.ClientConn
	config  Config
	keyring keyring.Keyring
	keyName string
	txCfg   client.TxConfig
}

// New creates a base blockchain client with a gRPC connection.
func New(ctx context.Context, cfg Config, kr keyring.Keyring, keyName string) (*Client, error) {
	if cfg.GRPCAddr == "" {
		return nil, fmt.Errorf("grpc address is required")
	}

	// Determine if we should use TLS based on the endpoint.
	useTLS := shouldUseTLS(cfg.GRPCAddr)
	if cfg.InsecureGRPC {
		useTLS = false
	}

	var creds credentials.TransportCredentials
	if useTLS {
		creds = credentials.NewTLS(nil)
	} else {
		creds = insecure.NewCredentials()
	}

	return NewWithDialOptions(ctx, cfg, kr, keyName, grpc.WithTransportCredentials(creds))
}

// NewWithDialOptions is New with caller supplied transport options, used to
// dial in-memory listeners in tests.
func NewWithDialOptions(_ context.Context, cfg Config, kr keyring.Keyring, keyName string, opts ...grpc.DialOption) (*Client, error) {
	if cfg.GasPrice.IsNil() {
		price, err := ParseGasPrice("")
		if err != nil {
			return nil, err
		}
		cfg.GasPrice = price
	}
	if cfg.GasLimits == (GasLimits{}) {
		cfg.GasLimits = DefaultGasLimits()
	}
	if cfg.MaxRecvMsgSize <= 0 {
		cfg.MaxRecvMsgSize = defaultMaxMsgSize
	}
	if cfg.MaxSendMsgSize <= 0 {
		cfg.MaxSendMsgSize = defaultMaxMsgSize
	}
	clientconfig.ApplyWaitTxDefaults(&cfg.WaitTx)

	// gogoproto and pulsar messages share one connection.
	cdc := sdkcrypto.NewProtoCodec()
	dialOpts := append([]grpc.DialOption{
		grpc.WithDefaultCallOptions(
			grpc.ForceCodec(cdc.GRPCCodec()),
			grpc.MaxCallRecvMsgSize(cfg.MaxRecvMsgSize),
			grpc.MaxCallSendMsgSize(cfg.MaxSendMsgSize),
		),
	}, opts...)

	conn, err := grpc.NewClient(cfg.GRPCAddr, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to gRPC: %w", err)
	}

	return &Client{
		conn:    conn,
		config:  cfg,
		keyring: kr,
		keyName: keyName,
		txCfg:   sdkcrypto.NewDefaultTxConfig(),
	}, nil
}

// Close closes the underlying gRPC connection.
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// GRPCConn exposes the underlying gRPC connection for specialized queries.
func (c *Client) GRPCConn() *grpc.ClientConn {
	return c.conn
}

// Config returns the normalized configuration.
func (c *Client) Config() Config {
	return c.config
}

// SignerAddress returns the bech32 address of the signing key.
func (c *Client) SignerAddress() (string, error) {
	return sdkcrypto.AddressFromKey(c.keyring, c.keyName, c.config.AccountHRP)
}

func (c *Client) txConfig() client.TxConfig {
	if c.txCfg == nil {
		c.txCfg = sdkcrypto.NewDefaultTxConfig()
	}
	return c.txCfg
}

// shouldUseTLS determines if TLS should be used based on the gRPC address.
func shouldUseTLS(addr string) bool {
	if strings.HasSuffix(addr, ":443") {
		return true
	}

	if strings.HasPrefix(addr, "localhost:") ||
		strings.HasPrefix(addr, "127.0.0.1:") ||
		strings.HasPrefix(addr, "0.0.0.0:") ||
		strings.HasPrefix(addr, ":") { // Just port, implies localhost.
		return false
	}

	// For any other remote address, prefer TLS.
	if !strings.Contains(addr, "localhost") &&
		!strings.Contains(addr, "127.0.0.1") &&
		!strings.Contains(addr, "0.0.0.0") {
		return true
	}

	return false
}
