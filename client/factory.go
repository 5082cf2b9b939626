package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/cosmos/cosmos-sdk/crypto/keyring"

	sdkcrypto "github.com/wasmdapps/sdk-go/pkg/crypto"
	"github.com/wasmdapps/sdk-go/wallet"
	"github.com/wasmdapps/sdk-go/workflow"
)

// Factory provisions named accounts from one secret store. Every account
// keeps its own mnemonic in the store and signs from a shared in-memory
// keyring, so several players can drive the same contract.
type Factory struct {
	baseCfg Config
	store   wallet.SecretStore
	opts    []Option

	mu      sync.Mutex
	keyring keyring.Keyring
}

// NewFactory captures the shared configuration and the store holding the
// account secrets.
func NewFactory(cfg Config, store wallet.SecretStore, opts ...Option) (*Factory, error) {
	if store == nil {
		return nil, fmt.Errorf("secret store is required")
	}
	return &Factory{
		baseCfg: cfg,
		store:   store,
		opts:    append([]Option{}, opts...),
		keyring: sdkcrypto.NewMemoryKeyring(),
	}, nil
}

// Store returns the view of the secret store belonging to account.
func (f *Factory) Store(account string) wallet.SecretStore {
	return accountStore{inner: f.store, prefix: "accounts/" + account + "/"}
}

// Account loads or creates the secret for account and derives its key.
func (f *Factory) Account(account string, extraOpts ...Option) (*wallet.Account, error) {
	if account == "" {
		return nil, fmt.Errorf("account name is required")
	}
	cfg := f.config(extraOpts)

	// one secret per account even when callers race
	f.mu.Lock()
	defer f.mu.Unlock()
	secret, err := wallet.LoadOrCreateSecret(f.Store(account))
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", account, err)
	}
	acct, err := wallet.DeriveAccountInto(f.keyring, account, secret, cfg.Network.AddressPrefix)
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", account, err)
	}
	return acct, nil
}

// WithSigner returns a Client signing as account. Extra options override
// the factory defaults for this instance.
func (f *Factory) WithSigner(ctx context.Context, account string, extraOpts ...Option) (*Client, error) {
	acct, err := f.Account(account, extraOpts...)
	if err != nil {
		return nil, err
	}
	cfg := f.config(extraOpts)
	cfg.KeyName = acct.KeyName
	cfg.Address = acct.Address
	return New(ctx, cfg, f.keyring)
}

// Workflow returns a fresh workflow whose wallet is account's secret.
func (f *Factory) Workflow(account string, extraOpts ...Option) (*workflow.Workflow, error) {
	if account == "" {
		return nil, fmt.Errorf("account name is required")
	}
	return NewWorkflow(f.baseCfg, f.Store(account), append(append([]Option{}, f.opts...), extraOpts...)...)
}

func (f *Factory) config(extraOpts []Option) Config {
	cfg := f.baseCfg
	for _, opt := range f.opts {
		opt(&cfg)
	}
	for _, opt := range extraOpts {
		opt(&cfg)
	}
	return cfg
}

type accountStore struct {
	inner  wallet.SecretStore
	prefix string
}

func (s accountStore) Get(key string) (string, bool, error) { return s.inner.Get(s.prefix + key) }

func (s accountStore) Set(key, value string) error { return s.inner.Set(s.prefix+key, value) }
