// Package wallet provisions the single signing key used by the dApp: a
// BIP-39 mnemonic persisted in a SecretStore, derived at account 0.
package wallet

import (
	"fmt"
	"strings"

	"github.com/cosmos/cosmos-sdk/crypto/keyring"

	"github.com/wasmdapps/sdk-go/pkg/crypto"
)

// SecretKey is the store key holding the mnemonic.
const SecretKey = "mnemonic"

// DefaultKeyName is the keyring entry DeriveAccount writes.
const DefaultKeyName = "pingpong"

// Account is the derived signing identity.
type Account struct {
	Address string
	KeyName string
	PubKey  []byte
	Keyring keyring.Keyring
}

// LoadOrCreateSecret returns the stored mnemonic, generating and persisting
// a fresh 12 word phrase the first time it is called against a store.
func LoadOrCreateSecret(store SecretStore) (string, error) {
	if store == nil {
		return "", fmt.Errorf("secret store is nil")
	}
	existing, ok, err := store.Get(SecretKey)
	if err != nil {
		return "", fmt.Errorf("load secret: %w", err)
	}
	if ok && strings.TrimSpace(existing) != "" {
		return existing, nil
	}

	mnemonic, err := crypto.NewMnemonic()
	if err != nil {
		return "", err
	}
	if err := store.Set(SecretKey, mnemonic); err != nil {
		return "", fmt.Errorf("persist secret: %w", err)
	}
	return mnemonic, nil
}

// DeriveAccount derives the account-0 key from secret into a fresh
// in-memory keyring and returns its address for prefix.
func DeriveAccount(secret, prefix string) (*Account, error) {
	return DeriveAccountInto(crypto.NewMemoryKeyring(), DefaultKeyName, secret, prefix)
}

// DeriveAccountInto is DeriveAccount against a caller supplied keyring.
// An existing key under keyName is reused as is.
func DeriveAccountInto(kr keyring.Keyring, keyName, secret, prefix string) (*Account, error) {
	if prefix == "" {
		return nil, fmt.Errorf("address prefix is required")
	}
	if keyName == "" {
		keyName = DefaultKeyName
	}
	pub, addr, err := crypto.ImportMnemonic(kr, keyName, secret, crypto.HDPath(0), prefix)
	if err != nil {
		return nil, fmt.Errorf("derive account: %w", err)
	}
	return &Account{
		Address: addr,
		KeyName: keyName,
		PubKey:  pub,
		Keyring: kr,
	}, nil
}
