package crypto

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	wasmtypes "github.com/CosmWasm/wasmd/x/wasm/types"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	cryptocodec "github.com/cosmos/cosmos-sdk/crypto/codec"
	"github.com/cosmos/cosmos-sdk/crypto/hd"
	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	"github.com/cosmos/cosmos-sdk/std"
	authtx "github.com/cosmos/cosmos-sdk/x/auth/tx"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
)

// KeyringParams holds configuration for initializing a Cosmos keyring.
type KeyringParams struct {
	// AppName names the keyring namespace. Default: "pingpong"
	AppName string
	// Backend selects the keyring backend ("os" | "file" | "test" | "memory"). Default: "os"
	Backend string
	// Dir is the root directory for the keyring (if Backend="file"). Default: $HOME/.pingpong
	Dir string
	// Input is an optional io.Reader for interactive backends (nil for non-interactive)
	Input io.Reader
}

// DefaultKeyringParams returns sensible defaults:
//   - AppName: "pingpong"
//   - Backend: "os"
//   - Dir: $HOME/.pingpong
func DefaultKeyringParams() KeyringParams {
	home, _ := os.UserHomeDir()
	return KeyringParams{
		AppName: "pingpong",
		Backend: "os",
		Dir:     filepath.Join(home, ".pingpong"),
		Input:   nil,
	}
}

// NewKeyring creates a new Cosmos keyring with the provided parameters.
func NewKeyring(p KeyringParams) (keyring.Keyring, error) {
	app := p.AppName
	if app == "" {
		app = "pingpong"
	}
	backend := p.Backend
	if backend == "" {
		backend = "os"
	}
	if backend == keyring.BackendMemory {
		return NewMemoryKeyring(), nil
	}
	dir := p.Dir
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".pingpong")
	}
	if strings.HasPrefix(dir, "~/") {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, dir[2:])
	}
	in := p.Input
	if in == nil {
		in = bufio.NewReader(os.Stdin)
	}

	return keyring.New(app, backend, dir, in, keyringCodec())
}

// NewMemoryKeyring returns a keyring that never touches disk.
func NewMemoryKeyring() keyring.Keyring {
	return keyring.NewInMemory(keyringCodec())
}

// GetKey returns metadata for the named key in the provided keyring.
func GetKey(kr keyring.Keyring, keyName string) (*keyring.Record, error) {
	return kr.Key(keyName)
}

// ImportMnemonic adds the key derived from mnemonic at hdPath under keyName,
// unless a key with that name already exists. It returns the pubkey bytes
// and the bech32 address for hrp.
func ImportMnemonic(kr keyring.Keyring, keyName, mnemonic, hdPath, hrp string) ([]byte, string, error) {
	if kr == nil {
		return nil, "", fmt.Errorf("keyring is nil")
	}
	if keyName == "" {
		return nil, "", fmt.Errorf("key name is required")
	}
	mnemonic = strings.TrimSpace(mnemonic)
	if !ValidateMnemonic(mnemonic) {
		return nil, "", fmt.Errorf("invalid mnemonic")
	}
	if hdPath == "" {
		hdPath = HDPath(0)
	}

	if _, err := kr.Key(keyName); err != nil {
		if _, err := kr.NewAccount(keyName, mnemonic, "", hdPath, hd.Secp256k1); err != nil {
			return nil, "", fmt.Errorf("import key: %w", err)
		}
	}

	addr, err := AddressFromKey(kr, keyName, hrp)
	if err != nil {
		return nil, "", fmt.Errorf("derive address: %w", err)
	}
	rec, err := kr.Key(keyName)
	if err != nil {
		return nil, "", fmt.Errorf("load key: %w", err)
	}
	pub, err := rec.GetPubKey()
	if err != nil {
		return nil, "", fmt.Errorf("get pubkey: %w", err)
	}
	if pub == nil {
		return nil, "", fmt.Errorf("pubkey is nil")
	}
	return pub.Bytes(), addr, nil
}

// ImportKeyFromMnemonicFile reads a mnemonic from disk and imports it.
func ImportKeyFromMnemonicFile(kr keyring.Keyring, keyName, mnemonicFile, hrp string) ([]byte, string, error) {
	mnemonic, err := readMnemonicFile(mnemonicFile)
	if err != nil {
		return nil, "", err
	}
	return ImportMnemonic(kr, keyName, mnemonic, HDPath(0), hrp)
}

// NewDefaultTxConfig constructs a client.TxConfig backed by a protobuf codec,
// registering the bank and wasm message interfaces required for signing/encoding.
func NewDefaultTxConfig() client.TxConfig {
	return authtx.NewTxConfig(NewProtoCodec(), authtx.DefaultSignModes)
}

// NewProtoCodec returns a codec that knows crypto, bank and wasm types.
func NewProtoCodec() *codec.ProtoCodec {
	reg := codectypes.NewInterfaceRegistry()
	// Register crypto and module interfaces
	std.RegisterInterfaces(reg)
	banktypes.RegisterInterfaces(reg)
	wasmtypes.RegisterInterfaces(reg)
	return codec.NewProtoCodec(reg)
}

func keyringCodec() codec.Codec {
	reg := codectypes.NewInterfaceRegistry()
	cryptocodec.RegisterInterfaces(reg)
	return codec.NewProtoCodec(reg)
}

func readMnemonicFile(mnemonicFile string) (string, error) {
	mnemonicRaw, err := os.ReadFile(mnemonicFile)
	if err != nil {
		return "", fmt.Errorf("read mnemonic file: %w", err)
	}
	mnemonic := strings.TrimSpace(string(mnemonicRaw))
	if mnemonic == "" {
		return "", fmt.Errorf("mnemonic file is empty")
	}
	return mnemonic, nil
}
