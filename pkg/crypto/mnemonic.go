package crypto

import (
	"fmt"
	"strings"

	"github.com/cosmos/cosmos-sdk/crypto/hd"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/go-bip39"
)

// MnemonicEntropyBits yields a 12 word mnemonic (16 bytes of entropy).
const MnemonicEntropyBits = 128

// NewMnemonic draws fresh entropy from crypto/rand and encodes it.
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(MnemonicEntropyBits)
	if err != nil {
		return "", fmt.Errorf("generate entropy: %w", err)
	}
	return NewMnemonicFromEntropy(entropy)
}

// NewMnemonicFromEntropy encodes entropy as a BIP-39 phrase.
func NewMnemonicFromEntropy(entropy []byte) (string, error) {
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("encode mnemonic: %w", err)
	}
	return mnemonic, nil
}

// ValidateMnemonic reports whether the phrase has a valid word list and checksum.
func ValidateMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(strings.TrimSpace(mnemonic))
}

// HDPath returns the Cosmos Hub derivation path for the given account index,
// e.g. m/44'/118'/0'/0/0 for account 0.
func HDPath(account uint32) string {
	return hd.CreateHDPath(sdk.CoinType, account, 0).String()
}
