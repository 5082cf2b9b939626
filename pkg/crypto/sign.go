package crypto

import (
	"context"
	"fmt"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/tx"
	"github.com/cosmos/cosmos-sdk/crypto/keyring"
)

// SignTxWithKeyring signs the provided TxBuilder using the given keyring identity.
// The caller must supply chainID, account number and sequence.
// Set overwrite=true to replace any placeholder signature left by simulation.
func SignTxWithKeyring(
	ctx context.Context,
	txCfg client.TxConfig,
	kr keyring.Keyring,
	keyName string,
	builder client.TxBuilder,
	chainID string,
	accountNumber uint64,
	sequence uint64,
	overwrite bool,
) error {
	if kr == nil {
		return fmt.Errorf("keyring is required")
	}
	if _, err := kr.Key(keyName); err != nil {
		return fmt.Errorf("signer %q: %w", keyName, err)
	}

	factory := tx.Factory{}.
		WithChainID(chainID).
		WithTxConfig(txCfg).
		WithAccountNumber(accountNumber).
		WithSequence(sequence).
		WithKeybase(kr)

	return tx.Sign(ctx, factory, keyName, builder, overwrite)
}
