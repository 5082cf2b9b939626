package blockchain

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/wasmdapps/sdk-go/blockchain/base"
	"github.com/wasmdapps/sdk-go/types"
)

// BankClient provides bank module operations
type BankClient struct {
	base *base.Client
}

// Balance returns the balance of addr in denom (fee denom when empty).
func (b *BankClient) Balance(ctx context.Context, addr, denom string) (sdk.Coin, error) {
	return b.base.Balance(ctx, addr, denom)
}

// Send transfers amount from the signing key to to.
func (b *BankClient) Send(ctx context.Context, to string, amount sdk.Coins, memo string) (*types.TxResult, error) {
	from, err := b.base.SignerAddress()
	if err != nil {
		return nil, err
	}
	return b.base.SignAndBroadcast(ctx, NewMsgSend(from, to, amount), memo)
}
