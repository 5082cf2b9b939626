// Package contracts holds what the typed contract proxies share: the session
// they dispatch through and the JSON conventions of CosmWasm messages.
package contracts

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/wasmdapps/sdk-go/blockchain"
	"github.com/wasmdapps/sdk-go/types"
)

// Session is the part of a signing session a contract proxy needs.
// *blockchain.Client implements it.
type Session interface {
	QuerySmart(ctx context.Context, contract string, msg []byte) ([]byte, error)
	Execute(ctx context.Context, sender, contract string, msg []byte, funds sdk.Coins, opts ...blockchain.TxOption) (*types.TxResult, error)
	Instantiate(ctx context.Context, sender string, codeID uint64, initMsg []byte, label string, funds sdk.Coins, opts ...blockchain.TxOption) (*types.InstantiateResult, error)
	Upload(ctx context.Context, sender string, wasm []byte, meta types.UploadMeta) (*types.UploadResult, error)
}

var _ Session = (*blockchain.Client)(nil)

// EncodeMsg marshals a tagged-union message and checks that exactly one
// variant is set, so the wire form has a single top-level key.
func EncodeMsg(msg any) ([]byte, error) {
	bz, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", msg, err)
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(bz, &top); err != nil {
		return nil, fmt.Errorf("%T is not a JSON object: %w", msg, err)
	}
	if len(top) != 1 {
		keys := make([]string, 0, len(top))
		for k := range top {
			keys = append(keys, k)
		}
		return nil, fmt.Errorf("%T must set exactly one variant, got %d %v", msg, len(top), keys)
	}
	return bz, nil
}

// Uint64 decodes a contract integer sent either as a JSON number or as the
// quoted decimal string cosmwasm_std::Uint64 serializes to.
type Uint64 uint64

func (u *Uint64) UnmarshalJSON(bz []byte) error {
	s := strings.TrimSpace(string(bz))
	if s == "null" {
		return fmt.Errorf("expected integer, got null")
	}
	if strings.HasPrefix(s, `"`) {
		unq, err := strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("decode integer string: %w", err)
		}
		s = unq
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("decode integer %q: %w", s, err)
	}
	*u = Uint64(v)
	return nil
}

func (u Uint64) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(strconv.FormatUint(uint64(u), 10))), nil
}
