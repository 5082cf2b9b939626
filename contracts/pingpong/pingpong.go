// Package pingpong is a typed proxy for the ping-pong CosmWasm contract.
package pingpong

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/wasmdapps/sdk-go/contracts"
	"github.com/wasmdapps/sdk-go/types"
)

// Success marker emitted by the contract in answer to a ping.
const (
	PongKey   = "pong"
	PongValue = "pong"
)

// Contract is bound to one deployed ping-pong instance for its lifetime.
type Contract struct {
	session contracts.Session
	sender  string
	address string
}

// New binds a proxy to an existing contract address. Nothing is checked
// on chain.
func New(session contracts.Session, sender, address string) *Contract {
	return &Contract{session: session, sender: sender, address: address}
}

// NewLabel returns a random instance label.
func NewLabel() string {
	return "pingpong-" + uuid.NewString()[:8]
}

// Instantiate creates a new ping-pong instance from codeID with an empty
// init message and returns a proxy bound to it.
func Instantiate(ctx context.Context, session contracts.Session, sender string, codeID uint64, label string) (*Contract, error) {
	if label == "" {
		label = NewLabel()
	}
	initMsg, err := json.Marshal(InstantiateMsg{})
	if err != nil {
		return nil, err
	}
	res, err := session.Instantiate(ctx, sender, codeID, initMsg, label, nil)
	if err != nil {
		return nil, err
	}
	return New(session, sender, res.ContractAddress), nil
}

// Address returns the bound contract address.
func (c *Contract) Address() string { return c.address }

// QueryPingCount returns the number of pings answered so far.
func (c *Contract) QueryPingCount(ctx context.Context) (uint64, error) {
	msg, err := contracts.EncodeMsg(QueryMsg{GetCount: &GetCount{}})
	if err != nil {
		return 0, err
	}
	out, err := c.session.QuerySmart(ctx, c.address, msg)
	if err != nil {
		return 0, err
	}
	var count contracts.Uint64
	if err := json.Unmarshal(out, &count); err != nil {
		return 0, fmt.Errorf("decode get_count reply: %w", err)
	}
	return uint64(count), nil
}

// ExecutePing sends a ping and returns the tx hash once a pong=pong
// attribute is found among the tx events. A tx without it fails with
// *types.EventNotFoundError.
func (c *Contract) ExecutePing(ctx context.Context) (string, error) {
	msg, err := contracts.EncodeMsg(ExecuteMsg{Ping: &Ping{}})
	if err != nil {
		return "", err
	}
	res, err := c.session.Execute(ctx, c.sender, c.address, msg, nil)
	if err != nil {
		return "", err
	}
	if _, ok := res.FindAttribute(PongKey, PongValue); !ok {
		return "", &types.EventNotFoundError{TxHash: res.TxHash, Key: PongKey, Value: PongValue}
	}
	return res.TxHash, nil
}
