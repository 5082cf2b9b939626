package base

import (
	"context"
	"errors"
	"fmt"
	"time"

	txtypes "cosmossdk.io/api/cosmos/tx/v1beta1"
	sdk "github.com/cosmos/cosmos-sdk/types"
	signingtypes "github.com/cosmos/cosmos-sdk/types/tx/signing"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	waittx "github.com/wasmdapps/sdk-go/internal/wait-tx"
	sdkcrypto "github.com/wasmdapps/sdk-go/pkg/crypto"
	"github.com/wasmdapps/sdk-go/types"
)

// simulationGasAdjustment is applied to simulated gas for messages without a
// fixed limit.
const simulationGasAdjustment = 1.3

// fallbackGas is used when simulation fails and no fixed limit applies.
const fallbackGas = 200_000

// Simulate runs a gas simulation for a provided tx bytes
func (c *Client) Simulate(ctx context.Context, txBytes []byte) (uint64, error) {
	svc := txtypes.NewServiceClient(c.conn)
	resp, err := svc.Simulate(ctx, &txtypes.SimulateRequest{
		TxBytes: txBytes,
	})
	if err != nil {
		return 0, fmt.Errorf("simulate tx: %w", err)
	}
	if resp == nil || resp.GasInfo == nil {
		return 0, nil
	}
	return resp.GasInfo.GasUsed, nil
}

// Broadcast broadcasts a signed transaction with a chosen broadcast mode.
// A non-zero check code is returned as *types.TxError.
func (c *Client) Broadcast(ctx context.Context, txBytes []byte, mode txtypes.BroadcastMode) (string, error) {
	svc := txtypes.NewServiceClient(c.conn)
	resp, err := svc.BroadcastTx(ctx, &txtypes.BroadcastTxRequest{
		TxBytes: txBytes,
		Mode:    mode,
	})
	if err != nil {
		return "", fmt.Errorf("broadcast tx: %w", err)
	}

	if resp == nil || resp.TxResponse == nil {
		return "", fmt.Errorf("empty tx response")
	}

	if resp.TxResponse.Code != 0 {
		return "", &types.TxError{
			TxHash:    resp.TxResponse.GetTxhash(),
			Codespace: resp.TxResponse.GetCodespace(),
			Code:      resp.TxResponse.GetCode(),
			RawLog:    resp.TxResponse.GetRawLog(),
		}
	}

	return resp.TxResponse.GetTxhash(), nil
}

// AccountInfo returns the account number and sequence for addr.
func (c *Client) AccountInfo(ctx context.Context, addr string) (accountNumber, sequence uint64, err error) {
	authq := authtypes.NewQueryClient(c.conn)
	resp, err := authq.AccountInfo(ctx, &authtypes.QueryAccountInfoRequest{Address: addr})
	if err != nil {
		return 0, 0, fmt.Errorf("query account info: %w", err)
	}
	if resp == nil || resp.Info == nil {
		return 0, 0, fmt.Errorf("empty account info response")
	}
	return resp.Info.GetAccountNumber(), resp.Info.GetSequence(), nil
}

// BuildAndSignTx builds a transaction with one message, picks its gas limit
// and fee, then signs it with the configured key.
func (c *Client) BuildAndSignTx(ctx context.Context, msg sdk.Msg, memo string) ([]byte, error) {
	if c.keyring == nil {
		return nil, fmt.Errorf("keyring is required for signing")
	}

	// 1) Tx config and builder
	txCfg := c.txConfig()
	builder := txCfg.NewTxBuilder()
	if err := builder.SetMsgs(msg); err != nil {
		return nil, fmt.Errorf("set msgs: %w", err)
	}
	if memo != "" {
		builder.SetMemo(memo)
	}

	// 2) Resolve account number/sequence
	rec, err := c.keyring.Key(c.keyName)
	if err != nil {
		return nil, fmt.Errorf("load key %q: %w", c.keyName, err)
	}
	signer, err := c.SignerAddress()
	if err != nil {
		return nil, fmt.Errorf("signer address: %w", err)
	}
	accNum, seq, err := c.AccountInfo(ctx, signer)
	if err != nil {
		return nil, err
	}

	// 3) Gas: fixed table first, simulation otherwise
	gas := c.config.GasLimits.For(msg)
	if gas == 0 {
		pk, err := rec.GetPubKey()
		if err != nil {
			return nil, fmt.Errorf("get pubkey for %q: %w", c.keyName, err)
		}
		placeholder := signingtypes.SignatureV2{
			PubKey: pk,
			Data: &signingtypes.SingleSignatureData{
				SignMode: signingtypes.SignMode(txCfg.SignModeHandler().DefaultMode()),
			},
			Sequence: seq,
		}
		if err := builder.SetSignatures(placeholder); err != nil {
			return nil, fmt.Errorf("set placeholder signature: %w", err)
		}
		unsignedBytes, err := txCfg.TxEncoder()(builder.GetTx())
		if err != nil {
			return nil, fmt.Errorf("encode unsigned tx: %w", err)
		}
		gas = fallbackGas
		if used, err := c.Simulate(ctx, unsignedBytes); err == nil && used > 0 {
			gas = uint64(float64(used) * simulationGasAdjustment)
		}
		if err := builder.SetSignatures(); err != nil {
			return nil, fmt.Errorf("clear placeholder signature: %w", err)
		}
	}
	builder.SetGasLimit(gas)

	// 4) Fee = ceil(gas * price)
	builder.SetFeeAmount(sdk.NewCoins(sdk.NewCoin(c.config.FeeDenom, FeeFor(gas, c.config.GasPrice))))

	// 5) Sign
	if err := sdkcrypto.SignTxWithKeyring(
		ctx, txCfg, c.keyring, c.keyName, builder,
		c.config.ChainID, accNum, seq, true,
	); err != nil {
		return nil, fmt.Errorf("sign tx: %w", err)
	}

	signedBytes, err := txCfg.TxEncoder()(builder.GetTx())
	if err != nil {
		return nil, fmt.Errorf("encode signed tx: %w", err)
	}

	return signedBytes, nil
}

// SignAndBroadcast signs msg, broadcasts it in sync mode and waits for the
// tx to be included. Inclusion with a non-zero code is a *types.TxError.
func (c *Client) SignAndBroadcast(ctx context.Context, msg sdk.Msg, memo string) (*types.TxResult, error) {
	txBytes, err := c.BuildAndSignTx(ctx, msg, memo)
	if err != nil {
		return nil, err
	}
	hash, err := c.Broadcast(ctx, txBytes, txtypes.BroadcastMode_BROADCAST_MODE_SYNC)
	if err != nil {
		return nil, err
	}
	resp, err := c.WaitForTxInclusion(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("wait for tx %s: %w", hash, err)
	}
	res := types.TxResultFromProto(resp.TxResponse)
	if code := resp.TxResponse.GetCode(); code != 0 {
		return res, &types.TxError{
			TxHash:    hash,
			Codespace: resp.TxResponse.GetCodespace(),
			Code:      code,
			RawLog:    resp.TxResponse.GetRawLog(),
		}
	}
	return res, nil
}

// GetTx fetches a transaction by hash via the tx service.
func (c *Client) GetTx(ctx context.Context, hash string) (*txtypes.GetTxResponse, error) {
	svc := txtypes.NewServiceClient(c.conn)
	resp, err := svc.GetTx(ctx, &txtypes.GetTxRequest{Hash: hash})
	if err != nil {
		return nil, fmt.Errorf("get tx: %w", err)
	}
	if resp == nil {
		return nil, fmt.Errorf("empty get tx response")
	}
	return resp, nil
}

// WaitForTxInclusion waits for the tx through the websocket subscriber and
// gRPC poller, then fetches the full response. The tx index can lag the
// inclusion event, so codes.NotFound on that fetch is retried.
func (c *Client) WaitForTxInclusion(ctx context.Context, txHash string) (*txtypes.GetTxResponse, error) {
	waiter, err := waittx.New(c.config.WaitTx, c.config.RPCEndpoint, TxQuerierFunc(func(ctx context.Context, req *txtypes.GetTxRequest) (*txtypes.GetTxResponse, error) {
		return c.GetTx(ctx, req.GetHash())
	}))
	if err != nil {
		return nil, err
	}
	if _, err := waiter.Wait(ctx, txHash, c.config.Timeout); err != nil {
		return nil, err
	}

	backoff := waittx.NewBackoff(c.config.WaitTx)
	for attempt := 1; ; attempt++ {
		resp, err := c.GetTx(ctx, txHash)
		if err == nil && resp.TxResponse != nil {
			return resp, nil
		}
		if err != nil && !isNotFound(err) {
			return nil, err
		}
		if maxTries := c.config.WaitTx.PollMaxRetries; maxTries > 0 && attempt >= maxTries {
			return nil, fmt.Errorf("tx %s not indexed after %d attempts: %w", txHash, attempt, types.ErrTimeout)
		}
		t := time.NewTimer(backoff.Next(attempt))
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
}

// TxQuerierFunc adapts a function to the wait-tx querier interface.
type TxQuerierFunc func(ctx context.Context, req *txtypes.GetTxRequest) (*txtypes.GetTxResponse, error)

func (f TxQuerierFunc) GetTx(ctx context.Context, req *txtypes.GetTxRequest) (*txtypes.GetTxResponse, error) {
	return f(ctx, req)
}

func isNotFound(err error) bool {
	for e := err; e != nil; e = errors.Unwrap(e) {
		if st, ok := status.FromError(e); ok && st.Code() == codes.NotFound {
			return true
		}
	}
	return false
}
