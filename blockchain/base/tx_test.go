package base

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	abcipb "cosmossdk.io/api/cosmos/base/abci/v1beta1"
	txtypes "cosmossdk.io/api/cosmos/tx/v1beta1"
	abcitypes "cosmossdk.io/api/tendermint/abci"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/proto"

	clientconfig "github.com/wasmdapps/sdk-go/client/config"
	sdkcrypto "github.com/wasmdapps/sdk-go/pkg/crypto"
	"github.com/wasmdapps/sdk-go/types"
)

type getTxSequenceServer struct {
	txtypes.UnimplementedServiceServer
	mu        sync.Mutex
	responses []getTxStep
	calls     int
}

type getTxStep struct {
	resp *txtypes.GetTxResponse
	err  error
}

func (s *getTxSequenceServer) GetTx(ctx context.Context, req *txtypes.GetTxRequest) (*txtypes.GetTxResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.calls
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	s.calls++
	step := s.responses[idx]
	return step.resp, step.err
}

func (s *getTxSequenceServer) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// chainServer fakes the auth, bank and tx services of a node.
type chainServer struct {
	txtypes.UnimplementedServiceServer

	mu        sync.Mutex
	checkCode uint32
	broadcast [][]byte
	txResp    *abcipb.TxResponse
}

func (s *chainServer) BroadcastTx(ctx context.Context, req *txtypes.BroadcastTxRequest) (*txtypes.BroadcastTxResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broadcast = append(s.broadcast, req.TxBytes)
	return &txtypes.BroadcastTxResponse{TxResponse: &abcipb.TxResponse{
		Txhash:    "ABC123",
		Code:      s.checkCode,
		Codespace: "sdk",
		RawLog:    "insufficient fees",
	}}, nil
}

func (s *chainServer) GetTx(ctx context.Context, req *txtypes.GetTxRequest) (*txtypes.GetTxResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.txResp == nil {
		return nil, status.Error(codes.NotFound, "tx not found")
	}
	return &txtypes.GetTxResponse{TxResponse: s.txResp}, nil
}

type authServer struct {
	authtypes.UnimplementedQueryServer
}

func (authServer) AccountInfo(ctx context.Context, req *authtypes.QueryAccountInfoRequest) (*authtypes.QueryAccountInfoResponse, error) {
	return &authtypes.QueryAccountInfoResponse{Info: &authtypes.BaseAccount{
		Address:       req.Address,
		AccountNumber: 7,
		Sequence:      3,
	}}, nil
}

type bankServer struct {
	banktypes.UnimplementedQueryServer
	balances map[string]sdk.Coin
}

func (b bankServer) Balance(ctx context.Context, req *banktypes.QueryBalanceRequest) (*banktypes.QueryBalanceResponse, error) {
	coin, ok := b.balances[req.Address]
	if !ok {
		coin = sdk.NewInt64Coin(req.Denom, 0)
	}
	return &banktypes.QueryBalanceResponse{Balance: &coin}, nil
}

func newBufServer(t *testing.T, register func(*grpc.Server)) *bufconn.Listener {
	t.Helper()
	const bufSize = 1024 * 1024
	lis := bufconn.Listen(bufSize)
	srv := grpc.NewServer(grpc.ForceServerCodec(sdkcrypto.NewProtoCodec().GRPCCodec()))
	register(srv)
	t.Cleanup(func() {
		srv.Stop()
		_ = lis.Close()
	})
	go func() {
		_ = srv.Serve(lis)
	}()
	return lis
}

func newBufClient(t *testing.T, lis *bufconn.Listener, cfg Config, withKey bool) *Client {
	t.Helper()
	cfg.GRPCAddr = "passthrough:///bufnet"
	kr := sdkcrypto.NewMemoryKeyring()
	if withKey {
		mnemonic, err := sdkcrypto.NewMnemonicFromEntropy(make([]byte, 16))
		require.NoError(t, err)
		_, _, err = sdkcrypto.ImportMnemonic(kr, "alice", mnemonic, sdkcrypto.HDPath(0), cfg.AccountHRP)
		require.NoError(t, err)
	}
	c, err := NewWithDialOptions(context.Background(), cfg, kr, "alice",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) {
			return lis.Dial()
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func testConfig() Config {
	return Config{
		ChainID:    "testing",
		AccountHRP: "wasm",
		FeeDenom:   "usponge",
		Timeout:    time.Second,
		WaitTx: clientconfig.WaitTxConfig{
			PollInterval:          time.Millisecond,
			PollMaxRetries:        5,
			PollBackoffMultiplier: 1,
		},
	}
}

func TestWaitForTxInclusionRetriesNotFoundAfterWaitSuccess(t *testing.T) {
	txHash := "hash"
	successResp := &txtypes.GetTxResponse{
		TxResponse: &abcipb.TxResponse{Txhash: txHash},
	}

	handler := &getTxSequenceServer{
		responses: []getTxStep{
			{resp: successResp}, // websocket/poller observes inclusion
			{err: status.Error(codes.NotFound, "not indexed yet")}, // first post-wait fetch hits slow index
			{err: status.Error(codes.NotFound, "still indexing")},  // retry still not ready
			{resp: successResp}, // eventual success once indexed
		},
	}
	lis := newBufServer(t, func(srv *grpc.Server) { txtypes.RegisterServiceServer(srv, handler) })
	c := newBufClient(t, lis, testConfig(), false)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	resp, err := c.WaitForTxInclusion(ctx, txHash)
	require.NoError(t, err)
	require.NotNil(t, resp.TxResponse)
	require.Equal(t, txHash, resp.TxResponse.Txhash)
	require.Equal(t, len(handler.responses), handler.callCount())
}

func TestWaitForTxInclusionNeverIndexedIsTransportTimeout(t *testing.T) {
	txHash := "hash"
	handler := &getTxSequenceServer{
		responses: []getTxStep{
			{resp: &txtypes.GetTxResponse{TxResponse: &abcipb.TxResponse{Txhash: txHash}}},
			{err: status.Error(codes.NotFound, "not indexed yet")},
		},
	}
	lis := newBufServer(t, func(srv *grpc.Server) { txtypes.RegisterServiceServer(srv, handler) })
	c := newBufClient(t, lis, testConfig(), false)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := c.WaitForTxInclusion(ctx, txHash)
	require.ErrorIs(t, err, types.ErrTimeout)
	require.True(t, types.IsTransport(types.Classify("execute", err)))
	// one inclusion observation plus PollMaxRetries index fetches
	require.Equal(t, 1+testConfig().WaitTx.PollMaxRetries, handler.callCount())
}

func TestBroadcastNonZeroCodeIsTxError(t *testing.T) {
	chain := &chainServer{checkCode: 13}
	lis := newBufServer(t, func(srv *grpc.Server) {
		txtypes.RegisterServiceServer(srv, chain)
		authtypes.RegisterQueryServer(srv, &authServer{})
	})
	c := newBufClient(t, lis, testConfig(), true)

	signer, err := c.SignerAddress()
	require.NoError(t, err)
	msg := &banktypes.MsgSend{FromAddress: signer, ToAddress: signer, Amount: sdk.NewCoins(sdk.NewInt64Coin("usponge", 1))}

	_, err = c.SignAndBroadcast(context.Background(), msg, "")
	require.ErrorIs(t, err, types.ErrTxRejected)

	var txErr *types.TxError
	require.True(t, errors.As(err, &txErr))
	require.Equal(t, uint32(13), txErr.Code)
	require.Equal(t, "ABC123", txErr.TxHash)
}

func TestSignAndBroadcastUsesFixedGasAndPrice(t *testing.T) {
	chain := &chainServer{txResp: &abcipb.TxResponse{
		Txhash: "ABC123",
		Height: 11,
		Events: []*abcitypes.Event{{
			Type_:      "transfer",
			Attributes: []*abcitypes.EventAttribute{{Key: "amount", Value: "1usponge"}},
		}},
	}}
	lis := newBufServer(t, func(srv *grpc.Server) {
		txtypes.RegisterServiceServer(srv, chain)
		authtypes.RegisterQueryServer(srv, &authServer{})
	})
	c := newBufClient(t, lis, testConfig(), true)

	signer, err := c.SignerAddress()
	require.NoError(t, err)
	msg := &banktypes.MsgSend{FromAddress: signer, ToAddress: signer, Amount: sdk.NewCoins(sdk.NewInt64Coin("usponge", 1))}

	res, err := c.SignAndBroadcast(context.Background(), msg, "hello")
	require.NoError(t, err)
	require.Equal(t, "ABC123", res.TxHash)
	require.Equal(t, int64(11), res.Height)
	v, ok := res.AttributeValue("transfer", "amount")
	require.True(t, ok)
	require.Equal(t, "1usponge", v)

	require.Len(t, chain.broadcast, 1)
	var raw txtypes.TxRaw
	require.NoError(t, proto.Unmarshal(chain.broadcast[0], &raw))
	var authInfo txtypes.AuthInfo
	require.NoError(t, proto.Unmarshal(raw.AuthInfoBytes, &authInfo))
	require.Equal(t, uint64(80_000), authInfo.Fee.GasLimit)
	require.Len(t, authInfo.Fee.Amount, 1)
	require.Equal(t, "usponge", authInfo.Fee.Amount[0].Denom)
	require.Equal(t, "2000", authInfo.Fee.Amount[0].Amount)
	require.Equal(t, uint64(3), authInfo.SignerInfos[0].Sequence)

	var body txtypes.TxBody
	require.NoError(t, proto.Unmarshal(raw.BodyBytes, &body))
	require.Equal(t, "hello", body.Memo)
}

func TestBalance(t *testing.T) {
	lis := newBufServer(t, func(srv *grpc.Server) {
		banktypes.RegisterQueryServer(srv, &bankServer{balances: map[string]sdk.Coin{
			"wasm1rich": sdk.NewInt64Coin("usponge", 1_000_000),
		}})
	})
	c := newBufClient(t, lis, testConfig(), false)

	coin, err := c.Balance(context.Background(), "wasm1rich", "usponge")
	require.NoError(t, err)
	require.True(t, coin.Amount.Equal(sdkmath.NewInt(1_000_000)))

	coin, err = c.Balance(context.Background(), "wasm1poor", "")
	require.NoError(t, err)
	require.True(t, coin.IsZero())
	require.Equal(t, "usponge", coin.Denom)
}
