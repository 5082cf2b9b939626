// Package workflow drives the ping-pong dApp: provision a funded account,
// bind a contract instance, execute a ping and settle on the pong event.
//
// Transitions:
//
//	Uninitialized -> AccountReady       Bootstrap
//	AccountReady  -> ContractReady      Instantiate | UseContract
//	ContractReady -> Executing          ExecutePing
//	Executing     -> Settled            pong found (success) or not (failure)
//	Settled       -> Executing          ExecutePing
//	any           -> Uninitialized      Close
//
// Queries, balance refreshes and the faucet never change the state.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/wasmdapps/sdk-go/client/config"
	"github.com/wasmdapps/sdk-go/contracts"
	"github.com/wasmdapps/sdk-go/contracts/pingpong"
	sdkcrypto "github.com/wasmdapps/sdk-go/pkg/crypto"
	sdklog "github.com/wasmdapps/sdk-go/pkg/log"
	"github.com/wasmdapps/sdk-go/types"
	"github.com/wasmdapps/sdk-go/wallet"
	"github.com/wasmdapps/sdk-go/workflow/event"
)

// Session is the signing session the workflow drives.
type Session interface {
	contracts.Session
	Balance(ctx context.Context, addr, denom string) (sdk.Coin, error)
	Close() error
}

// SessionOpener opens a signing session for a derived account.
type SessionOpener func(ctx context.Context, acct *wallet.Account) (Session, error)

// Faucet credits test tokens to an address.
type Faucet interface {
	Credit(ctx context.Context, address, denom string) error
}

// Options wires the workflow to its collaborators.
type Options struct {
	Network config.NetworkConfig
	Store   wallet.SecretStore
	Open    SessionOpener
	// Faucet may be nil when the network has none.
	Faucet Faucet
	Logger sdklog.Logger
}

// Workflow is safe for concurrent use. At most one execute is in flight.
type Workflow struct {
	opts Options

	// bootMu serializes Bootstrap and Close so one secret is created per store.
	bootMu sync.Mutex

	mu sync.Mutex
	// epoch changes on Close; results of calls started earlier are dropped.
	epoch      uint64
	state      State
	outcome    Outcome
	account    *wallet.Account
	session    Session
	contract   *pingpong.Contract
	balance    *sdk.Coin
	count      uint64
	countKnown bool
	lastTx     string
	resultErr  error
	lastErr    error

	subMu   sync.RWMutex
	subs    map[event.EventType][]event.Handler
	subsAll []event.Handler
}

// New creates a workflow in the Uninitialized state.
func New(opts Options) (*Workflow, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("secret store is required: %w", types.ErrInvalidConfig)
	}
	if opts.Open == nil {
		return nil, fmt.Errorf("session opener is required: %w", types.ErrInvalidConfig)
	}
	if err := opts.Network.Validate(); err != nil {
		return nil, err
	}
	return &Workflow{
		opts: opts,
		subs: make(map[event.EventType][]event.Handler),
	}, nil
}

// Bootstrap loads or creates the wallet secret, derives the account and
// opens the signing session. Failures are *types.BootstrapError and leave
// the workflow Uninitialized. Calling it again after success is a no-op.
func (w *Workflow) Bootstrap(ctx context.Context) error {
	w.bootMu.Lock()
	defer w.bootMu.Unlock()

	w.mu.Lock()
	if w.state != Uninitialized {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	acct, session, err := w.bootstrap(ctx)
	if err != nil {
		sdklog.Errorf(w.opts.Logger, "bootstrap failed: %v", err)
		w.fail(ctx, event.BootstrapFailed, err)
		return err
	}

	w.mu.Lock()
	w.account = acct
	w.session = session
	w.state = AccountReady
	w.mu.Unlock()

	sdklog.Infof(w.opts.Logger, "account ready%s", sdklog.FormatKV("address", acct.Address, "chain", w.opts.Network.ChainID))
	w.emit(ctx, event.Bootstrapped, event.EventData{event.KeyAddress: acct.Address})
	return nil
}

func (w *Workflow) bootstrap(ctx context.Context) (*wallet.Account, Session, error) {
	secret, err := wallet.LoadOrCreateSecret(w.opts.Store)
	if err != nil {
		return nil, nil, &types.BootstrapError{Stage: "secret", Err: err}
	}
	acct, err := wallet.DeriveAccount(secret, w.opts.Network.AddressPrefix)
	if err != nil {
		return nil, nil, &types.BootstrapError{Stage: "account", Err: err}
	}
	session, err := w.opts.Open(ctx, acct)
	if err != nil {
		return nil, nil, &types.BootstrapError{Stage: "session", Err: err}
	}
	if session == nil {
		return nil, nil, &types.BootstrapError{Stage: "session", Err: errors.New("opener returned no session")}
	}
	return acct, session, nil
}

// Instantiate creates a new ping-pong instance from the configured code id
// with a random label and binds it, replacing any previous binding.
func (w *Workflow) Instantiate(ctx context.Context) (string, error) {
	session, sender, epoch, err := w.readyForBinding()
	if err != nil {
		w.fail(ctx, event.ErrorRaised, err)
		return "", err
	}

	codeID := w.opts.Network.PingPongCodeID
	label := pingpong.NewLabel()
	sdklog.Infof(w.opts.Logger, "instantiating ping-pong%s", sdklog.FormatKV("code_id", codeID, "label", label))

	c, err := pingpong.Instantiate(ctx, session, sender, codeID, label)
	if err != nil {
		err = &types.InstantiationError{CodeID: codeID, Label: label, Err: types.Classify("instantiate", err)}
		w.fail(ctx, event.ErrorRaised, err)
		return "", err
	}
	if err := w.bind(ctx, c, epoch); err != nil {
		return "", err
	}
	return c.Address(), nil
}

// UseContract binds an existing contract address without asking the chain
// whether it exists. Only the bech32 form and prefix are checked.
func (w *Workflow) UseContract(ctx context.Context, address string) error {
	session, sender, epoch, err := w.readyForBinding()
	if err != nil {
		w.fail(ctx, event.ErrorRaised, err)
		return err
	}
	if err := sdkcrypto.ValidateAddress(address, w.opts.Network.AddressPrefix); err != nil {
		err = fmt.Errorf("use contract: %w", err)
		w.fail(ctx, event.ErrorRaised, err)
		return err
	}
	return w.bind(ctx, pingpong.New(session, sender, address), epoch)
}

func (w *Workflow) readyForBinding() (Session, string, uint64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == Uninitialized || w.session == nil {
		return nil, "", 0, types.ErrNotBootstrapped
	}
	if w.state == Executing {
		return nil, "", 0, types.ErrExecuteInFlight
	}
	return w.session, w.account.Address, w.epoch, nil
}

func (w *Workflow) bind(ctx context.Context, c *pingpong.Contract, epoch uint64) error {
	w.mu.Lock()
	if w.epoch != epoch || w.state == Uninitialized {
		w.mu.Unlock()
		err := types.ErrNotBootstrapped
		w.fail(ctx, event.ErrorRaised, err)
		return err
	}
	if w.state == Executing {
		w.mu.Unlock()
		err := types.ErrExecuteInFlight
		w.fail(ctx, event.ErrorRaised, err)
		return err
	}
	w.contract = c
	w.state = ContractReady
	w.outcome = OutcomeNone
	w.count, w.countKnown = 0, false
	w.lastTx, w.resultErr = "", nil
	w.mu.Unlock()

	sdklog.Infof(w.opts.Logger, "contract bound%s", sdklog.FormatKV("contract", c.Address()))
	w.emit(ctx, event.ContractBound, event.EventData{event.KeyContract: c.Address()})
	return nil
}

// ExecutePing sends a ping to the bound contract and settles on the pong
// event. It returns the tx hash on success. A tx without the event fails
// with *types.EventNotFoundError; other failures are classified as
// *types.TransportError or *types.ChainRejectionError. A call made while
// another execute is pending returns types.ErrExecuteInFlight.
func (w *Workflow) ExecutePing(ctx context.Context) (string, error) {
	w.mu.Lock()
	switch {
	case w.state == Uninitialized:
		w.mu.Unlock()
		w.fail(ctx, event.ErrorRaised, types.ErrNotBootstrapped)
		return "", types.ErrNotBootstrapped
	case w.contract == nil:
		w.mu.Unlock()
		w.fail(ctx, event.ErrorRaised, types.ErrNoContract)
		return "", types.ErrNoContract
	case w.state == Executing:
		w.mu.Unlock()
		w.fail(ctx, event.ErrorRaised, types.ErrExecuteInFlight)
		return "", types.ErrExecuteInFlight
	}
	c, epoch := w.contract, w.epoch
	w.state = Executing
	w.mu.Unlock()

	w.emit(ctx, event.ExecuteStarted, event.EventData{event.KeyContract: c.Address()})

	hash, err := c.ExecutePing(ctx)
	if err != nil {
		err = types.Classify("execute ping", err)
	}

	w.mu.Lock()
	if w.epoch != epoch {
		// closed while the tx was pending
		w.mu.Unlock()
		if err != nil {
			return "", err
		}
		return hash, nil
	}
	w.state = Settled
	if err != nil {
		w.outcome = OutcomeFailure
		w.lastTx = ""
		w.resultErr = err
		w.lastErr = err
	} else {
		w.outcome = OutcomeSuccess
		w.lastTx = hash
		w.resultErr = nil
	}
	w.mu.Unlock()

	if err != nil {
		sdklog.Warnf(w.opts.Logger, "ping failed%s", sdklog.FormatKV("contract", c.Address(), "error", err))
		w.emit(ctx, event.ExecuteSettled, event.EventData{event.KeyContract: c.Address(), event.KeyError: err})
		return "", err
	}
	sdklog.Infof(w.opts.Logger, "pong received%s", sdklog.FormatKV("contract", c.Address(), "txhash", hash))
	w.emit(ctx, event.ExecuteSettled, event.EventData{event.KeyContract: c.Address(), event.KeyTxHash: hash})
	return hash, nil
}

// QueryPingCount reads the ping count of the bound contract. It does not
// change the state and may run while an execute is pending.
func (w *Workflow) QueryPingCount(ctx context.Context) (uint64, error) {
	w.mu.Lock()
	c, ready := w.contract, w.state != Uninitialized
	w.mu.Unlock()
	if !ready {
		w.fail(ctx, event.ErrorRaised, types.ErrNotBootstrapped)
		return 0, types.ErrNotBootstrapped
	}
	if c == nil {
		w.fail(ctx, event.ErrorRaised, types.ErrNoContract)
		return 0, types.ErrNoContract
	}

	n, err := c.QueryPingCount(ctx)
	if err != nil {
		err = types.Classify("query ping count", err)
		w.fail(ctx, event.ErrorRaised, err)
		return 0, err
	}

	w.mu.Lock()
	// ignore the answer if the binding changed meanwhile
	current := w.contract == c
	if current {
		w.count, w.countKnown = n, true
	}
	w.mu.Unlock()

	if current {
		w.emit(ctx, event.CountRefreshed, event.EventData{event.KeyCount: n, event.KeyContract: c.Address()})
	}
	return n, nil
}

// RefreshBalance fetches the account balance in the fee denom.
func (w *Workflow) RefreshBalance(ctx context.Context) (sdk.Coin, error) {
	w.mu.Lock()
	session, acct, epoch := w.session, w.account, w.epoch
	w.mu.Unlock()
	if acct == nil || session == nil {
		w.fail(ctx, event.ErrorRaised, types.ErrNotBootstrapped)
		return sdk.Coin{}, types.ErrNotBootstrapped
	}

	coin, err := session.Balance(ctx, acct.Address, w.opts.Network.FeeDenom)
	if err != nil {
		err = types.Classify("balance", err)
		w.fail(ctx, event.ErrorRaised, err)
		return sdk.Coin{}, err
	}

	w.mu.Lock()
	if w.epoch == epoch {
		w.balance = &coin
	}
	w.mu.Unlock()

	w.emit(ctx, event.BalanceRefreshed, event.EventData{event.KeyBalance: coin.String()})
	return coin, nil
}

// HitFaucet asks the faucet for tokens. It only does so when the last known
// balance is exactly zero; otherwise it fails with types.ErrAccountFunded
// without contacting the faucet. An unknown balance is fetched first.
func (w *Workflow) HitFaucet(ctx context.Context) error {
	w.mu.Lock()
	acct, balance := w.account, w.balance
	w.mu.Unlock()
	if acct == nil {
		w.fail(ctx, event.ErrorRaised, types.ErrNotBootstrapped)
		return types.ErrNotBootstrapped
	}
	if w.opts.Faucet == nil {
		err := fmt.Errorf("no faucet configured for %s: %w", w.opts.Network.ChainID, types.ErrInvalidConfig)
		w.fail(ctx, event.ErrorRaised, err)
		return err
	}
	if balance == nil {
		coin, err := w.RefreshBalance(ctx)
		if err != nil {
			return err
		}
		balance = &coin
	}
	if !balance.Amount.IsZero() {
		w.fail(ctx, event.ErrorRaised, types.ErrAccountFunded)
		return types.ErrAccountFunded
	}

	if err := w.opts.Faucet.Credit(ctx, acct.Address, w.opts.Network.FeeDenom); err != nil {
		err = types.Classify("faucet", err)
		w.fail(ctx, event.ErrorRaised, err)
		return err
	}
	sdklog.Infof(w.opts.Logger, "faucet credit requested%s", sdklog.FormatKV("address", acct.Address, "denom", w.opts.Network.FeeDenom))
	w.emit(ctx, event.FaucetCredited, event.EventData{event.KeyAddress: acct.Address})
	return nil
}

// LastError returns the most recent error until it is dismissed.
func (w *Workflow) LastError() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

// DismissError clears the error returned by LastError.
func (w *Workflow) DismissError(ctx context.Context) {
	w.mu.Lock()
	had := w.lastErr != nil
	w.lastErr = nil
	w.mu.Unlock()
	if had {
		w.emit(ctx, event.ErrorDismissed, nil)
	}
}

// Snapshot returns a copy of the current state.
func (w *Workflow) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

func (w *Workflow) snapshotLocked() Snapshot {
	s := Snapshot{
		State:         w.state,
		Outcome:       w.outcome,
		Count:         w.count,
		CountKnown:    w.countKnown,
		LastTxHash:    w.lastTx,
		LastResultErr: w.resultErr,
		Err:           w.lastErr,
	}
	if w.account != nil {
		s.Address = w.account.Address
	}
	if w.balance != nil {
		b := *w.balance
		s.Balance = &b
	}
	if w.contract != nil {
		s.Contract = w.contract.Address()
	}
	return s
}

// Close releases the signing session and returns the workflow to
// Uninitialized. Bootstrap may be called again afterwards; it reloads the
// same secret from the store.
func (w *Workflow) Close() error {
	w.bootMu.Lock()
	defer w.bootMu.Unlock()

	w.mu.Lock()
	session := w.session
	w.epoch++
	w.state = Uninitialized
	w.outcome = OutcomeNone
	w.session = nil
	w.account = nil
	w.contract = nil
	w.balance = nil
	w.count, w.countKnown = 0, false
	w.lastTx, w.resultErr = "", nil
	w.mu.Unlock()
	if session != nil {
		return session.Close()
	}
	return nil
}

// fail records err as the banner error and notifies subscribers.
func (w *Workflow) fail(ctx context.Context, t event.EventType, err error) {
	w.mu.Lock()
	w.lastErr = err
	w.mu.Unlock()
	w.emit(ctx, t, event.EventData{event.KeyError: err})
}

func (w *Workflow) emit(ctx context.Context, t event.EventType, data event.EventData) {
	w.mu.Lock()
	state := w.state.String()
	w.mu.Unlock()
	w.emitLocalEvent(ctx, event.Event{Type: t, State: state, Timestamp: time.Now(), Data: data})
}
