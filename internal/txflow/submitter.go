package txflow

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/halofi/halobot/internal/chain"
	"github.com/halofi/halobot/internal/domain"
)

// Submission is one broadcast transaction: its hash and a channel that
// resolves exactly once with the final outcome.
type Submission struct {
	Hash string
	Done <-chan chain.Outcome
}

// Submitter signs and broadcasts one intent. The production implementation
// is ChainSubmitter; tests substitute fakes.
type Submitter interface {
	Submit(ctx context.Context, intent domain.TransactionIntent) (Submission, error)
}

// ChainSubmitter signs intents with the configured key and broadcasts them
// through the bound contracts.
type ChainSubmitter struct {
	pool     *chain.LendingPool
	tokens   map[string]*chain.ERC20 // keyed by normalized asset address
	registry *chain.IdentityRegistry
	signer   *chain.Signer
	watcher  *chain.Watcher
}

// NewChainSubmitter binds the write path. signer may be nil for read-only
// deployments; Submit then returns ErrNotConnected.
func NewChainSubmitter(
	pool *chain.LendingPool,
	client *chain.Client,
	registry *chain.IdentityRegistry,
	signer *chain.Signer,
	watcher *chain.Watcher,
	assets []domain.Asset,
) *ChainSubmitter {
	tokens := make(map[string]*chain.ERC20, len(assets))
	for _, a := range assets {
		addr := common.HexToAddress(a.Address)
		tokens[addr.Hex()] = chain.NewERC20(addr, client)
	}
	return &ChainSubmitter{
		pool:     pool,
		tokens:   tokens,
		registry: registry,
		signer:   signer,
		watcher:  watcher,
	}
}

// Submit dispatches the intent to the matching contract call. Signature
// acquisition failures surface as ErrSignatureRejected; broadcast failures
// as ErrSubmissionFailed.
func (s *ChainSubmitter) Submit(ctx context.Context, intent domain.TransactionIntent) (Submission, error) {
	if s.signer == nil {
		return Submission{}, domain.ErrNotConnected
	}

	opts, err := s.signer.TransactOpts(ctx)
	if err != nil {
		return Submission{}, fmt.Errorf("%w: %v", domain.ErrSignatureRejected, err)
	}

	assetAddr := common.HexToAddress(intent.Asset.Address)
	rawAmount := chain.FromDecimal(intent.Amount, intent.Asset.Decimals)
	self := s.signer.Address()

	var tx *types.Transaction
	switch intent.Kind {
	case domain.ActionApprove:
		token, ok := s.tokens[assetAddr.Hex()]
		if !ok {
			return Submission{}, fmt.Errorf("txflow: unsupported asset %s", intent.Asset.Symbol)
		}
		// Always unlimited: one approval per asset instead of one per spend.
		tx, err = token.Approve(opts, s.pool.Address(), chain.MaxUint256)

	case domain.ActionSupply:
		tx, err = s.pool.Supply(opts, assetAddr, rawAmount, self)

	case domain.ActionWithdraw:
		tx, err = s.pool.Withdraw(opts, assetAddr, rawAmount, self)

	case domain.ActionBorrow:
		tx, err = s.pool.Borrow(opts, assetAddr, rawAmount, self)

	case domain.ActionRepay:
		tx, err = s.pool.Repay(opts, assetAddr, rawAmount, self)

	case domain.ActionLiquidate:
		borrower := common.HexToAddress(intent.Borrower)
		tx, err = s.pool.LiquidationCall(opts, assetAddr, assetAddr, borrower, rawAmount)

	case domain.ActionSetCollateral:
		tx, err = s.pool.SetUserUseReserveAsCollateral(opts, assetAddr, intent.UseAsCollateral)

	case domain.ActionRegister:
		tx, err = s.registry.Register(opts, intent.Handle, intent.RegistrationURI)

	default:
		return Submission{}, fmt.Errorf("txflow: unsupported action %q", intent.Kind)
	}

	if err != nil {
		return Submission{}, fmt.Errorf("%w: %s: %v", domain.ErrSubmissionFailed, intent.Kind, err)
	}

	return Submission{
		Hash: tx.Hash().Hex(),
		Done: s.watcher.Await(ctx, tx),
	}, nil
}

// Compile-time interface check.
var _ Submitter = (*ChainSubmitter)(nil)
