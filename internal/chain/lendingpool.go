package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Parameters fixed by the client for every call, mirroring the protocol's
// documented defaults: variable-rate borrowing, no referral program, and
// liquidators always receive the underlying token.
const (
	referralCode = uint16(0)
)

// variableRateMode selects variable-rate accounting on borrow/repay.
var variableRateMode = big.NewInt(2)

const lendingPoolABIJSON = `[
  {"name":"supply","type":"function","stateMutability":"nonpayable","inputs":[{"name":"asset","type":"address"},{"name":"amount","type":"uint256"},{"name":"onBehalfOf","type":"address"},{"name":"referralCode","type":"uint16"}],"outputs":[]},
  {"name":"withdraw","type":"function","stateMutability":"nonpayable","inputs":[{"name":"asset","type":"address"},{"name":"amount","type":"uint256"},{"name":"to","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"name":"borrow","type":"function","stateMutability":"nonpayable","inputs":[{"name":"asset","type":"address"},{"name":"amount","type":"uint256"},{"name":"interestRateMode","type":"uint256"},{"name":"referralCode","type":"uint16"},{"name":"onBehalfOf","type":"address"}],"outputs":[]},
  {"name":"repay","type":"function","stateMutability":"nonpayable","inputs":[{"name":"asset","type":"address"},{"name":"amount","type":"uint256"},{"name":"interestRateMode","type":"uint256"},{"name":"onBehalfOf","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"name":"getUserAccountData","type":"function","stateMutability":"view","inputs":[{"name":"user","type":"address"}],"outputs":[{"name":"totalCollateralBase","type":"uint256"},{"name":"totalDebtBase","type":"uint256"},{"name":"availableBorrowsBase","type":"uint256"},{"name":"currentLiquidationThreshold","type":"uint256"},{"name":"ltv","type":"uint256"},{"name":"healthFactor","type":"uint256"}]},
  {"name":"setUserUseReserveAsCollateral","type":"function","stateMutability":"nonpayable","inputs":[{"name":"asset","type":"address"},{"name":"useAsCollateral","type":"bool"}],"outputs":[]},
  {"name":"liquidationCall","type":"function","stateMutability":"nonpayable","inputs":[{"name":"collateralAsset","type":"address"},{"name":"debtAsset","type":"address"},{"name":"user","type":"address"},{"name":"debtToCover","type":"uint256"},{"name":"receiveAToken","type":"bool"}],"outputs":[]}
]`

var lendingPoolABI = mustABI(lendingPoolABIJSON)

func mustABI(json string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(json))
	if err != nil {
		panic(err)
	}
	return parsed
}

// AccountData is the raw getUserAccountData result. Collateral, debt and
// available borrows are base-currency units; the threshold and LTV are
// percent scaled by 100; the health factor has 18 decimals.
type AccountData struct {
	TotalCollateralBase         *big.Int
	TotalDebtBase               *big.Int
	AvailableBorrowsBase        *big.Int
	CurrentLiquidationThreshold *big.Int
	LTV                         *big.Int
	HealthFactor                *big.Int
}

// LendingPool is a bound Halo lending pool contract.
type LendingPool struct {
	addr     common.Address
	contract *bind.BoundContract
}

// NewLendingPool binds the pool at addr to the client.
func NewLendingPool(addr common.Address, client *Client) *LendingPool {
	eth := client.Eth()
	return &LendingPool{
		addr:     addr,
		contract: bind.NewBoundContract(addr, lendingPoolABI, eth, eth, eth),
	}
}

// Address returns the pool's contract address.
func (p *LendingPool) Address() common.Address {
	return p.addr
}

// GetUserAccountData reads the account's aggregate position.
func (p *LendingPool) GetUserAccountData(ctx context.Context, user common.Address) (AccountData, error) {
	var out []interface{}
	err := p.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getUserAccountData", user)
	if err != nil {
		return AccountData{}, fmt.Errorf("chain: getUserAccountData(%s): %w", user.Hex(), err)
	}
	return AccountData{
		TotalCollateralBase:         out[0].(*big.Int),
		TotalDebtBase:               out[1].(*big.Int),
		AvailableBorrowsBase:        out[2].(*big.Int),
		CurrentLiquidationThreshold: out[3].(*big.Int),
		LTV:                         out[4].(*big.Int),
		HealthFactor:                out[5].(*big.Int),
	}, nil
}

// Supply deposits amount of asset for onBehalfOf.
func (p *LendingPool) Supply(opts *bind.TransactOpts, asset common.Address, amount *big.Int, onBehalfOf common.Address) (*types.Transaction, error) {
	return p.contract.Transact(opts, "supply", asset, amount, onBehalfOf, referralCode)
}

// Withdraw removes amount of asset to the given recipient.
func (p *LendingPool) Withdraw(opts *bind.TransactOpts, asset common.Address, amount *big.Int, to common.Address) (*types.Transaction, error) {
	return p.contract.Transact(opts, "withdraw", asset, amount, to)
}

// Borrow draws amount of asset against onBehalfOf's collateral at the
// variable rate.
func (p *LendingPool) Borrow(opts *bind.TransactOpts, asset common.Address, amount *big.Int, onBehalfOf common.Address) (*types.Transaction, error) {
	return p.contract.Transact(opts, "borrow", asset, amount, variableRateMode, referralCode, onBehalfOf)
}

// Repay pays down amount of onBehalfOf's variable-rate debt in asset.
func (p *LendingPool) Repay(opts *bind.TransactOpts, asset common.Address, amount *big.Int, onBehalfOf common.Address) (*types.Transaction, error) {
	return p.contract.Transact(opts, "repay", asset, amount, variableRateMode, onBehalfOf)
}

// SetUserUseReserveAsCollateral toggles whether asset counts as collateral.
func (p *LendingPool) SetUserUseReserveAsCollateral(opts *bind.TransactOpts, asset common.Address, use bool) (*types.Transaction, error) {
	return p.contract.Transact(opts, "setUserUseReserveAsCollateral", asset, use)
}

// LiquidationCall covers debtToCover of user's debt in debtAsset, seizing
// collateralAsset. The liquidator always receives the underlying token.
func (p *LendingPool) LiquidationCall(opts *bind.TransactOpts, collateralAsset, debtAsset, user common.Address, debtToCover *big.Int) (*types.Transaction, error) {
	return p.contract.Transact(opts, "liquidationCall", collateralAsset, debtAsset, user, debtToCover, false)
}
