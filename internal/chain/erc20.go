package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

const erc20ABIJSON = `[
  {"name":"approve","type":"function","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
  {"name":"allowance","type":"function","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"name":"balanceOf","type":"function","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"name":"decimals","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]}
]`

var erc20ABI = mustABI(erc20ABIJSON)

// ERC20 is a bound fungible-token contract.
type ERC20 struct {
	addr     common.Address
	contract *bind.BoundContract
}

// NewERC20 binds the token at addr to the client.
func NewERC20(addr common.Address, client *Client) *ERC20 {
	eth := client.Eth()
	return &ERC20{
		addr:     addr,
		contract: bind.NewBoundContract(addr, erc20ABI, eth, eth, eth),
	}
}

// Address returns the token's contract address.
func (t *ERC20) Address() common.Address {
	return t.addr
}

// BalanceOf reads the raw balance of account.
func (t *ERC20) BalanceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	var out []interface{}
	err := t.contract.Call(&bind.CallOpts{Context: ctx}, &out, "balanceOf", account)
	if err != nil {
		return nil, fmt.Errorf("chain: balanceOf(%s): %w", account.Hex(), err)
	}
	return out[0].(*big.Int), nil
}

// Allowance reads the raw amount owner has authorized spender to transfer.
func (t *ERC20) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	var out []interface{}
	err := t.contract.Call(&bind.CallOpts{Context: ctx}, &out, "allowance", owner, spender)
	if err != nil {
		return nil, fmt.Errorf("chain: allowance(%s, %s): %w", owner.Hex(), spender.Hex(), err)
	}
	return out[0].(*big.Int), nil
}

// Decimals reads the token's decimal count.
func (t *ERC20) Decimals(ctx context.Context) (uint8, error) {
	var out []interface{}
	err := t.contract.Call(&bind.CallOpts{Context: ctx}, &out, "decimals")
	if err != nil {
		return 0, fmt.Errorf("chain: decimals(%s): %w", t.addr.Hex(), err)
	}
	return out[0].(uint8), nil
}

// Approve authorizes spender to transfer amount on the caller's behalf.
func (t *ERC20) Approve(opts *bind.TransactOpts, spender common.Address, amount *big.Int) (*types.Transaction, error) {
	return t.contract.Transact(opts, "approve", spender, amount)
}
