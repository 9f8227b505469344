package chain

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ErrRegistryNotDeployed is returned when a registry operation is attempted
// against the zero-address sentinel.
var ErrRegistryNotDeployed = errors.New("chain: identity registry not deployed")

const registryABIJSON = `[
  {"name":"register","type":"function","stateMutability":"nonpayable","inputs":[{"name":"handle","type":"string"},{"name":"registrationURI","type":"string"}],"outputs":[{"name":"tokenId","type":"uint256"}]},
  {"name":"isRegistered","type":"function","stateMutability":"view","inputs":[{"name":"agent","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
  {"name":"getHandle","type":"function","stateMutability":"view","inputs":[{"name":"agent","type":"address"}],"outputs":[{"name":"","type":"string"}]}
]`

var registryABI = mustABI(registryABIJSON)

// IdentityRegistry is a bound agent identity registry contract. The
// zero address is the documented sentinel for "registry not deployed on
// this network"; Available reports it.
type IdentityRegistry struct {
	addr     common.Address
	contract *bind.BoundContract
}

// NewIdentityRegistry binds the registry at addr to the client. A zero addr
// yields an unavailable registry whose reads must not be called.
func NewIdentityRegistry(addr common.Address, client *Client) *IdentityRegistry {
	r := &IdentityRegistry{addr: addr}
	if r.Available() {
		eth := client.Eth()
		r.contract = bind.NewBoundContract(addr, registryABI, eth, eth, eth)
	}
	return r
}

// Available reports whether the registry is deployed on the active network.
func (r *IdentityRegistry) Available() bool {
	return r.addr != (common.Address{})
}

// Address returns the registry's contract address.
func (r *IdentityRegistry) Address() common.Address {
	return r.addr
}

// IsRegistered reads whether agent has a verified identity.
func (r *IdentityRegistry) IsRegistered(ctx context.Context, agent common.Address) (bool, error) {
	if !r.Available() {
		return false, ErrRegistryNotDeployed
	}
	var out []interface{}
	err := r.contract.Call(&bind.CallOpts{Context: ctx}, &out, "isRegistered", agent)
	if err != nil {
		return false, fmt.Errorf("chain: isRegistered(%s): %w", agent.Hex(), err)
	}
	return out[0].(bool), nil
}

// GetHandle reads agent's registered handle.
func (r *IdentityRegistry) GetHandle(ctx context.Context, agent common.Address) (string, error) {
	if !r.Available() {
		return "", ErrRegistryNotDeployed
	}
	var out []interface{}
	err := r.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getHandle", agent)
	if err != nil {
		return "", fmt.Errorf("chain: getHandle(%s): %w", agent.Hex(), err)
	}
	return out[0].(string), nil
}

// Register submits an identity registration for the signing account.
func (r *IdentityRegistry) Register(opts *bind.TransactOpts, handle, registrationURI string) (*types.Transaction, error) {
	if !r.Available() {
		return nil, ErrRegistryNotDeployed
	}
	return r.contract.Transact(opts, "register", handle, registrationURI)
}
