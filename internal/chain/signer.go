package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// Signer holds the agent's secp256k1 key and produces transact options for
// bound contracts. All protocol actions are plain contract transactions, so
// a keyed transactor covers the whole write surface.
type Signer struct {
	key     *ecdsa.PrivateKey
	address common.Address
	chainID *big.Int
}

// NewSigner resolves a private key via LoadKey and binds it to the target
// chain ID.
func NewSigner(cfg KeyConfig, chainID int64) (*Signer, error) {
	keyHex, err := LoadKey(cfg)
	if err != nil {
		return nil, err
	}

	pk, err := ethcrypto.HexToECDSA(keyHex)
	if err != nil {
		return nil, fmt.Errorf("chain: invalid private key: %w", err)
	}

	return &Signer{
		key:     pk,
		address: ethcrypto.PubkeyToAddress(pk.PublicKey),
		chainID: big.NewInt(chainID),
	}, nil
}

// Address returns the account address derived from the signer's key.
func (s *Signer) Address() common.Address {
	return s.address
}

// TransactOpts builds transact options bound to ctx. Gas estimation and
// nonce management are left to the binding layer.
func (s *Signer) TransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(s.key, s.chainID)
	if err != nil {
		return nil, fmt.Errorf("chain: build transactor: %w", err)
	}
	opts.Context = ctx
	return opts, nil
}
