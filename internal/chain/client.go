// Package chain wraps all JSON-RPC access to the external contracts: the
// Halo lending pool, ERC-20 tokens, and the agent identity registry. Every
// amount crossing this boundary is a raw smallest-unit integer; scaling to
// decimals happens here and nowhere else.
package chain

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/ethclient"
)

// Client wraps an ethclient.Client and verifies it is connected to the
// expected network.
type Client struct {
	eth     *ethclient.Client
	chainID int64
}

// Dial connects to the JSON-RPC endpoint at rpcURL and verifies the remote
// chain ID matches wantChainID.
func Dial(ctx context.Context, rpcURL string, wantChainID int64) (*Client, error) {
	eth, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("chain: dial %s: %w", rpcURL, err)
	}

	id, err := eth.ChainID(ctx)
	if err != nil {
		eth.Close()
		return nil, fmt.Errorf("chain: query chain id: %w", err)
	}
	if id.Int64() != wantChainID {
		eth.Close()
		return nil, fmt.Errorf("chain: endpoint is chain %d, expected %d", id.Int64(), wantChainID)
	}

	return &Client{eth: eth, chainID: wantChainID}, nil
}

// Eth returns the underlying ethclient for contract binding.
func (c *Client) Eth() *ethclient.Client {
	return c.eth
}

// ChainID returns the verified chain ID.
func (c *Client) ChainID() int64 {
	return c.chainID
}

// Close releases the underlying RPC connection.
func (c *Client) Close() {
	c.eth.Close()
}
