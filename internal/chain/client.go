// Package chain provides read-only access to the blockchain node: receipt
// lookups, contract calls, and decoding of the store contract's events.
package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Client is the subset of the RPC client the claim flow needs.
// *ethclient.Client satisfies it.
type Client interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	ChainID(ctx context.Context) (*big.Int, error)
}

// Dial connects to the RPC endpoint at url.
func Dial(ctx context.Context, url string) (*ethclient.Client, error) {
	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dialing RPC endpoint: %w", err)
	}
	return client, nil
}

// ContractName reads the human-readable name() of a contract. Returns an
// error when the contract does not expose name() or the call fails.
func ContractName(ctx context.Context, client Client, contract common.Address) (string, error) {
	data, err := erc721ABI.Pack("name")
	if err != nil {
		return "", fmt.Errorf("packing name() call: %w", err)
	}

	out, err := client.CallContract(ctx, ethereum.CallMsg{To: &contract, Data: data}, nil)
	if err != nil {
		return "", fmt.Errorf("calling name() on %s: %w", contract.Hex(), err)
	}

	results, err := erc721ABI.Unpack("name", out)
	if err != nil {
		return "", fmt.Errorf("decoding name() result: %w", err)
	}
	name, ok := results[0].(string)
	if !ok {
		return "", fmt.Errorf("unexpected name() result type %T", results[0])
	}
	return name, nil
}
