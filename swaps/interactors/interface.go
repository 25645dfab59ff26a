package interactors

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
)

// EthClient defines the RPC queries used by the interactor, as implemented by the go-ethereum client
type EthClient interface {
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
}
