package mock

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
)

// EthClientStub -
type EthClientStub struct {
	EstimateGasCalled     func(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	CallContractCalled    func(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	SuggestGasPriceCalled func(ctx context.Context) (*big.Int, error)
}

// EstimateGas -
func (stub *EthClientStub) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	if stub.EstimateGasCalled != nil {
		return stub.EstimateGasCalled(ctx, msg)
	}

	return 0, errNotImplemented
}

// CallContract -
func (stub *EthClientStub) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	if stub.CallContractCalled != nil {
		return stub.CallContractCalled(ctx, msg, blockNumber)
	}

	return nil, errNotImplemented
}

// SuggestGasPrice -
func (stub *EthClientStub) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	if stub.SuggestGasPriceCalled != nil {
		return stub.SuggestGasPriceCalled(ctx)
	}

	return big.NewInt(0), nil
}
