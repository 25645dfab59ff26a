package mock

import (
	"context"
	"errors"
	"math/big"

	"github.com/klever-io/klv-swaps-go/swaps"
)

var errNotImplemented = errors.New("not implemented")

// ChainInteractorStub -
type ChainInteractorStub struct {
	EstimateGasCalled func(ctx context.Context, tx swaps.TxParams) (uint64, error)
	AllowanceCalled   func(ctx context.Context, token string, owner string, spender string) (*big.Int, error)
}

// EstimateGas -
func (stub *ChainInteractorStub) EstimateGas(ctx context.Context, tx swaps.TxParams) (uint64, error) {
	if stub.EstimateGasCalled != nil {
		return stub.EstimateGasCalled(ctx, tx)
	}

	return 0, errNotImplemented
}

// Allowance -
func (stub *ChainInteractorStub) Allowance(ctx context.Context, token string, owner string, spender string) (*big.Int, error) {
	if stub.AllowanceCalled != nil {
		return stub.AllowanceCalled(ctx, token, owner, spender)
	}

	return big.NewInt(0), nil
}

// IsInterfaceNil -
func (stub *ChainInteractorStub) IsInterfaceNil() bool {
	return stub == nil
}
