package mock

import (
	"context"

	"github.com/klever-io/klv-swaps-go/swaps"
)

// QuotesNotifeeStub -
type QuotesNotifeeStub struct {
	QuotesChangedCalled func(ctx context.Context, args swaps.ArgsQuotesChanged) error
}

// QuotesChanged -
func (stub *QuotesNotifeeStub) QuotesChanged(ctx context.Context, args swaps.ArgsQuotesChanged) error {
	if stub.QuotesChangedCalled != nil {
		return stub.QuotesChangedCalled(ctx, args)
	}

	return nil
}

// IsInterfaceNil -
func (stub *QuotesNotifeeStub) IsInterfaceNil() bool {
	return stub == nil
}
