package notifees

import (
	"context"

	"github.com/klever-io/klv-swaps-go/swaps"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("klv-swaps-go/swaps/notifees")

type logNotifee struct {
	log logger.Logger
}

// NewLogNotifee creates a notifee that writes every accepted quotes update in the provided logger
func NewLogNotifee(log logger.Logger) *logNotifee {
	return &logNotifee{
		log: log,
	}
}

// QuotesChanged logs the top quote of the update
func (ln *logNotifee) QuotesChanged(_ context.Context, args swaps.ArgsQuotesChanged) error {
	top, found := args.Quotes[args.TopAggregatorID]
	if !found {
		ln.log.Info("quotes changed", "sequence", args.Sequence, "num quotes", len(args.Quotes))
		return nil
	}

	overallValue := ""
	if top.Fees != nil {
		overallValue = top.Fees.OverallValueOfQuote.String()
	}

	ln.log.Info("quotes changed", "sequence", args.Sequence, "num quotes", len(args.Quotes),
		"top aggregator", args.TopAggregatorID, "destination amount", top.DestinationAmount,
		"overall value", overallValue, "gas estimate", top.GasEstimateWithRefund)

	return nil
}

// IsInterfaceNil returns true if there is no value under the interface
func (ln *logNotifee) IsInterfaceNil() bool {
	return ln == nil
}
