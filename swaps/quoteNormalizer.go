package swaps

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/shopspring/decimal"
)

var (
	errNegativeQuantity = errors.New("negative quantity")
	errInvalidQuantity  = errors.New("invalid quantity")
	maxFeePercentage    = decimal.NewFromInt(100)
)

// QuoteOutcome tags the result of normalizing one aggregator response
type QuoteOutcome int

const (
	// QuoteSucceeded means the aggregator offered a usable trade
	QuoteSucceeded QuoteOutcome = iota
	// QuoteDeclined means the aggregator did not offer a trade
	QuoteDeclined
	// QuoteFailed means the aggregator reported an error or returned an unusable trade
	QuoteFailed
)

// String returns the outcome name
func (outcome QuoteOutcome) String() string {
	switch outcome {
	case QuoteSucceeded:
		return "succeeded"
	case QuoteDeclined:
		return "declined"
	default:
		return "failed"
	}
}

// NormalizedQuote is the tagged result of NormalizeQuote. Trade is set only for QuoteSucceeded, Reason only
// for QuoteFailed
type NormalizedQuote struct {
	Outcome    QuoteOutcome
	Aggregator string
	Trade      *CanonicalTrade
	Reason     string
}

// NormalizeQuote converts one aggregator response into its canonical trade
func NormalizeQuote(raw *RawAggregatorQuote, slippage decimal.Decimal) NormalizedQuote {
	if raw == nil {
		return NormalizedQuote{Outcome: QuoteDeclined}
	}

	result := NormalizedQuote{Aggregator: raw.Aggregator}
	errorMessage := raw.ErrorMessage()
	if len(errorMessage) > 0 {
		result.Outcome = QuoteFailed
		result.Reason = errorMessage
		return result
	}
	if raw.Trade == nil {
		result.Outcome = QuoteDeclined
		return result
	}

	trade, err := newCanonicalTrade(raw, slippage)
	if err != nil {
		result.Outcome = QuoteFailed
		result.Reason = err.Error()
		return result
	}

	result.Outcome = QuoteSucceeded
	result.Trade = trade

	return result
}

// NormalizeQuotes normalizes all the responses and keeps only the aggregators that offered a usable trade
func NormalizeQuotes(raws []*RawAggregatorQuote, slippage decimal.Decimal) QuoteMap {
	quotes := make(QuoteMap, len(raws))
	for _, raw := range raws {
		normalized := NormalizeQuote(raw, slippage)
		switch normalized.Outcome {
		case QuoteSucceeded:
			quotes[normalized.Aggregator] = normalized.Trade
		case QuoteFailed:
			log.Debug("aggregator quote failed", "aggregator", normalized.Aggregator, "reason", normalized.Reason)
		default:
			log.Trace("aggregator declined to quote", "aggregator", normalized.Aggregator)
		}
	}

	return quotes
}

func newCanonicalTrade(raw *RawAggregatorQuote, slippage decimal.Decimal) (*CanonicalTrade, error) {
	if len(raw.Aggregator) == 0 {
		return nil, fmt.Errorf("%w: empty aggregator", errInvalidQuantity)
	}
	if raw.Fee.IsNegative() || raw.Fee.GreaterThanOrEqual(maxFeePercentage) {
		return nil, fmt.Errorf("%w: fee %s", errInvalidQuantity, raw.Fee.String())
	}

	_, err := parseQuantity(raw.DestinationAmount)
	if err != nil {
		return nil, fmt.Errorf("%w for the destination amount", err)
	}

	value, err := encodeQuantity(raw.Trade.Value)
	if err != nil {
		return nil, fmt.Errorf("%w for the trade value", err)
	}

	trade := &CanonicalTrade{
		Trade: TxParams{
			From:  raw.Trade.From,
			To:    raw.Trade.To,
			Data:  raw.Trade.Data,
			Value: value,
			Gas:   hexutil.EncodeUint64(raw.MaxGas),
		},
		Aggregator:        raw.Aggregator,
		AggType:           raw.AggType,
		SourceToken:       raw.SourceToken,
		DestinationToken:  raw.DestinationToken,
		SourceAmount:      raw.SourceAmount,
		DestinationAmount: raw.DestinationAmount,
		Fee:               raw.Fee,
		GasMultiplier:     raw.GasMultiplier,
		MaxGas:            raw.MaxGas,
		AverageGas:        raw.AverageGas,
		EstimatedRefund:   raw.EstimatedRefund,
		FetchTime:         raw.FetchTime,
		Slippage:          slippage,
	}

	if raw.ApprovalNeeded != nil {
		trade.ApprovalNeeded, err = newApprovalTxParams(raw.ApprovalNeeded)
		if err != nil {
			return nil, err
		}
	}

	return trade, nil
}

func newApprovalTxParams(approval *RawTransaction) (*TxParams, error) {
	value, err := encodeQuantity(approval.Value)
	if err != nil {
		return nil, fmt.Errorf("%w for the approval value", err)
	}

	txParams := &TxParams{
		From:  approval.From,
		To:    approval.To,
		Data:  approval.Data,
		Value: value,
	}
	if len(approval.Gas) > 0 {
		txParams.Gas, err = encodeQuantity(approval.Gas)
		if err != nil {
			return nil, fmt.Errorf("%w for the approval gas", err)
		}
	}

	return txParams, nil
}

// parseQuantity parses a decimal or 0x prefixed hex integer, an empty string being parsed as zero
func parseQuantity(value string) (*big.Int, error) {
	parsed, ok := math.ParseBig256(value)
	if !ok {
		return nil, fmt.Errorf("%w %q", errInvalidQuantity, value)
	}
	if parsed.Sign() < 0 {
		return nil, fmt.Errorf("%w %q", errNegativeQuantity, value)
	}

	return parsed, nil
}

func encodeQuantity(value string) (string, error) {
	parsed, err := parseQuantity(value)
	if err != nil {
		return "", err
	}

	return hexutil.EncodeBig(parsed), nil
}
