package swaps

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createRawQuote(aggregator string) *RawAggregatorQuote {
	return &RawAggregatorQuote{
		Trade: &RawTransaction{
			To:    "0x881d40237659c251811cec9c364ef91dc08d300c",
			From:  "0xb0da5965d43369968574d399dbe6374683773a65",
			Value: "10000000000000000",
			Data:  "0x5f575529",
		},
		SourceAmount:      "10000000000000000",
		DestinationAmount: "2000000000000000000",
		SourceToken:       ETHSwapsTokenAddress,
		DestinationToken:  "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48",
		Aggregator:        aggregator,
		AggType:           "AGG",
		Fee:               decimal.RequireFromString("0.875"),
		GasMultiplier:     decimal.RequireFromString("1.5"),
		MaxGas:            1000000,
		AverageGas:        300000,
		EstimatedRefund:   40000,
		FetchTime:         553,
	}
}

func TestNormalizeQuote(t *testing.T) {
	t.Parallel()

	slippage := decimal.NewFromInt(3)

	t.Run("nil quote should be declined", func(t *testing.T) {
		t.Parallel()

		result := NormalizeQuote(nil, slippage)
		assert.Equal(t, QuoteDeclined, result.Outcome)
		assert.Nil(t, result.Trade)
	})
	t.Run("missing trade should be declined", func(t *testing.T) {
		t.Parallel()

		raw := createRawQuote("paraswap")
		raw.Trade = nil

		result := NormalizeQuote(raw, slippage)
		assert.Equal(t, QuoteDeclined, result.Outcome)
		assert.Equal(t, "paraswap", result.Aggregator)
		assert.Nil(t, result.Trade)
	})
	t.Run("error string should fail", func(t *testing.T) {
		t.Parallel()

		raw := createRawQuote("paraswap")
		raw.Error = json.RawMessage(`"insufficient liquidity"`)

		result := NormalizeQuote(raw, slippage)
		assert.Equal(t, QuoteFailed, result.Outcome)
		assert.Equal(t, "insufficient liquidity", result.Reason)
		assert.Nil(t, result.Trade)
	})
	t.Run("error object should fail", func(t *testing.T) {
		t.Parallel()

		raw := createRawQuote("paraswap")
		raw.Error = json.RawMessage(`{"code":500}`)

		result := NormalizeQuote(raw, slippage)
		assert.Equal(t, QuoteFailed, result.Outcome)
		assert.Equal(t, `{"code":500}`, result.Reason)
	})
	t.Run("null error should be ignored", func(t *testing.T) {
		t.Parallel()

		raw := createRawQuote("paraswap")
		raw.Error = json.RawMessage(`null`)

		result := NormalizeQuote(raw, slippage)
		assert.Equal(t, QuoteSucceeded, result.Outcome)
	})
	t.Run("malformed value should fail", func(t *testing.T) {
		t.Parallel()

		raw := createRawQuote("paraswap")
		raw.Trade.Value = "1.5"

		result := NormalizeQuote(raw, slippage)
		assert.Equal(t, QuoteFailed, result.Outcome)
		assert.Contains(t, result.Reason, "trade value")
	})
	t.Run("fee out of range should fail", func(t *testing.T) {
		t.Parallel()

		raw := createRawQuote("paraswap")
		raw.Fee = decimal.NewFromInt(100)

		result := NormalizeQuote(raw, slippage)
		assert.Equal(t, QuoteFailed, result.Outcome)
	})
	t.Run("trade without approval should work", func(t *testing.T) {
		t.Parallel()

		raw := createRawQuote("paraswap")
		result := NormalizeQuote(raw, slippage)
		require.Equal(t, QuoteSucceeded, result.Outcome)

		trade := result.Trade
		assert.Equal(t, "0x2386f26fc10000", trade.Trade.Value)
		assert.Equal(t, "0xf4240", trade.Trade.Gas)
		assert.Equal(t, raw.Trade.To, trade.Trade.To)
		assert.Equal(t, raw.Trade.From, trade.Trade.From)
		assert.Equal(t, raw.Trade.Data, trade.Trade.Data)
		assert.Nil(t, trade.ApprovalNeeded)
		assert.Equal(t, "paraswap", trade.Aggregator)
		assert.True(t, trade.Slippage.Equal(slippage))
		assert.True(t, trade.Fee.Equal(raw.Fee))
		assert.Equal(t, raw.EstimatedRefund, trade.EstimatedRefund)
		assert.Equal(t, raw.AverageGas, trade.AverageGas)
	})
	t.Run("trade with approval should encode both transactions", func(t *testing.T) {
		t.Parallel()

		raw := createRawQuote("oneInch")
		raw.Trade.Value = "115792089237316195423570985008687907853269984665640564039457584007913129639935"
		raw.ApprovalNeeded = &RawTransaction{
			To:    "0x6b175474e89094c44da98b954eedeac495271d0f",
			From:  raw.Trade.From,
			Value: "0",
			Data:  "0x095ea7b3",
		}

		result := NormalizeQuote(raw, slippage)
		require.Equal(t, QuoteSucceeded, result.Outcome)
		require.NotNil(t, result.Trade.ApprovalNeeded)

		decoded, err := hexutil.DecodeBig(result.Trade.Trade.Value)
		require.Nil(t, err)
		expected, _ := new(big.Int).SetString(raw.Trade.Value, 10)
		assert.Equal(t, 0, expected.Cmp(decoded))

		approval := result.Trade.ApprovalNeeded
		assert.Equal(t, "0x0", approval.Value)
		assert.Equal(t, raw.ApprovalNeeded.Data, approval.Data)
		assert.Equal(t, raw.ApprovalNeeded.To, approval.To)
		assert.Empty(t, approval.Gas)
	})
}

func TestNormalizeQuotes(t *testing.T) {
	t.Parallel()

	declined := createRawQuote("declined")
	declined.Trade = nil
	failed := createRawQuote("failed")
	failed.Error = json.RawMessage(`"timeout"`)

	quotes := NormalizeQuotes([]*RawAggregatorQuote{
		createRawQuote("paraswap"),
		declined,
		nil,
		failed,
		createRawQuote("oneInch"),
	}, decimal.NewFromInt(2))

	require.Equal(t, 2, len(quotes))
	assert.NotNil(t, quotes["paraswap"])
	assert.NotNil(t, quotes["oneInch"])
	assert.Nil(t, quotes["declined"])
	assert.Nil(t, quotes["failed"])
}
