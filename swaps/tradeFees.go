package swaps

import (
	"fmt"
	"math/big"

	gas "github.com/klever-io/klv-swaps-go/swaps/gasStation"
	"github.com/klever-io/klv-swaps-go/swaps/stats"
	"github.com/shopspring/decimal"
)

const feeDivisionPrecision = 36

var hundred = decimal.NewFromInt(100)

type argsTradeFees struct {
	gasPrice             *big.Int
	sourceToken          string
	destinationToken     string
	destinationDecimals  uint8
	destinationTokenRate *decimal.Decimal
}

// computeTradeFees returns the ETH denominated costs and value of the trade. When the destination token rate is
// unknown the destination amount is used for sorting as is and the overall value ignores the costs
func computeTradeFees(trade *CanonicalTrade, args argsTradeFees) (stats.TradeFees, error) {
	tradeGasLimit, err := tradeGasLimitForCalculation(trade)
	if err != nil {
		return stats.TradeFees{}, err
	}

	totalGasLimit := new(big.Int).Set(tradeGasLimit)
	if trade.ApprovalNeeded != nil && len(trade.ApprovalNeeded.Gas) > 0 {
		approvalGas, errParse := gas.ParseGasValue(trade.ApprovalNeeded.Gas)
		if errParse != nil {
			return stats.TradeFees{}, errParse
		}
		totalGasLimit.Add(totalGasLimit, approvalGas)
	}

	tradeValue, err := parseQuantity(trade.Trade.Value)
	if err != nil {
		return stats.TradeFees{}, err
	}

	totalWeiCost := new(big.Int).Mul(totalGasLimit, args.gasPrice)
	totalWeiCost.Add(totalWeiCost, tradeValue)
	ethFee := weiToEth(totalWeiCost)

	if IsETHAddress(args.sourceToken) {
		sourceAmount, errParse := parseQuantity(trade.SourceAmount)
		if errParse != nil {
			return stats.TradeFees{}, fmt.Errorf("%w for the source amount", errParse)
		}
		ethFee = ethFee.Sub(weiToEth(sourceAmount))
	}

	destinationAmount, err := parseQuantity(trade.DestinationAmount)
	if err != nil {
		return stats.TradeFees{}, fmt.Errorf("%w for the destination amount", err)
	}

	decimals := args.destinationDecimals
	if IsETHAddress(args.destinationToken) {
		decimals = ethDecimals
	}
	adjustedDestinationAmount := decimal.NewFromBigInt(destinationAmount, -int32(decimals))

	tokenPercentageOfPreFeeAmount := hundred.Sub(trade.Fee).DivRound(hundred, feeDivisionPrecision)
	amountBeforeServiceFee := adjustedDestinationAmount.DivRound(tokenPercentageOfPreFeeAmount, feeDivisionPrecision)
	serviceFeeInTokens := amountBeforeServiceFee.Sub(adjustedDestinationAmount)

	conversionRate, rateIsKnown := destinationConversionRate(args)
	ethValueOfTokens := adjustedDestinationAmount.Mul(conversionRate)

	overallValueOfQuote := ethValueOfTokens
	if rateIsKnown {
		overallValueOfQuote = ethValueOfTokens.Sub(ethFee)
	}

	return stats.TradeFees{
		OverallValueOfQuote: overallValueOfQuote,
		EthFee:              ethFee,
		ServiceFeeInEth:     serviceFeeInTokens.Mul(conversionRate),
		EthValueOfTokens:    ethValueOfTokens,
	}, nil
}

// tradeGasLimitForCalculation prefers the node estimation, then the aggregator average gas, then the gas ceiling
func tradeGasLimitForCalculation(trade *CanonicalTrade) (*big.Int, error) {
	if len(trade.GasEstimate) > 0 {
		return gas.ParseGasValue(trade.GasEstimate)
	}
	if trade.AverageGas > 0 {
		return new(big.Int).SetUint64(trade.AverageGas), nil
	}

	return big.NewInt(gas.MaxGasLimit), nil
}

func destinationConversionRate(args argsTradeFees) (decimal.Decimal, bool) {
	if IsETHAddress(args.destinationToken) {
		return decimal.NewFromInt(1), true
	}
	if args.destinationTokenRate != nil {
		return *args.destinationTokenRate, true
	}

	return decimal.NewFromInt(1), false
}

func weiToEth(wei *big.Int) decimal.Decimal {
	return decimal.NewFromBigInt(wei, -ethDecimals)
}

// computeSavings compares the top quote against the fee median of all the quotes
func computeSavings(top stats.TradeFees, all []stats.TradeFees) (*Savings, error) {
	median, err := stats.MedianEthValueQuote(all)
	if err != nil {
		return nil, err
	}

	performance := top.EthValueOfTokens.Sub(median.EthValueOfTokens)
	fee := median.EthFee.Sub(top.EthFee)

	return &Savings{
		Performance:      performance,
		Fee:              fee,
		ServiceFee:       top.ServiceFeeInEth,
		Total:            performance.Add(fee).Sub(top.ServiceFeeInEth),
		MedianServiceFee: median.ServiceFeeInEth,
	}, nil
}
