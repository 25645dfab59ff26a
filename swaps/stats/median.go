package stats

import (
	"sort"

	"github.com/shopspring/decimal"
)

const meanDivisionPrecision = 36

var half = decimal.New(5, -1)

// TradeFees holds the ETH denominated values of one quote used when ranking quotes
type TradeFees struct {
	OverallValueOfQuote decimal.Decimal `json:"overallValueOfQuote"`
	EthFee              decimal.Decimal `json:"ethFee"`
	ServiceFeeInEth     decimal.Decimal `json:"serviceFeeInEth"`
	EthValueOfTokens    decimal.Decimal `json:"ethValueOfTokens"`
}

// Compare returns -1, 0 or +1 depending on whether a is less than, equal to or greater than b
func Compare(a, b decimal.Decimal) int {
	return a.Cmp(b)
}

// Median returns the median of the provided sample. For an even sized sample the mean of the two
// middle values is returned
func Median(values []decimal.Decimal) (decimal.Decimal, error) {
	if len(values) == 0 {
		return decimal.Zero, ErrInvalidInput
	}

	sorted := make([]decimal.Decimal, len(values))
	copy(sorted, values)
	sort.SliceStable(sorted, func(i, j int) bool {
		return Compare(sorted[i], sorted[j]) < 0
	})

	if len(sorted)%2 == 1 {
		return sorted[(len(sorted)-1)/2], nil
	}

	upperIndex := len(sorted) / 2

	return sorted[upperIndex].Add(sorted[upperIndex-1]).Mul(half), nil
}

// MedianEthValueQuote returns the fee breakdown of the quote holding the median overall value.
// Quotes sharing the exact middle value are averaged together so the result does not depend on the
// input order
func MedianEthValueQuote(quotes []TradeFees) (TradeFees, error) {
	if len(quotes) == 0 {
		return TradeFees{}, ErrInvalidInput
	}

	sorted := make([]TradeFees, len(quotes))
	copy(sorted, quotes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return Compare(sorted[i].OverallValueOfQuote, sorted[j].OverallValueOfQuote) < 0
	})

	if len(sorted)%2 == 1 {
		medianValue := sorted[(len(sorted)-1)/2].OverallValueOfQuote
		result := meanOfFeesAndValue(matchingOverallValue(sorted, medianValue))
		result.OverallValueOfQuote = medianValue

		return result, nil
	}

	upperIndex := len(sorted) / 2
	upperValue := sorted[upperIndex].OverallValueOfQuote
	lowerValue := sorted[upperIndex-1].OverallValueOfQuote

	upper := meanOfFeesAndValue(matchingOverallValue(sorted, upperValue))
	lower := meanOfFeesAndValue(matchingOverallValue(sorted, lowerValue))

	return TradeFees{
		OverallValueOfQuote: upperValue.Add(lowerValue).Mul(half),
		EthFee:              upper.EthFee.Add(lower.EthFee).Mul(half),
		ServiceFeeInEth:     upper.ServiceFeeInEth.Add(lower.ServiceFeeInEth).Mul(half),
		EthValueOfTokens:    upper.EthValueOfTokens.Add(lower.EthValueOfTokens).Mul(half),
	}, nil
}

func matchingOverallValue(quotes []TradeFees, value decimal.Decimal) []TradeFees {
	matching := make([]TradeFees, 0, len(quotes))
	for _, quote := range quotes {
		if Compare(quote.OverallValueOfQuote, value) == 0 {
			matching = append(matching, quote)
		}
	}

	return matching
}

func meanOfFeesAndValue(quotes []TradeFees) TradeFees {
	sums := TradeFees{}
	for _, quote := range quotes {
		sums.EthFee = sums.EthFee.Add(quote.EthFee)
		sums.ServiceFeeInEth = sums.ServiceFeeInEth.Add(quote.ServiceFeeInEth)
		sums.EthValueOfTokens = sums.EthValueOfTokens.Add(quote.EthValueOfTokens)
	}

	count := decimal.NewFromInt(int64(len(quotes)))

	return TradeFees{
		EthFee:           mean(sums.EthFee, count),
		ServiceFeeInEth:  mean(sums.ServiceFeeInEth, count),
		EthValueOfTokens: mean(sums.EthValueOfTokens, count),
	}
}

func mean(sum decimal.Decimal, count decimal.Decimal) decimal.Decimal {
	if count.Equal(decimal.NewFromInt(1)) {
		return sum
	}

	return sum.DivRound(count, meanDivisionPrecision)
}
