package gas

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
)

// MaxGasLimit is higher than the maximum gas cost observed on any aggregator
const MaxGasLimit = 2500000

// DefaultERC20ApproveGas is the gas limit used for an approval when the node estimation fails
const DefaultERC20ApproveGas = "0x1d4c0"

// CalculateGasEstimateWithRefund returns the smaller value between maxGas minus the estimated refund and the
// estimated gas. A nil or zero maxGas falls back to MaxGasLimit, a nil refund counts as zero and an empty estimated
// gas counts as zero. The estimated gas can be either a decimal or a 0x prefixed hex string
func CalculateGasEstimateWithRefund(maxGas *big.Int, estimatedRefund *big.Int, estimatedGas string) (*big.Int, error) {
	maxGasMinusRefund := big.NewInt(MaxGasLimit)
	if maxGas != nil && maxGas.Sign() != 0 {
		maxGasMinusRefund.Set(maxGas)
	}
	if estimatedRefund != nil {
		maxGasMinusRefund.Sub(maxGasMinusRefund, estimatedRefund)
	}

	estimatedGasValue, err := ParseGasValue(estimatedGas)
	if err != nil {
		return nil, err
	}

	if maxGasMinusRefund.Cmp(estimatedGasValue) < 0 {
		return maxGasMinusRefund, nil
	}

	return estimatedGasValue, nil
}

// ParseGasValue parses a decimal or a 0x prefixed hex gas value. An empty string is parsed as zero
func ParseGasValue(value string) (*big.Int, error) {
	parsed, ok := math.ParseBig256(value)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidGasValue, value)
	}

	return parsed, nil
}
