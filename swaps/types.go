package swaps

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/klever-io/klv-swaps-go/swaps/stats"
	"github.com/shopspring/decimal"
)

const (
	// ETHSwapsTokenAddress is the address used by the swaps API for the native currency
	ETHSwapsTokenAddress = "0x0000000000000000000000000000000000000000"
	// SwapsContractAddress is the default spender address of the swaps contract
	SwapsContractAddress = "0x881d40237659c251811cec9c364ef91dc08d300c"
	ethDecimals          = 18
)

// ETHSwapsToken is the native currency token as exposed in the tokens list
var ETHSwapsToken = Token{
	Symbol:   "ETH",
	Name:     "Ether",
	Address:  ETHSwapsTokenAddress,
	Decimals: ethDecimals,
}

// IsETHAddress returns true if the provided address is the native currency address
func IsETHAddress(address string) bool {
	return strings.EqualFold(address, ETHSwapsTokenAddress)
}

// Token is one entry of the swaps tokens list
type Token struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name,omitempty"`
	Decimals uint8  `json:"decimals"`
	IconURL  string `json:"iconUrl,omitempty"`
}

// Asset is one entry of the swaps top assets list
type Asset struct {
	Address string `json:"address"`
	Symbol  string `json:"symbol"`
}

// AggregatorMetadata holds the display information of an aggregator
type AggregatorMetadata struct {
	Color string `json:"color"`
	Title string `json:"title"`
	Icon  string `json:"icon"`
}

// RequestMetaData holds the token information attached to a swap request
type RequestMetaData struct {
	SourceTokenInfo      Token  `json:"sourceTokenInfo"`
	DestinationTokenInfo Token  `json:"destinationTokenInfo"`
	AccountBalance       string `json:"accountBalance"`
}

// SwapRequestParams describes one requested swap
type SwapRequestParams struct {
	Slippage         decimal.Decimal `json:"slippage"`
	SourceToken      string          `json:"sourceToken"`
	SourceAmount     string          `json:"sourceAmount"`
	DestinationToken string          `json:"destinationToken"`
	FromAddress      string          `json:"fromAddress"`
	ExchangeList     []string        `json:"exchangeList,omitempty"`
	MetaData         RequestMetaData `json:"metaData"`
}

// Validate checks that the request can be sent to the swaps API
func (params SwapRequestParams) Validate() error {
	if params.Slippage.IsNegative() {
		return fmt.Errorf("%w: negative slippage %s", ErrInvalidSwapRequest, params.Slippage.String())
	}
	if !common.IsHexAddress(params.SourceToken) {
		return fmt.Errorf("%w: source token %q", ErrInvalidSwapRequest, params.SourceToken)
	}
	if !common.IsHexAddress(params.DestinationToken) {
		return fmt.Errorf("%w: destination token %q", ErrInvalidSwapRequest, params.DestinationToken)
	}
	if !common.IsHexAddress(params.FromAddress) {
		return fmt.Errorf("%w: from address %q", ErrInvalidSwapRequest, params.FromAddress)
	}

	amount, ok := new(big.Int).SetString(params.SourceAmount, 10)
	if !ok || amount.Sign() <= 0 {
		return fmt.Errorf("%w: source amount %q", ErrInvalidSwapRequest, params.SourceAmount)
	}

	return nil
}

func (params SwapRequestParams) clone() SwapRequestParams {
	cloned := params
	if params.ExchangeList != nil {
		cloned.ExchangeList = append(make([]string, 0, len(params.ExchangeList)), params.ExchangeList...)
	}

	return cloned
}

// RawTransaction is the transaction shaped payload returned by an aggregator
type RawTransaction struct {
	To    string `json:"to"`
	From  string `json:"from"`
	Value string `json:"value"`
	Data  string `json:"data"`
	Gas   string `json:"gas,omitempty"`
}

// RawAggregatorQuote is one aggregator response, as returned by the swaps API
type RawAggregatorQuote struct {
	Trade             *RawTransaction `json:"trade"`
	ApprovalNeeded    *RawTransaction `json:"approvalNeeded"`
	SourceAmount      string          `json:"sourceAmount"`
	DestinationAmount string          `json:"destinationAmount"`
	SourceToken       string          `json:"sourceToken"`
	DestinationToken  string          `json:"destinationToken"`
	Aggregator        string          `json:"aggregator"`
	AggType           string          `json:"aggType"`
	Fee               decimal.Decimal `json:"fee"`
	GasMultiplier     decimal.Decimal `json:"gasMultiplier"`
	MaxGas            uint64          `json:"maxGas"`
	AverageGas        uint64          `json:"averageGas"`
	EstimatedRefund   uint64          `json:"estimatedRefund"`
	FetchTime         int64           `json:"fetchTime"`
	Error             json.RawMessage `json:"error,omitempty"`
}

// ErrorMessage returns the aggregator error as string, empty if the aggregator did not report an error
func (raw *RawAggregatorQuote) ErrorMessage() string {
	trimmed := bytes.TrimSpace(raw.Error)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}

	var message string
	if json.Unmarshal(trimmed, &message) == nil {
		return message
	}

	return string(trimmed)
}

// TxParams holds the fully resolved parameters of a transaction offered to the user
type TxParams struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Data  string `json:"data"`
	Value string `json:"value"`
	Gas   string `json:"gas,omitempty"`
}

// Savings holds the ETH denominated savings of the top quote compared to the median quote
type Savings struct {
	Performance      decimal.Decimal `json:"performance"`
	Fee              decimal.Decimal `json:"fee"`
	ServiceFee       decimal.Decimal `json:"serviceFee"`
	Total            decimal.Decimal `json:"total"`
	MedianServiceFee decimal.Decimal `json:"medianServiceFee"`
}

// CanonicalTrade is the normalized form of an aggregator quote that offered a trade
type CanonicalTrade struct {
	Trade                 TxParams         `json:"trade"`
	ApprovalNeeded        *TxParams        `json:"approvalNeeded"`
	Aggregator            string           `json:"aggregator"`
	AggType               string           `json:"aggType"`
	SourceToken           string           `json:"sourceToken"`
	DestinationToken      string           `json:"destinationToken"`
	SourceAmount          string           `json:"sourceAmount"`
	DestinationAmount     string           `json:"destinationAmount"`
	Fee                   decimal.Decimal  `json:"fee"`
	GasMultiplier         decimal.Decimal  `json:"gasMultiplier"`
	MaxGas                uint64           `json:"maxGas"`
	AverageGas            uint64           `json:"averageGas"`
	EstimatedRefund       uint64           `json:"estimatedRefund"`
	FetchTime             int64            `json:"fetchTime"`
	Slippage              decimal.Decimal  `json:"slippage"`
	GasEstimate           string           `json:"gasEstimate,omitempty"`
	GasEstimateWithRefund string           `json:"gasEstimateWithRefund,omitempty"`
	Fees                  *stats.TradeFees `json:"fees,omitempty"`
	Savings               *Savings         `json:"savings,omitempty"`
}

// Clone returns a deep copy of the trade
func (trade *CanonicalTrade) Clone() *CanonicalTrade {
	if trade == nil {
		return nil
	}

	cloned := *trade
	if trade.ApprovalNeeded != nil {
		approval := *trade.ApprovalNeeded
		cloned.ApprovalNeeded = &approval
	}
	if trade.Fees != nil {
		fees := *trade.Fees
		cloned.Fees = &fees
	}
	if trade.Savings != nil {
		savings := *trade.Savings
		cloned.Savings = &savings
	}

	return &cloned
}

// QuoteMap maps the aggregator identifier to its canonical trade
type QuoteMap map[string]*CanonicalTrade

// Clone returns a deep copy of the map
func (quotes QuoteMap) Clone() QuoteMap {
	cloned := make(QuoteMap, len(quotes))
	for aggregator, trade := range quotes {
		cloned[aggregator] = trade.Clone()
	}

	return cloned
}
