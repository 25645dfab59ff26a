package interactors

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/klever-io/klv-swaps-go/swaps"
	logger "github.com/multiversx/mx-chain-logger-go"
)

const erc20AllowanceABI = `[
 {"constant":true,"inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"name":"allowance","outputs":[{"name":"","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"}
]`

const allowanceMethod = "allowance"

var log = logger.GetOrCreate("klv-swaps-go/swaps/interactors")

// ArgsEthInteractor is the argument DTO for the go-ethereum backed chain interactor
type ArgsEthInteractor struct {
	Client EthClient
}

type ethInteractor struct {
	client   EthClient
	erc20ABI abi.ABI
}

// NewEthInteractor creates a chain interactor able to estimate the gas of a transaction, read the ERC20
// allowances and suggest a gas price
func NewEthInteractor(args ArgsEthInteractor) (*ethInteractor, error) {
	// the go-ethereum client has no IsInterfaceNil so check.IfNil can not be used, a nil *ethclient.Client is
	// checked explicitly
	if args.Client == nil {
		return nil, errNilEthClient
	}
	if client, ok := args.Client.(*ethclient.Client); ok && client == nil {
		return nil, errNilEthClient
	}

	parsedABI, err := abi.JSON(strings.NewReader(erc20AllowanceABI))
	if err != nil {
		return nil, err
	}

	return &ethInteractor{
		client:   args.Client,
		erc20ABI: parsedABI,
	}, nil
}

// EstimateGas returns the node gas estimation of the provided transaction
func (ei *ethInteractor) EstimateGas(ctx context.Context, tx swaps.TxParams) (uint64, error) {
	msg, err := callMsgFromTxParams(tx)
	if err != nil {
		return 0, err
	}

	estimated, err := ei.client.EstimateGas(ctx, msg)
	if err != nil {
		return 0, err
	}

	log.Trace("estimated gas", "to", tx.To, "gas", estimated)

	return estimated, nil
}

// Allowance returns the amount of tokens the spender is allowed to transfer on behalf of the owner
func (ei *ethInteractor) Allowance(ctx context.Context, token string, owner string, spender string) (*big.Int, error) {
	tokenAddress, err := toAddress(token)
	if err != nil {
		return nil, err
	}
	ownerAddress, err := toAddress(owner)
	if err != nil {
		return nil, err
	}
	spenderAddress, err := toAddress(spender)
	if err != nil {
		return nil, err
	}

	data, err := ei.erc20ABI.Pack(allowanceMethod, ownerAddress, spenderAddress)
	if err != nil {
		return nil, err
	}

	response, err := ei.client.CallContract(ctx, ethereum.CallMsg{
		To:   &tokenAddress,
		Data: data,
	}, nil)
	if err != nil {
		return nil, err
	}

	results, err := ei.erc20ABI.Unpack(allowanceMethod, response)
	if err != nil {
		return nil, err
	}
	if len(results) != 1 {
		return nil, fmt.Errorf("%w: %d values for %s", errUnexpectedResponse, len(results), allowanceMethod)
	}

	allowance, ok := results[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%w: %T for %s", errUnexpectedResponse, results[0], allowanceMethod)
	}

	return allowance, nil
}

// SuggestGasPrice returns the node suggested gas price in wei
func (ei *ethInteractor) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return ei.client.SuggestGasPrice(ctx)
}

func callMsgFromTxParams(tx swaps.TxParams) (ethereum.CallMsg, error) {
	msg := ethereum.CallMsg{}

	from, err := toAddress(tx.From)
	if err != nil {
		return msg, err
	}
	msg.From = from

	if len(tx.To) > 0 {
		to, errTo := toAddress(tx.To)
		if errTo != nil {
			return msg, errTo
		}
		msg.To = &to
	}

	if len(tx.Data) > 0 {
		msg.Data, err = hexutil.Decode(tx.Data)
		if err != nil {
			return msg, fmt.Errorf("%w data: %w", errInvalidTxField, err)
		}
	}

	if len(tx.Value) > 0 {
		msg.Value, err = hexutil.DecodeBig(tx.Value)
		if err != nil {
			return msg, fmt.Errorf("%w value: %w", errInvalidTxField, err)
		}
	}

	if len(tx.Gas) > 0 {
		msg.Gas, err = hexutil.DecodeUint64(tx.Gas)
		if err != nil {
			return msg, fmt.Errorf("%w gas: %w", errInvalidTxField, err)
		}
	}

	return msg, nil
}

func toAddress(address string) (common.Address, error) {
	if !common.IsHexAddress(address) {
		return common.Address{}, fmt.Errorf("%w: %q", errInvalidAddress, address)
	}

	return common.HexToAddress(address), nil
}

// IsInterfaceNil returns true if there is no value under the interface
func (ei *ethInteractor) IsInterfaceNil() bool {
	return ei == nil
}
