package interactors

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/klever-io/klv-swaps-go/swaps"
	"github.com/klever-io/klv-swaps-go/swaps/mock"
	"github.com/multiversx/mx-chain-core-go/core/check"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	daiAddress    = "0x6b175474e89094c44da98b954eedeac495271d0f"
	walletAddress = "0xb0da5965d43369968574d399dbe6374683773a65"
)

func createTxParams() swaps.TxParams {
	return swaps.TxParams{
		From:  walletAddress,
		To:    swaps.SwapsContractAddress,
		Data:  "0x5f575529",
		Value: "0x2386f26fc10000",
		Gas:   "0xf4240",
	}
}

func TestNewEthInteractor(t *testing.T) {
	t.Parallel()

	ei, err := NewEthInteractor(ArgsEthInteractor{})
	assert.True(t, check.IfNil(ei))
	assert.Equal(t, errNilEthClient, err)

	var nilClient *ethclient.Client
	ei, err = NewEthInteractor(ArgsEthInteractor{Client: nilClient})
	assert.True(t, check.IfNil(ei))
	assert.Equal(t, errNilEthClient, err)

	ei, err = NewEthInteractor(ArgsEthInteractor{Client: &mock.EthClientStub{}})
	assert.False(t, check.IfNil(ei))
	assert.Nil(t, err)
}

func TestEthInteractor_EstimateGas(t *testing.T) {
	t.Parallel()

	t.Run("should convert the transaction", func(t *testing.T) {
		t.Parallel()

		var sentMsg ethereum.CallMsg
		ei, _ := NewEthInteractor(ArgsEthInteractor{
			Client: &mock.EthClientStub{
				EstimateGasCalled: func(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
					sentMsg = msg
					return 250000, nil
				},
			},
		})

		estimated, err := ei.EstimateGas(context.Background(), createTxParams())
		require.Nil(t, err)
		assert.Equal(t, uint64(250000), estimated)

		assert.Equal(t, common.HexToAddress(walletAddress), sentMsg.From)
		require.NotNil(t, sentMsg.To)
		assert.Equal(t, common.HexToAddress(swaps.SwapsContractAddress), *sentMsg.To)
		assert.Equal(t, "0x5f575529", hexutil.Encode(sentMsg.Data))
		assert.Equal(t, "10000000000000000", sentMsg.Value.String())
		assert.Equal(t, uint64(1000000), sentMsg.Gas)
	})
	t.Run("empty optional fields should be skipped", func(t *testing.T) {
		t.Parallel()

		var sentMsg ethereum.CallMsg
		ei, _ := NewEthInteractor(ArgsEthInteractor{
			Client: &mock.EthClientStub{
				EstimateGasCalled: func(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
					sentMsg = msg
					return 21000, nil
				},
			},
		})

		_, err := ei.EstimateGas(context.Background(), swaps.TxParams{From: walletAddress})
		require.Nil(t, err)
		assert.Nil(t, sentMsg.To)
		assert.Nil(t, sentMsg.Value)
		assert.Nil(t, sentMsg.Data)
		assert.Equal(t, uint64(0), sentMsg.Gas)
	})
	t.Run("invalid fields should error", func(t *testing.T) {
		t.Parallel()

		ei, _ := NewEthInteractor(ArgsEthInteractor{
			Client: &mock.EthClientStub{
				EstimateGasCalled: func(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
					require.Fail(t, "should have not been called")
					return 0, nil
				},
			},
		})

		tx := createTxParams()
		tx.From = "wallet"
		_, err := ei.EstimateGas(context.Background(), tx)
		assert.ErrorIs(t, err, errInvalidAddress)

		tx = createTxParams()
		tx.Data = "0xzz"
		_, err = ei.EstimateGas(context.Background(), tx)
		assert.ErrorIs(t, err, errInvalidTxField)

		tx = createTxParams()
		tx.Value = "10"
		_, err = ei.EstimateGas(context.Background(), tx)
		assert.ErrorIs(t, err, errInvalidTxField)

		tx = createTxParams()
		tx.Gas = "gas"
		_, err = ei.EstimateGas(context.Background(), tx)
		assert.ErrorIs(t, err, errInvalidTxField)
	})
	t.Run("client error should be returned", func(t *testing.T) {
		t.Parallel()

		ei, _ := NewEthInteractor(ArgsEthInteractor{Client: &mock.EthClientStub{}})

		estimated, err := ei.EstimateGas(context.Background(), createTxParams())
		assert.NotNil(t, err)
		assert.Equal(t, uint64(0), estimated)
	})
}

func TestEthInteractor_Allowance(t *testing.T) {
	t.Parallel()

	t.Run("should pack the call and unpack the allowance", func(t *testing.T) {
		t.Parallel()

		ei, _ := NewEthInteractor(ArgsEthInteractor{Client: &mock.EthClientStub{}})
		ei.client = &mock.EthClientStub{
			CallContractCalled: func(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
				require.NotNil(t, msg.To)
				assert.Equal(t, common.HexToAddress(daiAddress), *msg.To)
				assert.Nil(t, blockNumber)
				assert.Equal(t, "0xdd62ed3e", hexutil.Encode(msg.Data[:4]))

				args, err := ei.erc20ABI.Methods[allowanceMethod].Inputs.Unpack(msg.Data[4:])
				require.Nil(t, err)
				assert.Equal(t, common.HexToAddress(walletAddress), args[0])
				assert.Equal(t, common.HexToAddress(swaps.SwapsContractAddress), args[1])

				return ei.erc20ABI.Methods[allowanceMethod].Outputs.Pack(big.NewInt(1000))
			},
		}

		allowance, err := ei.Allowance(context.Background(), daiAddress, walletAddress, swaps.SwapsContractAddress)
		require.Nil(t, err)
		assert.Equal(t, "1000", allowance.String())
	})
	t.Run("invalid addresses should error", func(t *testing.T) {
		t.Parallel()

		ei, _ := NewEthInteractor(ArgsEthInteractor{Client: &mock.EthClientStub{}})

		_, err := ei.Allowance(context.Background(), "dai", walletAddress, swaps.SwapsContractAddress)
		assert.ErrorIs(t, err, errInvalidAddress)
		_, err = ei.Allowance(context.Background(), daiAddress, "", swaps.SwapsContractAddress)
		assert.ErrorIs(t, err, errInvalidAddress)
		_, err = ei.Allowance(context.Background(), daiAddress, walletAddress, "0x1")
		assert.ErrorIs(t, err, errInvalidAddress)
	})
	t.Run("malformed response should error", func(t *testing.T) {
		t.Parallel()

		ei, _ := NewEthInteractor(ArgsEthInteractor{
			Client: &mock.EthClientStub{
				CallContractCalled: func(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
					return []byte{0x01}, nil
				},
			},
		})

		allowance, err := ei.Allowance(context.Background(), daiAddress, walletAddress, swaps.SwapsContractAddress)
		assert.NotNil(t, err)
		assert.Nil(t, allowance)
	})
	t.Run("client error should be returned", func(t *testing.T) {
		t.Parallel()

		ei, _ := NewEthInteractor(ArgsEthInteractor{
			Client: &mock.EthClientStub{
				CallContractCalled: func(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
					return nil, assert.AnError
				},
			},
		})

		_, err := ei.Allowance(context.Background(), daiAddress, walletAddress, swaps.SwapsContractAddress)
		assert.Equal(t, assert.AnError, err)
	})
}

func TestEthInteractor_SuggestGasPrice(t *testing.T) {
	t.Parallel()

	ei, _ := NewEthInteractor(ArgsEthInteractor{
		Client: &mock.EthClientStub{
			SuggestGasPriceCalled: func(ctx context.Context) (*big.Int, error) {
				return big.NewInt(12000000000), nil
			},
		},
	})

	gasPrice, err := ei.SuggestGasPrice(context.Background())
	require.Nil(t, err)
	assert.Equal(t, "12000000000", gasPrice.String())
}
