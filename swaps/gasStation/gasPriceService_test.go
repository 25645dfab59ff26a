package gas_test

import (
	"context"
	"math/big"
	"testing"

	gas "github.com/klever-io/klv-swaps-go/swaps/gasStation"
	"github.com/klever-io/klv-swaps-go/swaps/mock"
	"github.com/multiversx/mx-chain-core-go/core/check"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createMockArgsGasPriceService() gas.ArgsGasPriceService {
	return gas.ArgsGasPriceService{
		GasPricesFetcher:  &mock.GasPricesFetcherStub{},
		GasPriceSuggester: &mock.GasPriceSuggesterStub{},
		Selector:          gas.ProposeGasPriceSelector,
	}
}

func createGasPrices() gas.GasPrices {
	return gas.GasPrices{
		SafeGasPrice:    decimal.RequireFromString("10"),
		ProposeGasPrice: decimal.RequireFromString("20.5"),
		FastGasPrice:    decimal.RequireFromString("30"),
	}
}

func TestGasPriceService_NewGasPriceService(t *testing.T) {
	t.Parallel()

	t.Run("nil gas prices fetcher should error", func(t *testing.T) {
		t.Parallel()

		args := createMockArgsGasPriceService()
		args.GasPricesFetcher = nil
		gps, err := gas.NewGasPriceService(args)

		assert.Nil(t, gps)
		assert.Equal(t, gas.ErrNilGasPricesFetcher, err)
	})
	t.Run("nil gas price suggester should error", func(t *testing.T) {
		t.Parallel()

		args := createMockArgsGasPriceService()
		args.GasPriceSuggester = nil
		gps, err := gas.NewGasPriceService(args)

		assert.Nil(t, gps)
		assert.Equal(t, gas.ErrNilGasPriceSuggester, err)
	})
	t.Run("invalid selector should error", func(t *testing.T) {
		t.Parallel()

		args := createMockArgsGasPriceService()
		args.Selector = "SlowGasPrice"
		gps, err := gas.NewGasPriceService(args)

		assert.Nil(t, gps)
		assert.ErrorIs(t, err, gas.ErrInvalidGasPriceSelector)
	})
	t.Run("valid setup should work", func(t *testing.T) {
		t.Parallel()

		gps, err := gas.NewGasPriceService(createMockArgsGasPriceService())

		assert.False(t, check.IfNil(gps))
		assert.Nil(t, err)
	})
}

func TestGasPriceService_GasPrice(t *testing.T) {
	t.Parallel()

	t.Run("should convert the selected price to wei", func(t *testing.T) {
		t.Parallel()

		selectors := map[string]*big.Int{
			gas.SafeGasPriceSelector:    big.NewInt(10000000000),
			gas.ProposeGasPriceSelector: big.NewInt(20500000000),
			gas.FastGasPriceSelector:    big.NewInt(30000000000),
		}
		for selector, expected := range selectors {
			args := createMockArgsGasPriceService()
			args.Selector = selector
			args.GasPricesFetcher = &mock.GasPricesFetcherStub{
				FetchGasPricesCalled: func(ctx context.Context) (gas.GasPrices, error) {
					return createGasPrices(), nil
				},
			}
			args.GasPriceSuggester = &mock.GasPriceSuggesterStub{
				SuggestGasPriceCalled: func(ctx context.Context) (*big.Int, error) {
					assert.Fail(t, "should have not called SuggestGasPrice")
					return nil, nil
				},
			}

			gps, _ := gas.NewGasPriceService(args)
			gasPrice, err := gps.GasPrice(context.Background())
			require.Nil(t, err)
			assert.Equal(t, expected.String(), gasPrice.String(), selector)
		}
	})
	t.Run("gas station error should fall back to the node", func(t *testing.T) {
		t.Parallel()

		args := createMockArgsGasPriceService()
		args.GasPricesFetcher = &mock.GasPricesFetcherStub{
			FetchGasPricesCalled: func(ctx context.Context) (gas.GasPrices, error) {
				return gas.GasPrices{}, assert.AnError
			},
		}
		args.GasPriceSuggester = &mock.GasPriceSuggesterStub{
			SuggestGasPriceCalled: func(ctx context.Context) (*big.Int, error) {
				return big.NewInt(42), nil
			},
		}

		gps, _ := gas.NewGasPriceService(args)
		gasPrice, err := gps.GasPrice(context.Background())
		require.Nil(t, err)
		assert.Equal(t, big.NewInt(42), gasPrice)
	})
	t.Run("zero gas station price should fall back to the node", func(t *testing.T) {
		t.Parallel()

		args := createMockArgsGasPriceService()
		args.GasPriceSuggester = &mock.GasPriceSuggesterStub{
			SuggestGasPriceCalled: func(ctx context.Context) (*big.Int, error) {
				return big.NewInt(7), nil
			},
		}

		gps, _ := gas.NewGasPriceService(args)
		gasPrice, err := gps.GasPrice(context.Background())
		require.Nil(t, err)
		assert.Equal(t, big.NewInt(7), gasPrice)
	})
	t.Run("both sources failing should error", func(t *testing.T) {
		t.Parallel()

		args := createMockArgsGasPriceService()
		args.GasPricesFetcher = &mock.GasPricesFetcherStub{
			FetchGasPricesCalled: func(ctx context.Context) (gas.GasPrices, error) {
				return gas.GasPrices{}, assert.AnError
			},
		}
		args.GasPriceSuggester = &mock.GasPriceSuggesterStub{
			SuggestGasPriceCalled: func(ctx context.Context) (*big.Int, error) {
				return nil, assert.AnError
			},
		}

		gps, _ := gas.NewGasPriceService(args)
		gasPrice, err := gps.GasPrice(context.Background())
		assert.Nil(t, gasPrice)
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestGasPriceService_FetchGasPrices(t *testing.T) {
	t.Parallel()

	args := createMockArgsGasPriceService()
	args.GasPricesFetcher = &mock.GasPricesFetcherStub{
		FetchGasPricesCalled: func(ctx context.Context) (gas.GasPrices, error) {
			return createGasPrices(), nil
		},
	}

	gps, _ := gas.NewGasPriceService(args)
	prices, err := gps.FetchGasPrices(context.Background())
	require.Nil(t, err)
	assert.Equal(t, createGasPrices(), prices)
}
