package notifees

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/klever-io/klv-swaps-go/swaps"
	"github.com/klever-io/klv-swaps-go/swaps/stats"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createArgsQuotesChanged(sequence uint64) swaps.ArgsQuotesChanged {
	return swaps.ArgsQuotesChanged{
		Sequence: sequence,
		Quotes: swaps.QuoteMap{
			"paraswap": {
				Aggregator:        "paraswap",
				DestinationAmount: "2000000",
				Fees:              &stats.TradeFees{OverallValueOfQuote: decimal.RequireFromString("0.997")},
			},
		},
		TopAggregatorID: "paraswap",
		Timestamp:       1700000000000,
	}
}

func startWSServer(t *testing.T, notifee *wsQuotesNotifee) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := notifee.ServeWS(w, r)
		assert.Nil(t, err)
	}))
}

func dialWS(t *testing.T, server *httptest.Server) *websocket.Conn {
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Nil(t, err)

	return conn
}

func readUpdate(t *testing.T, conn *websocket.Conn) QuotesUpdate {
	require.Nil(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, message, err := conn.ReadMessage()
	require.Nil(t, err)

	update := QuotesUpdate{}
	require.Nil(t, json.Unmarshal(message, &update))

	return update
}

func TestLogNotifee_QuotesChanged(t *testing.T) {
	t.Parallel()

	notifee := NewLogNotifee(logger.GetOrCreate("test"))
	assert.False(t, check.IfNil(notifee))
	assert.Nil(t, notifee.QuotesChanged(context.Background(), createArgsQuotesChanged(1)))

	args := createArgsQuotesChanged(2)
	args.TopAggregatorID = ""
	assert.Nil(t, notifee.QuotesChanged(context.Background(), args))
}

func TestNewWSQuotesNotifee(t *testing.T) {
	t.Parallel()

	notifee, err := NewWSQuotesNotifee(ArgsWSQuotesNotifee{WriteTimeout: -time.Second})
	assert.True(t, check.IfNil(notifee))
	assert.ErrorIs(t, err, errInvalidWriteTimeout)

	notifee, err = NewWSQuotesNotifee(ArgsWSQuotesNotifee{ClientBufferSize: -1})
	assert.Nil(t, notifee)
	assert.ErrorIs(t, err, errInvalidBufferSize)

	notifee, err = NewWSQuotesNotifee(ArgsWSQuotesNotifee{})
	require.Nil(t, err)
	assert.Equal(t, DefaultWriteTimeout, notifee.writeTimeout)
	assert.Equal(t, DefaultClientBufferSize, notifee.clientBufferSize)
	assert.Equal(t, 0, notifee.NumClients())
}

func TestWSQuotesNotifee_QuotesChanged(t *testing.T) {
	t.Parallel()

	t.Run("updates should be pushed in order", func(t *testing.T) {
		t.Parallel()

		notifee, _ := NewWSQuotesNotifee(ArgsWSQuotesNotifee{})
		server := startWSServer(t, notifee)
		defer server.Close()

		conn := dialWS(t, server)
		defer func() {
			_ = conn.Close()
		}()
		assert.Eventually(t, func() bool {
			return notifee.NumClients() == 1
		}, time.Second, time.Millisecond)

		require.Nil(t, notifee.QuotesChanged(context.Background(), createArgsQuotesChanged(2)))
		update := readUpdate(t, conn)
		assert.Equal(t, uint64(2), update.Sequence)
		assert.Equal(t, "paraswap", update.TopAggregatorID)
		assert.Equal(t, "2000000", update.Quotes["paraswap"].DestinationAmount)
		assert.Equal(t, int64(1700000000000), update.Timestamp)

		require.Nil(t, notifee.QuotesChanged(context.Background(), createArgsQuotesChanged(1)))
		require.Nil(t, notifee.QuotesChanged(context.Background(), createArgsQuotesChanged(3)))
		update = readUpdate(t, conn)
		assert.Equal(t, uint64(3), update.Sequence)
	})
	t.Run("new clients should receive the last update", func(t *testing.T) {
		t.Parallel()

		notifee, _ := NewWSQuotesNotifee(ArgsWSQuotesNotifee{})
		server := startWSServer(t, notifee)
		defer server.Close()

		require.Nil(t, notifee.QuotesChanged(context.Background(), createArgsQuotesChanged(5)))

		conn := dialWS(t, server)
		defer func() {
			_ = conn.Close()
		}()

		update := readUpdate(t, conn)
		assert.Equal(t, uint64(5), update.Sequence)
	})
	t.Run("disconnected clients should be removed", func(t *testing.T) {
		t.Parallel()

		notifee, _ := NewWSQuotesNotifee(ArgsWSQuotesNotifee{})
		server := startWSServer(t, notifee)
		defer server.Close()

		conn := dialWS(t, server)
		assert.Eventually(t, func() bool {
			return notifee.NumClients() == 1
		}, time.Second, time.Millisecond)

		_ = conn.Close()
		assert.Eventually(t, func() bool {
			return notifee.NumClients() == 0
		}, time.Second, time.Millisecond)
	})
	t.Run("close should disconnect the clients", func(t *testing.T) {
		t.Parallel()

		notifee, _ := NewWSQuotesNotifee(ArgsWSQuotesNotifee{})
		server := startWSServer(t, notifee)
		defer server.Close()

		conn := dialWS(t, server)
		defer func() {
			_ = conn.Close()
		}()
		assert.Eventually(t, func() bool {
			return notifee.NumClients() == 1
		}, time.Second, time.Millisecond)

		require.Nil(t, notifee.Close())
		assert.Equal(t, 0, notifee.NumClients())

		require.Nil(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
		_, _, err := conn.ReadMessage()
		assert.NotNil(t, err)

		err = notifee.QuotesChanged(context.Background(), createArgsQuotesChanged(1))
		assert.Equal(t, errNotifeeClosed, err)
	})
}
