package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateOriginChecker(t *testing.T) {
	t.Parallel()

	createRequest := func(origin string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/swaps/ws", nil)
		req.Header.Set("Origin", origin)

		return req
	}

	checker := createOriginChecker(nil)
	assert.True(t, checker(createRequest("https://any.origin")))

	checker = createOriginChecker([]string{"https://wallet.klever.io"})
	assert.True(t, checker(createRequest("https://Wallet.Klever.io")))
	assert.False(t, checker(createRequest("https://other.origin")))
	assert.False(t, checker(createRequest("")))
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	cfg, err := loadConfig("./config/config.toml")
	assert.Nil(t, err)
	assert.Equal(t, uint64(50), cfg.GeneralConfig.QuotePollingIntervalInSeconds)
	assert.Equal(t, uint32(3), cfg.GeneralConfig.PollCountLimit)
	assert.Equal(t, uint64(24), cfg.GeneralConfig.FetchTokensThresholdInHours)
	assert.Equal(t, "0x881d40237659c251811cec9c364ef91dc08d300c", cfg.GeneralConfig.SwapsContractAddress)
	assert.Equal(t, uint64(15), cfg.SwapsAPI.RequestTimeoutInSeconds)
	assert.Equal(t, uint64(10), cfg.SwapsAPI.AggregatorTimeoutInSeconds)
	assert.True(t, cfg.QuotesWebSocket.Enabled)

	_, err = loadConfig("./config/missing.toml")
	assert.NotNil(t, err)
}
