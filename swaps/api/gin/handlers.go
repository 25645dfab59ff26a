package gin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/klever-io/klv-swaps-go/swaps"
)

// ReturnCode defines the type of the code returned in a REST response
type ReturnCode string

const (
	// ReturnCodeSuccess is the code of a successful request
	ReturnCodeSuccess ReturnCode = "successful"
	// ReturnCodeRequestError is the code of a malformed request
	ReturnCodeRequestError ReturnCode = "bad_request"
	// ReturnCodeInternalError is the code of a request that failed while being processed
	ReturnCodeInternalError ReturnCode = "internal_issue"
)

// GenericAPIResponse is the envelope of every REST response
type GenericAPIResponse struct {
	Data  interface{} `json:"data"`
	Error string      `json:"error"`
	Code  ReturnCode  `json:"code"`
}

// QuotesResponse is the data returned after a quotes fetch
type QuotesResponse struct {
	Quotes   swaps.QuoteMap      `json:"quotes"`
	TopAggID string              `json:"topAggId"`
	ErrorKey swaps.SwapsErrorKey `json:"errorKey,omitempty"`
}

// PollingResponse is the data returned by the polling routes
type PollingResponse struct {
	IsPolling bool `json:"isPolling"`
}

func respondSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, GenericAPIResponse{
		Data: data,
		Code: ReturnCodeSuccess,
	})
}

func respondError(c *gin.Context, status int, code ReturnCode, err error) {
	c.JSON(status, GenericAPIResponse{
		Error: err.Error(),
		Code:  code,
	})
}

// respondFetchError maps the quotes fetch errors on the HTTP status codes
func respondFetchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, swaps.ErrInvalidSwapRequest), errors.Is(err, swaps.ErrNoFetchParams):
		respondError(c, http.StatusBadRequest, ReturnCodeRequestError, err)
	case errors.Is(err, swaps.QuotesNotAvailableError):
		respondSuccess(c, QuotesResponse{
			Quotes:   make(swaps.QuoteMap),
			ErrorKey: swaps.QuotesNotAvailableError,
		})
	case errors.Is(err, swaps.FetchOrderConflict):
		respondError(c, http.StatusConflict, ReturnCodeRequestError, err)
	case errors.Is(err, swaps.ErrorFetchingQuotes):
		respondError(c, http.StatusBadGateway, ReturnCodeInternalError, err)
	default:
		respondError(c, http.StatusInternalServerError, ReturnCodeInternalError, err)
	}
}

func bindSwapRequest(c *gin.Context) (swaps.SwapRequestParams, bool) {
	params := swaps.SwapRequestParams{}
	err := c.ShouldBindJSON(&params)
	if err != nil {
		respondError(c, http.StatusBadRequest, ReturnCodeRequestError, err)
		return params, false
	}

	return params, true
}

func (ws *webServer) getState(c *gin.Context) {
	respondSuccess(c, ws.facade.State())
}

func (ws *webServer) fetchQuotes(c *gin.Context) {
	params, ok := bindSwapRequest(c)
	if !ok {
		return
	}

	quotes, topAggID, err := ws.facade.FetchAndSetQuotes(c.Request.Context(), params)
	if err != nil {
		respondFetchError(c, err)
		return
	}

	respondSuccess(c, QuotesResponse{
		Quotes:   quotes,
		TopAggID: topAggID,
	})
}

func (ws *webServer) refreshQuotes(c *gin.Context) {
	err := ws.facade.SafeRefetchQuotes(c.Request.Context())
	if err != nil {
		respondFetchError(c, err)
		return
	}

	state := ws.facade.State()
	respondSuccess(c, QuotesResponse{
		Quotes:   state.Quotes,
		TopAggID: state.TopAggID,
		ErrorKey: state.ErrorKey,
	})
}

func (ws *webServer) getPolling(c *gin.Context) {
	respondSuccess(c, PollingResponse{IsPolling: ws.facade.IsPolling()})
}

func (ws *webServer) startPolling(c *gin.Context) {
	params, ok := bindSwapRequest(c)
	if !ok {
		return
	}

	err := ws.facade.StartPolling(params)
	if err != nil {
		respondError(c, http.StatusBadRequest, ReturnCodeRequestError, err)
		return
	}

	respondSuccess(c, PollingResponse{IsPolling: true})
}

func (ws *webServer) stopPolling(c *gin.Context) {
	ws.facade.StopPolling()
	respondSuccess(c, PollingResponse{IsPolling: false})
}

func (ws *webServer) resetState(c *gin.Context) {
	ws.facade.ResetState()
	respondSuccess(c, ws.facade.State())
}

func (ws *webServer) getTokens(c *gin.Context) {
	tokens, err := ws.facade.FetchTokensWithCache(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusBadGateway, ReturnCodeInternalError, err)
		return
	}

	respondSuccess(c, tokens)
}

func (ws *webServer) getTopAssets(c *gin.Context) {
	assets, err := ws.facade.FetchTopAssets(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusBadGateway, ReturnCodeInternalError, err)
		return
	}

	respondSuccess(c, assets)
}

func (ws *webServer) getAggregatorMetadata(c *gin.Context) {
	aggregators, err := ws.facade.FetchAggregatorMetadata(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusBadGateway, ReturnCodeInternalError, err)
		return
	}

	respondSuccess(c, aggregators)
}

func (ws *webServer) getGasPrices(c *gin.Context) {
	prices, err := ws.facade.FetchGasPrices(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusBadGateway, ReturnCodeInternalError, err)
		return
	}

	respondSuccess(c, prices)
}

func (ws *webServer) serveWS(c *gin.Context) {
	err := ws.wsHandler.ServeWS(c.Writer, c.Request)
	if err != nil {
		log.Debug("websocket upgrade failed", "remote", c.ClientIP(), "error", err)
	}
}
