package gin

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

var log = logger.GetOrCreate("klv-swaps-go/swaps/api/gin")

// ArgsWebServerHandler is the argument DTO for the REST server
type ArgsWebServerHandler struct {
	ListenAddress      string
	Facade             SwapsFacade
	WSHandler          WSHandler
	CorsAllowedOrigins []string
}

type webServer struct {
	mut                sync.Mutex
	listenAddress      string
	facade             SwapsFacade
	wsHandler          WSHandler
	corsAllowedOrigins []string
	httpServer         *http.Server
}

// NewWebServerHandler creates the REST server exposing the swaps facade. The websocket route is registered only
// when a websocket handler is provided
func NewWebServerHandler(args ArgsWebServerHandler) (*webServer, error) {
	if len(args.ListenAddress) == 0 {
		return nil, errEmptyListenAddress
	}
	if check.IfNil(args.Facade) {
		return nil, errNilSwapsFacade
	}

	return &webServer{
		listenAddress:      args.ListenAddress,
		facade:             args.Facade,
		wsHandler:          args.WSHandler,
		corsAllowedOrigins: args.CorsAllowedOrigins,
	}, nil
}

// StartHttpServer starts the REST server in background
func (ws *webServer) StartHttpServer() error {
	ws.mut.Lock()
	defer ws.mut.Unlock()

	if ws.httpServer != nil {
		return errServerAlreadyActive
	}

	gin.SetMode(gin.ReleaseMode)
	server := &http.Server{
		Addr:              ws.listenAddress,
		Handler:           ws.createEngine(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	ws.httpServer = server

	go func() {
		log.Info("starting web server", "interface", ws.listenAddress)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("web server stopped", "error", err)
		}
	}()

	return nil
}

func (ws *webServer) createEngine() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.New(ws.corsConfig()))

	group := engine.Group("/swaps")
	group.GET("/state", ws.getState)
	group.POST("/quotes", ws.fetchQuotes)
	group.POST("/quotes/refresh", ws.refreshQuotes)
	group.GET("/polling", ws.getPolling)
	group.POST("/polling", ws.startPolling)
	group.DELETE("/polling", ws.stopPolling)
	group.POST("/reset", ws.resetState)
	group.GET("/tokens", ws.getTokens)
	group.GET("/topAssets", ws.getTopAssets)
	group.GET("/aggregators", ws.getAggregatorMetadata)
	group.GET("/gasPrices", ws.getGasPrices)
	if !check.IfNil(ws.wsHandler) {
		group.GET("/ws", ws.serveWS)
	}

	return engine
}

func (ws *webServer) corsConfig() cors.Config {
	corsConfig := cors.DefaultConfig()
	if len(ws.corsAllowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
		return corsConfig
	}

	corsConfig.AllowOrigins = ws.corsAllowedOrigins

	return corsConfig
}

// Close gracefully stops the REST server
func (ws *webServer) Close() error {
	ws.mut.Lock()
	defer ws.mut.Unlock()

	if ws.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := ws.httpServer.Shutdown(ctx)
	ws.httpServer = nil

	return err
}

// IsInterfaceNil returns true if there is no value under the interface
func (ws *webServer) IsInterfaceNil() bool {
	return ws == nil
}
