package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/klever-io/klv-swaps-go/config"
	"github.com/klever-io/klv-swaps-go/swaps"
	"github.com/klever-io/klv-swaps-go/swaps/api/gin"
	"github.com/klever-io/klv-swaps-go/swaps/fetchers"
	gas "github.com/klever-io/klv-swaps-go/swaps/gasStation"
	"github.com/klever-io/klv-swaps-go/swaps/interactors"
	"github.com/klever-io/klv-swaps-go/swaps/notifees"
	chainCore "github.com/multiversx/mx-chain-core-go/core"
	"github.com/multiversx/mx-chain-core-go/core/check"
	chainFactory "github.com/multiversx/mx-chain-go/cmd/node/factory"
	chainCommon "github.com/multiversx/mx-chain-go/common"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/multiversx/mx-chain-logger-go/file"
	"github.com/multiversx/mx-sdk-go/core/polling"
	"github.com/urfave/cli"
)

const (
	defaultLogsPath = "logs"
	logFilePrefix   = "klv-swaps"
)

var log = logger.GetOrCreate("klv-swaps-go/main")

// appVersion should be populated at build time using ldflags
// Usage examples:
// linux/mac:
//
//	go build -i -v -ldflags="-X main.appVersion=$(git describe --tags --long --dirty)"
//
// windows:
//
//	for /f %i in ('git describe --tags --long --dirty') do set VERS=%i
//	go build -i -v -ldflags="-X main.appVersion=%VERS%"
var appVersion = chainCommon.UnVersionedAppString

func main() {
	app := cli.NewApp()
	app.Name = "Swaps CLI app"
	app.Usage = "Swaps service will fetch the quotes of a token swap from a bunch of aggregators, and will" +
		" rank them and keep them fresh while the swap is being reviewed"
	app.Flags = getFlags()
	machineID := chainCore.GetAnonymizedMachineID(app.Name)
	app.Version = fmt.Sprintf("%s/%s/%s-%s/%s", appVersion, runtime.Version(), runtime.GOOS, runtime.GOARCH, machineID)
	app.Authors = []cli.Author{
		{
			Name:  "The Klever Blockchain Team",
			Email: "contact@klever.io",
		},
	}

	app.Action = func(c *cli.Context) error {
		return startSwaps(c, app.Version)
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func startSwaps(ctx *cli.Context, version string) error {
	flagsConfig := getFlagsConfig(ctx)

	fileLogging, errLogger := attachFileLogger(log, flagsConfig)
	if errLogger != nil {
		return errLogger
	}

	log.Info("starting swaps service", "version", version, "pid", os.Getpid())

	cfg, err := loadConfig(flagsConfig.ConfigurationFile)
	if err != nil {
		return err
	}

	if !check.IfNil(fileLogging) {
		logsCfg := cfg.GeneralConfig.Logs
		timeLogLifeSpan := time.Second * time.Duration(logsCfg.LogFileLifeSpanInSec)
		sizeLogLifeSpanInMB := uint64(logsCfg.LogFileLifeSpanInMB)
		err = fileLogging.ChangeFileLifeSpan(timeLogLifeSpan, sizeLogLifeSpanInMB)
		if err != nil {
			return err
		}
	}

	if len(cfg.Chain.NetworkAddress) == 0 {
		return fmt.Errorf("empty NetworkAddress in config file")
	}

	ethClient, err := ethclient.Dial(cfg.Chain.NetworkAddress)
	if err != nil {
		return err
	}
	defer ethClient.Close()

	chainInteractor, err := interactors.NewEthInteractor(interactors.ArgsEthInteractor{
		Client: ethClient,
	})
	if err != nil {
		return err
	}

	httpResponseGetter, err := swaps.NewHttpResponseGetter(time.Second * time.Duration(cfg.SwapsAPI.RequestTimeoutInSeconds))
	if err != nil {
		return err
	}

	swapsAPI, err := fetchers.NewSwapsAPI(fetchers.ArgsSwapsAPI{
		ResponseGetter:    httpResponseGetter,
		BaseURL:           cfg.SwapsAPI.BaseURL,
		TokenPriceURL:     cfg.SwapsAPI.TokenPriceURL,
		AggregatorTimeout: time.Second * time.Duration(cfg.SwapsAPI.AggregatorTimeoutInSeconds),
	})
	if err != nil {
		return err
	}

	gasPricesFetcher, err := fetchers.NewGasPricesFetcher(fetchers.ArgsGasPricesFetcher{
		ResponseGetter: httpResponseGetter,
		ApiURL:         cfg.GasStation.ApiURL,
	})
	if err != nil {
		return err
	}

	gasService, err := gas.NewGasPriceService(gas.ArgsGasPriceService{
		GasPricesFetcher:  gasPricesFetcher,
		GasPriceSuggester: chainInteractor,
		Selector:          cfg.GasStation.Selector,
	})
	if err != nil {
		return err
	}

	quotesNotifees := []swaps.QuotesNotifee{notifees.NewLogNotifee(log)}
	var wsNotifee gin.WSHandler
	if cfg.QuotesWebSocket.Enabled {
		wsQuotesNotifee, errNotifee := notifees.NewWSQuotesNotifee(notifees.ArgsWSQuotesNotifee{
			WriteTimeout:     time.Second * time.Duration(cfg.QuotesWebSocket.WriteTimeoutInSeconds),
			ClientBufferSize: cfg.QuotesWebSocket.ClientBufferSize,
			CheckOrigin:      createOriginChecker(cfg.WebServer.CorsAllowedOrigins),
		})
		if errNotifee != nil {
			return errNotifee
		}
		defer func() {
			log.LogIfError(wsQuotesNotifee.Close())
		}()

		quotesNotifees = append(quotesNotifees, wsQuotesNotifee)
		wsNotifee = wsQuotesNotifee
	}

	controller, err := swaps.NewSwapsController(swaps.ArgsSwapsController{
		SwapsAPI:             swapsAPI,
		GasPriceProvider:     gasService,
		ChainInteractor:      chainInteractor,
		Notifees:             quotesNotifees,
		QuotePollingInterval: time.Second * time.Duration(cfg.GeneralConfig.QuotePollingIntervalInSeconds),
		PollCountLimit:       cfg.GeneralConfig.PollCountLimit,
		FetchTokensThreshold: time.Hour * time.Duration(cfg.GeneralConfig.FetchTokensThresholdInHours),
		SwapsContractAddress: cfg.GeneralConfig.SwapsContractAddress,
	})
	if err != nil {
		return err
	}

	metadataPollInterval := time.Second * time.Duration(cfg.GeneralConfig.MetadataPollIntervalInSeconds)
	argsPollingHandler := polling.ArgsPollingHandler{
		Log:              log,
		Name:             "swaps metadata polling handler",
		PollingInterval:  metadataPollInterval,
		PollingWhenError: metadataPollInterval,
		Executor:         controller,
	}

	pollingHandler, err := polling.NewPollingHandler(argsPollingHandler)
	if err != nil {
		return err
	}

	httpServerWrapper, err := gin.NewWebServerHandler(gin.ArgsWebServerHandler{
		ListenAddress:      flagsConfig.RestApiInterface,
		Facade:             controller,
		WSHandler:          wsNotifee,
		CorsAllowedOrigins: cfg.WebServer.CorsAllowedOrigins,
	})
	if err != nil {
		return err
	}

	err = httpServerWrapper.StartHttpServer()
	if err != nil {
		return err
	}

	err = pollingHandler.StartProcessingLoop()
	if err != nil {
		return err
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	<-sigs

	log.Info("application closing, closing polling handler and web server...")

	log.LogIfError(httpServerWrapper.Close())
	log.LogIfError(controller.Close())

	return pollingHandler.Close()
}

func loadConfig(filepath string) (config.SwapsConfig, error) {
	cfg := config.SwapsConfig{}
	err := chainCore.LoadTomlFile(&cfg, filepath)
	if err != nil {
		return config.SwapsConfig{}, err
	}

	return cfg, nil
}

// createOriginChecker accepts every origin when no origins are configured, matching the REST CORS policy
func createOriginChecker(allowedOrigins []string) func(r *http.Request) bool {
	if len(allowedOrigins) == 0 {
		return func(_ *http.Request) bool {
			return true
		}
	}

	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[strings.ToLower(origin)] = struct{}{}
	}

	return func(r *http.Request) bool {
		_, ok := allowed[strings.ToLower(r.Header.Get("Origin"))]
		return ok
	}
}

func attachFileLogger(log logger.Logger, flagsConfig config.ContextFlagsConfig) (chainFactory.FileLoggingHandler, error) {
	var fileLogging chainFactory.FileLoggingHandler
	var err error
	if flagsConfig.SaveLogFile {
		args := file.ArgsFileLogging{
			WorkingDir:      flagsConfig.WorkingDir,
			DefaultLogsPath: defaultLogsPath,
			LogFilePrefix:   logFilePrefix,
		}
		fileLogging, err = file.NewFileLogging(args)
		if err != nil {
			return nil, fmt.Errorf("%w creating a log file", err)
		}
	}

	err = logger.SetDisplayByteSlice(logger.ToHex)
	log.LogIfError(err)
	logger.ToggleLoggerName(flagsConfig.EnableLogName)
	logLevelFlagValue := flagsConfig.LogLevel
	err = logger.SetLogLevel(logLevelFlagValue)
	if err != nil {
		return nil, err
	}

	if flagsConfig.DisableAnsiColor {
		err = logger.RemoveLogObserver(os.Stdout)
		if err != nil {
			return nil, err
		}

		err = logger.AddLogObserver(os.Stdout, &logger.PlainFormatter{})
		if err != nil {
			return nil, err
		}
	}
	log.Trace("logger updated", "level", logLevelFlagValue, "disable ANSI color", flagsConfig.DisableAnsiColor)

	return fileLogging, nil
}
