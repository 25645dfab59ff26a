package config

// SwapsConfig swaps service configuration struct
type SwapsConfig struct {
	GeneralConfig   GeneralConfig
	SwapsAPI        SwapsAPIConfig
	GasStation      GasStationConfig
	Chain           ChainConfig
	WebServer       WebServerConfig
	QuotesWebSocket QuotesWebSocketConfig
}

// GeneralConfig general swaps service configuration struct
type GeneralConfig struct {
	QuotePollingIntervalInSeconds uint64
	PollCountLimit                uint32
	FetchTokensThresholdInHours   uint64
	MetadataPollIntervalInSeconds uint64
	SwapsContractAddress          string
	Logs                          LogsConfig
}

// LogsConfig will hold settings related to the logging sub-system
type LogsConfig struct {
	LogFileLifeSpanInSec int
	LogFileLifeSpanInMB  int
}

// SwapsAPIConfig holds the swaps API endpoints and timeouts
type SwapsAPIConfig struct {
	BaseURL                    string
	TokenPriceURL              string
	RequestTimeoutInSeconds    uint64
	AggregatorTimeoutInSeconds uint64
}

// GasStationConfig holds the gas station configuration
type GasStationConfig struct {
	ApiURL   string
	Selector string
}

// ChainConfig holds the ethereum node configuration
type ChainConfig struct {
	NetworkAddress string
}

// WebServerConfig holds the REST server configuration
type WebServerConfig struct {
	CorsAllowedOrigins []string
}

// QuotesWebSocketConfig holds the quotes websocket notifee configuration
type QuotesWebSocketConfig struct {
	Enabled               bool
	WriteTimeoutInSeconds uint64
	ClientBufferSize      int
}

// ContextFlagsConfig the configuration for flags
type ContextFlagsConfig struct {
	WorkingDir        string
	LogLevel          string
	DisableAnsiColor  bool
	ConfigurationFile string
	SaveLogFile       bool
	EnableLogName     bool
	RestApiInterface  string
}
