package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the full runtime configuration. Agent fields are mutated only
// by the operator; the scheduler re-reads them at the start of every cycle.
type Config struct {
	Symbol string `json:"symbol"`

	// Agent loop
	Active              bool    `json:"active"`
	IntervalSeconds     int     `json:"interval_seconds"`
	MinConfidence       float64 `json:"min_confidence"` // 0..100
	RiskPerTrade        float64 `json:"risk_per_trade"` // percent of balance
	SkipSearchGrounding bool    `json:"skip_search_grounding"`

	// Timeframes scanned top-down each cycle.
	HTFTimeframe   string `json:"htf_timeframe"`
	MTFTimeframe   string `json:"mtf_timeframe"`
	ScalpTimeframe string `json:"scalp_timeframe"`

	// Trading mode
	Simulated      bool    `json:"simulated"`
	InitialBalance float64 `json:"initial_balance"`

	// Analysis oracle
	LLMProvider    string `json:"llm_provider"` // openai or deepseek
	OracleModel    string `json:"oracle_model"`
	BackendURL     string `json:"backend_url"`
	OpenAIAPIKey   string `json:"openai_api_key"`
	DeepSeekAPIKey string `json:"deepseek_api_key"`

	// Execution bridge (non-simulated mode)
	BridgeEnabled bool   `json:"bridge_enabled"`
	BridgeURL     string `json:"bridge_url"`
	BridgeSecret  string `json:"bridge_secret"`

	// Longport market data (live snapshot provider)
	LongportAppKey      string `json:"longport_app_key"`
	LongportAppSecret   string `json:"longport_app_secret"`
	LongportAccessToken string `json:"longport_access_token"`

	// Headline context for oracle prompts
	NewsEnabled bool `json:"news_enabled"`

	// Eino debug
	EinoDebugEnabled bool `json:"eino_debug_enabled"`
	EinoDebugPort    int  `json:"eino_debug_port"`

	Debug bool `json:"debug"`
}

// DefaultConfig builds the configuration from defaults, a .env file when
// present, and environment variable overrides.
func DefaultConfig() *Config {
	cfg := &Config{
		Symbol: "XAUUSD",

		Active:              false,
		IntervalSeconds:     300,
		MinConfidence:       75,
		RiskPerTrade:        1.0,
		SkipSearchGrounding: false,

		HTFTimeframe:   "1d",
		MTFTimeframe:   "1h",
		ScalpTimeframe: "5m",

		Simulated:      true,
		InitialBalance: 100000,

		LLMProvider: "deepseek",
		OracleModel: "deepseek-chat",
		BackendURL:  "",

		BridgeEnabled: false,

		NewsEnabled: true,

		EinoDebugEnabled: false,
		EinoDebugPort:    52538,

		Debug: false,
	}

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg.loadFromEnv()

	return cfg
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("CHARTPILOT_SYMBOL"); val != "" {
		c.Symbol = val
	}

	if val := os.Getenv("CHARTPILOT_ACTIVE"); val != "" {
		if active, err := strconv.ParseBool(val); err == nil {
			c.Active = active
		}
	}
	if val := os.Getenv("CHARTPILOT_INTERVAL_SECONDS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil && v > 0 {
			c.IntervalSeconds = v
		}
	}
	if val := os.Getenv("CHARTPILOT_MIN_CONFIDENCE"); val != "" {
		if v, err := strconv.ParseFloat(val, 64); err == nil {
			c.MinConfidence = v
		}
	}
	if val := os.Getenv("CHARTPILOT_RISK_PER_TRADE"); val != "" {
		if v, err := strconv.ParseFloat(val, 64); err == nil {
			c.RiskPerTrade = v
		}
	}
	if val := os.Getenv("CHARTPILOT_SKIP_SEARCH_GROUNDING"); val != "" {
		if v, err := strconv.ParseBool(val); err == nil {
			c.SkipSearchGrounding = v
		}
	}

	if val := os.Getenv("CHARTPILOT_HTF_TIMEFRAME"); val != "" {
		c.HTFTimeframe = val
	}
	if val := os.Getenv("CHARTPILOT_MTF_TIMEFRAME"); val != "" {
		c.MTFTimeframe = val
	}
	if val := os.Getenv("CHARTPILOT_SCALP_TIMEFRAME"); val != "" {
		c.ScalpTimeframe = val
	}

	if val := os.Getenv("CHARTPILOT_SIMULATED"); val != "" {
		if v, err := strconv.ParseBool(val); err == nil {
			c.Simulated = v
		}
	}
	if val := os.Getenv("CHARTPILOT_INITIAL_BALANCE"); val != "" {
		if v, err := strconv.ParseFloat(val, 64); err == nil && v > 0 {
			c.InitialBalance = v
		}
	}

	if val := os.Getenv("LLM_PROVIDER"); val != "" {
		c.LLMProvider = val
	}
	if val := os.Getenv("ORACLE_MODEL"); val != "" {
		c.OracleModel = val
	}
	if val := os.Getenv("BACKEND_URL"); val != "" {
		c.BackendURL = val
	}
	if val := os.Getenv("OPENAI_API_KEY"); val != "" {
		c.OpenAIAPIKey = val
	}
	if val := os.Getenv("DEEPSEEK_API_KEY"); val != "" {
		c.DeepSeekAPIKey = val
	}

	if val := os.Getenv("CHARTPILOT_BRIDGE_ENABLED"); val != "" {
		if v, err := strconv.ParseBool(val); err == nil {
			c.BridgeEnabled = v
		}
	}
	if val := os.Getenv("CHARTPILOT_BRIDGE_URL"); val != "" {
		c.BridgeURL = val
	}
	if val := os.Getenv("CHARTPILOT_BRIDGE_SECRET"); val != "" {
		c.BridgeSecret = val
	}

	if val := os.Getenv("LONGPORT_APP_KEY"); val != "" {
		c.LongportAppKey = val
	}
	if val := os.Getenv("LONGPORT_APP_SECRET"); val != "" {
		c.LongportAppSecret = val
	}
	if val := os.Getenv("LONGPORT_ACCESS_TOKEN"); val != "" {
		c.LongportAccessToken = val
	}

	if val := os.Getenv("CHARTPILOT_NEWS_ENABLED"); val != "" {
		if v, err := strconv.ParseBool(val); err == nil {
			c.NewsEnabled = v
		}
	}

	if val := os.Getenv("EINO_DEBUG_ENABLED"); val != "" {
		if v, err := strconv.ParseBool(val); err == nil {
			c.EinoDebugEnabled = v
		}
	}
	if val := os.Getenv("EINO_DEBUG_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			c.EinoDebugPort = port
		}
	}

	if val := os.Getenv("CHARTPILOT_DEBUG"); val != "" {
		if v, err := strconv.ParseBool(val); err == nil {
			c.Debug = v
		}
	}
}

// Validate rejects configurations the scheduler cannot run with.
func (c *Config) Validate() error {
	if c.IntervalSeconds <= 0 {
		return fmt.Errorf("interval_seconds must be positive, got %d", c.IntervalSeconds)
	}
	if c.MinConfidence < 0 || c.MinConfidence > 100 {
		return fmt.Errorf("min_confidence must be within 0..100, got %v", c.MinConfidence)
	}
	if c.RiskPerTrade <= 0 || c.RiskPerTrade > 100 {
		return fmt.Errorf("risk_per_trade must be within (0, 100], got %v", c.RiskPerTrade)
	}
	if c.InitialBalance <= 0 {
		return fmt.Errorf("initial_balance must be positive, got %v", c.InitialBalance)
	}
	switch c.LLMProvider {
	case "openai", "deepseek":
	default:
		return fmt.Errorf("unsupported llm_provider %q", c.LLMProvider)
	}
	return nil
}
