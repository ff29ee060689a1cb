package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dyike/ChartPilotGo/config"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "chartpilot",
		Short: "ChartPilotGo - autonomous chart-driven trading agent",
		Long: `ChartPilotGo runs a cyclical trading agent: it scans chart snapshots
across three timeframes, asks a vision-capable model for a trade signal and
books the result on a paper ledger (or routes it to an execution bridge).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunAgent(cfg)
		},
	}

	rootCmd.AddCommand(newRunCmd(cfg))
	rootCmd.AddCommand(newConfigCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")

	return rootCmd
}

// newRunCmd creates the run command
func newRunCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [SYMBOL]",
		Short: "Run the trading agent",
		Long: `Start the agent loop for a symbol.
Example: chartpilot run XAUUSD --interval=300`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				cfg.Symbol = args[0]
			}
			if interval, _ := cmd.Flags().GetInt("interval"); interval > 0 {
				cfg.IntervalSeconds = interval
			}
			if confidence, _ := cmd.Flags().GetFloat64("min-confidence"); confidence > 0 {
				cfg.MinConfidence = confidence
			}
			return RunAgent(cfg)
		},
	}

	cmd.Flags().Int("interval", 0, "Cycle interval in seconds (default from config)")
	cmd.Flags().Float64("min-confidence", 0, "Minimum confidence score to execute (0-100)")

	return cmd
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("ChartPilotGo v1.0.0")
			fmt.Println("Autonomous chart-driven trading agent")
		},
	}
}

// newConfigCmd creates the config command
func newConfigCmd(cfg *config.Config) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "Inspect and validate ChartPilotGo configuration",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Run: func(cmd *cobra.Command, args []string) {
			showConfig(cfg)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateConfig(cfg)
		},
	})

	return configCmd
}

// showConfig displays the current configuration
func showConfig(cfg *config.Config) {
	fmt.Println("Current ChartPilotGo Configuration:")
	fmt.Println("═══════════════════════════════════════")
	fmt.Printf("Symbol:               %s\n", cfg.Symbol)
	fmt.Printf("Cycle Interval:       %ds\n", cfg.IntervalSeconds)
	fmt.Printf("Min Confidence:       %.0f\n", cfg.MinConfidence)
	fmt.Printf("Risk Per Trade:       %.2f%%\n", cfg.RiskPerTrade)
	fmt.Printf("Timeframes:           %s / %s / %s\n", cfg.HTFTimeframe, cfg.MTFTimeframe, cfg.ScalpTimeframe)
	fmt.Println()
	fmt.Printf("Simulated Mode:       %t\n", cfg.Simulated)
	fmt.Printf("Initial Balance:      %.2f\n", cfg.InitialBalance)
	fmt.Printf("Bridge Enabled:       %t\n", cfg.BridgeEnabled)
	fmt.Println()
	fmt.Printf("LLM Provider:         %s\n", cfg.LLMProvider)
	fmt.Printf("Oracle Model:         %s\n", cfg.OracleModel)
	fmt.Printf("Backend URL:          %s\n", cfg.BackendURL)
	fmt.Printf("Skip Grounding:       %t\n", cfg.SkipSearchGrounding)
	fmt.Printf("News Context:         %t\n", cfg.NewsEnabled)
	fmt.Println()
	fmt.Printf("Debug Mode:           %t\n", cfg.Debug)
	fmt.Printf("Eino Debug:           %t\n", cfg.EinoDebugEnabled)
	if cfg.EinoDebugEnabled {
		fmt.Printf("Eino Debug Port:      %d\n", cfg.EinoDebugPort)
	}
	fmt.Println()

	fmt.Println("API Configuration:")
	fmt.Println("─────────────────────")
	if cfg.OpenAIAPIKey != "" {
		fmt.Println("OpenAI API:           ✅ Configured")
	} else {
		fmt.Println("OpenAI API:           ❌ Not configured")
	}
	if cfg.DeepSeekAPIKey != "" {
		fmt.Println("DeepSeek API:         ✅ Configured")
	} else {
		fmt.Println("DeepSeek API:         ❌ Not configured")
	}
	if cfg.LongportAppKey != "" && cfg.LongportAppSecret != "" && cfg.LongportAccessToken != "" {
		fmt.Println("Longport Data:        ✅ Configured")
	} else {
		fmt.Println("Longport Data:        ❌ Not configured (synthetic charts)")
	}
}

// validateConfig validates the configuration and credentials
func validateConfig(cfg *config.Config) error {
	fmt.Println("Validating ChartPilotGo Configuration...")
	fmt.Println("═══════════════════════════════════════")

	fmt.Print("Checking configuration values... ")
	if err := cfg.Validate(); err != nil {
		fmt.Println("❌")
		return err
	}
	fmt.Println("✅")

	fmt.Print("Checking API keys... ")
	var warnings []string
	switch cfg.LLMProvider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			warnings = append(warnings, "OPENAI_API_KEY not set; analysis calls will fail")
		}
	case "deepseek":
		if cfg.DeepSeekAPIKey == "" {
			warnings = append(warnings, "DEEPSEEK_API_KEY not set; analysis calls will fail")
		}
	}
	if cfg.LongportAppKey == "" || cfg.LongportAppSecret == "" || cfg.LongportAccessToken == "" {
		warnings = append(warnings, "Longport credentials not set; falling back to synthetic charts")
	}
	if !cfg.Simulated && (!cfg.BridgeEnabled || cfg.BridgeURL == "") {
		warnings = append(warnings, "non-simulated mode without a configured bridge cannot execute")
	}

	if len(warnings) > 0 {
		fmt.Println("⚠️")
		for _, warning := range warnings {
			fmt.Printf("  ⚠️  %s\n", warning)
		}
	} else {
		fmt.Println("✅")
	}

	fmt.Println()
	if len(warnings) == 0 {
		fmt.Println("✅ Configuration validation completed successfully!")
	} else {
		fmt.Printf("⚠️  Configuration validation completed with %d warnings.\n", len(warnings))
	}

	return nil
}
